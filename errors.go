package mjpegrtsp

import "github.com/pkg/errors"

// Error taxonomy (spec.md §7): sentinel errors the stream resolver and
// FSM use to decide which RTSP status code a failure maps to.
var (
	// ErrStreamNotFound maps to RTSP 404.
	ErrStreamNotFound = errors.New("mjpegrtsp: stream not found")

	// ErrUnsupportedMedia maps to RTSP 415 (progressive JPEG rejected
	// at stream construction, per spec.md §9).
	ErrUnsupportedMedia = errors.New("mjpegrtsp: unsupported media")

	// ErrMalformedRequest maps to RTSP 400.
	ErrMalformedRequest = errors.New("mjpegrtsp: malformed request")
)
