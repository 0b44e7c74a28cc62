package jpeg

import "github.com/pkg/errors"

// Sentinel errors surfaced by Parse. Callers at the RTSP boundary map
// these onto status codes (see spec.md §7): NoSOI/Truncated/BadMarkerLength
// become MalformedJpeg -> 404, Progressive becomes Unsupported -> 415.
var (
	// ErrNoSOI is returned when the input does not begin with 0xFF 0xD8.
	ErrNoSOI = errors.New("jpeg: missing start-of-image marker")

	// ErrTruncated is returned when a marker segment runs past the end
	// of the input.
	ErrTruncated = errors.New("jpeg: truncated marker segment")

	// ErrBadMarkerLength is returned when a marker's length field is
	// inconsistent with the remaining input.
	ErrBadMarkerLength = errors.New("jpeg: invalid marker length")

	// ErrProgressive is returned when the frame header is SOF2
	// (progressive DCT); streaming cores cannot fragment progressive
	// scans meaningfully and must reject at stream construction.
	ErrProgressive = errors.New("jpeg: progressive (SOF2) frames are not supported for streaming")

	// ErrNoScan is returned when EOI is reached without an SOS marker.
	ErrNoScan = errors.New("jpeg: no start-of-scan marker found")

	// ErrUnsupportedPrecision is returned for any JPEG with non-8-bit
	// sample precision.
	ErrUnsupportedPrecision = errors.New("jpeg: unsupported sample precision")

	// ErrUnsupportedComponents is returned for component counts other
	// than 1, 3 or 4.
	ErrUnsupportedComponents = errors.New("jpeg: unsupported component count")

	// ErrUnsupportedSampling is returned when a component's sampling
	// factors fall outside {1,2,4}, or a non-first component is not 1x1.
	ErrUnsupportedSampling = errors.New("jpeg: unsupported sampling factors")
)
