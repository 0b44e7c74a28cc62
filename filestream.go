package mjpegrtsp

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/tidescope/mjpegrtsp/pkg/jpeg"
	"github.com/tidescope/mjpegrtsp/pkg/rtpmjpeg"
)

// FileStreamFactory resolves RTSP URL paths against a root directory,
// reading and dissecting the JPEG once per path and caching the result
// (spec.md §6: "the DESCRIBE URL path is resolved to <src><path>").
type FileStreamFactory struct {
	Root         string
	SSRCSeed     uint32
	Quantization uint8

	// FPS is advertised in each stream's SDP body (a=framerate) and
	// does not affect packetisation; MTU bounds the RTP payload size
	// each stream's encoder fragments to (spec.md §3 ambient
	// ServerConfig: "target fps" / "MTU").
	FPS int
	MTU int

	mu      sync.Mutex
	streams map[string]Stream
}

// NewFileStreamFactory returns a factory rooted at dir.
func NewFileStreamFactory(dir string, ssrcSeed uint32, quantization uint8, fps, mtu int) *FileStreamFactory {
	return &FileStreamFactory{
		Root:         dir,
		SSRCSeed:     ssrcSeed,
		Quantization: quantization,
		FPS:          fps,
		MTU:          mtu,
		streams:      make(map[string]Stream),
	}
}

// Resolve implements StreamFactory.
func (f *FileStreamFactory) Resolve(path string) (Stream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if s, ok := f.streams[path]; ok {
		return s, nil
	}

	cleaned := filepath.Clean("/" + path)
	full := filepath.Join(f.Root, strings.TrimPrefix(cleaned, "/"))

	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrStreamNotFound, "path %q", path)
		}
		return nil, errors.Wrapf(err, "reading %q", full)
	}

	parsed, err := jpeg.Parse(data, len(data))
	// jpeg.Parse returns a non-nil Parsed alongside ErrProgressive for
	// SOF2 input (dissector.go's scan-marker branch), so the
	// progressive check must run before the generic error branch below
	// or it never fires.
	if parsed != nil && parsed.Progressive {
		return nil, errors.Wrapf(ErrUnsupportedMedia, "progressive JPEG at %q", path)
	}
	if err != nil {
		return nil, errors.Wrapf(ErrStreamNotFound, "dissecting %q: %v", path, err)
	}

	enc := rtpmjpeg.NewEncoder(f.SSRCSeed)
	if f.Quantization != 0 {
		enc.Quantization = f.Quantization
	}
	if f.MTU != 0 {
		enc.MTU = f.MTU
	}

	s := &staticJPEGStream{
		width:   parsed.Width,
		height:  parsed.Height,
		fps:     f.FPS,
		encoder: enc,
		frame:   parsed,
	}
	f.streams[path] = s
	return s, nil
}
