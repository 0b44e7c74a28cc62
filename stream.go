package mjpegrtsp

import (
	"time"

	"github.com/tidescope/mjpegrtsp/pkg/jpeg"
	"github.com/tidescope/mjpegrtsp/pkg/rtp"
	"github.com/tidescope/mjpegrtsp/pkg/rtpmjpeg"
	"github.com/tidescope/mjpegrtsp/pkg/sdp"
)

// Stream is a resolvable, packetisable source of RTP/MJPEG traffic
// (spec.md §4.4's "stream source implementing next_packet()").
// Resolution happens once per DESCRIBE/SETUP URL path; NextPackets is
// called once per publisher tick.
type Stream interface {
	// Width and Height are the decoded frame's dimensions, needed for
	// the SDP cliprect attribute.
	Width() int
	Height() int

	// Describe builds the SDP body advertising this stream on the
	// given video port.
	Describe(opts sdp.Options) (*sdp.SessionDescription, error)

	// NextPackets returns the next frame's RTP packets. Exhausted
	// sources loop rather than signal end-of-stream (spec.md §4.4:
	// "loop playback for the still-JPEG case").
	NextPackets(now time.Time) ([]*rtp.Packet, error)
}

// StreamFactory resolves a URL path to a Stream, constructing it on
// first use and rejecting anything the packetiser cannot serve
// (spec.md §9: SOF2/progressive rejected at construction).
type StreamFactory interface {
	Resolve(path string) (Stream, error)
}

// staticJPEGStream packetises one still JPEG frame repeatedly, reusing
// a single rtpmjpeg.Encoder so sequence numbers stay monotonic across
// ticks (spec.md §4.3: "the packetiser owns monotonically increasing
// sequence numbers across calls").
type staticJPEGStream struct {
	width, height int
	fps           int
	encoder       *rtpmjpeg.Encoder
	frame         *jpeg.Parsed
}

func (s *staticJPEGStream) Width() int  { return s.width }
func (s *staticJPEGStream) Height() int { return s.height }

func (s *staticJPEGStream) Describe(opts sdp.Options) (*sdp.SessionDescription, error) {
	opts.Width = s.width
	opts.Height = s.height
	opts.FPS = s.fps
	return sdp.BuildJPEGDescription(opts)
}

func (s *staticJPEGStream) NextPackets(now time.Time) ([]*rtp.Packet, error) {
	return s.encoder.Encode(now, s.frame)
}
