// Package rtpmjpeg fragments a dissected JPEG frame into RTP packets
// following RFC 2435, using the marker data produced by pkg/jpeg.
package rtpmjpeg

import (
	"time"

	"github.com/pkg/errors"

	"github.com/tidescope/mjpegrtsp/pkg/jpeg"
	"github.com/tidescope/mjpegrtsp/pkg/rtp"
	"github.com/tidescope/mjpegrtsp/pkg/rtpmjpeg/headers"
)

const (
	// ClockRate is the fixed 90kHz RTP clock used by RFC 2435.
	ClockRate = 90000

	// PayloadType is the static RTP payload type for JPEG (RFC 3551 §6).
	PayloadType = 26

	// MinQuantization is the smallest Q value that causes this
	// packetiser to inline quantisation tables, per spec.md §4.3 step 1
	// and §9 open question ("Q >= 128 so tables are inlined").
	MinQuantization = 128

	// restartTypeBit marks a JPEG type as carrying restart markers
	// (RFC 2435 §3.1.3).
	restartTypeBit = 0x40
)

// ErrBadGeometry is returned by Encode when the frame's dimensions are
// not multiples of 8 (spec.md §4.3 step 1).
var ErrBadGeometry = errors.New("rtpmjpeg: width and height must be multiples of 8")

// Encoder packetises dissected JPEG frames into RTP/MJPEG packets. It
// owns a monotonically increasing sequence number across calls to
// Encode and a fixed SSRC and origin instant used for timestamp
// derivation (spec.md §4.3).
type Encoder struct {
	// SSRC is the synchronisation source identifier stamped on every
	// packet this encoder produces.
	SSRC uint32

	// Quantization is the Q value advertised in the main header. It
	// must be >= MinQuantization so tables are inlined on the first
	// fragment of every frame; the default, set by NewEncoder, is 255.
	Quantization uint8

	// MTU bounds the RTP payload size of each packet: the RFC 2435
	// headers plus the scan chunk. The 12-byte RTP header is not
	// counted. The default, set by NewEncoder, is 1400.
	MTU int

	nextSeq uint16
	origin  time.Time
}

// NewEncoder returns an Encoder with the given SSRC, using the current
// instant as the timestamp origin (spec.md §4.3: "an origin captured
// at construction").
func NewEncoder(ssrc uint32) *Encoder {
	return &Encoder{
		SSRC:         ssrc,
		Quantization: 255,
		MTU:          1400,
		origin:       time.Now(),
	}
}

func (e *Encoder) timestampAt(now time.Time) uint32 {
	return uint32(now.Sub(e.origin).Seconds() * ClockRate)
}

// Encode fragments a dissected JPEG frame into an ordered sequence of
// RTP packets at the given wall-clock instant. Exactly one returned
// packet has Marker set, and it is the last (spec.md §4.3 invariant).
// An empty scan produces zero packets and is not an error.
func (e *Encoder) Encode(now time.Time, frame *jpeg.Parsed) ([]*rtp.Packet, error) {
	if frame.Width%8 != 0 || frame.Height%8 != 0 {
		return nil, ErrBadGeometry
	}
	if len(frame.Scan) == 0 {
		return nil, nil
	}

	if e.Quantization < MinQuantization {
		e.Quantization = MinQuantization
	}
	if e.MTU <= 0 {
		e.MTU = 1400
	}

	ts := e.timestampAt(now)
	hasDRI := frame.RestartInterval != 0
	quantTables := marshalQuantTables(frame.QuantTables)

	var packets []*rtp.Packet
	offset := 0
	scan := frame.Scan

	for offset < len(scan) {
		var payload []byte

		jpegType := uint8(0)
		if hasDRI {
			jpegType |= restartTypeBit
		}

		payload = headers.Main{
			FragmentOffset: uint32(offset),
			Type:           jpegType,
			Q:              e.Quantization,
			Width8:         uint8(frame.Width / 8),
			Height8:        uint8(frame.Height / 8),
		}.Marshal(payload)

		if hasDRI {
			payload = headers.RestartMarker{
				Interval: frame.RestartInterval,
				First:    true,
				Last:     true,
				Count:    0x3FFF,
			}.Marshal(payload)
		}

		if offset == 0 && e.Quantization >= MinQuantization {
			payload = headers.QuantizationTable{
				Precision: 0,
				Tables:    quantTables,
			}.Marshal(payload)
		}

		remaining := e.MTU - len(payload)
		if remaining <= 0 {
			return nil, errors.New("rtpmjpeg: MTU too small for headers")
		}
		chunk := len(scan) - offset
		if chunk > remaining {
			chunk = remaining
		}
		payload = append(payload, scan[offset:offset+chunk]...)
		offset += chunk

		packets = append(packets, &rtp.Packet{
			Version:        rtp.Version,
			PayloadType:    PayloadType,
			SequenceNumber: e.nextSeq,
			Timestamp:      ts,
			SSRC:           e.SSRC,
			Marker:         offset >= len(scan),
			Payload:        payload,
		})
		e.nextSeq++
	}

	return packets, nil
}

// marshalQuantTables concatenates the JPEG's quantisation tables in
// ascending destination-id order: luminance (id 0) first, then
// chrominance (id 1), matching RFC 2435 §4.1. This resolves spec.md §9's
// open question about the destination-id swap present in some call
// sites of the original source: that swap is not reproduced here.
func marshalQuantTables(tables map[uint8]*jpeg.QuantizationTable) []byte {
	if len(tables) == 0 {
		return nil
	}

	maxID := uint8(0)
	for id := range tables {
		if id > maxID {
			maxID = id
		}
	}

	var out []byte
	for id := uint8(0); id <= maxID; id++ {
		if t, ok := tables[id]; ok {
			out = append(out, t.Data[:]...)
		}
	}
	return out
}
