// Package headers implements the RTP/MJPEG payload headers defined by
// RFC 2435 §3: the 8-byte main header, the optional 4-byte restart
// marker header, and the optional quantisation table header.
package headers

import "github.com/pkg/errors"

// ErrShortBuffer is returned when a header's Unmarshal input is too
// short to hold the fixed-size fields.
var ErrShortBuffer = errors.New("rtpmjpeg/headers: buffer too short")

// Main is the 8-byte main JPEG header (RFC 2435 §3.1).
type Main struct {
	TypeSpecific   uint8
	FragmentOffset uint32 // 24-bit value, big-endian on the wire
	Type           uint8
	Q              uint8
	Width8         uint8 // width/8
	Height8        uint8 // height/8
}

// Marshal appends the marshalled header to buf and returns the result.
func (h Main) Marshal(buf []byte) []byte {
	buf = append(buf, h.TypeSpecific)
	buf = append(buf, byte(h.FragmentOffset>>16), byte(h.FragmentOffset>>8), byte(h.FragmentOffset))
	buf = append(buf, h.Type, h.Q, h.Width8, h.Height8)
	return buf
}

// Unmarshal decodes a Main header from the front of buf and returns
// the number of bytes consumed.
func (h *Main) Unmarshal(buf []byte) (int, error) {
	if len(buf) < 8 {
		return 0, ErrShortBuffer
	}
	h.TypeSpecific = buf[0]
	h.FragmentOffset = uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	h.Type = buf[4]
	h.Q = buf[5]
	h.Width8 = buf[6]
	h.Height8 = buf[7]
	return 8, nil
}
