// Package rtp implements the minimal subset of RFC 3550 §5.1 this
// server needs: serialising and parsing the fixed 12-byte RTP header
// plus payload. It intentionally does not interpret CSRC identifiers
// or extension header contents, matching spec.md §4.2.
package rtp

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

const (
	// Version is the only RTP version this package produces or accepts.
	Version = 2

	fixedHeaderSize     = 12
	extensionHeaderSize = 4
)

// ErrShortHeader is returned by Parse when the input is shorter than
// the minimum 12-byte RTP header.
var ErrShortHeader = errors.New("rtp: buffer shorter than fixed header")

// Packet is an RTP packet per RFC 3550 §5.1.
type Packet struct {
	Version        uint8
	Padding        bool
	Extension      bool
	CSRCCount      uint8
	Marker         bool
	PayloadType    uint8
	SequenceNumber uint16
	Timestamp      uint32
	SSRC           uint32
	Payload        []byte
}

// MarshalTo serialises p into buf at the given offset, growing buf if
// necessary, and returns the full resulting slice. The wire header is
// exactly 12 bytes when CSRCCount is 0; this package never emits CSRC
// identifiers or extension headers, since neither is used by the
// RTP/MJPEG payload format (spec.md §4.2/§4.3).
func (p *Packet) MarshalTo(buf []byte, offset int) []byte {
	total := offset + fixedHeaderSize + len(p.Payload)
	if cap(buf) < total {
		grown := make([]byte, total)
		copy(grown, buf[:offset])
		buf = grown
	} else {
		buf = buf[:total]
	}

	version := p.Version
	if version == 0 {
		version = Version
	}

	buf[offset] = version<<6 | boolBit(p.Padding)<<5 | boolBit(p.Extension)<<4 | (p.CSRCCount & 0x0F)
	buf[offset+1] = boolBit(p.Marker)<<7 | (p.PayloadType & 0x7F)
	binary.BigEndian.PutUint16(buf[offset+2:], p.SequenceNumber)
	binary.BigEndian.PutUint32(buf[offset+4:], p.Timestamp)
	binary.BigEndian.PutUint32(buf[offset+8:], p.SSRC)

	copy(buf[offset+fixedHeaderSize:], p.Payload)
	return buf
}

// Marshal serialises p into a freshly allocated buffer.
func (p *Packet) Marshal() []byte {
	return p.MarshalTo(nil, 0)
}

// Parse decodes a Packet from buf. It rejects input shorter than the
// 12-byte fixed header with ErrShortHeader. When the extension bit is
// set, the 4-byte extension header and the body its length field
// announces are skipped; the body is not interpreted (spec.md §4.2).
func Parse(buf []byte) (*Packet, error) {
	if len(buf) < fixedHeaderSize {
		return nil, ErrShortHeader
	}

	p := &Packet{
		Version:        buf[0] >> 6,
		Padding:        buf[0]&0x20 != 0,
		Extension:      buf[0]&0x10 != 0,
		CSRCCount:      buf[0] & 0x0F,
		Marker:         buf[1]&0x80 != 0,
		PayloadType:    buf[1] & 0x7F,
		SequenceNumber: binary.BigEndian.Uint16(buf[2:4]),
		Timestamp:      binary.BigEndian.Uint32(buf[4:8]),
		SSRC:           binary.BigEndian.Uint32(buf[8:12]),
	}

	idx := fixedHeaderSize + int(p.CSRCCount)*4
	if len(buf) < idx {
		return nil, errors.Wrap(ErrShortHeader, "buffer too short for CSRC list")
	}

	if p.Extension {
		if len(buf) < idx+extensionHeaderSize {
			return nil, errors.Wrap(ErrShortHeader, "buffer too short for extension header")
		}
		extLenWords := int(binary.BigEndian.Uint16(buf[idx+2 : idx+4]))
		idx += extensionHeaderSize + extLenWords*4
		if len(buf) < idx {
			return nil, errors.Wrap(ErrShortHeader, "buffer too short for extension body")
		}
	}

	p.Payload = buf[idx:]
	return p, nil
}

func boolBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
