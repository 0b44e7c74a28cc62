package headers

import "github.com/pkg/errors"

// errUnsupportedPrecision is returned when a quantisation table header
// declares a coefficient precision other than 8-bit (RFC 2435 §3.1.8
// only defines precision 0).
var errUnsupportedPrecision = errors.New("rtpmjpeg/headers: unsupported quantization table precision")

// QuantizationTable is the optional 4-byte quantisation table header
// plus the table bytes that follow it, present on the first fragment
// when Main.Q >= 128 (RFC 2435 §3.1.8).
type QuantizationTable struct {
	Precision uint8
	Tables    []byte // concatenated 64-byte tables, one per destination
}

// Marshal appends the marshalled header and table bytes to buf.
func (h QuantizationTable) Marshal(buf []byte) []byte {
	buf = append(buf, 0) // MBZ
	buf = append(buf, h.Precision)
	l := len(h.Tables)
	buf = append(buf, byte(l>>8), byte(l))
	buf = append(buf, h.Tables...)
	return buf
}

// Unmarshal decodes a QuantizationTable from the front of buf.
func (h *QuantizationTable) Unmarshal(buf []byte) (int, error) {
	if len(buf) < 4 {
		return 0, ErrShortBuffer
	}
	h.Precision = buf[1]
	if h.Precision != 0 {
		return 0, errUnsupportedPrecision
	}
	length := int(buf[2])<<8 | int(buf[3])
	if len(buf)-4 < length {
		return 0, ErrShortBuffer
	}
	h.Tables = buf[4 : 4+length]
	return 4 + length, nil
}
