package jpeg

import "github.com/pkg/errors"

// Component describes one SOF component entry.
type Component struct {
	ID               uint8
	HorizSampling    uint8
	VertSampling     uint8
	QuantTableDestID uint8
}

// QuantizationTable is a single DQT table, keyed by destination id.
// By convention id 0 holds the luminance table and id 1 the
// chrominance table (RFC 2435 §4.1).
type QuantizationTable struct {
	ID   uint8
	Data [64]byte
}

// HuffmanTable is a single DHT table. The streaming core treats this
// as an opaque lookup the packetiser never reads (spec.md §9); it is
// retained here only so the dissector is a complete marker walker.
type HuffmanTable struct {
	Class       uint8 // 0 = DC, 1 = AC
	Destination uint8
	Counts      [16]byte
	Values      []byte
}

// Parsed is the result of dissecting one JFIF bitstream.
type Parsed struct {
	Width           int
	Height          int
	Progressive     bool
	RestartInterval uint16 // 0 if no DRI marker was present
	Components      []Component
	QuantTables     map[uint8]*QuantizationTable
	HuffmanTables   []HuffmanTable

	// Scan holds the entropy-coded bytes: everything after the SOS
	// marker's header up to (but excluding) the EOI marker.
	Scan []byte
}

// Parse dissects buf, which must begin with SOI (0xFF 0xD8), and walks
// markers sequentially until SOS, at which point it records the scan
// start and searches for the terminating EOI. end, if non-negative,
// bounds how much of buf is considered; a negative end means "to the
// end of buf".
func Parse(buf []byte, end int) (*Parsed, error) {
	if end < 0 || end > len(buf) {
		end = len(buf)
	}
	if len(buf) < 2 || buf[0] != markerPrefix || buf[1] != MarkerStartOfImage {
		return nil, ErrNoSOI
	}

	p := &Parsed{QuantTables: make(map[uint8]*QuantizationTable)}
	i := 2

	for {
		if i+1 >= end {
			return nil, ErrTruncated
		}
		if buf[i] != markerPrefix {
			return nil, errors.Wrapf(ErrTruncated, "expected marker prefix at offset %d", i)
		}
		marker := buf[i+1]
		i += 2

		if isStandalone(marker) {
			if marker == MarkerEndOfImage {
				return nil, ErrNoScan
			}
			continue
		}

		if i+1 >= end {
			return nil, ErrTruncated
		}
		segLen := int(buf[i])<<8 | int(buf[i+1])
		if segLen < 2 || i+segLen > end {
			return nil, ErrBadMarkerLength
		}
		body := buf[i+2 : i+segLen]
		segEnd := i + segLen

		switch marker {
		case markerAPP0:
			if err := parseAPP0(body); err != nil {
				return nil, err
			}

		case MarkerDefineQuantizationTable:
			if err := parseDQT(body, p); err != nil {
				return nil, err
			}

		case MarkerDefineHuffmanTable:
			tbl, err := parseDHT(body)
			if err != nil {
				return nil, err
			}
			p.HuffmanTables = append(p.HuffmanTables, tbl)

		case MarkerStartOfFrame0, MarkerStartOfFrame1:
			if err := parseSOF(body, p); err != nil {
				return nil, err
			}

		case MarkerStartOfFrame2:
			p.Progressive = true
			if err := parseSOF(body, p); err != nil {
				return nil, err
			}

		case MarkerDefineRestartInterval:
			if len(body) != 2 {
				return nil, ErrBadMarkerLength
			}
			p.RestartInterval = uint16(body[0])<<8 | uint16(body[1])

		case MarkerStartOfScan:
			n, err := parseSOSComponentCount(body)
			if err != nil {
				return nil, err
			}
			_ = n
			scanStart := segEnd
			eoi := findEOI(buf, scanStart, end)
			if eoi < 0 {
				return nil, ErrTruncated
			}
			p.Scan = buf[scanStart:eoi]
			if p.Progressive {
				return p, ErrProgressive
			}
			return p, nil

		default:
			// Unknown APPn/COM or other segment with a length field: skip.
		}

		i = segEnd
	}
}

// findEOI scans for the next 0xFF 0xD9 pair starting at off, ignoring
// any 0xFF00 byte-stuffing sequences and restart markers embedded in
// the entropy-coded scan.
func findEOI(buf []byte, off, end int) int {
	for i := off; i+1 < end; i++ {
		if buf[i] != markerPrefix {
			continue
		}
		b := buf[i+1]
		if b == MarkerEndOfImage {
			return i
		}
		if b == 0x00 || (b >= 0xD0 && b <= 0xD7) {
			i++ // stuffed byte or restart marker: not a real marker boundary
			continue
		}
	}
	return -1
}

func parseAPP0(body []byte) error {
	if len(body) < 5 {
		return ErrBadMarkerLength
	}
	if string(body[:5]) != jfifSignature {
		// Not a JFIF APP0; other APPn payloads (Exif, etc.) are skipped
		// by the caller already having sized the segment, nothing to do.
		return nil
	}
	return nil
}

func parseDQT(body []byte, p *Parsed) error {
	for len(body) > 0 {
		precision := body[0] >> 4
		id := body[0] & 0x0F
		body = body[1:]

		if precision != 0 {
			return ErrUnsupportedPrecision
		}
		if len(body) < 64 {
			return ErrBadMarkerLength
		}

		tbl := &QuantizationTable{ID: id}
		copy(tbl.Data[:], body[:64])
		p.QuantTables[id] = tbl
		body = body[64:]
	}
	return nil
}

func parseDHT(body []byte) (HuffmanTable, error) {
	if len(body) < 17 {
		return HuffmanTable{}, ErrBadMarkerLength
	}
	tbl := HuffmanTable{
		Class:       body[0] >> 4,
		Destination: body[0] & 0x0F,
	}
	copy(tbl.Counts[:], body[1:17])

	n := 0
	for _, c := range tbl.Counts {
		n += int(c)
	}
	if len(body) < 17+n {
		return HuffmanTable{}, ErrBadMarkerLength
	}
	tbl.Values = append([]byte(nil), body[17:17+n]...)
	return tbl, nil
}

func parseSOF(body []byte, p *Parsed) error {
	if len(body) < 6 {
		return ErrBadMarkerLength
	}
	precision := body[0]
	if precision != 8 {
		return ErrUnsupportedPrecision
	}
	p.Height = int(body[1])<<8 | int(body[2])
	p.Width = int(body[3])<<8 | int(body[4])
	numComponents := int(body[5])
	if numComponents != 1 && numComponents != 3 && numComponents != 4 {
		return ErrUnsupportedComponents
	}
	if len(body) < 6+numComponents*3 {
		return ErrBadMarkerLength
	}

	p.Components = make([]Component, numComponents)
	for i := 0; i < numComponents; i++ {
		off := 6 + i*3
		h := body[off+1] >> 4
		v := body[off+1] & 0x0F
		if !validSampling(h) || !validSampling(v) {
			return ErrUnsupportedSampling
		}
		if i > 0 && (h != 1 || v != 1) {
			return ErrUnsupportedSampling
		}
		p.Components[i] = Component{
			ID:               body[off],
			HorizSampling:    h,
			VertSampling:     v,
			QuantTableDestID: body[off+2],
		}
	}
	return nil
}

func validSampling(v uint8) bool {
	return v == 1 || v == 2 || v == 4
}

func parseSOSComponentCount(body []byte) (int, error) {
	if len(body) < 1 {
		return 0, ErrBadMarkerLength
	}
	n := int(body[0])
	if len(body) < 1+n*2+3 {
		return 0, ErrBadMarkerLength
	}
	return n, nil
}
