package jpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lumaQuantTable() []byte {
	t := make([]byte, 64)
	for i := range t {
		t[i] = byte(i + 1)
	}
	return t
}

// buildMinimalJPEG assembles a byte slice with SOI, APP0/JFIF, one DQT,
// one DHT, SOF0, SOS and a synthetic scan followed by EOI. The scan
// bytes are arbitrary but must not themselves contain 0xFF 0xD9.
func buildMinimalJPEG(width, height int, dri uint16, scan []byte, progressive bool) []byte {
	var b []byte
	put16 := func(v int) { b = append(b, byte(v>>8), byte(v)) }

	b = append(b, 0xFF, MarkerStartOfImage)

	b = append(b, 0xFF, markerAPP0)
	put16(16)
	b = append(b, []byte(jfifSignature)...)
	b = append(b, 1, 1, 0, 0, 1, 0, 1, 0, 0)

	b = append(b, 0xFF, MarkerDefineQuantizationTable)
	put16(2 + 65)
	b = append(b, 0x00)
	b = append(b, lumaQuantTable()...)

	if dri != 0 {
		b = append(b, 0xFF, MarkerDefineRestartInterval)
		put16(4)
		b = append(b, byte(dri>>8), byte(dri))
	}

	b = append(b, 0xFF, MarkerDefineHuffmanTable)
	counts := make([]byte, 16)
	counts[0] = 1
	put16(2 + 1 + 16 + 1)
	b = append(b, 0x00)
	b = append(b, counts...)
	b = append(b, 0xAA)

	sofMarker := byte(MarkerStartOfFrame0)
	if progressive {
		sofMarker = MarkerStartOfFrame2
	}
	b = append(b, 0xFF, sofMarker)
	put16(2 + 6 + 3*3)
	b = append(b, 8)
	put16(height)
	put16(width)
	b = append(b, 3)
	b = append(b, 1, 0x11, 0)
	b = append(b, 2, 0x11, 0)
	b = append(b, 3, 0x11, 0)

	b = append(b, 0xFF, MarkerStartOfScan)
	put16(2 + 1 + 3*2 + 3)
	b = append(b, 3)
	b = append(b, 1, 0, 2, 0, 3, 0)
	b = append(b, 0, 63, 0)

	b = append(b, scan...)
	b = append(b, 0xFF, MarkerEndOfImage)
	return b
}

func TestParseBasicGeometry(t *testing.T) {
	scan := []byte{0x11, 0x22, 0x33, 0x44, 0x55}
	buf := buildMinimalJPEG(640, 480, 0, scan, false)

	p, err := Parse(buf, -1)
	require.NoError(t, err)
	assert.Equal(t, 640, p.Width)
	assert.Equal(t, 480, p.Height)
	assert.False(t, p.Progressive)
	assert.Equal(t, scan, p.Scan)
	assert.Equal(t, uint16(0), p.RestartInterval)
	require.Contains(t, p.QuantTables, uint8(0))
	assert.Equal(t, lumaQuantTable(), p.QuantTables[0].Data[:])
}

func TestParseScanBoundary(t *testing.T) {
	// the testable property from spec.md §8: the returned scan's first
	// byte starts the entropy-coded data and its last byte is the byte
	// immediately before FF D9.
	scan := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	buf := buildMinimalJPEG(16, 16, 0, scan, false)

	p, err := Parse(buf, -1)
	require.NoError(t, err)
	require.Len(t, p.Scan, len(scan))
	assert.Equal(t, scan[0], p.Scan[0])
	assert.Equal(t, scan[len(scan)-1], p.Scan[len(p.Scan)-1])
}

func TestParseRestartInterval(t *testing.T) {
	buf := buildMinimalJPEG(32, 16, 4, []byte{0x01}, false)

	p, err := Parse(buf, -1)
	require.NoError(t, err)
	assert.EqualValues(t, 4, p.RestartInterval)
}

func TestParseProgressiveRejected(t *testing.T) {
	buf := buildMinimalJPEG(16, 16, 0, []byte{0x01}, true)

	p, err := Parse(buf, -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProgressive)
	assert.True(t, p.Progressive)
}

func TestParseMissingSOI(t *testing.T) {
	_, err := Parse([]byte{0x00, 0x01, 0x02}, -1)
	assert.ErrorIs(t, err, ErrNoSOI)
}

func TestParseTruncated(t *testing.T) {
	buf := buildMinimalJPEG(16, 16, 0, []byte{0x01}, false)
	_, err := Parse(buf[:len(buf)-20], -1)
	assert.Error(t, err)
}

func TestParseHuffmanTableRetained(t *testing.T) {
	buf := buildMinimalJPEG(16, 16, 0, []byte{0x01}, false)

	p, err := Parse(buf, -1)
	require.NoError(t, err)
	require.Len(t, p.HuffmanTables, 1)
	assert.Equal(t, uint8(0), p.HuffmanTables[0].Class)
	assert.Equal(t, []byte{0xAA}, p.HuffmanTables[0].Values)
}
