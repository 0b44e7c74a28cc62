package rtpmjpeg

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidescope/mjpegrtsp/pkg/jpeg"
)

func lumaTable(fill byte) *jpeg.QuantizationTable {
	var t jpeg.QuantizationTable
	for i := range t.Data {
		t.Data[i] = fill
	}
	return &t
}

func TestEncodeSinglePacket(t *testing.T) {
	frame := &jpeg.Parsed{
		Width:  64,
		Height: 32,
		QuantTables: map[uint8]*jpeg.QuantizationTable{
			0: lumaTable(16),
			1: lumaTable(17),
		},
		Scan: []byte{1, 2, 3, 4, 5},
	}

	e := NewEncoder(0x1234)
	e.MTU = 1400
	now := time.Now()
	packets, err := e.Encode(now, frame)
	require.NoError(t, err)
	require.Len(t, packets, 1)

	p := packets[0]
	assert.True(t, p.Marker)
	assert.Equal(t, uint8(PayloadType), p.PayloadType)
	assert.Equal(t, uint32(0x1234), p.SSRC)
	assert.Equal(t, uint16(0), p.SequenceNumber)

	// main header (8) + quant header (4) + 2 tables (128) + scan (5)
	require.Len(t, p.Payload, 8+4+128+5)
	assert.Equal(t, []byte{1, 2, 3, 4, 5}, p.Payload[len(p.Payload)-5:])

	// width/8, height/8
	assert.Equal(t, uint8(8), p.Payload[6])
	assert.Equal(t, uint8(4), p.Payload[7])
}

func TestEncodeFragmentsAcrossMTU(t *testing.T) {
	scan := make([]byte, 100)
	for i := range scan {
		scan[i] = byte(i)
	}
	frame := &jpeg.Parsed{
		Width:  16,
		Height: 16,
		Scan:   scan,
	}

	e := NewEncoder(1)
	e.MTU = 8 + 30 // main header + 30 bytes of scan per packet
	packets, err := e.Encode(time.Now(), frame)
	require.NoError(t, err)
	// the first packet also carries the 4-byte quantization table header
	// (with no tables), which leaves it 26 bytes of scan: 26,30,30,14
	require.Len(t, packets, 4)

	var reassembled []byte
	for i, p := range packets {
		headerLen := 8
		if i == 0 {
			headerLen = 8 + 4
		}
		reassembled = append(reassembled, p.Payload[headerLen:]...)
		assert.Equal(t, uint16(i), p.SequenceNumber)
		if i == len(packets)-1 {
			assert.True(t, p.Marker)
		} else {
			assert.False(t, p.Marker)
		}
	}
	assert.Equal(t, scan, reassembled)
}

func TestEncodeFragmentOffsetsAreCumulative(t *testing.T) {
	scan := make([]byte, 50)
	frame := &jpeg.Parsed{Width: 8, Height: 8, Scan: scan}

	e := NewEncoder(1)
	e.MTU = 8 + 20
	packets, err := e.Encode(time.Now(), frame)
	require.NoError(t, err)
	require.Len(t, packets, 3)

	// the first packet's 4-byte quantization table header leaves it 16
	// bytes of scan; the next two carry 20 and 14
	offsets := []uint32{0, 16, 36}
	for i, p := range packets {
		off := uint32(p.Payload[1])<<16 | uint32(p.Payload[2])<<8 | uint32(p.Payload[3])
		assert.Equal(t, offsets[i], off)
	}
}

func TestEncodeRejectsBadGeometry(t *testing.T) {
	frame := &jpeg.Parsed{Width: 10, Height: 10, Scan: []byte{1}}
	e := NewEncoder(1)
	_, err := e.Encode(time.Now(), frame)
	assert.ErrorIs(t, err, ErrBadGeometry)
}

func TestEncodeEmptyScanProducesNoPackets(t *testing.T) {
	frame := &jpeg.Parsed{Width: 8, Height: 8}
	e := NewEncoder(1)
	packets, err := e.Encode(time.Now(), frame)
	require.NoError(t, err)
	assert.Nil(t, packets)
}

func TestEncodeSequenceIncrementsAcrossCalls(t *testing.T) {
	frame := &jpeg.Parsed{Width: 8, Height: 8, Scan: []byte{1}}
	e := NewEncoder(1)

	p1, err := e.Encode(time.Now(), frame)
	require.NoError(t, err)
	p2, err := e.Encode(time.Now(), frame)
	require.NoError(t, err)

	assert.Equal(t, uint16(0), p1[0].SequenceNumber)
	assert.Equal(t, uint16(1), p2[0].SequenceNumber)
}

func TestEncodeIncludesRestartHeaderWhenIntervalSet(t *testing.T) {
	frame := &jpeg.Parsed{
		Width:           8,
		Height:          8,
		RestartInterval: 7,
		Scan:            []byte{1, 2, 3},
	}
	e := NewEncoder(1)
	packets, err := e.Encode(time.Now(), frame)
	require.NoError(t, err)
	require.Len(t, packets, 1)

	p := packets[0]
	assert.Equal(t, uint8(0x40), p.Payload[4]&0x40)
	interval := uint16(p.Payload[8])<<8 | uint16(p.Payload[9])
	assert.Equal(t, uint16(7), interval)
}
