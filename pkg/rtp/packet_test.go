package rtp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalParseRoundTrip(t *testing.T) {
	p := &Packet{
		Version:        Version,
		Marker:         true,
		PayloadType:    26,
		SequenceNumber: 4242,
		Timestamp:      123456789,
		SSRC:           0xDEADBEEF,
		Payload:        []byte{1, 2, 3, 4, 5},
	}

	buf := p.Marshal()
	require.Len(t, buf, 12+len(p.Payload))

	got, err := Parse(buf)
	require.NoError(t, err)
	assert.Equal(t, p.Version, got.Version)
	assert.Equal(t, p.Marker, got.Marker)
	assert.Equal(t, p.PayloadType, got.PayloadType)
	assert.Equal(t, p.SequenceNumber, got.SequenceNumber)
	assert.Equal(t, p.Timestamp, got.Timestamp)
	assert.Equal(t, p.SSRC, got.SSRC)
	assert.Equal(t, p.Payload, got.Payload)
}

func TestParseShortHeader(t *testing.T) {
	_, err := Parse(make([]byte, 11))
	assert.ErrorIs(t, err, ErrShortHeader)
}

func TestParseExtensionSkipped(t *testing.T) {
	buf := make([]byte, 12+4+8+3)
	buf[0] = Version<<6 | 0x10 // extension bit set
	buf[1] = 26
	// extension header: profile id (2 bytes, ignored) + length in
	// 32-bit words (2 bytes)
	buf[14] = 0
	buf[15] = 2 // 2 words = 8 bytes of extension body
	payload := []byte{0xAA, 0xBB, 0xCC}
	copy(buf[12+4+8:], payload)

	got, err := Parse(buf)
	require.NoError(t, err)
	assert.True(t, got.Extension)
	assert.Equal(t, payload, got.Payload)
}

func TestMarshalAtOffset(t *testing.T) {
	p := &Packet{PayloadType: 26, Payload: []byte{9, 9}}
	prefix := []byte{0xAA, 0xBB, 0xCC}
	buf := p.MarshalTo(append([]byte(nil), prefix...), len(prefix))

	assert.Equal(t, prefix, buf[:len(prefix)])
	got, err := Parse(buf[len(prefix):])
	require.NoError(t, err)
	assert.Equal(t, p.Payload, got.Payload)
}
