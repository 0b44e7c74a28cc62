package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidescope/mjpegrtsp/pkg/base"
)

func TestReadTransportUnicastUDP(t *testing.T) {
	h, err := ReadTransport(base.HeaderValue{"RTP/AVP;unicast;client_port=9500-9501"})
	require.NoError(t, err)

	assert.Equal(t, ProtocolUDP, h.Protocol)
	require.NotNil(t, h.Delivery)
	assert.Equal(t, DeliveryUnicast, *h.Delivery)
	require.NotNil(t, h.ClientPorts)
	assert.Equal(t, [2]int{9500, 9501}, *h.ClientPorts)
}

func TestReadTransportInterleaved(t *testing.T) {
	h, err := ReadTransport(base.HeaderValue{"RTP/AVP/TCP;interleaved=0-1"})
	require.NoError(t, err)

	assert.Equal(t, ProtocolTCP, h.Protocol)
	require.NotNil(t, h.InterleavedIDs)
	assert.Equal(t, [2]int{0, 1}, *h.InterleavedIDs)
}

func TestReadTransportMissingProtocolFails(t *testing.T) {
	_, err := ReadTransport(base.HeaderValue{"unicast;client_port=9500-9501"})
	assert.Error(t, err)
}

func TestWriteTransportRoundTrip(t *testing.T) {
	d := DeliveryUnicast
	h := Transport{
		Protocol:    ProtocolUDP,
		Delivery:    &d,
		ClientPorts: &[2]int{9500, 9501},
		ServerPorts: &[2]int{8888, 8888},
	}

	v := h.Write()
	require.Len(t, v, 1)
	assert.Equal(t, "RTP/AVP;unicast;client_port=9500-9501;server_port=8888-8888", v[0])
}
