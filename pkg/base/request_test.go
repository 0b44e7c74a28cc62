package base

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestReadOptions(t *testing.T) {
	raw := "OPTIONS rtsp://localhost:8554/stream RTSP/1.0\r\nCSeq: 1\r\n\r\n"
	var req Request
	err := req.Read(bufio.NewReader(bytes.NewBufferString(raw)))
	require.NoError(t, err)

	assert.Equal(t, Options, req.Method)
	assert.Equal(t, "/stream", req.URL.Path())
	assert.Equal(t, "1", req.Header.Get("CSeq"))
}

func TestRequestReadSetupWithTransport(t *testing.T) {
	raw := "SETUP rtsp://h/a.jpg RTSP/1.0\r\nCSeq: 3\r\n" +
		"Transport: RTP/AVP;unicast;client_port=9500-9501\r\n\r\n"
	var req Request
	err := req.Read(bufio.NewReader(bytes.NewBufferString(raw)))
	require.NoError(t, err)

	assert.Equal(t, Setup, req.Method)
	assert.Equal(t, "RTP/AVP;unicast;client_port=9500-9501", req.Header.Get("Transport"))
}

func TestRequestReadRejectsEmptyMethod(t *testing.T) {
	raw := " rtsp://h/a.jpg RTSP/1.0\r\n\r\n"
	var req Request
	err := req.Read(bufio.NewReader(bytes.NewBufferString(raw)))
	assert.ErrorIs(t, err, ErrEmptyMethod)
}

func TestRequestWriteRoundTrip(t *testing.T) {
	u, err := ParseURL("rtsp://localhost:8554/stream")
	require.NoError(t, err)

	req := Request{
		Method: Describe,
		URL:    u,
		Header: Header{"CSeq": HeaderValue{"2"}},
	}

	var buf bytes.Buffer
	require.NoError(t, req.Write(bufio.NewWriter(&buf)))

	var got Request
	require.NoError(t, got.Read(bufio.NewReader(&buf)))
	assert.Equal(t, Describe, got.Method)
	assert.Equal(t, "2", got.Header.Get("CSeq"))
}
