package base

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseWriteFillsStatusMessage(t *testing.T) {
	res := Response{
		StatusCode: StatusOK,
		Header:     Header{"CSeq": HeaderValue{"1"}},
	}

	var buf bytes.Buffer
	require.NoError(t, res.Write(bufio.NewWriter(&buf)))

	assert.Equal(t, "RTSP/1.0 200 OK\r\nCSeq: 1\r\n\r\n", buf.String())
}

func TestResponseWriteWithBody(t *testing.T) {
	res := Response{
		StatusCode: StatusOK,
		Header:     Header{"Content-Type": HeaderValue{"application/sdp"}},
		Body:       []byte("v=0\r\n"),
	}

	var buf bytes.Buffer
	require.NoError(t, res.Write(bufio.NewWriter(&buf)))

	var got Response
	got.Header = nil
	require.NoError(t, got.Read(bufio.NewReader(&buf)))
	assert.Equal(t, res.Body, got.Body)
	assert.Equal(t, "5", got.Header.Get("Content-Length"))
}

func TestResponseReadUnsupportedTransport(t *testing.T) {
	raw := "RTSP/1.0 461 Unsupported Transport\r\nCSeq: 4\r\n\r\n"
	var res Response
	require.NoError(t, res.Read(bufio.NewReader(bytes.NewBufferString(raw))))
	assert.Equal(t, StatusUnsupportedTransport, res.StatusCode)
}
