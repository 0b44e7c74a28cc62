package base

import (
	"bufio"
	"strconv"

	"github.com/pkg/errors"
)

// Response is an RTSP response.
type Response struct {
	StatusCode    StatusCode
	StatusMessage string
	Header        Header
	Body          []byte
}

// Read parses a response from rb.
func (res *Response) Read(rb *bufio.Reader) error {
	buf, err := readBytesLimited(rb, ' ', 255)
	if err != nil {
		return err
	}
	if proto := string(buf[:len(buf)-1]); proto != rtspVersion {
		return errors.Errorf("expected %q, got %q", rtspVersion, proto)
	}

	buf, err = readBytesLimited(rb, ' ', 4)
	if err != nil {
		return err
	}
	code, err := strconv.ParseInt(string(buf[:len(buf)-1]), 10, 32)
	if err != nil {
		return errors.Wrap(err, "parsing status code")
	}
	res.StatusCode = StatusCode(code)

	buf, err = readBytesLimited(rb, '\r', 255)
	if err != nil {
		return err
	}
	res.StatusMessage = string(buf[:len(buf)-1])
	if err := readByteEqual(rb, '\n'); err != nil {
		return err
	}

	if err := res.Header.read(rb); err != nil {
		return err
	}

	res.Body, err = readContent(rb, res.Header)
	return err
}

// Write serializes the response to bw and flushes it. If StatusMessage
// is empty it is filled in from the standard catalogue.
func (res Response) Write(bw *bufio.Writer) error {
	if res.StatusMessage == "" {
		res.StatusMessage = statusMessages[res.StatusCode]
	}

	if _, err := bw.Write([]byte(rtspVersion + " " + itoa(int(res.StatusCode)) + " " + res.StatusMessage + "\r\n")); err != nil {
		return err
	}

	if len(res.Body) != 0 {
		res.Header.Set("Content-Length", itoa(len(res.Body)))
	}

	if err := res.Header.write(bw); err != nil {
		return err
	}
	if err := writeContent(bw, res.Body); err != nil {
		return err
	}
	return bw.Flush()
}
