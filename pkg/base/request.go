package base

import (
	"bufio"

	"github.com/pkg/errors"
)

const (
	rtspVersion     = "RTSP/1.0"
	maxMethodLength = 128
	maxURLLength    = 1024
	maxProtoLength  = 128
)

// ErrEmptyMethod is returned by Request.Read when the method token is empty.
var ErrEmptyMethod = errors.New("base: empty method")

// Request is an RTSP request.
type Request struct {
	Method  Method
	URL     *URL
	Header  Header
	Content []byte
}

// Read parses a request from rb, including its header block and any
// body indicated by Content-Length.
func (req *Request) Read(rb *bufio.Reader) error {
	buf, err := readBytesLimited(rb, ' ', maxMethodLength)
	if err != nil {
		return err
	}
	req.Method = Method(buf[:len(buf)-1])
	if req.Method == "" {
		return ErrEmptyMethod
	}

	buf, err = readBytesLimited(rb, ' ', maxURLLength)
	if err != nil {
		return err
	}
	rawURL := string(buf[:len(buf)-1])
	if rawURL == "" {
		return errors.New("base: empty url")
	}
	u, err := ParseURL(rawURL)
	if err != nil {
		return errors.Wrapf(err, "parsing url %q", rawURL)
	}
	req.URL = u

	buf, err = readBytesLimited(rb, '\r', maxProtoLength)
	if err != nil {
		return err
	}
	if proto := string(buf[:len(buf)-1]); proto != rtspVersion {
		return errors.Errorf("expected %q, got %q", rtspVersion, proto)
	}
	if err := readByteEqual(rb, '\n'); err != nil {
		return err
	}

	if err := req.Header.read(rb); err != nil {
		return err
	}

	req.Content, err = readContent(rb, req.Header)
	return err
}

// Write serializes the request to bw and flushes it.
func (req Request) Write(bw *bufio.Writer) error {
	if _, err := bw.Write([]byte(string(req.Method) + " " + req.URL.String() + " " + rtspVersion + "\r\n")); err != nil {
		return err
	}

	if len(req.Content) != 0 {
		req.Header.Set("Content-Length", itoa(len(req.Content)))
	}

	if err := req.Header.write(bw); err != nil {
		return err
	}
	if err := writeContent(bw, req.Content); err != nil {
		return err
	}
	return bw.Flush()
}
