package base

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// maxContentLength bounds the body accepted from a Content-Length
// header, guarding against a peer claiming an unreasonable size.
const maxContentLength = 128 * 1024 * 1024

func readContent(rb *bufio.Reader, h Header) ([]byte, error) {
	cl := h.Get("Content-Length")
	if cl == "" {
		return nil, nil
	}

	n, err := strconv.ParseInt(cl, 10, 64)
	if err != nil {
		return nil, errors.Wrap(err, "invalid Content-Length")
	}
	if n > maxContentLength {
		return nil, errors.Errorf("Content-Length %d exceeds limit", n)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(rb, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func writeContent(bw *bufio.Writer, content []byte) error {
	if len(content) == 0 {
		return nil
	}
	_, err := bw.Write(content)
	return err
}

func itoa(n int) string {
	return strconv.FormatInt(int64(n), 10)
}
