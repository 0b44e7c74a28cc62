package base

import (
	"bufio"

	"github.com/pkg/errors"
)

func readByteEqual(rb *bufio.Reader, cmp byte) error {
	b, err := rb.ReadByte()
	if err != nil {
		return err
	}
	if b != cmp {
		return errors.Errorf("expected %q, got %q", cmp, b)
	}
	return nil
}

// readBytesLimited reads from rb up to and including delim, failing if
// more than n bytes are read first. It guards request/header parsing
// against unbounded lines from a misbehaving or hostile peer.
func readBytesLimited(rb *bufio.Reader, delim byte, n int) ([]byte, error) {
	for i := 1; i <= n; i++ {
		buf, err := rb.Peek(i)
		if err != nil {
			return nil, err
		}
		if buf[len(buf)-1] == delim {
			rb.Discard(len(buf)) //nolint:errcheck
			return buf, nil
		}
	}
	return nil, errors.Errorf("line exceeds %d bytes", n)
}
