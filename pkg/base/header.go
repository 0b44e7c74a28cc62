package base

import (
	"bufio"
	"net/http"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const (
	headerMaxEntryCount  = 255
	headerMaxKeyLength   = 512
	headerMaxValueLength = 2048
)

// canonicalize fixes up the canonicalisation that net/http's
// CanonicalHeaderKey gets wrong for RTSP's own headers.
func canonicalize(key string) string {
	switch strings.ToLower(key) {
	case "cseq":
		return "CSeq"
	case "rtp-info":
		return "RTP-Info"
	case "www-authenticate":
		return "WWW-Authenticate"
	}
	return http.CanonicalHeaderKey(key)
}

// HeaderValue holds the one or more values associated with a header key.
type HeaderValue []string

// Header is the map of header values carried by a Request or Response.
type Header map[string]HeaderValue

// Get returns the first value associated with key, or "" if absent.
func (h Header) Get(key string) string {
	v, ok := h[canonicalize(key)]
	if !ok || len(v) == 0 {
		return ""
	}
	return v[0]
}

// Set assigns a single value to key, replacing any existing values.
func (h Header) Set(key, value string) {
	h[canonicalize(key)] = HeaderValue{value}
}

func (h *Header) read(rb *bufio.Reader) error {
	*h = make(Header)
	count := 0

	for {
		b, err := rb.ReadByte()
		if err != nil {
			return err
		}

		if b == '\r' {
			return readByteEqual(rb, '\n')
		}
		rb.UnreadByte() //nolint:errcheck

		if count >= headerMaxEntryCount {
			return errors.Errorf("headers exceed %d entries", headerMaxEntryCount)
		}

		buf, err := readBytesLimited(rb, ':', headerMaxKeyLength)
		if err != nil {
			return err
		}
		key := canonicalize(string(buf[:len(buf)-1]))

		for {
			b, err := rb.ReadByte()
			if err != nil {
				return err
			}
			if b != ' ' {
				break
			}
		}
		rb.UnreadByte() //nolint:errcheck

		buf, err = readBytesLimited(rb, '\r', headerMaxValueLength)
		if err != nil {
			return err
		}
		val := string(buf[:len(buf)-1])

		if err := readByteEqual(rb, '\n'); err != nil {
			return err
		}

		(*h)[key] = append((*h)[key], val)
		count++
	}
}

func (h Header) write(bw *bufio.Writer) error {
	keys := make([]string, 0, len(h))
	for key := range h {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		for _, val := range h[key] {
			if _, err := bw.Write([]byte(key + ": " + val + "\r\n")); err != nil {
				return err
			}
		}
	}

	_, err := bw.Write([]byte("\r\n"))
	return err
}
