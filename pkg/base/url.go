package base

import (
	"net/url"

	"github.com/pkg/errors"
)

// URL is an RTSP URL: an HTTP URL restricted to the rtsp scheme.
type URL url.URL

// ParseURL parses an RTSP URL, rejecting anything that isn't the rtsp
// scheme (spec.md's server never advertises rtsps). The asterisk form
// ("*") is accepted as-is since OPTIONS may target the server rather
// than a specific resource (RFC 2326 §5.1.1, scenario in spec.md §8).
func ParseURL(raw string) (*URL, error) {
	if raw == "*" {
		return (*URL)(&url.URL{Opaque: "*", Path: "*"}), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(err, "invalid url")
	}
	if u.Scheme != "rtsp" {
		return nil, errors.Errorf("unsupported scheme %q", u.Scheme)
	}
	return (*URL)(u), nil
}

// String implements fmt.Stringer.
func (u *URL) String() string {
	return (*url.URL)(u).String()
}

// Path returns the URL's path component, used by the server to resolve
// a stream (spec.md §4.4).
func (u *URL) Path() string {
	return (*url.URL)(u).Path
}
