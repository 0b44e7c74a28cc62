// Package headers decodes and encodes the RTSP headers that carry
// structured values, namely Transport (RFC 2326 §12.39).
package headers

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/tidescope/mjpegrtsp/pkg/base"
)

// Protocol is the lower-layer transport carrying the stream.
type Protocol int

const (
	ProtocolUDP Protocol = iota
	ProtocolTCP
)

// Delivery is the delivery method of a stream.
type Delivery int

const (
	DeliveryUnicast Delivery = iota
	DeliveryMulticast
)

// Transport is a parsed Transport header. Only the subset of RFC 2326
// §12.39 that a unicast UDP MJPEG server needs is represented: the
// lower transport, unicast/multicast delivery, the interleaved channel
// pair and the client/server port ranges. Other parameters (ttl, mode,
// ssrc, source, destination, ...) are ignored by ReadTransport.
type Transport struct {
	Protocol       Protocol
	Delivery       *Delivery
	InterleavedIDs *[2]int
	ClientPorts    *[2]int
	ServerPorts    *[2]int
}

func parsePortRange(val string) (*[2]int, error) {
	parts := strings.SplitN(val, "-", 2)
	lo, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, errors.Errorf("invalid port range %q", val)
	}
	if len(parts) == 1 {
		return &[2]int{lo, lo + 1}, nil
	}
	hi, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, errors.Errorf("invalid port range %q", val)
	}
	return &[2]int{lo, hi}, nil
}

// ReadTransport decodes a Transport header value (semicolon-separated
// tokens, each either a bare flag like "unicast" or a key=value pair
// like "client_port=9500-9501").
func ReadTransport(v base.HeaderValue) (*Transport, error) {
	if len(v) != 1 {
		return nil, errors.Errorf("expected exactly one Transport value, got %d", len(v))
	}

	var h Transport
	protocolFound := false

	for _, tok := range strings.Split(v[0], ";") {
		if tok == "" {
			continue
		}

		key, val, hasVal := strings.Cut(tok, "=")

		switch key {
		case "RTP/AVP", "RTP/AVP/UDP":
			h.Protocol = ProtocolUDP
			protocolFound = true

		case "RTP/AVP/TCP":
			h.Protocol = ProtocolTCP
			protocolFound = true

		case "unicast":
			d := DeliveryUnicast
			h.Delivery = &d

		case "multicast":
			d := DeliveryMulticast
			h.Delivery = &d

		case "interleaved":
			if !hasVal {
				return nil, errors.New("interleaved requires a value")
			}
			ports, err := parsePortRange(val)
			if err != nil {
				return nil, err
			}
			h.InterleavedIDs = ports

		case "client_port":
			if !hasVal {
				return nil, errors.New("client_port requires a value")
			}
			ports, err := parsePortRange(val)
			if err != nil {
				return nil, err
			}
			h.ClientPorts = ports

		case "server_port":
			if !hasVal {
				return nil, errors.New("server_port requires a value")
			}
			ports, err := parsePortRange(val)
			if err != nil {
				return nil, err
			}
			h.ServerPorts = ports

		default:
			// ignore unrecognized tokens (ttl, mode, ssrc, source, destination, ...)
		}
	}

	if !protocolFound {
		return nil, errors.Errorf("transport protocol not found in %q", v[0])
	}

	return &h, nil
}

// Write encodes the Transport header value.
func (h Transport) Write() base.HeaderValue {
	var parts []string

	if h.Protocol == ProtocolUDP {
		parts = append(parts, "RTP/AVP")
	} else {
		parts = append(parts, "RTP/AVP/TCP")
	}

	if h.Delivery != nil {
		if *h.Delivery == DeliveryUnicast {
			parts = append(parts, "unicast")
		} else {
			parts = append(parts, "multicast")
		}
	}

	if h.InterleavedIDs != nil {
		parts = append(parts, "interleaved="+formatRange(h.InterleavedIDs))
	}
	if h.ClientPorts != nil {
		parts = append(parts, "client_port="+formatRange(h.ClientPorts))
	}
	if h.ServerPorts != nil {
		parts = append(parts, "server_port="+formatRange(h.ServerPorts))
	}

	return base.HeaderValue{strings.Join(parts, ";")}
}

func formatRange(r *[2]int) string {
	return strconv.Itoa(r[0]) + "-" + strconv.Itoa(r[1])
}
