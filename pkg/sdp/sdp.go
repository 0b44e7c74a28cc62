// Package sdp produces the SDP session description (RFC 4566) a
// DESCRIBE response carries, wrapping github.com/pion/sdp/v3 the way
// most RTSP servers in the ecosystem do.
package sdp

import (
	psdp "github.com/pion/sdp/v3"

	"github.com/pkg/errors"
)

// SessionDescription wraps psdp.SessionDescription to attach a
// marshal convenience and keep the dependency contained to this
// package.
type SessionDescription psdp.SessionDescription

// Marshal encodes the session description to its RFC 4566 text form.
func (s *SessionDescription) Marshal() ([]byte, error) {
	return (*psdp.SessionDescription)(s).Marshal()
}

// Options is the set of values a JPEG stream's SDP body is built
// from (spec.md §6: session_name, server_name, video_port, width,
// height, fps).
type Options struct {
	SessionName string
	ServerName  string
	VideoPort   int
	Width       int
	Height      int
	FPS         int
	PayloadType uint8
}

// ErrInvalidOptions is returned by BuildJPEGDescription when required
// geometry is missing.
var ErrInvalidOptions = errors.New("sdp: width, height and video_port are required")

// BuildJPEGDescription constructs the SDP body advertising a single
// RTP/MJPEG video stream, unicast on VideoPort, payload type 26
// (spec.md §6: one "m=video <port> RTP/AVP 26" line, a 0.0.0.0
// connection line, and cliprect/framerate attributes).
func BuildJPEGDescription(o Options) (*SessionDescription, error) {
	if o.Width <= 0 || o.Height <= 0 || o.VideoPort <= 0 {
		return nil, ErrInvalidOptions
	}
	if o.PayloadType == 0 {
		o.PayloadType = 26
	}
	if o.SessionName == "" {
		o.SessionName = "stream"
	}
	if o.ServerName == "" {
		o.ServerName = "mjpegrtsp"
	}

	sd := &psdp.SessionDescription{
		Version: 0,
		Origin: psdp.Origin{
			Username:       "-",
			SessionID:      1,
			SessionVersion: 1,
			NetworkType:    "IN",
			AddressType:    "IP4",
			UnicastAddress: "0.0.0.0",
		},
		SessionName: psdp.SessionName(o.SessionName),
		TimeDescriptions: []psdp.TimeDescription{
			{Timing: psdp.Timing{StartTime: 0, StopTime: 0}},
		},
		Attributes: []psdp.Attribute{
			psdp.NewPropertyAttribute("tool:" + o.ServerName),
		},
		MediaDescriptions: []*psdp.MediaDescription{
			{
				MediaName: psdp.MediaName{
					Media:   "video",
					Port:    psdp.RangedPort{Value: o.VideoPort},
					Protos:  []string{"RTP", "AVP"},
					Formats: []string{itoa(int(o.PayloadType))},
				},
				ConnectionInformation: &psdp.ConnectionInformation{
					NetworkType: "IN",
					AddressType: "IP4",
					Address:     &psdp.Address{Address: "0.0.0.0"},
				},
				Attributes: []psdp.Attribute{
					psdp.NewAttribute("cliprect", itoa4(0, 0, o.Height, o.Width)),
					psdp.NewAttribute("framerate", itoa(o.FPS)),
				},
			},
		},
	}

	return (*SessionDescription)(sd), nil
}
