package mjpegrtsp

import (
	"errors"
	"net"
	"strconv"

	"github.com/google/uuid"

	"github.com/tidescope/mjpegrtsp/pkg/base"
	"github.com/tidescope/mjpegrtsp/pkg/headers"
	"github.com/tidescope/mjpegrtsp/pkg/sdp"
)

// publicMethods is the Allow-style method list OPTIONS advertises
// (spec.md §8 scenario 1, order matters for the literal wire test).
const publicMethods = "DESCRIBE, SETUP, TEARDOWN, PLAY, PAUSE"

// StepInput bundles everything step() needs to decide a response. It
// is the "event" half of the redesign's step(state, event) signature;
// Session is nil when the request comes from a peer with no session
// yet (only meaningful before a successful SETUP).
type StepInput struct {
	Request    *base.Request
	Session    *ClientSession
	PeerIP     net.IP
	ServerSID  int
	VideoPort  int
	ServerName string
	Resolve    func(path string) (Stream, error)
}

// step is the pure FSM core mandated by spec.md §9's redesign note: it
// consumes the current session state and an incoming request and
// returns the next state plus the ordered effects the connection loop
// must perform. It never does I/O itself.
func step(in StepInput) (SessionState, []Effect) {
	req := in.Request
	cseq := req.Header.Get("CSeq")

	respond := func(code base.StatusCode, extra base.Header, body []byte) []Effect {
		h := base.Header{}
		if cseq != "" {
			h.Set("CSeq", cseq)
		}
		for k, v := range extra {
			h[k] = v
		}
		return []Effect{RespondEffect{Response: &base.Response{
			StatusCode: code,
			Header:     h,
			Body:       body,
		}}}
	}

	curState := StateInit
	if in.Session != nil {
		curState = in.Session.State
	}

	switch req.Method {
	case base.Options:
		return curState, respond(base.StatusOK, base.Header{"Public": base.HeaderValue{publicMethods}}, nil)

	case base.Describe:
		stream, err := in.Resolve(req.URL.Path())
		if err != nil {
			return curState, respond(statusForResolveError(err), nil, nil)
		}

		desc, err := stream.Describe(sdp.Options{
			SessionName: req.URL.Path(),
			ServerName:  in.ServerName,
			VideoPort:   in.VideoPort,
		})
		if err != nil {
			return curState, respond(base.StatusInternalServerError, nil, nil)
		}
		body, err := desc.Marshal()
		if err != nil {
			return curState, respond(base.StatusInternalServerError, nil, nil)
		}

		return curState, respond(base.StatusOK, base.Header{"Content-Type": base.HeaderValue{"application/sdp"}}, body)

	case base.Setup:
		return stepSetup(in, curState, respond)

	case base.Play:
		return stepPlay(in, curState, respond)

	case base.Pause:
		if curState == StatePlaying {
			return StateReady, respond(base.StatusOK, sessionHeader(in), nil)
		}
		return curState, respond(base.StatusOK, sessionHeader(in), nil)

	case base.Teardown:
		effects := respond(base.StatusOK, sessionHeader(in), nil)
		if in.Session != nil {
			effects = append(effects,
				CloseRTPEffect{SessionID: in.Session.ID},
				DropClientEffect{SessionID: in.Session.ID},
			)
		}
		return StateDone, effects

	default:
		return curState, respond(base.StatusMethodNotAllowed, nil, nil)
	}
}

func statusForResolveError(err error) base.StatusCode {
	switch {
	case errors.Is(err, ErrStreamNotFound):
		return base.StatusNotFound
	case errors.Is(err, ErrUnsupportedMedia):
		return base.StatusUnsupportedMediaType
	default:
		return base.StatusInternalServerError
	}
}

func sessionHeader(in StepInput) base.Header {
	return base.Header{"Session": base.HeaderValue{strconv.Itoa(in.ServerSID)}}
}

func stepSetup(in StepInput, curState SessionState, respond func(base.StatusCode, base.Header, []byte) []Effect) (SessionState, []Effect) {
	if curState != StateInit {
		return curState, respond(base.StatusMethodNotValidInThisState, nil, nil)
	}

	rawTransport := in.Request.Header["Transport"]
	if len(rawTransport) == 0 {
		return curState, respond(base.StatusUnsupportedTransport, nil, nil)
	}

	t, err := headers.ReadTransport(base.HeaderValue(rawTransport))
	if err != nil {
		return curState, respond(base.StatusUnsupportedTransport, nil, nil)
	}
	if t.InterleavedIDs != nil || t.Protocol != headers.ProtocolUDP || t.ClientPorts == nil {
		return curState, respond(base.StatusUnsupportedTransport, nil, nil)
	}

	if _, err := in.Resolve(in.Request.URL.Path()); err != nil {
		return curState, respond(statusForResolveError(err), nil, nil)
	}

	sessionID := uuid.New()
	if in.Session != nil {
		sessionID = in.Session.ID
	}

	serverPorts := [2]int{in.VideoPort, in.VideoPort}
	respTransport := headers.Transport{
		Protocol:    headers.ProtocolUDP,
		Delivery:    t.Delivery,
		ClientPorts: t.ClientPorts,
		ServerPorts: &serverPorts,
	}

	session := &ClientSession{
		ID:          sessionID,
		SessionID:   in.ServerSID,
		RemoteAddr:  &net.UDPAddr{IP: in.PeerIP},
		State:       StateReady,
		StreamPath:  in.Request.URL.Path(),
		ClientPorts: *t.ClientPorts,
		Transport:   &respTransport,
	}

	effects := respond(base.StatusOK, base.Header{
		"Session":   base.HeaderValue{strconv.Itoa(in.ServerSID)},
		"Transport": respTransport.Write(),
	}, nil)
	effects = append(effects, InitClientEffect{Session: session})

	return StateReady, effects
}

func stepPlay(in StepInput, curState SessionState, respond func(base.StatusCode, base.Header, []byte) []Effect) (SessionState, []Effect) {
	if curState != StateReady && curState != StatePaused {
		return curState, respond(base.StatusMethodNotValidInThisState, nil, nil)
	}

	header := sessionHeader(in)
	header.Set("RTP-Info", "url="+in.Request.URL.String())

	effects := respond(base.StatusOK, header, nil)
	if curState == StateReady && in.Session != nil {
		clientAddr := clientUDPAddr(in.Session)
		if clientAddr != nil {
			effects = append(effects, OpenRTPEffect{SessionID: in.Session.ID, ClientAddr: clientAddr})
		}
	}

	return StatePlaying, effects
}

func clientUDPAddr(sess *ClientSession) *net.UDPAddr {
	if sess.RemoteAddr == nil {
		return nil
	}
	addr := *sess.RemoteAddr
	addr.Port = sess.ClientPorts[0]
	return &addr
}
