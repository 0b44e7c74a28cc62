// Package mjpegrtsp implements an RTSP server that streams still or
// pre-encoded JPEG content as RTP/MJPEG (RFC 2435). Protocol logic
// lives in the pure step() function in fsm.go; this file is the
// effect-interpreting I/O loop around it, one goroutine per accepted
// TCP connection plus one owned by the publisher (see
// internal/publisher), following spec.md §5's "share memory by
// communicating" redesign of a single-threaded cooperative scheduler.
package mjpegrtsp

import (
	"bufio"
	"context"
	"math/rand"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tidescope/mjpegrtsp/internal/publisher"
	"github.com/tidescope/mjpegrtsp/pkg/base"
)

// DefaultTickInterval is the publisher's default tick period, 25fps
// per spec.md §4.4.
const DefaultTickInterval = 40 * time.Millisecond

// Config configures a Server.
type Config struct {
	// VideoAddr is the local address the RTP publisher binds, e.g.
	// "0.0.0.0:8888".
	VideoAddr string

	// ServerName identifies the server in SDP (a=tool) and logs.
	ServerName string

	// TickInterval overrides DefaultTickInterval when non-zero.
	TickInterval time.Duration
}

// Server accepts RTSP connections and drives the per-client FSM.
type Server struct {
	cfg     Config
	factory StreamFactory
	pub     *publisher.Publisher
	log     *zap.Logger

	sessionID int

	mu           chan struct{} // binary semaphore guarding the fields below
	sessions     map[string]*ClientSession
	activeStream Stream
	activeCount  int
	tickerStop   chan struct{}
}

// NewServer binds the RTP publisher socket and returns a ready Server.
func NewServer(cfg Config, factory StreamFactory, log *zap.Logger) (*Server, error) {
	if cfg.TickInterval == 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if log == nil {
		log = zap.NewNop()
	}

	pub, err := publisher.New(cfg.VideoAddr, log.Named("publisher"))
	if err != nil {
		return nil, errors.Wrap(err, "binding rtp publisher")
	}

	s := &Server{
		cfg:       cfg,
		factory:   factory,
		pub:       pub,
		log:       log,
		sessionID: 100000 + rand.Intn(900000),
		mu:        make(chan struct{}, 1),
		sessions:  make(map[string]*ClientSession),
	}
	s.mu <- struct{}{}

	return s, nil
}

// VideoPort returns the publisher's bound UDP port, advertised in SDP
// and the SETUP Transport response.
func (s *Server) VideoPort() int {
	return s.pub.Port()
}

// ActiveSessions returns the number of client sessions currently
// registered in the session table, for diagnostics (spec.md §3's
// "client session" table).
func (s *Server) ActiveSessions() int {
	s.lock()
	defer s.unlock()
	return len(s.sessions)
}

// Close releases the publisher's socket.
func (s *Server) Close() {
	s.pub.Close()
}

func (s *Server) lock()   { <-s.mu }
func (s *Server) unlock() { s.mu <- struct{}{} }

func (s *Server) hasSession(peerKey string) bool {
	s.lock()
	defer s.unlock()
	_, ok := s.sessions[peerKey]
	return ok
}

func writeSimpleResponse(w *bufio.Writer, code base.StatusCode, cseq string) error {
	h := base.Header{}
	if cseq != "" {
		h.Set("CSeq", cseq)
	}
	return (&base.Response{StatusCode: code, Header: h}).Write(w)
}

// Serve accepts connections on ln until ctx is cancelled or Accept
// fails. Each connection is handled on its own goroutine.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	peerKey := conn.RemoteAddr().String()
	peerIP := conn.RemoteAddr().(*net.TCPAddr).IP

	reader := bufio.NewReader(conn)
	writer := bufio.NewWriter(conn)

	var session *ClientSession

	for {
		var req base.Request
		if err := req.Read(reader); err != nil {
			break
		}

		s.log.Info("request",
			zap.String("method", string(req.Method)),
			zap.String("path", req.URL.Path()),
			zap.Int("active_sessions", s.ActiveSessions()))

		if req.Method == base.Setup && session == nil && s.hasSession(peerKey) {
			// spec.md §3: one client session per peer; a peer that
			// already has a live session elsewhere must tear it down
			// before starting another.
			if err := writeSimpleResponse(writer, base.StatusMethodNotValidInThisState, req.Header.Get("CSeq")); err != nil {
				return
			}
			continue
		}

		newState, effects := step(StepInput{
			Request:    &req,
			Session:    session,
			PeerIP:     peerIP,
			ServerSID:  s.sessionID,
			VideoPort:  s.VideoPort(),
			ServerName: s.cfg.ServerName,
			Resolve:    s.factory.Resolve,
		})

		for _, eff := range effects {
			switch e := eff.(type) {
			case RespondEffect:
				if err := e.Response.Write(writer); err != nil {
					return
				}

			case InitClientEffect:
				session = e.Session
				s.lock()
				s.sessions[peerKey] = session
				s.unlock()

			case OpenRTPEffect:
				s.openRTP(session, e.SessionID, e.ClientAddr)

			case CloseRTPEffect:
				s.closeRTP(e.SessionID)

			case DropClientEffect:
				s.lock()
				delete(s.sessions, peerKey)
				s.unlock()
			}
		}

		if session != nil {
			session.State = newState
		}
		if newState == StateDone {
			return
		}
	}

	if session != nil {
		s.closeRTP(session.ID)
		s.lock()
		delete(s.sessions, peerKey)
		s.unlock()
	}
}

func (s *Server) openRTP(session *ClientSession, sessionID uuid.UUID, addr *net.UDPAddr) {
	stream, err := s.factory.Resolve(session.StreamPath)
	if err != nil {
		s.log.Warn("resolve on play failed", zap.Error(err))
		return
	}

	s.lock()
	s.activeStream = stream
	s.activeCount++
	startTicker := s.activeCount == 1
	if startTicker {
		s.tickerStop = make(chan struct{})
	}
	stop := s.tickerStop
	s.unlock()

	if err := s.pub.AddDestination(publisher.Destination{SessionID: sessionID, Addr: addr}); err != nil {
		s.log.Warn("add destination failed", zap.Error(err))
	}

	if startTicker {
		go s.tick(stop)
	}
}

func (s *Server) closeRTP(sessionID uuid.UUID) {
	s.pub.RemoveDestination(sessionID)

	s.lock()
	if s.activeCount > 0 {
		s.activeCount--
	}
	stop := s.tickerStop
	last := s.activeCount == 0
	if last {
		s.tickerStop = nil
	}
	s.unlock()

	if last && stop != nil {
		close(stop)
	}
}

// tick drives the active stream at cfg.TickInterval, sending its
// packets to every registered destination until stop is closed
// (spec.md §4.4: ticker started on first active destination, stopped
// when the last one leaves).
func (s *Server) tick(stop chan struct{}) {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			s.lock()
			stream := s.activeStream
			s.unlock()
			if stream == nil {
				continue
			}

			packets, err := stream.NextPackets(now)
			if err != nil {
				s.log.Warn("stream tick failed", zap.Error(err))
				continue
			}
			s.pub.Send(packets)
		}
	}
}
