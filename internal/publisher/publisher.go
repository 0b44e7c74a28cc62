// Package publisher owns the server's single outbound RTP/UDP socket
// and the table of client destinations currently subscribed to it. It
// is grounded on the UDP listener goroutine and destination table of
// gortsplib's server UDP listener, reshaped into the single-goroutine,
// channel-owned style the rest of this server uses instead of a
// mutex-protected map: every mutation of the destination table runs
// on the Publisher's own goroutine, reached only through its channel
// API ("share memory by communicating").
package publisher

import (
	"net"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/tidescope/mjpegrtsp/pkg/rtp"
)

// ErrClosed is returned by Publisher methods called after Close.
var ErrClosed = errors.New("publisher: closed")

// Destination is one UDP endpoint currently receiving the stream.
type Destination struct {
	SessionID uuid.UUID
	Addr      *net.UDPAddr
}

type addReq struct {
	dst  Destination
	done chan error
}

type removeReq struct {
	sessionID uuid.UUID
	done      chan struct{}
}

type sendReq struct {
	packets []*rtp.Packet
}

// Publisher owns one UDP socket and fans out RTP packets to every
// registered destination. All state is private to its run goroutine;
// callers interact exclusively through AddDestination, RemoveDestination
// and Send.
type Publisher struct {
	conn *net.UDPConn
	log  *zap.Logger

	addCh    chan addReq
	removeCh chan removeReq
	sendCh   chan sendReq
	closeCh  chan struct{}
	doneCh   chan struct{}
}

// New binds a UDP socket on the given local address (":0" picks an
// ephemeral port) and starts the owning goroutine.
func New(localAddr string, log *zap.Logger) (*Publisher, error) {
	addr, err := net.ResolveUDPAddr("udp", localAddr)
	if err != nil {
		return nil, errors.Wrap(err, "resolving publisher address")
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, errors.Wrap(err, "binding publisher socket")
	}

	if log == nil {
		log = zap.NewNop()
	}

	p := &Publisher{
		conn:     conn,
		log:      log,
		addCh:    make(chan addReq),
		removeCh: make(chan removeReq),
		sendCh:   make(chan sendReq),
		closeCh:  make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	go p.run()

	return p, nil
}

// Port returns the locally bound UDP port, used to fill the Transport
// header's server_port on SETUP (spec.md §6).
func (p *Publisher) Port() int {
	return p.conn.LocalAddr().(*net.UDPAddr).Port
}

// AddDestination registers a destination. Safe to call concurrently;
// serialized onto the owning goroutine.
func (p *Publisher) AddDestination(dst Destination) error {
	done := make(chan error, 1)
	select {
	case p.addCh <- addReq{dst: dst, done: done}:
	case <-p.doneCh:
		return ErrClosed
	}
	return <-done
}

// RemoveDestination unregisters a destination by session id. A no-op
// if the session was never registered.
func (p *Publisher) RemoveDestination(sessionID uuid.UUID) {
	done := make(chan struct{})
	select {
	case p.removeCh <- removeReq{sessionID: sessionID, done: done}:
		<-done
	case <-p.doneCh:
	}
}

// Send enqueues packets for delivery to every current destination.
func (p *Publisher) Send(packets []*rtp.Packet) {
	select {
	case p.sendCh <- sendReq{packets: packets}:
	case <-p.doneCh:
	}
}

// Close stops the owning goroutine and releases the socket.
func (p *Publisher) Close() {
	select {
	case <-p.doneCh:
		return
	default:
	}
	close(p.closeCh)
	<-p.doneCh
}

func (p *Publisher) run() {
	defer close(p.doneCh)
	defer p.conn.Close()

	destinations := make(map[uuid.UUID]Destination)

	for {
		select {
		case req := <-p.addCh:
			destinations[req.dst.SessionID] = req.dst
			p.log.Debug("destination added", zap.String("session", req.dst.SessionID.String()))
			req.done <- nil

		case req := <-p.removeCh:
			delete(destinations, req.sessionID)
			p.log.Debug("destination removed", zap.String("session", req.sessionID.String()))
			close(req.done)

		case req := <-p.sendCh:
			for _, pkt := range req.packets {
				buf := pkt.Marshal()
				for _, dst := range destinations {
					if _, err := p.conn.WriteToUDP(buf, dst.Addr); err != nil {
						p.log.Warn("write failed", zap.Error(err), zap.String("session", dst.SessionID.String()))
					}
				}
			}

		case <-p.closeCh:
			return
		}
	}
}
