package mjpegrtsp

import (
	"net"

	"github.com/google/uuid"

	"github.com/tidescope/mjpegrtsp/pkg/headers"
)

// SessionState is a client session's position in the SETUP/PLAY/PAUSE/
// TEARDOWN lifecycle (spec.md §3).
type SessionState int

const (
	StateInit SessionState = iota
	StateReady
	StatePlaying
	StatePaused
	StateDone
)

// String implements fmt.Stringer.
func (s SessionState) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateReady:
		return "READY"
	case StatePlaying:
		return "PLAYING"
	case StatePaused:
		return "PAUSED"
	case StateDone:
		return "DONE"
	}
	return "UNKNOWN"
}

// ClientSession is the per-peer state touched only by the goroutine
// handling that peer's TCP connection (spec.md §3: "mutated only from
// the I/O task handling that peer").
type ClientSession struct {
	ID uuid.UUID

	// SessionID is the decimal integer the wire protocol exchanges in
	// the Session header (spec.md §4.5).
	SessionID int

	RemoteAddr *net.UDPAddr
	State      SessionState

	StreamPath  string
	ClientPorts [2]int
	Transport   *headers.Transport
}
