package mjpegrtsp

import (
	"net"

	"github.com/google/uuid"

	"github.com/tidescope/mjpegrtsp/pkg/base"
)

// Effect is one of the commands step() asks the connection loop to
// perform. This is the redesign REDESIGN FLAGS mandates in place of
// the coroutine-yielded command pattern: step() returns a slice of
// Effect values instead of yielding them one at a time.
type Effect interface {
	isEffect()
}

// RespondEffect asks the loop to write a response on the connection.
// Exactly one of these must appear per processed request (spec.md
// §4.5's one-response-per-request invariant).
type RespondEffect struct {
	Response *base.Response
}

func (RespondEffect) isEffect() {}

// OpenRTPEffect asks the loop to register a UDP destination with the
// publisher.
type OpenRTPEffect struct {
	SessionID  uuid.UUID
	ClientAddr *net.UDPAddr
}

func (OpenRTPEffect) isEffect() {}

// CloseRTPEffect asks the loop to unregister a UDP destination.
type CloseRTPEffect struct {
	SessionID uuid.UUID
}

func (CloseRTPEffect) isEffect() {}

// InitClientEffect asks the loop to register a newly created session
// in the server's session table, keyed by remote address.
type InitClientEffect struct {
	Session *ClientSession
}

func (InitClientEffect) isEffect() {}

// DropClientEffect asks the loop to remove a session from the table
// (TEARDOWN or connection close).
type DropClientEffect struct {
	SessionID uuid.UUID
}

func (DropClientEffect) isEffect() {}
