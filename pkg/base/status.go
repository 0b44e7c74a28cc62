package base

// StatusCode is the numeric status code of an RTSP response.
type StatusCode int

// Status codes used by the server (spec.md §7 error taxonomy); the
// full RFC 2326 §11 catalogue is not needed since only these are ever
// produced by the state machine.
const (
	StatusOK                        StatusCode = 200
	StatusBadRequest                StatusCode = 400
	StatusNotFound                  StatusCode = 404
	StatusMethodNotAllowed          StatusCode = 405
	StatusUnsupportedMediaType      StatusCode = 415
	StatusSessionNotFound           StatusCode = 454
	StatusMethodNotValidInThisState StatusCode = 455
	StatusUnsupportedTransport      StatusCode = 461
	StatusInternalServerError       StatusCode = 500
)

var statusMessages = map[StatusCode]string{
	StatusOK:                        "OK",
	StatusBadRequest:                "Bad Request",
	StatusNotFound:                  "Not Found",
	StatusMethodNotAllowed:          "Method Not Allowed",
	StatusUnsupportedMediaType:      "Unsupported Media Type",
	StatusSessionNotFound:           "Session Not Found",
	StatusMethodNotValidInThisState: "Method Not Valid In This State",
	StatusUnsupportedTransport:      "Unsupported Transport",
	StatusInternalServerError:       "Internal Server Error",
}
