package station

import (
	"fmt"
	"github.com/go-errors/errors"
)

// ErrStationUnreachable is returned by the client when the request could not
// be enqueued or its reply was abandoned, usually because the station shut down.
var ErrStationUnreachable = errors.New("communication lost with station controller")

// IsUnreachable tells control channel failures apart from answers of the station.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrStationUnreachable)
}

// LinkError is a failure reported by the link layer while the station
// answered a request. It is a delivered answer, not a channel failure.
type LinkError struct {
	Op  string
	Err error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link %s failed: %v", e.Op, e.Err)
}

func (e *LinkError) Unwrap() error {
	return e.Err
}
