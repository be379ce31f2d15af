package coordinator

import "fmt"

// State is a lifecycle state of a Coordinator. States only ever advance.
type State int

const (
	// StateActive means the host has not requested shutdown yet.
	StateActive State = iota
	// StateShutdownRequested means shutdown was requested and no operation has
	// finished since.
	StateShutdownRequested
	// StateDraining means operations are finishing after the shutdown
	// request.
	StateDraining
	// StateSettled means every operation has finished. New operations are
	// rejected.
	StateSettled
	// StateDeregistered means the coordinator has been released by its host.
	StateDeregistered
)

func (m State) String() string {
	switch m {
	case StateActive:
		return "active"
	case StateShutdownRequested:
		return "shutdown_requested"
	case StateDraining:
		return "draining"
	case StateSettled:
		return "settled"
	case StateDeregistered:
		return "deregistered"
	default:
		return fmt.Sprintf("unknown(%d)", int(m))
	}
}

// MarshalText encodes the state by name.
func (m State) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
