package checkout

// State is the phase of one checkout attempt. Transitions are
// one-directional; Committed and Failed are terminal.
type State int

const (
	StateIdle State = iota
	StateOrderCreated
	StateAwaitingGatewayCompletion
	StateVerifying
	StateCommitted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateOrderCreated:
		return "ORDER_CREATED"
	case StateAwaitingGatewayCompletion:
		return "AWAITING_GATEWAY_COMPLETION"
	case StateVerifying:
		return "VERIFYING"
	case StateCommitted:
		return "COMMITTED"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the attempt can make no further transition.
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateFailed
}
