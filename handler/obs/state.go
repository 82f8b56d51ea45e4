package obs

type State int32

const (
	StateIdle State = iota
	StateConnecting
	StateAwaitingIdentify
	StateReady
	StateClosed
	StateFailed
	StateDisconnected
)

var stateNames = [...]string{
	StateIdle:             "Idle",
	StateConnecting:       "Connecting",
	StateAwaitingIdentify: "AwaitingIdentify",
	StateReady:            "Ready",
	StateClosed:           "Closed",
	StateFailed:           "Failed",
	StateDisconnected:     "Disconnected",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// handshaking reports whether a Connect is still waiting on the server.
func (s State) handshaking() bool {
	return s == StateConnecting || s == StateAwaitingIdentify
}

// canConnect reports whether Connect may start a new session from s.
func (s State) canConnect() bool {
	switch s {
	case StateIdle, StateFailed, StateDisconnected, StateClosed:
		return true
	}
	return false
}
