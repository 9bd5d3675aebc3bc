package events

import "time"

// AuthzStart is emitted before an authorization pass walks a result tree.
type AuthzStart struct {
	Operation string
}

// AuthzDenied is emitted for every object node the gate rejects.
type AuthzDenied struct {
	TypeName string
	Rule     string
	Line     int
	Column   int
}

// AuthzFinish is emitted after the pass returns, whether it completed or
// aborted on a configuration error.
type AuthzFinish struct {
	Operation string
	Denied    int
	Err       error
	Duration  time.Duration
}
