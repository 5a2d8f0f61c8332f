package types

import "github.com/google/uuid"

// RequestID tags one logical operation across logs and errors. It carries no
// state beyond its string form.
type RequestID string

// NewRequestID mints a random request id.
func NewRequestID() RequestID {
	return RequestID(uuid.NewString())
}

func (r RequestID) String() string {
	return string(r)
}
