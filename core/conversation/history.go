package conversation

import "errors"

var (
	ErrInvalidRole    = errors.New("invalid role")
	ErrInvalidMessage = errors.New("invalid message")
	ErrNotArtifact    = errors.New("message is not an artifact")
)

// History is the ordered, append-only record of a conversation. Index order
// is causal order.
type History []Message

// Append returns a new History holding h followed by msgs. The receiver's
// backing array is never written to.
func (h History) Append(msgs ...Message) History {
	out := make(History, 0, len(h)+len(msgs))
	out = append(out, h...)
	return append(out, msgs...)
}

// Last returns up to n trailing messages.
func (h History) Last(n int) History {
	if n <= 0 {
		return History{}
	}
	if len(h) <= n {
		return h
	}
	return h[len(h)-n:]
}

// HasAgentTurn reports whether any persona has spoken yet.
func (h History) HasAgentTurn() bool {
	for _, m := range h {
		if m.Role == RoleAgent {
			return true
		}
	}
	return false
}

// Validate checks every message and returns the first violation.
func (h History) Validate() error {
	for _, m := range h {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a deep copy, including data payloads.
func (h History) Clone() History {
	out := make(History, len(h))
	for i, m := range h {
		out[i] = m
		if m.Data != nil {
			out[i].Data = append([]byte(nil), m.Data...)
		}
	}
	return out
}
