package protocol

import "context"

// Session is one live transport-level channel. The transport owns framing
// and encoding; the core only needs a stable identity and a way to push
// serialized bytes.
type Session interface {
	ID() string
	Send(ctx context.Context, payload []byte) error
}
