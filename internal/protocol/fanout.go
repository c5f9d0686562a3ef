package protocol

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Fanout writes the same payload to every session, bounding each write so a
// dead or slow connection cannot stall the rest. A failed write is logged
// and skipped; the session stays in the set until the disconnect path
// removes it.
func Fanout(log *zap.Logger, sessions map[string]Session, payload []byte, timeout time.Duration) {
	for _, sess := range sessions {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		err := sess.Send(ctx, payload)
		cancel()
		if err != nil {
			log.Warn("broadcast write failed",
				zap.String("session", sess.ID()),
				zap.Error(err))
		}
	}
}
