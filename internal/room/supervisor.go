package room

import (
	"time"

	"go.uber.org/zap"
)

// Reconnection supervision. A disconnect arms a one-shot timer; the fire
// posts back into the loop, so the eviction decision runs serialized with
// joins and re-reads the authoritative LastActiveAt. A resume inside the
// grace window makes the fire a no-op and does not re-arm (a later
// disconnect arms a fresh timer).

func (r *Room) armExpiry(playerID string) {
	time.AfterFunc(r.cfg.GracePeriod, func() {
		r.Post(expireCheck{playerID: playerID})
	})
}

func (r *Room) expirePlayer(playerID string) {
	p, ok := r.players[playerID]
	if !ok {
		return
	}
	now := time.Now()
	if !p.Expired(now, r.cfg.GracePeriod) {
		// Reconnected since the timer was armed.
		return
	}
	r.evict(playerID)
	if len(r.players) == 0 {
		r.close()
	}
}

// checkExpiredPlayers is the periodic net behind the one-shot timers. It
// only considers players in the grace window and applies the same
// re-check-at-decision-time rule.
func (r *Room) checkExpiredPlayers() {
	now := time.Now()
	var expired []string
	for id := range r.inGrace {
		p, ok := r.players[id]
		if !ok {
			delete(r.inGrace, id)
			continue
		}
		if p.Expired(now, r.cfg.GracePeriod) {
			expired = append(expired, id)
		}
	}
	for _, id := range expired {
		r.evict(id)
	}
	if len(expired) > 0 && len(r.players) == 0 {
		r.close()
	}
}

func (r *Room) evict(playerID string) {
	delete(r.players, playerID)
	delete(r.inGrace, playerID)
	r.log.Info("player evicted after grace period", zap.String("player", playerID))
}
