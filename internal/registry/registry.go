package registry

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/quizroom/backend/internal/game"
	"github.com/quizroom/backend/internal/protocol"
	"github.com/quizroom/backend/internal/room"
)

type msg interface{ isRegistryMsg() }

type ensureRoom struct {
	id    string
	reply chan *room.Room
}

type getRoom struct {
	id    string
	reply chan *room.Room
}

type removeRoom struct {
	id string
	rm *room.Room
}

type shutdown struct{}

func (ensureRoom) isRegistryMsg() {}
func (getRoom) isRegistryMsg()    {}
func (removeRoom) isRegistryMsg() {}
func (shutdown) isRegistryMsg()   {}

// Registry is the process-wide roomId → Room map and the single source of
// truth for room existence. Rooms are created lazily on connect and removed
// the moment their last player is gone. Empty at startup; injected into the
// transport handlers rather than living in a package global.
type Registry struct {
	inbox  chan msg
	rooms  map[string]*room.Room
	cfg    room.Config
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, cfg room.Config, log *zap.Logger) *Registry {
	ctx, cancel := context.WithCancel(parent)
	r := &Registry{
		inbox:  make(chan msg, 64),
		rooms:  make(map[string]*room.Room),
		cfg:    cfg,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go r.loop()
	return r
}

func (r *Registry) loop() {
	for {
		select {
		case <-r.ctx.Done():
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case ensureRoom:
				rm := r.rooms[msg.id]
				if rm == nil {
					rm = room.New(r.ctx, msg.id, r.cfg, r.log, r.releaseRoom)
					r.rooms[msg.id] = rm
					r.log.Info("room created", zap.String("room", msg.id))
				}
				msg.reply <- rm

			case getRoom:
				msg.reply <- r.rooms[msg.id] // may be nil

			case removeRoom:
				// A new room may already exist under the same id; only drop
				// the entry if it is still the instance that emptied.
				if r.rooms[msg.id] == msg.rm {
					delete(r.rooms, msg.id)
					r.log.Info("room removed", zap.String("room", msg.id))
				}

			case shutdown:
				for _, rm := range r.rooms {
					rm.Post(room.Shutdown{})
				}
				clear(r.rooms)
				r.cancel()
			}
		}
	}
}

// releaseRoom runs on a room's loop when its last player is gone.
func (r *Registry) releaseRoom(rm *room.Room) {
	select {
	case r.inbox <- removeRoom{id: rm.ID(), rm: rm}:
	case <-r.ctx.Done():
	}
}

func (r *Registry) ensure(id string) *room.Room {
	reply := make(chan *room.Room, 1)
	select {
	case r.inbox <- ensureRoom{id: id, reply: reply}:
	case <-r.ctx.Done():
		return nil
	}
	select {
	case rm := <-reply:
		return rm
	case <-r.ctx.Done():
		return nil
	}
}

func (r *Registry) get(id string) *room.Room {
	reply := make(chan *room.Room, 1)
	select {
	case r.inbox <- getRoom{id: id, reply: reply}:
	case <-r.ctx.Done():
		return nil
	}
	select {
	case rm := <-reply:
		return rm
	case <-r.ctx.Done():
		return nil
	}
}

// Connect resolves the room, creating it on first reference, and runs the
// join contract for the player. Every other operation is a no-op when the
// room does not exist.
func (r *Registry) Connect(roomID, playerID, name, avatar string, sess protocol.Session) {
	if rm := r.ensure(roomID); rm != nil {
		rm.Post(room.Join{PlayerID: playerID, Name: name, Avatar: avatar, Sess: sess})
	}
}

// Disconnect detaches the session. The room arms the grace timer for the
// player and tears itself down if no players remain.
func (r *Registry) Disconnect(roomID, sessionID, playerID string) {
	if rm := r.get(roomID); rm != nil {
		rm.Post(room.Detach{SessionID: sessionID, PlayerID: playerID})
	}
}

func (r *Registry) UpdateMode(roomID string, mode game.Mode) {
	if rm := r.get(roomID); rm != nil {
		rm.Post(room.SetMode{Mode: mode})
	}
}

func (r *Registry) InitializeScores(roomID string, score int) {
	if rm := r.get(roomID); rm != nil {
		rm.Post(room.InitializeScores{Score: score})
	}
}

func (r *Registry) InitializeLives(roomID string, lives int) {
	if rm := r.get(roomID); rm != nil {
		rm.Post(room.InitializeLives{Lives: lives})
	}
}

func (r *Registry) UpdateRound(roomID string, current, total int) {
	if rm := r.get(roomID); rm != nil {
		rm.Post(room.SetRound{Current: current, Total: total})
	}
}

func (r *Registry) GetLatestAnswers(roomID string) {
	if rm := r.get(roomID); rm != nil {
		rm.Post(room.LatestAnswers{})
	}
}

func (r *Registry) SetQuestion(roomID string, payload json.RawMessage) {
	if rm := r.get(roomID); rm != nil {
		rm.Post(room.SetQuestion{Payload: payload})
	}
}

func (r *Registry) SubmitAnswer(roomID, playerID, text string, raw json.RawMessage) {
	if rm := r.get(roomID); rm != nil {
		rm.Post(room.SubmitAnswer{PlayerID: playerID, Text: text, Raw: raw})
	}
}

func (r *Registry) JudgeAnswers(roomID string, results map[string]json.RawMessage) {
	if rm := r.get(roomID); rm != nil {
		rm.Post(room.Judge{Results: results})
	}
}

// Lookup exposes room existence for tests and diagnostics.
func (r *Registry) Lookup(roomID string) *room.Room {
	return r.get(roomID)
}

func (r *Registry) Shutdown() {
	select {
	case r.inbox <- shutdown{}:
	case <-r.ctx.Done():
	}
}
