package room

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quizroom/backend/internal/game"
	"github.com/quizroom/backend/internal/protocol"
)

type Config struct {
	// GracePeriod is how long a disconnected player may stay absent before
	// eviction.
	GracePeriod time.Duration
	// SendTimeout bounds each per-connection broadcast write.
	SendTimeout time.Duration
	// SweepInterval is the cadence of the redundant expiry sweep.
	SweepInterval time.Duration
}

func (c Config) withDefaults() Config {
	if c.GracePeriod <= 0 {
		c.GracePeriod = 5 * time.Second
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = 3 * time.Second
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = c.GracePeriod
	}
	return c
}

// Room owns all players, connections, and round state for one game
// instance. A single loop goroutine is the only writer; everything reaches
// it through the inbox. Different rooms are fully independent.
type Room struct {
	id    string
	inbox chan Msg
	cfg   Config
	log   *zap.Logger

	players  map[string]*game.Player
	sessions map[string]protocol.Session
	// inGrace tracks players whose session dropped and whose eviction timer
	// is pending. The periodic sweep only looks at these, so a connected
	// but idle player is never swept.
	inGrace map[string]struct{}

	mode             game.Mode
	currentRound     int
	totalRounds      int
	currentQuestion  json.RawMessage
	answers          map[string]string
	results          map[string]game.PlayerResult
	judgementPending bool

	onEmpty func(*Room)
	ctx     context.Context
	cancel  context.CancelFunc
}

// New starts a room. onEmpty runs on the room loop the moment the player
// map becomes empty, right before the loop exits.
func New(parent context.Context, id string, cfg Config, log *zap.Logger, onEmpty func(*Room)) *Room {
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		id:       id,
		inbox:    make(chan Msg, 64),
		cfg:      cfg.withDefaults(),
		log:      log.With(zap.String("room", id)),
		players:  make(map[string]*game.Player),
		sessions: make(map[string]protocol.Session),
		inGrace:  make(map[string]struct{}),
		mode:     game.ModeNone,
		answers:  make(map[string]string),
		onEmpty:  onEmpty,
		ctx:      ctx,
		cancel:   cancel,
	}
	go r.loop()
	return r
}

func (r *Room) ID() string { return r.id }

// Post delivers a message to the loop unless the room already shut down.
func (r *Room) Post(m Msg) {
	select {
	case r.inbox <- m:
	case <-r.ctx.Done():
	}
}

func (r *Room) loop() {
	ticker := time.NewTicker(r.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			r.checkExpiredPlayers()

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)

			case Detach:
				r.handleDetach(msg)

			case SetMode:
				r.mode = msg.Mode
				r.log.Info("mode changed", zap.String("mode", string(r.mode)))
				r.broadcast(protocol.NewModeChanged(r.mode))

			case InitializeScores:
				for _, p := range r.players {
					p.Score = msg.Score
				}
				r.broadcastPlayerList()

			case InitializeLives:
				for _, p := range r.players {
					p.Lives = msg.Lives
				}
				r.broadcastPlayerList()

			case SetRound:
				r.currentRound, r.totalRounds = msg.Current, msg.Total
				r.broadcast(protocol.NewRound(r.currentRound, r.totalRounds))

			case SetQuestion:
				r.currentQuestion = msg.Payload
				r.broadcastRaw(msg.Payload)

			case SubmitAnswer:
				// Last write wins; no check that the player exists or that
				// judging already closed.
				r.answers[msg.PlayerID] = msg.Text
				r.broadcastRaw(msg.Raw)

			case LatestAnswers:
				r.broadcast(protocol.NewLatestAnswers(r.latestAnswers()))

			case Judge:
				r.handleJudge(msg)

			case expireCheck:
				r.expirePlayer(msg.playerID)

			case GetView:
				msg.Reply <- r.view()

			case Shutdown:
				r.cancel()
				return
			}
		}
	}
}

func (r *Room) handleJoin(msg Join) {
	now := time.Now()
	if p, ok := r.players[msg.PlayerID]; ok {
		// Resume: keep score/lives/history, refresh presence. An armed
		// eviction timer re-reads LastActiveAt at fire time and backs off.
		p.Touch(now)
		delete(r.inGrace, msg.PlayerID)
		r.log.Info("player resumed", zap.String("player", p.ID), zap.String("name", p.Name))
	} else {
		p := game.NewPlayer(msg.PlayerID, msg.Name, msg.Avatar, now)
		r.players[msg.PlayerID] = p
		r.log.Info("player joined", zap.String("player", p.ID), zap.String("name", p.Name))
	}
	r.sessions[msg.Sess.ID()] = msg.Sess

	r.broadcast(protocol.NewNotification(fmt.Sprintf("%s joined the room.", msg.Name)))
	if r.currentQuestion != nil {
		r.broadcastRaw(r.currentQuestion)
	}
	r.broadcast(protocol.NewModeChanged(r.mode))
	r.broadcast(protocol.NewRound(r.currentRound, r.totalRounds))
	r.broadcastPlayerList()
}

func (r *Room) handleDetach(msg Detach) {
	delete(r.sessions, msg.SessionID)
	if p, ok := r.players[msg.PlayerID]; ok {
		p.Touch(time.Now()) // start of the grace window
		r.inGrace[msg.PlayerID] = struct{}{}
		r.armExpiry(msg.PlayerID)
		r.log.Info("player disconnected, grace armed", zap.String("player", msg.PlayerID))
	}
	if len(r.players) == 0 {
		r.close()
		return
	}
	r.broadcastPlayerList()
}

func (r *Room) handleJudge(msg Judge) {
	results, skipped := game.Judge(r.players, r.mode, msg.Results)
	for _, id := range skipped {
		r.log.Error("skipping malformed judgement entry", zap.String("player", id))
	}
	r.judgementPending = false
	r.results = results
	r.broadcast(protocol.NewJudgementComplete(results, r.currentRound))
	r.broadcastPlayerList()
}

// close tears the room down once the player map is empty. A room with zero
// players must not persist, even if sessions are still open.
func (r *Room) close() {
	r.log.Info("room empty, closing")
	if r.onEmpty != nil {
		r.onEmpty(r)
	}
	r.cancel()
}

// broadcast serializes the envelope once and pushes the identical bytes to
// every live connection. A serialization failure aborts this broadcast only.
func (r *Room) broadcast(envelope any) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		r.log.Error("dropping broadcast", zap.Error(err))
		return
	}
	r.broadcastRaw(payload)
}

func (r *Room) broadcastRaw(payload []byte) {
	protocol.Fanout(r.log, r.sessions, payload, r.cfg.SendTimeout)
}

func (r *Room) broadcastPlayerList() {
	list := make([]protocol.PlayerSummary, 0, len(r.players))
	for _, p := range r.players {
		list = append(list, protocol.PlayerSummary{
			ID:     p.ID,
			Name:   p.Name,
			Avatar: p.Avatar,
			Score:  p.Score,
			Lives:  p.Lives,
		})
	}
	slices.SortFunc(list, func(a, b protocol.PlayerSummary) int {
		return strings.Compare(a.ID, b.ID)
	})
	r.broadcast(protocol.NewPlayerList(list))
}

// latestAnswers snapshots the current answers for every known player. A
// player who has not answered gets a nil SubmittedAnswer, which serializes
// as null and stays distinguishable from an empty string.
func (r *Room) latestAnswers() []protocol.AnswerView {
	views := make([]protocol.AnswerView, 0, len(r.players))
	for id, p := range r.players {
		view := protocol.AnswerView{ID: id, Name: p.Name, Avatar: p.Avatar}
		if text, ok := r.answers[id]; ok {
			view.SubmittedAnswer = &text
		}
		views = append(views, view)
	}
	slices.SortFunc(views, func(a, b protocol.AnswerView) int {
		return strings.Compare(a.ID, b.ID)
	})
	return views
}

func (r *Room) view() View {
	players := make(map[string]game.Player, len(r.players))
	for id, p := range r.players {
		players[id] = *p
	}
	answers := make(map[string]string, len(r.answers))
	for id, text := range r.answers {
		answers[id] = text
	}
	results := make(map[string]game.PlayerResult, len(r.results))
	for id, res := range r.results {
		results[id] = res
	}
	return View{
		Players:          players,
		Connections:      len(r.sessions),
		Mode:             r.mode,
		CurrentRound:     r.currentRound,
		TotalRounds:      r.totalRounds,
		HasQuestion:      r.currentQuestion != nil,
		Answers:          answers,
		Results:          results,
		JudgementPending: r.judgementPending,
	}
}
