package room

import (
	"encoding/json"

	"github.com/quizroom/backend/internal/game"
	"github.com/quizroom/backend/internal/protocol"
)

// Msg is the union of everything a room loop can process. All room state is
// mutated by the loop goroutine only, so delivering a Msg is the whole
// concurrency story for a room.
type Msg interface{ isRoomMsg() }

type Join struct {
	PlayerID string
	Name     string
	Avatar   string
	Sess     protocol.Session
}

// Detach removes a session on transport close. PlayerID is whatever the
// transport bound to the session; it may be empty if the client never sent
// a join.
type Detach struct {
	SessionID string
	PlayerID  string
}

type SetMode struct{ Mode game.Mode }

type InitializeScores struct{ Score int }

type InitializeLives struct{ Lives int }

type SetRound struct{ Current, Total int }

type SetQuestion struct{ Payload json.RawMessage }

type SubmitAnswer struct {
	PlayerID string
	Text     string
	Raw      json.RawMessage
}

type LatestAnswers struct{}

type Judge struct{ Results map[string]json.RawMessage }

// GetView replies with a consistent snapshot, read inside the loop. Test
// hook: lets assertions see room state without racing the loop.
type GetView struct{ Reply chan View }

type Shutdown struct{}

// expireCheck is posted by the grace timer armed on detach.
type expireCheck struct{ playerID string }

func (Join) isRoomMsg()             {}
func (Detach) isRoomMsg()           {}
func (SetMode) isRoomMsg()          {}
func (InitializeScores) isRoomMsg() {}
func (InitializeLives) isRoomMsg()  {}
func (SetRound) isRoomMsg()         {}
func (SetQuestion) isRoomMsg()      {}
func (SubmitAnswer) isRoomMsg()     {}
func (LatestAnswers) isRoomMsg()    {}
func (Judge) isRoomMsg()            {}
func (GetView) isRoomMsg()          {}
func (Shutdown) isRoomMsg()         {}
func (expireCheck) isRoomMsg()      {}

// View is a copy of room state at one point in the loop.
type View struct {
	Players          map[string]game.Player
	Connections      int
	Mode             game.Mode
	CurrentRound     int
	TotalRounds      int
	HasQuestion      bool
	Answers          map[string]string
	Results          map[string]game.PlayerResult
	JudgementPending bool
}
