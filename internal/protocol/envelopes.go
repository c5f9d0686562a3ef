package protocol

import "github.com/quizroom/backend/internal/game"

// Outbound envelopes. Each carries a type discriminator; an envelope is
// serialized once and the identical bytes go to every live connection in
// the room.

type Notification struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewNotification(message string) Notification {
	return Notification{Type: "notification", Message: message}
}

type ModeChanged struct {
	Type        string `json:"type"`
	CurrentMode string `json:"currentMode"`
}

func NewModeChanged(mode game.Mode) ModeChanged {
	return ModeChanged{Type: "mode_change", CurrentMode: string(mode)}
}

type Round struct {
	Type         string `json:"type"`
	CurrentRound int    `json:"currentRound"`
	TotalRounds  int    `json:"totalRounds"`
}

func NewRound(current, total int) Round {
	return Round{Type: "round", CurrentRound: current, TotalRounds: total}
}

type PlayerSummary struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Score  int    `json:"score"`
	Lives  int    `json:"lives"`
}

type PlayerList struct {
	Type    string          `json:"type"`
	Players []PlayerSummary `json:"players"`
}

func NewPlayerList(players []PlayerSummary) PlayerList {
	return PlayerList{Type: "player_list", Players: players}
}

// AnswerView distinguishes "not yet answered" (null) from an empty answer.
type AnswerView struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Avatar          string  `json:"avatar"`
	SubmittedAnswer *string `json:"submitted_answer"`
}

type LatestAnswers struct {
	Type          string       `json:"type"`
	LatestAnswers []AnswerView `json:"latest_answers"`
}

func NewLatestAnswers(views []AnswerView) LatestAnswers {
	return LatestAnswers{Type: "latest_answers", LatestAnswers: views}
}

type JudgementComplete struct {
	Type    string                       `json:"type"`
	Results map[string]game.PlayerResult `json:"results"`
	Round   int                          `json:"round"`
}

func NewJudgementComplete(results map[string]game.PlayerResult, round int) JudgementComplete {
	return JudgementComplete{Type: "judgement_complete", Results: results, Round: round}
}
