package protocol

import (
	"encoding/json"
	"errors"
)

var ErrUnknownEvent = errors.New("unknown event type")
var ErrBadPayload = errors.New("malformed event payload")

// Event is one decoded inbound client event.
type Event interface{ isEvent() }

type Join struct {
	ID     string
	Name   string
	Avatar string
}

type ModeChange struct{ Mode string }

type InitializeScores struct{ Score int }

type InitializeLives struct{ Lives int }

type RoundUpdate struct {
	CurrentRound int
	TotalRounds  int
}

type GetLatestAnswers struct{}

// Question carries the entire inbound payload; the question itself is the
// broadcast message, re-sent verbatim with no envelope wrapper.
type Question struct{ Raw json.RawMessage }

// Answer keeps the raw payload alongside the decoded fields because the
// submission is echoed back to the room byte-for-byte.
type Answer struct {
	PlayerID string
	Text     string
	Raw      json.RawMessage
}

// Judgement defers per-entry decoding to the judging step, where a
// malformed entry is skipped without failing its siblings.
type Judgement struct{ Results map[string]json.RawMessage }

func (Join) isEvent()             {}
func (ModeChange) isEvent()       {}
func (InitializeScores) isEvent() {}
func (InitializeLives) isEvent()  {}
func (RoundUpdate) isEvent()      {}
func (GetLatestAnswers) isEvent() {}
func (Question) isEvent()         {}
func (Answer) isEvent()           {}
func (Judgement) isEvent()        {}

// Decode turns one inbound frame into a typed event.
func Decode(data []byte) (Event, error) {
	var frame struct {
		Type         string                     `json:"type"`
		ID           string                     `json:"id"`
		Name         string                     `json:"name"`
		Avatar       string                     `json:"avatar"`
		Mode         string                     `json:"mode"`
		Score        int                        `json:"score"`
		Lives        int                        `json:"lives"`
		CurrentRound int                        `json:"currentRound"`
		TotalRounds  int                        `json:"totalRounds"`
		PlayerID     string                     `json:"playerId"`
		Text         string                     `json:"text"`
		Results      map[string]json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, ErrBadPayload
	}

	switch frame.Type {
	case "join":
		return Join{ID: frame.ID, Name: frame.Name, Avatar: frame.Avatar}, nil
	case "mode_change":
		return ModeChange{Mode: frame.Mode}, nil
	case "initialize_scores":
		return InitializeScores{Score: frame.Score}, nil
	case "initialize_lives":
		return InitializeLives{Lives: frame.Lives}, nil
	case "round_update":
		return RoundUpdate{CurrentRound: frame.CurrentRound, TotalRounds: frame.TotalRounds}, nil
	case "get_latest_answers":
		return GetLatestAnswers{}, nil
	case "question":
		return Question{Raw: append(json.RawMessage(nil), data...)}, nil
	case "answer":
		return Answer{PlayerID: frame.PlayerID, Text: frame.Text, Raw: append(json.RawMessage(nil), data...)}, nil
	case "judgement":
		return Judgement{Results: frame.Results}, nil
	default:
		return nil, ErrUnknownEvent
	}
}
