package game

import "encoding/json"

// Result is one verdict as submitted by the host client. Score applies in
// scoring mode, LostLives in survival mode; absent fields default to zero.
type Result struct {
	Correct   bool `json:"correct"`
	Score     int  `json:"score"`
	LostLives int  `json:"lostLives"`
}

// PlayerResult is the public-facing result line broadcast after a judging
// cycle. Score and LostLives serialize as null outside their mode.
type PlayerResult struct {
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Correct   bool   `json:"correct"`
	Score     *int   `json:"score"`
	LostLives *int   `json:"lostLives"`
}

// Judge applies one round of verdicts to the players it knows about and
// returns the result lines keyed by player id, plus the ids of entries that
// were not well-formed result objects. Malformed entries are skipped so one
// bad entry never sinks the rest of the round; entries for unknown players
// are ignored.
func Judge(players map[string]*Player, mode Mode, raw map[string]json.RawMessage) (map[string]PlayerResult, []string) {
	results := make(map[string]PlayerResult, len(raw))
	var skipped []string

	for id, entry := range raw {
		var res Result
		if !isObject(entry) || json.Unmarshal(entry, &res) != nil {
			skipped = append(skipped, id)
			continue
		}
		p, ok := players[id]
		if !ok {
			continue
		}

		line := PlayerResult{Name: p.Name, Avatar: p.Avatar, Correct: res.Correct}
		switch mode {
		case ModeScoring:
			p.RoundScore = res.Score
			p.Score += res.Score
			score := res.Score
			line.Score = &score
		case ModeSurvival:
			// Lives may go negative; no floor at this layer.
			p.Lives -= res.LostLives
			p.LostLivesThisRound = res.LostLives
			lost := res.LostLives
			line.LostLives = &lost
		}
		p.JudgementCorrect = res.Correct

		results[id] = line
	}

	return results, skipped
}

func isObject(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b == '{'
		}
	}
	return false
}
