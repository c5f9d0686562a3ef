package game

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawResults(t *testing.T, entries map[string]string) map[string]json.RawMessage {
	t.Helper()
	out := make(map[string]json.RawMessage, len(entries))
	for id, entry := range entries {
		out[id] = json.RawMessage(entry)
	}
	return out
}

func TestJudge_ScoringMode(t *testing.T) {
	now := time.Now()
	players := map[string]*Player{
		"a": NewPlayer("a", "Alice", "fox", now),
		"b": NewPlayer("b", "Bob", "owl", now),
	}
	players["a"].Score = 10

	results, skipped := Judge(players, ModeScoring, rawResults(t, map[string]string{
		"a": `{"score": 5, "correct": true}`,
		"b": `{"score": 0, "correct": false}`,
	}))

	require.Empty(t, skipped)

	assert.Equal(t, 15, players["a"].Score)
	assert.Equal(t, 5, players["a"].RoundScore)
	assert.True(t, players["a"].JudgementCorrect)

	assert.Equal(t, 0, players["b"].Score)
	assert.False(t, players["b"].JudgementCorrect)

	require.Contains(t, results, "a")
	require.NotNil(t, results["a"].Score)
	assert.Equal(t, 5, *results["a"].Score)
	assert.Nil(t, results["a"].LostLives)
	assert.Equal(t, "Alice", results["a"].Name)
	assert.Equal(t, "fox", results["a"].Avatar)
}

func TestJudge_SurvivalMode(t *testing.T) {
	players := map[string]*Player{
		"a": NewPlayer("a", "Alice", "fox", time.Now()),
	}
	require.Equal(t, 3, players["a"].Lives)

	results, skipped := Judge(players, ModeSurvival, rawResults(t, map[string]string{
		"a": `{"lostLives": 2, "correct": false}`,
	}))

	require.Empty(t, skipped)
	assert.Equal(t, 1, players["a"].Lives)
	assert.Equal(t, 2, players["a"].LostLivesThisRound)
	assert.False(t, players["a"].JudgementCorrect)

	require.NotNil(t, results["a"].LostLives)
	assert.Equal(t, 2, *results["a"].LostLives)
	assert.Nil(t, results["a"].Score)
}

func TestJudge_LivesMayGoNegative(t *testing.T) {
	players := map[string]*Player{
		"a": NewPlayer("a", "Alice", "fox", time.Now()),
	}

	_, skipped := Judge(players, ModeSurvival, rawResults(t, map[string]string{
		"a": `{"lostLives": 5}`,
	}))

	require.Empty(t, skipped)
	assert.Equal(t, -2, players["a"].Lives)
}

func TestJudge_ModeNoneOnlySetsCorrect(t *testing.T) {
	players := map[string]*Player{
		"a": NewPlayer("a", "Alice", "fox", time.Now()),
	}

	results, _ := Judge(players, ModeNone, rawResults(t, map[string]string{
		"a": `{"correct": true, "score": 9, "lostLives": 9}`,
	}))

	assert.Equal(t, 0, players["a"].Score)
	assert.Equal(t, 3, players["a"].Lives)
	assert.True(t, players["a"].JudgementCorrect)
	assert.Nil(t, results["a"].Score)
	assert.Nil(t, results["a"].LostLives)
}

func TestJudge_MalformedEntrySkipped(t *testing.T) {
	now := time.Now()
	players := map[string]*Player{
		"a": NewPlayer("a", "Alice", "fox", now),
		"b": NewPlayer("b", "Bob", "owl", now),
	}

	results, skipped := Judge(players, ModeScoring, rawResults(t, map[string]string{
		"a": `{"score": 5, "correct": true}`,
		"b": `"not a result object"`,
	}))

	assert.Equal(t, []string{"b"}, skipped)
	assert.Equal(t, 5, players["a"].Score)
	assert.Equal(t, 0, players["b"].Score)
	assert.Contains(t, results, "a")
	assert.NotContains(t, results, "b")
}

func TestJudge_UnknownPlayerIgnored(t *testing.T) {
	players := map[string]*Player{
		"a": NewPlayer("a", "Alice", "fox", time.Now()),
	}

	results, skipped := Judge(players, ModeScoring, rawResults(t, map[string]string{
		"ghost": `{"score": 5}`,
	}))

	assert.Empty(t, skipped)
	assert.Empty(t, results)
}

func TestJudge_AbsentFieldsDefault(t *testing.T) {
	players := map[string]*Player{
		"a": NewPlayer("a", "Alice", "fox", time.Now()),
	}

	results, skipped := Judge(players, ModeScoring, rawResults(t, map[string]string{
		"a": `{}`,
	}))

	require.Empty(t, skipped)
	assert.False(t, players["a"].JudgementCorrect)
	assert.Equal(t, 0, players["a"].Score)
	require.NotNil(t, results["a"].Score)
	assert.Equal(t, 0, *results["a"].Score)
}

func TestPlayerExpired(t *testing.T) {
	now := time.Now()
	p := NewPlayer("a", "Alice", "fox", now)

	assert.False(t, p.Expired(now.Add(4*time.Second), 5*time.Second))
	assert.True(t, p.Expired(now.Add(5*time.Second), 5*time.Second))

	p.Touch(now.Add(4 * time.Second))
	assert.False(t, p.Expired(now.Add(5*time.Second), 5*time.Second))
}
