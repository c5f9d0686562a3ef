package ws

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quizroom/backend/internal/game"
	"github.com/quizroom/backend/internal/protocol"
	"github.com/quizroom/backend/internal/registry"
)

// session adapts one websocket connection to the protocol.Session the room
// fan-out writes to.
type session struct {
	id   string
	conn *websocket.Conn
}

func (s *session) ID() string { return s.id }

func (s *session) Send(ctx context.Context, payload []byte) error {
	return s.conn.Write(ctx, websocket.MessageText, payload)
}

// Handler accepts a websocket on /ws/{roomID} and pumps decoded events into
// the registry. The room id comes from the route; the player id is bound by
// the first join event so the close path can run the disconnect contract
// with both.
func Handler(reg *registry.Registry, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")
		if roomID == "" {
			http.Error(w, "missing room id", http.StatusBadRequest)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		sess := &session{id: uuid.NewString(), conn: conn}
		log := log.With(zap.String("room", roomID), zap.String("session", sess.id))
		log.Info("connection established")

		playerID := ""
		defer func() {
			log.Info("connection closed", zap.String("player", playerID))
			reg.Disconnect(roomID, sess.id, playerID)
		}()

		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				// Clean close or going-away is the normal end of a session;
				// anything else still just runs the deferred disconnect.
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					return
				}
				return
			}

			ev, err := protocol.Decode(data)
			if err != nil {
				log.Warn("ignoring event", zap.Error(err))
				continue
			}

			switch ev := ev.(type) {
			case protocol.Join:
				playerID = ev.ID
				reg.Connect(roomID, ev.ID, ev.Name, ev.Avatar, sess)
			case protocol.ModeChange:
				reg.UpdateMode(roomID, game.Mode(ev.Mode))
			case protocol.InitializeScores:
				reg.InitializeScores(roomID, ev.Score)
			case protocol.InitializeLives:
				reg.InitializeLives(roomID, ev.Lives)
			case protocol.RoundUpdate:
				reg.UpdateRound(roomID, ev.CurrentRound, ev.TotalRounds)
			case protocol.GetLatestAnswers:
				reg.GetLatestAnswers(roomID)
			case protocol.Question:
				reg.SetQuestion(roomID, ev.Raw)
			case protocol.Answer:
				reg.SubmitAnswer(roomID, ev.PlayerID, ev.Text, ev.Raw)
			case protocol.Judgement:
				reg.JudgeAnswers(roomID, ev.Results)
			}
		}
	}
}
