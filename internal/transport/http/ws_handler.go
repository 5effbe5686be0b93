package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"ai-interview-service/internal/app"
	"ai-interview-service/internal/domain"
)

// ProfileExtractor is the best-effort resume collaborator.
type ProfileExtractor interface {
	ExtractProfile(ctx context.Context, resumeText string) domain.Profile
}

// WSHandler wires websocket clients into the interview engine. One engine,
// many observers: every client receives session view updates; commands are
// serialized by the engine itself.
type WSHandler struct {
	engine   *app.Engine
	planner  *app.QuestionPlanner
	profiles ProfileExtractor
	// clientTicks admits transport tick commands as the countdown driver
	// (legacy mode); when false the internal coordinator owns the clock and
	// client ticks are dropped.
	clientTicks bool
	upgrader    websocket.Upgrader
	log         zerolog.Logger
}

func NewWSHandler(engine *app.Engine, planner *app.QuestionPlanner, profiles ProfileExtractor, clientTicks bool, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		engine:      engine,
		planner:     planner,
		profiles:    profiles,
		clientTicks: clientTicks,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	Profile       domain.Profile `json:"profile"`
	ResumeText    string         `json:"resumeText"`
	QuestionSetID string         `json:"questionSetId"`
}

type answerPayload struct {
	Text string `json:"text"`
	Auto bool   `json:"auto"`
}

type questionPayload struct {
	QuestionID string `json:"questionId"`
}

type startedPayload struct {
	CandidateID string `json:"candidateId"`
}

type scoredPayload struct {
	Answer    domain.Answer `json:"answer"`
	Fallback  bool          `json:"fallback"`
	Advisory  string        `json:"advisory,omitempty"`
	Completed bool          `json:"completed"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

const fallbackAdvisory = "automatic scoring was unavailable; a fallback score was recorded"

// ServeWS upgrades HTTP requests to websockets and dispatches interview
// commands.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	updates, cancel := h.engine.Subscribe()
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug().Err(err).Msg("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case view, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "session", Payload: view}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		h.dispatch(r, inbound, send)
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) dispatch(r *http.Request, inbound inboundMessage, send chan outboundMessage[any]) {
	switch inbound.Type {
	case "start":
		var payload startPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errMsg("invalid start payload")
			return
		}
		profile := payload.Profile
		if profile == (domain.Profile{}) && payload.ResumeText != "" && h.profiles != nil {
			profile = h.profiles.ExtractProfile(r.Context(), payload.ResumeText)
		}
		rec := h.engine.RegisterCandidate(profile)
		questions := h.planner.Plan(r.Context(), profile, payload.QuestionSetID)
		h.engine.Start(rec.ID, questions)
		send <- outboundMessage[any]{Type: "started", Payload: startedPayload{CandidateID: rec.ID}}

	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errMsg("invalid answer payload")
			return
		}
		// Deliberately not the request context: an in-flight scoring call is
		// never cancelled, only its result may be discarded.
		res := h.engine.SubmitAnswer(context.Background(), payload.Text, payload.Auto)
		if !res.Applied {
			return
		}
		scored := scoredPayload{Answer: res.Answer, Fallback: res.Fallback, Completed: res.Completed}
		if res.Fallback {
			scored.Advisory = fallbackAdvisory
		}
		send <- outboundMessage[any]{Type: "scored", Payload: scored}

	case "tick":
		if !h.clientTicks {
			return
		}
		var payload questionPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return
		}
		h.engine.Tick(payload.QuestionID)

	case "resetTimer":
		var payload questionPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			send <- errMsg("invalid resetTimer payload")
			return
		}
		h.engine.ResetTimer(payload.QuestionID)

	case "resume":
		if _, err := h.engine.Resume(); err != nil {
			send <- errMsg(err.Error())
		}

	case "restart":
		h.engine.Restart()

	default:
		send <- errMsg("unsupported message type")
	}
}

func errMsg(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}
