package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"family-hub-service/internal/app"
)

// WSHandler drives the trivia game over a websocket. Each connection owns
// at most one active session; starting a new round abandons the previous
// one, and closing the connection abandons whatever is in flight.
type WSHandler struct {
	trivia   *app.TriviaService
	upgrader websocket.Upgrader
}

func NewWSHandler(trivia *app.TriviaService) *WSHandler {
	return &WSHandler{
		trivia: trivia,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs the game loop. Inbound types:
// "start", "answer", "quit". Outbound types mirror session events
// ("question", "feedback", "result") plus "error".
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	var (
		session       *app.TriviaSession
		cancelSub     func()
		forwarderDone chan struct{}
	)

	stopSession := func() {
		if session == nil {
			return
		}
		session.Abandon()
		cancelSub()
		<-forwarderDone
		session, cancelSub, forwarderDone = nil, nil, nil
	}

	startSession := func() {
		stopSession()
		s, err := h.trivia.StartSession(r.Context())
		if err != nil {
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			return
		}
		events, cancel := s.Subscribe()
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				select {
				case event, ok := <-events:
					if !ok {
						return
					}
					select {
					case send <- sessionEnvelope(event):
					case <-closeSignals:
						return
					}
				case <-closeSignals:
					return
				}
			}
		}()
		session, cancelSub, forwarderDone = s, cancel, done
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			startSession()
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			if session == nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "no trivia round in progress"}}
				continue
			}
			// Repeats and answers outside the answering phase are ignored;
			// feedback arrives through the session subscription.
			session.Submit(payload.Answer)
		case "quit":
			stopSession()
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	stopSession()
	close(send)
	<-writerDone
}

func sessionEnvelope(event app.SessionEvent) outboundMessage[any] {
	var payload any
	switch {
	case event.Question != nil:
		payload = event.Question
	case event.Feedback != nil:
		payload = event.Feedback
	case event.Result != nil:
		payload = event.Result
	}
	return outboundMessage[any]{Type: event.Type, Payload: payload}
}
