package handler

import (
	"context"
	"log"
	"net/http"
	"reflect"
	"strings"
	"time"

	"appforge/internal/session"

	"github.com/gorilla/websocket"
)

const (
	watchWSWriteWait = 10 * time.Second
	watchWSPongWait  = 60 * time.Second
	watchWSPingEvery = (watchWSPongWait * 9) / 10
	watchWSPoll      = 2 * time.Second
)

var watchWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

type watchWSInbound struct {
	Type string `json:"type"`
}

type watchWSOutbound struct {
	Type      string                `json:"type"`
	ProjectID string                `json:"projectId,omitempty"`
	State     *session.DerivedState `json:"state,omitempty"`
	Code      string                `json:"code,omitempty"`
	Message   string                `json:"message,omitempty"`
}

// HandleWatchWS streams a project's derived state over a websocket. The
// client receives a snapshot on subscribe and an update whenever a poll of
// the stored history produces a different state.
func (s *Service) HandleWatchWS(w http.ResponseWriter, r *http.Request) {
	projectID := strings.TrimSpace(r.URL.Query().Get("project_id"))
	if projectID == "" {
		http.Error(w, "project_id is required", http.StatusBadRequest)
		return
	}
	if _, err := s.projects.Get(r.Context(), projectID); err != nil {
		writeError(w, err)
		return
	}

	conn, err := watchWSUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(watchWSPongWait)); err != nil {
		log.Printf("watch ws set read deadline failed: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(watchWSPongWait))
	})

	writeCh := make(chan watchWSOutbound, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(watchWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(watchWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	go func() {
		poll := time.NewTicker(watchWSPoll)
		defer poll.Stop()

		var last session.DerivedState
		sent := false
		for {
			state, err := s.projects.DerivedState(ctx, projectID)
			if err != nil {
				pushWatchWS(writeCh, watchWSOutbound{
					Type:    "error",
					Code:    "internal",
					Message: err.Error(),
				})
			} else if !sent || !reflect.DeepEqual(state, last) {
				snap := state
				pushWatchWS(writeCh, watchWSOutbound{
					Type:      "state",
					ProjectID: projectID,
					State:     &snap,
				})
				last = state
				sent = true
			}
			select {
			case <-ctx.Done():
				return
			case <-poll.C:
			}
		}
	}()

	for {
		var in watchWSInbound
		if err := conn.ReadJSON(&in); err != nil {
			cancel()
			<-writerDone
			return
		}
		switch strings.ToLower(strings.TrimSpace(in.Type)) {
		case "ping":
			pushWatchWS(writeCh, watchWSOutbound{Type: "pong"})
		default:
			pushWatchWS(writeCh, watchWSOutbound{
				Type:    "error",
				Code:    "invalid_argument",
				Message: "unsupported type",
			})
		}
	}
}

func pushWatchWS(writeCh chan watchWSOutbound, out watchWSOutbound) {
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}
