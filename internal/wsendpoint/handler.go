// Package wsendpoint exposes the judge pipeline over a single persistent
// websocket connection: one frame in per submission, one frame out per
// finished result set.
package wsendpoint

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"judgecore/internal/dispatcher"
	"judgecore/internal/judgelog"
	"judgecore/internal/submission"
)

const defaultPingInterval = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// Handler upgrades inbound connections and feeds decoded submissions to a
// Dispatcher, writing back each one's results as they complete.
type Handler struct {
	Dispatcher   *dispatcher.Dispatcher
	PingInterval time.Duration
}

func (h Handler) pingInterval() time.Duration {
	if h.PingInterval > 0 {
		return h.PingInterval
	}
	return defaultPingInterval
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		judgelog.Error(r.Context(), "websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	judgelog.Info(r.Context(), "backend connected")

	var writeMu sync.Mutex

	stop := make(chan struct{})
	go h.pingLoop(conn, &writeMu, stop)
	defer close(stop)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			judgelog.Info(r.Context(), "backend disconnected", zap.Error(err))
			return
		}

		var wire submission.WireSubmission
		if err := json.Unmarshal(msg, &wire); err != nil {
			judgelog.Warn(r.Context(), "malformed submission frame", zap.Error(err))
			continue
		}
		sub, err := submission.ToSubmission(wire)
		if err != nil {
			judgelog.Warn(r.Context(), "submission rejected", zap.Error(err))
			continue
		}

		h.Dispatcher.Enqueue(r.Context(), sub, func(results []submission.Result, err error) {
			var resp submission.WireResponse
			resp.ChalID = sub.ChalID
			if err == nil {
				resp.Results = submission.ToWireResults(results)
			}
			body, marshalErr := json.Marshal(resp)
			if marshalErr != nil {
				return
			}
			writeMu.Lock()
			defer writeMu.Unlock()
			_ = conn.WriteMessage(websocket.TextMessage, body)
		})
	}
}

func (h Handler) pingLoop(conn *websocket.Conn, writeMu *sync.Mutex, stop chan struct{}) {
	ticker := time.NewTicker(h.pingInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			writeMu.Lock()
			_ = conn.WriteMessage(websocket.PingMessage, nil)
			writeMu.Unlock()
		case <-stop:
			return
		}
	}
}
