package sse

import (
	"net/http"
	"strings"
	"time"

	"github.com/osse101/CampusQuest_Go/internal/logger"
)

// Handler streams hub events over Server-Sent Events. identify resolves the
// caller's participant id and may return "" for anonymous viewers. An
// optional ?types= list narrows the stream to those event types.
func Handler(hub *Hub, identify func(*http.Request) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, ErrMsgStreamingUnsupported, http.StatusInternalServerError)
			return
		}

		eventTypes := parseTypes(r.URL.Query().Get("types"))
		var participantID string
		if identify != nil {
			participantID = identify(r)
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		log := logger.FromContext(r.Context())
		client := hub.Register(participantID, eventTypes)
		log.Info(LogMsgClientConnected,
			"client_id", client.ID,
			"participant_id", participantID,
			"types", eventTypes)
		defer func() {
			hub.Unregister(client.ID)
			log.Info(LogMsgClientDisconnected, "client_id", client.ID)
		}()

		hello, err := FormatSSEMessage(Event{
			ID:        client.ID,
			Type:      EventTypeConnected,
			Timestamp: time.Now().Unix(),
			Payload:   map[string]interface{}{"client_id": client.ID, "types": eventTypes},
		})
		if err != nil {
			log.Error(LogMsgEncodeError, "error", err)
			return
		}
		if !write(w, flusher, retryDirective(), hello) {
			return
		}

		ticker := time.NewTicker(KeepaliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return

			case evt, open := <-client.EventChannel:
				if !open {
					return
				}
				msg, err := FormatSSEMessage(evt)
				if err != nil {
					log.Error(LogMsgEncodeError, "event_type", evt.Type, "error", err)
					continue
				}
				if !write(w, flusher, msg) {
					log.Debug(LogMsgWriteError, "client_id", client.ID)
					return
				}

			case <-ticker.C:
				if !write(w, flusher, keepaliveComment) {
					return
				}
			}
		}
	}
}

func write(w http.ResponseWriter, f http.Flusher, chunks ...[]byte) bool {
	for _, c := range chunks {
		if _, err := w.Write(c); err != nil {
			return false
		}
	}
	f.Flush()
	return true
}

// parseTypes splits a comma-separated filter, dropping blanks and keeping at
// most MaxFilterTypes entries
func parseTypes(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
		if len(out) == MaxFilterTypes {
			break
		}
	}
	return out
}
