package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	realtimeHeartbeat = 30 * time.Second
	realtimeWriteWait = 10 * time.Second
)

// ChangeEvent is a postgres_changes notification: one row changed in a
// subscribed table.
type ChangeEvent struct {
	Table  string                 `json:"table"`
	Schema string                 `json:"schema"`
	Type   string                 `json:"type"` // INSERT, UPDATE, DELETE
	Record map[string]interface{} `json:"record"`
	Old    map[string]interface{} `json:"old_record"`
}

// ChangeHandler consumes change events for one table.
type ChangeHandler func(ChangeEvent)

type realtimeMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     string          `json:"ref"`
}

// RealtimeClient maintains a websocket to the Supabase realtime endpoint
// and dispatches postgres change events to registered handlers.
type RealtimeClient struct {
	url  string
	key  string
	log  *logrus.Logger
	conn *websocket.Conn

	mu       sync.Mutex
	handlers map[string]ChangeHandler // table -> handler
	refSeq   int
	done     chan struct{}
}

func NewRealtimeClient(projectURL, anonKey string, log *logrus.Logger) *RealtimeClient {
	wsURL := strings.Replace(strings.TrimRight(projectURL, "/"), "http", "ws", 1)
	return &RealtimeClient{
		url:      fmt.Sprintf("%s/realtime/v1/websocket?apikey=%s&vsn=1.0.0", wsURL, anonKey),
		key:      anonKey,
		log:      log,
		handlers: make(map[string]ChangeHandler),
		done:     make(chan struct{}),
	}
}

// Connect dials the realtime endpoint and starts the read and heartbeat
// loops. Subscriptions registered before Connect are joined immediately.
func (r *RealtimeClient) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, r.url, nil)
	if err != nil {
		return fmt.Errorf("failed to dial realtime endpoint: %w", err)
	}
	r.conn = conn

	r.mu.Lock()
	tables := make([]string, 0, len(r.handlers))
	for table := range r.handlers {
		tables = append(tables, table)
	}
	r.mu.Unlock()
	for _, table := range tables {
		if err := r.join(table); err != nil {
			conn.Close()
			return err
		}
	}

	go r.readLoop()
	go r.heartbeatLoop()
	return nil
}

// SubscribeToTable registers a handler for changes on a public-schema
// table. Call before Connect.
func (r *RealtimeClient) SubscribeToTable(table string, handler ChangeHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[table] = handler
}

// Close tears the connection down and stops the background loops.
func (r *RealtimeClient) Close() error {
	select {
	case <-r.done:
		return nil
	default:
	}
	close(r.done)
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

func (r *RealtimeClient) join(table string) error {
	payload := map[string]interface{}{
		"config": map[string]interface{}{
			"postgres_changes": []map[string]string{
				{"event": "*", "schema": "public", "table": table},
			},
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode join payload: %w", err)
	}
	return r.send(realtimeMessage{
		Topic:   "realtime:public:" + table,
		Event:   "phx_join",
		Payload: raw,
		Ref:     r.nextRef(),
	})
}

func (r *RealtimeClient) readLoop() {
	for {
		select {
		case <-r.done:
			return
		default:
		}

		var msg realtimeMessage
		if err := r.conn.ReadJSON(&msg); err != nil {
			select {
			case <-r.done:
			default:
				r.log.WithError(err).Warn("Realtime connection lost")
			}
			return
		}

		switch msg.Event {
		case "postgres_changes":
			r.dispatch(msg)
		case "phx_reply", "system", "presence_state":
			// join acks and bookkeeping, nothing to do
		default:
			r.log.WithField("event", msg.Event).Debug("Unhandled realtime event")
		}
	}
}

func (r *RealtimeClient) dispatch(msg realtimeMessage) {
	var payload struct {
		Data ChangeEvent `json:"data"`
	}
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		r.log.WithError(err).Warn("Failed to decode change event")
		return
	}

	r.mu.Lock()
	handler := r.handlers[payload.Data.Table]
	r.mu.Unlock()
	if handler != nil {
		handler(payload.Data)
	}
}

func (r *RealtimeClient) heartbeatLoop() {
	ticker := time.NewTicker(realtimeHeartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			err := r.send(realtimeMessage{
				Topic:   "phoenix",
				Event:   "heartbeat",
				Payload: json.RawMessage(`{}`),
				Ref:     r.nextRef(),
			})
			if err != nil {
				r.log.WithError(err).Warn("Realtime heartbeat failed")
				return
			}
		}
	}
}

func (r *RealtimeClient) send(msg realtimeMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conn.SetWriteDeadline(time.Now().Add(realtimeWriteWait))
	return r.conn.WriteJSON(msg)
}

func (r *RealtimeClient) nextRef() string {
	r.refSeq++
	return fmt.Sprintf("%d", r.refSeq)
}
