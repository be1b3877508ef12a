package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/tictactoe-core/internal/keylock"
)

const writeWait = 10 * time.Second

// client wraps a connection; gorilla allows one concurrent writer per connection.
type client struct {
	conn *websocket.Conn

	writeMu   sync.Mutex
	sessionID string
}

func (that *client) send(action string, payload Response) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.writeMu.Lock()
	defer that.writeMu.Unlock()

	_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err = that.conn.WriteJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

// hub tracks which connections watch which session.
type hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*client]struct{}

	// held from a state change until its broadcast is written, so watchers
	// never see an older state after a newer one
	updates *keylock.KeyLock
}

func newHub() *hub {
	return &hub{
		subscribers: make(map[string]map[*client]struct{}),
		updates:     keylock.New(),
	}
}

func (that *hub) lockSession(sessionID string) func() {
	return that.updates.Lock(sessionID)
}

func (that *hub) subscribe(c *client, sessionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.removeLocked(c)

	if that.subscribers[sessionID] == nil {
		that.subscribers[sessionID] = make(map[*client]struct{})
	}

	that.subscribers[sessionID][c] = struct{}{}
	c.sessionID = sessionID
}

func (that *hub) unsubscribe(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.removeLocked(c)
}

func (that *hub) removeLocked(c *client) {
	if c.sessionID == "" {
		return
	}

	watchers := that.subscribers[c.sessionID]
	delete(watchers, c)

	if len(watchers) == 0 {
		delete(that.subscribers, c.sessionID)
	}

	c.sessionID = ""
}

func (that *hub) clients(sessionID string) []*client {
	that.mu.RLock()
	defer that.mu.RUnlock()

	watchers := make([]*client, 0, len(that.subscribers[sessionID]))
	for c := range that.subscribers[sessionID] {
		watchers = append(watchers, c)
	}

	return watchers
}

func (that *hub) session(c *client) string {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return c.sessionID
}
