package entity

import "time"

// Session is a single running game identified by ID.
// Version grows by one on every stored change, so a client holding two states
// of one session keeps the higher.
type Session struct {
	ID        string    `json:"id"`
	Version   uint64    `json:"version"`
	Game      Game      `json:"game"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Version:   1,
		Game:      NewGame(),
		UpdatedAt: time.Now().UTC(),
	}
}
