package entity

import "time"

// MatchRecord is the archived summary of a finished match. Only terminal
// results are persisted; in-progress games never leave the dispatcher.
type MatchRecord struct {
	ID         string    `json:"id"`
	Room       string    `json:"room"`
	Players    []string  `json:"players"`
	Board      string    `json:"board"`
	Outcome    string    `json:"outcome"`
	Winner     string    `json:"winner,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}
