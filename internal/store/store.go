// Package store persists per-player game snapshots so operators can inspect
// a live table from outside the process. Persistence is best-effort: the game
// never blocks or aborts on a store failure.
package store

import "context"

// Snapshot is the stored view of one player's state after a turn.
type Snapshot struct {
	Name       string   `json:"name"`
	Answer     string   `json:"answer"`
	NumberHand []string `json:"numberHand"`
	ToolHand   []string `json:"toolHand"`
	History    []string `json:"history"`
}

// Store saves and retrieves player snapshots keyed by game and player.
type Store interface {
	SavePlayerState(ctx context.Context, gameID, player string, snap Snapshot) error
	GetPlayerState(ctx context.Context, gameID, player string) (*Snapshot, error)
	DeletePlayerState(ctx context.Context, gameID, player string) error
	// GamePlayers returns every stored snapshot for a game, keyed by player.
	GamePlayers(ctx context.Context, gameID string) (map[string]Snapshot, error)
}

// Nop is the Store used when no backend is configured.
type Nop struct{}

func (Nop) SavePlayerState(context.Context, string, string, Snapshot) error { return nil }

func (Nop) GetPlayerState(context.Context, string, string) (*Snapshot, error) { return nil, nil }

func (Nop) DeletePlayerState(context.Context, string, string) error { return nil }

func (Nop) GamePlayers(context.Context, string) (map[string]Snapshot, error) { return nil, nil }
