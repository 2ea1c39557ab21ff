// File: internal/boards/boards.go
//
// Package boards manages the local board catalog, a small JSON file mapping
// short board IDs to board URLs, with an optional active marker so the ask
// flow can run without naming a board every time.
package boards

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoBoard is returned when neither an explicit URL, a known ID, nor an
// active marker resolves to a board.
var ErrNoBoard = errors.New("boards: no board resolved")

// Board is one catalog entry.
type Board struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Topics      []string `json:"topics,omitempty"`
}

// Library is the parsed catalog. The zero value is a valid empty library.
type Library struct {
	ActiveBoardID string  `json:"active_board_id,omitempty"`
	Boards        []Board `json:"boards"`
}

// LoadLibrary parses the catalog at path. A missing file yields an empty
// library, the same as a catalog with no boards.
func LoadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Library{}, nil
		}
		return nil, fmt.Errorf("reading board library %s: %w", path, err)
	}

	var lib Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parsing board library %s: %w", path, err)
	}
	return &lib, nil
}

// Get returns the board with the given ID.
func (l *Library) Get(id string) (Board, bool) {
	for _, b := range l.Boards {
		if b.ID == id {
			return b, true
		}
	}
	return Board{}, false
}

// Active returns the board the active marker points at, if any. A marker
// referencing a missing board reads as no active board.
func (l *Library) Active() (Board, bool) {
	if l.ActiveBoardID == "" {
		return Board{}, false
	}
	return l.Get(l.ActiveBoardID)
}

// List returns all boards in catalog order.
func (l *Library) List() []Board {
	return l.Boards
}

// Resolve picks the board URL for an ask. Precedence: explicit URL, then
// catalog ID, then the active marker. An unknown ID is an error rather than
// a silent fall-through so a typo never asks the wrong board.
func (l *Library) Resolve(url, id string) (string, error) {
	if url != "" {
		return url, nil
	}
	if id != "" {
		board, ok := l.Get(id)
		if !ok {
			return "", fmt.Errorf("%w: unknown board id %q", ErrNoBoard, id)
		}
		return board.URL, nil
	}
	if board, ok := l.Active(); ok {
		return board.URL, nil
	}
	return "", ErrNoBoard
}

// Describe renders one board as a single summary line for listings.
func (b Board) Describe(active bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", b.ID, b.Name)
	if active {
		sb.WriteString(" [ACTIVE]")
	}
	if len(b.Topics) > 0 {
		fmt.Fprintf(&sb, " (%s)", strings.Join(b.Topics, ", "))
	}
	return sb.String()
}
