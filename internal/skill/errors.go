// File: internal/skill/errors.go
package skill

import (
	"errors"

	"github.com/Ma63d/youmind-skill/internal/browser"
	"github.com/Ma63d/youmind-skill/internal/detector"
)

// Failure kinds an ask can end with. Callers branch on these with
// errors.Is; everything else wrapping them carries the situational detail.
var (
	// ErrNotAuthenticated means the saved session state is absent or fully
	// expired; nothing was opened.
	ErrNotAuthenticated = errors.New("skill: not authenticated, run sign-in first")

	// ErrSignInRedirect means the site rejected the session at navigation
	// time.
	ErrSignInRedirect = browser.ErrSignInRedirect

	// ErrInputNotFound means no chat-input candidate resolved on the board
	// page.
	ErrInputNotFound = errors.New("skill: could not find chat input")

	// ErrTimeout means no answer stabilized before the detection deadline.
	ErrTimeout = detector.ErrTimeout

	// ErrUnexpectedFault wraps a panic recovered during the exchange.
	ErrUnexpectedFault = errors.New("skill: unexpected fault during exchange")
)
