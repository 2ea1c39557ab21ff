// File: internal/authstate/authstate.go
//
// Package authstate reads the saved browser session state produced by a
// prior interactive sign-in. The file is read-only from this program's
// point of view: sign-in and refresh happen elsewhere.
package authstate

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
)

// Cookie mirrors one entry of the state file's cookie list. Expires is a
// unix timestamp in seconds; values <= 0 mean a session cookie.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite"`
}

// State is the parsed session state.
type State struct {
	Cookies []Cookie `json:"cookies"`
}

// Load parses the state file at path. A missing file is not an error: it
// returns an empty State, which simply reads as unauthenticated.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("reading session state %s: %w", path, err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing session state %s: %w", path, err)
	}
	return &state, nil
}

// IsAuthenticated reports whether the state holds at least one cookie that
// has not yet expired. It is a cheap pre-flight check, not a guarantee: the
// site may still reject the session, which surfaces as a sign-in redirect.
func (s *State) IsAuthenticated(now time.Time) bool {
	for _, c := range s.Cookies {
		if !c.expired(now) {
			return true
		}
	}
	return false
}

func (c Cookie) expired(now time.Time) bool {
	if c.Expires <= 0 {
		return false // session cookie
	}
	return time.Unix(int64(c.Expires), 0).Before(now)
}

// CookieParams converts the saved cookies to CDP set-cookie parameters,
// skipping entries already expired. Injection re-asserts the session even
// when the persistent profile kept its own copy.
func (s *State) CookieParams(now time.Time) []*network.CookieParam {
	params := make([]*network.CookieParam, 0, len(s.Cookies))
	for _, c := range s.Cookies {
		if c.expired(now) {
			continue
		}
		p := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: sameSiteParam(c.SameSite),
		}
		if c.Expires > 0 {
			expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
			p.Expires = &expires
		}
		params = append(params, p)
	}
	return params
}

func sameSiteParam(s string) network.CookieSameSite {
	switch s {
	case "Strict":
		return network.CookieSameSiteStrict
	case "Lax":
		return network.CookieSameSiteLax
	case "None":
		return network.CookieSameSiteNone
	}
	return ""
}
