// File: internal/authstate/authstate_test.go
package authstate

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func writeState(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileIsEmptyState(t *testing.T) {
	state, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Empty(t, state.Cookies)
	assert.False(t, state.IsAuthenticated(testNow))
}

func TestLoad_MalformedFileIsError(t *testing.T) {
	path := writeState(t, "{not json")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_ParsesCookieFields(t *testing.T) {
	path := writeState(t, `{"cookies":[{
		"name":"session","value":"abc","domain":".youmind.com","path":"/",
		"expires":1790000000,"httpOnly":true,"secure":true,"sameSite":"Lax"}]}`)

	state, err := Load(path)
	require.NoError(t, err)
	require.Len(t, state.Cookies, 1)

	c := state.Cookies[0]
	assert.Equal(t, "session", c.Name)
	assert.Equal(t, ".youmind.com", c.Domain)
	assert.True(t, c.HTTPOnly)
	assert.Equal(t, "Lax", c.SameSite)
}

func TestIsAuthenticated(t *testing.T) {
	tests := []struct {
		name    string
		cookies []Cookie
		want    bool
	}{
		{"no cookies", nil, false},
		{"live cookie", []Cookie{{Name: "s", Expires: float64(testNow.Add(time.Hour).Unix())}}, true},
		{"expired cookie", []Cookie{{Name: "s", Expires: float64(testNow.Add(-time.Hour).Unix())}}, false},
		{"session cookie never expires", []Cookie{{Name: "s", Expires: -1}}, true},
		{"one live among expired", []Cookie{
			{Name: "a", Expires: float64(testNow.Add(-time.Hour).Unix())},
			{Name: "b", Expires: float64(testNow.Add(time.Hour).Unix())},
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &State{Cookies: tt.cookies}
			assert.Equal(t, tt.want, state.IsAuthenticated(testNow))
		})
	}
}

func TestCookieParams_SkipsExpiredAndMapsFields(t *testing.T) {
	state := &State{Cookies: []Cookie{
		{Name: "live", Value: "v", Domain: ".youmind.com", Path: "/",
			Expires: float64(testNow.Add(time.Hour).Unix()), Secure: true, SameSite: "Strict"},
		{Name: "dead", Expires: float64(testNow.Add(-time.Hour).Unix())},
		{Name: "session", Value: "s", SameSite: "None"},
	}}

	params := state.CookieParams(testNow)
	require.Len(t, params, 2)

	assert.Equal(t, "live", params[0].Name)
	assert.Equal(t, network.CookieSameSiteStrict, params[0].SameSite)
	require.NotNil(t, params[0].Expires)
	assert.True(t, params[0].Secure)

	assert.Equal(t, "session", params[1].Name)
	assert.Nil(t, params[1].Expires, "session cookies carry no expiry")
	assert.Equal(t, network.CookieSameSiteNone, params[1].SameSite)
}

func TestSameSiteParam_UnknownIsUnset(t *testing.T) {
	assert.Equal(t, network.CookieSameSite(""), sameSiteParam("bogus"))
}
