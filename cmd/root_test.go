// File: cmd/root_test.go
package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ma63d/youmind-skill/internal/boards"
	"github.com/Ma63d/youmind-skill/internal/config"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile = "" // persistent flag state leaks between runs otherwise
	if f := rootCmd.Flags().Lookup("version"); f != nil {
		require.NoError(t, f.Value.Set("false"))
		f.Changed = false
	}
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeLibraryFile(t *testing.T, lib boards.Library) string {
	t.Helper()
	data, err := json.Marshal(lib)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "library.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

// writeConfigFile points the library at path and returns the config file to
// pass via --config.
func writeConfigFile(t *testing.T, libraryPath string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "youmind:\n  library_file: " + libraryPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))
	return cfgPath
}

func TestRootCmd_VersionFlag(t *testing.T) {
	out, err := runCommand(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}

func TestRootCmd_NoArgsShowsHelp(t *testing.T) {
	out, err := runCommand(t)
	require.NoError(t, err)
	assert.Contains(t, out, "youmind-skill")
	assert.Contains(t, out, "ask")
}

func TestBoardsCmd_ListsLibrary(t *testing.T) {
	path := writeLibraryFile(t, boards.Library{
		ActiveBoardID: "research",
		Boards: []boards.Board{
			{ID: "research", Name: "Research", URL: "https://youmind.com/boards/a"},
			{ID: "notes", Name: "Notes", URL: "https://youmind.com/boards/b"},
		},
	})
	out, err := runCommand(t, "--config", writeConfigFile(t, path), "boards")
	require.NoError(t, err)
	assert.Contains(t, out, "research: Research [ACTIVE]")
	assert.Contains(t, out, "notes: Notes")
}

func TestBoardsCmd_EmptyLibrary(t *testing.T) {
	cfgPath := writeConfigFile(t, filepath.Join(t.TempDir(), "absent.json"))

	out, err := runCommand(t, "--config", cfgPath, "boards")
	require.NoError(t, err)
	assert.Contains(t, out, "No boards")
}

func TestAskCmd_RequiresQuestion(t *testing.T) {
	_, err := runCommand(t, "ask")
	assert.Error(t, err)
}

func TestAskCmd_NoBoardResolvable(t *testing.T) {
	cfgPath := writeConfigFile(t, filepath.Join(t.TempDir(), "absent.json"))

	out, err := runCommand(t, "--config", cfgPath, "ask", "--question", "q")
	assert.ErrorIs(t, err, boards.ErrNoBoard)
	assert.Contains(t, out, "No boards in the local library")
}

func TestConfigLoadsForCommands(t *testing.T) {
	_, err := runCommand(t, "boards")
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, config.Default().Detector, cfg.Detector)
}
