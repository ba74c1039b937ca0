package setcalc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hayeah/goo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamadnahleh/set-calculator/command"
	"github.com/mohamadnahleh/set-calculator/history"
)

// writeConfig writes a config with history in dir and returns its path.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`
prompt = "set>"
log_level = "error"

[history]
path = '%s'

[transforms]
double = "x * 2"
`, filepath.Join(dir, "history.db"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runApp(t *testing.T, args *Args, stdin string) (string, error) {
	t.Helper()
	app, cleanup, err := InitApp(args)
	require.NoError(t, err)
	defer cleanup()

	var out strings.Builder
	app.Stdin = strings.NewReader(stdin)
	app.Stdout = &out
	err = app.Run(context.Background())
	return out.String(), err
}

func writeScript(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "script.set")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestApp_Script(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	cfg := writeConfig(t, dir)
	script := writeScript(t, dir, "x 3,1,2\nl double\n")

	out, err := runApp(t, &Args{Config: cfg, File: script}, "")
	assert.NoError(err)
	assert.Equal("Lambda: 2 4 6\nX: 1 2 3 \nY: \nZ: \n", out)
}

func TestApp_ScriptFromStdin(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	out, err := runApp(t, &Args{Config: writeConfig(t, dir), File: "-"}, "y 5\ns\n")
	assert.NoError(err)
	assert.Equal("X: 5 \nY: \nZ: \n", out)
}

func TestApp_ScriptFailure(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	script := writeScript(t, dir, "x 1\nnope\nx 2\n")

	_, err := runApp(t, &Args{Config: writeConfig(t, dir), File: script}, "")

	var lineErr *command.LineError
	assert.True(errors.As(err, &lineErr))
	assert.Equal(2, lineErr.LineNo)
}

func TestApp_Interactive(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	out, err := runApp(t, &Args{Config: writeConfig(t, dir)}, "a 7\nq\n")
	assert.NoError(err)
	assert.Equal("X: \nY: \nZ: \nset>\nX: 7 \nY: \nZ: \nset>\n", out)
}

func TestApp_History(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := t.TempDir()
	cfg := writeConfig(t, dir)

	_, err := runApp(t, &Args{Config: cfg}, "x 1,2\nl double\nbad\nq\n")
	require.NoError(err)
	_, err = runApp(t, &Args{Config: cfg}, "y 9\n")
	require.NoError(err)

	out, err := runApp(t, &Args{Config: cfg, History: &HistoryCmd{Limit: 20}}, "")
	require.NoError(err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(lines, 5)
	assert.True(strings.HasSuffix(lines[0], "x 1,2"))
	assert.True(strings.HasSuffix(lines[2], "bad  !"))
	assert.True(strings.HasSuffix(lines[4], "y 9"))

	out, err = runApp(t, &Args{Config: cfg, History: &HistoryCmd{Limit: 2}}, "")
	require.NoError(err)
	assert.Len(strings.Split(strings.TrimSuffix(out, "\n"), "\n"), 2)

	out, err = runApp(t, &Args{Config: cfg, History: &HistoryCmd{Limit: 20, Match: "ldbl"}}, "")
	require.NoError(err)
	assert.True(strings.HasSuffix(out, "l double\n"))
	assert.Equal(1, strings.Count(out, "\n"))
}

func TestApp_HistoryDisabled(t *testing.T) {
	dir := t.TempDir()
	_, err := runApp(t, &Args{Config: writeConfig(t, dir), NoHistory: true, History: &HistoryCmd{}}, "")
	assert.EqualError(t, err, "history is disabled")
}

func TestApp_TUINeedsTerminal(t *testing.T) {
	dir := t.TempDir()
	_, err := runApp(t, &Args{Config: writeConfig(t, dir), TUI: true}, "")
	assert.ErrorContains(t, err, "interactive terminal")
}

func TestProvideHistory_CleanupClosesStore(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	logger := slog.New(slog.DiscardHandler)
	shutdown, err := goo.ProvideShutdownContext(logger)
	require.NoError(err)

	cfg := DefaultConfig()
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")
	store, cleanup, err := ProvideHistory(cfg, logger, shutdown)
	require.NoError(err)

	_, err = store.List(context.Background(), history.Filter{})
	require.NoError(err)

	cleanup()
	// the shutdown hook shares the close, so a second call is a no-op
	cleanup()

	_, err = store.List(context.Background(), history.Filter{})
	assert.Error(err)
}
