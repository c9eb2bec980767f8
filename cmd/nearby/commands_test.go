package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/nearby/internal/app"
	"github.com/five82/nearby/internal/reels"
)

// cliHome points HOME at a temp dir and writes a config that keeps state and
// logs inside it. It returns the flags every invocation needs.
func cliHome(t *testing.T, extra ...string) []string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	dataDir := filepath.ToSlash(filepath.Join(home, "data"))
	cfg := filepath.Join(home, "config.toml")
	body := "data_dir = \"" + dataDir + "\"\nshare_base_url = \"https://nearby.test/reels\"\n" + strings.Join(extra, "\n")
	require.NoError(t, os.WriteFile(cfg, []byte(body), 0o600))
	return []string{"--config", cfg, "--prefs", filepath.Join(home, "prefs.toml")}
}

func execute(t *testing.T, base []string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(append([]string{}, base...), args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSearchRecordsRecent(t *testing.T) {
	base := cliHome(t)

	out, err := execute(t, base, "search", "pizza", "corner")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "/search?query=pizza%20corner", lines[0])
	assert.Contains(t, out, "Pizza Corner")

	_, err = execute(t, base, "search", "dosa")
	require.NoError(t, err)

	out, err = execute(t, base, "recent")
	require.NoError(t, err)
	assert.Equal(t, "dosa\npizza corner\n", out)

	out, err = execute(t, base, "recent", "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "cleared")

	out, err = execute(t, base, "recent")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSearchBlankQueryFails(t *testing.T) {
	base := cliHome(t)
	_, err := execute(t, base, "search", "   ")
	require.Error(t, err)

	_, err = execute(t, base, "search")
	require.Error(t, err, "at least one word is required")
}

func TestSearchNoResults(t *testing.T) {
	base := cliHome(t)
	out, err := execute(t, base, "search", "zzzz-nothing")
	require.NoError(t, err)
	assert.Contains(t, out, "No results.")
}

func TestReelsListMarksActive(t *testing.T) {
	base := cliHome(t)
	out, err := execute(t, base, "reels", "list")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 8)
	assert.True(t, strings.HasPrefix(lines[0], ">  1 demo-1"), lines[0])
	assert.Contains(t, lines[5], "[ad]")
}

func TestReelsEngagementPersists(t *testing.T) {
	base := cliHome(t)

	out, err := execute(t, base, "reels", "like", "demo-2")
	require.NoError(t, err)
	assert.Contains(t, out, "♥")

	_, err = execute(t, base, "reels", "fav", "demo-2")
	require.NoError(t, err)
	_, err = execute(t, base, "reels", "comment", "demo-2", "great", "food")
	require.NoError(t, err)

	out, err = execute(t, base, "reels", "list")
	require.NoError(t, err)
	var line string
	for _, l := range strings.Split(out, "\n") {
		if strings.Contains(l, "demo-2") {
			line = l
		}
	}
	assert.Contains(t, line, "♥")
	assert.Contains(t, line, "★")
	assert.Contains(t, line, "1 comments")
}

func TestReelsActionRejectsUnknownAndAds(t *testing.T) {
	base := cliHome(t)

	_, err := execute(t, base, "reels", "like", "nope")
	require.Error(t, err)
	_, err = execute(t, base, "reels", "like", "ad-1")
	require.Error(t, err)
	_, err = execute(t, base, "reels", "comment", "demo-1")
	require.Error(t, err, "comment text is required")
}

func TestReelsSharePrintsLink(t *testing.T) {
	base := cliHome(t)

	out, err := execute(t, base, "reels", "share", "demo-3")
	require.NoError(t, err)
	assert.Equal(t, "https://nearby.test/reels#reel=demo-3\n", out)

	_, err = execute(t, base, "reels", "share", "missing")
	require.Error(t, err)
}

func TestLogsShowsStartupEntry(t *testing.T) {
	base := cliHome(t)
	_, err := execute(t, base, "reels", "list")
	require.NoError(t, err)

	out, err := execute(t, base, "logs", "--level", "info")
	require.NoError(t, err)
	assert.Contains(t, out, "nearby ready")

	_, err = execute(t, base, "logs", "--level", "chatty")
	require.Error(t, err)
}

func TestReelsUploadPrependsAndActivates(t *testing.T) {
	base := cliHome(t)

	out, err := execute(t, base, "reels", "upload", "clips/market.mp4", "--duration", "45s", "--caption", "Saturday stalls")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "upl-"), out)
	assert.Contains(t, out, "@you")
	assert.Contains(t, out, "Saturday stalls")

	out, err = execute(t, base, "reels", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 9)
	assert.True(t, strings.HasPrefix(lines[0], ">  1 upl-"), lines[0])
}

func TestReelsUploadRejectsLongAndEmpty(t *testing.T) {
	base := cliHome(t)

	_, err := execute(t, base, "reels", "upload", "clips/long.mp4", "--duration", "61s")
	require.ErrorIs(t, err, reels.ErrUploadTooLong)

	_, err = execute(t, base, "reels", "upload", "  ")
	require.ErrorIs(t, err, reels.ErrEmptySource)

	out, err := execute(t, base, "reels", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "upl-")
}

func TestWithEnvClosesStoreAndKeepsActionError(t *testing.T) {
	base := cliHome(t, "store = \"sqlite\"")
	opts := &rootOptions{configPath: base[1], prefsPath: base[3]}
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetContext(context.Background())

	boom := errors.New("boom")
	err := withEnv(cmd, opts, func(env *app.Env) error {
		require.True(t, env.Feed.ToggleLike("demo-4"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	// The action error does not skip Close, so the like is on disk.
	err = withEnv(cmd, opts, func(env *app.Env) error {
		for _, it := range env.Feed.Snapshot().Items {
			if v, ok := it.Video(); ok && it.ID == "demo-4" {
				assert.True(t, v.Liked)
			}
		}
		return nil
	})
	require.NoError(t, err)
}
