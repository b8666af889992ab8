package adapter

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)

	def := DefaultConfig()
	assert.Equal(t, def.Server, cfg.Server)
	assert.Equal(t, def.Media.Video, cfg.Media.Video)
	assert.Equal(t, 60*time.Second, cfg.Notifications.PollInterval)
	assert.Equal(t, 20, cfg.UI.PageSize)
}

func TestConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Server.URL = "https://api.pitch.example/api"
	cfg.Server.MediaURL = "https://cdn.pitch.example"
	cfg.Media.Image.Quality = 65
	cfg.Player.Command = "mpv"
	cfg.Player.Args = []string{"--loop"}
	cfg.Notifications.PollInterval = 2 * time.Minute

	require.NoError(t, SaveConfigTo(dir, cfg))
	_, err := os.Stat(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	loaded, err := LoadConfigFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg.Server, loaded.Server)
	assert.Equal(t, 65, loaded.Media.Image.Quality)
	assert.Equal(t, []string{"--loop"}, loaded.Player.Args)
	assert.Equal(t, 2*time.Minute, loaded.Notifications.PollInterval)
}

func TestConfigEnvOverride(t *testing.T) {
	t.Setenv("PITCHSIDE_SERVER_URL", "http://10.0.0.5:5000/api")
	t.Setenv("PITCHSIDE_UI_PAGE_SIZE", "50")

	cfg, err := LoadConfigFrom(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:5000/api", cfg.Server.URL)
	assert.Equal(t, 50, cfg.UI.PageSize)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.UI.Theme = "neon"
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.URL = ""
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Notifications.PollInterval = time.Second
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Media.Image.TargetMIME = ""
	require.Error(t, cfg.Validate())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "pitchside.log")
	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "DEBUG"})
	require.NoError(t, err)
	logger.Debug("hello", "k", "v")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"app":"pitchside"`)
}

type launchCall struct {
	name string
	args []string
}

func fakeLauncher(goos, command string, onPath map[string]bool) (*Launcher, *[]launchCall) {
	var calls []launchCall
	l := NewLauncher(command, nil, NullLogger())
	l.goos = goos
	l.lookPath = func(name string) (string, error) {
		if onPath[name] {
			return "/usr/bin/" + name, nil
		}
		return "", errors.New("not found")
	}
	record := func(name string, args ...string) error {
		calls = append(calls, launchCall{name, args})
		return nil
	}
	l.start = record
	l.run = func(name string, args ...string) error {
		return errors.New("app missing")
	}
	return l, &calls
}

func TestLauncherConfiguredViewer(t *testing.T) {
	l, calls := fakeLauncher("linux", "vlc", nil)
	l.args = []string{"--fullscreen"}
	require.NoError(t, l.Open("http://m/clip.mp4"))
	assert.Equal(t, []launchCall{{"vlc", []string{"--fullscreen", "http://m/clip.mp4"}}}, *calls)
}

func TestLauncherDetectsVideoViewer(t *testing.T) {
	l, calls := fakeLauncher("linux", "", map[string]bool{"celluloid": true})
	require.NoError(t, l.Open("http://m/clip.mp4"))
	assert.Equal(t, []launchCall{{"celluloid", []string{"http://m/clip.mp4"}}}, *calls)
}

func TestLauncherImagesUseSystemDefault(t *testing.T) {
	l, calls := fakeLauncher("linux", "", map[string]bool{"mpv": true})
	require.NoError(t, l.Open("http://m/photo.jpg"))
	assert.Equal(t, []launchCall{{"xdg-open", []string{"http://m/photo.jpg"}}}, *calls)

	require.Error(t, l.Open(""))
}

func TestLauncherMacBundle(t *testing.T) {
	l, calls := fakeLauncher("darwin", "IINA", nil)
	require.NoError(t, l.Open("http://m/clip.mp4"))
	assert.Equal(t, []launchCall{{"open", []string{"-n", "-a", "IINA", "http://m/clip.mp4"}}}, *calls)
}
