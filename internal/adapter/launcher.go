package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pharaohs/pitchside/internal/domain"
)

var _ domain.MediaLauncher = (*Launcher)(nil)

// Launcher opens post media in an external viewer
type Launcher struct {
	command string   // configured viewer, empty to detect
	args    []string // extra viewer arguments
	goos    string
	logger  *slog.Logger

	// overridable in tests
	lookPath func(string) (string, error)
	start    func(name string, args ...string) error
	run      func(name string, args ...string) error
}

// launchPath is one way to start a viewer
type launchPath struct {
	path      string   // command, or "open-a:AppName" for macOS bundles
	openFlags []string // flags for macOS open, e.g. -n
}

// viewers maps a video viewer to its launch paths per platform
var viewers = map[string]map[string][]launchPath{
	"mpv": {
		"darwin":  {{path: "mpv"}},
		"linux":   {{path: "mpv"}},
		"windows": {{path: "mpv"}},
	},
	"vlc": {
		"darwin":  {{path: "vlc"}, {path: "open-a:VLC"}},
		"linux":   {{path: "vlc"}},
		"windows": {{path: "vlc"}},
	},
	"iina": {
		"darwin": {{path: "open-a:IINA", openFlags: []string{"-n"}}},
	},
	"celluloid": {
		"linux": {{path: "celluloid"}},
	},
	"potplayer": {
		"windows": {{path: "PotPlayerMini64.exe"}, {path: "PotPlayerMini.exe"}},
	},
}

// candidateViewers is the preferred video viewer order per platform
var candidateViewers = map[string][]string{
	"darwin":  {"iina", "vlc", "mpv"},
	"linux":   {"mpv", "celluloid", "vlc"},
	"windows": {"vlc", "mpv", "potplayer"},
}

// NewLauncher creates a launcher. An empty command detects a video viewer
// and opens images with the system default handler.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Launcher{
		command:  command,
		args:     args,
		goos:     runtime.GOOS,
		logger:   logger,
		lookPath: exec.LookPath,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// Open shows url in the configured viewer, a detected video viewer, or the
// system default, in that order.
func (l *Launcher) Open(url string) error {
	if url == "" {
		return fmt.Errorf("no media url")
	}

	if l.command != "" {
		l.logger.Info("using configured viewer", "command", l.command)
		return l.launchConfigured(url)
	}

	if domain.InferMediaType(url) == domain.MediaTypeVideo {
		if name, err := l.detectAndLaunch(url); err == nil {
			l.logger.Info("launched with detected viewer", "viewer", name)
			return nil
		}
	}

	return l.launchDefault(url)
}

func (l *Launcher) launchConfigured(url string) error {
	args := append(append([]string{}, l.args...), url)

	// GUI bundles on macOS are not on PATH
	if l.goos == "darwin" {
		if _, err := l.lookPath(l.command); err != nil {
			var openFlags []string
			base := strings.ToLower(strings.TrimSuffix(filepath.Base(l.command), filepath.Ext(l.command)))
			for _, lp := range viewers[base]["darwin"] {
				if strings.HasPrefix(lp.path, "open-a:") {
					openFlags = lp.openFlags
					break
				}
			}
			return l.start("open", openArgs(l.command, url, l.args, openFlags)...)
		}
	}

	l.logger.Info("launching viewer", "command", l.command, "args", args)
	return l.start(l.command, args...)
}

func (l *Launcher) detectAndLaunch(url string) (string, error) {
	candidates, ok := candidateViewers[l.goos]
	if !ok {
		candidates = candidateViewers["linux"]
	}

	for _, name := range candidates {
		for _, lp := range viewers[name][l.goos] {
			var err error
			if app, ok := strings.CutPrefix(lp.path, "open-a:"); ok {
				// open -a fails when the app is missing, so wait for it
				err = l.run("open", openArgs(app, url, nil, lp.openFlags)...)
			} else if _, err = l.lookPath(lp.path); err == nil {
				err = l.start(lp.path, append(append([]string{}, l.args...), url)...)
			}
			if err == nil {
				return name, nil
			}
			l.logger.Debug("viewer not available", "viewer", name, "path", lp.path, "error", err)
		}
	}
	return "", fmt.Errorf("no candidate viewers found")
}

func (l *Launcher) launchDefault(url string) error {
	l.logger.Info("launching with system default", "os", l.goos, "url", url)
	switch l.goos {
	case "darwin":
		return l.start("open", url)
	case "windows":
		return l.start("cmd", "/c", "start", "", url)
	default:
		return l.start("xdg-open", url)
	}
}

func openArgs(app, url string, args, openFlags []string) []string {
	out := append([]string{}, openFlags...)
	out = append(out, "-a", app)
	if len(args) > 0 {
		out = append(out, "--args")
		out = append(out, args...)
	}
	return append(out, url)
}
