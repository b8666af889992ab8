package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pharaohs/pitchside/internal/compress"
	"github.com/spf13/viper"
)

const envPrefix = "PITCHSIDE"

// Config holds all application configuration
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Media         MediaConfig         `mapstructure:"media"`
	Player        PlayerConfig        `mapstructure:"player"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	UI            UIConfig            `mapstructure:"ui"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Cache         CacheConfig         `mapstructure:"cache"`
}

// ServerConfig holds backend configuration
type ServerConfig struct {
	URL           string        `mapstructure:"url" validate:"required,url"`
	MediaURL      string        `mapstructure:"media_url" validate:"omitempty,url"` // root for relative media paths, defaults to the origin of URL
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
	UploadTimeout time.Duration `mapstructure:"upload_timeout" validate:"gt=0"`
}

// MediaConfig holds compression settings
type MediaConfig struct {
	FFmpeg           string           `mapstructure:"ffmpeg"`
	FFprobe          string           `mapstructure:"ffprobe"`
	VideoBypassBytes int64            `mapstructure:"video_bypass_bytes" validate:"gte=0"`
	CaptureLimit     time.Duration    `mapstructure:"capture_limit" validate:"gte=0"`
	Image            compress.Profile `mapstructure:"image"`
	Video            compress.Profile `mapstructure:"video"`
	Avatar           compress.Profile `mapstructure:"avatar"`
}

// PlayerConfig holds the external media viewer
type PlayerConfig struct {
	Command string   `mapstructure:"command"` // empty picks a detected player
	Args    []string `mapstructure:"args"`
}

// NotificationsConfig holds unread polling settings
type NotificationsConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"gte=5s"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme    string `mapstructure:"theme" validate:"oneof=default light"`
	PageSize int    `mapstructure:"page_size" validate:"gte=1,lte=100"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level" validate:"omitempty,oneof=DEBUG INFO WARN WARNING ERROR debug info warn warning error"`
}

// CacheConfig holds the offline cache location
type CacheConfig struct {
	Dir string `mapstructure:"dir"` // empty keeps the cache in memory
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:           "http://localhost:3000/api",
			Timeout:       30 * time.Second,
			UploadTimeout: 90 * time.Second,
		},
		Media: MediaConfig{
			FFmpeg:           "ffmpeg",
			FFprobe:          "ffprobe",
			VideoBypassBytes: 10 * 1024 * 1024,
			CaptureLimit:     compress.DefaultCaptureLimit,
			Image:            compress.DefaultImageProfile,
			Video:            compress.DefaultVideoProfile,
			Avatar:           compress.AvatarProfile,
		},
		Player: PlayerConfig{
			Args: []string{},
		},
		Notifications: NotificationsConfig{
			PollInterval: 60 * time.Second,
		},
		UI: UIConfig{
			Theme:    "default",
			PageSize: 20,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
		Cache: CacheConfig{
			Dir: defaultCachePath(),
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "pitchside", "pitchside.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "pitchside", "pitchside.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "pitchside")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "pitchside")
	}
}

// defaultCachePath returns the default cache directory for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "pitchside", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "pitchside", "cache")
	}
}

// GetCachePath returns the default cache directory
func GetCachePath() string {
	return defaultCachePath()
}

// LoadConfig loads configuration from the default locations, a .env file
// in the working directory, and PITCHSIDE_* environment variables.
func LoadConfig() (*Config, error) {
	return loadConfig(defaultConfigPath(), ".")
}

// LoadConfigFrom reads config.yaml from dir only
func LoadConfigFrom(dir string) (*Config, error) {
	return loadConfig(dir)
}

func loadConfig(dirs ...string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := newViper(DefaultConfig())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.Logging.File = expandHome(cfg.Logging.File)
	cfg.Cache.Dir = expandHome(cfg.Cache.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newViper returns a viper instance seeded with cfg as defaults, so every
// key is known to AutomaticEnv.
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range configMap(cfg) {
		v.SetDefault(key, value)
	}
	return v
}

// configMap flattens cfg to snake_case viper keys
func configMap(cfg *Config) map[string]any {
	m := map[string]any{
		"server.url":                  cfg.Server.URL,
		"server.media_url":            cfg.Server.MediaURL,
		"server.timeout":              cfg.Server.Timeout,
		"server.upload_timeout":       cfg.Server.UploadTimeout,
		"media.ffmpeg":                cfg.Media.FFmpeg,
		"media.ffprobe":               cfg.Media.FFprobe,
		"media.video_bypass_bytes":    cfg.Media.VideoBypassBytes,
		"media.capture_limit":         cfg.Media.CaptureLimit,
		"player.command":              cfg.Player.Command,
		"player.args":                 cfg.Player.Args,
		"notifications.poll_interval": cfg.Notifications.PollInterval,
		"ui.theme":                    cfg.UI.Theme,
		"ui.page_size":                cfg.UI.PageSize,
		"logging.file":                cfg.Logging.File,
		"logging.level":               cfg.Logging.Level,
		"cache.dir":                   cfg.Cache.Dir,
	}
	for prefix, p := range map[string]compress.Profile{
		"media.image":  cfg.Media.Image,
		"media.video":  cfg.Media.Video,
		"media.avatar": cfg.Media.Avatar,
	} {
		m[prefix+".max_width"] = p.MaxWidth
		m[prefix+".max_height"] = p.MaxHeight
		m[prefix+".quality"] = p.Quality
		m[prefix+".target_mime"] = p.TargetMIME
		m[prefix+".bitrate"] = p.Bitrate
		m[prefix+".frame_rate"] = p.FrameRate
	}
	return m
}

// Validate checks the configuration for values the client cannot run with
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) && len(errs) > 0 {
			fe := errs[0]
			return fmt.Errorf("invalid config: %s failed %q", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SaveConfig writes cfg to the default config file
func SaveConfig(cfg *Config) error {
	return SaveConfigTo(defaultConfigPath(), cfg)
}

// SaveConfigTo writes cfg to dir/config.yaml
func SaveConfigTo(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to keep snake_case key names
	v := viper.New()
	for key, value := range configMap(cfg) {
		if d, ok := value.(time.Duration); ok {
			value = d.String()
		}
		v.Set(key, value)
	}

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SetServerURL updates just the backend URL in the default config file
func SetServerURL(url string) error {
	cfg, err := LoadConfig()
	if err != nil {
		cfg = DefaultConfig()
	}
	cfg.Server.URL = strings.TrimRight(url, "/")
	if err := cfg.Validate(); err != nil {
		return err
	}
	return SaveConfig(cfg)
}

// ClearCache removes all cached data under dir
func ClearCache(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
