// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration. It is built once at
// startup and treated as immutable afterwards; every component receives the
// sections it needs at construction time.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Browser   BrowserConfig   `mapstructure:"browser" yaml:"browser"`
	Humanoid  HumanoidConfig  `mapstructure:"humanoid" yaml:"humanoid"`
	Selectors SelectorsConfig `mapstructure:"selectors" yaml:"selectors"`
	Detector  DetectorConfig  `mapstructure:"detector" yaml:"detector"`
	Youmind   YoumindConfig   `mapstructure:"youmind" yaml:"youmind"`
}

// LoggerConfig configures the zap logger and log file rotation.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig controls how the Chrome process is launched.
type BrowserConfig struct {
	// ShowBrowser runs Chrome with a visible window for debugging. The zero
	// value keeps the default headless, matching unattended operation.
	ShowBrowser bool   `mapstructure:"show_browser" yaml:"show_browser"`
	ProfileDir  string `mapstructure:"profile_dir" yaml:"profile_dir"`
	UserAgent string   `mapstructure:"user_agent" yaml:"user_agent"`
	Args      []string `mapstructure:"args" yaml:"args"`
	// Viewport bounds are only used to constrain idle mouse wandering; the
	// browser itself runs without a forced viewport so the profile looks
	// like an ordinary desktop install.
	ViewportWidth  int `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight int `mapstructure:"viewport_height" yaml:"viewport_height"`
}

// HumanoidConfig tunes the human-interaction simulation.
type HumanoidConfig struct {
	// Typing speed range in words per minute; the per-character delay is
	// sampled uniformly between the delays these imply (5 characters/word).
	WPMMin int `mapstructure:"wpm_min" yaml:"wpm_min"`
	WPMMax int `mapstructure:"wpm_max" yaml:"wpm_max"`

	// HesitationChance is the per-character probability of an extra pause.
	HesitationChance float64       `mapstructure:"hesitation_chance" yaml:"hesitation_chance"`
	HesitationMin    time.Duration `mapstructure:"hesitation_min" yaml:"hesitation_min"`
	HesitationMax    time.Duration `mapstructure:"hesitation_max" yaml:"hesitation_max"`

	// Randomized pause before and after each click.
	ClickPauseMin time.Duration `mapstructure:"click_pause_min" yaml:"click_pause_min"`
	ClickPauseMax time.Duration `mapstructure:"click_pause_max" yaml:"click_pause_max"`

	// MoveSteps is the number of discrete pointer steps toward a click target.
	MoveSteps int `mapstructure:"move_steps" yaml:"move_steps"`

	// Idle mouse wandering between deliberate actions.
	IdleWaypointsMin int           `mapstructure:"idle_waypoints_min" yaml:"idle_waypoints_min"`
	IdleWaypointsMax int           `mapstructure:"idle_waypoints_max" yaml:"idle_waypoints_max"`
	IdlePauseMin     time.Duration `mapstructure:"idle_pause_min" yaml:"idle_pause_min"`
	IdlePauseMax     time.Duration `mapstructure:"idle_pause_max" yaml:"idle_pause_max"`
}

// SelectorsConfig holds the ordered locator-pattern lists per semantic role,
// ranked most-to-least reliable. Never mutated at runtime.
type SelectorsConfig struct {
	Input      []string `mapstructure:"input" yaml:"input"`
	SendButton []string `mapstructure:"send_button" yaml:"send_button"`
	Response   []string `mapstructure:"response" yaml:"response"`
	Thinking   []string `mapstructure:"thinking" yaml:"thinking"`

	// PatternWait is the short per-pattern wait during role resolution.
	PatternWait time.Duration `mapstructure:"pattern_wait" yaml:"pattern_wait"`
}

// DetectorConfig tunes the completion detection state machine.
type DetectorConfig struct {
	PollInterval       time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	StabilityThreshold int           `mapstructure:"stability_threshold" yaml:"stability_threshold"`
	Deadline           time.Duration `mapstructure:"deadline" yaml:"deadline"`
}

// YoumindConfig describes the target site and the local collaborator files.
type YoumindConfig struct {
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url"`
	BoardURLPrefix    string        `mapstructure:"board_url_prefix" yaml:"board_url_prefix"`
	SignInPath        string        `mapstructure:"sign_in_path" yaml:"sign_in_path"`
	StateFile         string        `mapstructure:"state_file" yaml:"state_file"`
	LibraryFile       string        `mapstructure:"library_file" yaml:"library_file"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout" yaml:"navigation_timeout"`
	// SubmitSettle is how long to wait after pressing Enter before trying the
	// send-button fallback; some editors insert a newline on Enter instead.
	SubmitSettle time.Duration `mapstructure:"submit_settle" yaml:"submit_settle"`
}

// Load reads the configuration from the given file (or ./config.yaml),
// environment variables prefixed YOUMIND, and built-in defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("YOUMIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file; defaults and env vars still apply.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Default returns the built-in configuration. Tests use it directly to avoid
// touching the filesystem.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in zero values after unmarshalling so a sparse config
// file cannot produce a degenerate runtime (zero poll interval, empty
// selector lists, and so on).
func (c *Config) applyDefaults() {
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "console"
	}
	if c.Logger.ServiceName == "" {
		c.Logger.ServiceName = "youmind"
	}
	if c.Logger.MaxSize <= 0 {
		c.Logger.MaxSize = 20
	}
	if c.Logger.MaxBackups <= 0 {
		c.Logger.MaxBackups = 3
	}
	if c.Logger.MaxAge <= 0 {
		c.Logger.MaxAge = 14
	}

	if c.Browser.ProfileDir == "" {
		c.Browser.ProfileDir = "data/browser_state/browser_profile"
	}
	if c.Browser.UserAgent == "" {
		c.Browser.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}
	if len(c.Browser.Args) == 0 {
		c.Browser.Args = []string{
			"disable-blink-features=AutomationControlled",
			"disable-dev-shm-usage",
			"no-first-run",
			"no-default-browser-check",
		}
	}
	if c.Browser.ViewportWidth <= 0 {
		c.Browser.ViewportWidth = 1280
	}
	if c.Browser.ViewportHeight <= 0 {
		c.Browser.ViewportHeight = 720
	}

	if c.Humanoid.WPMMin <= 0 {
		c.Humanoid.WPMMin = 220
	}
	if c.Humanoid.WPMMax < c.Humanoid.WPMMin {
		c.Humanoid.WPMMax = c.Humanoid.WPMMin + 100
	}
	if c.Humanoid.HesitationChance <= 0 {
		c.Humanoid.HesitationChance = 0.04
	}
	if c.Humanoid.HesitationMin <= 0 {
		c.Humanoid.HesitationMin = 80 * time.Millisecond
	}
	if c.Humanoid.HesitationMax < c.Humanoid.HesitationMin {
		c.Humanoid.HesitationMax = 250 * time.Millisecond
	}
	if c.Humanoid.ClickPauseMin <= 0 {
		c.Humanoid.ClickPauseMin = 80 * time.Millisecond
	}
	if c.Humanoid.ClickPauseMax < c.Humanoid.ClickPauseMin {
		c.Humanoid.ClickPauseMax = 220 * time.Millisecond
	}
	if c.Humanoid.MoveSteps <= 0 {
		c.Humanoid.MoveSteps = 5
	}
	if c.Humanoid.IdleWaypointsMin <= 0 {
		c.Humanoid.IdleWaypointsMin = 2
	}
	if c.Humanoid.IdleWaypointsMax < c.Humanoid.IdleWaypointsMin {
		c.Humanoid.IdleWaypointsMax = 3
	}
	if c.Humanoid.IdlePauseMin <= 0 {
		c.Humanoid.IdlePauseMin = 50 * time.Millisecond
	}
	if c.Humanoid.IdlePauseMax < c.Humanoid.IdlePauseMin {
		c.Humanoid.IdlePauseMax = 180 * time.Millisecond
	}

	if len(c.Selectors.Input) == 0 {
		c.Selectors.Input = []string{
			"textarea[placeholder*='Ask']",
			"textarea[placeholder*='question']",
			"textarea[aria-label*='Ask']",
			"textarea[aria-label*='question']",
			"div[contenteditable='true'][role='textbox']",
			"div[contenteditable='true']",
		}
	}
	if len(c.Selectors.SendButton) == 0 {
		c.Selectors.SendButton = []string{
			"button[aria-label*='Send']",
			"button[data-testid*='send']",
			"button[class*='send']",
		}
	}
	if len(c.Selectors.Response) == 0 {
		c.Selectors.Response = []string{
			"div.message-blocks",
			"div[class*='message-blocks']",
			"[class*='message-blocks']",
			"[data-message-author='assistant']",
			"[data-role='assistant']",
			"[data-testid*='assistant']",
			"div[class*='message']",
			"[class*='message']",
			".assistant-message",
			".message.ai",
			".message-content",
		}
	}
	if len(c.Selectors.Thinking) == 0 {
		c.Selectors.Thinking = []string{
			"div.thinking-message",
			"[data-testid*='thinking']",
		}
	}
	if c.Selectors.PatternWait <= 0 {
		c.Selectors.PatternWait = 5 * time.Second
	}

	if c.Detector.PollInterval <= 0 {
		c.Detector.PollInterval = 800 * time.Millisecond
	}
	if c.Detector.StabilityThreshold <= 0 {
		c.Detector.StabilityThreshold = 3
	}
	if c.Detector.Deadline <= 0 {
		c.Detector.Deadline = 120 * time.Second
	}

	if c.Youmind.BaseURL == "" {
		c.Youmind.BaseURL = "https://youmind.com"
	}
	if c.Youmind.BoardURLPrefix == "" {
		c.Youmind.BoardURLPrefix = c.Youmind.BaseURL + "/boards/"
	}
	if c.Youmind.SignInPath == "" {
		c.Youmind.SignInPath = "/sign-in"
	}
	if c.Youmind.StateFile == "" {
		c.Youmind.StateFile = "data/browser_state/state.json"
	}
	if c.Youmind.LibraryFile == "" {
		c.Youmind.LibraryFile = "data/library.json"
	}
	if c.Youmind.NavigationTimeout <= 0 {
		c.Youmind.NavigationTimeout = 30 * time.Second
	}
	if c.Youmind.SubmitSettle <= 0 {
		c.Youmind.SubmitSettle = 600 * time.Millisecond
	}
}
