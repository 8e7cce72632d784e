// Package config loads the agent's TOML settings into a typed struct.
// Loading never fails hard: a missing or invalid file falls back to
// defaults, and out-of-range fields are individually reset with a warning.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

type Config struct {
	Basic   Basic   `toml:"basic"`
	Agent   Agent   `toml:"agent"`
	OpenAI  OpenAI  `toml:"openai"`
	Browser Browser `toml:"browser"`
}

type Basic struct {
	SaveFileDir     string `toml:"save_file_dir"`
	DefaultTask     string `toml:"default_task"`
	DefaultWebsite  string `toml:"default_website"`
	CrawlerMode     bool   `toml:"crawler_mode"`
	CrawlerMaxSteps int    `toml:"crawler_max_steps"`
}

type Agent struct {
	InputInfo         []string `toml:"input_info"`
	GroundingStrategy string   `toml:"grounding_strategy"`
	MaxAutoOp         int      `toml:"max_auto_op"`
	MaxContinuousNoOp int      `toml:"max_continuous_no_op"`
	Highlight         bool     `toml:"highlight"`
	ActionSpace       []string `toml:"action_space"`
}

type OpenAI struct {
	RateLimit   int     `toml:"rate_limit"`
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
}

type Browser struct {
	Headless           bool     `toml:"headless"`
	Args               []string `toml:"args"`
	BrowserApp         string   `toml:"browser_app"`
	Persistent         bool     `toml:"persistent"`
	PersistentUserPath string   `toml:"persistent_user_path"`
	SaveVideo          bool     `toml:"save_video"`
	Viewport           Viewport `toml:"viewport"`
	Tracing            bool     `toml:"tracing"`
	Trace              Trace    `toml:"trace"`
}

type Viewport struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

type Trace struct {
	Screenshots bool `toml:"screenshots"`
	Snapshots   bool `toml:"snapshots"`
	Sources     bool `toml:"sources"`
}

func Default() Config {
	return Config{
		Basic: Basic{
			SaveFileDir:     "webact_agent_files",
			DefaultTask:     "Find the price of the latest iPhone",
			DefaultWebsite:  "https://www.google.com/",
			CrawlerMode:     false,
			CrawlerMaxSteps: 10,
		},
		Agent: Agent{
			InputInfo:         []string{"screenshot"},
			GroundingStrategy: "text_choice_som",
			MaxAutoOp:         50,
			MaxContinuousNoOp: 5,
			Highlight:         false,
		},
		OpenAI: OpenAI{
			RateLimit:   -1,
			Model:       "gpt-4o",
			Temperature: 0.9,
		},
		Browser: Browser{
			Headless:   false,
			BrowserApp: "chrome",
			Viewport:   Viewport{Width: 1280, Height: 720},
			Trace:      Trace{Screenshots: true, Snapshots: true, Sources: true},
		},
	}
}

// Load reads the config file at path, or returns defaults when path is empty
// or unreadable. The returned config is already validated.
func Load(path string, log zerolog.Logger) Config {
	cfg := Default()
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			log.Warn().Str("path", path).Msg("config file not found, using defaults")
		} else if _, err := toml.DecodeFile(path, &cfg); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("invalid config file, using defaults")
			cfg = Default()
		} else {
			log.Info().Str("path", path).Msg("configuration file loaded")
		}
	}
	cfg.validate(log)
	return cfg
}

// validate resets out-of-range fields to their defaults, one warning per
// field. It never rejects the whole config.
func (c *Config) validate(log zerolog.Logger) {
	def := Default()
	warn := func(field string, fallback any) {
		log.Warn().Str("field", field).Msgf("invalid value, falling back to %v", fallback)
	}

	if c.Basic.SaveFileDir == "" {
		warn("basic.save_file_dir", def.Basic.SaveFileDir)
		c.Basic.SaveFileDir = def.Basic.SaveFileDir
	}
	if c.Basic.CrawlerMaxSteps <= 0 {
		warn("basic.crawler_max_steps", def.Basic.CrawlerMaxSteps)
		c.Basic.CrawlerMaxSteps = def.Basic.CrawlerMaxSteps
	}
	if c.Agent.MaxAutoOp <= 0 {
		warn("agent.max_auto_op", def.Agent.MaxAutoOp)
		c.Agent.MaxAutoOp = def.Agent.MaxAutoOp
	}
	if c.Agent.MaxContinuousNoOp <= 0 {
		warn("agent.max_continuous_no_op", def.Agent.MaxContinuousNoOp)
		c.Agent.MaxContinuousNoOp = def.Agent.MaxContinuousNoOp
	}
	if c.OpenAI.Model == "" {
		warn("openai.model", def.OpenAI.Model)
		c.OpenAI.Model = def.OpenAI.Model
	}
	if c.OpenAI.Temperature < 0 || c.OpenAI.Temperature > 2 {
		warn("openai.temperature", def.OpenAI.Temperature)
		c.OpenAI.Temperature = def.OpenAI.Temperature
	}
	if c.Browser.Viewport.Width <= 0 || c.Browser.Viewport.Height <= 0 {
		warn("browser.viewport", fmt.Sprintf("%dx%d", def.Browser.Viewport.Width, def.Browser.Viewport.Height))
		c.Browser.Viewport = def.Browser.Viewport
	}
}
