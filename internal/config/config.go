// Package config holds the boardview configuration file format.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"boardview/internal/board"
	"boardview/internal/gfx"
)

// Config is the top-level configuration.
type Config struct {
	LogLevel   string         `yaml:"log_level"`
	Window     Window         `yaml:"window"`
	Board      Board          `yaml:"board"`
	Camera     Camera         `yaml:"camera"`
	Simulation Simulation     `yaml:"simulation"`
	Players    []PlayerConfig `yaml:"players"`
}

// Window sizes the host window and the framebuffer behind it.
type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// RenderScale divides the window size to get the framebuffer size.
	RenderScale int `yaml:"render_scale"`
	TPS         int `yaml:"tps"`
}

type Board struct {
	Size           float32 `yaml:"size"`
	TexturePath    string  `yaml:"texture_path"` // empty: generated image
	TextureFilter  string  `yaml:"texture_filter"`
	WaitForTexture bool    `yaml:"wait_for_texture"`
	ShowHUD        bool    `yaml:"show_hud"`
}

type Camera struct {
	Radius      float32 `yaml:"radius"`
	Height      float32 `yaml:"height"`
	Sensitivity float32 `yaml:"sensitivity"` // radians per pixel
	FOVDegrees  float32 `yaml:"fov_degrees"`
	Near        float32 `yaml:"near"`
	Far         float32 `yaml:"far"`
}

type Simulation struct {
	Interval time.Duration `yaml:"interval"`
	Paused   bool          `yaml:"paused"`
}

// PlayerConfig is one roster entry.
type PlayerConfig struct {
	ID       int        `yaml:"id"`
	Position int        `yaml:"position"`
	Color    [3]float32 `yaml:"color"`
}

// Default returns the built-in configuration.
func Default() Config {
	cfg := Config{
		LogLevel: "info",
		Window: Window{
			Title:       "boardview",
			Width:       960,
			Height:      640,
			RenderScale: 2,
			TPS:         60,
		},
		Board: Board{
			Size:          board.DefaultBoardSize,
			TextureFilter: "linear",
			ShowHUD:       true,
		},
		Camera: Camera{
			Radius:      board.DefaultCameraRadius,
			Height:      board.DefaultCameraHeight,
			Sensitivity: board.DefaultSensitivity,
			FOVDegrees:  board.DefaultFOVYDegrees,
			Near:        board.DefaultNear,
			Far:         board.DefaultFar,
		},
		Simulation: Simulation{Interval: board.DefaultInterval},
	}
	for _, p := range board.DefaultPlayers() {
		cfg.Players = append(cfg.Players, PlayerConfig{ID: p.ID, Position: p.Position, Color: [3]float32(p.Color)})
	}
	return cfg
}

// Load reads a YAML file over the defaults. A missing file yields defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if !logLevels[c.LogLevel] {
		errs = append(errs, fmt.Errorf("log_level: unknown level %q", c.LogLevel))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window: size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Window.RenderScale < 1 {
		errs = append(errs, fmt.Errorf("window.render_scale: %d must be at least 1", c.Window.RenderScale))
	}
	if c.Window.TPS <= 0 {
		errs = append(errs, fmt.Errorf("window.tps: %d must be positive", c.Window.TPS))
	}
	if c.Board.Size <= 0 {
		errs = append(errs, fmt.Errorf("board.size: %v must be positive", c.Board.Size))
	}
	if _, ok := gfx.ParseFilter(c.Board.TextureFilter); !ok {
		errs = append(errs, fmt.Errorf("board.texture_filter: unknown filter %q", c.Board.TextureFilter))
	}
	if c.Camera.Radius <= 0 {
		errs = append(errs, fmt.Errorf("camera.radius: %v must be positive", c.Camera.Radius))
	}
	if c.Camera.FOVDegrees <= 0 || c.Camera.FOVDegrees >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov_degrees: %v outside (0,180)", c.Camera.FOVDegrees))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera: near %v and far %v must satisfy 0 < near < far", c.Camera.Near, c.Camera.Far))
	}
	if c.Simulation.Interval <= 0 {
		errs = append(errs, fmt.Errorf("simulation.interval: %v must be positive", c.Simulation.Interval))
	}
	ids := make(map[int]bool)
	for _, p := range c.BoardPlayers() {
		if ids[p.ID] {
			errs = append(errs, fmt.Errorf("players: duplicate id %d", p.ID))
		}
		ids[p.ID] = true
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("players: %w", err))
		}
	}
	return errors.Join(errs...)
}

// BoardPlayers converts the roster.
func (c Config) BoardPlayers() []board.Player {
	out := make([]board.Player, 0, len(c.Players))
	for _, p := range c.Players {
		out = append(out, board.Player{ID: p.ID, Position: p.Position, Color: mgl32.Vec3(p.Color)})
	}
	return out
}

// Filter returns the parsed texture filter, linear when invalid.
func (c Config) Filter() gfx.Filter {
	f, _ := gfx.ParseFilter(c.Board.TextureFilter)
	return f
}

// YAML renders c as a config file.
func (c Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
