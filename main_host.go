package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"boardview/app"
	"boardview/hal"
	"boardview/internal/buildinfo"
	"boardview/internal/config"
)

var CLI struct {
	Version bool `help:"Print version information and exit." short:"v"`
	Debug   bool `help:"Whether to enable debug logging."`

	Run struct {
		Config   string `help:"Configuration file." type:"path" short:"c"`
		Game     string `help:"Label for this session in logs." default:"local"`
		Headless bool   `help:"Run without a window."`
		Hz       int    `help:"Tick rate in headless mode." default:"60"`
		Ticks    uint64 `help:"Stop after N ticks in headless mode (0 = run forever)."`
		Snapshot string `help:"Write the last frame as PNG when a headless run ends." type:"path"`
	} `cmd:"" default:"withargs" help:"Open the board view."`

	Config struct {
	} `cmd:"" help:"Write the default configuration to standard output."`
}

func writeError(err error) {
	log.Fatal().Err(err).Msg("boardview failed")
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter)

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := kong.Parse(&CLI,
		kong.Name("boardview"),
		kong.Description("a 3D board view with orbiting camera"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Version {
		fmt.Println(buildinfo.String())
		os.Exit(0)
	}

	switch ctx.Command() {
	case "config":
		if err := writeDefaultConfig(os.Stdout); err != nil {
			writeError(err)
		}
	default:
		if err := runCommand(); err != nil {
			writeError(err)
		}
	}
}

func writeDefaultConfig(w io.Writer) error {
	data, err := config.Default().YAML()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setLogLevel(name string) {
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if CLI.Debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	if CLI.Debug {
		log.Warn().Msg("debug logging enabled")
	}
}

func runCommand() error {
	cfg, err := config.Load(CLI.Run.Config)
	if err != nil {
		return err
	}
	setLogLevel(cfg.LogLevel)
	log.Info().Str("version", buildinfo.Short()).Str("config", CLI.Run.Config).Msg("starting")

	host := hal.HostConfig{
		Width:  cfg.Window.Width / max(cfg.Window.RenderScale, 1),
		Height: cfg.Window.Height / max(cfg.Window.RenderScale, 1),
		Scale:  cfg.Window.RenderScale,
	}

	var h hal.HAL
	newApp := func(hh hal.HAL) (func() error, error) {
		h = hh
		return app.LoadBoard(hh, cfg, CLI.Run.Game)
	}

	if !CLI.Run.Headless {
		return hal.RunWindow(newApp, hal.WindowConfig{
			Host:  host,
			Title: cfg.Window.Title + " (" + buildinfo.Short() + ")",
			TPS:   cfg.Window.TPS,
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = hal.RunHeadless(ctx, newApp, hal.HeadlessConfig{
		Host:  host,
		Hz:    CLI.Run.Hz,
		Ticks: CLI.Run.Ticks,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if CLI.Run.Snapshot != "" && h != nil {
		return writeSnapshot(h, CLI.Run.Snapshot)
	}
	return nil
}

func writeSnapshot(h hal.HAL, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, h.Display().Framebuffer().Snapshot()); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	log.Info().Str("path", path).Msg("snapshot written")
	return nil
}
