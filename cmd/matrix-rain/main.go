package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lixenwraith/matrix-rain/charset"
	"github.com/lixenwraith/matrix-rain/cli"
	"github.com/lixenwraith/matrix-rain/config"
	"github.com/lixenwraith/matrix-rain/core"
	"github.com/lixenwraith/matrix-rain/rain"
	"github.com/lixenwraith/matrix-rain/render"
	"github.com/lixenwraith/matrix-rain/scheduler"
	"github.com/lixenwraith/matrix-rain/terminal"
)

func main() {
	// Panic Recovery: Ensure terminal is reset even if the animation crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	cmd := cli.NewRootCommand(cli.Deps{
		Table:  charset.NewTable(),
		Detect: terminal.DetectBackground,
		Run:    runRain,
		Logging: func(debug bool) (func(), error) {
			f, err := setupLogging(debug, logDir)
			if err != nil {
				return nil, err
			}
			return func() {
				if f != nil {
					f.Close()
				}
			}, nil
		},
	})

	// Errors are printed here, after the terminal has been restored
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "matrix-rain: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// runRain owns the terminal session from raw mode to restore
func runRain(ctx context.Context, cfg *config.Config) error {
	term := terminal.New(cfg.ColorMode)
	if err := term.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	core.RegisterTerminal(term)
	defer core.RegisterTerminal(nil)

	width, height := term.Size()
	engine := rain.NewEngine(rain.Config{
		Base:       cfg.Base,
		Background: cfg.Background,
		Density:    cfg.Density,
		Chars:      cfg.Chars,
	}, width, height, nil)
	frames := render.NewDoubleBuffer(term.Output(), height, width, cfg.Background, term.ColorMode())

	sched := scheduler.New(term, engine, frames, cfg.Speed)

	// Loop runs under crash recovery; Run restores the terminal on every return
	done := make(chan error, 1)
	core.Go(func() {
		done <- sched.Run(ctx)
	})
	return <-done
}
