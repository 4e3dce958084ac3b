package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/vancomm/minesweeper/internal/app"
	"github.com/vancomm/minesweeper/internal/config"
	"github.com/vancomm/minesweeper/internal/mines"
	"github.com/vancomm/minesweeper/internal/prompt"
	"github.com/vancomm/minesweeper/internal/render"
	"github.com/vancomm/minesweeper/internal/ui"
	"github.com/vancomm/minesweeper/internal/ui/desktop"
	"github.com/vancomm/minesweeper/internal/ui/terminal"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, closeLog := config.NewLogger(cfg)
	mines.Log = logger
	logger.Debug("loaded config", slog.Any("config", *cfg))

	err = run(logger, cfg)
	if err != nil {
		logger.Error("minesweeper failed", slog.Any("error", err))
		if cfg.UI == config.UITerminal || cfg.LogFile != "" {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	if cerr := closeLog(); cerr != nil {
		fmt.Fprintln(os.Stderr, cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}

func run(logger *slog.Logger, cfg *config.Config) error {
	if cfg.UI == config.UIWeb {
		a, err := app.New(logger, cfg)
		if err != nil {
			return err
		}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return a.Start(ctx)
	}

	params, err := prompt.New(os.Stdin, os.Stdout).GameParams(cfg.Params)
	if err != nil {
		return fmt.Errorf("unable to read game params: %w", err)
	}

	ctrl, err := ui.NewController(logger, params, cfg.Options(), cfg.Rand())
	if err != nil {
		return err
	}

	switch cfg.UI {
	case config.UITerminal:
		return terminal.Run(logger, ctrl)
	default:
		renderer, err := render.New(cfg.CellSize)
		if err != nil {
			return err
		}
		return desktop.Run(logger, ctrl, renderer)
	}
}
