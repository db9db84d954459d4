// cmd/bot/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/keshon/sandbox-bot/internal/command/development"
	_ "github.com/keshon/sandbox-bot/internal/command/utility"

	"github.com/keshon/sandbox-bot/internal/command"
	"github.com/keshon/sandbox-bot/internal/config"
	"github.com/keshon/sandbox-bot/internal/discord"
	"github.com/keshon/sandbox-bot/internal/logging"
	"github.com/keshon/sandbox-bot/internal/metrics"
	"github.com/keshon/sandbox-bot/internal/storage"
	v "github.com/keshon/sandbox-bot/internal/version"

	"github.com/urfave/cli/v2"
)

const (
	cooldownSweepInterval = time.Minute
	cooldownIdle          = 10 * time.Minute
)

func main() {
	app := &cli.App{
		Name:    v.AppName,
		Usage:   "Discord bot scaffold with slash commands and button menus",
		Version: v.String(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "use-deploy",
				Usage: "publish slash commands to the development guild once ready",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file loaded before reading the environment",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, loaded, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}

	logger, closer := logging.New(logging.Options{
		App:   v.AppName,
		Level: cfg.LogLevel,
		File:  cfg.LogFile,
	})
	defer closer.Close()

	if !loaded {
		logger.Warn().Str("path", c.String("env-file")).Msg("env file not found, using process environment")
	}
	logger.Info().Str("version", v.String()).Msgf("Starting %v bot...", v.AppName)

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	store, err := storage.New(ctx, cfg.StoragePath)
	if err != nil {
		return err
	}
	defer store.Close()

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, m, logger); err != nil {
				logger.Error().Err(err).Msg("metrics server stopped")
			}
		}()
	}

	cooldown := command.NewCooldown(cfg.CommandCooldown, cfg.CommandBurst)
	go cooldown.Run(ctx, cooldownSweepInterval, cooldownIdle)

	bot, err := discord.New(cfg, store, logger,
		discord.WithDeploy(c.Bool("use-deploy")),
		discord.WithMetrics(m),
		discord.WithCooldown(cooldown),
	)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- bot.Run(ctx)
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info().Str("signal", s.String()).Msg("received signal, shutting down")
		cancel()
		err = <-errCh
	case err = <-errCh:
		cancel()
	}

	if err != nil {
		logger.Error().Err(err).Msg("discord bot error")
		return err
	}
	logger.Info().Msg("discord bot exited cleanly")
	return nil
}
