package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KiloProjects/cfp"
	"github.com/KiloProjects/cfp/internal/config"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Could not load .env file", slog.Any("err", err))
	}

	app := &cli.App{
		Name:    "cfp",
		Usage:   "Call for papers submission platform",
		Version: cfp.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Config path",
				Value:   "./config.toml",
				EnvVars: []string{"CFP_CONFIG"},
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Website and API",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Run database migrations",
				Action: migrate,
			},
			{
				Name:  "adduser",
				Usage: "Create a speaker (or admin) account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "name"},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"CFP_NEW_PASSWORD"}},
					&cli.BoolFlag{Name: "admin"},
				},
				Action: addUser,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := app.RunContext(ctx, os.Args); err != nil {
		slog.Error("Exiting", slog.Any("err", err))
		stop()
		os.Exit(1)
	}
}

// setup loads the configuration and the runtime flags, and installs the logger
func setup(c *cli.Context) error {
	confPath := c.String("config")
	if _, err := os.Stat(confPath); err == nil {
		if err := config.Load(c.Context, confPath); err != nil {
			return fmt.Errorf("could not load config: %w", err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		slog.Warn("Config file not found, writing defaults", slog.String("path", confPath))
		if err := config.Save(confPath); err != nil {
			return fmt.Errorf("could not save default config: %w", err)
		}
	} else {
		return err
	}

	if config.Common.LogDir != "" {
		if err := os.MkdirAll(config.Common.LogDir, 0755); err != nil {
			return fmt.Errorf("could not create log dir: %w", err)
		}
	}
	slog.SetDefault(cfp.NewLogger(config.Common.Debug, os.Stdout, config.Common.LogDir))

	config.SetFlagsPath(config.Common.FlagsPath)
	if err := config.LoadFlags(c.Context); err != nil {
		return fmt.Errorf("could not load flags: %w", err)
	}
	return nil
}
