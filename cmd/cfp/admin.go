package main

import (
	"fmt"
	"log/slog"

	"github.com/KiloProjects/cfp/db"
	"github.com/KiloProjects/cfp/internal/config"
	"github.com/KiloProjects/cfp/sudoapi"
	"github.com/urfave/cli/v2"
)

func migrate(c *cli.Context) error {
	dbClient, err := db.NewPSQL(c.Context, config.Common.DBDSN)
	if err != nil {
		return fmt.Errorf("couldn't connect to DB: %w", err)
	}
	defer dbClient.Close()

	if err := dbClient.RunMigrations(c.Context); err != nil {
		return err
	}
	slog.InfoContext(c.Context, "Database is up to date", slog.Int("version", dbClient.SchemaVersion(c.Context)))
	return nil
}

func addUser(c *cli.Context) error {
	base, err := sudoapi.InitializeBaseAPI(c.Context)
	if err != nil {
		return err
	}
	defer base.Close()

	id, status := base.CreateUser(c.Context, c.String("email"), c.String("name"), c.String("password"), c.Bool("admin"))
	if status != nil {
		return status
	}
	slog.InfoContext(c.Context, "Created user", slog.Int("id", id), slog.String("email", c.String("email")), slog.Bool("admin", c.Bool("admin")))
	return nil
}
