package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/KiloProjects/cfp"
	"github.com/KiloProjects/cfp/api"
	"github.com/KiloProjects/cfp/integrations/prometheus"
	"github.com/KiloProjects/cfp/internal/config"
	"github.com/KiloProjects/cfp/sudoapi"
	"github.com/KiloProjects/cfp/web"
	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func serve(c *cli.Context) error {
	ctx := c.Context
	slog.InfoContext(ctx, "Starting call for papers", slog.String("version", cfp.Version))
	if config.Common.Debug {
		slog.WarnContext(ctx, "Debug mode activated, expect worse performance")
	}

	base, err := sudoapi.InitializeBaseAPI(ctx)
	if err != nil {
		return err
	}
	defer base.Close()
	base.Start(ctx)

	window := base.CallForPapers()
	if base.CFPOpen() {
		slog.InfoContext(ctx, "Call for papers is open", slog.String("closes", humanize.Time(window.End)))
	} else {
		slog.InfoContext(ctx, "Call for papers is closed", slog.Time("start", window.Start), slog.Time("end", window.End))
	}

	webHandler, err := web.NewWeb(base)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  log.New(cfp.AccessLogWriter(config.Common.LogDir), "", log.LstdFlags),
		NoColor: config.Common.LogDir != "",
	}))
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Mount("/api", api.New(base).Handler())
	r.Mount("/", webHandler.Handler())

	server := &http.Server{
		Addr:              net.JoinHostPort(config.Common.ListenHost, strconv.Itoa(config.Common.ListenPort)),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		slog.InfoContext(ctx, "Listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	eg.Go(func() error {
		return prometheus.Serve(ctx)
	})
	eg.Go(func() error {
		<-ctx.Done()
		slog.InfoContext(ctx, "Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
