package sudoapi

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KiloProjects/cfp"
	"github.com/KiloProjects/cfp/db"
	"github.com/KiloProjects/cfp/email"
	"github.com/KiloProjects/cfp/internal/config"
	"github.com/KiloProjects/cfp/mdrenderer"
	"github.com/KiloProjects/cfp/sudoapi/flags"
	"github.com/Yiling-J/theine-go"
)

// TalkStore is where talks are kept
type TalkStore interface {
	CreateTalk(ctx context.Context, talk *cfp.Talk) (int, error)
	Talk(ctx context.Context, id int) (*cfp.Talk, error)
	Talks(ctx context.Context, filter cfp.TalkFilter) ([]*cfp.Talk, error)
	CountTalks(ctx context.Context, filter cfp.TalkFilter) (int, error)
}

var _ TalkStore = &db.DB{}

type BaseAPI struct {
	db     *db.DB
	talks  TalkStore
	mailer cfp.Mailer
	rd     *mdrenderer.Renderer

	cfp      *cfp.CallForPapers
	talkOpts *cfp.TalkOptions

	sessionUserCache *theine.LoadingCache[string, *cfp.User]

	now func() time.Time
}

func (s *BaseAPI) Start(ctx context.Context) {
	go s.cleanupSessionsJob(ctx, time.Hour)
}

func (s *BaseAPI) Close() error {
	if closer, ok := s.mailer.(interface{ Close() }); ok {
		closer.Close()
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("couldn't close DB: %w", err)
	}
	return nil
}

func GetBaseAPI(db *db.DB, mailer cfp.Mailer) (*BaseAPI, error) {
	base := &BaseAPI{
		db:     db,
		talks:  db,
		mailer: mailer,
		rd:     mdrenderer.NewRenderer(),

		cfp: cfp.NewCallForPapers(config.Application.StartDate, config.Application.EndDate),
		talkOpts: &cfp.TalkOptions{
			Types:      config.Talks.Types,
			Levels:     config.Talks.Levels,
			Categories: config.Talks.Categories,
		},

		now: time.Now,
	}
	sUserCache, err := theine.NewBuilder[string, *cfp.User](500).BuildWithLoader(func(ctx context.Context, sid string) (theine.Loaded[*cfp.User], error) {
		user, err := base.sessionUser(ctx, sid)
		if err != nil {
			return theine.Loaded[*cfp.User]{}, err
		}
		return theine.Loaded[*cfp.User]{
			Value: user,
			Cost:  1,
			TTL:   time.Duration(flags.SessionCacheTTL.Value()) * time.Second,
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not build session user cache: %w", err)
	}
	base.sessionUserCache = sUserCache

	return base, nil
}

func InitializeBaseAPI(ctx context.Context) (*BaseAPI, error) {
	var mailer cfp.Mailer
	if config.Email.Enabled {
		emailer, err := email.NewMailer()
		if err != nil {
			slog.WarnContext(ctx, "Couldn't initialize mailer. Make sure you entered the correct information", slog.Any("err", err))
		} else {
			mailer = emailer
		}
	}

	// DB Initialization
	dbClient, err := db.NewPSQL(ctx, config.Common.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("couldn't connect to DB: %w", err)
	}
	if err := dbClient.Ping(ctx); err != nil {
		dbClient.Close()
		return nil, fmt.Errorf("couldn't reach DB: %w", err)
	}
	slog.InfoContext(ctx, "Connected to DB")

	if flags.MigrateOnStart.Value() {
		if err := dbClient.RunMigrations(ctx); err != nil {
			return nil, fmt.Errorf("couldn't run migrations: %w", err)
		}
	}

	return GetBaseAPI(dbClient, mailer)
}
