package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// ConfigStruct is the glue for all configuration sections
type ConfigStruct struct {
	Common      CommonConf      `toml:"common"`
	Application ApplicationConf `toml:"application"`
	Email       EmailConf       `toml:"email"`
	Session     SessionConf     `toml:"session"`
	Talks       TalksConf       `toml:"talks"`
}

// CommonConf is the data required for the whole platform
type CommonConf struct {
	Debug      bool   `toml:"debug"`
	LogDir     string `toml:"log_dir"`
	DBDSN      string `toml:"db_dsn"`
	HostPrefix string `toml:"host_prefix"`
	FlagsPath  string `toml:"flags_path"`

	ListenHost string `toml:"listen_host"`
	ListenPort int    `toml:"listen_port"`
}

// ApplicationConf describes the event the papers are submitted to
type ApplicationConf struct {
	Title string `toml:"title"`
	Email string `toml:"email"`

	// StartDate is optional, a zero value means submissions are accepted until EndDate
	StartDate time.Time `toml:"start_date"`
	EndDate   time.Time `toml:"end_date"`

	// DateFormat is a Go reference time layout, used when showing dates to speakers
	DateFormat string `toml:"date_format"`
}

// FormattedEndDate returns the end date of the call for papers, as shown in emails.
func (a ApplicationConf) FormattedEndDate() string {
	layout := a.DateFormat
	if layout == "" {
		layout = "January 2, 2006"
	}
	return a.EndDate.Format(layout)
}

// EmailConf holds the SMTP credentials
type EmailConf struct {
	Enabled bool `toml:"enabled"`

	// Host must be in host:port form
	Host     string `toml:"host"`
	Username string `toml:"username"`
	Password string `toml:"password"`

	TimeoutSeconds int `toml:"timeout_seconds"`
	PoolSize       int `toml:"pool_size"`
}

func (e EmailConf) Timeout() time.Duration {
	if e.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// SessionConf holds the cookie keys. HashKey should be 32 or 64 bytes, BlockKey 16, 24 or 32 bytes.
type SessionConf struct {
	HashKey  string `toml:"hash_key"`
	BlockKey string `toml:"block_key"`
	Secure   bool   `toml:"secure"`

	MaxAgeHours int `toml:"max_age_hours"`
}

func (s SessionConf) MaxAge() time.Duration {
	if s.MaxAgeHours <= 0 {
		return 30 * 24 * time.Hour
	}
	return time.Duration(s.MaxAgeHours) * time.Hour
}

// TalksConf lists the allowed talk attributes (key -> label)
type TalksConf struct {
	Types      map[string]string `toml:"types"`
	Levels     map[string]string `toml:"levels"`
	Categories map[string]string `toml:"categories"`
}

var (
	Common      CommonConf
	Application ApplicationConf
	Email       EmailConf
	Session     SessionConf
	Talks       TalksConf
)

// Defaults returns a configuration that works out of the box on a development machine.
func Defaults() ConfigStruct {
	now := time.Now().Truncate(24 * time.Hour)
	return ConfigStruct{
		Common: CommonConf{
			Debug:      false,
			LogDir:     "",
			DBDSN:      "postgres://cfp@localhost:5432/cfp?sslmode=disable",
			HostPrefix: "http://localhost:8080",
			FlagsPath:  "./flags.json",
			ListenHost: "localhost",
			ListenPort: 8080,
		},
		Application: ApplicationConf{
			Title:      "OpenCFP",
			Email:      "cfp@example.org",
			EndDate:    now.Add(30 * 24 * time.Hour),
			DateFormat: "January 2, 2006",
		},
		Email: EmailConf{
			Enabled:        false,
			Host:           "localhost:25",
			TimeoutSeconds: 10,
			PoolSize:       2,
		},
		Session: SessionConf{
			MaxAgeHours: 24 * 30,
		},
		Talks: TalksConf{
			Types: map[string]string{
				"talk":      "Regular talk",
				"tutorial":  "Tutorial",
				"lightning": "Lightning talk",
			},
			Levels: map[string]string{
				"beginner":     "Beginner",
				"intermediate": "Intermediate",
				"advanced":     "Advanced",
			},
			Categories: map[string]string{
				"php":      "PHP",
				"go":       "Go",
				"js":       "JavaScript",
				"devops":   "DevOps",
				"database": "Databases",
				"other":    "Other",
			},
		},
	}
}

func setGlobals(c ConfigStruct) {
	Common = c.Common
	Application = c.Application
	Email = c.Email
	Session = c.Session
	Talks = c.Talks
}

func init() {
	setGlobals(Defaults())
}

// Load decodes the TOML file at path over the defaults.
// Talk option tables in the file replace the default tables entirely.
func Load(ctx context.Context, path string) error {
	c := Defaults()
	defTalks := c.Talks
	c.Talks = TalksConf{}
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return fmt.Errorf("couldn't decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		slog.WarnContext(ctx, "There were a few undecoded config keys", slog.Any("keys", undecoded))
	}
	if c.Talks.Types == nil {
		c.Talks.Types = defTalks.Types
	}
	if c.Talks.Levels == nil {
		c.Talks.Levels = defTalks.Levels
	}
	if c.Talks.Categories == nil {
		c.Talks.Categories = defTalks.Categories
	}

	if dsn := os.Getenv("CFP_DB_DSN"); dsn != "" {
		c.Common.DBDSN = dsn
	}

	if err := validate(c); err != nil {
		return err
	}

	setGlobals(c)
	return nil
}

func validate(c ConfigStruct) error {
	if c.Application.EndDate.IsZero() {
		return errors.New("application.end_date must be set")
	}
	if !c.Application.StartDate.IsZero() && !c.Application.StartDate.Before(c.Application.EndDate) {
		return errors.New("application.start_date must be before application.end_date")
	}
	if n := len(c.Session.HashKey); n != 0 && n != 32 && n != 64 {
		return fmt.Errorf("session.hash_key must be 32 or 64 bytes long, got %d", n)
	}
	if n := len(c.Session.BlockKey); n != 0 && n != 16 && n != 24 && n != 32 {
		return fmt.Errorf("session.block_key must be 16, 24 or 32 bytes long, got %d", n)
	}
	if len(c.Talks.Types) == 0 || len(c.Talks.Levels) == 0 || len(c.Talks.Categories) == 0 {
		return errors.New("talks.types, talks.levels and talks.categories must not be empty")
	}
	return nil
}

// Save writes the current configuration to path, creating it if needed.
func Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := toml.NewEncoder(file)
	enc.Indent = "\t"
	if err := enc.Encode(ConfigStruct{
		Common:      Common,
		Application: Application,
		Email:       Email,
		Session:     Session,
		Talks:       Talks,
	}); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
