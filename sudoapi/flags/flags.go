package flags

import "github.com/KiloProjects/cfp/internal/config"

// talks
var (
	NotifySpeaker = config.GenFlag("feature.talks.notify_speaker", true, "Send a confirmation email to the speaker after a talk is submitted")
)

// DB
var (
	MigrateOnStart = config.GenFlag("behavior.db.run_migrations", true, "Run PostgreSQL migrations on platform start")
)

// sessions
var (
	SessionCacheTTL = config.GenFlag("behavior.sessions.cache_ttl_seconds", 20, "How long a session's user is cached in memory, in seconds")
)
