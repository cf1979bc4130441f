package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KiloProjects/cfp"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

type dbTalk struct {
	ID        int       `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UserID    int       `db:"user_id"`

	Title       string `db:"title"`
	Description string `db:"description"`
	Type        string `db:"type"`
	Level       string `db:"level"`
	Category    string `db:"category"`
	Desired     string `db:"desired"`
	Slides      string `db:"slides"`
	Other       string `db:"other"`
	Sponsor     string `db:"sponsor"`
}

func (t *dbTalk) toTalk() *cfp.Talk {
	return &cfp.Talk{
		ID:          t.ID,
		CreatedAt:   t.CreatedAt,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Type:        t.Type,
		Level:       t.Level,
		Category:    t.Category,
		Desired:     t.Desired,
		Slides:      t.Slides,
		Other:       t.Other,
		Sponsor:     t.Sponsor,
	}
}

// CreateTalk inserts the talk and returns its new ID. ID and CreatedAt on the argument are ignored.
func (s *DB) CreateTalk(ctx context.Context, talk *cfp.Talk) (int, error) {
	if talk == nil || talk.UserID == 0 || talk.Title == "" {
		return -1, cfp.ErrMissingRequired
	}
	query, args, err := sq.Insert("talks").
		Columns("user_id", "title", "description", "type", "level", "category", "desired", "slides", "other", "sponsor").
		Values(talk.UserID, talk.Title, talk.Description, talk.Type, talk.Level, talk.Category, talk.Desired, talk.Slides, talk.Other, talk.Sponsor).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return -1, err
	}
	var id int
	if err := s.conn.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return -1, fmt.Errorf("could not insert talk: %w", err)
	}
	return id, nil
}

func (s *DB) Talk(ctx context.Context, id int) (*cfp.Talk, error) {
	return toSingular(ctx, cfp.TalkFilter{ID: &id, Limit: 1}, s.Talks)
}

func (s *DB) Talks(ctx context.Context, filter cfp.TalkFilter) ([]*cfp.Talk, error) {
	fb := newFilterBuilder()
	talkFilterQuery(&filter, fb)

	q := fmt.Sprintf("SELECT * FROM talks WHERE %s ORDER BY created_at DESC, id DESC %s", fb.Where(), FormatLimitOffset(filter.Limit, filter.Offset))
	rows, _ := s.conn.Query(ctx, q, fb.Args()...)
	talks, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[dbTalk])
	if errors.Is(err, pgx.ErrNoRows) {
		return []*cfp.Talk{}, nil
	}
	if err != nil {
		return nil, err
	}
	return mapper(talks, (*dbTalk).toTalk), nil
}

// CountTalks ignores the limit fields in `filter`.
func (s *DB) CountTalks(ctx context.Context, filter cfp.TalkFilter) (int, error) {
	fb := newFilterBuilder()
	talkFilterQuery(&filter, fb)

	var cnt int
	err := s.conn.QueryRow(ctx, "SELECT COUNT(*) FROM talks WHERE "+fb.Where(), fb.Args()...).Scan(&cnt)
	if err != nil {
		return -1, err
	}
	return cnt, nil
}

func talkFilterQuery(filter *cfp.TalkFilter, fb *filterBuilder) {
	if v := filter.ID; v != nil {
		fb.AddConstraint("id = %s", *v)
	}
	if v := filter.UserID; v != nil {
		fb.AddConstraint("user_id = %s", *v)
	}
	if v := filter.Category; v != nil {
		fb.AddConstraint("category = %s", *v)
	}
	if v := filter.Type; v != nil {
		fb.AddConstraint("type = %s", *v)
	}
}
