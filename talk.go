package cfp

import (
	"cmp"
	"slices"
	"time"
)

type Talk struct {
	ID        int       `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    int       `json:"user_id"`

	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Level       string `json:"level"`
	Category    string `json:"category"`
	Desired     string `json:"desired"`

	Slides  string `json:"slides"`
	Other   string `json:"other"`
	Sponsor string `json:"sponsor"`
}

// TalkFilter is the struct with all filterable fields on the talk
// It also provides a Limit and Offset field, for pagination
type TalkFilter struct {
	ID     *int `json:"id"`
	UserID *int `json:"user_id"`

	Category *string `json:"category"`
	Type     *string `json:"type"`

	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// TalkOption is a selectable value for one of the enumerated talk attributes.
type TalkOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// TalkOptions holds the allowed values for talk types, levels and categories.
// Keys are what gets stored, labels are what gets shown.
type TalkOptions struct {
	Types      map[string]string
	Levels     map[string]string
	Categories map[string]string
}

func (o *TalkOptions) TypeList() []TalkOption     { return sortedOptions(o.Types) }
func (o *TalkOptions) LevelList() []TalkOption    { return sortedOptions(o.Levels) }
func (o *TalkOptions) CategoryList() []TalkOption { return sortedOptions(o.Categories) }

func (o *TalkOptions) TypeKeys() []any     { return keysOf(o.Types) }
func (o *TalkOptions) LevelKeys() []any    { return keysOf(o.Levels) }
func (o *TalkOptions) CategoryKeys() []any { return keysOf(o.Categories) }

func sortedOptions(m map[string]string) []TalkOption {
	opts := make([]TalkOption, 0, len(m))
	for k, v := range m {
		opts = append(opts, TalkOption{Key: k, Label: v})
	}
	slices.SortFunc(opts, func(a, b TalkOption) int {
		return cmp.Or(cmp.Compare(a.Label, b.Label), cmp.Compare(a.Key, b.Key))
	})
	return opts
}

// keysOf returns []any so it can be passed straight to validation.In
func keysOf(m map[string]string) []any {
	keys := make([]any, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
