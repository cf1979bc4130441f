package config

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Flags are runtime-tweakable settings. Unlike the TOML config, they are stored as JSON
// and may be changed without a restart.

var (
	flagsPath string
	flagMapMu sync.RWMutex
	allFlags  = make(map[string]flagValue)
)

type flagValue interface {
	getPtr() any
	sneakUpdate(raw json.RawMessage) error
	InternalName() string
}

type Flag[T any] interface {
	Value() T
	Update(T)
	InternalName() string
	HumanName() string
}

type flag[T any] struct {
	mu        sync.RWMutex
	name      string
	val       T
	humanName string
}

func (f *flag[T]) Value() T {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.val
}

func (f *flag[T]) InternalName() string {
	return f.name
}

func (f *flag[T]) HumanName() string {
	return f.humanName
}

func (f *flag[T]) MarshalJSON() ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return json.Marshal(&struct {
		InternalName string `json:"internal_name"`
		HumanName    string `json:"human_name"`
		Value        T      `json:"value"`
	}{
		InternalName: f.name,
		HumanName:    f.humanName,
		Value:        f.val,
	})
}

// Update changes the value and persists all flags to disk.
func (f *flag[T]) Update(newVal T) {
	f.mu.Lock()
	f.val = newVal
	f.mu.Unlock()
	if err := SaveFlags(context.Background()); err != nil {
		slog.WarnContext(context.Background(), "Couldn't save flag", slog.String("flag", f.name), slog.Any("err", err))
	}
}

func (f *flag[T]) getPtr() any {
	return &f.val
}

func (f *flag[T]) sneakUpdate(raw json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := json.Unmarshal(raw, &f.val); err != nil {
		return fmt.Errorf("invalid value, flag expected %T", f.val)
	}
	return nil
}

// GenFlag registers a flag. It is meant to be called from package-level var blocks.
func GenFlag[T any](name string, defaultVal T, readableName string) Flag[T] {
	flagMapMu.Lock()
	defer flagMapMu.Unlock()
	f := &flag[T]{name: name, val: defaultVal, humanName: readableName}
	allFlags[name] = f
	return f
}

func GetFlag[T any](name string) (Flag[T], bool) {
	flagMapMu.RLock()
	defer flagMapMu.RUnlock()
	flg, ok := allFlags[name]
	if !ok {
		return nil, false
	}
	v, ok := flg.(*flag[T])
	return v, ok
}

// AllFlags returns every registered flag, sorted by name. The values are JSON-marshalable.
func AllFlags() []any {
	flagMapMu.RLock()
	defer flagMapMu.RUnlock()
	flags := make([]flagValue, 0, len(allFlags))
	for _, flg := range allFlags {
		flags = append(flags, flg)
	}
	slices.SortFunc(flags, func(a, b flagValue) int {
		return cmp.Compare(a.InternalName(), b.InternalName())
	})
	rez := make([]any, len(flags))
	for i := range flags {
		rez[i] = flags[i]
	}
	return rez
}

// LoadFlags reads the flags file (if it exists) and then applies CFP_FLAG_OVERRIDES,
// a comma separated list of key=value pairs.
func LoadFlags(ctx context.Context) error {
	flagMapMu.RLock()
	defer flagMapMu.RUnlock()
	if flagsPath == "" {
		return errors.New("invalid flags path")
	}

	f, err := os.Open(flagsPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if f != nil {
		defer f.Close()
		var data = make(map[string]json.RawMessage)
		if err := json.NewDecoder(f).Decode(&data); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		for key, raw := range data {
			flg, ok := allFlags[key]
			if !ok {
				slog.WarnContext(ctx, "Unknown flag key", slog.String("key", key))
				continue
			}
			if err := flg.sneakUpdate(raw); err != nil {
				slog.WarnContext(ctx, "Couldn't update flag", slog.String("key", key), slog.Any("err", err))
			}
		}
	}

	for _, override := range strings.Split(os.Getenv("CFP_FLAG_OVERRIDES"), ",") {
		if override == "" {
			continue
		}
		key, val, found := strings.Cut(override, "=")
		if !found {
			slog.WarnContext(ctx, "Invalid override", slog.String("override", override))
			continue
		}
		flg, ok := allFlags[key]
		if !ok {
			slog.WarnContext(ctx, "Could not find flag", slog.String("name", key))
			continue
		}
		if _, isString := flg.(*flag[string]); isString {
			// Strings may come without quotes
			val = fmt.Sprintf("%q", val)
		}
		if err := flg.sneakUpdate(json.RawMessage(val)); err != nil {
			slog.WarnContext(ctx, "Invalid flag override", slog.String("key", key), slog.Any("err", err))
		}
	}

	return nil
}

func SaveFlags(ctx context.Context) error {
	if flagsPath == "" {
		return errors.New("invalid flags path")
	}
	if err := os.MkdirAll(filepath.Dir(flagsPath), 0755); err != nil {
		return err
	}
	flagMapMu.RLock()
	defer flagMapMu.RUnlock()

	var data = make(map[string]any)
	for key, flg := range allFlags {
		data[key] = flg.getPtr()
	}

	file, err := os.Create(flagsPath)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(file)
	enc.SetIndent("", "\t")
	if err := enc.Encode(data); err != nil {
		file.Close() // The JSON is broken anyway
		return err
	}
	slog.DebugContext(ctx, "Saved flags", slog.String("path", flagsPath))
	return file.Close()
}

func SetFlagsPath(path string) {
	flagsPath = path
}
