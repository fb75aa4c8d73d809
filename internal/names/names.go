// Package names persists user-chosen display names keyed by user id.
package names

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dkeye/Lobby/internal/config"
	"github.com/dkeye/Lobby/internal/domain"
	"github.com/rs/zerolog/log"
)

var ErrUnknownBackend = errors.New("unknown names backend")

// Store is a get/set-by-id capability safe for concurrent use.
// Concurrent Sets for one id are last-write-wins.
type Store interface {
	Get(ctx context.Context, id domain.UserID) (name string, ok bool, err error)
	Set(ctx context.Context, id domain.UserID, name string) error
	Close() error
}

// Resolve returns u with its display name replaced by the stored override, if any.
// Store failures fall back to the name u already carries.
func Resolve(ctx context.Context, s Store, u domain.User) domain.User {
	if s == nil {
		return u
	}
	name, ok, err := s.Get(ctx, u.ID)
	if err != nil {
		log.Warn().Err(err).Str("module", "names").Str("user", string(u.ID)).Msg("name lookup failed, using credential name")
		return u
	}
	if ok {
		u.Username = name
	}
	return u
}

// Open builds the store selected by cfg.Backend.
func Open(ctx context.Context, cfg config.NamesConfig) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "memory":
		log.Info().Str("module", "names").Str("backend", "memory").Msg("name store ready")
		return NewMemoryStore(), nil
	case "redis":
		s, err := OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPrefix)
		if err != nil {
			return nil, fmt.Errorf("open redis name store: %w", err)
		}
		log.Info().Str("module", "names").Str("backend", "redis").Str("addr", cfg.RedisAddr).Msg("name store ready")
		return s, nil
	case "sqlite":
		s, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite name store: %w", err)
		}
		log.Info().Str("module", "names").Str("backend", "sqlite").Str("path", cfg.SQLitePath).Msg("name store ready")
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
