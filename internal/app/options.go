package service

import (
	"time"

	"github.com/okian/scoreboard/internal/adapters/repository"
	"github.com/okian/scoreboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithEventsDir sets the directory holding one YAML file per event.
func WithEventsDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.eventsDir = dir
		}
	}
}

// WithTeamsFile sets the optional team registry. Empty disables it.
func WithTeamsFile(path string) Option {
	return func(s *Service) {
		s.teamsFile = path
	}
}

// WithStaticDirs enables copying src into dist on every build. An empty
// src or dist disables the copy.
func WithStaticDirs(src, dist string) Option {
	return func(s *Service) {
		s.srcDir = src
		s.distDir = dist
	}
}

// WithStores adds stores that receive every snapshot before it goes live
// in memory.
func WithStores(stores ...repository.Store) Option {
	return func(s *Service) {
		for _, st := range stores {
			if st != nil {
				s.stores = append(s.stores, st)
			}
		}
	}
}

// WithClock overrides the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLintDistance sets the Levenshtein distance for near-duplicate names.
func WithLintDistance(d int) Option {
	return func(s *Service) {
		if d >= 0 {
			s.lintDistance = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
