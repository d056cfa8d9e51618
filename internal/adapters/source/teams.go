package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/okian/scoreboard/internal/domain/model"
)

type registryFile struct {
	Teams []teamFile `yaml:"teams" validate:"dive"`
}

type teamFile struct {
	Name    string   `yaml:"name" validate:"required"`
	ID      string   `yaml:"id"`
	Members []string `yaml:"members"`
}

// LoadTeams reads the optional team registry at path. A missing file (or
// an empty path) yields an empty registry; malformed content is an error.
// Later entries with the same name replace earlier ones.
func LoadTeams(ctx context.Context, path string) (model.Registry, error) {
	reg, err := loadTeams(ctx, path)
	if errors.Is(err, ErrConfigAbsent) {
		return model.Registry{}, nil
	}
	return reg, err
}

func loadTeams(ctx context.Context, path string) (model.Registry, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrConfigAbsent
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrConfigAbsent, path)
	}
	if err != nil {
		return nil, loadErr(path, err)
	}

	var doc registryFile
	if err := decodeYAML(raw, &doc); err != nil {
		return nil, loadErr(path, err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, loadErr(path, validationError(err))
	}

	reg := make(model.Registry, len(doc.Teams))
	for _, t := range doc.Teams {
		reg[t.Name] = model.TeamMeta{
			Name:    t.Name,
			ID:      t.ID,
			Members: append([]string(nil), t.Members...),
		}
	}
	return reg, nil
}
