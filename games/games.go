// Package games loads the catalog of games shown on the dashboard grid
package games

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed games.yaml
var defaultCatalog []byte

var (
	// ErrMissingID is returned when a catalog entry has no id
	ErrMissingID = errors.New("game without id")
	// ErrDuplicateGame is returned when two catalog entries share an id
	ErrDuplicateGame = errors.New("duplicate game id")
)

// Game is one card of the dashboard grid
type Game struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	Color       string `yaml:"color"`
}

// Default returns the embedded catalog
func Default() ([]Game, error) {
	return Parse(defaultCatalog)
}

// Load reads the catalog at path, or the embedded one when path is empty
func Load(path string) ([]Game, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read games file: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML catalog, keeping its order
func Parse(data []byte) ([]Game, error) {
	var list []Game
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to decode games: %w", err)
	}

	seen := make(map[string]struct{}, len(list))

	for i, g := range list {
		if g.ID == "" {
			return nil, fmt.Errorf("%w at position %d", ErrMissingID, i)
		}
		if _, ok := seen[g.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateGame, g.ID)
		}
		seen[g.ID] = struct{}{}
	}

	return list, nil
}
