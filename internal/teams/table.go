// Package teams resolves free-form team names to upstream provider identifiers.
package teams

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yourusername/edge-calibrator/internal/models"
)

//go:embed data/teams.yaml
var defaultTableYAML []byte

// Entry is one team in the lookup table
type Entry struct {
	Name    string   `yaml:"name"`
	ID      string   `yaml:"id"`
	Aliases []string `yaml:"aliases,omitempty"`
}

// Names returns the canonical name followed by any aliases
func (e Entry) Names() []string {
	return append([]string{e.Name}, e.Aliases...)
}

// Table holds the team entries per league, in priority order
type Table struct {
	leagues map[models.League][]Entry
}

// ParseTable decodes a YAML table keyed by league
func ParseTable(data []byte) (*Table, error) {
	raw := map[string][]Entry{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse team table: %w", err)
	}

	t := &Table{leagues: make(map[models.League][]Entry, len(raw))}
	for key, entries := range raw {
		league, err := models.ParseLeague(key)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if e.Name == "" || e.ID == "" {
				return nil, fmt.Errorf("team table %s: entry missing name or id: %+v", key, e)
			}
		}
		t.leagues[league] = entries
	}
	return t, nil
}

// NewTable builds a table from in-memory entries
func NewTable(leagues map[models.League][]Entry) *Table {
	return &Table{leagues: leagues}
}

// Entries returns the teams of a league
func (t *Table) Entries(league models.League) []Entry {
	return t.leagues[league]
}

var (
	defaultTable    *Table
	defaultTableErr error
	defaultOnce     sync.Once
)

// DefaultTable returns the embedded team table
func DefaultTable() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultTableErr = ParseTable(defaultTableYAML)
	})
	return defaultTable, defaultTableErr
}
