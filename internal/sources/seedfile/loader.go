package seedfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of the bookmark seed file.
type Loader struct {
	filePath string
}

// NewLoader creates a seed file loader.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the seed file, dropping entries that would fail
// bookmark validation (missing title or url) or have no owner.
func (l *Loader) Load() (SeedConfig, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var config SeedConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse seed yaml: %w", err)
	}

	return sanitize(config), nil
}

func sanitize(config SeedConfig) SeedConfig {
	cleaned := make(SeedConfig, 0, len(config))
	for _, owner := range config {
		if owner.Owner == "" {
			continue
		}
		entries := make([]SeedEntry, 0, len(owner.Bookmarks))
		for _, e := range owner.Bookmarks {
			if e.Title == "" || e.URL == "" {
				continue
			}
			entries = append(entries, e)
		}
		if len(entries) == 0 {
			continue
		}
		cleaned = append(cleaned, OwnerSeed{Owner: owner.Owner, Bookmarks: entries})
	}
	return cleaned
}
