package gamify

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"questlog/internal/model"
)

//go:embed catalog.yaml
var catalogYAML []byte

type Metric string

const (
	MetricTasksCompleted   Metric = "tasks_completed"
	MetricStreakDays       Metric = "streak_days"
	MetricCompletionsInDay Metric = "completions_in_day"
	MetricEarlyCompletions Metric = "early_completions"
)

func (m Metric) IsValid() bool {
	switch m {
	case MetricTasksCompleted, MetricStreakDays, MetricCompletionsInDay, MetricEarlyCompletions:
		return true
	default:
		return false
	}
}

// CatalogEntry describes one unlockable: which engine metric drives it and
// the value at which it unlocks. Binary entries expose no progress pair and
// unlock the moment the predicate first holds.
type CatalogEntry struct {
	ID          string                `yaml:"id"`
	Title       string                `yaml:"title"`
	Description string                `yaml:"description"`
	Icon        string                `yaml:"icon"`
	Type        model.AchievementType `yaml:"type"`
	Metric      Metric                `yaml:"metric"`
	Target      int                   `yaml:"target"`
	Binary      bool                  `yaml:"binary"`
}

type catalogFile struct {
	Achievements []CatalogEntry `yaml:"achievements"`
}

// LoadCatalog parses the embedded achievement definitions.
func LoadCatalog() ([]CatalogEntry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(catalogYAML, &file); err != nil {
		return nil, fmt.Errorf("gamify: parse catalog: %w", err)
	}
	seen := make(map[string]bool, len(file.Achievements))
	for _, entry := range file.Achievements {
		if entry.ID == "" {
			return nil, fmt.Errorf("gamify: catalog entry missing id")
		}
		if seen[entry.ID] {
			return nil, fmt.Errorf("gamify: duplicate catalog id %q", entry.ID)
		}
		seen[entry.ID] = true
		if !entry.Type.IsValid() {
			return nil, fmt.Errorf("gamify: catalog entry %q has invalid type %q", entry.ID, entry.Type)
		}
		if !entry.Metric.IsValid() {
			return nil, fmt.Errorf("gamify: catalog entry %q has invalid metric %q", entry.ID, entry.Metric)
		}
		if entry.Target <= 0 {
			return nil, fmt.Errorf("gamify: catalog entry %q has non-positive target", entry.ID)
		}
	}
	return file.Achievements, nil
}

// seedAchievements builds the locked initial state for a catalog.
func seedAchievements(catalog []CatalogEntry) []model.Achievement {
	out := make([]model.Achievement, 0, len(catalog))
	for _, entry := range catalog {
		ach := model.Achievement{
			ID:          entry.ID,
			Title:       entry.Title,
			Description: entry.Description,
			Icon:        entry.Icon,
			Type:        entry.Type,
		}
		if !entry.Binary {
			progress := 0
			target := entry.Target
			ach.Progress = &progress
			ach.MaxProgress = &target
		}
		out = append(out, ach)
	}
	return out
}
