// Package config loads source lists from YAML files.
//
// The built-in source list in internal/pipeline covers the default
// deployment; a YAML file lets operators add or replace sources without
// a rebuild.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"retail-relay/internal/pipeline"
)

// LoadSourceSet loads a source list from a YAML file
func LoadSourceSet(path string) (pipeline.SourceSet, error) {
	var set pipeline.SourceSet

	data, err := os.ReadFile(path)
	if err != nil {
		return set, fmt.Errorf("failed to read file: %w", err)
	}

	if err := yaml.Unmarshal(data, &set); err != nil {
		return set, fmt.Errorf("failed to parse YAML: %w", err)
	}

	setDefaults(&set)

	if err := validate(set); err != nil {
		return set, fmt.Errorf("invalid source list %s: %w", path, err)
	}

	return set, nil
}

// setDefaults applies default values to source descriptors
func setDefaults(set *pipeline.SourceSet) {
	for i := range set.Feeds {
		if set.Feeds[i].Language == "" {
			set.Feeds[i].Language = "ja"
		}
		if set.Feeds[i].Category == "" {
			set.Feeds[i].Category = "news"
		}
	}
	for i := range set.APIs {
		if set.APIs[i].Language == "" {
			set.APIs[i].Language = "ja"
		}
		if set.APIs[i].Category == "" {
			set.APIs[i].Category = "news"
		}
		if set.APIs[i].Pages == 0 {
			set.APIs[i].Pages = 1
		}
	}
	for i := range set.Scrapes {
		if set.Scrapes[i].Language == "" {
			set.Scrapes[i].Language = "ja"
		}
		if set.Scrapes[i].Category == "" {
			set.Scrapes[i].Category = "products"
		}
	}
	for i := range set.Shopifys {
		if set.Shopifys[i].Language == "" {
			set.Shopifys[i].Language = "ja"
		}
		if set.Shopifys[i].Category == "" {
			set.Shopifys[i].Category = "products"
		}
	}
}

// validate validates the source list
func validate(set pipeline.SourceSet) error {
	seen := make(map[string]bool)
	checkName := func(name string) error {
		if name == "" {
			return fmt.Errorf("source name is required")
		}
		if seen[name] {
			return fmt.Errorf("duplicate source name: %s", name)
		}
		seen[name] = true
		return nil
	}

	for _, src := range set.Feeds {
		if err := checkName(src.Name); err != nil {
			return err
		}
		if src.URL == "" {
			return fmt.Errorf("feed %s: url is required", src.Name)
		}
	}
	for _, src := range set.APIs {
		if err := checkName(src.Name); err != nil {
			return err
		}
		if src.URL == "" {
			return fmt.Errorf("api %s: url is required", src.Name)
		}
		if src.Type != "wordpress" && src.Type != "events" {
			return fmt.Errorf("api %s: unknown type %q", src.Name, src.Type)
		}
	}
	for _, src := range set.Scrapes {
		if err := checkName(src.Name); err != nil {
			return err
		}
		if len(src.URLs) == 0 {
			return fmt.Errorf("scrape %s: at least one url is required", src.Name)
		}
	}
	for _, src := range set.Shopifys {
		if err := checkName(src.Name); err != nil {
			return err
		}
		if src.URL == "" {
			return fmt.Errorf("shopify %s: url is required", src.Name)
		}
	}

	return nil
}
