// Package config loads the provider configuration file.
//
// The file is YAML or JSON. Providers and their categories are kept in document order:
//
//	providers:
//	  sky:
//	    base_url: https://feeds.skynews.com/feeds/rss
//	    preset: sky
//	  bbc:
//	    base_url: https://feeds.bbci.co.uk/news
//	    categories:
//	      TOP_STORIES: /rss.xml
//	      UK: /uk/rss.xml
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"newswire/internal/domain/entity"
	"newswire/internal/usecase/provider"
)

// ProvidersConfig is the parsed provider file.
type ProvidersConfig struct {
	Path      string
	Providers []ProviderConfig
}

// ProviderConfig describes one provider entry. Exactly one of Preset or Categories is set.
type ProviderConfig struct {
	Key        string
	BaseURL    string
	Preset     string
	Categories []entity.Category
}

type rawProvider struct {
	BaseURL    string    `yaml:"base_url"`
	Preset     string    `yaml:"preset"`
	Categories yaml.Node `yaml:"categories"`
}

// LoadProvidersConfig reads and parses the provider file at path.
// The path parameter is expected to come from a trusted source (command-line flag or environment).
func LoadProvidersConfig(path string) (*ProvidersConfig, error) {
	// #nosec G304 -- path is provided by the operator, not by remote input
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, missing(path, "", err)
		}
		return nil, malformed(path, "", fmt.Errorf("failed to read config file: %w", err))
	}
	return ParseProvidersConfig(path, data)
}

// ParseProvidersConfig parses a provider document. path is only used in error messages.
func ParseProvidersConfig(path string, data []byte) (*ProvidersConfig, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, malformed(path, "", fmt.Errorf("failed to parse config: %w", err))
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, missing(path, "providers", errors.New("empty document"))
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, malformed(path, "", fmt.Errorf("line %d: top level must be a mapping", root.Line))
	}

	providers := lookup(root, "providers")
	if providers == nil {
		return nil, missing(path, "providers", nil)
	}
	if providers.Kind != yaml.MappingNode {
		return nil, malformed(path, "providers", fmt.Errorf("line %d: must be a mapping", providers.Line))
	}

	cfg := &ProvidersConfig{Path: path, Providers: make([]ProviderConfig, 0, len(providers.Content)/2)}
	for i := 0; i+1 < len(providers.Content); i += 2 {
		key := providers.Content[i].Value
		pc, err := parseProvider(path, key, providers.Content[i+1])
		if err != nil {
			return nil, err
		}
		cfg.Providers = append(cfg.Providers, pc)
	}
	return cfg, nil
}

func parseProvider(path, key string, node *yaml.Node) (ProviderConfig, error) {
	field := "providers." + key
	if strings.TrimSpace(key) == "" {
		return ProviderConfig{}, malformed(path, "providers", fmt.Errorf("line %d: empty provider key", node.Line))
	}

	var raw rawProvider
	if err := node.Decode(&raw); err != nil {
		return ProviderConfig{}, malformed(path, field, err)
	}
	if raw.BaseURL == "" {
		return ProviderConfig{}, missing(path, field+".base_url", nil)
	}

	pc := ProviderConfig{Key: key, BaseURL: raw.BaseURL, Preset: raw.Preset}
	hasCategories := raw.Categories.Kind != 0

	switch {
	case raw.Preset != "" && hasCategories:
		return ProviderConfig{}, malformed(path, field, errors.New("preset and categories are mutually exclusive"))
	case raw.Preset != "":
		if _, ok := entity.Preset(raw.Preset); !ok {
			return ProviderConfig{}, malformed(path, field+".preset", fmt.Errorf("unknown preset %q", raw.Preset))
		}
	case hasCategories:
		if raw.Categories.Kind != yaml.MappingNode {
			return ProviderConfig{}, malformed(path, field+".categories", fmt.Errorf("line %d: must be a mapping", raw.Categories.Line))
		}
		content := raw.Categories.Content
		for i := 0; i+1 < len(content); i += 2 {
			name, value := content[i], content[i+1]
			if value.Kind != yaml.ScalarNode {
				return ProviderConfig{}, malformed(path, field+".categories."+name.Value,
					fmt.Errorf("line %d: path must be a string", value.Line))
			}
			pc.Categories = append(pc.Categories, entity.Category{Name: name.Value, Path: value.Value})
		}
	default:
		return ProviderConfig{}, missing(path, field+".categories", nil)
	}
	return pc, nil
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

// DefaultProvidersConfig returns the built-in Sky News and BBC News providers.
func DefaultProvidersConfig() *ProvidersConfig {
	return &ProvidersConfig{
		Path: "<builtin>",
		Providers: []ProviderConfig{
			{Key: "sky", BaseURL: entity.SkyNewsBaseURL, Preset: "sky"},
			{Key: "bbc", BaseURL: entity.BBCNewsBaseURL, Preset: "bbc"},
		},
	}
}

// BuildRegistry constructs a provider for every entry and registers it under its key.
// A repeated key overwrites the earlier entry, which the registry logs as a warning.
func BuildRegistry(cfg *ProvidersConfig, logger *slog.Logger) (*provider.Registry, error) {
	registry := provider.NewRegistry(logger)
	for _, pc := range cfg.Providers {
		p, err := pc.build()
		if err != nil {
			return nil, malformed(cfg.Path, "providers."+pc.Key, err)
		}
		registry.Register(pc.Key, p)
	}
	return registry, nil
}

func (pc ProviderConfig) build() (*entity.NewsProvider, error) {
	var (
		set entity.CategorySet
		err error
	)
	if pc.Preset != "" {
		var ok bool
		if set, ok = entity.Preset(pc.Preset); !ok {
			return nil, fmt.Errorf("unknown preset %q", pc.Preset)
		}
	} else if set, err = entity.NewCategorySet(pc.Categories...); err != nil {
		return nil, err
	}
	return entity.NewNewsProvider(pc.BaseURL, set)
}

// LoadRegistry loads the provider file at path and builds the registry.
// An empty path selects DefaultProvidersConfig.
func LoadRegistry(path string, logger *slog.Logger) (*provider.Registry, error) {
	cfg := DefaultProvidersConfig()
	if path != "" {
		var err error
		if cfg, err = LoadProvidersConfig(path); err != nil {
			return nil, err
		}
	}
	return BuildRegistry(cfg, logger)
}
