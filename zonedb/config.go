// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zonedb

import (
	"context"
	"fmt"
	"os"

	"cloudeng.io/cmdutil/cmdyaml"
	"gopkg.in/yaml.v3"
)

// Config specifies the source of zone data and how platform ids are
// mapped to IANA ids.
type Config struct {
	Source    string `yaml:"source" cmd:"the source of zone data, one of registry or dynamic"`
	Registry  string `yaml:"registry" cmd:"sqlite database holding the registry hive used by the registry source"`
	Zones     string `yaml:"zones" cmd:"yaml, toml or snapshot file of zones used by the dynamic source"`
	Mapping   string `yaml:"mapping" cmd:"yaml file mapping platform ids to IANA ids"`
	Territory string `yaml:"territory" cmd:"ISO 3166 territory used to select default IANA ids"`
}

// ParseConfigFile parses the supplied configuration file as per ParseConfig.
func ParseConfigFile(ctx context.Context, cfgFile string) (Config, error) {
	var cfg Config
	if err := cmdyaml.ParseConfigFile(ctx, cfgFile, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.validate()
}

// ParseConfig parses the supplied configuration data.
func ParseConfig(cfgData []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(cfgData, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.validate()
}

func (cfg Config) validate() error {
	switch cfg.Source {
	case "registry":
		if len(cfg.Registry) == 0 {
			return fmt.Errorf("registry: must be specified for the registry source")
		}
	case "dynamic":
		if len(cfg.Zones) == 0 {
			return fmt.Errorf("zones: must be specified for the dynamic source")
		}
	default:
		return fmt.Errorf("unsupported source: %q", cfg.Source)
	}
	return nil
}

// LoadDocument reads a document or snapshot file.
func LoadDocument(ctx context.Context, filename string) (Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Document{}, err
	}
	if IsSnapshot(data) {
		f, err := os.Open(filename)
		if err != nil {
			return Document{}, err
		}
		defer f.Close()
		doc, _, err := ReadSnapshot(f)
		return doc, err
	}
	return ParseDocumentFile(ctx, filename)
}

// Closer is returned by NewSource to release any resources held by the
// source.
type Closer func() error

// NewSource creates the Source specified by cfg.
func (cfg Config) NewSource(ctx context.Context) (Source, Closer, error) {
	switch cfg.Source {
	case "registry":
		h, err := OpenHive(ctx, cfg.Registry)
		if err != nil {
			return nil, nil, err
		}
		return NewRegistrySource(h), h.Close, nil
	case "dynamic":
		doc, err := LoadDocument(ctx, cfg.Zones)
		if err != nil {
			return nil, nil, err
		}
		return NewEnumerationSource(doc), func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unsupported source: %q", cfg.Source)
}

// NewRepository creates and initializes a Repository using the source
// and mapping specified by cfg. The WithMapper and WithTerritory options
// override the configuration.
func (cfg Config) NewRepository(ctx context.Context, opts ...Option) (*Repository, Closer, error) {
	src, closer, err := cfg.NewSource(ctx)
	if err != nil {
		return nil, nil, err
	}
	var ropts []Option
	if len(cfg.Mapping) > 0 {
		mt, err := ParseMappingFile(ctx, cfg.Mapping)
		if err != nil {
			closer()
			return nil, nil, err
		}
		ropts = append(ropts, WithMapper(mt))
	}
	if len(cfg.Territory) > 0 {
		ropts = append(ropts, WithTerritory(cfg.Territory))
	}
	repo := NewRepository(src, append(ropts, opts...)...)
	if err := repo.Init(ctx); err != nil {
		closer()
		return nil, nil, err
	}
	return repo, closer, nil
}
