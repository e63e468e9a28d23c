// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cosnicolaou/wintz/zonedb"
	"gopkg.in/yaml.v3"
)

type ConfigFlags struct {
	ConfigFileFlags
}

type Config struct {
	out io.Writer
}

func marshalYAML(indent string, v any) string {
	p, _ := yaml.Marshal(v)
	lines := strings.Split(strings.TrimSuffix(string(p), "\n"), "\n")
	indented := make([]string, len(lines))
	for i, line := range lines {
		indented[i] = indent + line
	}
	return strings.Join(indented, "\n")
}

func (c *Config) Display(ctx context.Context, flags any, _ []string) error {
	fv := flags.(*ConfigFlags)
	cfg, err := zonedb.ParseConfigFile(ctx, fv.ConfigFile)
	if err != nil {
		return err
	}
	if len(fv.Territory) > 0 {
		cfg.Territory = fv.Territory
	}
	fmt.Fprintf(c.out, "Config:\n%v\n", marshalYAML("  ", cfg))

	_, repo, cleanup, err := loadRepository(ctx, &fv.ConfigFileFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	ids, err := repo.PlatformIDs()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Platform IDs: %v\n", len(ids))
	for _, id := range ids {
		zids := repo.ZoneIDs(id)
		if len(zids) == 0 {
			fmt.Fprintf(c.out, "  %v\n", id)
			continue
		}
		fmt.Fprintf(c.out, "  %v: %v\n", id, strings.Join(zids, ", "))
	}
	return nil
}
