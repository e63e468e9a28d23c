// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zonedb_test

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/cosnicolaou/wintz/zonedb"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	ctx := context.Background()
	cfg, err := zonedb.ParseConfigFile(ctx, "testdata/config.yaml")
	require.NoError(t, err)
	if got, want := cfg, (zonedb.Config{
		Source:    "dynamic",
		Zones:     "testdata/zones.yaml",
		Mapping:   "testdata/mapping.yaml",
		Territory: "US",
	}); got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	for _, data := range []string{
		"source: registry\n",
		"source: dynamic\n",
		"source: ntp\n",
		"zones: testdata/zones.yaml\n",
	} {
		if _, err := zonedb.ParseConfig([]byte(data)); err == nil {
			t.Errorf("%q: expected an error", data)
		}
	}
}

func TestConfigDynamicRepository(t *testing.T) {
	ctx := context.Background()
	cfg, err := zonedb.ParseConfigFile(ctx, "testdata/config.yaml")
	require.NoError(t, err)
	repo, closer, err := cfg.NewRepository(ctx, zonedb.WithLogger(discardLogger()))
	require.NoError(t, err)
	defer closer()

	z, err := repo.SystemZone(ctx)
	require.NoError(t, err)
	if got, want := z.ID(), "America/Los_Angeles"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	// Options override the configuration.
	repo, closer, err = cfg.NewRepository(ctx, zonedb.WithLogger(discardLogger()), zonedb.WithTerritory("CA"))
	require.NoError(t, err)
	defer closer()
	z, err = repo.Zone(ctx, pacific)
	require.NoError(t, err)
	if got, want := z.ID(), "America/Vancouver"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestConfigRegistryRepository(t *testing.T) {
	ctx := context.Background()
	filename := filepath.Join(t.TempDir(), "registry.db")
	h, err := zonedb.OpenHive(ctx, filename)
	require.NoError(t, err)
	for _, zd := range enumeratedZones(t) {
		require.NoError(t, zonedb.WriteZone(ctx, h, zd))
	}
	require.NoError(t, zonedb.WriteSystemZone(ctx, h, tokyo))
	require.NoError(t, h.Close())

	cfg, err := zonedb.ParseConfig([]byte("source: registry\nregistry: " + filename + "\n"))
	require.NoError(t, err)
	repo, closer, err := cfg.NewRepository(ctx, zonedb.WithLogger(discardLogger()))
	require.NoError(t, err)
	defer closer()

	ids, err := repo.PlatformIDs()
	require.NoError(t, err)
	if got, want := ids, []string{ausEastern, pacific, tokyo}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	z, err := repo.SystemZone(ctx)
	require.NoError(t, err)
	if got, want := z.ID(), tokyo; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
