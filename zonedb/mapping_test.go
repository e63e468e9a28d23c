// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zonedb_test

import (
	"context"
	"slices"
	"testing"

	"github.com/cosnicolaou/wintz/zonedb"
	"github.com/stretchr/testify/require"
)

func TestMapping(t *testing.T) {
	mt, err := zonedb.ParseMappingFile(context.Background(), "testdata/mapping.yaml")
	require.NoError(t, err)

	if got, want := mt.IANAIDs(pacific), []string{"America/Los_Angeles", "America/Vancouver", "America/Dawson"}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := mt.IANAIDs("Mars Standard Time"); len(got) != 0 {
		t.Errorf("unexpected ids: %v", got)
	}

	for _, tc := range []struct {
		pid, territory, want string
	}{
		{pacific, "", "America/Los_Angeles"},
		{pacific, zonedb.GlobalTerritory, "America/Los_Angeles"},
		{pacific, "CA", "America/Vancouver"},
		{pacific, "FR", ""},
		{ausEastern, "AU", "Australia/Melbourne"},
		{"Mars Standard Time", "", ""},
	} {
		if got, want := mt.DefaultIANAID(tc.pid, tc.territory), tc.want; got != want {
			t.Errorf("%v/%v: got %v, want %v", tc.pid, tc.territory, got, want)
		}
	}

	for _, tc := range []struct {
		iana, want string
	}{
		{"America/Dawson", pacific},
		{"Australia/Sydney", ausEastern},
		{"Etc/UTC", zonedb.UTC},
		{"Europe/Paris", ""},
	} {
		if got, want := mt.PlatformID(tc.iana), tc.want; got != want {
			t.Errorf("%v: got %v, want %v", tc.iana, got, want)
		}
	}
}

func TestParseMapping(t *testing.T) {
	mt, err := zonedb.ParseMapping([]byte(`
mappings:
  - platform_id: Tokyo Standard Time
    territory: JP
    iana: [Asia/Tokyo]
`))
	require.NoError(t, err)
	if got, want := mt.DefaultIANAID(tokyo, "JP"), "Asia/Tokyo"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	for _, data := range []string{
		"mappings:\n  - platform_id: Tokyo Standard Time\n",
		"mappings:\n  - iana: [Asia/Tokyo]\n",
	} {
		if _, err := zonedb.ParseMapping([]byte(data)); err == nil {
			t.Errorf("%q: expected an error", data)
		}
	}
}
