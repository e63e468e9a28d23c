// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func testConfigFlags(t *testing.T) ConfigFileFlags {
	return ConfigFileFlags{
		ConfigFile: filepath.Join("testdata", "config.yaml"),
		LogFile:    filepath.Join(t.TempDir(), "tzwin.log"),
	}
}

func containsAll(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output does not contain %q:\n%v", w, out)
		}
	}
}

func TestZonesList(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	zones := &Zones{out: &out}
	fl := &ZonesListFlags{ZonesFlags: ZonesFlags{ConfigFileFlags: testConfigFlags(t)}}
	if err := zones.List(ctx, fl, nil); err != nil {
		t.Fatal(err)
	}
	containsAll(t, out.String(),
		"Pacific Standard Time",
		"America/Vancouver",
		"(UTC+10:00) Canberra, Melbourne, Sydney",
		"Tokyo Standard Time")

	out.Reset()
	fl.IDs = true
	if err := zones.List(ctx, fl, nil); err != nil {
		t.Fatal(err)
	}
	if got, want := strings.Fields(out.String()), []string{
		"America/Dawson",
		"America/Los_Angeles",
		"America/Vancouver",
		"Asia/Tokyo",
		"Australia/Melbourne",
		"Australia/Sydney",
	}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestZonesShow(t *testing.T) {
	var out bytes.Buffer
	zones := &Zones{out: &out}
	fl := &ZonesFlags{ConfigFileFlags: testConfigFlags(t)}
	if err := zones.Show(context.Background(), fl, []string{"America/Los_Angeles"}); err != nil {
		t.Fatal(err)
	}
	containsAll(t, out.String(),
		"America/Los_Angeles (Pacific Standard Time)",
		"2007",
		"UTC-08:00",
		"UTC-07:00",
		"#2 Sun of month 3 02:00:00",
		"last Sun of month 10 02:00:00")

	if err := zones.Show(context.Background(), fl, []string{"Europe/Paris"}); err == nil {
		t.Errorf("expected an error for an unknown zone")
	}
}

func TestZonesResolve(t *testing.T) {
	var out bytes.Buffer
	zones := &Zones{out: &out}
	fl := &ResolveFlags{
		ZonesFlags: ZonesFlags{ConfigFileFlags: testConfigFlags(t)},
		Date:       "07/04/2023",
		Time:       "12:00",
	}
	if err := zones.Resolve(context.Background(), fl, []string{"America/Los_Angeles", "Asia/Tokyo"}); err != nil {
		t.Fatal(err)
	}
	containsAll(t, out.String(),
		"UTC-07:00",
		"Pacific Daylight Time",
		"2023-03-12 10:00:00Z",
		"2023-11-05 09:00:00Z",
		"UTC+09:00",
		"Tokyo Standard Time")
}

func TestZonesTransitions(t *testing.T) {
	var out bytes.Buffer
	zones := &Zones{out: &out}
	fl := &TransitionsFlags{
		ZonesFlags: ZonesFlags{ConfigFileFlags: testConfigFlags(t)},
		DateRange:  "01/01/2006:12/31/2007",
	}
	if err := zones.Transitions(context.Background(), fl, []string{"Pacific Standard Time"}); err != nil {
		t.Fatal(err)
	}
	containsAll(t, out.String(),
		"2006-04-02 10:00:00Z",
		"2006-10-29 09:00:00Z",
		"2007-03-11 10:00:00Z",
		"2007-11-04 09:00:00Z")
	if got, want := strings.Count(out.String(), ":00:00Z"), 4; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	// The current year is used by default.
	out.Reset()
	zones.now = func() time.Time { return time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC) }
	fl.DateRange = ""
	if err := zones.Transitions(context.Background(), fl, []string{"Australia/Sydney"}); err != nil {
		t.Fatal(err)
	}
	containsAll(t, out.String(),
		"2023-04-01 16:00:00Z",
		"2023-09-30 16:00:00Z")
}

func TestZonesSystem(t *testing.T) {
	var out bytes.Buffer
	zones := &Zones{
		out: &out,
		now: func() time.Time { return time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC) },
	}
	fl := &ZonesFlags{ConfigFileFlags: testConfigFlags(t)}
	if err := zones.System(context.Background(), fl, nil); err != nil {
		t.Fatal(err)
	}
	containsAll(t, out.String(),
		"Zone:        America/Los_Angeles",
		"Platform ID: Pacific Standard Time",
		"Standard:    Pacific Standard Time (UTC-08:00)",
		"Daylight:    Pacific Daylight Time (UTC-07:00)",
		"Now:         UTC-08:00 Pacific Standard Time")

	out.Reset()
	fl.Territory = "CA"
	if err := zones.System(context.Background(), fl, nil); err != nil {
		t.Fatal(err)
	}
	containsAll(t, out.String(), "Zone:        America/Vancouver")
}

func TestInstant(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 30, 45, 0, time.UTC)
	ms, err := instant(now, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := ms, now.UnixMilli(); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	ms, err = instant(now, "", "08:15")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := ms, time.Date(2024, 3, 10, 8, 15, 0, 0, time.UTC).UnixMilli(); got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	from, to, err := dateRange(now, "")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := from, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := to, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
