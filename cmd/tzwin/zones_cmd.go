// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/cosnicolaou/wintz/tzrules"
)

type ZonesFlags struct {
	ConfigFileFlags
}

type ZonesListFlags struct {
	ZonesFlags
	IDs bool `subcmd:"ids,false,list only the available zone ids"`
	TSV bool `subcmd:"tsv,false,print the zones in tab separated values"`
}

type ResolveFlags struct {
	ZonesFlags
	Date string `subcmd:"date,,date, in UTC, to resolve, defaults to today"`
	Time string `subcmd:"time,,time of day, in UTC, to resolve, defaults to now"`
}

type TransitionsFlags struct {
	ZonesFlags
	DateRange string `subcmd:"date-range,,date range in <month>/<day>/<year>:<month>/<day>/<year> format, defaults to the current year"`
}

type Zones struct {
	out io.Writer
	now func() time.Time
}

func (z *Zones) timeNow() time.Time {
	if z.now != nil {
		return z.now()
	}
	return time.Now()
}

func (z *Zones) List(ctx context.Context, flags any, _ []string) error {
	fv := flags.(*ZonesListFlags)
	ctx, repo, cleanup, err := loadRepository(ctx, &fv.ConfigFileFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if fv.IDs {
		ids, err := repo.AvailableZoneIDs()
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(z.out, id)
		}
		return nil
	}
	zones, err := repo.LoadAll(ctx)
	tm := tableManager{}
	tw := tm.Zones(zones, repo.ZoneIDs)
	if fv.TSV {
		fmt.Fprintln(z.out, tw.RenderTSV())
	} else {
		fmt.Fprintln(z.out, tw.Render())
	}
	return err
}

func (z *Zones) Show(ctx context.Context, flags any, args []string) error {
	fv := flags.(*ZonesFlags)
	ctx, repo, cleanup, err := loadRepository(ctx, &fv.ConfigFileFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	zones, err := loadZones(ctx, repo, args)
	if err != nil {
		return err
	}
	tm := tableManager{}
	for _, zone := range zones {
		fmt.Fprintln(z.out, tm.Rules(zone).Render())
	}
	return nil
}

func (z *Zones) Resolve(ctx context.Context, flags any, args []string) error {
	fv := flags.(*ResolveFlags)
	ms, err := instant(z.timeNow(), fv.Date, fv.Time)
	if err != nil {
		return err
	}
	ctx, repo, cleanup, err := loadRepository(ctx, &fv.ConfigFileFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	zones, err := loadZones(ctx, repo, args)
	if err != nil {
		return err
	}
	results := make([]resolved, 0, len(zones))
	for _, zone := range zones {
		r := resolved{zone: zone}
		var ok bool
		if r.at, ok = zone.Resolve(ms); !ok {
			return fmt.Errorf("%v: no rule applies at %v", zone.ID(), formatInstant(ms))
		}
		r.previous, _ = zone.PreviousTransition(ms + 1)
		r.next, _ = zone.NextTransition(ms)
		results = append(results, r)
	}
	fmt.Fprintln(z.out, tableManager{}.Resolved(results).Render())
	return nil
}

func (z *Zones) Transitions(ctx context.Context, flags any, args []string) error {
	fv := flags.(*TransitionsFlags)
	from, to, err := dateRange(z.timeNow(), fv.DateRange)
	if err != nil {
		return err
	}
	ctx, repo, cleanup, err := loadRepository(ctx, &fv.ConfigFileFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	zones, err := loadZones(ctx, repo, args)
	if err != nil {
		return err
	}
	offsets := slices.Collect(zones[0].Transitions(from, to))
	fmt.Fprintln(z.out, tableManager{}.Transitions(zones[0], offsets).Render())
	return nil
}

func (z *Zones) System(ctx context.Context, flags any, _ []string) error {
	fv := flags.(*ZonesFlags)
	ctx, repo, cleanup, err := loadRepository(ctx, &fv.ConfigFileFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	zone, err := repo.SystemZone(ctx)
	if err != nil {
		return err
	}
	now := z.timeNow().UnixMilli()
	year := z.timeNow().UTC().Year()
	fmt.Fprintf(z.out, "Zone:        %v\n", zone.ID())
	fmt.Fprintf(z.out, "Platform ID: %v\n", zone.PlatformID())
	fmt.Fprintf(z.out, "Display:     %v\n", zone.DisplayName(tzrules.GenericTime, tzrules.LongName, year))
	fmt.Fprintf(z.out, "Standard:    %v (%v)\n",
		zone.DisplayName(tzrules.StandardTime, tzrules.LongName, year),
		zone.DisplayName(tzrules.StandardTime, tzrules.OffsetName, year))
	if zone.HasDaylightTime() {
		fmt.Fprintf(z.out, "Daylight:    %v (%v)\n",
			zone.DisplayName(tzrules.DaylightTime, tzrules.LongName, year),
			zone.DisplayName(tzrules.DaylightTime, tzrules.OffsetName, year))
	}
	fmt.Fprintf(z.out, "Now:         %v %v\n", tzrules.FormatOffset(zone.OffsetFromUTC(now)), zone.Abbreviation(now))
	return nil
}
