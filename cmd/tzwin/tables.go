// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strings"

	"github.com/cosnicolaou/wintz/internal/logging"
	"github.com/cosnicolaou/wintz/tzrules"
	"github.com/jedib0t/go-pretty/v6/table"
)

type tableManager struct{}

func (tm tableManager) Zones(zones []*tzrules.Zone, ianaIDs func(platformID string) []string) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Platform ID", "Zone IDs", "Display Name", "Rules", "DST"})
	for _, z := range zones {
		ids := z.ID()
		if ianaIDs != nil {
			if all := ianaIDs(z.PlatformID()); len(all) > 0 {
				ids = strings.Join(all, "\n")
			}
		}
		tw.AppendRow(table.Row{z.PlatformID(), ids, z.Comment(), z.Rules().Len(), z.HasDaylightTime()})
	}
	return tw
}

func startYear(year int) string {
	if year == tzrules.MinYear {
		return "-"
	}
	return fmt.Sprintf("%d", year)
}

func (tm tableManager) Rules(z *tzrules.Zone) table.Writer {
	tw := table.NewWriter()
	tw.SetTitle("%v (%v)", z.ID(), z.PlatformID())
	tw.AppendHeader(table.Row{"From", "Standard", "Daylight", "Daylight Starts", "Standard Starts"})
	for _, rule := range z.Rules().Rules() {
		tw.AppendRow(table.Row{
			startYear(rule.StartYear),
			tzrules.FormatOffset(rule.StandardBias * -60),
			tzrules.FormatOffset((rule.StandardBias + rule.DaylightBias) * -60),
			rule.DaylightRule,
			rule.StandardRule,
		})
	}
	return tw
}

func offsetRow(ro tzrules.ResolvedOffset) table.Row {
	if !ro.IsValid() {
		return table.Row{"", "", "", ""}
	}
	return table.Row{formatInstant(ro.Instant), tzrules.FormatOffset(ro.OffsetFromUTC()), ro.Abbreviation, ro.IsDaylight}
}

type resolved struct {
	zone           *tzrules.Zone
	at             tzrules.ResolvedOffset
	previous, next tzrules.ResolvedOffset
}

func (tm tableManager) Resolved(results []resolved) table.Writer {
	tw := table.NewWriter()
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})
	tw.AppendHeader(table.Row{"Zone", "", "Instant", "Offset", "Abbreviation", "DST"})
	for _, r := range results {
		for _, row := range []struct {
			label string
			ro    tzrules.ResolvedOffset
		}{
			{"previous", r.previous},
			{"at", r.at},
			{"next", r.next},
		} {
			tw.AppendRow(append(table.Row{r.zone.ID(), row.label}, offsetRow(row.ro)...))
		}
		tw.AppendSeparator()
	}
	return tw
}

func (tm tableManager) Transitions(z *tzrules.Zone, offsets []tzrules.ResolvedOffset) table.Writer {
	tw := table.NewWriter()
	tw.SetTitle("%v (%v)", z.ID(), z.PlatformID())
	tw.AppendHeader(table.Row{"Instant", "Offset", "Abbreviation", "DST"})
	for _, ro := range offsets {
		tw.AppendRow(offsetRow(ro))
	}
	return tw
}

func shortFingerprint(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

func (tm tableManager) LogSummary(zones []logging.ZoneStatus) table.Writer {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Platform ID", "Zone", "Status", "Rules", "Fingerprint", "When", "Error"})
	for _, zs := range zones {
		errStr := ""
		if zs.Err != nil {
			errStr = zs.Err.Error()
		}
		tw.AppendRow(table.Row{
			zs.PlatformID,
			zs.Zone,
			zs.Status,
			zs.NumRules,
			shortFingerprint(zs.Fingerprint),
			zs.When.Format("2006-01-02 15:04:05"),
			errStr,
		})
	}
	return tw
}
