// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package testutil

import (
	"time"

	"github.com/cosnicolaou/wintz/tzrules"
)

// Millis returns the milliseconds since the Unix epoch for the supplied
// UTC date and time.
func Millis(year int, month time.Month, day, hour, minute int) int64 {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC).UnixMilli()
}

func recurring(month int, dow tzrules.Weekday, occ tzrules.Occurrence, hour int) tzrules.DaySpec {
	return tzrules.DaySpec{Month: month, DayOfWeek: dow, Occurrence: occ, Hour: hour}
}

func mustZone(id, platformID string, names tzrules.Names, rules ...tzrules.TransitionRule) *tzrules.Zone {
	z, err := tzrules.NewZone(id, platformID, names, tzrules.MustNewRuleTable(rules...))
	if err != nil {
		panic(err)
	}
	return z
}

var (
	EasternNames = tzrules.Names{
		Display:  "(UTC-05:00) Eastern Time (US & Canada)",
		Standard: "Eastern Standard Time",
		Daylight: "Eastern Daylight Time",
	}
	PacificNames = tzrules.Names{
		Display:  "(UTC-08:00) Pacific Time (US & Canada)",
		Standard: "Pacific Standard Time",
		Daylight: "Pacific Daylight Time",
	}
	AUSEasternNames = tzrules.Names{
		Display:  "(UTC+10:00) Canberra, Melbourne, Sydney",
		Standard: "AUS Eastern Standard Time",
		Daylight: "AUS Eastern Daylight Time",
	}
	TokyoNames = tzrules.Names{
		Display:  "(UTC+09:00) Osaka, Sapporo, Tokyo",
		Standard: "Tokyo Standard Time",
		Daylight: "Tokyo Daylight Time",
	}
)

// USRule returns the post 2007 US rule: daylight time from 02:00 on the
// second Sunday of March until 02:00 on the first Sunday of November.
func USRule(startYear, bias int) tzrules.TransitionRule {
	return tzrules.TransitionRule{
		StartYear:    startYear,
		StandardBias: bias,
		DaylightBias: -60,
		DaylightRule: recurring(3, tzrules.Sunday, 2, 2),
		StandardRule: recurring(11, tzrules.Sunday, 1, 2),
	}
}

// USPre2007Rule returns the 1987-2006 US rule: daylight time from 02:00
// on the first Sunday of April until 02:00 on the last Sunday of October.
func USPre2007Rule(startYear, bias int) tzrules.TransitionRule {
	return tzrules.TransitionRule{
		StartYear:    startYear,
		StandardBias: bias,
		DaylightBias: -60,
		DaylightRule: recurring(4, tzrules.Sunday, 1, 2),
		StandardRule: recurring(10, tzrules.Sunday, tzrules.LastOccurrence, 2),
	}
}

// Eastern returns a single rule zone for US Eastern time.
func Eastern() *tzrules.Zone {
	return mustZone("America/New_York", "Eastern Standard Time", EasternNames,
		USRule(tzrules.MinYear, 300))
}

// Pacific returns a two rule zone for US Pacific time that switches
// rules in 2007.
func Pacific() *tzrules.Zone {
	return mustZone("America/Los_Angeles", "Pacific Standard Time", PacificNames,
		USPre2007Rule(tzrules.MinYear, 480),
		USRule(2007, 480))
}

// AUSEastern returns a southern hemisphere zone where daylight time spans
// the year boundary.
func AUSEastern() *tzrules.Zone {
	return mustZone("Australia/Sydney", "AUS Eastern Standard Time", AUSEasternNames,
		tzrules.TransitionRule{
			StartYear:    tzrules.MinYear,
			StandardBias: -600,
			DaylightBias: -60,
			DaylightRule: recurring(10, tzrules.Sunday, 1, 2),
			StandardRule: recurring(4, tzrules.Sunday, 1, 3),
		})
}

// Tokyo returns a zone that never observes daylight saving time.
func Tokyo() *tzrules.Zone {
	return mustZone("Asia/Tokyo", "Tokyo Standard Time", TokyoNames,
		tzrules.TransitionRule{
			StartYear:    tzrules.MinYear,
			StandardBias: -540,
		})
}

// OneTime returns a zone with a single rule, starting in 2010, whose
// daylight time starts on 2010-06-01 and never ends.
func OneTime() *tzrules.Zone {
	return mustZone("Etc/OneTime", "One Time Standard Time", tzrules.Names{
		Display:  "(UTC) One Time",
		Standard: "One Time Standard Time",
		Daylight: "One Time Daylight Time",
	}, tzrules.TransitionRule{
		StartYear:    2010,
		DaylightBias: -60,
		DaylightRule: tzrules.DaySpec{Year: 2010, Month: 6, Day: 1},
	})
}
