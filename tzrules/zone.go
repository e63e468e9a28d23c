// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package tzrules

import (
	"fmt"
	"iter"
)

// ResolvedOffset describes the time type in effect at Instant. Offsets
// are in seconds east of UTC.
type ResolvedOffset struct {
	Instant        int64
	StandardOffset int
	DaylightOffset int
	Abbreviation   string
	IsDaylight     bool
}

var invalidOffset = ResolvedOffset{Instant: InvalidMillis}

// OffsetFromUTC returns the total offset from UTC in seconds.
func (ro ResolvedOffset) OffsetFromUTC() int {
	return ro.StandardOffset + ro.DaylightOffset
}

func (ro ResolvedOffset) IsValid() bool {
	return ro.Instant != InvalidMillis
}

func (ro ResolvedOffset) String() string {
	if !ro.IsValid() {
		return "invalid"
	}
	return fmt.Sprintf("%v %v (%v)", MillisToDate(ro.Instant), FormatOffset(ro.OffsetFromUTC()), ro.Abbreviation)
}

// Names are the platform supplied names of a zone.
type Names struct {
	Display  string
	Standard string
	Daylight string
}

// Zone resolves offsets and transitions for a single zone. A Zone is
// immutable and safe for concurrent use.
type Zone struct {
	id         string
	platformID string
	names      Names
	rules      RuleTable
}

// NewZone returns a Zone for the supplied rules. The id is the canonical
// zone id (eg. America/Los_Angeles) and platformID the id used by the
// platform that supplied the rules.
func NewZone(id, platformID string, names Names, rules RuleTable) (*Zone, error) {
	if rules.Len() == 0 {
		return nil, fmt.Errorf("zone %q: %w", id, ErrEmptyRuleTable)
	}
	return &Zone{
		id:         id,
		platformID: platformID,
		names:      names,
		rules:      rules,
	}, nil
}

func (z *Zone) ID() string {
	return z.id
}

func (z *Zone) PlatformID() string {
	return z.platformID
}

// Comment returns the platform's display name for the zone.
func (z *Zone) Comment() string {
	return z.names.Display
}

func (z *Zone) Names() Names {
	return z.names
}

func (z *Zone) Rules() RuleTable {
	return z.rules
}

func (z *Zone) ruleToOffset(rule TransitionRule, at int64, daylight bool) ResolvedOffset {
	ro := ResolvedOffset{
		Instant:        at,
		StandardOffset: rule.StandardBias * -60,
		Abbreviation:   z.names.Standard,
	}
	if daylight {
		ro.DaylightOffset = rule.DaylightBias * -60
		ro.Abbreviation = z.names.Daylight
		ro.IsDaylight = true
	}
	return ro
}

// Resolve returns the time type in effect at the instant ms, specified
// in milliseconds since the Unix epoch. It returns false if no rule
// governs the instant, which can only happen for rule tables whose
// transitions are all later than ms.
func (z *Zone) Resolve(ms int64) (ResolvedOffset, bool) {
	// Assumes that there are no transitions within a day of the
	// year boundary.
	year := MillisToDate(ms).Year
	for year >= MinYear {
		idx := z.rules.RuleIndexForYear(year)
		rule := z.rules.At(idx)
		if rule.NoDaylightSaving() {
			return z.ruleToOffset(rule, ms, false), true
		}
		first, second := YearTransitions(rule, year).ordered()
		if second.reached(ms) {
			return z.ruleToOffset(rule, ms, second.daylight), true
		}
		if first.reached(ms) {
			return z.ruleToOffset(rule, ms, first.daylight), true
		}
		// ms precedes both of this year's transitions so the last
		// transition of an earlier year governs it. All years covered
		// by a year invariant rule yield the same transitions and
		// can be skipped.
		if rule.yearInvariant() {
			if idx == 0 {
				break
			}
			year = rule.StartYear
		}
		year--
	}
	return invalidOffset, false
}

// resolveOrStandard returns the resolved offset for ms or, if it cannot
// be resolved, the standard time of the rule for the year containing ms.
func (z *Zone) resolveOrStandard(ms int64) ResolvedOffset {
	if ro, ok := z.Resolve(ms); ok {
		return ro
	}
	return z.ruleToOffset(z.rules.RuleForYear(MillisToDate(ms).Year), ms, false)
}

// NextTransition returns the first transition strictly after the
// instant after. It returns false if there is no such transition.
func (z *Zone) NextTransition(after int64) (ResolvedOffset, bool) {
	year := MillisToDate(after).Year
	if year > z.rules.last().StartYear && z.rules.RuleForYear(year).final() {
		return invalidOffset, false
	}
	for ; year <= MaxYear; year++ {
		idx := z.rules.RuleIndexForYear(year)
		rule := z.rules.At(idx)
		if rule.NoDaylightSaving() {
			return invalidOffset, false
		}
		first, second := YearTransitions(rule, year).ordered()
		if first.inRange() && after < first.at {
			return z.ruleToOffset(rule, first.at, first.daylight), true
		}
		if second.inRange() && after < second.at {
			return z.ruleToOffset(rule, second.at, second.daylight), true
		}
		if rule.yearInvariant() {
			if idx == z.rules.Len()-1 {
				break
			}
			year = z.rules.At(idx+1).StartYear - 1
		}
	}
	return invalidOffset, false
}

// PreviousTransition returns the last transition strictly before the
// instant before. It returns false if there is no such transition.
func (z *Zone) PreviousTransition(before int64) (ResolvedOffset, bool) {
	year := MillisToDate(before).Year
	if year < z.rules.first().StartYear && z.rules.RuleForYear(year).final() {
		return invalidOffset, false
	}
	for ; year >= MinYear; year-- {
		idx := z.rules.RuleIndexForYear(year)
		rule := z.rules.At(idx)
		if rule.NoDaylightSaving() {
			return invalidOffset, false
		}
		first, second := YearTransitions(rule, year).ordered()
		if second.inRange() && before > second.at {
			return z.ruleToOffset(rule, second.at, second.daylight), true
		}
		if first.inRange() && before > first.at {
			return z.ruleToOffset(rule, first.at, first.daylight), true
		}
		if rule.yearInvariant() {
			if idx == 0 {
				break
			}
			year = rule.StartYear
		}
	}
	return invalidOffset, false
}

// Transitions returns an iterator over the transitions in [from, to).
func (z *Zone) Transitions(from, to int64) iter.Seq[ResolvedOffset] {
	return func(yield func(ResolvedOffset) bool) {
		if from >= to {
			return
		}
		after := from
		if from != InvalidMillis {
			after = from - 1
		}
		for {
			next, ok := z.NextTransition(after)
			if !ok || next.Instant >= to {
				return
			}
			if !yield(next) {
				return
			}
			after = next.Instant
		}
	}
}

// HasDaylightTime reports whether the zone ever observes daylight
// saving time.
func (z *Zone) HasDaylightTime() bool {
	return z.rules.HasDaylightTransitions()
}

// Abbreviation returns the platform name of the time type in effect at ms.
func (z *Zone) Abbreviation(ms int64) string {
	return z.resolveOrStandard(ms).Abbreviation
}

// OffsetFromUTC returns the total offset from UTC, in seconds, at ms.
func (z *Zone) OffsetFromUTC(ms int64) int {
	return z.resolveOrStandard(ms).OffsetFromUTC()
}

func (z *Zone) StandardTimeOffset(ms int64) int {
	return z.resolveOrStandard(ms).StandardOffset
}

func (z *Zone) DaylightTimeOffset(ms int64) int {
	return z.resolveOrStandard(ms).DaylightOffset
}

// IsDaylightTime reports whether a non-zero daylight saving offset is in
// effect at ms.
func (z *Zone) IsDaylightTime(ms int64) bool {
	return z.resolveOrStandard(ms).DaylightOffset != 0
}

type TimeType int

const (
	StandardTime TimeType = iota
	DaylightTime
	GenericTime
)

type NameType int

const (
	DefaultName NameType = iota
	LongName
	ShortName
	OffsetName
)

// DisplayName returns the name of the zone for the requested time and
// name type. OffsetName returns the offset of the rule in effect for
// year, formatted by FormatOffset.
func (z *Zone) DisplayName(tt TimeType, nt NameType, year int) string {
	if nt == OffsetName {
		rule := z.rules.RuleForYear(year)
		if tt == DaylightTime {
			return FormatOffset((rule.StandardBias + rule.DaylightBias) * -60)
		}
		return FormatOffset(rule.StandardBias * -60)
	}
	switch tt {
	case DaylightTime:
		return z.names.Daylight
	case GenericTime:
		return z.names.Display
	}
	return z.names.Standard
}

// FormatOffset formats an offset in seconds as UTC+hh:mm.
func FormatOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, seconds/3600, (seconds%3600)/60)
}
