// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package tzrules resolves UTC offsets and daylight saving transitions from
// a table of platform supplied, year versioned, standard/daylight rules.
// All operations are pure functions over an immutable RuleTable.
package tzrules

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MinYear and MaxYear bound every year stepped search. MaxYear
	// contains MaxMillis. MinMillis falls in MinYear+1, so every instant
	// in MinYear is clamped.
	MinYear = -292275056
	MaxYear = 292278994

	// InvalidMillis is returned in place of an instant that cannot
	// be computed, for example for a DaySpec without a month.
	InvalidMillis int64 = math.MinInt64

	// MinMillis and MaxMillis are the earliest and latest representable
	// instants. Instants beyond them are clamped to them.
	MinMillis int64 = math.MinInt64 + 1
	MaxMillis int64 = math.MaxInt64

	MillisPerDay    = 86400000
	MillisPerMinute = 60000
)

var (
	ErrEmptyRuleTable = errors.New("empty rule table")
	ErrRuleOrder      = errors.New("rule start years are not strictly increasing")
	ErrInvalidDaySpec = errors.New("invalid day specification")
)

// Weekday uses ISO numbering, Monday is 1 and Sunday is 7. AnyWeekday is
// treated as Sunday.
type Weekday int

const (
	AnyWeekday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Occurrence selects which matching weekday of a month a relative
// DaySpec refers to.
type Occurrence int

const (
	AbsoluteDate   Occurrence = 0
	LastOccurrence Occurrence = 5
)

// DaySpec specifies the local date and time of a transition. A DaySpec
// with a zero Month specifies no date at all. A non-zero Year denotes a
// one-time transition on Year-Month-Day, otherwise the date recurs annually
// and is either the Occurrence'th DayOfWeek of Month or, for AbsoluteDate,
// the fixed Day of Month.
type DaySpec struct {
	Month       int        `yaml:"month"`
	DayOfWeek   Weekday    `yaml:"day_of_week"`
	Occurrence  Occurrence `yaml:"occurrence"`
	Day         int        `yaml:"day"`
	Year        int        `yaml:"year"`
	Hour        int        `yaml:"hour"`
	Minute      int        `yaml:"minute"`
	Second      int        `yaml:"second"`
	Millisecond int        `yaml:"millisecond"`
}

// HasDate reports whether the spec names a month.
func (ds DaySpec) HasDate() bool {
	return ds.Month != 0
}

// Recurring reports whether the spec is relative to the year it is
// evaluated for.
func (ds DaySpec) Recurring() bool {
	return ds.Year == 0
}

// TimeOfDay returns the time component of the spec.
func (ds DaySpec) TimeOfDay() TimeOfDay {
	return TimeOfDay{Hour: ds.Hour, Minute: ds.Minute, Second: ds.Second, Millisecond: ds.Millisecond}
}

func (ds DaySpec) String() string {
	if !ds.HasDate() {
		return "none"
	}
	tod := ds.TimeOfDay()
	if !ds.Recurring() {
		return fmt.Sprintf("%04d-%02d-%02d %v", ds.Year, ds.Month, ds.Day, tod)
	}
	if ds.Occurrence == AbsoluteDate {
		return fmt.Sprintf("%02d-%02d %v", ds.Month, ds.Day, tod)
	}
	dow := ds.DayOfWeek
	if dow == AnyWeekday {
		dow = Sunday
	}
	which := "last"
	if ds.Occurrence != LastOccurrence {
		which = fmt.Sprintf("#%d", ds.Occurrence)
	}
	return fmt.Sprintf("%v %v of month %d %v", which, dow, ds.Month, tod)
}

// validate checks that every field of ds is in range so that a recurring
// spec resolves in every year, bar Feb 29.
func (ds DaySpec) validate() error {
	if !ds.HasDate() {
		return nil
	}
	if ds.Month < 1 || ds.Month > 12 {
		return fmt.Errorf("month %v: %w", ds.Month, ErrInvalidDaySpec)
	}
	if tod := ds.TimeOfDay(); !tod.IsValid() {
		return fmt.Errorf("time %v:%v:%v.%v: %w", tod.Hour, tod.Minute, tod.Second, tod.Millisecond, ErrInvalidDaySpec)
	}
	if !ds.Recurring() {
		if d := (Date{Year: ds.Year, Month: ds.Month, Day: ds.Day}); !d.IsValid() {
			return fmt.Errorf("date %v-%v-%v: %w", ds.Year, ds.Month, ds.Day, ErrInvalidDaySpec)
		}
		return nil
	}
	if ds.Occurrence == AbsoluteDate {
		// Year 0 is a leap year.
		if ds.Day < 1 || ds.Day > DaysInMonth(0, ds.Month) {
			return fmt.Errorf("day %v of month %v: %w", ds.Day, ds.Month, ErrInvalidDaySpec)
		}
		return nil
	}
	if ds.Occurrence < 1 || ds.Occurrence > LastOccurrence {
		return fmt.Errorf("occurrence %v: %w", int(ds.Occurrence), ErrInvalidDaySpec)
	}
	if ds.DayOfWeek < AnyWeekday || ds.DayOfWeek > Sunday {
		return fmt.Errorf("day of week %v: %w", int(ds.DayOfWeek), ErrInvalidDaySpec)
	}
	return nil
}

var weekdayNames = [...]string{"Any", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (wd Weekday) String() string {
	if wd < 0 || int(wd) >= len(weekdayNames) {
		return fmt.Sprintf("Weekday(%d)", int(wd))
	}
	return weekdayNames[wd]
}

// TransitionRule is the rule in effect from StartYear until the StartYear
// of the following rule in a RuleTable. Biases are in minutes and follow
// the platform convention: positive values are west of UTC, so the offset
// from UTC is the negated bias. DaylightBias is added to StandardBias
// while daylight saving time is in effect.
type TransitionRule struct {
	StartYear    int     `yaml:"start_year"`
	StandardBias int     `yaml:"standard_bias"`
	DaylightBias int     `yaml:"daylight_bias"`
	StandardRule DaySpec `yaml:"standard"`
	DaylightRule DaySpec `yaml:"daylight"`
}

// HasTransitions reports whether the rule switches between standard and
// daylight time at all.
func (r TransitionRule) HasTransitions() bool {
	return r.StandardRule.HasDate() && r.DaylightRule.HasDate()
}

// NoDaylightSaving reports whether neither transition is specified.
func (r TransitionRule) NoDaylightSaving() bool {
	return !r.StandardRule.HasDate() && !r.DaylightRule.HasDate()
}

// final reports whether the rule cannot produce any transitions beyond
// those it has already produced: either one side is missing or one side
// is a one-time date.
func (r TransitionRule) final() bool {
	return !r.StandardRule.Recurring() || !r.DaylightRule.Recurring() ||
		!r.StandardRule.HasDate() || !r.DaylightRule.HasDate()
}

// yearInvariant reports whether the transition pair computed for this
// rule is the same for every year.
func (r TransitionRule) yearInvariant() bool {
	fixed := func(ds DaySpec) bool { return !ds.HasDate() || !ds.Recurring() }
	return fixed(r.StandardRule) && fixed(r.DaylightRule)
}

// RuleTable is an immutable sequence of TransitionRules sorted by
// strictly increasing StartYear. The first rule applies to all years
// before its StartYear.
type RuleTable struct {
	rules []TransitionRule
}

// NewRuleTable validates and copies rules into a RuleTable. The rules'
// DaySpecs must be in range and their start years strictly increasing.
func NewRuleTable(rules ...TransitionRule) (RuleTable, error) {
	if len(rules) == 0 {
		return RuleTable{}, ErrEmptyRuleTable
	}
	for i, r := range rules {
		if err := r.StandardRule.validate(); err != nil {
			return RuleTable{}, fmt.Errorf("rule %d: standard: %w", i, err)
		}
		if err := r.DaylightRule.validate(); err != nil {
			return RuleTable{}, fmt.Errorf("rule %d: daylight: %w", i, err)
		}
	}
	for i := 1; i < len(rules); i++ {
		if rules[i].StartYear <= rules[i-1].StartYear {
			return RuleTable{}, fmt.Errorf("rule %d: start year %d follows %d: %w", i, rules[i].StartYear, rules[i-1].StartYear, ErrRuleOrder)
		}
	}
	return RuleTable{rules: append([]TransitionRule(nil), rules...)}, nil
}

// MustNewRuleTable is like NewRuleTable but panics on error.
func MustNewRuleTable(rules ...TransitionRule) RuleTable {
	rt, err := NewRuleTable(rules...)
	if err != nil {
		panic(err)
	}
	return rt
}

// Len returns the number of rules in the table.
func (rt RuleTable) Len() int {
	return len(rt.rules)
}

// At returns the i'th rule.
func (rt RuleTable) At(i int) TransitionRule {
	return rt.rules[i]
}

// Rules returns a copy of the rules in the table.
func (rt RuleTable) Rules() []TransitionRule {
	return append([]TransitionRule(nil), rt.rules...)
}

func (rt RuleTable) first() TransitionRule {
	return rt.rules[0]
}

func (rt RuleTable) last() TransitionRule {
	return rt.rules[len(rt.rules)-1]
}

// RuleIndexForYear returns the index of the last rule whose StartYear
// is at or before year. Years before the first rule use the first rule.
func (rt RuleTable) RuleIndexForYear(year int) int {
	n := len(rt.rules)
	if rt.rules[n-1].StartYear <= year {
		return n - 1
	}
	if rt.rules[0].StartYear > year {
		return 0
	}
	// invariant: rules[lo].StartYear <= year < rules[hi].StartYear
	lo, hi := 0, n-1
	for lo+1 < hi {
		mid := lo + (hi-lo)/2
		switch y := rt.rules[mid].StartYear; {
		case y > year:
			hi = mid
		case y < year:
			lo = mid
		default:
			return mid
		}
	}
	return lo
}

// RuleForYear returns the rule in effect for year.
func (rt RuleTable) RuleForYear(year int) TransitionRule {
	return rt.rules[rt.RuleIndexForYear(year)]
}

// HasDaylightTransitions reports whether any rule in the table switches
// between standard and daylight time.
func (rt RuleTable) HasDaylightTransitions() bool {
	for _, r := range rt.rules {
		if r.HasTransitions() {
			return true
		}
	}
	return false
}
