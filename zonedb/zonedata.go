// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zonedb

import (
	"fmt"
	"slices"

	"github.com/cosnicolaou/wintz/tzrules"
)

// YearTZI is the TZI in effect for a specific year.
type YearTZI struct {
	Year int `yaml:"year" toml:"year" cbor:"1,keyasint"`
	TZI  TZI `yaml:"tzi" toml:"tzi" cbor:"2,keyasint"`
}

// DynamicDST holds the historic, per-year, data for a zone.
type DynamicDST struct {
	FirstEntry int       `yaml:"first_entry" toml:"first_entry" cbor:"1,keyasint"`
	LastEntry  int       `yaml:"last_entry" toml:"last_entry" cbor:"2,keyasint"`
	Years      []YearTZI `yaml:"years" toml:"years" cbor:"3,keyasint"`
}

// Lookup returns the TZI stored for exactly year.
func (d *DynamicDST) Lookup(year int) (TZI, bool) {
	for _, y := range d.Years {
		if y.Year == year {
			return y.TZI, true
		}
	}
	return TZI{}, false
}

// ZoneData is the raw data for a single zone as supplied by the
// platform.
type ZoneData struct {
	KeyName         string      `yaml:"key_name" toml:"key_name" cbor:"1,keyasint"`
	Display         string      `yaml:"display" toml:"display" cbor:"2,keyasint,omitempty"`
	Std             string      `yaml:"std" toml:"std" cbor:"3,keyasint,omitempty"`
	Dlt             string      `yaml:"dlt" toml:"dlt" cbor:"4,keyasint,omitempty"`
	TZI             TZI         `yaml:"tzi" toml:"tzi" cbor:"5,keyasint"`
	DynamicDisabled bool        `yaml:"dynamic_disabled,omitempty" toml:"dynamic_disabled" cbor:"6,keyasint,omitempty"`
	Dynamic         *DynamicDST `yaml:"dynamic,omitempty" toml:"dynamic,omitempty" cbor:"7,keyasint,omitempty"`
}

// Names returns the names used by the zone.
func (zd ZoneData) Names() tzrules.Names {
	return tzrules.Names{
		Display:  zd.Display,
		Standard: zd.Std,
		Daylight: zd.Dlt,
	}
}

// Normalize sorts the dynamic years so that equivalent ZoneData values
// encode identically.
func (zd *ZoneData) Normalize() {
	if zd.Dynamic == nil {
		return
	}
	slices.SortFunc(zd.Dynamic.Years, func(a, b YearTZI) int {
		return a.Year - b.Year
	})
}

// Rules returns the transition rules for the zone. If dynamic data is
// present a rule is created for every year in [FirstEntry, LastEntry]
// that has a TZI, otherwise the base TZI is used for all years.
func (zd ZoneData) Rules() (tzrules.RuleTable, error) {
	var rules []tzrules.TransitionRule
	if zd.Dynamic != nil {
		rules = rulesForYears(zd.Dynamic.FirstEntry, zd.Dynamic.LastEntry, zd.Dynamic.Lookup)
	} else {
		rules = []tzrules.TransitionRule{zd.TZI.Rule(tzrules.MinYear)}
	}
	return newRuleTable(zd.KeyName, rules)
}

// rulesForYears returns a rule for each year in [first, last] for which
// info returns a TZI. The first rule found applies to all earlier years.
func rulesForYears(first, last int, info func(year int) (TZI, bool)) []tzrules.TransitionRule {
	var rules []tzrules.TransitionRule
	for year := first; year <= last; year++ {
		tzi, ok := info(year)
		if !ok {
			continue
		}
		start := year
		if len(rules) == 0 {
			start = tzrules.MinYear
		}
		rules = append(rules, tzi.Rule(start))
	}
	return rules
}

func newRuleTable(keyName string, rules []tzrules.TransitionRule) (tzrules.RuleTable, error) {
	if len(rules) == 0 {
		return tzrules.RuleTable{}, fmt.Errorf("%v: %w", keyName, ErrNoRules)
	}
	rt, err := tzrules.NewRuleTable(rules...)
	if err != nil {
		return tzrules.RuleTable{}, fmt.Errorf("%v: %w", keyName, err)
	}
	return rt, nil
}
