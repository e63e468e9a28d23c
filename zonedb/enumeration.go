// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zonedb

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"cloudeng.io/cmdutil/cmdyaml"
	"github.com/BurntSushi/toml"
	"github.com/cosnicolaou/wintz/tzrules"
	"gopkg.in/yaml.v3"
)

// Document is the serialized form of a dynamic enumeration of zones. The
// zones are listed in enumeration order.
type Document struct {
	SystemZone string     `yaml:"system_zone" toml:"system_zone"`
	Zones      []ZoneData `yaml:"zones" toml:"zones"`
}

// ParseDocument parses a YAML or TOML document. The format is one of
// "yaml" or "toml".
func ParseDocument(data []byte, format string) (Document, error) {
	var doc Document
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return Document{}, err
		}
	case "toml":
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return Document{}, err
		}
	default:
		return Document{}, fmt.Errorf("unsupported document format: %q", format)
	}
	return doc, nil
}

// ParseDocumentFile parses the document in filename, using the file's
// extension to determine its format. Files without a .toml extension are
// assumed to be YAML.
func ParseDocumentFile(ctx context.Context, filename string) (Document, error) {
	if strings.EqualFold(filepath.Ext(filename), ".toml") {
		var doc Document
		if _, err := toml.DecodeFile(filename, &doc); err != nil {
			return Document{}, fmt.Errorf("failed to parse %v: %w", filename, err)
		}
		return doc, nil
	}
	var doc Document
	if err := cmdyaml.ParseConfigFile(ctx, filename, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// EnumerationSource is a Source that enumerates zones, by index, from a
// Document. Enumeration stops at the end of the document or as soon as a
// zone's key name repeats that of its predecessor.
type EnumerationSource struct {
	doc Document
}

// NewEnumerationSource returns a Source for doc.
func NewEnumerationSource(doc Document) *EnumerationSource {
	return &EnumerationSource{doc: doc}
}

func (es *EnumerationSource) Name() string {
	return "dynamic"
}

// enumerate returns the zones that would be returned when enumerating
// by index.
func (es *EnumerationSource) enumerate() []ZoneData {
	prev := ""
	for i, zd := range es.doc.Zones {
		if i > 0 && zd.KeyName == prev {
			return es.doc.Zones[:i]
		}
		prev = zd.KeyName
	}
	return es.doc.Zones
}

// PlatformIDs implements Source.
func (es *EnumerationSource) PlatformIDs(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var ids []string
	for _, zd := range es.enumerate() {
		if seen[zd.KeyName] {
			continue
		}
		seen[zd.KeyName] = true
		ids = append(ids, zd.KeyName)
	}
	return ids, nil
}

func (es *EnumerationSource) lookup(platformID string) (ZoneData, bool) {
	for _, zd := range es.enumerate() {
		if zd.KeyName == platformID {
			return zd, true
		}
	}
	return ZoneData{}, false
}

// InfoForYear returns the TZI in effect for year: the entry for year
// itself, otherwise the latest earlier entry, otherwise the zone's base
// TZI. The base TZI is always used when dynamic data is disabled.
func InfoForYear(zd ZoneData, year int) TZI {
	if zd.DynamicDisabled || zd.Dynamic == nil {
		return zd.TZI
	}
	found, best := false, 0
	var tzi TZI
	for _, y := range zd.Dynamic.Years {
		if y.Year == year {
			return y.TZI
		}
		if y.Year < year && (!found || y.Year > best) {
			found, best, tzi = true, y.Year, y.TZI
		}
	}
	if found {
		return tzi
	}
	return zd.TZI
}

// EnumeratedRules returns the transition rules for a zone obtained by
// enumeration. A rule is created for every effective year of the zone's
// dynamic data, or, if it has fewer than two effective years, a single
// rule using the data for 1970.
func EnumeratedRules(zd ZoneData) (tzrules.RuleTable, error) {
	info := func(year int) (TZI, bool) {
		return InfoForYear(zd, year), true
	}
	if d := zd.Dynamic; d != nil && d.FirstEntry < d.LastEntry {
		if d.LastEntry-d.FirstEntry > maxDynamicYears {
			return tzrules.RuleTable{}, fmt.Errorf("%v: %v..%v: %w", zd.KeyName, d.FirstEntry, d.LastEntry, ErrInvalidValue)
		}
		return newRuleTable(zd.KeyName, rulesForYears(d.FirstEntry, d.LastEntry, info))
	}
	zd.DynamicDisabled = false
	rule := InfoForYear(zd, 1970).Rule(tzrules.MinYear)
	return newRuleTable(zd.KeyName, []tzrules.TransitionRule{rule})
}

// Load implements Source. Zones that do not specify a display name use
// their key name.
func (es *EnumerationSource) Load(_ context.Context, platformID string) (ZoneData, tzrules.RuleTable, error) {
	zd, ok := es.lookup(platformID)
	if !ok {
		return ZoneData{}, tzrules.RuleTable{}, fmt.Errorf("%v: %w", platformID, ErrUnknownZone)
	}
	if len(zd.Display) == 0 {
		zd.Display = zd.KeyName
	}
	rt, err := EnumeratedRules(zd)
	if err != nil {
		return ZoneData{}, tzrules.RuleTable{}, err
	}
	return zd, rt, nil
}

// SystemPlatformID implements Source.
func (es *EnumerationSource) SystemPlatformID(_ context.Context) (string, error) {
	if len(es.doc.SystemZone) == 0 {
		return UTC, nil
	}
	return es.doc.SystemZone, nil
}
