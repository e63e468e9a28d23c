// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zonedb

import (
	"context"
	"fmt"
	"slices"

	"cloudeng.io/cmdutil/cmdyaml"
	"gopkg.in/yaml.v3"
)

// GlobalTerritory is the territory used for the default mapping of a
// platform id.
const GlobalTerritory = "001"

// IDMapper maps between platform and IANA zone ids.
type IDMapper interface {
	// IANAIDs returns all of the IANA ids that map to platformID.
	IANAIDs(platformID string) []string
	// DefaultIANAID returns the preferred IANA id for platformID in
	// territory, or "" if there is none. An empty territory requests the
	// global default.
	DefaultIANAID(platformID, territory string) string
	// PlatformID returns the platform id for ianaID, or "" if there is
	// none.
	PlatformID(ianaID string) string
}

// Mapping lists the IANA ids used in a territory for a platform id. The
// first IANA id is the default for the territory.
type Mapping struct {
	PlatformID string   `yaml:"platform_id"`
	Territory  string   `yaml:"territory"`
	IANA       []string `yaml:"iana,flow"`
}

// MappingTable is an IDMapper backed by a list of Mappings.
type MappingTable struct {
	Mappings []Mapping `yaml:"mappings"`
}

// ParseMappingFile parses the YAML mapping table in filename.
func ParseMappingFile(ctx context.Context, filename string) (*MappingTable, error) {
	var mt MappingTable
	if err := cmdyaml.ParseConfigFile(ctx, filename, &mt); err != nil {
		return nil, err
	}
	return &mt, mt.validate()
}

// ParseMapping parses a YAML mapping table.
func ParseMapping(data []byte) (*MappingTable, error) {
	var mt MappingTable
	if err := yaml.Unmarshal(data, &mt); err != nil {
		return nil, err
	}
	return &mt, mt.validate()
}

func (mt *MappingTable) validate() error {
	for i, m := range mt.Mappings {
		if len(m.PlatformID) == 0 || len(m.IANA) == 0 {
			return fmt.Errorf("mapping %v: platform_id and iana are required", i)
		}
	}
	return nil
}

// IANAIDs implements IDMapper.
func (mt *MappingTable) IANAIDs(platformID string) []string {
	var ids []string
	for _, m := range mt.Mappings {
		if m.PlatformID != platformID {
			continue
		}
		for _, id := range m.IANA {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// DefaultIANAID implements IDMapper.
func (mt *MappingTable) DefaultIANAID(platformID, territory string) string {
	if len(territory) == 0 {
		territory = GlobalTerritory
	}
	for _, m := range mt.Mappings {
		if m.PlatformID == platformID && m.Territory == territory {
			return m.IANA[0]
		}
	}
	return ""
}

// PlatformID implements IDMapper.
func (mt *MappingTable) PlatformID(ianaID string) string {
	for _, m := range mt.Mappings {
		if slices.Contains(m.IANA, ianaID) {
			return m.PlatformID
		}
	}
	return ""
}
