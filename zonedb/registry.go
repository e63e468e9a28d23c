// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zonedb

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/cosnicolaou/wintz/tzrules"
)

const (
	// ZonesKeyPath is the key under which each zone has a sub key named
	// for its platform id.
	ZonesKeyPath = `SOFTWARE\Microsoft\Windows NT\CurrentVersion\Time Zones`
	// CurrentZoneKeyPath is the key holding the system's current setting.
	CurrentZoneKeyPath = `SYSTEM\CurrentControlSet\Control\TimeZoneInformation`

	dynamicDSTKey = "Dynamic DST"

	// maxDynamicYears bounds the number of years of historic data that
	// will be read for a zone.
	maxDynamicYears = 10000
)

func zoneKey(platformID string) string {
	return ZonesKeyPath + `\` + platformID
}

// RegistrySource is a Source backed by a registry Hive.
type RegistrySource struct {
	hive *Hive
}

// NewRegistrySource returns a Source that reads zone data from h.
func NewRegistrySource(h *Hive) *RegistrySource {
	return &RegistrySource{hive: h}
}

func (rs *RegistrySource) Name() string {
	return "registry"
}

// PlatformIDs implements Source.
func (rs *RegistrySource) PlatformIDs(ctx context.Context) ([]string, error) {
	ids, err := rs.hive.SubKeys(ctx, ZonesKeyPath)
	if errors.Is(err, ErrKeyNotFound) {
		return nil, nil
	}
	return ids, err
}

// optional returns the zero value for values that are not present.
func optional[T any](v T, err error) (T, error) {
	if errors.Is(err, ErrValueNotFound) {
		var zero T
		return zero, nil
	}
	return v, err
}

// ReadZone reads the data for the zone with the specified platform id.
func (rs *RegistrySource) ReadZone(ctx context.Context, platformID string) (ZoneData, error) {
	key := zoneKey(platformID)
	if ok, err := rs.hive.HasKey(ctx, key); err != nil || !ok {
		if err == nil {
			err = fmt.Errorf("%v: %w", platformID, ErrUnknownZone)
		}
		return ZoneData{}, err
	}
	zd := ZoneData{KeyName: platformID}
	var err error
	if zd.Display, err = optional(rs.hive.String(ctx, key, "Display")); err != nil {
		return ZoneData{}, err
	}
	if zd.Std, err = optional(rs.hive.String(ctx, key, "Std")); err != nil {
		return ZoneData{}, err
	}
	if zd.Dlt, err = optional(rs.hive.String(ctx, key, "Dlt")); err != nil {
		return ZoneData{}, err
	}
	hasTZI, err := rs.readTZI(ctx, key, "TZI", &zd.TZI)
	if err != nil {
		return ZoneData{}, err
	}
	if zd.Dynamic, err = rs.readDynamic(ctx, key+`\`+dynamicDSTKey); err != nil {
		return ZoneData{}, err
	}
	if !hasTZI && zd.Dynamic == nil {
		return ZoneData{}, fmt.Errorf("%v: %w", platformID, ErrNoRules)
	}
	return zd, nil
}

func (rs *RegistrySource) readTZI(ctx context.Context, key, name string, tzi *TZI) (bool, error) {
	data, err := rs.hive.Binary(ctx, key, name)
	if errors.Is(err, ErrValueNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := tzi.UnmarshalBinary(data); err != nil {
		return false, fmt.Errorf("%v\\%v: %w", key, name, err)
	}
	return true, nil
}

func (rs *RegistrySource) readDynamic(ctx context.Context, key string) (*DynamicDST, error) {
	if ok, err := rs.hive.HasKey(ctx, key); err != nil || !ok {
		return nil, err
	}
	first, err := optional(rs.hive.DWORD(ctx, key, "FirstEntry"))
	if err != nil {
		return nil, err
	}
	last, err := optional(rs.hive.DWORD(ctx, key, "LastEntry"))
	if err != nil {
		return nil, err
	}
	if last > first && last-first > maxDynamicYears {
		return nil, fmt.Errorf("%v: %v..%v: %w", key, first, last, ErrInvalidValue)
	}
	dyn := &DynamicDST{FirstEntry: int(first), LastEntry: int(last)}
	for year := dyn.FirstEntry; year <= dyn.LastEntry; year++ {
		var tzi TZI
		ok, err := rs.readTZI(ctx, key, strconv.Itoa(year), &tzi)
		if err != nil {
			return nil, err
		}
		if ok {
			dyn.Years = append(dyn.Years, YearTZI{Year: year, TZI: tzi})
		}
	}
	return dyn, nil
}

// Load implements Source.
func (rs *RegistrySource) Load(ctx context.Context, platformID string) (ZoneData, tzrules.RuleTable, error) {
	zd, err := rs.ReadZone(ctx, platformID)
	if err != nil {
		return ZoneData{}, tzrules.RuleTable{}, err
	}
	rt, err := zd.Rules()
	if err != nil {
		return ZoneData{}, tzrules.RuleTable{}, err
	}
	return zd, rt, nil
}

// SystemPlatformID implements Source. The TimeZoneKeyName value is used
// if present, otherwise the active setting is compared against every
// zone.
func (rs *RegistrySource) SystemPlatformID(ctx context.Context) (string, error) {
	id, err := optional(rs.hive.String(ctx, CurrentZoneKeyPath, "TimeZoneKeyName"))
	if err != nil {
		return "", err
	}
	if len(id) > 0 {
		return id, nil
	}
	active, ok, err := rs.activeInformation(ctx)
	if err != nil {
		return "", err
	}
	if ok {
		ids, err := rs.PlatformIDs(ctx)
		if err != nil {
			return "", err
		}
		for _, id := range ids {
			zd, err := rs.ReadZone(ctx, id)
			if err != nil {
				continue
			}
			if equalTZI(zd, active) {
				return id, nil
			}
		}
	}
	return UTC, nil
}

func (rs *RegistrySource) activeInformation(ctx context.Context) (TimeZoneInformation, bool, error) {
	var info TimeZoneInformation
	key := CurrentZoneKeyPath
	for _, v := range []struct {
		name string
		val  *int32
	}{
		{"Bias", &info.Bias},
		{"StandardBias", &info.StandardBias},
		{"DaylightBias", &info.DaylightBias},
	} {
		dw, err := rs.hive.DWORD(ctx, key, v.name)
		if errors.Is(err, ErrValueNotFound) || errors.Is(err, ErrKeyNotFound) {
			return info, false, nil
		}
		if err != nil {
			return info, false, err
		}
		*v.val = int32(dw)
	}
	for _, v := range []struct {
		name string
		val  *SystemTime
	}{
		{"StandardStart", &info.StandardDate},
		{"DaylightStart", &info.DaylightDate},
	} {
		data, err := rs.hive.Binary(ctx, key, v.name)
		if errors.Is(err, ErrValueNotFound) {
			return info, false, nil
		}
		if err != nil {
			return info, false, err
		}
		if err := v.val.UnmarshalBinary(data); err != nil {
			return info, false, err
		}
	}
	var err error
	if info.StandardName, err = optional(rs.hive.String(ctx, key, "StandardName")); err != nil {
		return info, false, err
	}
	if info.DaylightName, err = optional(rs.hive.String(ctx, key, "DaylightName")); err != nil {
		return info, false, err
	}
	return info, true, nil
}

// WriteZone stores zd in h, replacing any existing data for the zone.
func WriteZone(ctx context.Context, h *Hive, zd ZoneData) error {
	key := zoneKey(zd.KeyName)
	if err := h.DeleteKey(ctx, key); err != nil {
		return err
	}
	for _, v := range []struct{ name, val string }{
		{"Display", zd.Display},
		{"Std", zd.Std},
		{"Dlt", zd.Dlt},
	} {
		if err := h.SetString(ctx, key, v.name, v.val); err != nil {
			return err
		}
	}
	if err := writeTZI(ctx, h, key, "TZI", zd.TZI); err != nil {
		return err
	}
	if zd.Dynamic == nil {
		return nil
	}
	dkey := key + `\` + dynamicDSTKey
	if err := h.SetDWORD(ctx, dkey, "FirstEntry", uint32(zd.Dynamic.FirstEntry)); err != nil {
		return err
	}
	if err := h.SetDWORD(ctx, dkey, "LastEntry", uint32(zd.Dynamic.LastEntry)); err != nil {
		return err
	}
	for _, y := range zd.Dynamic.Years {
		if err := writeTZI(ctx, h, dkey, strconv.Itoa(y.Year), y.TZI); err != nil {
			return err
		}
	}
	return nil
}

func writeTZI(ctx context.Context, h *Hive, key, name string, tzi TZI) error {
	data, err := tzi.MarshalBinary()
	if err != nil {
		return err
	}
	return h.SetBinary(ctx, key, name, data)
}

// WriteSystemZone records platformID as the system's current zone.
func WriteSystemZone(ctx context.Context, h *Hive, platformID string) error {
	return h.SetString(ctx, CurrentZoneKeyPath, "TimeZoneKeyName", platformID)
}

// WriteActiveInformation records the system's active setting without
// naming the zone that it was obtained from.
func WriteActiveInformation(ctx context.Context, h *Hive, info TimeZoneInformation) error {
	key := CurrentZoneKeyPath
	for _, v := range []struct {
		name string
		val  int32
	}{
		{"Bias", info.Bias},
		{"StandardBias", info.StandardBias},
		{"DaylightBias", info.DaylightBias},
	} {
		if err := h.SetDWORD(ctx, key, v.name, uint32(v.val)); err != nil {
			return err
		}
	}
	for _, v := range []struct {
		name string
		val  SystemTime
	}{
		{"StandardStart", info.StandardDate},
		{"DaylightStart", info.DaylightDate},
	} {
		data, err := v.val.MarshalBinary()
		if err != nil {
			return err
		}
		if err := h.SetBinary(ctx, key, v.name, data); err != nil {
			return err
		}
	}
	if err := h.SetString(ctx, key, "StandardName", info.StandardName); err != nil {
		return err
	}
	return h.SetString(ctx, key, "DaylightName", info.DaylightName)
}
