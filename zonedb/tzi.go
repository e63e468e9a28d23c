// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zonedb

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/cosnicolaou/wintz/tzrules"
)

const (
	// SystemTimeSize is the size, in bytes, of an encoded SystemTime.
	SystemTimeSize = 16
	// TZISize is the size, in bytes, of an encoded TZI.
	TZISize = 44
)

// SystemTime is the platform representation of a transition date. When
// Year is zero the date recurs annually and Day is the occurrence (1-5,
// 5 meaning last) of DayOfWeek (0 is Sunday) in Month. Otherwise it is
// the absolute date Year-Month-Day.
type SystemTime struct {
	Year         uint16 `yaml:"year,omitempty" toml:"year"`
	Month        uint16 `yaml:"month" toml:"month"`
	DayOfWeek    uint16 `yaml:"day_of_week" toml:"day_of_week"`
	Day          uint16 `yaml:"day" toml:"day"`
	Hour         uint16 `yaml:"hour" toml:"hour"`
	Minute       uint16 `yaml:"minute,omitempty" toml:"minute"`
	Second       uint16 `yaml:"second,omitempty" toml:"second"`
	Milliseconds uint16 `yaml:"milliseconds,omitempty" toml:"milliseconds"`
}

// DaySpec converts st to the engine's representation. A zero Month
// yields the zero DaySpec.
func (st SystemTime) DaySpec() tzrules.DaySpec {
	if st.Month == 0 {
		return tzrules.DaySpec{}
	}
	ds := tzrules.DaySpec{
		Month:       int(st.Month),
		DayOfWeek:   tzrules.Weekday(st.DayOfWeek),
		Year:        int(st.Year),
		Hour:        int(st.Hour),
		Minute:      int(st.Minute),
		Second:      int(st.Second),
		Millisecond: int(st.Milliseconds),
	}
	if ds.DayOfWeek == 0 {
		ds.DayOfWeek = tzrules.Sunday
	}
	if st.Year == 0 {
		ds.Occurrence = tzrules.Occurrence(st.Day)
	} else {
		ds.Day = int(st.Day)
	}
	return ds
}

func (st SystemTime) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, st); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (st *SystemTime) UnmarshalBinary(data []byte) error {
	if len(data) != SystemTimeSize {
		return fmt.Errorf("SYSTEMTIME: got %v bytes, want %v: %w", len(data), SystemTimeSize, ErrInvalidValue)
	}
	return binary.Read(bytes.NewReader(data), binary.LittleEndian, st)
}

// TZI is the REG_TZI_FORMAT structure stored for each zone. Biases are
// in minutes, positive west of UTC.
type TZI struct {
	Bias         int32      `yaml:"bias" toml:"bias"`
	StandardBias int32      `yaml:"standard_bias" toml:"standard_bias"`
	DaylightBias int32      `yaml:"daylight_bias" toml:"daylight_bias"`
	StandardDate SystemTime `yaml:"standard_date" toml:"standard_date"`
	DaylightDate SystemTime `yaml:"daylight_date" toml:"daylight_date"`
}

func (tzi TZI) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, tzi); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (tzi *TZI) UnmarshalBinary(data []byte) error {
	if len(data) != TZISize {
		return fmt.Errorf("TZI: got %v bytes, want %v: %w", len(data), TZISize, ErrInvalidValue)
	}
	return binary.Read(bytes.NewReader(data), binary.LittleEndian, tzi)
}

// Rule returns the transition rule described by tzi starting in
// startYear. The platform expresses the standard and daylight biases
// relative to Bias, whereas a rule's daylight bias is relative to its
// standard bias.
func (tzi TZI) Rule(startYear int) tzrules.TransitionRule {
	std := int(tzi.Bias + tzi.StandardBias)
	return tzrules.TransitionRule{
		StartYear:    startYear,
		StandardBias: std,
		DaylightBias: int(tzi.Bias+tzi.DaylightBias) - std,
		StandardRule: tzi.StandardDate.DaySpec(),
		DaylightRule: tzi.DaylightDate.DaySpec(),
	}
}

// TimeZoneInformation is the currently active system setting, which
// includes the names in effect in addition to the TZI.
type TimeZoneInformation struct {
	TZI
	StandardName string
	DaylightName string
}

// equalTZI reports whether a zone's data matches the active setting.
func equalTZI(zd ZoneData, active TimeZoneInformation) bool {
	return zd.TZI == active.TZI &&
		zd.Std == active.StandardName &&
		zd.Dlt == active.DaylightName
}
