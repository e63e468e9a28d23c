// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package zonedb provides the platform zone data consumed by package
// tzrules. Zone data is obtained from a Source, either a registry hive
// (RegistrySource) or a dynamic enumeration of zones (EnumerationSource),
// and is made available as tzrules.Zone values via a Repository.
package zonedb

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cosnicolaou/wintz/tzrules"
)

var (
	ErrUnknownZone    = errors.New("unknown zone")
	ErrNotInitialized = errors.New("repository not initialized")
	ErrNoRules        = errors.New("no transition rules")
	ErrKeyNotFound    = errors.New("registry key not found")
	ErrValueNotFound  = errors.New("registry value not found")
	ErrValueType      = errors.New("registry value has the wrong type")
	ErrInvalidValue   = errors.New("invalid registry value")
)

// UTC is the id of the zone used when no other can be determined.
const UTC = "UTC"

// Source is the interface to platform supplied zone data.
type Source interface {
	// Name returns a short description of the source.
	Name() string
	// PlatformIDs returns the platform ids of all the zones available
	// from the source in the order that the platform enumerates them.
	PlatformIDs(ctx context.Context) ([]string, error)
	// Load returns the raw data and transition rules for the zone with the
	// specified platform id.
	Load(ctx context.Context, platformID string) (ZoneData, tzrules.RuleTable, error)
	// SystemPlatformID returns the platform id of the zone the system is
	// configured to use, or UTC if it cannot be determined.
	SystemPlatformID(ctx context.Context) (string, error)
}

type Option func(o *options)

type options struct {
	logger    *slog.Logger
	territory string
	mapper    IDMapper
}

// WithLogger sets the logger to use.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithTerritory sets the ISO 3166 territory used to select between the
// multiple zone ids that a platform id may map to.
func WithTerritory(territory string) Option {
	return func(o *options) {
		o.territory = territory
	}
}

// WithMapper sets the mapper used to translate between platform and
// IANA zone ids.
func WithMapper(m IDMapper) Option {
	return func(o *options) {
		o.mapper = m
	}
}

// UTCZone returns a zone for UTC that never observes daylight saving
// time.
func UTCZone() *tzrules.Zone {
	z, _ := tzrules.NewZone(UTC, UTC, tzrules.Names{
		Display:  "(UTC) Coordinated Universal Time",
		Standard: "Coordinated Universal Time",
		Daylight: "Coordinated Universal Time",
	}, tzrules.MustNewRuleTable(tzrules.TransitionRule{StartYear: tzrules.MinYear}))
	return z
}
