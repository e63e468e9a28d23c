// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package logging

import (
	"log/slog"
	"time"
)

const (
	LogInitialized = "initialized"
	LogZoneLoaded  = "zone-loaded"
	LogZoneFailed  = "zone-failed"
	LogZoneChanged = "zone-changed"
	LogSystemZone  = "system-zone"
	LogRefreshed   = "refreshed"
)

// WriteInitialized logs the enumeration of the platform ids supplied by
// a source.
func WriteInitialized(l *slog.Logger, source string, nZones int, elapsed time.Duration) {
	l.Info(LogInitialized, "source", source, "#zones", nZones, "elapsed", elapsed)
}

// WriteZoneLoaded logs the successful creation of a zone from its
// platform data.
func WriteZoneLoaded(l *slog.Logger, platformID, zone string, nRules int, fingerprint string) {
	l.Info(LogZoneLoaded,
		"platform-id", platformID,
		"zone", zone,
		"#rules", nRules,
		"fingerprint", fingerprint)
}

// WriteZoneFailed logs a zone that could not be loaded.
func WriteZoneFailed(l *slog.Logger, platformID, zone string, err error) {
	l.Warn(LogZoneFailed,
		"platform-id", platformID,
		"zone", zone,
		"err", err)
}

// WriteZoneChanged logs a zone whose platform data has changed since it
// was last loaded.
func WriteZoneChanged(l *slog.Logger, platformID, previous, current string) {
	l.Info(LogZoneChanged,
		"platform-id", platformID,
		"previous", previous,
		"fingerprint", current)
}

// WriteSystemZone logs the zone selected as the system zone.
func WriteSystemZone(l *slog.Logger, platformID, zone, territory string) {
	l.Info(LogSystemZone,
		"platform-id", platformID,
		"zone", zone,
		"territory", territory)
}

// WriteRefreshed logs the completion of a refresh.
func WriteRefreshed(l *slog.Logger, nZones, nChanged int, elapsed time.Duration) {
	l.Info(LogRefreshed, "#zones", nZones, "#changed", nChanged, "elapsed", elapsed)
}
