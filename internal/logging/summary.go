// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package logging

import (
	"iter"
	"slices"
	"time"
)

// ZoneStatus is the most recent state recorded for a zone.
type ZoneStatus struct {
	PlatformID  string
	Zone        string
	Status      string // one of LogZoneLoaded, LogZoneFailed or LogZoneChanged.
	Fingerprint string
	NumRules    int
	Err         error
	When        time.Time
}

// Summary accumulates the zone events found in a log.
type Summary struct {
	Counts      map[string]int
	Initialized []Entry
	zones       map[string]*ZoneStatus
}

func NewSummary() *Summary {
	return &Summary{
		Counts: map[string]int{},
		zones:  map[string]*ZoneStatus{},
	}
}

func (s *Summary) status(pid string) *ZoneStatus {
	zs, ok := s.zones[pid]
	if !ok {
		zs = &ZoneStatus{PlatformID: pid}
		s.zones[pid] = zs
	}
	return zs
}

// Add records a single log entry.
func (s *Summary) Add(le Entry) {
	s.Counts[le.Msg]++
	switch le.Msg {
	case LogInitialized:
		s.Initialized = append(s.Initialized, le)
	case LogZoneLoaded:
		zs := s.status(le.PlatformID)
		zs.Zone = le.Zone
		zs.Status = le.Msg
		zs.Fingerprint = le.Fingerprint
		zs.NumRules = le.NumRules
		zs.Err = nil
		zs.When = le.Time
	case LogZoneFailed:
		zs := s.status(le.PlatformID)
		zs.Zone = le.Zone
		zs.Status = le.Msg
		zs.Err = le.Err
		zs.When = le.Time
	case LogZoneChanged:
		zs := s.status(le.PlatformID)
		zs.Status = le.Msg
		zs.Fingerprint = le.Fingerprint
		zs.When = le.Time
	}
}

// AddAll records all of the supplied entries.
func (s *Summary) AddAll(entries iter.Seq[Entry]) {
	for le := range entries {
		s.Add(le)
	}
}

// Zones returns the status of every zone seen, ordered by platform id.
func (s *Summary) Zones() []ZoneStatus {
	zones := make([]ZoneStatus, 0, len(s.zones))
	for _, zs := range s.zones {
		zones = append(zones, *zs)
	}
	slices.SortFunc(zones, func(a, b ZoneStatus) int {
		switch {
		case a.PlatformID < b.PlatformID:
			return -1
		case a.PlatformID > b.PlatformID:
			return 1
		}
		return 0
	})
	return zones
}

// Failed returns the zones whose most recent event was a failure.
func (s *Summary) Failed() []ZoneStatus {
	var failed []ZoneStatus
	for _, zs := range s.Zones() {
		if zs.Status == LogZoneFailed {
			failed = append(failed, zs)
		}
	}
	return failed
}
