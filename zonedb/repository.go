// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zonedb

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"
	"time"

	"cloudeng.io/errors"
	"cloudeng.io/sync/errgroup"
	"github.com/cosnicolaou/wintz/internal/logging"
	"github.com/cosnicolaou/wintz/tzrules"
)

// Repository provides tzrules.Zone values for the zones supplied by a
// Source. Init must be called before any other method. A Repository is
// safe for concurrent use.
type Repository struct {
	options
	src Source

	mu           sync.Mutex
	initialized  bool
	platformIDs  []string
	zones        map[string]*tzrules.Zone // keyed by requested id.
	fingerprints map[string]string        // keyed by platform id.
}

// NewRepository returns a Repository for src.
func NewRepository(src Source, opts ...Option) *Repository {
	r := &Repository{
		src:          src,
		zones:        map[string]*tzrules.Zone{},
		fingerprints: map[string]string{},
	}
	for _, opt := range opts {
		opt(&r.options)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}
	r.logger = r.logger.With("mod", "zonedb")
	return r
}

// Init enumerates the platform ids available from the source.
func (r *Repository) Init(ctx context.Context) error {
	start := time.Now()
	ids, err := r.src.PlatformIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to enumerate zones from %v: %w", r.src.Name(), err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.platformIDs = ids
	r.initialized = true
	logging.WriteInitialized(r.logger, r.src.Name(), len(ids), time.Since(start))
	return nil
}

func (r *Repository) ids() ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.initialized {
		return nil, ErrNotInitialized
	}
	return r.platformIDs, nil
}

// PlatformIDs returns the platform ids found by Init in enumeration order.
func (r *Repository) PlatformIDs() ([]string, error) {
	ids, err := r.ids()
	return slices.Clone(ids), err
}

// AvailableZoneIDs returns the sorted, de-duplicated, IANA ids of every
// available zone. Platform ids are used as is when there is no mapper.
func (r *Repository) AvailableZoneIDs() ([]string, error) {
	ids, err := r.ids()
	if err != nil {
		return nil, err
	}
	var available []string
	for _, pid := range ids {
		if r.mapper == nil {
			available = append(available, pid)
			continue
		}
		available = append(available, r.mapper.IANAIDs(pid)...)
	}
	slices.Sort(available)
	return slices.Compact(available), nil
}

// ZoneIDs returns the IANA ids that map to platformID, or nil if there
// is no mapper.
func (r *Repository) ZoneIDs(platformID string) []string {
	if r.mapper == nil {
		return nil
	}
	return r.mapper.IANAIDs(platformID)
}

// ianaID returns the IANA id to use for a platform id.
func (r *Repository) ianaID(platformID string) string {
	if r.mapper == nil {
		return platformID
	}
	if id := r.mapper.DefaultIANAID(platformID, r.territory); len(id) > 0 {
		return id
	}
	if id := r.mapper.DefaultIANAID(platformID, ""); len(id) > 0 {
		return id
	}
	return platformID
}

// resolve returns the platform id and zone id for id, which may be
// either a platform id or an IANA id.
func (r *Repository) resolve(id string) (platformID, zoneID string, err error) {
	ids, err := r.ids()
	if err != nil {
		return "", "", err
	}
	if slices.Contains(ids, id) {
		return id, r.ianaID(id), nil
	}
	if r.mapper != nil {
		if pid := r.mapper.PlatformID(id); len(pid) > 0 && slices.Contains(ids, pid) {
			return pid, id, nil
		}
	}
	return "", "", fmt.Errorf("%v: %w", id, ErrUnknownZone)
}

func (r *Repository) load(ctx context.Context, platformID, zoneID string) (*tzrules.Zone, error) {
	zd, rt, err := r.src.Load(ctx, platformID)
	if err != nil {
		logging.WriteZoneFailed(r.logger, platformID, zoneID, err)
		return nil, err
	}
	zone, err := tzrules.NewZone(zoneID, platformID, zd.Names(), rt)
	if err != nil {
		logging.WriteZoneFailed(r.logger, platformID, zoneID, err)
		return nil, err
	}
	fp, err := Fingerprint(zd)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.fingerprints[platformID] = fp
	r.mu.Unlock()
	logging.WriteZoneLoaded(r.logger, platformID, zoneID, rt.Len(), fp)
	return zone, nil
}

// Zone returns the zone for id which may be either a platform or an IANA
// id.
func (r *Repository) Zone(ctx context.Context, id string) (*tzrules.Zone, error) {
	r.mu.Lock()
	z, ok := r.zones[id]
	r.mu.Unlock()
	if ok {
		return z, nil
	}
	pid, zid, err := r.resolve(id)
	if err != nil {
		return nil, err
	}
	z, err = r.load(ctx, pid, zid)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.zones[id]; ok {
		return existing, nil
	}
	r.zones[id] = z
	return z, nil
}

// SystemZone returns the zone the system is configured to use. The
// IANA id is the mapper's default for the repository's territory, then
// its global default, otherwise UTC is used.
func (r *Repository) SystemZone(ctx context.Context) (*tzrules.Zone, error) {
	if _, err := r.ids(); err != nil {
		return nil, err
	}
	pid, err := r.src.SystemPlatformID(ctx)
	if err != nil {
		return nil, err
	}
	zid := UTC
	if r.mapper == nil {
		zid = pid
	} else {
		for _, territory := range []string{r.territory, ""} {
			if id := r.mapper.DefaultIANAID(pid, territory); len(id) > 0 {
				zid = id
				break
			}
		}
	}
	logging.WriteSystemZone(r.logger, pid, zid, r.territory)
	z, err := r.Zone(ctx, zid)
	if err == nil {
		return z, nil
	}
	if zid == UTC || pid == UTC {
		return UTCZone(), nil
	}
	return nil, err
}

// LoadAll loads every available zone, by platform id, concurrently. It
// returns the zones that were loaded successfully, in enumeration order,
// and an error for all of those that failed.
func (r *Repository) LoadAll(ctx context.Context) ([]*tzrules.Zone, error) {
	ids, err := r.ids()
	if err != nil {
		return nil, err
	}
	zones := make([]*tzrules.Zone, len(ids))
	failures := make([]error, len(ids))
	var g errgroup.T
	for i, pid := range ids {
		g.Go(func() error {
			zones[i], failures[i] = r.Zone(ctx, pid)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var errs errors.M
	for _, err := range failures {
		errs.Append(err)
	}
	loaded := slices.DeleteFunc(zones, func(z *tzrules.Zone) bool { return z == nil })
	return loaded, errs.Err()
}

// Refresh re-enumerates the source and compares the fingerprints of the
// previously loaded zones with their current data. It returns the
// platform ids of the zones that have changed or that are no longer
// available; these are dropped from the cache and will be reloaded on
// next use.
func (r *Repository) Refresh(ctx context.Context) ([]string, error) {
	if _, err := r.ids(); err != nil {
		return nil, err
	}
	start := time.Now()
	ids, err := r.src.PlatformIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate zones from %v: %w", r.src.Name(), err)
	}
	r.mu.Lock()
	previous := make(map[string]string, len(r.fingerprints))
	for pid, fp := range r.fingerprints {
		previous[pid] = fp
	}
	r.mu.Unlock()

	var errs errors.M
	var changed []string
	for pid, fp := range previous {
		current := ""
		if slices.Contains(ids, pid) {
			zd, _, err := r.src.Load(ctx, pid)
			if err == nil {
				current, err = Fingerprint(zd)
			}
			if err != nil {
				errs.Append(err)
			}
		}
		if current != fp {
			logging.WriteZoneChanged(r.logger, pid, fp, current)
			changed = append(changed, pid)
		}
	}
	slices.Sort(changed)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.platformIDs = ids
	for _, pid := range changed {
		delete(r.fingerprints, pid)
		for id, z := range r.zones {
			if z.PlatformID() == pid {
				delete(r.zones, id)
			}
		}
	}
	logging.WriteRefreshed(r.logger, len(ids), len(changed), time.Since(start))
	return changed, errs.Err()
}

// Document returns the raw data for every available zone in a form
// suitable for WriteSnapshot.
func (r *Repository) Document(ctx context.Context) (Document, error) {
	ids, err := r.ids()
	if err != nil {
		return Document{}, err
	}
	var doc Document
	var errs errors.M
	for _, pid := range ids {
		zd, _, err := r.src.Load(ctx, pid)
		if err != nil {
			errs.Append(err)
			continue
		}
		doc.Zones = append(doc.Zones, zd)
	}
	doc.SystemZone, err = r.src.SystemPlatformID(ctx)
	errs.Append(err)
	return doc, errs.Err()
}
