// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"cloudeng.io/datetime"
	"github.com/cosnicolaou/wintz/internal/logging"
	"github.com/cosnicolaou/wintz/tzrules"
	"github.com/cosnicolaou/wintz/zonedb"
)

type ConfigFileFlags struct {
	ConfigFile string `subcmd:"config,$HOME/.tzwin.yaml,path to the configuration file"`
	Territory  string `subcmd:"territory,,ISO 3166 territory, overrides the configuration file"`
	LogFile    string `subcmd:"log-file,,log file, warnings and errors are written to stderr if not specified"`
}

func newLogfile(filename string) (*os.File, error) {
	return os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
}

func setupLogging(logfile string) (*slog.Logger, func(), error) {
	if len(logfile) == 0 {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})), func() {}, nil
	}
	f, err := newLogfile(logfile)
	if err != nil {
		return nil, func() {}, err
	}
	l := slog.New(slog.NewJSONHandler(f, nil))
	return l, func() { f.Close() }, nil
}

// loadRepository returns an initialized repository for the configuration
// file and a context that carries the logger used by the repository.
func loadRepository(ctx context.Context, fv *ConfigFileFlags) (context.Context, *zonedb.Repository, func(), error) {
	cfg, err := zonedb.ParseConfigFile(ctx, fv.ConfigFile)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to parse config file: %q: %w", fv.ConfigFile, err)
	}
	logger, cleanup, err := setupLogging(fv.LogFile)
	if err != nil {
		return nil, nil, nil, err
	}
	opts := []zonedb.Option{zonedb.WithLogger(logger)}
	if len(fv.Territory) > 0 {
		opts = append(opts, zonedb.WithTerritory(fv.Territory))
	}
	repo, closer, err := cfg.NewRepository(ctx, opts...)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	ctx = logging.ContextWithLogger(ctx, logger)
	return ctx, repo, func() {
		closer()
		cleanup()
	}, nil
}

func loadZones(ctx context.Context, repo *zonedb.Repository, ids []string) ([]*tzrules.Zone, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no zones specified")
	}
	zones := make([]*tzrules.Zone, 0, len(ids))
	for _, id := range ids {
		z, err := repo.Zone(ctx, id)
		if err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, nil
}

// instant returns the milliseconds since the Unix epoch for the supplied
// UTC date and time of day, either of which default to now.
func instant(now time.Time, date, tod string) (int64, error) {
	now = now.UTC()
	cd := datetime.CalendarDateFromTime(now)
	if len(date) > 0 {
		if err := cd.Parse(date); err != nil {
			return 0, err
		}
	}
	t := datetime.TimeOfDayFromTime(now)
	if len(tod) > 0 {
		if err := t.Parse(tod); err != nil {
			return 0, err
		}
	}
	return time.Date(cd.Year(), time.Month(cd.Month()), cd.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, time.UTC).UnixMilli(), nil
}

// dateRange returns the half open interval, in milliseconds since the Unix
// epoch, that spans the supplied date range in UTC. The current year is
// used if no range is specified.
func dateRange(now time.Time, dr string) (from, to int64, err error) {
	if len(dr) == 0 {
		year := now.UTC().Year()
		from = time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
		to = time.Date(year+1, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
		return from, to, nil
	}
	var period datetime.CalendarDateRange
	if err := period.Parse(dr); err != nil {
		return 0, 0, err
	}
	f, t := period.From(), period.To()
	from = time.Date(f.Year(), time.Month(f.Month()), f.Day(), 0, 0, 0, 0, time.UTC).UnixMilli()
	to = time.Date(t.Year(), time.Month(t.Month()), t.Day()+1, 0, 0, 0, 0, time.UTC).UnixMilli()
	return from, to, nil
}

func formatInstant(ms int64) string {
	if ms == tzrules.InvalidMillis {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05Z")
}
