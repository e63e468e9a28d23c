// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloudeng.io/errors"
	"github.com/BurntSushi/toml"
	"github.com/cosnicolaou/wintz/internal/logging"
	"github.com/cosnicolaou/wintz/zonedb"
	"gopkg.in/yaml.v3"
)

type ImportFlags struct {
	LogFile    string `subcmd:"log-file,,log file, warnings and errors are written to stderr if not specified"`
	SystemZone bool   `subcmd:"system-zone,true,record the document's system zone as the hive's current zone"`
}

type ExportFlags struct {
	ConfigFileFlags
}

type WatchFlags struct {
	ConfigFileFlags
	Interval time.Duration `subcmd:"interval,1m,interval between reloads of the configured source"`
	Count    int           `subcmd:"count,0,number of reloads to perform, zero for no limit"`
}

type DB struct {
	out io.Writer
}

func (db *DB) Import(ctx context.Context, flags any, args []string) error {
	fv := flags.(*ImportFlags)
	if len(args) != 2 {
		return fmt.Errorf("expected a document and a hive")
	}
	logger, cleanup, err := setupLogging(fv.LogFile)
	if err != nil {
		return err
	}
	defer cleanup()
	ctx = logging.ContextWithLogger(ctx, logger)

	doc, err := zonedb.LoadDocument(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to load document: %q: %w", args[0], err)
	}
	h, err := zonedb.OpenHive(ctx, args[1])
	if err != nil {
		return err
	}
	defer h.Close()
	n, err := importDocument(ctx, h, doc, fv.SystemZone)
	fmt.Fprintf(db.out, "imported %v zones into %v\n", n, args[1])
	return err
}

// importDocument writes the zones that would be enumerated from doc into
// h, zones whose rules are invalid are skipped.
func importDocument(ctx context.Context, h *zonedb.Hive, doc zonedb.Document, systemZone bool) (int, error) {
	logger := logging.LoggerFromContext(ctx)
	src := zonedb.NewEnumerationSource(doc)
	ids, err := src.PlatformIDs(ctx)
	if err != nil {
		return 0, err
	}
	var errs errors.M
	n := 0
	for _, pid := range ids {
		zd, _, err := src.Load(ctx, pid)
		if err != nil {
			logger.Warn("import", "platform-id", pid, "err", err)
			errs.Append(err)
			continue
		}
		if err := zonedb.WriteZone(ctx, h, zd); err != nil {
			return n, err
		}
		n++
	}
	if systemZone && len(doc.SystemZone) > 0 {
		errs.Append(zonedb.WriteSystemZone(ctx, h, doc.SystemZone))
	}
	logger.Info("import", "#zones", n, "system-zone", doc.SystemZone)
	return n, errs.Err()
}

func (db *DB) Export(ctx context.Context, flags any, args []string) error {
	fv := flags.(*ExportFlags)
	if len(args) != 1 {
		return fmt.Errorf("expected a single filename")
	}
	ctx, repo, cleanup, err := loadRepository(ctx, &fv.ConfigFileFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	doc, err := repo.Document(ctx)
	if err != nil {
		return err
	}
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := writeDocument(f, args[0], doc, db.out); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeDocument(w io.Writer, filename string, doc zonedb.Document, out io.Writer) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case ".toml":
		return toml.NewEncoder(w).Encode(doc)
	}
	digest, err := zonedb.WriteSnapshot(w, doc)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%v: %v zones, digest %v\n", filename, len(doc.Zones), digest)
	return nil
}

func (db *DB) Watch(ctx context.Context, flags any, _ []string) error {
	fv := flags.(*WatchFlags)
	ctx, repo, cleanup, err := loadRepository(ctx, &fv.ConfigFileFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	logger := logging.LoggerFromContext(ctx)

	zones, err := repo.LoadAll(ctx)
	if err != nil {
		logger.Warn("watch", "err", err)
	}
	fmt.Fprintf(db.out, "loaded %v zones\n", len(zones))

	ticker := time.NewTicker(fv.Interval)
	defer ticker.Stop()
	for i := 0; fv.Count == 0 || i < fv.Count; i++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		changed, err := repo.Refresh(ctx)
		if err != nil {
			logger.Warn("watch", "err", err)
		}
		for _, pid := range changed {
			if _, err := repo.Zone(ctx, pid); err != nil {
				fmt.Fprintf(db.out, "%v: removed\n", pid)
				continue
			}
			fmt.Fprintf(db.out, "%v: changed\n", pid)
		}
	}
	return nil
}
