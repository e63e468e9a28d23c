// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zonedb_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/cosnicolaou/wintz/zonedb"
	"github.com/stretchr/testify/require"
)

const (
	ausEastern = "AUS Eastern Standard Time"
	pacific    = "Pacific Standard Time"
	tokyo      = "Tokyo Standard Time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newHive(t *testing.T) *zonedb.Hive {
	t.Helper()
	h, err := zonedb.OpenHive(context.Background(), filepath.Join(t.TempDir(), "hive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })
	return h
}

func loadDocument(t *testing.T, filename string) zonedb.Document {
	t.Helper()
	doc, err := zonedb.ParseDocumentFile(context.Background(), filename)
	require.NoError(t, err)
	return doc
}

// enumeratedZones returns the zones in testdata/zones.yaml that are
// reachable by enumeration.
func enumeratedZones(t *testing.T) []zonedb.ZoneData {
	t.Helper()
	doc := loadDocument(t, "testdata/zones.yaml")
	require.Len(t, doc.Zones, 5)
	return doc.Zones[:3]
}

func zoneNamed(t *testing.T, zones []zonedb.ZoneData, keyName string) zonedb.ZoneData {
	t.Helper()
	for _, zd := range zones {
		if zd.KeyName == keyName {
			return zd
		}
	}
	t.Fatalf("zone %v not found", keyName)
	return zonedb.ZoneData{}
}

// registryHive returns a hive containing the enumerated zones.
func registryHive(t *testing.T) *zonedb.Hive {
	t.Helper()
	ctx := context.Background()
	h := newHive(t)
	for _, zd := range enumeratedZones(t) {
		require.NoError(t, zonedb.WriteZone(ctx, h, zd))
	}
	return h
}
