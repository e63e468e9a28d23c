// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zonedb

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// ValueType is the type of a registry value.
type ValueType int

const (
	RegSZ     ValueType = 1
	RegBinary ValueType = 3
	RegDWORD  ValueType = 4
)

func (vt ValueType) String() string {
	switch vt {
	case RegSZ:
		return "REG_SZ"
	case RegBinary:
		return "REG_BINARY"
	case RegDWORD:
		return "REG_DWORD"
	}
	return fmt.Sprintf("ValueType(%d)", int(vt))
}

const hiveSchema = `
CREATE TABLE IF NOT EXISTS reg_keys (
	path TEXT PRIMARY KEY COLLATE NOCASE
);
CREATE TABLE IF NOT EXISTS reg_values (
	key  TEXT NOT NULL COLLATE NOCASE,
	name TEXT NOT NULL COLLATE NOCASE,
	type INTEGER NOT NULL,
	data BLOB NOT NULL,
	PRIMARY KEY (key, name)
);
`

// Hive is a registry hive stored in an SQLite database. Key paths use
// backslash separators and, like the platform registry, key and value
// names are case insensitive.
type Hive struct {
	db *sql.DB
}

// OpenHive opens, creating if necessary, the hive stored in the sqlite
// database at path. Use ":memory:" for a transient hive.
func OpenHive(ctx context.Context, path string) (*Hive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open hive %v: %w", path, err)
	}
	// A single connection ensures that in-memory hives are shared.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, hiveSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize hive %v: %w", path, err)
	}
	return &Hive{db: db}, nil
}

func (h *Hive) Close() error {
	return h.db.Close()
}

var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

func cleanKey(path string) string {
	return strings.Trim(path, `\`)
}

// CreateKey creates the key at path and all of its parents.
func (h *Hive) CreateKey(ctx context.Context, path string) error {
	path = cleanKey(path)
	parts := strings.Split(path, `\`)
	for i := range parts {
		p := strings.Join(parts[:i+1], `\`)
		if _, err := h.db.ExecContext(ctx, `INSERT OR IGNORE INTO reg_keys (path) VALUES (?)`, p); err != nil {
			return fmt.Errorf("failed to create key %v: %w", p, err)
		}
	}
	return nil
}

// HasKey reports whether the key at path exists.
func (h *Hive) HasKey(ctx context.Context, path string) (bool, error) {
	var n int
	err := h.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reg_keys WHERE path = ?`, cleanKey(path)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SubKeys returns the names of the immediate sub keys of path in
// lexicographic order.
func (h *Hive) SubKeys(ctx context.Context, path string) ([]string, error) {
	path = cleanKey(path)
	if ok, err := h.HasKey(ctx, path); err != nil || !ok {
		if err == nil {
			err = fmt.Errorf("%v: %w", path, ErrKeyNotFound)
		}
		return nil, err
	}
	prefix := path + `\`
	escaped := likeEscaper.Replace(prefix)
	rows, err := h.db.QueryContext(ctx,
		`SELECT path FROM reg_keys WHERE path LIKE ? ESCAPE '!' ORDER BY path`, escaped+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var keys []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		rest := p[len(prefix):]
		if len(rest) == 0 || strings.Contains(rest, `\`) {
			continue
		}
		keys = append(keys, rest)
	}
	return keys, rows.Err()
}

func (h *Hive) set(ctx context.Context, key, name string, vt ValueType, data []byte) error {
	key = cleanKey(key)
	if err := h.CreateKey(ctx, key); err != nil {
		return err
	}
	_, err := h.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO reg_values (key, name, type, data) VALUES (?, ?, ?, ?)`,
		key, name, int(vt), data)
	if err != nil {
		return fmt.Errorf("failed to set %v\\%v: %w", key, name, err)
	}
	return nil
}

func (h *Hive) get(ctx context.Context, key, name string, vt ValueType) ([]byte, error) {
	key = cleanKey(key)
	var t int
	var data []byte
	err := h.db.QueryRowContext(ctx,
		`SELECT type, data FROM reg_values WHERE key = ? AND name = ?`, key, name).Scan(&t, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%v\\%v: %w", key, name, ErrValueNotFound)
	}
	if err != nil {
		return nil, err
	}
	if ValueType(t) != vt {
		return nil, fmt.Errorf("%v\\%v: got %v, want %v: %w", key, name, ValueType(t), vt, ErrValueType)
	}
	return data, nil
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// SetString stores s as a nul terminated UTF-16LE REG_SZ value.
func (h *Hive) SetString(ctx context.Context, key, name, s string) error {
	data, err := utf16le.NewEncoder().Bytes([]byte(s + "\x00"))
	if err != nil {
		return err
	}
	return h.set(ctx, key, name, RegSZ, data)
}

// String returns the REG_SZ value name of key.
func (h *Hive) String(ctx context.Context, key, name string) (string, error) {
	data, err := h.get(ctx, key, name, RegSZ)
	if err != nil {
		return "", err
	}
	decoded, err := utf16le.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%v\\%v: %w", key, name, err)
	}
	if i := bytes.IndexByte(decoded, 0); i >= 0 {
		decoded = decoded[:i]
	}
	return string(decoded), nil
}

// SetDWORD stores v as a little endian REG_DWORD value.
func (h *Hive) SetDWORD(ctx context.Context, key, name string, v uint32) error {
	return h.set(ctx, key, name, RegDWORD, binary.LittleEndian.AppendUint32(nil, v))
}

// DWORD returns the REG_DWORD value name of key.
func (h *Hive) DWORD(ctx context.Context, key, name string) (uint32, error) {
	data, err := h.get(ctx, key, name, RegDWORD)
	if err != nil {
		return 0, err
	}
	if len(data) != 4 {
		return 0, fmt.Errorf("%v\\%v: %v bytes: %w", key, name, len(data), ErrInvalidValue)
	}
	return binary.LittleEndian.Uint32(data), nil
}

// SetBinary stores data as a REG_BINARY value.
func (h *Hive) SetBinary(ctx context.Context, key, name string, data []byte) error {
	return h.set(ctx, key, name, RegBinary, data)
}

// Binary returns the REG_BINARY value name of key.
func (h *Hive) Binary(ctx context.Context, key, name string) ([]byte, error) {
	return h.get(ctx, key, name, RegBinary)
}

// DeleteKey removes key, its sub keys and all of their values.
func (h *Hive) DeleteKey(ctx context.Context, path string) error {
	path = cleanKey(path)
	escaped := likeEscaper.Replace(path + `\`)
	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, stmt := range []string{
		`DELETE FROM reg_values WHERE key = ?1 OR key LIKE ?2 ESCAPE '!'`,
		`DELETE FROM reg_keys WHERE path = ?1 OR path LIKE ?2 ESCAPE '!'`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, path, escaped+"%"); err != nil {
			return fmt.Errorf("failed to delete %v: %w", path, err)
		}
	}
	return tx.Commit()
}
