// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zonedb_test

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/cosnicolaou/wintz/zonedb"
	"github.com/stretchr/testify/require"
)

func TestHiveValues(t *testing.T) {
	ctx := context.Background()
	h := newHive(t)
	key := `SOFTWARE\Test`

	require.NoError(t, h.SetString(ctx, key, "Std", "Mitteleuropäische Zeit"))
	require.NoError(t, h.SetDWORD(ctx, key, "Bias", 0xffffffc4))
	require.NoError(t, h.SetBinary(ctx, key, "TZI", []byte{1, 2, 3}))

	// Key and value names are case insensitive.
	s, err := h.String(ctx, `software\test`, "STD")
	require.NoError(t, err)
	if got, want := s, "Mitteleuropäische Zeit"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	dw, err := h.DWORD(ctx, key, "bias")
	require.NoError(t, err)
	if got, want := int32(dw), int32(-60); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	b, err := h.Binary(ctx, key, "TZI")
	require.NoError(t, err)
	if got, want := b, []byte{1, 2, 3}; !bytes.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// Values are replaced.
	require.NoError(t, h.SetString(ctx, key, "std", "CET"))
	s, err = h.String(ctx, key, "Std")
	require.NoError(t, err)
	if got, want := s, "CET"; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := h.DWORD(ctx, key, "Std"); !errors.Is(err, zonedb.ErrValueType) {
		t.Errorf("unexpected or missing error: %v", err)
	}
	if _, err := h.String(ctx, key, "Dlt"); !errors.Is(err, zonedb.ErrValueNotFound) {
		t.Errorf("unexpected or missing error: %v", err)
	}
}

func TestHiveKeys(t *testing.T) {
	ctx := context.Background()
	h := newHive(t)
	for _, k := range []string{`A\B\C`, `A\B\D`, `A\B\D\E`, `A\B_\F`, `A\BX\G`} {
		require.NoError(t, h.CreateKey(ctx, k))
	}
	require.NoError(t, h.SetString(ctx, `A\B\C`, "v", "x"))

	keys, err := h.SubKeys(ctx, `a\b`)
	require.NoError(t, err)
	if got, want := keys, []string{"C", "D"}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	keys, err = h.SubKeys(ctx, `A\B_`)
	require.NoError(t, err)
	if got, want := keys, []string{"F"}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	keys, err = h.SubKeys(ctx, `A`)
	require.NoError(t, err)
	if got, want := keys, []string{"B", "B_", "BX"}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if _, err := h.SubKeys(ctx, `A\Z`); !errors.Is(err, zonedb.ErrKeyNotFound) {
		t.Errorf("unexpected or missing error: %v", err)
	}

	require.NoError(t, h.DeleteKey(ctx, `A\B`))
	for _, tc := range []struct {
		key    string
		exists bool
	}{
		{`A`, true},
		{`A\B`, false},
		{`A\B\D\E`, false},
		{`A\B_\F`, true},
		{`A\BX\G`, true},
	} {
		ok, err := h.HasKey(ctx, tc.key)
		require.NoError(t, err)
		if got, want := ok, tc.exists; got != want {
			t.Errorf("%v: got %v, want %v", tc.key, got, want)
		}
	}
	if _, err := h.String(ctx, `A\B\C`, "v"); !errors.Is(err, zonedb.ErrValueNotFound) {
		t.Errorf("unexpected or missing error: %v", err)
	}
}
