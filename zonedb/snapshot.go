// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zonedb

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

// snapshotMagic prefixes every snapshot and is followed by the blake3
// digest of the CBOR payload and then the xz compressed payload.
const snapshotMagic = "WTZS\x01"

// maxSnapshotPayload is the largest decompressed payload that
// ReadSnapshot will accept.
var maxSnapshotPayload int64 = 64 << 20

type snapshot struct {
	SystemZone string     `cbor:"1,keyasint,omitempty"`
	Zones      []ZoneData `cbor:"2,keyasint"`
}

var (
	encModeOnce sync.Once
	encMode     cbor.EncMode
	encModeErr  error
)

func getEncMode() (cbor.EncMode, error) {
	encModeOnce.Do(func() {
		encMode, encModeErr = cbor.EncOptions{
			Sort: cbor.SortCoreDeterministic,
		}.EncMode()
	})
	return encMode, encModeErr
}

func marshalDeterministic(v any) ([]byte, error) {
	em, err := getEncMode()
	if err != nil {
		return nil, err
	}
	return em.Marshal(v)
}

func normalized(zones []ZoneData) []ZoneData {
	out := make([]ZoneData, len(zones))
	for i, zd := range zones {
		if zd.Dynamic != nil {
			dyn := *zd.Dynamic
			dyn.Years = slices.Clone(dyn.Years)
			zd.Dynamic = &dyn
		}
		zd.Normalize()
		out[i] = zd
	}
	slices.SortStableFunc(out, func(a, b ZoneData) int {
		return strings.Compare(a.KeyName, b.KeyName)
	})
	return out
}

// Fingerprint returns the hex encoded blake3 digest of the deterministic
// CBOR encoding of zd.
func Fingerprint(zd ZoneData) (string, error) {
	payload, err := marshalDeterministic(normalized([]ZoneData{zd})[0])
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// WriteSnapshot writes an xz compressed, deterministic CBOR encoding of
// the document to w and returns the hex encoded blake3 digest of the CBOR
// payload. Zones are written in key name order.
func WriteSnapshot(w io.Writer, doc Document) (string, error) {
	payload, err := marshalDeterministic(snapshot{
		SystemZone: doc.SystemZone,
		Zones:      normalized(doc.Zones),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	sum := blake3.Sum256(payload)
	if _, err := io.WriteString(w, snapshotMagic); err != nil {
		return "", err
	}
	if _, err := w.Write(sum[:]); err != nil {
		return "", err
	}
	xw, err := xz.NewWriter(w)
	if err != nil {
		return "", err
	}
	if _, err := xw.Write(payload); err != nil {
		return "", err
	}
	if err := xw.Close(); err != nil {
		return "", err
	}
	return hex.EncodeToString(sum[:]), nil
}

// ReadSnapshot reads a snapshot written by WriteSnapshot, verifying its
// digest, and returns the document and the digest.
func ReadSnapshot(r io.Reader) (Document, string, error) {
	header := make([]byte, len(snapshotMagic)+32)
	if _, err := io.ReadFull(r, header); err != nil {
		return Document{}, "", fmt.Errorf("failed to read snapshot header: %w", err)
	}
	if !bytes.HasPrefix(header, []byte(snapshotMagic)) {
		return Document{}, "", fmt.Errorf("not a snapshot")
	}
	digest := header[len(snapshotMagic):]
	xr, err := xz.NewReader(r)
	if err != nil {
		return Document{}, "", fmt.Errorf("failed to decompress snapshot: %w", err)
	}
	payload, err := io.ReadAll(io.LimitReader(xr, maxSnapshotPayload+1))
	if err != nil {
		return Document{}, "", fmt.Errorf("failed to decompress snapshot: %w", err)
	}
	if int64(len(payload)) > maxSnapshotPayload {
		return Document{}, "", fmt.Errorf("snapshot payload exceeds %v bytes", maxSnapshotPayload)
	}
	sum := blake3.Sum256(payload)
	if !bytes.Equal(sum[:], digest) {
		return Document{}, "", fmt.Errorf("snapshot digest mismatch: got %x, want %x", sum, digest)
	}
	var snap snapshot
	if err := cbor.Unmarshal(payload, &snap); err != nil {
		return Document{}, "", fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return Document{SystemZone: snap.SystemZone, Zones: snap.Zones}, hex.EncodeToString(digest), nil
}

// IsSnapshot reports whether data starts with a snapshot header.
func IsSnapshot(data []byte) bool {
	return bytes.HasPrefix(data, []byte(snapshotMagic))
}
