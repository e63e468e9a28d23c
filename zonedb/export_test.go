// Copyright 2025 Cosmos Nicolaou. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package zonedb

// SetMaxSnapshotPayload sets the payload limit used by ReadSnapshot and
// returns a function that restores the previous limit.
func SetMaxSnapshotPayload(n int64) func() {
	prev := maxSnapshotPayload
	maxSnapshotPayload = n
	return func() { maxSnapshotPayload = prev }
}
