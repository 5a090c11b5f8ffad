// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/dxt1

package dxt1

import "fmt"

const (
	maxInt32  = int(^uint32(0) >> 1)
	maxUint32 = uint64(^uint32(0))
)

// i32FromInt narrows a size for the EDDS block table.
func i32FromInt(n int) (int32, error) {
	if n < 0 || n > maxInt32 {
		return 0, fmt.Errorf("%w: %d exceeds int32", ErrSizeOverflow, n)
	}

	return int32(n), nil
}

// u32FromInt narrows a dimension or size for the DDS header.
func u32FromInt(n int) (uint32, error) {
	if n < 0 || uint64(n) > maxUint32 {
		return 0, fmt.Errorf("%w: %d exceeds uint32", ErrSizeOverflow, n)
	}

	// #nosec G115 -- bounds checked above.
	return uint32(n), nil
}
