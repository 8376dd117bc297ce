package images

import (
	"crypto/md5"
	"fmt"
)

// ComputeGridChecksum generates a deterministic checksum of a grid's pixels,
// used to verify that an operation did or did not touch pixel data.
//
// Arguments:
// - g: The grid to hash.
//
// Returns:
// - A hex-encoded MD5 checksum string.
//
// Example:
//
// ```go
//
//	before := ComputeGridChecksum(grid)
//	evasion.InjectNoise(grid, 0, rng)
//	fmt.Println(before == ComputeGridChecksum(grid)) // true
//
// ```
func ComputeGridChecksum(g *Grid) string {
	if g == nil || g.img == nil {
		return "empty"
	}

	hash := md5.New()
	fmt.Fprintf(hash, "%dx%d:", g.Width(), g.Height())
	hash.Write(g.img.Pix)
	return fmt.Sprintf("%x", hash.Sum(nil))
}
