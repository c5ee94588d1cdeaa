package utils

import "io"

// Close closes c and ignores any error.
// Use for best-effort cleanup on error paths where the first error wins.
func Close(c io.Closer) {
	_ = c.Close()
}
