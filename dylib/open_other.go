//go:build !darwin && !linux

package dylib

import (
	"fmt"
	"runtime"
)

// Open is unavailable on this platform; use the wasmcc backend instead.
func Open(path string) (*Library, error) {
	return nil, fmt.Errorf("dylib: shared library loading is not supported on %s", runtime.GOOS)
}
