// Package spirv provides the SPIR-V module wrapper and the shared
// enumerations used when targeting the cross-compiler: execution
// models, built-in decorations, and vertex stepping modes.
package spirv

import (
	"encoding/binary"
	"fmt"
)

// Magic is the SPIR-V magic number, the first word of every module.
const Magic uint32 = 0x07230203

// Module is a SPIR-V module expressed as its raw 32-bit word stream.
// The words are handed to the native compiler verbatim; no parsing or
// validation happens on this side of the boundary.
type Module struct {
	Words []uint32
}

// NewModule wraps an existing word stream.
func NewModule(words []uint32) Module {
	return Module{Words: words}
}

// ModuleFromBytes decodes a little-endian SPIR-V binary, as produced by
// glslang, naga, or read from a .spv file.
func ModuleFromBytes(b []byte) (Module, error) {
	if len(b) == 0 {
		return Module{}, fmt.Errorf("spirv: empty module")
	}
	if len(b)%4 != 0 {
		return Module{}, fmt.Errorf("spirv: module length %d is not a multiple of 4", len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return Module{Words: words}, nil
}
