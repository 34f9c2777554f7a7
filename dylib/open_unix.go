//go:build darwin || linux

package dylib

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// Open loads a shared library build of the wrapped compiler and binds
// its exports. The library stays loaded for the process lifetime.
func Open(path string) (*Library, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, fmt.Errorf("dylib: load %s: %w", path, err)
	}

	l := &Library{}
	purego.RegisterLibFunc(&l.mslNew, handle, "sc_internal_compiler_msl_new")
	purego.RegisterLibFunc(&l.mslSetOptions, handle, "sc_internal_compiler_msl_set_options")
	purego.RegisterLibFunc(&l.mslCompile, handle, "sc_internal_compiler_msl_compile")
	purego.RegisterLibFunc(&l.baseRelease, handle, "sc_internal_compiler_base_release")
	purego.RegisterLibFunc(&l.freePointer, handle, "sc_internal_free_pointer")
	purego.RegisterLibFunc(&l.rasterDisabled, handle, "sc_internal_compiler_msl_get_is_rasterization_disabled")
	purego.RegisterLibFunc(&l.latestExceptionMsg, handle, "sc_internal_get_latest_exception_message")
	return l, nil
}
