package msl

import (
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/gogpu/spirvcross"
	"github.com/gogpu/spirvcross/errors"
	"github.com/gogpu/spirvcross/spirv"
)

// Compiler is one compilation session: it owns a single native compiler
// handle plus the override arrays most recently committed through
// SetOptions, which are re-submitted on every Compile.
//
// A Compiler is not safe for concurrent use. Close releases the native
// handle; it is safe to call more than once.
type Compiler struct {
	backend  spirvcross.Backend
	handle   spirvcross.Handle
	attrs    []spirvcross.VertexAttr
	bindings []spirvcross.ResourceBinding
	closed   bool
}

// NewCompiler constructs a session from a SPIR-V module. The word
// stream is parsed by the native layer immediately; a malformed module
// fails here, not at Compile time.
func NewCompiler(backend spirvcross.Backend, module spirv.Module) (*Compiler, error) {
	if backend == nil {
		return nil, errors.Unsupported(errors.StageConstruct, "nil backend")
	}

	handle, code := backend.Construct(module.Words)
	if code != spirvcross.CodeSuccess {
		return nil, errors.Construction(code, nativeDetail(backend, "native layer rejected SPIR-V input"))
	}

	Logger().Debug("constructed msl compiler",
		zap.Int("words", len(module.Words)))

	return &Compiler{backend: backend, handle: handle}, nil
}

// SetOptions translates opts into the flat options record plus the two
// override arrays and submits the record to the native layer. On
// success the session's cached override arrays are replaced wholesale;
// on failure the previous caches stay in effect.
//
// SetOptions may be called any number of times; the last successful
// call wins.
func (c *Compiler) SetOptions(opts CompilerOptions) error {
	if c.closed {
		return errors.Closed(errors.StageConfigure)
	}

	raw := opts.asNative()
	if code := c.backend.Configure(c.handle, &raw); code != spirvcross.CodeSuccess {
		return errors.Configuration(code, nativeDetail(c.backend, "native layer rejected options"))
	}

	c.attrs = opts.VertexAttributeOverrides.translate()
	c.bindings = opts.ResourceBindingOverrides.translate()

	Logger().Debug("configured msl compiler",
		zap.String("platform", opts.Platform.String()),
		zap.String("version", opts.Version.String()),
		zap.Int("vertex_attribute_overrides", len(c.attrs)),
		zap.Int("resource_binding_overrides", len(c.bindings)))

	return nil
}

// Compile generates MSL source using the currently cached override
// arrays. If SetOptions was never called the arrays are empty and the
// native compiler's own defaults apply. The native layer allocates the
// result; Compile copies it into an owned string and releases the
// native allocation exactly once, on the decoding-failure path too.
func (c *Compiler) Compile() (string, error) {
	if c.closed {
		return "", errors.Closed(errors.StageCompile)
	}

	str, code := c.backend.Compile(c.handle, c.attrs, c.bindings)
	if code != spirvcross.CodeSuccess {
		return "", errors.Compilation(code, nativeDetail(c.backend, "code generation failed"))
	}

	// The raw bytes alias native memory: everything derived from them
	// must be copied before the string is freed.
	data := str.Bytes()
	var source string
	var encErr *errors.Error
	if utf8.Valid(data) {
		source = string(data)
	} else {
		encErr = errors.Encoding(data)
	}

	freeCode := c.backend.FreeString(str)

	if encErr != nil {
		return "", encErr
	}
	if freeCode != spirvcross.CodeSuccess {
		return "", errors.Compilation(freeCode, "release generated source")
	}

	Logger().Debug("compiled msl source", zap.Int("bytes", len(source)))
	return source, nil
}

// IsRasterizationEnabled queries the native layer's effective
// rasterization-disabled flag and returns its logical negation.
func (c *Compiler) IsRasterizationEnabled() (bool, error) {
	if c.closed {
		return false, errors.Closed(errors.StageQuery)
	}

	disabled, code := c.backend.RasterizationDisabled(c.handle)
	if code != spirvcross.CodeSuccess {
		return false, errors.Query(code, "rasterization state query failed")
	}
	return !disabled, nil
}

// Close releases the native compiler handle. Further calls are no-ops;
// all other operations fail once the session is closed.
func (c *Compiler) Close() error {
	if c.closed {
		return nil
	}
	c.backend.Release(c.handle)
	c.closed = true
	Logger().Debug("released msl compiler")
	return nil
}

// nativeDetail prefers the backend's recorded exception message over
// the generic fallback.
func nativeDetail(backend spirvcross.Backend, fallback string) string {
	if msg := backend.LastError(); msg != "" {
		return msg
	}
	return fallback
}
