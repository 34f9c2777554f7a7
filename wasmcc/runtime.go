package wasmcc

import (
	"context"
	"fmt"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	"github.com/gogpu/spirvcross"
)

// Config holds configuration for runtime creation.
type Config struct {
	// MemoryLimitPages caps guest memory in 64KB pages. 0 keeps the
	// wazero default.
	MemoryLimitPages uint32

	// Logger receives debug logging. Nil disables it.
	Logger *zap.Logger
}

// Runtime hosts one guest instance of the wasm compiler build and
// implements spirvcross.Backend on top of it.
type Runtime struct {
	mu      sync.Mutex
	runtime wazero.Runtime
	module  api.Module
	logger  *zap.Logger
	lastErr string

	malloc         api.Function
	free           api.Function
	mslNew         api.Function
	mslSetOptions  api.Function
	mslCompile     api.Function
	baseRelease    api.Function
	freePointer    api.Function
	rasterDisabled api.Function
	latestMsg      api.Function
}

// guestString is an owned string living in guest linear memory.
type guestString struct {
	rt  *Runtime
	ptr uint32
}

// Bytes copies the NUL-terminated contents out of guest memory.
func (s *guestString) Bytes() []byte {
	return s.rt.readCString(s.ptr)
}

// New loads and instantiates a wasm32 build of the wrapped compiler.
func New(ctx context.Context, wasmBytes []byte) (*Runtime, error) {
	return NewWithConfig(ctx, wasmBytes, nil)
}

// NewWithConfig is New with explicit configuration.
func NewWithConfig(ctx context.Context, wasmBytes []byte, cfg *Config) (*Runtime, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	logger := zap.NewNop()
	if cfg != nil {
		if cfg.MemoryLimitPages > 0 {
			runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
		}
		if cfg.Logger != nil {
			logger = cfg.Logger
		}
	}

	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	wasi_snapshot_preview1.MustInstantiate(ctx, r)

	compiled, err := r.CompileModule(ctx, wasmBytes)
	if err != nil {
		r.Close(ctx)
		return nil, fmt.Errorf("wasmcc: compile module: %w", err)
	}

	mod, err := r.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("spirvcross"))
	if err != nil {
		r.Close(ctx)
		return nil, fmt.Errorf("wasmcc: instantiate module: %w", err)
	}

	rt := &Runtime{runtime: r, module: mod, logger: logger}
	for _, bind := range []struct {
		fn   *api.Function
		name string
	}{
		{&rt.malloc, "malloc"},
		{&rt.free, "free"},
		{&rt.mslNew, "sc_internal_compiler_msl_new"},
		{&rt.mslSetOptions, "sc_internal_compiler_msl_set_options"},
		{&rt.mslCompile, "sc_internal_compiler_msl_compile"},
		{&rt.baseRelease, "sc_internal_compiler_base_release"},
		{&rt.freePointer, "sc_internal_free_pointer"},
		{&rt.rasterDisabled, "sc_internal_compiler_msl_get_is_rasterization_disabled"},
		{&rt.latestMsg, "sc_internal_get_latest_exception_message"},
	} {
		f := mod.ExportedFunction(bind.name)
		if f == nil {
			r.Close(ctx)
			return nil, fmt.Errorf("wasmcc: guest does not export %q", bind.name)
		}
		*bind.fn = f
	}

	logger.Debug("instantiated wasm compiler build",
		zap.Int("module_bytes", len(wasmBytes)))
	return rt, nil
}

// Close tears down the wazero runtime. All sessions built on this
// backend must be closed first.
func (r *Runtime) Close(ctx context.Context) error {
	return r.runtime.Close(ctx)
}

// Construct implements spirvcross.Backend.
func (r *Runtime) Construct(words []uint32) (spirvcross.Handle, spirvcross.Code) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx := context.Background()

	wordsPtr, err := r.allocWrite(ctx, encodeWords(words))
	if err != nil {
		return 0, r.hostFailure("construct", err)
	}
	defer r.guestFree(ctx, wordsPtr)

	outPtr, err := r.allocWrite(ctx, make([]byte, 4))
	if err != nil {
		return 0, r.hostFailure("construct", err)
	}
	defer r.guestFree(ctx, outPtr)

	res, err := r.mslNew.Call(ctx, uint64(outPtr), uint64(wordsPtr), uint64(len(words)))
	if err != nil {
		return 0, r.hostFailure("construct", err)
	}
	if code := spirvcross.Code(int32(res[0])); code != spirvcross.CodeSuccess {
		return 0, code
	}

	h, ok := r.module.Memory().ReadUint32Le(outPtr)
	if !ok {
		return 0, r.hostFailure("construct", fmt.Errorf("result pointer out of range"))
	}
	return spirvcross.Handle(h), spirvcross.CodeSuccess
}

// Configure implements spirvcross.Backend.
func (r *Runtime) Configure(h spirvcross.Handle, opts *spirvcross.MSLOptions) spirvcross.Code {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx := context.Background()

	optsPtr, err := r.allocWrite(ctx, encodeOptions(opts))
	if err != nil {
		return r.hostFailure("configure", err)
	}
	defer r.guestFree(ctx, optsPtr)

	res, err := r.mslSetOptions.Call(ctx, uint64(h), uint64(optsPtr))
	if err != nil {
		return r.hostFailure("configure", err)
	}
	return spirvcross.Code(int32(res[0]))
}

// Compile implements spirvcross.Backend. The override arrays are
// staged into guest memory for the single call and freed before it
// returns; only the generated string outlives the call.
func (r *Runtime) Compile(h spirvcross.Handle, attrs []spirvcross.VertexAttr, bindings []spirvcross.ResourceBinding) (spirvcross.String, spirvcross.Code) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx := context.Background()

	outPtr, err := r.allocWrite(ctx, make([]byte, 4))
	if err != nil {
		return nil, r.hostFailure("compile", err)
	}
	defer r.guestFree(ctx, outPtr)

	var attrPtr uint32
	if len(attrs) > 0 {
		if attrPtr, err = r.allocWrite(ctx, encodeVertexAttrs(attrs)); err != nil {
			return nil, r.hostFailure("compile", err)
		}
		defer r.guestFree(ctx, attrPtr)
	}

	var bindingPtr uint32
	if len(bindings) > 0 {
		if bindingPtr, err = r.allocWrite(ctx, encodeResourceBindings(bindings)); err != nil {
			return nil, r.hostFailure("compile", err)
		}
		defer r.guestFree(ctx, bindingPtr)
	}

	res, err := r.mslCompile.Call(ctx,
		uint64(h), uint64(outPtr),
		uint64(attrPtr), uint64(len(attrs)),
		uint64(bindingPtr), uint64(len(bindings)))
	if err != nil {
		return nil, r.hostFailure("compile", err)
	}
	if code := spirvcross.Code(int32(res[0])); code != spirvcross.CodeSuccess {
		return nil, code
	}

	strPtr, ok := r.module.Memory().ReadUint32Le(outPtr)
	if !ok {
		return nil, r.hostFailure("compile", fmt.Errorf("result pointer out of range"))
	}
	return &guestString{rt: r, ptr: strPtr}, spirvcross.CodeSuccess
}

// FreeString implements spirvcross.Backend.
func (r *Runtime) FreeString(s spirvcross.String) spirvcross.Code {
	gs, ok := s.(*guestString)
	if !ok || gs.rt != r {
		return spirvcross.CodeUnhandled
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	ctx := context.Background()

	res, err := r.freePointer.Call(ctx, uint64(gs.ptr))
	if err != nil {
		return r.hostFailure("free_string", err)
	}
	gs.ptr = 0
	return spirvcross.Code(int32(res[0]))
}

// RasterizationDisabled implements spirvcross.Backend.
func (r *Runtime) RasterizationDisabled(h spirvcross.Handle) (bool, spirvcross.Code) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx := context.Background()

	outPtr, err := r.allocWrite(ctx, make([]byte, 1))
	if err != nil {
		return false, r.hostFailure("query", err)
	}
	defer r.guestFree(ctx, outPtr)

	res, err := r.rasterDisabled.Call(ctx, uint64(h), uint64(outPtr))
	if err != nil {
		return false, r.hostFailure("query", err)
	}
	if code := spirvcross.Code(int32(res[0])); code != spirvcross.CodeSuccess {
		return false, code
	}

	b, ok := r.module.Memory().ReadByte(outPtr)
	if !ok {
		return false, r.hostFailure("query", fmt.Errorf("result pointer out of range"))
	}
	return b != 0, spirvcross.CodeSuccess
}

// Release implements spirvcross.Backend.
func (r *Runtime) Release(h spirvcross.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := r.baseRelease.Call(context.Background(), uint64(h)); err != nil {
		r.lastErr = err.Error()
		r.logger.Warn("guest release failed", zap.Error(err))
	}
}

// LastError implements spirvcross.Backend. It prefers the guest's
// recorded exception message and falls back to the last host-side
// failure.
func (r *Runtime) LastError() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctx := context.Background()

	outPtr, err := r.allocWrite(ctx, make([]byte, 4))
	if err == nil {
		defer r.guestFree(ctx, outPtr)
		if res, callErr := r.latestMsg.Call(ctx, uint64(outPtr)); callErr == nil &&
			spirvcross.Code(int32(res[0])) == spirvcross.CodeSuccess {
			if msgPtr, ok := r.module.Memory().ReadUint32Le(outPtr); ok && msgPtr != 0 {
				msg := string(r.readCString(msgPtr))
				r.freePointer.Call(ctx, uint64(msgPtr))
				if msg != "" {
					return msg
				}
			}
		}
	}
	return r.lastErr
}

// allocWrite allocates guest memory and copies data into it.
func (r *Runtime) allocWrite(ctx context.Context, data []byte) (uint32, error) {
	res, err := r.malloc.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("guest malloc: %w", err)
	}
	ptr := uint32(res[0])
	if ptr == 0 {
		return 0, fmt.Errorf("guest malloc returned null for %d bytes", len(data))
	}
	if !r.module.Memory().Write(ptr, data) {
		return 0, fmt.Errorf("write %d bytes at 0x%x out of range", len(data), ptr)
	}
	return ptr, nil
}

func (r *Runtime) guestFree(ctx context.Context, ptr uint32) {
	if ptr == 0 {
		return
	}
	if _, err := r.free.Call(ctx, uint64(ptr)); err != nil {
		r.logger.Warn("guest free failed", zap.Error(err))
	}
}

// readCString copies a NUL-terminated guest string. Must be called
// with r.mu held or from a String still owned by the caller.
func (r *Runtime) readCString(ptr uint32) []byte {
	mem := r.module.Memory()
	var out []byte
	for off := ptr; ; off++ {
		b, ok := mem.ReadByte(off)
		if !ok || b == 0 {
			break
		}
		out = append(out, b)
	}
	return out
}

// hostFailure records a host-side (non-native) failure and maps it to
// the unhandled code so the session error still carries a diagnosis.
func (r *Runtime) hostFailure(op string, err error) spirvcross.Code {
	r.lastErr = fmt.Sprintf("%s: %v", op, err)
	r.logger.Debug("guest call failed", zap.String("op", op), zap.Error(err))
	return spirvcross.CodeUnhandled
}
