// Package spirvcross provides a safe Go interface to the SPIRV-Cross
// shader cross-compiler for generating Metal Shading Language (MSL)
// source from SPIR-V modules.
//
// The heavy lifting (SPIR-V parsing, control-flow reconstruction, MSL
// code generation) happens inside a wrapped native build of
// SPIRV-Cross. This module is the option-translation layer on top of
// it: a typed, validated configuration surface, translation of that
// configuration into the flat records the native compiler expects, and
// deterministic marshaling of the vertex-attribute and resource-binding
// override tables across the boundary.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	spirvcross/          Root package with the Backend boundary and the
//	│                    flat native record layouts
//	├── spirv/           SPIR-V module wrapper and shared enumerations
//	├── msl/             Compiler options, override tables, and the
//	│                    compilation session
//	├── dylib/           Backend over a native shared library (purego)
//	├── wasmcc/          Backend hosting a wasm32 compiler build (wazero)
//	├── nativetest/      Deterministic in-memory Backend for testing
//	└── errors/          Structured error types for diagnostics
//
// # Quick Start
//
// Cross-compile a SPIR-V module to MSL through a shared library build:
//
//	backend, err := dylib.Open("libspirv-cross-wrapped.so")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	module, err := spirv.ModuleFromBytes(spvBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	compiler, err := msl.NewCompiler(backend, module)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer compiler.Close()
//
//	opts := msl.DefaultOptions()
//	opts.Platform = msl.PlatformIOS
//	if err := compiler.SetOptions(opts); err != nil {
//	    log.Fatal(err)
//	}
//
//	source, err := compiler.Compile()
//	fmt.Println(source)
//
// # Thread Safety
//
// A Compiler session exclusively owns one mutable native handle and one
// override cache; it is NOT safe for concurrent use. Separate sessions
// are independent and may run concurrently when the backend build is
// reentrant.
package spirvcross
