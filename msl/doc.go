// Package msl exposes the Metal Shading Language target of the wrapped
// SPIRV-Cross compiler.
//
// It owns the typed configuration surface (CompilerOptions and the two
// override tables), the translation of that configuration into the flat
// records the native layer expects, and the compilation session that
// carries a native compiler handle through configure and compile calls.
//
// # Usage
//
//	compiler, err := msl.NewCompiler(backend, module)
//	if err != nil {
//	    return err
//	}
//	defer compiler.Close()
//
//	opts := msl.DefaultOptions()
//	opts.Version = msl.Version2_0
//	opts.ResourceBindingOverrides[msl.ResourceBindingLocation{
//	    Stage:   spirv.ExecutionModelFragment,
//	    DescSet: 0,
//	    Binding: 1,
//	}] = msl.ResourceBinding{BufferID: 0, TextureID: 2, SamplerID: 2}
//
//	if err := compiler.SetOptions(opts); err != nil {
//	    return err
//	}
//	source, err := compiler.Compile()
//
// Overrides are cached on the session by SetOptions and re-submitted on
// every Compile; the native compiler does not retain them between
// calls.
package msl
