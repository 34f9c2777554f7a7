package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/gogpu/spirvcross"
	"github.com/gogpu/spirvcross/dylib"
	"github.com/gogpu/spirvcross/msl"
	"github.com/gogpu/spirvcross/nativetest"
	"github.com/gogpu/spirvcross/spirv"
	"github.com/gogpu/spirvcross/wasmcc"
)

type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func main() {
	var (
		spvFile     = flag.String("spv", "", "Path to SPIR-V binary")
		libPath     = flag.String("lib", "", "Shared library build of the compiler")
		wasmPath    = flag.String("wasm", "", "wasm32 build of the compiler")
		outFile     = flag.String("o", "", "Write MSL here instead of stdout")
		platform    = flag.String("platform", "macos", "Target platform (macos|ios)")
		version     = flag.String("version", "1.2", "Target MSL version (major.minor)")
		invertY     = flag.Bool("invert-y", false, "Invert clip-space Y in the vertex stage")
		clipSpace   = flag.Bool("transform-clip-space", false, "Remap clip-space Z to [0, 1]")
		noRaster    = flag.Bool("no-rasterization", false, "Disable rasterization")
		argBuffers  = flag.Bool("argument-buffers", false, "Use Metal argument buffers (MSL 2.0+)")
		captureOut  = flag.Bool("capture-output", false, "Capture shader output to a buffer")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive option inspector")
		attrFlags   multiFlag
		bindFlags   multiFlag
	)
	flag.Var(&attrFlags, "attr", "Vertex attribute override: loc=buffer,offset,stride[,instance][,u8|u16] (repeatable)")
	flag.Var(&bindFlags, "bind", "Resource binding override: stage:set:binding=buffer,texture,sampler (repeatable)")
	flag.Parse()

	if *spvFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: spvcross -spv <file.spv> [-lib libspirv-cross.so | -wasm compiler.wasm] [options]")
		fmt.Fprintln(os.Stderr, "       spvcross -spv <file.spv> -i  (interactive mode)")
		fmt.Fprintln(os.Stderr, "Without -lib or -wasm a deterministic fake backend is used (demo only).")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			msl.SetLogger(logger)
			defer logger.Sync()
		}
	}

	opts := msl.DefaultOptions()
	if err := applyScalarFlags(&opts, *platform, *version, *invertY, *clipSpace, *noRaster, *argBuffers, *captureOut); err != nil {
		fail(err)
	}
	for _, a := range attrFlags {
		if err := parseAttrOverride(&opts, a); err != nil {
			fail(err)
		}
	}
	for _, b := range bindFlags {
		if err := parseBindOverride(&opts, b); err != nil {
			fail(err)
		}
	}

	backend, cleanup, err := openBackend(*libPath, *wasmPath)
	if err != nil {
		fail(err)
	}
	defer cleanup()

	if *interactive {
		if err := runInteractive(*spvFile, backend, opts); err != nil {
			fail(err)
		}
		return
	}

	if err := run(*spvFile, *outFile, backend, opts); err != nil {
		fail(err)
	}
}

func fail(err error) {
	style := lipgloss.NewStyle()
	if term.IsTerminal(int(os.Stderr.Fd())) {
		style = style.Foreground(lipgloss.Color("#FF6B6B"))
	}
	fmt.Fprintln(os.Stderr, style.Render(fmt.Sprintf("Error: %v", err)))
	os.Exit(1)
}

func openBackend(libPath, wasmPath string) (spirvcross.Backend, func(), error) {
	switch {
	case libPath != "" && wasmPath != "":
		return nil, nil, fmt.Errorf("-lib and -wasm are mutually exclusive")
	case libPath != "":
		lib, err := dylib.Open(libPath)
		if err != nil {
			return nil, nil, err
		}
		return lib, func() {}, nil
	case wasmPath != "":
		data, err := os.ReadFile(wasmPath)
		if err != nil {
			return nil, nil, fmt.Errorf("read wasm build: %w", err)
		}
		ctx := context.Background()
		rt, err := wasmcc.New(ctx, data)
		if err != nil {
			return nil, nil, err
		}
		return rt, func() { rt.Close(ctx) }, nil
	default:
		return nativetest.New(), func() {}, nil
	}
}

func run(spvFile, outFile string, backend spirvcross.Backend, opts msl.CompilerOptions) error {
	data, err := os.ReadFile(spvFile)
	if err != nil {
		return fmt.Errorf("read module: %w", err)
	}
	module, err := spirv.ModuleFromBytes(data)
	if err != nil {
		return err
	}

	compiler, err := msl.NewCompiler(backend, module)
	if err != nil {
		return err
	}
	defer compiler.Close()

	if err := compiler.SetOptions(opts); err != nil {
		return err
	}
	source, err := compiler.Compile()
	if err != nil {
		return err
	}

	if outFile != "" {
		return os.WriteFile(outFile, []byte(source), 0o644)
	}
	fmt.Print(source)
	return nil
}

func applyScalarFlags(opts *msl.CompilerOptions, platform, version string, invertY, clipSpace, noRaster, argBuffers, captureOut bool) error {
	switch platform {
	case "macos":
		opts.Platform = msl.PlatformMacOS
	case "ios":
		opts.Platform = msl.PlatformIOS
	default:
		return fmt.Errorf("unknown platform %q (want macos or ios)", platform)
	}

	v, err := msl.ParseVersion(version)
	if err != nil {
		return err
	}
	opts.Version = v

	opts.Vertex.InvertY = invertY
	opts.Vertex.TransformClipSpace = clipSpace
	opts.EnableRasterization = !noRaster
	opts.EnableArgumentBuffers = argBuffers
	opts.CaptureOutputToBuffer = captureOut
	return nil
}

// parseAttrOverride handles loc=buffer,offset,stride[,instance][,u8|u16].
func parseAttrOverride(opts *msl.CompilerOptions, arg string) error {
	key, val, ok := strings.Cut(arg, "=")
	if !ok {
		return fmt.Errorf("attr override %q: want loc=buffer,offset,stride", arg)
	}
	loc, err := strconv.ParseUint(key, 10, 32)
	if err != nil {
		return fmt.Errorf("attr override %q: %w", arg, err)
	}

	parts := strings.Split(val, ",")
	if len(parts) < 3 {
		return fmt.Errorf("attr override %q: want buffer,offset,stride", arg)
	}
	nums := make([]uint32, 3)
	for i := 0; i < 3; i++ {
		n, err := strconv.ParseUint(parts[i], 10, 32)
		if err != nil {
			return fmt.Errorf("attr override %q: %w", arg, err)
		}
		nums[i] = uint32(n)
	}

	attr := msl.VertexAttribute{
		BufferID: nums[0],
		Offset:   nums[1],
		Stride:   nums[2],
	}
	for _, extra := range parts[3:] {
		switch extra {
		case "instance":
			attr.Step = spirv.StepInstance
		case "vertex":
			attr.Step = spirv.StepVertex
		case "u8":
			attr.Format = msl.FormatUint8
		case "u16":
			attr.Format = msl.FormatUint16
		default:
			return fmt.Errorf("attr override %q: unknown modifier %q", arg, extra)
		}
	}

	opts.VertexAttributeOverrides[msl.VertexAttributeLocation(loc)] = attr
	return nil
}

// parseBindOverride handles stage:set:binding=buffer,texture,sampler.
func parseBindOverride(opts *msl.CompilerOptions, arg string) error {
	key, val, ok := strings.Cut(arg, "=")
	if !ok {
		return fmt.Errorf("bind override %q: want stage:set:binding=buffer,texture,sampler", arg)
	}

	keyParts := strings.Split(key, ":")
	if len(keyParts) != 3 {
		return fmt.Errorf("bind override %q: want stage:set:binding", arg)
	}
	stage, err := parseStage(keyParts[0])
	if err != nil {
		return fmt.Errorf("bind override %q: %w", arg, err)
	}
	set, err := strconv.ParseUint(keyParts[1], 10, 32)
	if err != nil {
		return fmt.Errorf("bind override %q: %w", arg, err)
	}
	binding, err := strconv.ParseUint(keyParts[2], 10, 32)
	if err != nil {
		return fmt.Errorf("bind override %q: %w", arg, err)
	}

	valParts := strings.Split(val, ",")
	if len(valParts) != 3 {
		return fmt.Errorf("bind override %q: want buffer,texture,sampler", arg)
	}
	nums := make([]uint32, 3)
	for i, p := range valParts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return fmt.Errorf("bind override %q: %w", arg, err)
		}
		nums[i] = uint32(n)
	}

	opts.ResourceBindingOverrides[msl.ResourceBindingLocation{
		Stage:   stage,
		DescSet: uint32(set),
		Binding: uint32(binding),
	}] = msl.ResourceBinding{BufferID: nums[0], TextureID: nums[1], SamplerID: nums[2]}
	return nil
}

func parseStage(s string) (spirv.ExecutionModel, error) {
	switch s {
	case "vertex":
		return spirv.ExecutionModelVertex, nil
	case "fragment":
		return spirv.ExecutionModelFragment, nil
	case "compute":
		return spirv.ExecutionModelGLCompute, nil
	case "geometry":
		return spirv.ExecutionModelGeometry, nil
	case "tess-control":
		return spirv.ExecutionModelTessellationControl, nil
	case "tess-eval":
		return spirv.ExecutionModelTessellationEvaluation, nil
	case "kernel":
		return spirv.ExecutionModelKernel, nil
	default:
		return 0, fmt.Errorf("unknown stage %q", s)
	}
}
