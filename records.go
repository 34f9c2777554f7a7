package spirvcross

// Flat records passed by pointer across the native boundary. Field
// order, widths, and names mirror the wrapped compiler's C structs and
// are a compatibility surface: do not reorder or retype fields without
// rebuilding the native wrapper.

// VertexAttr is the flat form of one vertex-attribute override, with
// its location key inlined.
type VertexAttr struct {
	Location    uint32
	MSLBuffer   uint32
	MSLOffset   uint32
	MSLStride   uint32
	PerInstance bool
	_           [3]byte
	Format      uint32
	Builtin     uint32
}

// ResourceBinding is the flat form of one resource-binding override,
// with its (stage, descriptor set, binding) key inlined.
type ResourceBinding struct {
	Stage      uint32
	DescSet    uint32
	Binding    uint32
	MSLBuffer  uint32
	MSLTexture uint32
	MSLSampler uint32
}

// MSLOptions is the flat options record consumed by the native
// compiler's set-options entry point. Note that rasterization is stored
// inverted: this layer's semantic "rasterization enabled" flag becomes
// DisableRasterization on the wire.
type MSLOptions struct {
	VertexInvertY                bool
	VertexTransformClipSpace     bool
	Platform                     uint8
	_                            [1]byte
	Version                      uint32
	EnablePointSizeBuiltin       bool
	DisableRasterization         bool
	_                            [2]byte
	SwizzleBufferIndex           uint32
	IndirectParamsBufferIndex    uint32
	ShaderOutputBufferIndex      uint32
	ShaderPatchOutputBufferIndex uint32
	ShaderTessFactorBufferIndex  uint32
	BufferSizeBufferIndex        uint32
	CaptureOutputToBuffer        bool
	SwizzleTextureSamples        bool
	TessDomainOriginLowerLeft    bool
	ArgumentBuffers              bool
	PadFragmentOutputComponents  bool
	_                            [3]byte
}
