package wasmcc

import (
	"encoding/binary"

	"github.com/gogpu/spirvcross"
)

// Fixed wasm32 sizes of the flat records. These mirror the C struct
// layouts the guest wrapper was compiled with.
const (
	optionsSize         = 44
	vertexAttrSize      = 28
	resourceBindingSize = 24
)

func putBool(b []byte, off int, v bool) {
	if v {
		b[off] = 1
	}
}

// encodeOptions lays out one ScMslCompilerOptions record.
func encodeOptions(o *spirvcross.MSLOptions) []byte {
	b := make([]byte, optionsSize)
	putBool(b, 0, o.VertexInvertY)
	putBool(b, 1, o.VertexTransformClipSpace)
	b[2] = o.Platform
	binary.LittleEndian.PutUint32(b[4:], o.Version)
	putBool(b, 8, o.EnablePointSizeBuiltin)
	putBool(b, 9, o.DisableRasterization)
	binary.LittleEndian.PutUint32(b[12:], o.SwizzleBufferIndex)
	binary.LittleEndian.PutUint32(b[16:], o.IndirectParamsBufferIndex)
	binary.LittleEndian.PutUint32(b[20:], o.ShaderOutputBufferIndex)
	binary.LittleEndian.PutUint32(b[24:], o.ShaderPatchOutputBufferIndex)
	binary.LittleEndian.PutUint32(b[28:], o.ShaderTessFactorBufferIndex)
	binary.LittleEndian.PutUint32(b[32:], o.BufferSizeBufferIndex)
	putBool(b, 36, o.CaptureOutputToBuffer)
	putBool(b, 37, o.SwizzleTextureSamples)
	putBool(b, 38, o.TessDomainOriginLowerLeft)
	putBool(b, 39, o.ArgumentBuffers)
	putBool(b, 40, o.PadFragmentOutputComponents)
	return b
}

// encodeVertexAttrs lays out a contiguous MslVertexAttr array.
func encodeVertexAttrs(attrs []spirvcross.VertexAttr) []byte {
	b := make([]byte, len(attrs)*vertexAttrSize)
	for i, a := range attrs {
		rec := b[i*vertexAttrSize:]
		binary.LittleEndian.PutUint32(rec[0:], a.Location)
		binary.LittleEndian.PutUint32(rec[4:], a.MSLBuffer)
		binary.LittleEndian.PutUint32(rec[8:], a.MSLOffset)
		binary.LittleEndian.PutUint32(rec[12:], a.MSLStride)
		putBool(rec, 16, a.PerInstance)
		binary.LittleEndian.PutUint32(rec[20:], a.Format)
		binary.LittleEndian.PutUint32(rec[24:], a.Builtin)
	}
	return b
}

// encodeResourceBindings lays out a contiguous MslResourceBinding array.
func encodeResourceBindings(bindings []spirvcross.ResourceBinding) []byte {
	b := make([]byte, len(bindings)*resourceBindingSize)
	for i, r := range bindings {
		rec := b[i*resourceBindingSize:]
		binary.LittleEndian.PutUint32(rec[0:], r.Stage)
		binary.LittleEndian.PutUint32(rec[4:], r.DescSet)
		binary.LittleEndian.PutUint32(rec[8:], r.Binding)
		binary.LittleEndian.PutUint32(rec[12:], r.MSLBuffer)
		binary.LittleEndian.PutUint32(rec[16:], r.MSLTexture)
		binary.LittleEndian.PutUint32(rec[20:], r.MSLSampler)
	}
	return b
}

// encodeWords lays out the SPIR-V word stream.
func encodeWords(words []uint32) []byte {
	b := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(b[i*4:], w)
	}
	return b
}
