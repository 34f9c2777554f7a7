package spirv

// ExecutionModel identifies the pipeline stage an entry point or
// resource binding applies to.
type ExecutionModel uint32

// Execution models with their raw SPIR-V encodings.
const (
	ExecutionModelVertex                 ExecutionModel = 0
	ExecutionModelTessellationControl    ExecutionModel = 1
	ExecutionModelTessellationEvaluation ExecutionModel = 2
	ExecutionModelGeometry               ExecutionModel = 3
	ExecutionModelFragment               ExecutionModel = 4
	ExecutionModelGLCompute              ExecutionModel = 5
	ExecutionModelKernel                 ExecutionModel = 6
)

// Raw returns the native encoding. Total over all declared models.
func (m ExecutionModel) Raw() uint32 {
	return uint32(m)
}

// String returns the stage name used in logs and CLI flags.
func (m ExecutionModel) String() string {
	switch m {
	case ExecutionModelVertex:
		return "vertex"
	case ExecutionModelTessellationControl:
		return "tessellation-control"
	case ExecutionModelTessellationEvaluation:
		return "tessellation-evaluation"
	case ExecutionModelGeometry:
		return "geometry"
	case ExecutionModelFragment:
		return "fragment"
	case ExecutionModelGLCompute:
		return "compute"
	case ExecutionModelKernel:
		return "kernel"
	default:
		return "unknown"
	}
}

// BuiltIn identifies a SPIR-V built-in decoration.
type BuiltIn uint32

// Built-ins with their raw SPIR-V encodings.
const (
	BuiltInPosition             BuiltIn = 0
	BuiltInPointSize            BuiltIn = 1
	BuiltInClipDistance         BuiltIn = 3
	BuiltInCullDistance         BuiltIn = 4
	BuiltInVertexID             BuiltIn = 5
	BuiltInInstanceID           BuiltIn = 6
	BuiltInPrimitiveID          BuiltIn = 7
	BuiltInInvocationID         BuiltIn = 8
	BuiltInLayer                BuiltIn = 9
	BuiltInViewportIndex        BuiltIn = 10
	BuiltInTessLevelOuter       BuiltIn = 11
	BuiltInTessLevelInner       BuiltIn = 12
	BuiltInTessCoord            BuiltIn = 13
	BuiltInPatchVertices        BuiltIn = 14
	BuiltInFragCoord            BuiltIn = 15
	BuiltInPointCoord           BuiltIn = 16
	BuiltInFrontFacing          BuiltIn = 17
	BuiltInSampleID             BuiltIn = 18
	BuiltInSamplePosition       BuiltIn = 19
	BuiltInSampleMask           BuiltIn = 20
	BuiltInFragDepth            BuiltIn = 22
	BuiltInHelperInvocation     BuiltIn = 23
	BuiltInNumWorkgroups        BuiltIn = 24
	BuiltInWorkgroupSize        BuiltIn = 25
	BuiltInWorkgroupID          BuiltIn = 26
	BuiltInLocalInvocationID    BuiltIn = 27
	BuiltInGlobalInvocationID   BuiltIn = 28
	BuiltInLocalInvocationIndex BuiltIn = 29
	BuiltInVertexIndex          BuiltIn = 42
	BuiltInInstanceIndex        BuiltIn = 43
)

// builtInNone is the sentinel the native layer uses for "no built-in"
// (spv::BuiltInMax).
const builtInNone uint32 = 0x7fffffff

// BuiltInRaw translates an optional built-in to its native encoding,
// using the none sentinel when b is nil.
func BuiltInRaw(b *BuiltIn) uint32 {
	if b == nil {
		return builtInNone
	}
	return uint32(*b)
}

// VertexAttributeStep selects how a vertex attribute advances.
type VertexAttributeStep uint8

const (
	// StepVertex advances the attribute once per vertex.
	StepVertex VertexAttributeStep = iota
	// StepInstance advances the attribute once per instance.
	StepInstance
)
