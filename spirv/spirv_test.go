package spirv

import (
	"reflect"
	"testing"
)

func TestModuleFromBytes(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		want    []uint32
		wantErr bool
	}{
		{
			name: "header words",
			in:   []byte{0x03, 0x02, 0x23, 0x07, 0x00, 0x00, 0x01, 0x00},
			want: []uint32{Magic, 0x00010000},
		},
		{name: "empty", in: nil, wantErr: true},
		{name: "truncated word", in: []byte{0x03, 0x02, 0x23}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ModuleFromBytes(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ModuleFromBytes error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got.Words, tt.want) {
				t.Errorf("Words = %#v, want %#v", got.Words, tt.want)
			}
		})
	}
}

func TestExecutionModel_Raw(t *testing.T) {
	tests := []struct {
		model ExecutionModel
		want  uint32
	}{
		{ExecutionModelVertex, 0},
		{ExecutionModelTessellationControl, 1},
		{ExecutionModelTessellationEvaluation, 2},
		{ExecutionModelGeometry, 3},
		{ExecutionModelFragment, 4},
		{ExecutionModelGLCompute, 5},
		{ExecutionModelKernel, 6},
	}

	for _, tt := range tests {
		t.Run(tt.model.String(), func(t *testing.T) {
			if got := tt.model.Raw(); got != tt.want {
				t.Errorf("Raw() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuiltInRaw(t *testing.T) {
	if got := BuiltInRaw(nil); got != 0x7fffffff {
		t.Errorf("BuiltInRaw(nil) = %#x, want the none sentinel", got)
	}

	b := BuiltInVertexIndex
	if got := BuiltInRaw(&b); got != 42 {
		t.Errorf("BuiltInRaw(VertexIndex) = %d, want 42", got)
	}
}
