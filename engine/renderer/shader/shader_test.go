package shader

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const triangleWGSL = `
struct VertexInput {
    @location(1) color: vec3<f32>,
    @location(0) position: vec2<f32>,
};

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) color: vec3<f32>,
};

// @group(9) @binding(9) var<uniform> commented: f32;
@group(0) @binding(1) var tex: texture_2d<f32>;
@group(0) @binding(0) var<uniform> tint: vec4<f32>;

/* @vertex fn not_this() {} */
@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = vec4<f32>(in.position, 0.0, 1.0);
    out.color = in.color;
    return out;
}

@fragment
fn fs_main(@location(0) color: vec3<f32>) -> @location(0) vec4<f32> {
    return vec4<f32>(color, 1.0);
}
`

// spirvHeader returns a five word SPIR-V header, which is all ValidateBytecode inspects.
func spirvHeader() []byte {
	words := []uint32{spirvMagic, 0x00010300, 0, 1, 0}
	out := make([]byte, len(words)*4)
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[i*4:], w)
	}
	return out
}

func TestValidateBytecode(t *testing.T) {
	tests := []struct {
		name    string
		code    []byte
		wantErr bool
	}{
		{"valid header", spirvHeader(), false},
		{"empty", nil, true},
		{"unaligned", append(spirvHeader(), 0x01), true},
		{"bad magic", []byte{1, 2, 3, 4, 5, 6, 7, 8}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBytecode(tt.code)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidBytecode) {
				t.Fatalf("err = %v, want ErrInvalidBytecode", err)
			}
		})
	}
}

func TestNewShaderFromSPIRV(t *testing.T) {
	code := spirvHeader()
	s, err := NewShader("tri.vert", ShaderTypeVertex, WithSPIRV(code))
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	if s.EntryPoint() != "main" {
		t.Errorf("EntryPoint = %q, want main", s.EntryPoint())
	}
	if &s.Code()[0] != &code[0] {
		t.Error("bytecode was copied, want the caller's buffer")
	}
	if s.VertexInputs() != nil {
		t.Errorf("VertexInputs = %v, want nil for bytecode", s.VertexInputs())
	}
}

func TestNewShaderErrors(t *testing.T) {
	if _, err := NewShader("none", ShaderTypeVertex); !errors.Is(err, ErrNoSource) {
		t.Errorf("no source: err = %v, want ErrNoSource", err)
	}
	if _, err := NewShader("bad", ShaderTypeVertex, WithSPIRV([]byte{0, 0, 0})); !errors.Is(err, ErrInvalidBytecode) {
		t.Errorf("bad bytecode: err = %v, want ErrInvalidBytecode", err)
	}
	if _, err := NewShader("missing", ShaderTypeVertex, WithSourceFromPath(filepath.Join(t.TempDir(), "nope.wgsl"))); err == nil {
		t.Error("missing file: want error")
	}
}

func TestNewShaderFromSPVPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.spv")
	if err := os.WriteFile(path, spirvHeader(), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := NewShader("tri", ShaderTypeFragment, WithSourceFromPath(path), WithEntryPoint("fs"))
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	if s.Source() != "" {
		t.Errorf("Source = %q, want empty for .spv", s.Source())
	}
	if s.EntryPoint() != "fs" {
		t.Errorf("EntryPoint = %q, want fs", s.EntryPoint())
	}
	if s.SourcePath() != path {
		t.Errorf("SourcePath = %q, want %q", s.SourcePath(), path)
	}
}

func TestNewShaderCompilesWGSL(t *testing.T) {
	src := `
@vertex
fn main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`
	s, err := NewShader("wgsl", ShaderTypeVertex, WithWGSL(src), WithValidation(false))
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}
	if err := ValidateBytecode(s.Code()); err != nil {
		t.Fatalf("compiled bytecode invalid: %v", err)
	}
}

func TestParseEntryPoint(t *testing.T) {
	tests := []struct {
		stage ShaderType
		want  string
	}{
		{ShaderTypeVertex, "vs_main"},
		{ShaderTypeFragment, "fs_main"},
		{ShaderTypeCompute, ""},
	}
	for _, tt := range tests {
		t.Run(tt.stage.String(), func(t *testing.T) {
			if got := parseEntryPoint(triangleWGSL, tt.stage); got != tt.want {
				t.Fatalf("parseEntryPoint = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseVertexInputs(t *testing.T) {
	got := parseVertexInputs(triangleWGSL)
	want := []VertexInput{
		{Location: 0, Name: "position", TypeName: "vec2<f32>"},
		{Location: 1, Name: "color", TypeName: "vec3<f32>"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d inputs (%v), want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("input %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseResourceBindings(t *testing.T) {
	got := parseResourceBindings(triangleWGSL)
	if len(got) != 2 {
		t.Fatalf("got %d bindings (%v), want 2", len(got), got)
	}
	if got[0].Binding != 0 || got[0].Name != "tint" || got[0].AddressSpace != "uniform" {
		t.Errorf("binding 0 = %+v", got[0])
	}
	if got[1].Binding != 1 || got[1].Name != "tex" || got[1].TypeName != "texture_2d<f32>" {
		t.Errorf("binding 1 = %+v", got[1])
	}
}

func TestSplitAtTopLevelCommas(t *testing.T) {
	got := splitAtTopLevelCommas("a: array<f32, 4>, b: u32")
	if len(got) != 2 {
		t.Fatalf("got %q, want two parts", got)
	}
}

func TestCompileAll(t *testing.T) {
	reqs := []Request{
		{Key: "a", Type: ShaderTypeVertex, Options: []ShaderBuilderOption{WithSPIRV(spirvHeader())}},
		{Key: "b", Type: ShaderTypeFragment, Options: []ShaderBuilderOption{WithSPIRV(spirvHeader())}},
		{Key: "broken", Type: ShaderTypeFragment},
	}
	got, err := CompileAll(2, reqs)
	if !errors.Is(err, ErrNoSource) {
		t.Fatalf("err = %v, want ErrNoSource joined", err)
	}
	if len(got) != 2 || got["a"] == nil || got["b"] == nil {
		t.Fatalf("got %v, want a and b", got)
	}
}

func TestCompileAllEmpty(t *testing.T) {
	got, err := CompileAll(0, nil)
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v", got, err)
	}
}
