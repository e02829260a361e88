package renderer

import (
	"encoding/binary"
	"errors"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/vulkan"
	vk "github.com/goki/vulkan"
)

var errBackend = errors.New("backend failure")

// fakeBackend records backend calls as "op:key" strings.
type fakeBackend struct {
	calls       []string
	modules     map[string]int
	failModule  map[string]bool
	failPipe    map[string]bool
	passChanged bool
	configErr   error
	nextNative  int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		modules:    map[string]int{},
		failModule: map[string]bool{},
		failPipe:   map[string]bool{},
	}
}

func (f *fakeBackend) DeviceInfo() vulkan.DeviceInfo {
	return vulkan.DeviceInfo{Name: "fake", Type: "discrete"}
}

func (f *fakeBackend) DefaultPipelineDescription() pipeline.Description {
	return pipeline.DefaultDescription()
}

func (f *fakeBackend) CreateShaderModule(s shader.Shader) error {
	f.calls = append(f.calls, "module:"+s.Key())
	if f.failModule[s.Key()] {
		return errBackend
	}
	f.modules[s.Key()]++
	return nil
}

func (f *fakeBackend) DestroyShaderModule(key string) {
	f.calls = append(f.calls, "destroy-module:"+key)
	delete(f.modules, key)
}

func (f *fakeBackend) CreatePipeline(p pipeline.Pipeline) error {
	f.calls = append(f.calls, "pipeline:"+p.PipelineKey())
	if f.failPipe[p.PipelineKey()] {
		return errBackend
	}
	f.nextNative++
	p.SetNative(f.nextNative)
	return nil
}

func (f *fakeBackend) DestroyPipeline(p pipeline.Pipeline) {
	if p.Native() == nil {
		return
	}
	f.calls = append(f.calls, "destroy-pipeline:"+p.PipelineKey())
	p.SetNative(nil)
}

func (f *fakeBackend) ConfigureSurface(width, height int) (bool, error) {
	f.calls = append(f.calls, "configure")
	return f.passChanged, f.configErr
}

func (f *fakeBackend) Destroy() {
	f.calls = append(f.calls, "destroy-backend")
}

func (f *fakeBackend) reset() {
	f.calls = nil
}

type fakeTarget struct{ w, h int }

func (t fakeTarget) NativeHandles() vulkan.NativeHandles { return vulkan.NativeHandles{Window: 1} }
func (t fakeTarget) Width() int                          { return t.w }
func (t fakeTarget) Height() int                         { return t.h }

func testSPIRV() []byte {
	code := make([]byte, 20)
	binary.LittleEndian.PutUint32(code, 0x07230203)
	return code
}

func testShader(t *testing.T, key string, stage shader.ShaderType) shader.Shader {
	t.Helper()
	s, err := shader.NewShader(key, stage, shader.WithSPIRV(testSPIRV()))
	if err != nil {
		t.Fatalf("NewShader(%q): %v", key, err)
	}
	return s
}

func newTestRenderer(t *testing.T, b *fakeBackend, opts ...RendererBuilderOption) Renderer {
	t.Helper()
	r, err := NewRenderer(BackendTypeVulkan, fakeTarget{w: 800, h: 600}, append([]RendererBuilderOption{WithBackend(b)}, opts...)...)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	return r
}

func TestNewRendererPreregisters(t *testing.T) {
	b := newFakeBackend()
	vs := testShader(t, "vs", shader.ShaderTypeVertex)
	fs := testShader(t, "fs", shader.ShaderTypeFragment)
	p := pipeline.NewPipeline("tri", pipeline.WithVertexShader(vs), pipeline.WithFragmentShader(fs))

	r := newTestRenderer(t, b, WithShaders(vs, fs), WithPipelines(p))

	want := []string{"module:vs", "module:fs", "pipeline:tri"}
	if !slices.Equal(b.calls, want) {
		t.Fatalf("calls = %v, want %v", b.calls, want)
	}
	if r.Pipeline("tri") != p || p.Native() == nil {
		t.Fatal("pipeline not cached or not built")
	}
	if r.Shader("vs") != vs {
		t.Fatal("shader not cached")
	}
	if r.DeviceInfo().Name != "fake" {
		t.Fatalf("DeviceInfo = %+v", r.DeviceInfo())
	}
}

func TestNewRendererFailureDestroysBackend(t *testing.T) {
	b := newFakeBackend()
	b.failModule["fs"] = true
	vs := testShader(t, "vs", shader.ShaderTypeVertex)
	fs := testShader(t, "fs", shader.ShaderTypeFragment)

	r, err := NewRenderer(BackendTypeVulkan, nil, WithBackend(b), WithShaders(vs, fs))
	if r != nil || !errors.Is(err, errBackend) {
		t.Fatalf("NewRenderer = %v, %v", r, err)
	}
	want := []string{"module:vs", "module:fs", "destroy-module:vs", "destroy-backend"}
	if !slices.Equal(b.calls, want) {
		t.Fatalf("calls = %v, want %v", b.calls, want)
	}
}

func TestNewRendererUnsupportedBackend(t *testing.T) {
	if _, err := NewRenderer(RendererBackendType(42), nil); err == nil {
		t.Fatal("expected an error for an unknown backend type")
	}
}

func TestRegisterSkipsDuplicates(t *testing.T) {
	b := newFakeBackend()
	r := newTestRenderer(t, b)
	vs := testShader(t, "vs", shader.ShaderTypeVertex)
	p := pipeline.NewPipeline("tri", pipeline.WithVertexShader(vs))

	if err := r.RegisterShaders(vs, vs); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterPipelines(p); err != nil {
		t.Fatal(err)
	}
	if err := r.RegisterPipelines(pipeline.NewPipeline("tri", pipeline.WithVertexShader(vs))); err != nil {
		t.Fatal(err)
	}
	want := []string{"module:vs", "pipeline:tri"}
	if !slices.Equal(b.calls, want) {
		t.Fatalf("calls = %v, want %v", b.calls, want)
	}
	if r.Pipeline("tri") != p {
		t.Fatal("duplicate registration replaced the cached pipeline")
	}
}

func TestRegisterPipelineUnknownShader(t *testing.T) {
	b := newFakeBackend()
	r := newTestRenderer(t, b)
	vs := testShader(t, "vs", shader.ShaderTypeVertex)

	err := r.RegisterPipelines(pipeline.NewPipeline("tri", pipeline.WithVertexShader(vs)))
	if !errors.Is(err, ErrUnknownShader) {
		t.Fatalf("err = %v, want ErrUnknownShader", err)
	}
	if len(b.calls) != 0 {
		t.Fatalf("backend was called: %v", b.calls)
	}
	if len(r.Pipelines()) != 0 {
		t.Fatal("pipeline cached after failure")
	}
}

func TestReloadShader(t *testing.T) {
	b := newFakeBackend()
	vs := testShader(t, "vs", shader.ShaderTypeVertex)
	fs := testShader(t, "fs", shader.ShaderTypeFragment)
	other := testShader(t, "other", shader.ShaderTypeFragment)
	r := newTestRenderer(t, b,
		WithShaders(vs, fs, other),
		WithPipelines(
			pipeline.NewPipeline("a", pipeline.WithVertexShader(vs), pipeline.WithFragmentShader(fs)),
			pipeline.NewPipeline("b", pipeline.WithVertexShader(vs), pipeline.WithFragmentShader(other)),
			pipeline.NewPipeline("c", pipeline.WithVertexShader(vs), pipeline.WithFragmentShader(fs), pipeline.WithCullMode(pipeline.CullModeFront)),
		),
	)
	b.reset()

	fs2 := testShader(t, "fs", shader.ShaderTypeFragment)
	if err := r.ReloadShader(fs2); err != nil {
		t.Fatalf("ReloadShader: %v", err)
	}

	want := []string{"module:fs", "destroy-pipeline:a", "pipeline:a", "destroy-pipeline:c", "pipeline:c"}
	if !slices.Equal(b.calls, want) {
		t.Fatalf("calls = %v, want %v", b.calls, want)
	}
	if r.Shader("fs") != fs2 {
		t.Fatal("shader cache not updated")
	}
	c := r.Pipeline("c")
	if c.Shader(shader.ShaderTypeFragment) != fs2 {
		t.Fatal("rebuilt pipeline does not use the reloaded shader")
	}
	if c.Description().CullMode != pipeline.CullModeFront {
		t.Fatal("rebuilt pipeline lost its description")
	}
	if c.Native() == nil {
		t.Fatal("rebuilt pipeline has no native object")
	}
}

func TestReloadShaderErrors(t *testing.T) {
	b := newFakeBackend()
	vs := testShader(t, "vs", shader.ShaderTypeVertex)
	r := newTestRenderer(t, b, WithShaders(vs), WithPipelines(pipeline.NewPipeline("a", pipeline.WithVertexShader(vs))))

	if err := r.ReloadShader(testShader(t, "nope", shader.ShaderTypeVertex)); !errors.Is(err, ErrUnknownShader) {
		t.Fatalf("unknown key: err = %v", err)
	}

	b.failModule["vs"] = true
	b.reset()
	if err := r.ReloadShader(testShader(t, "vs", shader.ShaderTypeVertex)); !errors.Is(err, errBackend) {
		t.Fatalf("module failure: err = %v", err)
	}
	if r.Shader("vs") != vs || r.Pipeline("a").Native() == nil {
		t.Fatal("failed module creation changed the caches")
	}

	b.failModule["vs"] = false
	b.failPipe["a"] = true
	if err := r.ReloadShader(testShader(t, "vs", shader.ShaderTypeVertex)); !errors.Is(err, errBackend) {
		t.Fatalf("pipeline failure: err = %v", err)
	}
	if r.Pipeline("a") != nil {
		t.Fatal("pipeline that failed to rebuild is still cached")
	}
}

func TestResize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		passChanged   bool
		configErr     error
		want          []string
		wantErr       error
	}{
		{name: "minimized", width: 0, height: 600, want: nil},
		{name: "unchanged size", width: 800, height: 600, want: nil},
		{name: "swapchain only", width: 1024, height: 768, want: []string{"configure"}},
		{
			name: "render pass replaced", width: 1024, height: 768, passChanged: true,
			want: []string{"configure", "destroy-pipeline:a", "pipeline:a", "destroy-pipeline:b", "pipeline:b"},
		},
		{name: "configure fails", width: 1024, height: 768, configErr: errBackend, want: []string{"configure"}, wantErr: errBackend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newFakeBackend()
			vs := testShader(t, "vs", shader.ShaderTypeVertex)
			r := newTestRenderer(t, b,
				WithShaders(vs),
				WithPipelines(pipeline.NewPipeline("b", pipeline.WithVertexShader(vs)), pipeline.NewPipeline("a", pipeline.WithVertexShader(vs))),
			)
			b.reset()
			b.passChanged, b.configErr = tt.passChanged, tt.configErr

			err := r.Resize(tt.width, tt.height)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if !slices.Equal(b.calls, tt.want) {
				t.Fatalf("calls = %v, want %v", b.calls, tt.want)
			}
		})
	}
}

func TestDestroyOrder(t *testing.T) {
	b := newFakeBackend()
	vs := testShader(t, "vs", shader.ShaderTypeVertex)
	r := newTestRenderer(t, b, WithShaders(vs), WithPipelines(pipeline.NewPipeline("a", pipeline.WithVertexShader(vs))))
	b.reset()

	r.DestroyPipeline("missing")
	r.Destroy()
	r.Destroy()

	want := []string{"destroy-pipeline:a", "destroy-module:vs", "destroy-backend"}
	if !slices.Equal(b.calls, want) {
		t.Fatalf("calls = %v, want %v", b.calls, want)
	}
}

func TestParsePresentMode(t *testing.T) {
	tests := []struct {
		in   string
		want vk.PresentMode
	}{
		{"vsync", vk.PresentModeFifo},
		{"uncapped", vk.PresentModeImmediate},
		{"triple", vk.PresentModeMailbox},
		{"", vk.PresentModeMailbox},
	}
	for _, tt := range tests {
		m, err := ParsePresentMode(tt.in)
		if err != nil {
			t.Fatalf("ParsePresentMode(%q): %v", tt.in, err)
		}
		if got := m.vkPresentMode(); got != tt.want {
			t.Errorf("ParsePresentMode(%q) maps to %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := ParsePresentMode("adaptive"); err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
}
