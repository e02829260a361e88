package vulkan

import (
	"errors"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-vk/engine/logger"
	vk "github.com/goki/vulkan"
)

func TestChooseExtent(t *testing.T) {
	bounds := vk.SurfaceCapabilities{
		MinImageExtent: vk.Extent2D{Width: 100, Height: 50},
		MaxImageExtent: vk.Extent2D{Width: 1920, Height: 1080},
	}
	tests := []struct {
		name          string
		current       vk.Extent2D
		width, height uint32
		want          vk.Extent2D
	}{
		{"current extent wins", vk.Extent2D{Width: 800, Height: 600}, 1024, 768, vk.Extent2D{Width: 800, Height: 600}},
		{"indeterminate within range", vk.Extent2D{Width: indeterminateExtent, Height: indeterminateExtent}, 1024, 768, vk.Extent2D{Width: 1024, Height: 768}},
		{"indeterminate clamps width up", vk.Extent2D{Width: indeterminateExtent, Height: indeterminateExtent}, 10, 768, vk.Extent2D{Width: 100, Height: 768}},
		{"indeterminate clamps height down", vk.Extent2D{Width: indeterminateExtent, Height: indeterminateExtent}, 1024, 5000, vk.Extent2D{Width: 1024, Height: 1080}},
		{"indeterminate clamps both", vk.Extent2D{Width: indeterminateExtent, Height: indeterminateExtent}, 0, 0, vk.Extent2D{Width: 100, Height: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := bounds
			caps.CurrentExtent = tt.current
			if got := chooseExtent(caps, tt.width, tt.height); got != tt.want {
				t.Fatalf("chooseExtent = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestChoosePresentMode(t *testing.T) {
	tests := []struct {
		name      string
		modes     []vk.PresentMode
		preferred vk.PresentMode
		want      vk.PresentMode
	}{
		{"mailbox available", []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox}, vk.PresentModeMailbox, vk.PresentModeMailbox},
		{"mailbox missing", []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeImmediate}, vk.PresentModeMailbox, vk.PresentModeFifo},
		{"immediate preferred", []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeImmediate}, vk.PresentModeImmediate, vk.PresentModeImmediate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := choosePresentMode(tt.modes, tt.preferred); got != tt.want {
				t.Fatalf("choosePresentMode = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChooseSurfaceFormat(t *testing.T) {
	srgb := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	unorm := vk.SurfaceFormat{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	if got := chooseSurfaceFormat([]vk.SurfaceFormat{unorm, srgb}); got != srgb {
		t.Fatalf("preferred format not chosen: %+v", got)
	}
	if got := chooseSurfaceFormat([]vk.SurfaceFormat{unorm}); got != unorm {
		t.Fatalf("first format not used as fallback: %+v", got)
	}
}

func TestChooseImageCount(t *testing.T) {
	tests := []struct {
		min, max uint32
		want     uint32
	}{
		{min: 1, max: 0, want: 3},
		{min: 4, max: 0, want: 4},
		{min: 2, max: 8, want: 3},
		{min: 1, max: 2, want: 2},
		{min: 5, max: 8, want: 5},
	}
	for _, tt := range tests {
		caps := vk.SurfaceCapabilities{MinImageCount: tt.min, MaxImageCount: tt.max}
		if got := chooseImageCount(caps); got != tt.want {
			t.Errorf("chooseImageCount(min=%d, max=%d) = %d, want %d", tt.min, tt.max, got, tt.want)
		}
	}
}

func TestChooseSharingMode(t *testing.T) {
	mode, families := chooseSharingMode(QueueFamilyIndices{Graphics: 0, Present: 0, GraphicsFound: true, PresentFound: true})
	if mode != vk.SharingModeExclusive || families != nil {
		t.Fatalf("same family: got %v %v", mode, families)
	}
	mode, families = chooseSharingMode(QueueFamilyIndices{Graphics: 0, Present: 2, GraphicsFound: true, PresentFound: true})
	if mode != vk.SharingModeConcurrent || !slices.Equal(families, []uint32{0, 2}) {
		t.Fatalf("distinct families: got %v %v", mode, families)
	}
}

func TestNegotiateSwapchainEmptyLists(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f *fakeDriver)
	}{
		{"no formats", func(f *fakeDriver) { f.formats = nil }},
		{"no present modes", func(f *fakeDriver) { f.modes = nil }},
		{"capabilities fail", func(f *fakeDriver) { f.failAt["SurfaceCapabilities"] = 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeDriver()
			tt.setup(f)
			_, err := negotiateSwapchain(f, logger.Nop(), fakePhysicalBase, 1, QueueFamilyIndices{GraphicsFound: true, PresentFound: true}, 800, 600, vk.PresentModeMailbox)
			if !errors.Is(err, ErrSwapchainNegotiation) {
				t.Fatalf("err = %v, want ErrSwapchainNegotiation", err)
			}
		})
	}
}

func testSwapchainConfig() swapchainConfig {
	return swapchainConfig{
		format:      vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		presentMode: vk.PresentModeFifo,
		extent:      vk.Extent2D{Width: 640, Height: 480},
		imageCount:  3,
		sharingMode: vk.SharingModeExclusive,
	}
}

func TestCreateSwapchain(t *testing.T) {
	f := newFakeDriver()
	f.imageCount = 4
	sc, err := createSwapchain(f, logger.Nop(), 1, 2, 3, testSwapchainConfig())
	if err != nil {
		t.Fatalf("createSwapchain: %v", err)
	}
	if len(sc.Images) != 4 || len(sc.ImageViews) != 4 || len(sc.Framebuffers) != 4 {
		t.Fatalf("parallel arrays differ: %d images, %d views, %d framebuffers", len(sc.Images), len(sc.ImageViews), len(sc.Framebuffers))
	}
	if f.lastSwapchain.MinImageCount != 3 || f.lastSwapchain.Extent.Width != 640 {
		t.Fatalf("swapchain descriptor not forwarded: %+v", f.lastSwapchain)
	}

	sc.destroy(f, 1)
	if len(f.live) != 0 {
		t.Fatalf("leaked objects after destroy: %v", f.live)
	}
	want := []ObjectKind{
		ObjectFramebuffer, ObjectFramebuffer, ObjectFramebuffer, ObjectFramebuffer,
		ObjectImageView, ObjectImageView, ObjectImageView, ObjectImageView,
		ObjectSwapchain,
	}
	if got := f.destroyed(); !slices.Equal(got, want) {
		t.Fatalf("destroy order = %v, want %v", got, want)
	}

	sc.destroy(f, 1)
	if len(f.misuse) != 0 {
		t.Fatalf("second destroy touched handles: %v", f.misuse)
	}
}

func TestCreateSwapchainRollback(t *testing.T) {
	tests := []struct {
		name      string
		failOp    string
		failAt    int
		wantOrder []ObjectKind
	}{
		{
			name:      "swapchain images",
			failOp:    "SwapchainImages",
			failAt:    1,
			wantOrder: []ObjectKind{ObjectSwapchain},
		},
		{
			name:      "first image view",
			failOp:    "CreateImageView",
			failAt:    1,
			wantOrder: []ObjectKind{ObjectSwapchain},
		},
		{
			name:      "third image view",
			failOp:    "CreateImageView",
			failAt:    3,
			wantOrder: []ObjectKind{ObjectImageView, ObjectImageView, ObjectSwapchain},
		},
		{
			name:      "second framebuffer",
			failOp:    "CreateFramebuffer",
			failAt:    2,
			wantOrder: []ObjectKind{ObjectFramebuffer, ObjectImageView, ObjectImageView, ObjectImageView, ObjectSwapchain},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeDriver()
			f.failAt[tt.failOp] = tt.failAt
			sc, err := createSwapchain(f, logger.Nop(), 1, 2, 3, testSwapchainConfig())
			if sc != nil {
				t.Fatal("partial swapchain returned")
			}
			if !errors.Is(err, ErrResourceCreation) || !errors.Is(err, errInjected) {
				t.Fatalf("err = %v", err)
			}
			if len(f.live) != 0 {
				t.Fatalf("leaked objects: %v", f.live)
			}
			if got := f.destroyed(); !slices.Equal(got, tt.wantOrder) {
				t.Fatalf("rollback order = %v, want %v", got, tt.wantOrder)
			}
		})
	}
}

func TestFindDepthFormat(t *testing.T) {
	f := newFakeDriver()
	f.depthFeatures = map[vk.Format]vk.FormatFeatureFlags{
		vk.FormatD24UnormS8Uint: vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit),
	}
	got, err := findDepthFormat(f, fakePhysicalBase)
	if err != nil || got != vk.FormatD24UnormS8Uint {
		t.Fatalf("findDepthFormat = %v, %v", got, err)
	}

	f.depthFeatures = nil
	if _, err := findDepthFormat(f, fakePhysicalBase); !errors.Is(err, ErrSwapchainNegotiation) {
		t.Fatalf("err = %v, want ErrSwapchainNegotiation", err)
	}
}
