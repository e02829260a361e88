package vulkan

import (
	"errors"
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-vk/engine/logger"
	vk "github.com/goki/vulkan"
)

const testSurface Handle = 777

func TestFindQueueFamilies(t *testing.T) {
	tests := []struct {
		name     string
		device   fakeDevice
		surface  Handle
		want     QueueFamilyIndices
		complete bool
	}{
		{
			name: "shared family",
			device: fakeDevice{
				families: []QueueFamily{{Graphics: true}},
				present:  map[uint32]bool{0: true},
			},
			surface:  testSurface,
			want:     QueueFamilyIndices{Graphics: 0, GraphicsFound: true, Present: 0, PresentFound: true},
			complete: true,
		},
		{
			name: "separate present family",
			device: fakeDevice{
				families: []QueueFamily{{}, {Graphics: true}, {}, {Graphics: true}},
				present:  map[uint32]bool{2: true, 3: true},
			},
			surface:  testSurface,
			want:     QueueFamilyIndices{Graphics: 1, GraphicsFound: true, Present: 2, PresentFound: true},
			complete: true,
		},
		{
			name: "no present support",
			device: fakeDevice{
				families: []QueueFamily{{Graphics: true}},
			},
			surface:  testSurface,
			want:     QueueFamilyIndices{Graphics: 0, GraphicsFound: true},
			complete: false,
		},
		{
			name: "headless needs graphics only",
			device: fakeDevice{
				families: []QueueFamily{{}, {Graphics: true}},
			},
			surface:  NullHandle,
			want:     QueueFamilyIndices{Graphics: 1, GraphicsFound: true},
			complete: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeDriver()
			f.devices = []fakeDevice{tt.device}
			got := findQueueFamilies(f, fakePhysicalBase, tt.surface)
			if got != tt.want {
				t.Fatalf("findQueueFamilies = %+v, want %+v", got, tt.want)
			}
			if got.complete(tt.surface) != tt.complete {
				t.Fatalf("complete = %v, want %v", got.complete(tt.surface), tt.complete)
			}
		})
	}
}

func TestQueueFamilyUnique(t *testing.T) {
	if got := (QueueFamilyIndices{Graphics: 1, GraphicsFound: true, Present: 1, PresentFound: true}).unique(); !slices.Equal(got, []uint32{1}) {
		t.Fatalf("shared family: %v", got)
	}
	if got := (QueueFamilyIndices{Graphics: 0, GraphicsFound: true, Present: 2, PresentFound: true}).unique(); !slices.Equal(got, []uint32{0, 2}) {
		t.Fatalf("distinct families: %v", got)
	}
	if got := (QueueFamilyIndices{Graphics: 3, GraphicsFound: true}).unique(); !slices.Equal(got, []uint32{3}) {
		t.Fatalf("graphics only: %v", got)
	}
}

func TestSelectPhysicalDevice(t *testing.T) {
	noPresent := discreteDevice("no present")
	noPresent.present = nil
	noSwapchain := discreteDevice("no swapchain")
	noSwapchain.extensions = nil

	tests := []struct {
		name     string
		devices  []fakeDevice
		surface  Handle
		required []string
		want     string
		wantErr  bool
	}{
		{
			name:    "discrete preferred over integrated",
			devices: []fakeDevice{deviceOfType("integrated", vk.PhysicalDeviceTypeIntegratedGpu), discreteDevice("discrete")},
			surface: testSurface, required: []string{swapchainExtension},
			want: "discrete",
		},
		{
			name:    "integrated preferred over cpu",
			devices: []fakeDevice{deviceOfType("cpu", vk.PhysicalDeviceTypeCpu), deviceOfType("integrated", vk.PhysicalDeviceTypeIntegratedGpu)},
			surface: testSurface, required: []string{swapchainExtension},
			want: "integrated",
		},
		{
			name:    "tie keeps first enumerated",
			devices: []fakeDevice{discreteDevice("first"), discreteDevice("second")},
			surface: testSurface, required: []string{swapchainExtension},
			want: "first",
		},
		{
			name:    "device without present support skipped",
			devices: []fakeDevice{noPresent, deviceOfType("integrated", vk.PhysicalDeviceTypeIntegratedGpu)},
			surface: testSurface, required: []string{swapchainExtension},
			want: "integrated",
		},
		{
			name:    "device without swapchain extension skipped",
			devices: []fakeDevice{noSwapchain, deviceOfType("virtual", vk.PhysicalDeviceTypeVirtualGpu)},
			surface: testSurface, required: []string{swapchainExtension},
			want: "virtual",
		},
		{
			name:    "headless ignores present support",
			devices: []fakeDevice{noPresent},
			surface: NullHandle,
			want:    "no present",
		},
		{
			name:    "nothing qualifies",
			devices: []fakeDevice{noPresent, noSwapchain},
			surface: testSurface, required: []string{swapchainExtension},
			wantErr: true,
		},
		{
			name:    "no devices",
			surface: testSurface,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeDriver()
			f.devices = tt.devices
			sel, err := selectPhysicalDevice(f, logger.Nop(), 1, tt.surface, tt.required)
			if tt.wantErr {
				if !errors.Is(err, ErrDeviceSelection) {
					t.Fatalf("err = %v, want ErrDeviceSelection", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("selectPhysicalDevice: %v", err)
			}
			if sel.properties.Name != tt.want {
				t.Fatalf("selected %q, want %q", sel.properties.Name, tt.want)
			}
			if f.DeviceProperties(sel.physicalDevice).Name != tt.want {
				t.Fatal("handle does not match the selected properties")
			}
		})
	}
}

func TestCreateLogicalDevice(t *testing.T) {
	f := newFakeDriver()
	sel := deviceSelection{
		physicalDevice: fakePhysicalBase,
		queues:         QueueFamilyIndices{Graphics: 0, GraphicsFound: true, Present: 2, PresentFound: true},
		properties:     DeviceProperties{Name: "gpu"},
	}
	device, graphics, present, err := createLogicalDevice(f, logger.Nop(), sel, []string{swapchainExtension}, []string{validationLayerName})
	if err != nil {
		t.Fatalf("createLogicalDevice: %v", err)
	}
	if device == NullHandle || graphics != fakeQueueBase || present != fakeQueueBase+2 {
		t.Fatalf("device %v graphics %v present %v", device, graphics, present)
	}
	if !slices.Equal(f.lastDevice.QueueFamilies, []uint32{0, 2}) {
		t.Fatalf("queue families = %v", f.lastDevice.QueueFamilies)
	}
	if !slices.Equal(f.lastDevice.Extensions, []string{swapchainExtension}) || !slices.Equal(f.lastDevice.Layers, []string{validationLayerName}) {
		t.Fatalf("descriptor = %+v", f.lastDevice)
	}

	f.failAt["CreateDevice"] = 2
	if _, _, _, err := createLogicalDevice(f, logger.Nop(), sel, nil, nil); !errors.Is(err, ErrResourceCreation) {
		t.Fatalf("err = %v, want ErrResourceCreation", err)
	}
}
