package vulkan

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-vk/engine/logger"
	vk "github.com/goki/vulkan"
)

// QueueFamilyIndices are the queue families resolved for one physical device and surface pair.
type QueueFamilyIndices struct {
	Graphics      uint32
	GraphicsFound bool
	Present       uint32
	PresentFound  bool
}

// complete reports whether every family needed for the surface (or lack of one) was found.
func (q QueueFamilyIndices) complete(surface Handle) bool {
	if surface == NullHandle {
		return q.GraphicsFound
	}
	return q.GraphicsFound && q.PresentFound
}

// unique returns the distinct families that need a queue, graphics first.
func (q QueueFamilyIndices) unique() []uint32 {
	families := []uint32{q.Graphics}
	if q.PresentFound && q.Present != q.Graphics {
		families = append(families, q.Present)
	}
	return families
}

// DeviceInfo describes the selected physical device.
type DeviceInfo struct {
	Name          string
	Type          string
	DriverVersion uint32
	APIVersion    uint32
	Score         int
}

// deviceSelection is the outcome of selectPhysicalDevice.
type deviceSelection struct {
	physicalDevice Handle
	queues         QueueFamilyIndices
	properties     DeviceProperties
	score          int
}

// findQueueFamilies scans the queue families of physicalDevice. The first graphics-capable family wins, and
// with a surface the first family that can present to it. The scan stops as soon as the requirements are met.
//
// Parameters:
//   - drv: the driver
//   - physicalDevice: the device to scan
//   - surface: the presentation target, or NullHandle for headless
//
// Returns:
//   - QueueFamilyIndices: the families found
func findQueueFamilies(drv Driver, physicalDevice, surface Handle) QueueFamilyIndices {
	var indices QueueFamilyIndices
	for i, family := range drv.QueueFamilies(physicalDevice) {
		idx := uint32(i)
		if family.Graphics && !indices.GraphicsFound {
			indices.Graphics = idx
			indices.GraphicsFound = true
		}
		if surface != NullHandle && !indices.PresentFound {
			if ok, err := drv.SurfaceSupport(physicalDevice, idx, surface); err == nil && ok {
				indices.Present = idx
				indices.PresentFound = true
			}
		}
		if indices.complete(surface) {
			break
		}
	}
	return indices
}

// scoreDevice weights a device by its type; the highest score is preferred.
func scoreDevice(t vk.PhysicalDeviceType) int {
	switch t {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return 1000
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return 500
	case vk.PhysicalDeviceTypeVirtualGpu:
		return 100
	case vk.PhysicalDeviceTypeCpu:
		return 10
	default:
		return 1
	}
}

func deviceTypeName(t vk.PhysicalDeviceType) string {
	switch t {
	case vk.PhysicalDeviceTypeDiscreteGpu:
		return "discrete"
	case vk.PhysicalDeviceTypeIntegratedGpu:
		return "integrated"
	case vk.PhysicalDeviceTypeVirtualGpu:
		return "virtual"
	case vk.PhysicalDeviceTypeCpu:
		return "cpu"
	default:
		return "other"
	}
}

// supportsExtensions reports whether every required extension is in the device's list.
func supportsExtensions(available, required []string) bool {
	for _, ext := range required {
		if !slices.Contains(available, ext) {
			return false
		}
	}
	return true
}

// selectPhysicalDevice filters the enumerated devices by queue support and required extensions, then picks the
// highest scoring one. Ties keep the device enumerated first.
//
// Parameters:
//   - drv: the driver
//   - log: the diagnostic sink
//   - instance: the instance to enumerate
//   - surface: the presentation target, or NullHandle for headless
//   - required: the device extensions a candidate must offer
//
// Returns:
//   - deviceSelection: the chosen device with its queue families
//   - error: ErrDeviceSelection when no device qualifies
func selectPhysicalDevice(drv Driver, log *logger.Logger, instance, surface Handle, required []string) (deviceSelection, error) {
	devices, err := drv.PhysicalDevices(instance)
	if err != nil {
		log.Error().Str("op", "vkEnumeratePhysicalDevices").Err(err).Msg("failed to enumerate physical devices")
		return deviceSelection{}, fmt.Errorf("%w: %w", ErrDeviceSelection, err)
	}

	var best deviceSelection
	found := false
	for _, pd := range devices {
		props := drv.DeviceProperties(pd)
		queues := findQueueFamilies(drv, pd, surface)
		if !queues.complete(surface) {
			log.Debug().Str("device", props.Name).Msg("skipping device without required queue families")
			continue
		}
		if len(required) > 0 {
			exts, err := drv.DeviceExtensions(pd)
			if err != nil || !supportsExtensions(exts, required) {
				log.Debug().Str("device", props.Name).Strs("required", required).Msg("skipping device without required extensions")
				continue
			}
		}
		score := scoreDevice(props.Type)
		if !found || score > best.score {
			best = deviceSelection{physicalDevice: pd, queues: queues, properties: props, score: score}
			found = true
		}
	}

	if !found {
		log.Error().Str("op", "selectPhysicalDevice").Int("candidates", len(devices)).Msg("no suitable physical device")
		return deviceSelection{}, fmt.Errorf("%w: %d devices enumerated, none qualified", ErrDeviceSelection, len(devices))
	}
	return best, nil
}

// createLogicalDevice creates the logical device with one queue per distinct family and fetches the queues.
//
// Parameters:
//   - drv: the driver
//   - log: the diagnostic sink
//   - sel: the selected physical device
//   - extensions: device extensions to enable
//   - layers: device layers to enable
//
// Returns:
//   - Handle: the logical device
//   - Handle: the graphics queue
//   - Handle: the present queue, NullHandle when no surface was involved in selection
//   - error: ErrResourceCreation when device creation fails
func createLogicalDevice(drv Driver, log *logger.Logger, sel deviceSelection, extensions, layers []string) (Handle, Handle, Handle, error) {
	device, err := drv.CreateDevice(sel.physicalDevice, DeviceDescriptor{
		QueueFamilies: sel.queues.unique(),
		Extensions:    extensions,
		Layers:        layers,
	})
	if err != nil {
		log.Error().Str("op", "vkCreateDevice").Str("device", sel.properties.Name).Err(err).Msg("failed to create logical device")
		return NullHandle, NullHandle, NullHandle, fmt.Errorf("%w: logical device: %w", ErrResourceCreation, err)
	}

	graphics := drv.DeviceQueue(device, sel.queues.Graphics)
	present := NullHandle
	if sel.queues.PresentFound {
		present = drv.DeviceQueue(device, sel.queues.Present)
	}
	return device, graphics, present, nil
}
