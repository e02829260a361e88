package vulkan

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-vk/engine/logger"
	"github.com/ebitengine/purego"
)

// library is an opened shared object.
type library interface {
	symbol(name string) (uintptr, error)
	close() error
}

// procEntry is one named entry point of a resolution tier.
// Mandatory entries fail the tier when missing; optional entries only log a warning.
// surfaceOnly entries are resolved only when presenting to a window and are skipped otherwise.
type procEntry struct {
	name        string
	mandatory   bool
	surfaceOnly bool
}

var globalProcs = []procEntry{
	{name: "vkEnumerateInstanceExtensionProperties", mandatory: true},
	{name: "vkEnumerateInstanceLayerProperties", mandatory: true},
	{name: "vkCreateInstance", mandatory: true},
	{name: "vkEnumerateInstanceVersion"},
}

var instanceProcs = []procEntry{
	{name: "vkDestroyInstance", mandatory: true},
	{name: "vkEnumeratePhysicalDevices", mandatory: true},
	{name: "vkGetPhysicalDeviceQueueFamilyProperties", mandatory: true},
	{name: "vkEnumerateDeviceExtensionProperties", mandatory: true},
	{name: "vkGetPhysicalDeviceProperties", mandatory: true},
	{name: "vkGetPhysicalDeviceFormatProperties", mandatory: true},
	{name: "vkGetDeviceProcAddr", mandatory: true},
	{name: "vkCreateDevice", mandatory: true},
	{name: "vkGetPhysicalDeviceSurfaceSupportKHR", mandatory: true, surfaceOnly: true},
	{name: "vkGetPhysicalDeviceSurfaceCapabilitiesKHR", mandatory: true, surfaceOnly: true},
	{name: "vkGetPhysicalDeviceSurfaceFormatsKHR", mandatory: true, surfaceOnly: true},
	{name: "vkGetPhysicalDeviceSurfacePresentModesKHR", mandatory: true, surfaceOnly: true},
	{name: "vkDestroySurfaceKHR", mandatory: true, surfaceOnly: true},
	{name: platformSurfaceProc, mandatory: true, surfaceOnly: true},
	{name: createDebugUtilsMessengerProc},
	{name: destroyDebugUtilsMessengerProc},
}

var deviceProcs = []procEntry{
	{name: "vkDestroyDevice", mandatory: true},
	{name: "vkGetDeviceQueue", mandatory: true},
	{name: "vkDeviceWaitIdle", mandatory: true},
	{name: "vkCreateImageView", mandatory: true},
	{name: "vkDestroyImageView", mandatory: true},
	{name: "vkCreateShaderModule", mandatory: true},
	{name: "vkDestroyShaderModule", mandatory: true},
	{name: "vkCreateRenderPass", mandatory: true},
	{name: "vkDestroyRenderPass", mandatory: true},
	{name: "vkCreateFramebuffer", mandatory: true},
	{name: "vkDestroyFramebuffer", mandatory: true},
	{name: "vkCreateDescriptorSetLayout", mandatory: true},
	{name: "vkDestroyDescriptorSetLayout", mandatory: true},
	{name: "vkCreatePipelineLayout", mandatory: true},
	{name: "vkDestroyPipelineLayout", mandatory: true},
	{name: "vkCreateGraphicsPipelines", mandatory: true},
	{name: "vkDestroyPipeline", mandatory: true},
	{name: "vkCreateSwapchainKHR", mandatory: true, surfaceOnly: true},
	{name: "vkDestroySwapchainKHR", mandatory: true, surfaceOnly: true},
	{name: "vkGetSwapchainImagesKHR", mandatory: true, surfaceOnly: true},
	{name: "vkQueuePresentKHR", surfaceOnly: true},
}

// module is the loaded driver library and the entry points resolved from it so far.
// Entry points are resolved in tiers: global once the library is open, instance once an instance exists,
// device once a logical device exists.
type module struct {
	lib      library
	name     string
	log      *logger.Logger
	windowed bool

	getInstanceProcAddr uintptr
	procs               map[string]uintptr

	// instanceLookup and deviceLookup call into the driver's proc-address functions.
	instanceLookup func(instance uintptr, name string) uintptr
	deviceLookup   func(device uintptr, name string) uintptr
}

// libraryCandidates returns the shared object names tried in order, or only path when it is set.
func libraryCandidates(path string) []string {
	if path != "" {
		return []string{path}
	}
	switch runtime.GOOS {
	case "windows":
		return []string{"vulkan-1.dll"}
	case "darwin":
		return []string{"libvulkan.1.dylib", "libvulkan.dylib", "libMoltenVK.dylib"}
	default:
		return []string{"libvulkan.so.1", "libvulkan.so"}
	}
}

// loadModule opens the driver library, looks up vkGetInstanceProcAddr and resolves the global tier.
// The library is closed again on any failure.
//
// Parameters:
//   - log: the diagnostic sink
//   - path: an explicit library path, or empty for the platform defaults
//   - windowed: whether surface entry points are mandatory
//
// Returns:
//   - *module: the loaded module
//   - error: ErrModuleLoad wrapped with the cause
func loadModule(log *logger.Logger, path string, windowed bool) (*module, error) {
	lib, name, err := openLibrary(libraryCandidates(path))
	if err != nil {
		log.Error().Str("op", "openLibrary").Err(err).Msg("vulkan driver library not found")
		return nil, fmt.Errorf("%w: %w", ErrModuleLoad, err)
	}

	gipa, err := lib.symbol("vkGetInstanceProcAddr")
	if err != nil || gipa == 0 {
		_ = lib.close()
		log.Error().Str("op", "vkGetInstanceProcAddr").Str("library", name).Msg("root entry point missing")
		return nil, fmt.Errorf("%w: vkGetInstanceProcAddr missing from %s", ErrModuleLoad, name)
	}

	m := newModule(lib, name, log, windowed, gipa)
	if err := m.resolveGlobal(); err != nil {
		m.unload()
		return nil, err
	}
	log.Trace().Str("library", name).Msg("vulkan module loaded")
	return m, nil
}

func newModule(lib library, name string, log *logger.Logger, windowed bool, gipa uintptr) *module {
	m := &module{
		lib:                 lib,
		name:                name,
		log:                 log,
		windowed:            windowed,
		getInstanceProcAddr: gipa,
		procs:               make(map[string]uintptr, len(globalProcs)+len(instanceProcs)+len(deviceProcs)),
	}
	m.instanceLookup = func(instance uintptr, name string) uintptr {
		return callProcAddr(m.getInstanceProcAddr, instance, name)
	}
	m.deviceLookup = func(device uintptr, name string) uintptr {
		return callProcAddr(m.procs["vkGetDeviceProcAddr"], device, name)
	}
	return m
}

// callProcAddr invokes a vkGet*ProcAddr style function with a NUL terminated name.
func callProcAddr(fn, handle uintptr, name string) uintptr {
	if fn == 0 {
		return 0
	}
	cname := append([]byte(name), 0)
	r, _, _ := purego.SyscallN(fn, handle, uintptr(unsafe.Pointer(&cname[0])))
	runtime.KeepAlive(cname)
	return r
}

func (m *module) resolveGlobal() error {
	return m.resolve("global", globalProcs, func(name string) uintptr {
		return m.instanceLookup(0, name)
	})
}

// resolveInstance resolves the instance tier against a created instance.
func (m *module) resolveInstance(instance uintptr) error {
	return m.resolve("instance", instanceProcs, func(name string) uintptr {
		return m.instanceLookup(instance, name)
	})
}

// resolveDevice resolves the device tier against a created logical device.
func (m *module) resolveDevice(device uintptr) error {
	return m.resolve("device", deviceProcs, func(name string) uintptr {
		return m.deviceLookup(device, name)
	})
}

func (m *module) resolve(tier string, entries []procEntry, lookup func(string) uintptr) error {
	resolved, err := resolveTier(m.log, tier, entries, lookup, m.windowed)
	for name, fn := range resolved {
		m.procs[name] = fn
	}
	return err
}

// proc returns a resolved entry point, or 0 when it was never resolved.
func (m *module) proc(name string) uintptr {
	return m.procs[name]
}

// unload closes the library and forgets every resolved entry point. Safe to call more than once.
func (m *module) unload() {
	if m == nil || m.lib == nil {
		return
	}
	if err := m.lib.close(); err != nil {
		m.log.Warn().Str("op", "closeLibrary").Err(err).Msg("failed to unload vulkan module")
	}
	m.lib = nil
	m.procs = map[string]uintptr{}
	m.log.Trace().Str("library", m.name).Msg("vulkan module unloaded")
}

// resolveTier looks up every entry of one tier. Whatever resolves is returned even when a mandatory entry is missing.
//
// Parameters:
//   - log: the diagnostic sink for missing optional entries
//   - tier: the tier name used in messages
//   - entries: the entries to resolve
//   - lookup: the proc-address function for this tier
//   - windowed: whether surfaceOnly entries are resolved
//
// Returns:
//   - map[string]uintptr: the resolved entry points
//   - error: ErrModuleLoad naming every missing mandatory entry, or nil
func resolveTier(log *logger.Logger, tier string, entries []procEntry, lookup func(string) uintptr, windowed bool) (map[string]uintptr, error) {
	resolved := make(map[string]uintptr, len(entries))
	var missing []string
	for _, e := range entries {
		if e.surfaceOnly && !windowed {
			continue
		}
		fn := lookup(e.name)
		if fn != 0 {
			resolved[e.name] = fn
			continue
		}
		if e.mandatory {
			missing = append(missing, e.name)
			continue
		}
		log.Warn().Str("tier", tier).Str("proc", e.name).Msg("optional vulkan entry point unavailable")
	}
	if len(missing) > 0 {
		log.Error().Str("tier", tier).Strs("missing", missing).Msg("mandatory vulkan entry points unavailable")
		return resolved, fmt.Errorf("%w: %s tier missing %s", ErrModuleLoad, tier, strings.Join(missing, ", "))
	}
	return resolved, nil
}

// openLibraryFrom tries each candidate with open and returns the first that succeeds.
func openLibraryFrom(candidates []string, open func(string) (library, error)) (library, string, error) {
	errs := make([]error, 0, len(candidates))
	for _, name := range candidates {
		lib, err := open(name)
		if err == nil {
			return lib, name, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", name, err))
	}
	return nil, "", errors.Join(errs...)
}
