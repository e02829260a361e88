package vulkan

import (
	"encoding/binary"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-vk/engine/logger"
	vk "github.com/goki/vulkan"
)

// vkDriver implements Driver on the dynamically loaded Vulkan module. Native objects are kept in a registry
// and handed out as Handles, so nothing outside this file sees a vk type that owns memory.
type vkDriver struct {
	mu      sync.Mutex
	mod     *module
	log     *logger.Logger
	next    Handle
	objects map[Handle]any

	// children are handles whose lifetime ends with their parent: physical devices with the instance,
	// queues with the device and images with the swapchain.
	children map[Handle][]Handle
	physical map[vk.PhysicalDevice]Handle

	// instanceDebug holds the callback id chained into an instance's creation until the instance is destroyed.
	instanceDebug map[Handle]uintptr
}

var _ Driver = &vkDriver{}

// newVkDriver loads the driver module and hands its root entry point to the binding.
//
// Parameters:
//   - log: the diagnostic sink
//   - path: an explicit library path, or empty for the platform defaults
//   - windowed: whether surface entry points are mandatory
//
// Returns:
//   - Driver: the loaded driver
//   - error: ErrModuleLoad when the module or a mandatory entry point is missing
func newVkDriver(log *logger.Logger, path string, windowed bool) (Driver, error) {
	mod, err := loadModule(log, path, windowed)
	if err != nil {
		return nil, err
	}
	gipa := mod.getInstanceProcAddr
	vk.SetGetInstanceProcAddr(*(*unsafe.Pointer)(unsafe.Pointer(&gipa)))
	if err := vk.Init(); err != nil {
		mod.unload()
		log.Error().Str("op", "vkInit").Err(err).Msg("failed to initialize vulkan binding")
		return nil, fmt.Errorf("%w: %w", ErrModuleLoad, err)
	}
	return &vkDriver{
		mod:      mod,
		log:      log,
		objects:  make(map[Handle]any),
		children: make(map[Handle][]Handle),
		physical: make(map[vk.PhysicalDevice]Handle),

		instanceDebug: make(map[Handle]uintptr),
	}, nil
}

func (d *vkDriver) register(obj any) Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.next++
	d.objects[d.next] = obj
	return d.next
}

func (d *vkDriver) registerChild(parent Handle, obj any) Handle {
	h := d.register(obj)
	d.mu.Lock()
	d.children[parent] = append(d.children[parent], h)
	d.mu.Unlock()
	return h
}

// forget drops h and every child of h from the registry.
func (d *vkDriver) forget(h Handle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range d.children[h] {
		if pd, ok := d.objects[c].(vk.PhysicalDevice); ok {
			delete(d.physical, pd)
		}
		delete(d.objects, c)
	}
	delete(d.children, h)
	delete(d.objects, h)
}

func get[T any](d *vkDriver, h Handle) T {
	d.mu.Lock()
	defer d.mu.Unlock()
	v, _ := d.objects[h].(T)
	return v
}

func safeString(s string) string {
	return s + "\x00"
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = safeString(s)
	}
	return out
}

func (d *vkDriver) InstanceExtensions() ([]string, error) {
	var count uint32
	if res := vk.EnumerateInstanceExtensionProperties("", &count, nil); res != vk.Success {
		return nil, vk.Error(res)
	}
	props := make([]vk.ExtensionProperties, count)
	if res := vk.EnumerateInstanceExtensionProperties("", &count, props); res != vk.Success {
		return nil, vk.Error(res)
	}
	names := make([]string, 0, count)
	for i := range props[:count] {
		props[i].Deref()
		names = append(names, vk.ToString(props[i].ExtensionName[:]))
	}
	return names, nil
}

func (d *vkDriver) InstanceLayers() ([]string, error) {
	var count uint32
	if res := vk.EnumerateInstanceLayerProperties(&count, nil); res != vk.Success {
		return nil, vk.Error(res)
	}
	props := make([]vk.LayerProperties, count)
	if res := vk.EnumerateInstanceLayerProperties(&count, props); res != vk.Success {
		return nil, vk.Error(res)
	}
	names := make([]string, 0, count)
	for i := range props[:count] {
		props[i].Deref()
		names = append(names, vk.ToString(props[i].LayerName[:]))
	}
	return names, nil
}

// CreateInstance creates the instance and resolves the instance tier of entry points against it. When desc.Debug
// is set a debug utils messenger create info is chained into the instance create info, so messages raised while
// the instance itself is created or destroyed reach the callback.
func (d *vkDriver) CreateInstance(desc InstanceDescriptor) (Handle, error) {
	info := vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			PApplicationName:   safeString(desc.AppName),
			ApplicationVersion: vk.MakeVersion(1, 0, 0),
			PEngineName:        safeString("oxy-vk"),
			EngineVersion:      vk.MakeVersion(1, 0, 0),
			ApiVersion:         desc.APIVersion,
		},
		EnabledExtensionCount:   uint32(len(desc.Extensions)),
		PpEnabledExtensionNames: safeStrings(desc.Extensions),
		EnabledLayerCount:       uint32(len(desc.Layers)),
		PpEnabledLayerNames:     safeStrings(desc.Layers),
	}
	var debugID uintptr
	var chained *debugUtilsMessengerCreateInfo
	if desc.Debug != nil {
		debugID = registerDebugCallback(desc.Debug)
		chained = newDebugUtilsCreateInfo(debugID)
		info.PNext = unsafe.Pointer(chained)
	}
	fail := func(err error) (Handle, error) {
		if debugID != 0 {
			unregisterDebugCallback(debugID)
		}
		return NullHandle, err
	}

	var inst vk.Instance
	res := vk.CreateInstance(&info, nil, &inst)
	runtime.KeepAlive(chained)
	if res != vk.Success {
		return fail(vk.Error(res))
	}
	if err := vk.InitInstance(inst); err != nil {
		vk.DestroyInstance(inst, nil)
		return fail(err)
	}
	if err := d.mod.resolveInstance(uintptr(unsafe.Pointer(inst))); err != nil {
		vk.DestroyInstance(inst, nil)
		return fail(err)
	}
	h := d.register(inst)
	if debugID != 0 {
		d.mu.Lock()
		d.instanceDebug[h] = debugID
		d.mu.Unlock()
	}
	return h, nil
}

func (d *vkDriver) DestroyInstance(instance Handle) {
	if inst := get[vk.Instance](d, instance); inst != nil {
		vk.DestroyInstance(inst, nil)
	}
	d.mu.Lock()
	id, ok := d.instanceDebug[instance]
	delete(d.instanceDebug, instance)
	d.mu.Unlock()
	if ok {
		unregisterDebugCallback(id)
	}
	d.forget(instance)
}

// CreateDebugMessenger creates a VK_EXT_debug_utils messenger through the entry point resolved in the
// instance tier. goki/vulkan has no wrapper for it.
func (d *vkDriver) CreateDebugMessenger(instance Handle, cb DebugCallback) (Handle, error) {
	proc := d.mod.proc(createDebugUtilsMessengerProc)
	if proc == 0 {
		return NullHandle, fmt.Errorf("%s not resolved", createDebugUtilsMessengerProc)
	}
	id := registerDebugCallback(cb)
	inst := get[vk.Instance](d, instance)
	messenger, res := createDebugUtilsMessenger(proc, uintptr(unsafe.Pointer(inst)), newDebugUtilsCreateInfo(id))
	if res != vk.Success {
		unregisterDebugCallback(id)
		return NullHandle, vk.Error(res)
	}
	return d.register(debugMessenger{handle: messenger, id: id}), nil
}

func (d *vkDriver) DestroyDebugMessenger(instance, messenger Handle) {
	if messenger == NullHandle {
		return
	}
	m := get[debugMessenger](d, messenger)
	if proc := d.mod.proc(destroyDebugUtilsMessengerProc); proc != 0 && m.handle != 0 {
		destroyDebugUtilsMessenger(proc, uintptr(unsafe.Pointer(get[vk.Instance](d, instance))), m.handle)
	}
	unregisterDebugCallback(m.id)
	d.forget(messenger)
}

// CreateSurface calls the platform surface entry point resolved by the module loader.
func (d *vkDriver) CreateSurface(instance Handle, native NativeHandles) (Handle, error) {
	proc := d.mod.proc(platformSurfaceProc)
	if proc == 0 {
		return NullHandle, fmt.Errorf("%s not resolved", platformSurfaceProc)
	}
	inst := get[vk.Instance](d, instance)
	surface, res := platformCreateSurface(proc, uintptr(unsafe.Pointer(inst)), native)
	if res != vk.Success {
		return NullHandle, vk.Error(res)
	}
	return d.register(vk.SurfaceFromPointer(surface)), nil
}

func (d *vkDriver) DestroySurface(instance, surface Handle) {
	if surface == NullHandle {
		return
	}
	vk.DestroySurface(get[vk.Instance](d, instance), get[vk.Surface](d, surface), nil)
	d.forget(surface)
}

func (d *vkDriver) PhysicalDevices(instance Handle) ([]Handle, error) {
	inst := get[vk.Instance](d, instance)
	var count uint32
	if res := vk.EnumeratePhysicalDevices(inst, &count, nil); res != vk.Success {
		return nil, vk.Error(res)
	}
	devices := make([]vk.PhysicalDevice, count)
	if res := vk.EnumeratePhysicalDevices(inst, &count, devices); res != vk.Success {
		return nil, vk.Error(res)
	}
	handles := make([]Handle, 0, count)
	for _, pd := range devices[:count] {
		d.mu.Lock()
		h, ok := d.physical[pd]
		d.mu.Unlock()
		if !ok {
			h = d.registerChild(instance, pd)
			d.mu.Lock()
			d.physical[pd] = h
			d.mu.Unlock()
		}
		handles = append(handles, h)
	}
	return handles, nil
}

func (d *vkDriver) DeviceProperties(physicalDevice Handle) DeviceProperties {
	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(get[vk.PhysicalDevice](d, physicalDevice), &props)
	props.Deref()
	return DeviceProperties{
		Name:          vk.ToString(props.DeviceName[:]),
		Type:          props.DeviceType,
		DriverVersion: props.DriverVersion,
		APIVersion:    props.ApiVersion,
	}
}

func (d *vkDriver) QueueFamilies(physicalDevice Handle) []QueueFamily {
	pd := get[vk.PhysicalDevice](d, physicalDevice)
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, nil)
	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, props)
	families := make([]QueueFamily, count)
	for i := range props[:count] {
		props[i].Deref()
		families[i] = QueueFamily{
			Graphics:   props[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0,
			QueueCount: props[i].QueueCount,
		}
	}
	return families
}

func (d *vkDriver) SurfaceSupport(physicalDevice Handle, family uint32, surface Handle) (bool, error) {
	var supported vk.Bool32
	res := vk.GetPhysicalDeviceSurfaceSupport(get[vk.PhysicalDevice](d, physicalDevice), family, get[vk.Surface](d, surface), &supported)
	if res != vk.Success {
		return false, vk.Error(res)
	}
	return supported == vk.True, nil
}

func (d *vkDriver) DeviceExtensions(physicalDevice Handle) ([]string, error) {
	pd := get[vk.PhysicalDevice](d, physicalDevice)
	var count uint32
	if res := vk.EnumerateDeviceExtensionProperties(pd, "", &count, nil); res != vk.Success {
		return nil, vk.Error(res)
	}
	props := make([]vk.ExtensionProperties, count)
	if res := vk.EnumerateDeviceExtensionProperties(pd, "", &count, props); res != vk.Success {
		return nil, vk.Error(res)
	}
	names := make([]string, 0, count)
	for i := range props[:count] {
		props[i].Deref()
		names = append(names, vk.ToString(props[i].ExtensionName[:]))
	}
	return names, nil
}

func (d *vkDriver) SurfaceCapabilities(physicalDevice, surface Handle) (vk.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	res := vk.GetPhysicalDeviceSurfaceCapabilities(get[vk.PhysicalDevice](d, physicalDevice), get[vk.Surface](d, surface), &caps)
	if res != vk.Success {
		return vk.SurfaceCapabilities{}, vk.Error(res)
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()
	return caps, nil
}

func (d *vkDriver) SurfaceFormats(physicalDevice, surface Handle) ([]vk.SurfaceFormat, error) {
	pd, s := get[vk.PhysicalDevice](d, physicalDevice), get[vk.Surface](d, surface)
	var count uint32
	if res := vk.GetPhysicalDeviceSurfaceFormats(pd, s, &count, nil); res != vk.Success {
		return nil, vk.Error(res)
	}
	formats := make([]vk.SurfaceFormat, count)
	if res := vk.GetPhysicalDeviceSurfaceFormats(pd, s, &count, formats); res != vk.Success {
		return nil, vk.Error(res)
	}
	for i := range formats[:count] {
		formats[i].Deref()
	}
	return formats[:count], nil
}

func (d *vkDriver) PresentModes(physicalDevice, surface Handle) ([]vk.PresentMode, error) {
	pd, s := get[vk.PhysicalDevice](d, physicalDevice), get[vk.Surface](d, surface)
	var count uint32
	if res := vk.GetPhysicalDeviceSurfacePresentModes(pd, s, &count, nil); res != vk.Success {
		return nil, vk.Error(res)
	}
	modes := make([]vk.PresentMode, count)
	if res := vk.GetPhysicalDeviceSurfacePresentModes(pd, s, &count, modes); res != vk.Success {
		return nil, vk.Error(res)
	}
	return modes[:count], nil
}

func (d *vkDriver) FormatProperties(physicalDevice Handle, format vk.Format) vk.FormatProperties {
	var props vk.FormatProperties
	vk.GetPhysicalDeviceFormatProperties(get[vk.PhysicalDevice](d, physicalDevice), format, &props)
	props.Deref()
	return props
}

// CreateDevice creates the logical device and resolves the device tier of entry points against it.
func (d *vkDriver) CreateDevice(physicalDevice Handle, desc DeviceDescriptor) (Handle, error) {
	priorities := []float32{1}
	queues := make([]vk.DeviceQueueCreateInfo, len(desc.QueueFamilies))
	for i, family := range desc.QueueFamilies {
		queues[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: priorities,
		}
	}
	info := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queues)),
		PQueueCreateInfos:       queues,
		EnabledExtensionCount:   uint32(len(desc.Extensions)),
		PpEnabledExtensionNames: safeStrings(desc.Extensions),
		EnabledLayerCount:       uint32(len(desc.Layers)),
		PpEnabledLayerNames:     safeStrings(desc.Layers),
	}
	var dev vk.Device
	if res := vk.CreateDevice(get[vk.PhysicalDevice](d, physicalDevice), &info, nil, &dev); res != vk.Success {
		return NullHandle, vk.Error(res)
	}
	if err := d.mod.resolveDevice(uintptr(unsafe.Pointer(dev))); err != nil {
		vk.DestroyDevice(dev, nil)
		return NullHandle, err
	}
	return d.register(dev), nil
}

func (d *vkDriver) DestroyDevice(device Handle) {
	if dev := get[vk.Device](d, device); dev != nil {
		vk.DestroyDevice(dev, nil)
	}
	d.forget(device)
}

func (d *vkDriver) DeviceQueue(device Handle, family uint32) Handle {
	var q vk.Queue
	vk.GetDeviceQueue(get[vk.Device](d, device), family, 0, &q)
	return d.registerChild(device, q)
}

func (d *vkDriver) DeviceWaitIdle(device Handle) error {
	return vk.Error(vk.DeviceWaitIdle(get[vk.Device](d, device)))
}

func (d *vkDriver) CreateSwapchain(device Handle, desc SwapchainDescriptor) (Handle, error) {
	info := vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		Surface:               get[vk.Surface](d, desc.Surface),
		MinImageCount:         desc.MinImageCount,
		ImageFormat:           desc.Format.Format,
		ImageColorSpace:       desc.Format.ColorSpace,
		ImageExtent:           desc.Extent,
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode:      desc.SharingMode,
		QueueFamilyIndexCount: uint32(len(desc.QueueFamilyIndices)),
		PQueueFamilyIndices:   desc.QueueFamilyIndices,
		PreTransform:          desc.PreTransform,
		CompositeAlpha:        vk.CompositeAlphaOpaqueBit,
		PresentMode:           desc.PresentMode,
		Clipped:               vk.True,
	}
	var sc vk.Swapchain
	if res := vk.CreateSwapchain(get[vk.Device](d, device), &info, nil, &sc); res != vk.Success {
		return NullHandle, vk.Error(res)
	}
	return d.register(sc), nil
}

func (d *vkDriver) DestroySwapchain(device, swapchain Handle) {
	if swapchain == NullHandle {
		return
	}
	vk.DestroySwapchain(get[vk.Device](d, device), get[vk.Swapchain](d, swapchain), nil)
	d.forget(swapchain)
}

func (d *vkDriver) SwapchainImages(device, swapchain Handle) ([]Handle, error) {
	dev, sc := get[vk.Device](d, device), get[vk.Swapchain](d, swapchain)
	var count uint32
	if res := vk.GetSwapchainImages(dev, sc, &count, nil); res != vk.Success {
		return nil, vk.Error(res)
	}
	images := make([]vk.Image, count)
	if res := vk.GetSwapchainImages(dev, sc, &count, images); res != vk.Success {
		return nil, vk.Error(res)
	}
	handles := make([]Handle, count)
	for i, img := range images[:count] {
		handles[i] = d.registerChild(swapchain, img)
	}
	return handles, nil
}

func (d *vkDriver) CreateImageView(device Handle, desc ImageViewDescriptor) (Handle, error) {
	info := vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    get[vk.Image](d, desc.Image),
		ViewType: desc.ViewType,
		Format:   desc.Format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(desc.Aspect),
			LevelCount: 1,
			LayerCount: 1,
		},
	}
	var view vk.ImageView
	if res := vk.CreateImageView(get[vk.Device](d, device), &info, nil, &view); res != vk.Success {
		return NullHandle, vk.Error(res)
	}
	return d.register(view), nil
}

func (d *vkDriver) DestroyImageView(device, view Handle) {
	if view == NullHandle {
		return
	}
	vk.DestroyImageView(get[vk.Device](d, device), get[vk.ImageView](d, view), nil)
	d.forget(view)
}

func (d *vkDriver) CreateRenderPass(device Handle, desc RenderPassDescriptor) (Handle, error) {
	info := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(desc.Attachments)),
		PAttachments:    desc.Attachments,
		SubpassCount:    uint32(len(desc.Subpasses)),
		PSubpasses:      desc.Subpasses,
		DependencyCount: uint32(len(desc.Dependencies)),
		PDependencies:   desc.Dependencies,
	}
	var rp vk.RenderPass
	if res := vk.CreateRenderPass(get[vk.Device](d, device), &info, nil, &rp); res != vk.Success {
		return NullHandle, vk.Error(res)
	}
	return d.register(rp), nil
}

func (d *vkDriver) DestroyRenderPass(device, renderPass Handle) {
	if renderPass == NullHandle {
		return
	}
	vk.DestroyRenderPass(get[vk.Device](d, device), get[vk.RenderPass](d, renderPass), nil)
	d.forget(renderPass)
}

func (d *vkDriver) CreateFramebuffer(device Handle, desc FramebufferDescriptor) (Handle, error) {
	views := make([]vk.ImageView, len(desc.Attachments))
	for i, h := range desc.Attachments {
		views[i] = get[vk.ImageView](d, h)
	}
	info := vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      get[vk.RenderPass](d, desc.RenderPass),
		AttachmentCount: uint32(len(views)),
		PAttachments:    views,
		Width:           desc.Width,
		Height:          desc.Height,
		Layers:          1,
	}
	var fb vk.Framebuffer
	if res := vk.CreateFramebuffer(get[vk.Device](d, device), &info, nil, &fb); res != vk.Success {
		return NullHandle, vk.Error(res)
	}
	return d.register(fb), nil
}

func (d *vkDriver) DestroyFramebuffer(device, framebuffer Handle) {
	if framebuffer == NullHandle {
		return
	}
	vk.DestroyFramebuffer(get[vk.Device](d, device), get[vk.Framebuffer](d, framebuffer), nil)
	d.forget(framebuffer)
}

func (d *vkDriver) CreateShaderModule(device Handle, code []byte) (Handle, error) {
	words := make([]uint32, len(code)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(code[i*4:])
	}
	info := vk.ShaderModuleCreateInfo{
		SType:    vk.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint64(len(code)),
		PCode:    words,
	}
	var m vk.ShaderModule
	if res := vk.CreateShaderModule(get[vk.Device](d, device), &info, nil, &m); res != vk.Success {
		return NullHandle, vk.Error(res)
	}
	return d.register(m), nil
}

func (d *vkDriver) DestroyShaderModule(device, module Handle) {
	if module == NullHandle {
		return
	}
	vk.DestroyShaderModule(get[vk.Device](d, device), get[vk.ShaderModule](d, module), nil)
	d.forget(module)
}

func (d *vkDriver) CreateDescriptorSetLayout(device Handle, bindings []vk.DescriptorSetLayoutBinding) (Handle, error) {
	info := vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}
	var layout vk.DescriptorSetLayout
	if res := vk.CreateDescriptorSetLayout(get[vk.Device](d, device), &info, nil, &layout); res != vk.Success {
		return NullHandle, vk.Error(res)
	}
	return d.register(layout), nil
}

func (d *vkDriver) DestroyDescriptorSetLayout(device, layout Handle) {
	if layout == NullHandle {
		return
	}
	vk.DestroyDescriptorSetLayout(get[vk.Device](d, device), get[vk.DescriptorSetLayout](d, layout), nil)
	d.forget(layout)
}

// CreatePipelineLayout creates a layout over the given set layouts with no push constant ranges.
func (d *vkDriver) CreatePipelineLayout(device Handle, setLayouts []Handle) (Handle, error) {
	sets := make([]vk.DescriptorSetLayout, len(setLayouts))
	for i, h := range setLayouts {
		sets[i] = get[vk.DescriptorSetLayout](d, h)
	}
	info := vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: uint32(len(sets)),
		PSetLayouts:    sets,
	}
	var layout vk.PipelineLayout
	if res := vk.CreatePipelineLayout(get[vk.Device](d, device), &info, nil, &layout); res != vk.Success {
		return NullHandle, vk.Error(res)
	}
	return d.register(layout), nil
}

func (d *vkDriver) DestroyPipelineLayout(device, layout Handle) {
	if layout == NullHandle {
		return
	}
	vk.DestroyPipelineLayout(get[vk.Device](d, device), get[vk.PipelineLayout](d, layout), nil)
	d.forget(layout)
}

func (d *vkDriver) CreateGraphicsPipeline(device Handle, desc GraphicsPipelineDescriptor) (Handle, error) {
	stages := make([]vk.PipelineShaderStageCreateInfo, len(desc.Stages))
	for i, s := range desc.Stages {
		stages[i] = vk.PipelineShaderStageCreateInfo{
			SType:  vk.StructureTypePipelineShaderStageCreateInfo,
			Stage:  s.Stage,
			Module: get[vk.ShaderModule](d, s.Module),
			PName:  safeString(s.EntryPoint),
		}
	}
	vertexInput := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(desc.VertexBindings)),
		PVertexBindingDescriptions:      desc.VertexBindings,
		VertexAttributeDescriptionCount: uint32(len(desc.VertexAttributes)),
		PVertexAttributeDescriptions:    desc.VertexAttributes,
	}
	viewport := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
	}
	colorBlend := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: uint32(len(desc.ColorBlend)),
		PAttachments:    desc.ColorBlend,
		BlendConstants:  desc.BlendConstants,
	}
	dynamic := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(desc.DynamicStates)),
		PDynamicStates:    desc.DynamicStates,
	}
	inputAssembly, raster, multisample, depthStencil := desc.InputAssembly, desc.Rasterization, desc.Multisample, desc.DepthStencil

	infos := []vk.GraphicsPipelineCreateInfo{{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(stages)),
		PStages:             stages,
		PVertexInputState:   &vertexInput,
		PInputAssemblyState: &inputAssembly,
		PViewportState:      &viewport,
		PRasterizationState: &raster,
		PMultisampleState:   &multisample,
		PDepthStencilState:  &depthStencil,
		PColorBlendState:    &colorBlend,
		PDynamicState:       &dynamic,
		Layout:              get[vk.PipelineLayout](d, desc.Layout),
		RenderPass:          get[vk.RenderPass](d, desc.RenderPass),
		Subpass:             0,
		BasePipelineIndex:   -1,
	}}
	var pipelines [1]vk.Pipeline
	if res := vk.CreateGraphicsPipelines(get[vk.Device](d, device), nil, 1, infos, nil, pipelines[:]); res != vk.Success {
		return NullHandle, vk.Error(res)
	}
	return d.register(pipelines[0]), nil
}

func (d *vkDriver) DestroyPipeline(device, pipeline Handle) {
	if pipeline == NullHandle {
		return
	}
	vk.DestroyPipeline(get[vk.Device](d, device), get[vk.Pipeline](d, pipeline), nil)
	d.forget(pipeline)
}

// Release unloads the module and clears the registry.
func (d *vkDriver) Release() {
	d.mod.unload()
	d.mu.Lock()
	d.objects = make(map[Handle]any)
	d.children = make(map[Handle][]Handle)
	d.physical = make(map[vk.PhysicalDevice]Handle)
	d.mu.Unlock()
}
