package vulkan

import vk "github.com/goki/vulkan"

// ObjectKind names a class of native object for observers.
type ObjectKind string

const (
	ObjectInstance            ObjectKind = "instance"
	ObjectDebugMessenger      ObjectKind = "debug_messenger"
	ObjectSurface             ObjectKind = "surface"
	ObjectDevice              ObjectKind = "device"
	ObjectSwapchain           ObjectKind = "swapchain"
	ObjectImageView           ObjectKind = "image_view"
	ObjectRenderPass          ObjectKind = "render_pass"
	ObjectFramebuffer         ObjectKind = "framebuffer"
	ObjectShaderModule        ObjectKind = "shader_module"
	ObjectDescriptorSetLayout ObjectKind = "descriptor_set_layout"
	ObjectPipelineLayout      ObjectKind = "pipeline_layout"
	ObjectPipeline            ObjectKind = "pipeline"
)

// ObjectKinds lists every ObjectKind, in creation order.
var ObjectKinds = []ObjectKind{
	ObjectInstance, ObjectDebugMessenger, ObjectSurface, ObjectDevice, ObjectSwapchain, ObjectImageView,
	ObjectRenderPass, ObjectFramebuffer, ObjectShaderModule, ObjectDescriptorSetLayout, ObjectPipelineLayout, ObjectPipeline,
}

// Observer is notified of every native object created or destroyed through a Context, and of every failed
// create call. Calls arrive on the thread driving the Context.
type Observer interface {
	ObjectCreated(kind ObjectKind)
	ObjectDestroyed(kind ObjectKind)
	CreateFailed(kind ObjectKind, err error)
}

// observedDriver reports create and destroy calls of the wrapped Driver to an Observer.
type observedDriver struct {
	Driver
	obs Observer
}

var _ Driver = &observedDriver{}

func observe(drv Driver, obs Observer) Driver {
	if obs == nil {
		return drv
	}
	return &observedDriver{Driver: drv, obs: obs}
}

func (d *observedDriver) created(kind ObjectKind, h Handle, err error) (Handle, error) {
	if err != nil {
		d.obs.CreateFailed(kind, err)
		return h, err
	}
	d.obs.ObjectCreated(kind)
	return h, nil
}

func (d *observedDriver) destroyed(kind ObjectKind, h Handle) {
	if h != NullHandle {
		d.obs.ObjectDestroyed(kind)
	}
}

func (d *observedDriver) CreateInstance(desc InstanceDescriptor) (Handle, error) {
	h, err := d.Driver.CreateInstance(desc)
	return d.created(ObjectInstance, h, err)
}

func (d *observedDriver) DestroyInstance(instance Handle) {
	d.Driver.DestroyInstance(instance)
	d.destroyed(ObjectInstance, instance)
}

func (d *observedDriver) CreateDebugMessenger(instance Handle, cb DebugCallback) (Handle, error) {
	h, err := d.Driver.CreateDebugMessenger(instance, cb)
	return d.created(ObjectDebugMessenger, h, err)
}

func (d *observedDriver) DestroyDebugMessenger(instance, messenger Handle) {
	d.Driver.DestroyDebugMessenger(instance, messenger)
	d.destroyed(ObjectDebugMessenger, messenger)
}

func (d *observedDriver) CreateSurface(instance Handle, native NativeHandles) (Handle, error) {
	h, err := d.Driver.CreateSurface(instance, native)
	return d.created(ObjectSurface, h, err)
}

func (d *observedDriver) DestroySurface(instance, surface Handle) {
	d.Driver.DestroySurface(instance, surface)
	d.destroyed(ObjectSurface, surface)
}

func (d *observedDriver) CreateDevice(physicalDevice Handle, desc DeviceDescriptor) (Handle, error) {
	h, err := d.Driver.CreateDevice(physicalDevice, desc)
	return d.created(ObjectDevice, h, err)
}

func (d *observedDriver) DestroyDevice(device Handle) {
	d.Driver.DestroyDevice(device)
	d.destroyed(ObjectDevice, device)
}

func (d *observedDriver) CreateSwapchain(device Handle, desc SwapchainDescriptor) (Handle, error) {
	h, err := d.Driver.CreateSwapchain(device, desc)
	return d.created(ObjectSwapchain, h, err)
}

func (d *observedDriver) DestroySwapchain(device, swapchain Handle) {
	d.Driver.DestroySwapchain(device, swapchain)
	d.destroyed(ObjectSwapchain, swapchain)
}

func (d *observedDriver) CreateImageView(device Handle, desc ImageViewDescriptor) (Handle, error) {
	h, err := d.Driver.CreateImageView(device, desc)
	return d.created(ObjectImageView, h, err)
}

func (d *observedDriver) DestroyImageView(device, view Handle) {
	d.Driver.DestroyImageView(device, view)
	d.destroyed(ObjectImageView, view)
}

func (d *observedDriver) CreateRenderPass(device Handle, desc RenderPassDescriptor) (Handle, error) {
	h, err := d.Driver.CreateRenderPass(device, desc)
	return d.created(ObjectRenderPass, h, err)
}

func (d *observedDriver) DestroyRenderPass(device, renderPass Handle) {
	d.Driver.DestroyRenderPass(device, renderPass)
	d.destroyed(ObjectRenderPass, renderPass)
}

func (d *observedDriver) CreateFramebuffer(device Handle, desc FramebufferDescriptor) (Handle, error) {
	h, err := d.Driver.CreateFramebuffer(device, desc)
	return d.created(ObjectFramebuffer, h, err)
}

func (d *observedDriver) DestroyFramebuffer(device, framebuffer Handle) {
	d.Driver.DestroyFramebuffer(device, framebuffer)
	d.destroyed(ObjectFramebuffer, framebuffer)
}

func (d *observedDriver) CreateShaderModule(device Handle, code []byte) (Handle, error) {
	h, err := d.Driver.CreateShaderModule(device, code)
	return d.created(ObjectShaderModule, h, err)
}

func (d *observedDriver) DestroyShaderModule(device, module Handle) {
	d.Driver.DestroyShaderModule(device, module)
	d.destroyed(ObjectShaderModule, module)
}

func (d *observedDriver) CreateDescriptorSetLayout(device Handle, bindings []vk.DescriptorSetLayoutBinding) (Handle, error) {
	h, err := d.Driver.CreateDescriptorSetLayout(device, bindings)
	return d.created(ObjectDescriptorSetLayout, h, err)
}

func (d *observedDriver) DestroyDescriptorSetLayout(device, layout Handle) {
	d.Driver.DestroyDescriptorSetLayout(device, layout)
	d.destroyed(ObjectDescriptorSetLayout, layout)
}

func (d *observedDriver) CreatePipelineLayout(device Handle, setLayouts []Handle) (Handle, error) {
	h, err := d.Driver.CreatePipelineLayout(device, setLayouts)
	return d.created(ObjectPipelineLayout, h, err)
}

func (d *observedDriver) DestroyPipelineLayout(device, layout Handle) {
	d.Driver.DestroyPipelineLayout(device, layout)
	d.destroyed(ObjectPipelineLayout, layout)
}

func (d *observedDriver) CreateGraphicsPipeline(device Handle, desc GraphicsPipelineDescriptor) (Handle, error) {
	h, err := d.Driver.CreateGraphicsPipeline(device, desc)
	return d.created(ObjectPipeline, h, err)
}

func (d *observedDriver) DestroyPipeline(device, pipeline Handle) {
	d.Driver.DestroyPipeline(device, pipeline)
	d.destroyed(ObjectPipeline, pipeline)
}
