//go:build darwin

package window

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-vk/engine/renderer/vulkan"
	"github.com/ebitengine/purego"
	"github.com/ebitengine/purego/objc"
)

const quartzCorePath = "/System/Library/Frameworks/QuartzCore.framework/QuartzCore"

var loadQuartzCore = sync.OnceValue(func() error {
	_, err := purego.Dlopen(quartzCorePath, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	return err
})

// platformNativeHandles attaches a CAMetalLayer to the window's content view the first time it is called
// and returns the layer. A Metal surface is created from the layer, not from the NSWindow.
func platformNativeHandles(gw *glfwWindow) vulkan.NativeHandles {
	if gw.layer == 0 {
		if err := loadQuartzCore(); err != nil {
			return vulkan.NativeHandles{}
		}
		nsWindow := objc.ID(gw.window.GetCocoaWindow())
		view := nsWindow.Send(objc.RegisterName("contentView"))
		layer := objc.ID(objc.GetClass("CAMetalLayer")).Send(objc.RegisterName("layer"))
		view.Send(objc.RegisterName("setWantsLayer:"), true)
		view.Send(objc.RegisterName("setLayer:"), layer)
		gw.layer = uintptr(layer)
	}
	return vulkan.NativeHandles{Window: gw.layer}
}
