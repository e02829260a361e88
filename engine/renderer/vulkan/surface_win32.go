//go:build windows

package vulkan

import (
	"runtime"
	"unsafe"

	"github.com/ebitengine/purego"
	vk "github.com/goki/vulkan"
	"golang.org/x/sys/windows"
)

const (
	platformSurfaceExtension = "VK_KHR_win32_surface"
	platformSurfaceProc      = "vkCreateWin32SurfaceKHR"
)

// win32SurfaceCreateInfo mirrors VkWin32SurfaceCreateInfoKHR.
type win32SurfaceCreateInfo struct {
	sType     uint32
	pNext     uintptr
	flags     uint32
	hinstance uintptr
	hwnd      uintptr
}

const structureTypeWin32SurfaceCreateInfo = 1000009000

// platformCreateSurface creates a Win32 surface. A zero Display means the HINSTANCE of the running executable.
func platformCreateSurface(proc, instance uintptr, native NativeHandles) (uintptr, vk.Result) {
	hinstance := native.Display
	if hinstance == 0 {
		var h windows.Handle
		if err := windows.GetModuleHandleEx(0, nil, &h); err == nil {
			hinstance = uintptr(h)
		}
	}
	info := win32SurfaceCreateInfo{
		sType:     structureTypeWin32SurfaceCreateInfo,
		hinstance: hinstance,
		hwnd:      native.Window,
	}
	var surface uintptr
	r, _, _ := purego.SyscallN(proc, instance, uintptr(unsafe.Pointer(&info)), 0, uintptr(unsafe.Pointer(&surface)))
	runtime.KeepAlive(&info)
	return surface, vk.Result(int32(r))
}
