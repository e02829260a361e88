package vulkan

import (
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
	vk "github.com/goki/vulkan"
)

const (
	createDebugUtilsMessengerProc  = "vkCreateDebugUtilsMessengerEXT"
	destroyDebugUtilsMessengerProc = "vkDestroyDebugUtilsMessengerEXT"

	structureTypeDebugUtilsMessengerCreateInfo = 1000128004
)

// debugUtilsMessengerCreateInfo mirrors VkDebugUtilsMessengerCreateInfoEXT. It holds no Go pointers, so it
// can be chained into instance creation as is.
type debugUtilsMessengerCreateInfo struct {
	sType           uint32
	pNext           uintptr
	flags           uint32
	messageSeverity uint32
	messageType     uint32
	pfnUserCallback uintptr
	pUserData       uintptr
}

// debugUtilsCallbackData mirrors the leading fields of VkDebugUtilsMessengerCallbackDataEXT.
type debugUtilsCallbackData struct {
	sType           uint32
	pNext           uintptr
	flags           uint32
	pMessageIDName  uintptr
	messageIDNumber int32
	pMessage        uintptr
}

// debugMessenger is a created VkDebugUtilsMessengerEXT and the id its callback is registered under.
type debugMessenger struct {
	handle uint64
	id     uintptr
}

// debugCallbacks maps the pUserData id given to the driver to the callback messages are forwarded to.
// purego callbacks are never freed, so a single trampoline serves every messenger.
var debugCallbacks = struct {
	sync.Mutex
	next uintptr
	byID map[uintptr]DebugCallback
}{byID: map[uintptr]DebugCallback{}}

func registerDebugCallback(cb DebugCallback) uintptr {
	debugCallbacks.Lock()
	defer debugCallbacks.Unlock()
	debugCallbacks.next++
	debugCallbacks.byID[debugCallbacks.next] = cb
	return debugCallbacks.next
}

func unregisterDebugCallback(id uintptr) {
	debugCallbacks.Lock()
	delete(debugCallbacks.byID, id)
	debugCallbacks.Unlock()
}

func lookupDebugCallback(id uintptr) DebugCallback {
	debugCallbacks.Lock()
	defer debugCallbacks.Unlock()
	return debugCallbacks.byID[id]
}

// debugTrampoline is the PFN_vkDebugUtilsMessengerCallbackEXT handed to the driver. It always returns
// VK_FALSE so the triggering call is not aborted.
var debugTrampoline = sync.OnceValue(func() uintptr {
	return purego.NewCallback(func(severity, types, data, userData uintptr) uintptr {
		cb := lookupDebugCallback(userData)
		if cb == nil || data == 0 {
			return 0
		}
		msg := (*debugUtilsCallbackData)(unsafe.Pointer(data))
		cb(severityFromUtils(uint32(severity), uint32(types)), cString(msg.pMessageIDName), cString(msg.pMessage))
		return 0
	})
})

// newDebugUtilsCreateInfo builds the messenger create info for the callback registered under id.
func newDebugUtilsCreateInfo(id uintptr) *debugUtilsMessengerCreateInfo {
	return &debugUtilsMessengerCreateInfo{
		sType:           structureTypeDebugUtilsMessengerCreateInfo,
		messageSeverity: debugUtilsSeverities,
		messageType:     debugUtilsTypes,
		pfnUserCallback: debugTrampoline(),
		pUserData:       id,
	}
}

func createDebugUtilsMessenger(proc, instance uintptr, info *debugUtilsMessengerCreateInfo) (uint64, vk.Result) {
	var messenger uint64
	r, _, _ := purego.SyscallN(proc, instance, uintptr(unsafe.Pointer(info)), 0, uintptr(unsafe.Pointer(&messenger)))
	runtime.KeepAlive(info)
	return messenger, vk.Result(int32(r))
}

func destroyDebugUtilsMessenger(proc, instance uintptr, messenger uint64) {
	purego.SyscallN(proc, instance, uintptr(messenger), 0)
}

// cString copies a NUL-terminated string owned by the driver.
func cString(p uintptr) string {
	if p == 0 {
		return ""
	}
	ptr := unsafe.Pointer(p)
	n := 0
	for *(*byte)(unsafe.Add(ptr, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(ptr), n))
}
