package window

// Key codes passed to the key callbacks. They are GLFW key codes, which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyP      uint32 = 80  // P key (ASCII)
	KeyR      uint32 = 82  // R key (ASCII)
	KeySpace  uint32 = 32  // Spacebar (ASCII)
	KeyEscape uint32 = 256 // Escape key (GLFW), also closes the window
	KeyF5     uint32 = 294 // F5 key (GLFW)
)
