package vulkan

import (
	"fmt"
	"slices"

	"github.com/Carmen-Shannon/oxy-vk/engine/logger"
	vk "github.com/goki/vulkan"
)

const (
	surfaceExtension         = "VK_KHR_surface"
	headlessSurfaceExtension = "VK_EXT_headless_surface"
	swapchainExtension       = "VK_KHR_swapchain"
)

// instanceOptions are the inputs of instance negotiation.
type instanceOptions struct {
	appName  string
	debug    bool
	headless bool
	windowed bool
}

// instanceResult is a created instance with the negotiated extension and layer lists.
type instanceResult struct {
	instance   Handle
	messenger  Handle
	extensions []string
	layers     []string
}

// selectInstanceExtensions picks the instance extensions needed for the requested presentation modes.
// Windowed presentation requires the generic surface extension plus the single platform extension compiled
// for this build; both are checked against available. Headless presentation adds the headless surface
// extension when the driver offers it.
//
// Parameters:
//   - available: the extensions the driver reports
//   - windowed: whether window surfaces will be created
//   - headless: whether headless presentation was requested
//
// Returns:
//   - []string: the extensions to enable
//   - error: ErrExtensionUnavailable naming a missing mandatory extension
func selectInstanceExtensions(available []string, windowed, headless bool) ([]string, error) {
	var selected []string
	if windowed {
		for _, ext := range []string{surfaceExtension, platformSurfaceExtension} {
			if !slices.Contains(available, ext) {
				return nil, fmt.Errorf("%w: %s", ErrExtensionUnavailable, ext)
			}
			selected = append(selected, ext)
		}
	}
	if headless && slices.Contains(available, headlessSurfaceExtension) {
		selected = append(selected, headlessSurfaceExtension)
	}
	return selected, nil
}

// hasValidationLayer reports whether the validation layer is among the enumerated layers, by exact name.
func hasValidationLayer(layers []string) bool {
	return slices.Contains(layers, validationLayerName)
}

// newInstance negotiates extensions and layers, creates the instance and, when debugging with validation
// available, the debug messenger. The messenger callback is also chained into instance creation so
// validation output of vkCreateInstance itself is logged. A missing validation layer is logged and debugging is disabled.
// The instance is destroyed again when the messenger cannot be created.
//
// Parameters:
//   - drv: the driver
//   - log: the diagnostic sink, also the target of the debug messenger
//   - opts: the negotiation inputs
//
// Returns:
//   - instanceResult: the instance, messenger (NullHandle when not created) and enabled names
//   - error: ErrExtensionUnavailable or ErrInstanceCreation
func newInstance(drv Driver, log *logger.Logger, opts instanceOptions) (instanceResult, error) {
	available, err := drv.InstanceExtensions()
	if err != nil {
		log.Error().Str("op", "vkEnumerateInstanceExtensionProperties").Err(err).Msg("failed to enumerate instance extensions")
		return instanceResult{}, fmt.Errorf("%w: %w", ErrInstanceCreation, err)
	}

	extensions, err := selectInstanceExtensions(available, opts.windowed, opts.headless)
	if err != nil {
		log.Error().Str("op", "selectInstanceExtensions").Err(err).Msg("surface extension unavailable")
		return instanceResult{}, err
	}

	var layers []string
	wantMessenger := false
	if opts.debug {
		found, lerr := drv.InstanceLayers()
		switch {
		case lerr != nil:
			log.Warn().Str("op", "vkEnumerateInstanceLayerProperties").Err(lerr).Msg("failed to enumerate layers, debug logging disabled")
		case !hasValidationLayer(found):
			log.Warn().Str("layer", validationLayerName).Msg("validation layer unavailable, debug logging disabled")
		default:
			layers = []string{validationLayerName}
			if slices.Contains(available, debugUtilsExtension) {
				extensions = append(extensions, debugUtilsExtension)
				wantMessenger = true
			} else {
				log.Warn().Str("extension", debugUtilsExtension).Msg("debug utils extension unavailable, validation output will not be captured")
			}
		}
	}

	desc := InstanceDescriptor{
		AppName:    opts.appName,
		APIVersion: vk.MakeVersion(1, 2, 0),
		Extensions: extensions,
		Layers:     layers,
	}
	if wantMessenger {
		desc.Debug = debugLogger(log)
	}
	instance, err := drv.CreateInstance(desc)
	if err != nil {
		log.Error().Str("op", "vkCreateInstance").Err(err).Msg("failed to create instance")
		return instanceResult{}, fmt.Errorf("%w: %w", ErrInstanceCreation, err)
	}
	log.Trace().Strs("extensions", extensions).Strs("layers", layers).Msg("vulkan instance created")

	res := instanceResult{instance: instance, extensions: extensions, layers: layers}
	if wantMessenger {
		messenger, err := drv.CreateDebugMessenger(instance, desc.Debug)
		if err != nil {
			drv.DestroyInstance(instance)
			log.Error().Str("op", createDebugUtilsMessengerProc).Err(err).Msg("failed to create debug messenger")
			return instanceResult{}, fmt.Errorf("%w: %w", ErrInstanceCreation, err)
		}
		res.messenger = messenger
		log.Trace().Str("handle", hexHandle(messenger)).Msg("debug messenger created")
	}
	return res, nil
}

func hexHandle(h Handle) string {
	return fmt.Sprintf("%#x", uintptr(h))
}
