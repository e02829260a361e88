package vulkan

import (
	"github.com/Carmen-Shannon/oxy-vk/engine/logger"
)

const (
	validationLayerName = "VK_LAYER_KHRONOS_validation"
	debugUtilsExtension = "VK_EXT_debug_utils"
)

// VkDebugUtilsMessageSeverityFlagBitsEXT and VkDebugUtilsMessageTypeFlagBitsEXT values.
const (
	debugUtilsSeverityVerbose uint32 = 0x00000001
	debugUtilsSeverityInfo    uint32 = 0x00000010
	debugUtilsSeverityWarning uint32 = 0x00000100
	debugUtilsSeverityError   uint32 = 0x00001000

	debugUtilsTypeGeneral     uint32 = 0x00000001
	debugUtilsTypeValidation  uint32 = 0x00000002
	debugUtilsTypePerformance uint32 = 0x00000004
)

// debugUtilsSeverities and debugUtilsTypes are the message classes a messenger subscribes to.
const (
	debugUtilsSeverities = debugUtilsSeverityVerbose | debugUtilsSeverityInfo | debugUtilsSeverityWarning | debugUtilsSeverityError
	debugUtilsTypes      = debugUtilsTypeGeneral | debugUtilsTypeValidation | debugUtilsTypePerformance
)

// DebugSeverity classifies a driver diagnostic.
type DebugSeverity int

const (
	DebugSeverityDebug DebugSeverity = iota
	DebugSeverityInfo
	DebugSeverityWarning
	DebugSeverityPerformance
	DebugSeverityError
)

func (s DebugSeverity) String() string {
	switch s {
	case DebugSeverityDebug:
		return "debug"
	case DebugSeverityInfo:
		return "info"
	case DebugSeverityWarning:
		return "warning"
	case DebugSeverityPerformance:
		return "performance"
	case DebugSeverityError:
		return "error"
	}
	return "unknown"
}

// severityFromUtils picks the most severe class of a debug utils message. Warnings of the performance type
// are reported as DebugSeverityPerformance.
func severityFromUtils(severity, types uint32) DebugSeverity {
	switch {
	case severity&debugUtilsSeverityError != 0:
		return DebugSeverityError
	case severity&debugUtilsSeverityWarning != 0 && types&debugUtilsTypePerformance != 0:
		return DebugSeverityPerformance
	case severity&debugUtilsSeverityWarning != 0:
		return DebugSeverityWarning
	case severity&debugUtilsSeverityInfo != 0:
		return DebugSeverityInfo
	default:
		return DebugSeverityDebug
	}
}

// debugLogger returns the DebugCallback that forwards driver diagnostics to log.
func debugLogger(log *logger.Logger) DebugCallback {
	return func(severity DebugSeverity, prefix, message string) {
		switch severity {
		case DebugSeverityError:
			log.Error().Str("layer", prefix).Msg(message)
		case DebugSeverityWarning, DebugSeverityPerformance:
			log.Warn().Str("layer", prefix).Str("kind", severity.String()).Msg(message)
		case DebugSeverityInfo:
			log.Info().Str("layer", prefix).Msg(message)
		default:
			log.Trace().Str("layer", prefix).Msg(message)
		}
	}
}
