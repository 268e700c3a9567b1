// Package accel selects the execution path for hash kernels.
//
// A Backend probes the machine once, on first use, and settles on one of
// three paths: a plain CPU loop, an unrolled CPU loop on SIMD-capable
// hardware, or an attached Device (typically a GPU). A device that fails
// moves the backend to GPUFallback for the rest of its lifetime; no path
// ever upgrades again. Every path returns bit-identical results.
package accel

import "strings"

// Capability is the execution state of a Backend.
type Capability int32

const (
	// Uninitialized means the probe has not run yet.
	Uninitialized Capability = iota
	// CPUScalar runs kernels in a plain loop.
	CPUScalar
	// CPUSIMD runs kernels in an unrolled loop on SIMD-capable CPUs.
	CPUSIMD
	// GPUReady submits batches to the attached Device.
	GPUReady
	// GPUFallback is entered after a device failure; kernels run on the CPU.
	GPUFallback
)

// String returns the lower-case name of the capability.
func (c Capability) String() string {
	switch c {
	case Uninitialized:
		return "uninitialized"
	case CPUScalar:
		return "cpu-scalar"
	case CPUSIMD:
		return "cpu-simd"
	case GPUReady:
		return "gpu-ready"
	case GPUFallback:
		return "gpu-fallback"
	default:
		return "unknown"
	}
}

// UsesDevice reports whether kernels are submitted to the device.
func (c Capability) UsesDevice() bool { return c == GPUReady }

// Mode restricts which paths the probe may choose.
type Mode uint8

const (
	// ModeAuto picks the best available path.
	ModeAuto Mode = iota
	// ModeScalar forces CPUScalar and ignores any device.
	ModeScalar
	// ModeSIMD allows CPUSIMD when detected but ignores any device.
	ModeSIMD
)

// String returns the lower-case name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeScalar:
		return "scalar"
	case ModeSIMD:
		return "simd"
	default:
		return "unknown"
	}
}

// ParseMode parses a mode name. Unknown names return ModeAuto and false.
func ParseMode(s string) (Mode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, true
	case "scalar":
		return ModeScalar, true
	case "simd":
		return ModeSIMD, true
	default:
		return ModeAuto, false
	}
}
