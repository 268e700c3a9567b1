package accel

import (
	"os"
	"runtime"

	"golang.org/x/sys/cpu"
)

// EnvOverride names the environment variable that overrides the configured Mode.
const EnvOverride = "KIOHASH_ACCEL"

// CPUFeatures is the subset of CPU flags the probe cares about.
type CPUFeatures struct {
	AVX2  bool // x86-64 AVX2
	SSE41 bool // x86-64 SSE4.1
	ASIMD bool // ARM64 NEON
}

// SIMD reports whether any vector extension usable by the unrolled path is present.
func (f CPUFeatures) SIMD() bool { return f.AVX2 || f.SSE41 || f.ASIMD }

// DetectCPU reads CPU flags for the running architecture.
func DetectCPU() CPUFeatures {
	switch runtime.GOARCH {
	case "amd64", "386":
		return CPUFeatures{AVX2: cpu.X86.HasAVX2, SSE41: cpu.X86.HasSSE41}
	case "arm64":
		return CPUFeatures{ASIMD: cpu.ARM64.HasASIMD}
	default:
		return CPUFeatures{}
	}
}

// modeFromEnv applies EnvOverride on top of the configured mode.
func modeFromEnv(configured Mode) Mode {
	v, ok := os.LookupEnv(EnvOverride)
	if !ok {
		return configured
	}
	if m, ok := ParseMode(v); ok {
		return m
	}
	return configured
}
