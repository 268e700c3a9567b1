package accel

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Kernel hashes one input. Kernels must be pure: the same bytes always give
// the same value, whichever path runs them.
type Kernel func(data []byte) uint64

// Device is an off-CPU executor for kernels, usually a GPU compute context.
//
// Init is called at most once, during the probe. Run must fill out[i] for
// every inputs[i] or return an error; a partially written out is discarded.
type Device interface {
	Name() string
	Init() error
	Run(k Kernel, inputs [][]byte, out []uint64) error
}

// FallbackHook observes a state downgrade. It runs at most once per Backend
// for the GPUReady -> GPUFallback transition.
type FallbackHook func(from, to Capability, cause error)

// Error describes a device failure. It is logged and passed to the
// FallbackHook, never returned from Compute.
type Error struct {
	Device string
	Op     string
	Cause  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("accel %s %s: %v", e.Device, e.Op, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Backend runs kernels on the path chosen by a one-time probe.
type Backend struct {
	state atomic.Int32 // Capability
	once  sync.Once
	cpu   Capability // CPU path used outside GPUReady; set by probe

	mode       Mode
	device     Device
	detect     func() CPUFeatures
	logger     *slog.Logger
	onFallback FallbackHook
}

// Option configures a Backend.
type Option func(*Backend)

// WithDevice attaches a device for the probe to try.
func WithDevice(d Device) Option {
	return func(b *Backend) { b.device = d }
}

// WithMode restricts the probe. EnvOverride takes precedence when set.
func WithMode(m Mode) Option {
	return func(b *Backend) { b.mode = m }
}

// WithLogger sets the logger used for probe and fallback events.
func WithLogger(l *slog.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithFallbackHook registers a hook for the device downgrade.
func WithFallbackHook(h FallbackHook) Option {
	return func(b *Backend) { b.onFallback = h }
}

// WithCPUFeatures replaces CPU detection, mainly for tests.
func WithCPUFeatures(f CPUFeatures) Option {
	return func(b *Backend) { b.detect = func() CPUFeatures { return f } }
}

// New creates a backend. The probe is deferred to first use.
func New(opts ...Option) *Backend {
	b := &Backend{
		detect: DetectCPU,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Capability returns the current state, running the probe if needed.
func (b *Backend) Capability() Capability {
	b.once.Do(b.probe)
	return Capability(b.state.Load())
}

// Compute runs k over data.
func (b *Backend) Compute(k Kernel, data []byte) uint64 {
	if b.Capability() == GPUReady {
		var out [1]uint64
		if b.runDevice(k, [][]byte{data}, out[:]) {
			return out[0]
		}
	}
	return k(data)
}

// ComputeBatch runs k over every input, writing results to out[:len(inputs)].
// out must be at least as long as inputs.
func (b *Backend) ComputeBatch(k Kernel, inputs [][]byte, out []uint64) {
	if len(inputs) == 0 {
		return
	}
	out = out[:len(inputs)]

	if b.Capability() == GPUReady && b.runDevice(k, inputs, out) {
		return
	}
	if b.cpu == CPUSIMD {
		runUnrolled(k, inputs, out)
		return
	}
	runScalar(k, inputs, out)
}

func (b *Backend) probe() {
	mode := modeFromEnv(b.mode)
	features := b.detect()

	b.cpu = CPUScalar
	if mode != ModeScalar && features.SIMD() {
		b.cpu = CPUSIMD
	}

	if mode == ModeAuto && b.device != nil {
		if err := b.device.Init(); err != nil {
			// Init failure is a degradation, not a caller error.
			b.logger.Warn("accel device unavailable, using cpu",
				"device", b.device.Name(),
				"path", b.cpu.String(),
				"error", err,
			)
		} else {
			b.state.Store(int32(GPUReady))
			b.logger.Info("accel device ready", "device", b.device.Name())
			return
		}
	}

	b.state.Store(int32(b.cpu))
	b.logger.Debug("accel probe complete",
		"path", b.cpu.String(),
		"mode", mode.String(),
		"avx2", features.AVX2,
		"asimd", features.ASIMD,
	)
}

// runDevice submits a batch; false means the caller must recompute on the CPU.
func (b *Backend) runDevice(k Kernel, inputs [][]byte, out []uint64) bool {
	err := b.device.Run(k, inputs, out)
	if err == nil {
		return true
	}
	b.degrade(&Error{Device: b.device.Name(), Op: "run", Cause: err})
	return false
}

// degrade moves GPUReady -> GPUFallback. Only the winning CAS logs.
func (b *Backend) degrade(cause error) {
	if !b.state.CompareAndSwap(int32(GPUReady), int32(GPUFallback)) {
		return
	}
	b.logger.Warn("accel device failed, falling back to cpu",
		"path", b.cpu.String(),
		"error", cause,
	)
	if b.onFallback != nil {
		b.onFallback(GPUReady, GPUFallback, cause)
	}
}

func runScalar(k Kernel, inputs [][]byte, out []uint64) {
	for i, in := range inputs {
		out[i] = k(in)
	}
}

// runUnrolled processes four inputs per iteration so independent kernel
// calls can overlap in the pipeline.
func runUnrolled(k Kernel, inputs [][]byte, out []uint64) {
	n := len(inputs)
	i := 0
	for ; i+4 <= n; i += 4 {
		out[i] = k(inputs[i])
		out[i+1] = k(inputs[i+1])
		out[i+2] = k(inputs[i+2])
		out[i+3] = k(inputs[i+3])
	}
	for ; i < n; i++ {
		out[i] = k(inputs[i])
	}
}
