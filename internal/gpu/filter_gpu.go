//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/internal/shader"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// fenceTimeout bounds the wait for one filter dispatch.
const fenceTimeout = 5 * time.Second

// program is one compiled filter pipeline.
type program struct {
	module   hal.ShaderModule
	pipeline hal.ComputePipeline
}

// FilterAccelerator runs eager filter programs as wgpu/hal compute
// shaders. It implements the sketch.FilterAccelerator interface.
//
// Every program shares one bind group layout: params, source, second
// input and output. Each RunFilter is a single submit and fence wait.
type FilterAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	programs   map[string]program

	gpuReady       bool
	externalDevice bool // true when using shared device (don't destroy on Close)
}

var _ sketch.FilterAccelerator = (*FilterAccelerator)(nil)

func (a *FilterAccelerator) Name() string { return "wgpu-filter" }

// Init opens a Vulkan device. A missing GPU is not an error: the
// accelerator stays registered and reports CanRun false, so every filter
// runs on the CPU.
func (a *FilterAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.initGPU(); err != nil {
		slogger().Warn("gpu-filter: GPU init failed, using CPU filters", "err", err)
	}
	return nil
}

func (a *FilterAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyPipelines()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
		}
		if a.instance != nil {
			a.instance.Destroy()
		}
	}
	a.device = nil
	a.queue = nil
	a.instance = nil
	a.gpuReady = false
	a.externalDevice = false
}

// SetLogger receives the logger propagated by sketch.SetLogger.
func (a *FilterAccelerator) SetLogger(l *slog.Logger) { setLogger(l) }

// SetDeviceProvider switches to a shared GPU device. The provider must
// implement HalDevice() any and HalQueue() any returning hal.Device and
// hal.Queue. The shared device is not destroyed on Close.
func (a *FilterAccelerator) SetDeviceProvider(provider any) error {
	hp, ok := provider.(interface {
		HalDevice() any
		HalQueue() any
	})
	if !ok {
		return errors.New("gpu-filter: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return errors.New("gpu-filter: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return errors.New("gpu-filter: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.destroyPipelines()
	if !a.externalDevice && a.device != nil {
		a.device.Destroy()
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}

	a.device = device
	a.queue = queue
	a.externalDevice = true

	if err := a.createPipelines(); err != nil {
		a.gpuReady = false
		return fmt.Errorf("gpu-filter: create pipelines with shared device: %w", err)
	}
	a.gpuReady = true
	slogger().Info("gpu-filter: switched to shared GPU device")
	return nil
}

// CanRun reports whether the device is open and the program compiled.
func (a *FilterAccelerator) CanRun(name string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return false
	}
	_, ok := a.programs[name]
	return ok
}

// RunFilter uploads the inputs, dispatches the program over the output
// and reads the result back into job.Dst.
func (a *FilterAccelerator) RunFilter(job sketch.FilterJob) error {
	if job.Dst == nil || job.Src == nil {
		return sketch.ErrFallbackToCPU
	}
	w, h := job.Dst.Rect.Dx(), job.Dst.Rect.Dy()
	if w == 0 || h == 0 || job.Src.Rect.Dx() != w || job.Src.Rect.Dy() != h {
		return sketch.ErrFallbackToCPU
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return sketch.ErrFallbackToCPU
	}
	prog, ok := a.programs[job.Program]
	if !ok {
		return sketch.ErrFallbackToCPU
	}
	if err := a.dispatch(prog, job, w, h); err != nil {
		return fmt.Errorf("gpu-filter: %s: %w", job.Program, err)
	}
	return nil
}

// filterBuffers holds the per-dispatch GPU buffers.
type filterBuffers struct {
	params, src, src2, dst, staging hal.Buffer
	sizes                           [4]uint64
}

func (a *FilterAccelerator) dispatch(prog program, job sketch.FilterJob, w, h int) error {
	params := shader.Params{
		Width: uint32(w), Height: uint32(h), //nolint:gosec // dimensions always fit uint32
		A: job.A, B: job.B,
	}
	src2 := []byte{0, 0, 0, 0}
	if job.Src2 != nil {
		params.Width2 = uint32(job.Src2.Rect.Dx())  //nolint:gosec // dimensions always fit uint32
		params.Height2 = uint32(job.Src2.Rect.Dy()) //nolint:gosec // dimensions always fit uint32
		if params.Width2 > 0 && params.Height2 > 0 {
			src2 = packPixels(job.Src2)
		}
	}

	bufs, err := a.createBuffers(params.Bytes(), packPixels(job.Src), src2)
	defer a.destroyBuffers(&bufs)
	if err != nil {
		return err
	}

	bg, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "filter_bind", Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: bufs.params.NativeHandle(), Offset: 0, Size: bufs.sizes[0]}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: bufs.src.NativeHandle(), Offset: 0, Size: bufs.sizes[1]}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: bufs.src2.NativeHandle(), Offset: 0, Size: bufs.sizes[2]}},
			{Binding: 3, Resource: gputypes.BufferBinding{Buffer: bufs.dst.NativeHandle(), Offset: 0, Size: bufs.sizes[3]}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bg)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "filter_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("filter"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	gx, gy := shader.Groups(w, h)
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "filter_pass"})
	pass.SetPipeline(prog.pipeline)
	pass.SetBindGroup(0, bg, nil)
	pass.Dispatch(gx, gy, 1)
	pass.End()
	encoder.CopyBufferToBuffer(bufs.dst, bufs.staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: bufs.sizes[3]},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	fence, err := a.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer a.device.DestroyFence(fence)
	if err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := a.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, bufs.sizes[3])
	if err := a.queue.ReadBuffer(bufs.staging, 0, readback); err != nil {
		return fmt.Errorf("readback: %w", err)
	}
	unpackPixels(readback, job.Dst)
	return nil
}

func (a *FilterAccelerator) createBuffers(params, src, src2 []byte) (filterBuffers, error) {
	var b filterBuffers
	b.sizes = [4]uint64{uint64(len(params)), uint64(len(src)), uint64(len(src2)), uint64(len(src))}
	var err error
	create := func(label string, size uint64, usage gputypes.BufferUsage) hal.Buffer {
		if err != nil {
			return nil
		}
		var buf hal.Buffer
		buf, err = a.device.CreateBuffer(&hal.BufferDescriptor{Label: label, Size: size, Usage: usage})
		if err != nil {
			err = fmt.Errorf("create %s buffer: %w", label, err)
		}
		return buf
	}
	b.params = create("filter_params", b.sizes[0], gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	b.src = create("filter_src", b.sizes[1], gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	b.src2 = create("filter_src2", b.sizes[2], gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	b.dst = create("filter_dst", b.sizes[3], gputypes.BufferUsageStorage|gputypes.BufferUsageCopySrc)
	b.staging = create("filter_staging", b.sizes[3], gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst)
	if err != nil {
		return b, err
	}
	a.queue.WriteBuffer(b.params, 0, params)
	a.queue.WriteBuffer(b.src, 0, src)
	a.queue.WriteBuffer(b.src2, 0, src2)
	return b, nil
}

func (a *FilterAccelerator) destroyBuffers(b *filterBuffers) {
	for _, buf := range []hal.Buffer{b.params, b.src, b.src2, b.dst, b.staging} {
		if buf != nil {
			a.device.DestroyBuffer(buf)
		}
	}
}

func (a *FilterAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return errors.New("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return errors.New("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue
	if err := a.createPipelines(); err != nil {
		a.device.Destroy()
		a.device = nil
		a.queue = nil
		return fmt.Errorf("create pipelines: %w", err)
	}
	a.gpuReady = true
	slogger().Info("gpu-filter: GPU accelerator initialized", "adapter", selected.Info.Name, "programs", len(a.programs))
	return nil
}

func (a *FilterAccelerator) createPipelines() error {
	storage := func(binding uint32, t gputypes.BufferBindingType) gputypes.BindGroupLayoutEntry {
		return gputypes.BindGroupLayoutEntry{
			Binding: binding, Visibility: gputypes.ShaderStageCompute,
			Buffer: &gputypes.BufferBindingLayout{Type: t},
		}
	}
	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "filter_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			storage(0, gputypes.BufferBindingTypeUniform),
			storage(1, gputypes.BufferBindingTypeReadOnlyStorage),
			storage(2, gputypes.BufferBindingTypeReadOnlyStorage),
			storage(3, gputypes.BufferBindingTypeStorage),
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "filter_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	a.programs = make(map[string]program)
	for _, name := range shader.Names() {
		p, err := a.createProgram(name)
		if err != nil {
			// One broken program leaves the others usable.
			slogger().Warn("gpu-filter: program unavailable", "program", name, "err", err)
			continue
		}
		a.programs[name] = p
	}
	return nil
}

func (a *FilterAccelerator) createProgram(name string) (program, error) {
	src, err := shader.Source(name)
	if err != nil {
		return program{}, err
	}
	module, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  name,
		Source: hal.ShaderSource{WGSL: src},
	})
	if err != nil {
		return program{}, fmt.Errorf("compile %s shader: %w", name, err)
	}
	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: name + "_pipeline", Layout: a.pipeLayout,
		Compute: hal.ComputeState{Module: module, EntryPoint: "main"},
	})
	if err != nil {
		a.device.DestroyShaderModule(module)
		return program{}, fmt.Errorf("create %s compute pipeline: %w", name, err)
	}
	return program{module: module, pipeline: pipeline}, nil
}

func (a *FilterAccelerator) destroyPipelines() {
	if a.device == nil {
		return
	}
	for name, p := range a.programs {
		a.device.DestroyComputePipeline(p.pipeline)
		a.device.DestroyShaderModule(p.module)
		delete(a.programs, name)
	}
	if a.pipeLayout != nil {
		a.device.DestroyPipelineLayout(a.pipeLayout)
		a.pipeLayout = nil
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
		a.bindLayout = nil
	}
}

// packPixels packs img into little-endian RGBA8 words, rows top-down.
func packPixels(img *image.NRGBA) []byte {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := make([]byte, w*h*4)
	for y := range h {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := range w {
			s := row[x*4:]
			packed := uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16 | uint32(s[3])<<24
			binary.LittleEndian.PutUint32(out[(y*w+x)*4:], packed)
		}
	}
	return out
}

// unpackPixels writes packed words back into dst.
func unpackPixels(packed []byte, dst *image.NRGBA) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	for y := range h {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		for x := range w {
			val := binary.LittleEndian.Uint32(packed[(y*w+x)*4:])
			d := row[x*4:]
			d[0] = uint8(val & 0xFF)         //nolint:gosec // masked to 8 bits
			d[1] = uint8((val >> 8) & 0xFF)  //nolint:gosec // masked to 8 bits
			d[2] = uint8((val >> 16) & 0xFF) //nolint:gosec // masked to 8 bits
			d[3] = uint8(val >> 24)          //nolint:gosec // top 8 bits
		}
	}
}
