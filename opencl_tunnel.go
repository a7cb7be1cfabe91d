//go:build opencl

package main

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"

	"tunnel/internal/tunnel"
)

// openCLTunnel runs the per-pixel lookup on an OpenCL device. Tables and
// texture are uploaded once; each frame only sets the four offsets and reads
// the RGBA buffer back.
type openCLTunnel struct {
	renderer *tunnel.Renderer

	context  *cl.Context
	queue    *cl.CommandQueue
	program  *cl.Program
	kernel   *cl.Kernel
	distBuf  *cl.MemObject
	angleBuf *cl.MemObject
	texBuf   *cl.MemObject
	pixelBuf *cl.MemObject

	width      int
	height     int
	deviceName string
}

// Kernel argument slots updated every frame.
const (
	argShiftX = 9
	argShiftY = 10
	argLookX  = 11
	argLookY  = 12
)

const tunnelKernelSource = `__kernel void tunnel_frame(
    const int width,
    const int height,
    const int stride,
    const int tex_width,
    const int tex_height,
    __global const int* distances,
    __global const int* angles,
    __global const uchar* texture,
    __global uchar* pixels,
    const int shift_x,
    const int shift_y,
    const int look_x,
    const int look_y)
{
    int idx = get_global_id(0);
    if (idx >= width * height) {
        return;
    }
    int x = idx % width;
    int y = idx / width;
    int src = (y + look_y) * stride + x + look_x;
    int tx = (distances[src] + shift_x) % tex_width;
    int ty = (angles[src] + shift_y) % tex_height;
    int o = idx * 4;
    pixels[o] = 0;
    pixels[o + 1] = texture[ty * tex_width + tx];
    pixels[o + 2] = 0;
    pixels[o + 3] = 255;
}`

// pickOpenCLDevice prefers the first GPU and falls back to the first CPU device.
func pickOpenCLDevice() (*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	for _, kind := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(kind)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				return devices[0], nil
			}
		}
	}
	return nil, errors.New("no suitable OpenCL devices found")
}

// newOpenCLTunnel compiles the kernel and uploads r's tables and texture.
func newOpenCLTunnel(r *tunnel.Renderer) (*openCLTunnel, error) {
	device, err := pickOpenCLDevice()
	if err != nil {
		return nil, err
	}
	s := &openCLTunnel{
		renderer:   r,
		width:      r.Width(),
		height:     r.Height(),
		deviceName: device.Name(),
	}
	if err := s.init(device); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *openCLTunnel) init(device *cl.Device) error {
	var err error
	if s.context, err = cl.CreateContext([]*cl.Device{device}); err != nil {
		return fmt.Errorf("creating OpenCL context: %w", err)
	}
	if s.queue, err = s.context.CreateCommandQueue(device, 0); err != nil {
		return fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if s.program, err = s.context.CreateProgramWithSource([]string{tunnelKernelSource}); err != nil {
		return fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := s.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		if buildErr, ok := err.(cl.BuildError); ok {
			return fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return fmt.Errorf("building OpenCL program: %w", err)
	}
	if s.kernel, err = s.program.CreateKernel("tunnel_frame"); err != nil {
		return fmt.Errorf("creating OpenCL kernel: %w", err)
	}

	table := s.renderer.Table()
	tex := s.renderer.Texture()
	int32Size := int(unsafe.Sizeof(int32(0)))
	if s.distBuf, err = s.uploadInt32(table.Distance, int32Size); err != nil {
		return fmt.Errorf("uploading distance table: %w", err)
	}
	if s.angleBuf, err = s.uploadInt32(table.Angle, int32Size); err != nil {
		return fmt.Errorf("uploading angle table: %w", err)
	}
	if s.texBuf, err = s.context.CreateEmptyBuffer(cl.MemReadOnly, len(tex.Pix)); err != nil {
		return fmt.Errorf("allocating texture buffer: %w", err)
	}
	if _, err := s.queue.EnqueueWriteBuffer(s.texBuf, true, 0, len(tex.Pix), unsafe.Pointer(&tex.Pix[0]), nil); err != nil {
		return fmt.Errorf("writing texture buffer: %w", err)
	}
	if s.pixelBuf, err = s.context.CreateEmptyBuffer(cl.MemWriteOnly, s.width*s.height*4); err != nil {
		return fmt.Errorf("allocating pixel buffer: %w", err)
	}

	if err := s.kernel.SetArgs(
		int32(s.width),
		int32(s.height),
		int32(table.Stride),
		int32(tex.Width),
		int32(tex.Height),
		s.distBuf,
		s.angleBuf,
		s.texBuf,
		s.pixelBuf,
		int32(0),
		int32(0),
		int32(0),
		int32(0),
	); err != nil {
		return fmt.Errorf("setting kernel arguments: %w", err)
	}
	return nil
}

func (s *openCLTunnel) uploadInt32(values []int32, elemSize int) (*cl.MemObject, error) {
	byteLen := len(values) * elemSize
	buf, err := s.context.CreateEmptyBuffer(cl.MemReadOnly, byteLen)
	if err != nil {
		return nil, err
	}
	if _, err := s.queue.EnqueueWriteBuffer(buf, true, 0, byteLen, unsafe.Pointer(&values[0]), nil); err != nil {
		buf.Release()
		return nil, err
	}
	return buf, nil
}

// Render runs one frame on the device and copies it into dst.
func (s *openCLTunnel) Render(phase float64, dst []byte) error {
	if len(dst) != s.width*s.height*4 {
		return fmt.Errorf("got %d bytes, want %d: %w", len(dst), s.width*s.height*4, tunnel.ErrBufferSize)
	}
	off := s.renderer.Offsets(phase)
	args := []struct {
		index int
		value int
	}{
		{argShiftX, off.ShiftX},
		{argShiftY, off.ShiftY},
		{argLookX, off.LookX},
		{argLookY, off.LookY},
	}
	for _, a := range args {
		if err := s.kernel.SetArgInt32(a.index, int32(a.value)); err != nil {
			return fmt.Errorf("setting kernel argument %d: %w", a.index, err)
		}
	}
	global := []int{s.width * s.height}
	if _, err := s.queue.EnqueueNDRangeKernel(s.kernel, nil, global, nil, nil); err != nil {
		return fmt.Errorf("enqueueing kernel: %w", err)
	}
	if _, err := s.queue.EnqueueReadBuffer(s.pixelBuf, true, 0, len(dst), unsafe.Pointer(&dst[0]), nil); err != nil {
		return fmt.Errorf("reading pixel buffer: %w", err)
	}
	return nil
}

func (s *openCLTunnel) Close() {
	for _, buf := range []**cl.MemObject{&s.pixelBuf, &s.texBuf, &s.angleBuf, &s.distBuf} {
		if *buf != nil {
			(*buf).Release()
			*buf = nil
		}
	}
	if s.kernel != nil {
		s.kernel.Release()
		s.kernel = nil
	}
	if s.program != nil {
		s.program.Release()
		s.program = nil
	}
	if s.queue != nil {
		s.queue.Release()
		s.queue = nil
	}
	if s.context != nil {
		s.context.Release()
		s.context = nil
	}
}

func (s *openCLTunnel) DeviceName() string {
	return s.deviceName
}
