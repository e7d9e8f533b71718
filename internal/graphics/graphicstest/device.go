// Package graphicstest provides an in-memory graphics.Device for tests.
package graphicstest

import (
	"encoding/binary"
	"math"
	"strings"

	"lowpoly/internal/graphics"

	"github.com/go-gl/mathgl/mgl32"
)

// Device records GPU calls instead of issuing them. A shader compiles when its
// source declares a main function; a program links when all its shaders compiled.
type Device struct {
	Buffers  map[uint32][]byte
	Bindings map[uint32]uint32 // binding point -> buffer
	Deleted  map[uint32]bool

	Programs      map[uint32]bool // program -> linked
	BlockBindings map[uint32]map[string]uint32
	Current       uint32
	UseCalls      []uint32

	// Uniforms is keyed by program, then uniform name
	Uniforms map[uint32]map[string]any
	// Known restricts the uniforms that exist; nil means every name resolves
	Known map[string]bool

	Clears    int
	Viewports [][2]int
	Defaults  int

	nextID    uint32
	shaders   map[uint32]bool
	locations map[int32]locationKey
}

type locationKey struct {
	program uint32
	name    string
}

// NewDevice creates an empty recording device
func NewDevice() *Device {
	return &Device{
		Buffers:       make(map[uint32][]byte),
		Bindings:      make(map[uint32]uint32),
		Deleted:       make(map[uint32]bool),
		Programs:      make(map[uint32]bool),
		BlockBindings: make(map[uint32]map[string]uint32),
		Uniforms:      make(map[uint32]map[string]any),
		shaders:       make(map[uint32]bool),
		locations:     make(map[int32]locationKey),
	}
}

func (d *Device) id() uint32 {
	d.nextID++
	return d.nextID
}

func (d *Device) EnableDefaults(bool) { d.Defaults++ }

func (d *Device) Viewport(width, height int) {
	d.Viewports = append(d.Viewports, [2]int{width, height})
}

func (d *Device) Clear() { d.Clears++ }

func (d *Device) CreateUniformBuffer(size int) uint32 {
	id := d.id()
	d.Buffers[id] = make([]byte, size)
	return id
}

func (d *Device) BindUniformBufferRange(binding, buffer uint32, offset, size int) {
	d.Bindings[binding] = buffer
}

// UniformBufferSubData panics on out-of-range writes, like a GL_INVALID_VALUE turned fatal
func (d *Device) UniformBufferSubData(buffer uint32, offset int, data []byte) {
	buf := d.Buffers[buffer]
	if offset < 0 || offset+len(data) > len(buf) {
		panic("graphicstest: sub data out of range")
	}
	copy(buf[offset:], data)
}

func (d *Device) DeleteBuffer(buffer uint32) { d.Deleted[buffer] = true }

func (d *Device) CompileShader(stage graphics.Stage, source string) (uint32, string, bool) {
	id := d.id()
	ok := strings.Contains(source, "void main")
	d.shaders[id] = ok
	if !ok {
		return id, "0:1(1): error: syntax error, unexpected end of file", false
	}
	return id, "", true
}

func (d *Device) LinkProgram(shaders ...uint32) (uint32, string, bool) {
	id := d.id()
	ok := len(shaders) > 0
	for _, s := range shaders {
		ok = ok && d.shaders[s]
	}
	d.Programs[id] = ok
	if !ok {
		return id, "error: linking with uncompiled/unspecialized shader", false
	}
	return id, "", true
}

func (d *Device) DeleteShader(id uint32) { delete(d.shaders, id) }

func (d *Device) DeleteProgram(id uint32) { d.Deleted[id] = true }

func (d *Device) UseProgram(id uint32) {
	d.Current = id
	d.UseCalls = append(d.UseCalls, id)
}

func (d *Device) UniformLocation(program uint32, name string) int32 {
	if d.Known != nil && !d.Known[name] {
		return -1
	}
	loc := int32(len(d.locations))
	d.locations[loc] = locationKey{program, name}
	return loc
}

func (d *Device) UniformBlockBinding(program uint32, block string, binding uint32) bool {
	if d.BlockBindings[program] == nil {
		d.BlockBindings[program] = make(map[string]uint32)
	}
	d.BlockBindings[program][block] = binding
	return true
}

func (d *Device) set(location int32, value any) {
	key, ok := d.locations[location]
	if !ok {
		return
	}
	if d.Uniforms[key.program] == nil {
		d.Uniforms[key.program] = make(map[string]any)
	}
	d.Uniforms[key.program][key.name] = value
}

func (d *Device) UniformMatrix4(location int32, value mgl32.Mat4) { d.set(location, value) }
func (d *Device) UniformVec3(location int32, value mgl32.Vec3)    { d.set(location, value) }
func (d *Device) UniformInt(location int32, value int32)          { d.set(location, value) }
func (d *Device) UniformFloat(location int32, value float32)      { d.set(location, value) }

// Floats decodes the contents of a buffer as little-endian float32 values
func (d *Device) Floats(buffer uint32) []float32 {
	buf := d.Buffers[buffer]
	out := make([]float32, len(buf)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return out
}

// Mat4 decodes the matrix stored at offset in a buffer
func (d *Device) Mat4(buffer uint32, offset int) mgl32.Mat4 {
	var m mgl32.Mat4
	copy(m[:], d.Floats(buffer)[offset/4:offset/4+16])
	return m
}

var _ graphics.Device = (*Device)(nil)
