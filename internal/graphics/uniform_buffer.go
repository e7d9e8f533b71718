package graphics

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// std140 sizes of the shared block members
const (
	SizeMat4 = 64
	SizeVec4 = 16
)

// ErrBufferOverflow is returned when a write would run past the end of a uniform buffer
var ErrBufferOverflow = errors.New("uniform buffer write out of range")

// UniformBuffer is a fixed-size uniform buffer attached to one binding point for its whole life
type UniformBuffer struct {
	Name    string
	ID      uint32
	Binding uint32
	Size    int

	dev     Device
	scratch []byte
}

// NewUniformBuffer allocates size bytes and binds the whole range to binding
func NewUniformBuffer(dev Device, name string, binding uint32, size int) *UniformBuffer {
	id := dev.CreateUniformBuffer(size)
	dev.BindUniformBufferRange(binding, id, 0, size)
	return &UniformBuffer{
		Name:    name,
		ID:      id,
		Binding: binding,
		Size:    size,
		dev:     dev,
		scratch: make([]byte, 0, size),
	}
}

// Write overwrites the range starting at offset with the little-endian encoding of values
func (b *UniformBuffer) Write(offset int, values ...float32) error {
	n := len(values) * 4
	if offset < 0 || offset+n > b.Size {
		return fmt.Errorf("%w: %s [%d, %d) exceeds %d bytes", ErrBufferOverflow, b.Name, offset, offset+n, b.Size)
	}

	buf := b.scratch[:n]
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	b.dev.UniformBufferSubData(b.ID, offset, buf)
	return nil
}

// WriteMat4 writes a column-major matrix at offset
func (b *UniformBuffer) WriteMat4(offset int, m mgl32.Mat4) error {
	return b.Write(offset, m[:]...)
}

// WriteVec3 writes a vec3 at offset; std140 pads it to a vec4 slot
func (b *UniformBuffer) WriteVec3(offset int, v mgl32.Vec3) error {
	return b.Write(offset, v[0], v[1], v[2])
}

// Delete releases the buffer
func (b *UniformBuffer) Delete() {
	b.dev.DeleteBuffer(b.ID)
}
