package graphics

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl32"
)

// Shared uniform block names and their fixed binding points
const (
	BlockMatrices   = "Matrices"
	BlockCamera     = "Camera"
	BlockWorldLight = "WorldLight"

	BindingMatrices   uint32 = 0
	BindingCamera     uint32 = 1
	BindingWorldLight uint32 = 2
)

var sharedBlocks = []struct {
	name    string
	binding uint32
}{
	{BlockMatrices, BindingMatrices},
	{BlockCamera, BindingCamera},
	{BlockWorldLight, BindingWorldLight},
}

// Program is what drawables and uniform binders need from a shader program
type Program interface {
	Use()
	Linked() bool
	SetMat4(name string, value mgl32.Mat4)
	SetVec3(name string, value mgl32.Vec3)
	SetInt(name string, value int32)
	SetFloat(name string, value float32)
}

// ShaderSources names the files of each stage. Geometry is optional.
type ShaderSources struct {
	Vertex   string
	Geometry string
	Fragment string
}

// Paths returns the non-empty source paths
func (s ShaderSources) Paths() []string {
	paths := []string{s.Vertex}
	if s.Geometry != "" {
		paths = append(paths, s.Geometry)
	}
	return append(paths, s.Fragment)
}

// Shader represents an OpenGL shader program.
// Compile and link failures are reported to the logger and never abort: the program
// object still exists but Linked returns false.
type Shader struct {
	ID      uint32
	Sources ShaderSources

	dev     Device
	log     *slog.Logger
	linked  bool
	uniform map[string]int32
	missing map[string]bool
}

// NewShader creates a shader program from the stage source files
func NewShader(dev Device, logger *slog.Logger, sources ShaderSources) *Shader {
	s := &Shader{
		Sources: sources,
		dev:     dev,
		log:     logger,
	}
	s.ID, s.linked = s.build()
	s.resetUniforms()
	return s
}

// Reload rebuilds the program from its files. A failed rebuild keeps the current program.
func (s *Shader) Reload() bool {
	id, linked := s.build()
	if !linked {
		s.dev.DeleteProgram(id)
		return false
	}
	s.dev.DeleteProgram(s.ID)
	s.ID, s.linked = id, true
	s.resetUniforms()
	return true
}

// Linked reports whether the last build produced a usable program
func (s *Shader) Linked() bool {
	return s.linked
}

// Use activates the shader program
func (s *Shader) Use() {
	s.dev.UseProgram(s.ID)
}

// Delete releases the program object
func (s *Shader) Delete() {
	s.dev.DeleteProgram(s.ID)
}

// SetBool sets a boolean uniform
func (s *Shader) SetBool(name string, value bool) {
	var intValue int32
	if value {
		intValue = 1
	}
	s.SetInt(name, intValue)
}

// SetInt sets an integer uniform
func (s *Shader) SetInt(name string, value int32) {
	if loc, ok := s.location(name); ok {
		s.dev.UniformInt(loc, value)
	}
}

// SetFloat sets a float uniform
func (s *Shader) SetFloat(name string, value float32) {
	if loc, ok := s.location(name); ok {
		s.dev.UniformFloat(loc, value)
	}
}

// SetVec3 sets a vector3 uniform
func (s *Shader) SetVec3(name string, value mgl32.Vec3) {
	if loc, ok := s.location(name); ok {
		s.dev.UniformVec3(loc, value)
	}
}

// SetMat4 sets a 4x4 matrix uniform
func (s *Shader) SetMat4(name string, value mgl32.Mat4) {
	if loc, ok := s.location(name); ok {
		s.dev.UniformMatrix4(loc, value)
	}
}

// location looks up and caches a uniform location. Unknown names are reported once.
func (s *Shader) location(name string) (int32, bool) {
	if loc, ok := s.uniform[name]; ok {
		return loc, loc >= 0
	}
	loc := s.dev.UniformLocation(s.ID, name)
	s.uniform[name] = loc
	if loc < 0 && !s.missing[name] {
		s.missing[name] = true
		s.log.Warn("uniform not found in program", "uniform", name, "program", s.ID, "vertex", s.Sources.Vertex)
	}
	return loc, loc >= 0
}

func (s *Shader) resetUniforms() {
	s.uniform = make(map[string]int32)
	s.missing = make(map[string]bool)
}

func (s *Shader) build() (uint32, bool) {
	stages := []struct {
		stage Stage
		path  string
	}{
		{StageVertex, s.Sources.Vertex},
		{StageGeometry, s.Sources.Geometry},
		{StageFragment, s.Sources.Fragment},
	}

	ok := true
	var shaders []uint32
	for _, st := range stages {
		if st.path == "" && st.stage == StageGeometry {
			continue
		}
		source, err := os.ReadFile(st.path)
		if err != nil {
			s.log.Error("ERROR::SHADER::FILE_NOT_SUCCESSFULLY_READ", "stage", st.stage.String(), "path", st.path, "err", err)
			ok = false
			continue
		}

		id, infoLog, compiled := s.dev.CompileShader(st.stage, string(source))
		if !compiled {
			s.log.Error(fmt.Sprintf("ERROR::SHADER::%s::COMPILATION_FAILED", st.stage), "path", st.path, "log", infoLog)
			ok = false
		}
		shaders = append(shaders, id)
	}

	program, infoLog, linked := s.dev.LinkProgram(shaders...)
	if !linked {
		s.log.Error("ERROR::SHADER::PROGRAM::LINK_FAILED", "vertex", s.Sources.Vertex, "fragment", s.Sources.Fragment, "log", infoLog)
	}
	for _, id := range shaders {
		s.dev.DeleteShader(id)
	}

	ok = ok && linked
	if ok {
		for _, b := range sharedBlocks {
			s.dev.UniformBlockBinding(program, b.name, b.binding)
		}
	}
	return program, ok
}

// Paths returns the source files the program is built from
func (s *Shader) Paths() []string {
	return s.Sources.Paths()
}
