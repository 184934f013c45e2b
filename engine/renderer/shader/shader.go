package shader

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader is compiled for.
type ShaderType int

const (
	// ShaderTypeCompute indicates a shader containing a @compute entry point.
	ShaderTypeCompute ShaderType = iota

	// ShaderTypeVertex is the vertex stage of a render pipeline.
	ShaderTypeVertex

	// ShaderTypeFragment is the fragment stage of a render pipeline.
	ShaderTypeFragment
)

// shader is the implementation of the Shader interface.
type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	vertexLayouts              []wgpu.VertexBufferLayout
	workGroupSize              [3]uint32
	entryPoint                 string
	module                     *wgpu.ShaderModuleDescriptor
	declarations               []Annotation
}

// Shader is a pre-processed and reflected WGSL stage, ready for pipeline creation.
type Shader interface {
	// Key returns the shader's unique identifier.
	Key() string

	// Source returns the pre-processed WGSL source.
	Source() string

	// ShaderType returns the stage the shader was parsed for.
	ShaderType() ShaderType

	// EntryPoint returns the name of the stage's entry function.
	EntryPoint() string

	// WorkgroupSize returns the @workgroup_size of a compute shader, [0, 0, 0] otherwise.
	WorkgroupSize() [3]uint32

	// BindGroupLayoutDescriptor returns the reflected layout of one bind group, or an empty
	// descriptor if the shader does not use the group.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the layout with entries sorted by binding
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors returns every reflected bind group layout keyed by group.
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName returns the WGSL variable bound at a group and binding.
	BindGroupVarName(group, binding int) string

	// VertexLayouts returns the vertex buffer layouts of a vertex shader in declaration order.
	VertexLayouts() []wgpu.VertexBufferLayout

	// Module returns the shader module descriptor.
	Module() *wgpu.ShaderModuleDescriptor

	// Declarations returns the group and provider annotations found in the source.
	Declarations() []Annotation
}

var _ Shader = &shader{}

// ParseShader pre-processes and reflects a WGSL source.
//
// Parameters:
//   - key: a unique identifier, also used as the module label
//   - shaderType: the stage to reflect
//   - source: the annotated WGSL source
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if an annotation is malformed, the entry point is missing or a
//     binding is not a buffer
func ParseShader(key string, shaderType ShaderType, source string) (Shader, error) {
	pp := NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}

	s := &shader{
		key:          key,
		source:       processed,
		shaderType:   shaderType,
		declarations: pp.Declarations(),
		module: &wgpu.ShaderModuleDescriptor{
			Label:          key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: processed},
		},
	}

	s.entryPoint = parseEntryPoint(processed, shaderType)
	if s.entryPoint == "" {
		return nil, fmt.Errorf("shader %s: no entry point for stage %d", key, shaderType)
	}

	var visibility wgpu.ShaderStage
	switch shaderType {
	case ShaderTypeVertex:
		visibility = wgpu.ShaderStageVertex
		s.vertexLayouts = parseVertexLayouts(processed)
	case ShaderTypeFragment:
		visibility = wgpu.ShaderStageFragment
	case ShaderTypeCompute:
		visibility = wgpu.ShaderStageCompute
		s.workGroupSize = parseWorkgroupSize(processed)
	}

	s.bindGroupLayoutDescriptors, s.bindingVarNames, err = parseBindGroupLayouts(processed, visibility)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", key, err)
	}
	return s, nil
}

// NewShader is ParseShader for sources embedded in the binary. It panics on error since an
// embedded shader that fails to parse cannot be recovered from at runtime.
func NewShader(key string, shaderType ShaderType, source string) Shader {
	s, err := ParseShader(key, shaderType, source)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) WorkgroupSize() [3]uint32 {
	return s.workGroupSize
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return s.vertexLayouts
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) Declarations() []Annotation {
	return s.declarations
}
