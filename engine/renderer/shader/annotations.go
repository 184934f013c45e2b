// annotations.go defines the //@iso: annotations understood by the WGSL pre-processor.
// Annotations are single-line comments that either inject a registered struct definition,
// generate a @group/@binding declaration for a registered struct, or tag a hand-written
// binding with the provider that owns it. Tags let the GPU surface backend find the group
// and binding of each buffer from the shader instead of hard-coding indices.
package shader

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const annotationPrefix = "@iso:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	// annotationTypeInclude replaces the line with a registered struct's WGSL source.
	//
	// Syntax: //@iso:include <struct_type>
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup replaces the line with a generated variable declaration.
	//
	// Syntax: //@iso:group <group> <binding> <address_space> <var_name> <struct_type|array<struct_type>>
	AnnotationTypeBindingGroup AnnotationType = "group"

	// AnnotationTypeProvider emits nothing and records which provider owns a binding.
	//
	// Syntax: //@iso:provider <group> <binding> <provider_identity> [binding_role]
	AnnotationTypeProvider AnnotationType = "provider"
)

// Annotation is one parsed //@iso: line.
type Annotation struct {
	Type AnnotationType

	// Args depends on Type:
	//   - include:  [0] struct type
	//   - group:    [0] address space, [1] var name, [2] struct type
	//   - provider: [0] provider identity, [1] binding role (optional)
	Args []AnnotationArg

	// Line is the 1-based source line.
	Line int

	// Group and Binding are -1 for include annotations.
	Group   int
	Binding int
}

// AnnotationArg is a typed annotation argument.
type AnnotationArg string

// Struct types with an embedded WGSL source.
const (
	AnnotationArgCamera           AnnotationArg = "camera"
	AnnotationArgChunkParams      AnnotationArg = "chunk_params"
	AnnotationArgIsoVertex        AnnotationArg = "iso_vertex"
	AnnotationArgDrawIndirectArgs AnnotationArg = "draw_indirect_args"
)

// Address spaces.
const (
	annotationArgStorageTypeUniform   AnnotationArg = "storage_uniform"
	annotationArgStorageTypeRead      AnnotationArg = "storage_read"
	annotationArgStorageTypeReadWrite AnnotationArg = "storage_read_write"
)

// Provider identities. AnnotationArgCamera doubles as the camera provider.
const (
	// AnnotationArgDensity owns the chunk parameters and the density samples.
	AnnotationArgDensity AnnotationArg = "density"

	// AnnotationArgTables owns the marching cubes lookup tables.
	AnnotationArgTables AnnotationArg = "tables"

	// AnnotationArgSurface owns the draw arguments and the output vertices.
	AnnotationArgSurface AnnotationArg = "surface"
)

// Binding roles within a provider group.
const (
	AnnotationArgEdgeTable     AnnotationArg = "edge_table"
	AnnotationArgTriangleTable AnnotationArg = "triangle_table"
	AnnotationArgDrawArgs      AnnotationArg = "draw_args"
	AnnotationArgVertices      AnnotationArg = "vertices"
)

var validStructTypes = []AnnotationArg{
	AnnotationArgCamera,
	AnnotationArgChunkParams,
	AnnotationArgIsoVertex,
	AnnotationArgDrawIndirectArgs,
}

var validAddressSpaces = []AnnotationArg{
	annotationArgStorageTypeUniform,
	annotationArgStorageTypeRead,
	annotationArgStorageTypeReadWrite,
}

var validProviderIdentities = []AnnotationArg{
	AnnotationArgCamera,
	AnnotationArgDensity,
	AnnotationArgTables,
	AnnotationArgSurface,
}

var validBindingRoles = []AnnotationArg{
	AnnotationArgEdgeTable,
	AnnotationArgTriangleTable,
	AnnotationArgDrawArgs,
	AnnotationArgVertices,
}

// parseAnnotation parses one source line. It returns nil, nil for lines without the prefix.
//
// Parameters:
//   - line: the raw WGSL source line
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	_, after, ok := strings.Cut(strings.TrimSpace(line), annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty annotation", lineNum)
	}

	switch AnnotationType(args[0]) {
	case annotationTypeInclude:
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: include takes exactly one struct type", lineNum)
		}
		if !slices.Contains(validStructTypes, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown struct type %q", lineNum, args[1])
		}
		return &Annotation{
			Type:    annotationTypeInclude,
			Args:    []AnnotationArg{AnnotationArg(args[1])},
			Line:    lineNum,
			Group:   -1,
			Binding: -1,
		}, nil

	case AnnotationTypeBindingGroup:
		if len(args) != 6 {
			return nil, fmt.Errorf("line %d: group takes group, binding, address space, name and type", lineNum)
		}
		group, binding, err := parseSlot(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validAddressSpaces, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown address space %q", lineNum, args[3])
		}
		elem := strings.TrimSuffix(strings.TrimPrefix(args[5], "array<"), ">")
		if !slices.Contains(validStructTypes, AnnotationArg(elem)) {
			return nil, fmt.Errorf("line %d: unknown struct type %q", lineNum, args[5])
		}
		return &Annotation{
			Type:    AnnotationTypeBindingGroup,
			Args:    []AnnotationArg{AnnotationArg(args[3]), AnnotationArg(args[4]), AnnotationArg(args[5])},
			Line:    lineNum,
			Group:   group,
			Binding: binding,
		}, nil

	case AnnotationTypeProvider:
		if len(args) < 4 || len(args) > 5 {
			return nil, fmt.Errorf("line %d: provider takes group, binding, identity and an optional role", lineNum)
		}
		group, binding, err := parseSlot(args[1], args[2], lineNum)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(validProviderIdentities, AnnotationArg(args[3])) {
			return nil, fmt.Errorf("line %d: unknown provider identity %q", lineNum, args[3])
		}
		providerArgs := []AnnotationArg{AnnotationArg(args[3])}
		if len(args) == 5 {
			if !slices.Contains(validBindingRoles, AnnotationArg(args[4])) {
				return nil, fmt.Errorf("line %d: unknown binding role %q", lineNum, args[4])
			}
			providerArgs = append(providerArgs, AnnotationArg(args[4]))
		}
		return &Annotation{
			Type:    AnnotationTypeProvider,
			Args:    providerArgs,
			Line:    lineNum,
			Group:   group,
			Binding: binding,
		}, nil

	default:
		return nil, fmt.Errorf("line %d: unknown annotation type %q", lineNum, args[0])
	}
}

func parseSlot(group, binding string, lineNum int) (int, int, error) {
	g, err := strconv.Atoi(group)
	if err != nil {
		return 0, 0, fmt.Errorf("line %d: invalid group %q: %w", lineNum, group, err)
	}
	b, err := strconv.Atoi(binding)
	if err != nil {
		return 0, 0, fmt.Errorf("line %d: invalid binding %q: %w", lineNum, binding, err)
	}
	return g, b, nil
}

// ProviderGroup returns the bind group a provider identity is declared at.
//
// Parameters:
//   - decls: the declarations collected while pre-processing a shader
//   - identity: the provider identity to look up
//
// Returns:
//   - int: the group index
//   - bool: false if the shader never declares the provider
func ProviderGroup(decls []Annotation, identity AnnotationArg) (int, bool) {
	for _, d := range decls {
		if d.Type == AnnotationTypeProvider && d.Args[0] == identity {
			return d.Group, true
		}
	}
	return -1, false
}

// ProviderBinding returns the binding a provider declares for a role.
func ProviderBinding(decls []Annotation, identity, role AnnotationArg) (int, bool) {
	for _, d := range decls {
		if d.Type == AnnotationTypeProvider && d.Args[0] == identity && len(d.Args) == 2 && d.Args[1] == role {
			return d.Binding, true
		}
	}
	return -1, false
}
