// pre_processor.go expands //@iso: annotations into plain WGSL and records the binding
// declarations for resource wiring.
package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/isoflow/engine/camera"
	"github.com/Carmen-Shannon/isoflow/engine/density"
	"github.com/Carmen-Shannon/isoflow/engine/extractor"
	"github.com/Carmen-Shannon/isoflow/engine/indirect_draw"
)

// registryEntry pairs an embedded WGSL struct source with its WGSL type name.
type registryEntry struct {
	Source string
	Type   string
}

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	structRegistry       map[AnnotationArg]registryEntry
	addressSpaceRegistry map[AnnotationArg]string

	// declarations holds the group and provider annotations of the last Process call.
	declarations []Annotation
}

// PreProcessor expands annotations in WGSL source.
type PreProcessor interface {
	// Process replaces include annotations with struct sources and group annotations with
	// generated declarations. Provider annotations produce no output. Each struct is
	// injected at most once per source even if several annotations include it.
	//
	// Parameters:
	//   - source: the annotated WGSL source
	//
	// Returns:
	//   - string: plain WGSL
	//   - error: an error if any annotation is malformed
	Process(source string) (string, error)

	// Declarations returns the group and provider annotations collected by the last Process
	// call, in source order.
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with every GPU struct of the engine registered.
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgCamera:           {Source: camera.GPUCameraUniformSource, Type: "CameraUniform"},
			AnnotationArgChunkParams:      {Source: density.GPUChunkParamsSource, Type: "ChunkParams"},
			AnnotationArgIsoVertex:        {Source: extractor.GPUIsoVertexSource, Type: "IsoVertex"},
			AnnotationArgDrawIndirectArgs: {Source: indirect_draw.GPUDrawIndirectArgsSource, Type: "DrawIndirectArgs"},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgStorageTypeUniform:   "var<uniform>",
			annotationArgStorageTypeRead:      "var<storage, read>",
			annotationArgStorageTypeReadWrite: "var<storage, read_write>",
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = nil

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	included := make(map[AnnotationArg]bool)

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case annotationTypeInclude:
			if included[a.Args[0]] {
				continue
			}
			included[a.Args[0]] = true
			out = append(out, p.structRegistry[a.Args[0]].Source)
		case AnnotationTypeBindingGroup:
			typeArg := string(a.Args[2])
			wgslType := p.structRegistry[a.Args[2]].Type
			if inner, ok := strings.CutPrefix(typeArg, "array<"); ok {
				elem := AnnotationArg(strings.TrimSuffix(inner, ">"))
				wgslType = fmt.Sprintf("array<%s>", p.structRegistry[elem].Type)
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;",
				a.Group, a.Binding, p.addressSpaceRegistry[a.Args[0]], a.Args[1], wgslType))
			p.declarations = append(p.declarations, *a)
		case AnnotationTypeProvider:
			p.declarations = append(p.declarations, *a)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
