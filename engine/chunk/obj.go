package chunk

import (
	"bufio"
	"fmt"
	"io"
)

// WriteOBJ writes the frame as a Wavefront OBJ file with one object per chunk, each
// preceded by a comment holding the chunk's world bounds. Every triangle gets its own three
// vertices and normals, as in the vertex buffer.
//
// Parameters:
//   - w: the destination
//
// Returns:
//   - error: the first write error
func (f Frame) WriteOBJ(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# isoflow frame t=%g, %d vertices\n", f.Time, f.VertexCount())

	next := 1
	for _, m := range f.Meshes {
		fmt.Fprintf(bw, "o chunk_%d\n", m.ChunkID)
		fmt.Fprintf(bw, "# bounds %g %g %g %g %g %g\n", m.Min[0], m.Min[1], m.Min[2], m.Max[0], m.Max[1], m.Max[2])
		for _, v := range m.Vertices {
			fmt.Fprintf(bw, "v %g %g %g\n", v.Position[0], v.Position[1], v.Position[2])
		}
		for _, v := range m.Vertices {
			fmt.Fprintf(bw, "vn %g %g %g\n", v.Normal[0], v.Normal[1], v.Normal[2])
		}
		for i := 0; i+2 < len(m.Vertices); i += 3 {
			a, b, c := next+i, next+i+1, next+i+2
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		}
		next += len(m.Vertices)
	}
	return bw.Flush()
}
