package render

import "io"

// RenderAll reads the full contents of a Renderer and returns the slice read.
// It does not return error on io.EOF, like the io.ReadAll implementation.
func RenderAll(r Renderer) ([]Triangle, error) {
	var err error
	var nt int
	result := make([]Triangle, 0, 1<<12)
	buf := make([]Triangle, 1024)
	for {
		nt, err = r.ReadTriangles(buf)
		result = append(result, buf[:nt]...)
		if err != nil {
			break
		}
	}
	if err == io.EOF {
		return result, nil
	}
	return result, err
}

type triangleBuffer struct {
	buf []Triangle
}

// Read reads from this buffer.
func (b *triangleBuffer) Read(t []Triangle) int {
	n := copy(t, b.buf)
	b.buf = b.buf[n:]
	return n
}

// Write appends triangles to this buffer.
func (b *triangleBuffer) Write(t []Triangle) int {
	b.buf = append(b.buf, t...)
	return len(t)
}

func (b *triangleBuffer) Len() int { return len(b.buf) }
