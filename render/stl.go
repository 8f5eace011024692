package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms3"
)

// Binary STL layout: 80 byte header, uint32 triangle count, then one
// 50 byte record per triangle holding 12 little endian float32 (normal and
// three vertices) and a uint16 attribute count.
const (
	stlHeaderSize   = 84
	stlTriangleSize = 50
	stlHeaderTag    = "binary STL written by implicit"
	// maxNormalMismatches stops reading files that are not triangle meshes.
	maxNormalMismatches = 10_000
	trianglesInBuffer   = 1 << 10
)

var (
	errCalculatedNormalMismatch = errors.New("triangle normal not approximately equal to calculated normal from vertices")
	errTooManyTriangles         = errors.New("amount of triangles in model exceeds STL design limits")
)

// CreateSTL renders triangles from r into a binary STL file at path. The
// renderer is drained once; the header is written after the triangle count
// is known.
func CreateSTL(path string, r Renderer) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	if _, err = fp.Seek(stlHeaderSize, io.SeekStart); err != nil {
		return err
	}
	n, err := io.CopyBuffer(fp, &stlReader{r: r}, make([]byte, stlTriangleSize*trianglesInBuffer))
	if err != nil {
		return err
	}
	if n/stlTriangleSize > math.MaxUint32 {
		return errTooManyTriangles
	}
	var hdr [stlHeaderSize]byte
	putSTLHeader(hdr[:], uint32(n/stlTriangleSize))
	if _, err = fp.WriteAt(hdr[:], 0); err != nil {
		return err
	}
	return fp.Close()
}

// WriteSTL writes model triangles to w in binary STL format. Normals are
// computed from the vertex winding.
func WriteSTL(w io.Writer, model []ms3.Triangle) (int, error) {
	if len(model) == 0 {
		return 0, errors.New("empty triangle slice")
	}
	if int64(len(model)) > math.MaxUint32 {
		return 0, errTooManyTriangles
	}
	var buf [stlHeaderSize]byte
	putSTLHeader(buf[:], uint32(len(model)))
	n, err := w.Write(buf[:])
	if err != nil {
		return n, err
	}
	for _, tri := range model {
		rec := stlRecord{N: ms3.Unit(tri.Normal()), V: tri}
		rec.put(buf[:stlTriangleSize])
		ngot, err := w.Write(buf[:stlTriangleSize])
		n += ngot
		if err != nil {
			return n, err
		} else if ngot != stlTriangleSize {
			return n, io.ErrShortWrite
		}
	}
	return n, nil
}

// ReadSTL reads a binary STL model. Triangles whose stored normal disagrees
// with their vertices are still returned alongside an error; this may happen
// for valid high resolution models. Degenerate triangles are returned as is.
func ReadSTL(r io.Reader) (output []ms3.Triangle, err error) {
	var buf [stlHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, errors.New("encountered EOF while reading STL header")
		}
		return nil, fmt.Errorf("STL header read failed: %w", err)
	}
	count := int(binary.LittleEndian.Uint32(buf[80:]))
	if count == 0 {
		return nil, errors.New("STL header indicates 0 triangles present")
	}
	output = make([]ms3.Triangle, 0, min(count, 1<<20))
	mismatches := 0
	var rec stlRecord
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(r, buf[:stlTriangleSize]); err != nil {
			return nil, fmt.Errorf("%d/%d STL triangles read: %w", i, count, err)
		}
		rec.get(buf[:stlTriangleSize])
		switch verr := rec.validate(); {
		case verr == nil:
		case errors.Is(verr, errCalculatedNormalMismatch):
			mismatches++
			if mismatches > maxNormalMismatches {
				return output, fmt.Errorf("got too many normal vector mismatches (%d)", mismatches)
			}
			err = verr
		default:
			return nil, fmt.Errorf("STL triangle %d: %w", i, verr)
		}
		output = append(output, rec.V)
	}
	return output, err
}

// stlReader streams the triangle records of an STL file from a Renderer.
type stlReader struct {
	r   Renderer
	buf [trianglesInBuffer]Triangle
}

func (sr *stlReader) Read(b []byte) (int, error) {
	ntMax := min(len(b)/stlTriangleSize, len(sr.buf))
	if ntMax == 0 {
		return 0, errors.New("stlReader requires at least 50 bytes to write a single triangle")
	}
	var (
		err     error
		written int
		nt      int
	)
	for written < ntMax && err == nil {
		nt, err = sr.r.ReadTriangles(sr.buf[:ntMax-written])
		for _, tri := range sr.buf[:nt] {
			stlRecordOf(tri).put(b[written*stlTriangleSize:])
			written++
		}
	}
	return written * stlTriangleSize, err
}

func putSTLHeader(b []byte, count uint32) {
	_ = b[stlHeaderSize-1] // early bounds check
	clear(b[:80])
	copy(b, stlHeaderTag)
	binary.LittleEndian.PutUint32(b[80:], count)
}

// stlRecord is a single triangle record of a binary STL file.
type stlRecord struct {
	N ms3.Vec
	V ms3.Triangle
}

func stlRecordOf(t Triangle) stlRecord {
	var rec stlRecord
	rec.N = ms3.Vec{X: float32(t.N.X), Y: float32(t.N.Y), Z: float32(t.N.Z)}
	for i, v := range t.V {
		rec.V[i] = ms3.Vec{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
	}
	return rec
}

// floats returns pointers to the 12 float32 fields in file order.
func (rec *stlRecord) floats() [12]*float32 {
	return [12]*float32{
		&rec.N.X, &rec.N.Y, &rec.N.Z,
		&rec.V[0].X, &rec.V[0].Y, &rec.V[0].Z,
		&rec.V[1].X, &rec.V[1].Y, &rec.V[1].Z,
		&rec.V[2].X, &rec.V[2].Y, &rec.V[2].Z,
	}
}

func (rec stlRecord) put(b []byte) {
	_ = b[stlTriangleSize-1] // early bounds check
	for i, f := range rec.floats() {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(*f))
	}
	binary.LittleEndian.PutUint16(b[48:], 0)
}

func (rec *stlRecord) get(b []byte) {
	_ = b[stlTriangleSize-1] // early bounds check
	for i, f := range rec.floats() {
		*f = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
}

func (rec stlRecord) validate() error {
	const normTol = 5e-2
	for i, f := range rec.floats() {
		if math32.IsNaN(*f) || math32.IsInf(*f, 0) {
			if i < 3 {
				return errors.New("inf/NaN STL triangle normal")
			}
			return errors.New("inf/NaN STL triangle vertex")
		}
	}
	if rec.V.IsDegenerate(1e-12) {
		// Normal can not be checked.
		return nil
	}
	// Scaled so small triangles keep a representable cross product.
	scaled := ms3.Triangle{ms3.Scale(10, rec.V[0]), ms3.Scale(10, rec.V[1]), ms3.Scale(10, rec.V[2])}
	calc := ms3.Unit(scaled.Normal())
	if !ms3.EqualElem(calc, rec.N, normTol) && !ms3.EqualElem(ms3.Scale(-1, calc), rec.N, normTol) {
		return errCalculatedNormalMismatch
	}
	return nil
}
