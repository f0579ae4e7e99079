package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-hair/internal/bake"
	"github.com/Faultbox/midgard-hair/internal/texture"
	"github.com/Faultbox/midgard-hair/internal/tube"
)

// Export file names, without texture extensions.
const (
	TubesFile = "strands.obj"
	CardFile  = "card.obj"
	AlphaMap  = "alpha"
	FlowMap   = "flow"
	DepthMap  = "depth"
	CardMap   = "card"
)

// Export writes the card mesh, the baked maps, and (when enabled) the tube
// mesh to dir. tubeSegments is the ring size of the tube mesh. It returns
// the paths written.
func (p *Pipeline) Export(ctx context.Context, dir string, tubeSegments int) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	var written []string
	write := func(name string, fn func(io.Writer) error) error {
		path := filepath.Join(dir, name)
		if err := writeFile(path, fn); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	if p.cfg.Export.Tubes && len(p.strands) > 0 {
		m := p.Tubes(tubeSegments)
		if err := write(TubesFile, func(w io.Writer) error { return writeTubeOBJ(w, m) }); err != nil {
			return written, err
		}
	}

	maps, card, err := p.Bake(ctx)
	if err != nil {
		return written, err
	}
	if err := write(CardFile, func(w io.Writer) error { return writeCardOBJ(w, card) }); err != nil {
		return written, err
	}

	// Card color: the base gradient darkened by depth, cut out by alpha.
	m := &p.cfg.Material
	cardColor, err := texture.WithAlpha(bake.Colorize(maps.Depth, m.RootColor, m.TipColor), maps.Alpha)
	if err != nil {
		return written, err
	}

	ext := "." + p.cfg.Export.TextureFormat
	for _, t := range []struct {
		name string
		img  image.Image
	}{
		{AlphaMap, maps.Alpha},
		{FlowMap, maps.Flow},
		{DepthMap, maps.Depth},
		{CardMap, cardColor},
	} {
		path := filepath.Join(dir, t.name+ext)
		if err := texture.Save(path, t.img); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	p.log.Info("exported", zap.String("dir", dir), zap.Int("files", len(written)))
	return written, nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := bufio.NewWriter(f)
	if err := fn(w); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// writeTubeOBJ writes m as Wavefront OBJ with per-vertex colors appended
// to the v lines, one object group per strand.
func writeTubeOBJ(w io.Writer, m *tube.Mesh) error {
	bw := &errWriter{w: w}
	bw.printf("# hair tubes: %d strands, %d vertices\n", len(m.Groups), len(m.Vertices))
	for _, v := range m.Vertices {
		bw.printf("v %g %g %g %g %g %g\n",
			v.Position[0], v.Position[1], v.Position[2], v.Color[0], v.Color[1], v.Color[2])
	}
	for _, v := range m.Vertices {
		bw.printf("vt %g %g\n", v.TexCoord[0], v.TexCoord[1])
	}
	for _, v := range m.Vertices {
		bw.printf("vn %g %g %g\n", v.Normal[0], v.Normal[1], v.Normal[2])
	}
	for _, g := range m.Groups {
		bw.printf("g strand_%d\n", g.Strand)
		idx := m.Indices[g.StartIndex : g.StartIndex+g.IndexCount]
		for i := 0; i < len(idx); i += 3 {
			writeFace(bw, idx[i], idx[i+1], idx[i+2])
		}
	}
	return bw.err
}

// writeCardOBJ writes the card quad as Wavefront OBJ.
func writeCardOBJ(w io.Writer, c *bake.Card) error {
	bw := &errWriter{w: w}
	bw.printf("# hair card\n")
	for _, p := range c.Positions {
		bw.printf("v %g %g %g\n", p.X, p.Y, p.Z)
	}
	// OBJ texture V points up.
	for _, uv := range c.UVs {
		bw.printf("vt %g %g\n", uv.X, 1-uv.Y)
	}
	for _, n := range c.Normals {
		bw.printf("vn %g %g %g\n", n.X, n.Y, n.Z)
	}
	for i := 0; i+2 < len(c.Indices); i += 3 {
		writeFace(bw, c.Indices[i], c.Indices[i+1], c.Indices[i+2])
	}
	return bw.err
}

// writeFace writes a triangle whose position, UV, and normal share an
// index. OBJ indices are 1-based.
func writeFace(bw *errWriter, a, b, c uint32) {
	bw.printf("f %d/%d/%d %d/%d/%d %d/%d/%d\n", a+1, a+1, a+1, b+1, b+1, b+1, c+1, c+1, c+1)
}

// errWriter keeps the first write error so long runs of printf need one
// check at the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
