package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/soypat/implicit"
	"github.com/soypat/implicit/expr"
	"github.com/soypat/implicit/internal/config"
	"github.com/soypat/implicit/mesh"
	"github.com/soypat/implicit/render"
	"github.com/spf13/cobra"
)

var errEmptyMesh = errors.New("surface does not cross the domain")

func newMeshCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mesh",
		Short: "Polygonize a surface and write the mesh",
		Long: `Polygonize the selected surface over its domain and write the triangle mesh.

STL output is binary. With --workers 1 STL triangles are streamed to the file
as they are found instead of being collected first. JSON output holds flat "positions" and "normals" arrays;
with a positive --weld-tolerance nearby vertices are merged and an "indices"
array is added.`,
		Example: `  implicit mesh -s torus -o torus.stl
  implicit mesh -e "x*x + y*y + z*z - 1" --domain-min=-1.5 --domain-max=1.5 -r 0.05
  implicit mesh -s gyroid --format json --weld-tolerance 1e-6`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMesh(cmd)
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output file (default: <surface>.<format>)")
	cmd.Flags().String("format", config.DefaultFormat, "Output format (stl|json)")
	cmd.Flags().IntP("workers", "j", 0, "Polygonizing goroutines (default: GOMAXPROCS); 1 streams STL output")
	cmd.Flags().Float64("weld-tolerance", 0, "Merge vertices closer than this in JSON output")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.FormatSTL, config.FormatJSON}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runMesh(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := getConfig(ctx)
	logger := getLogger(ctx)
	job, err := cfg.Resolve()
	if err != nil {
		return err
	}
	format := strings.ToLower(cfg.Format)
	path := cfg.Output
	if path == "" {
		path = strings.ReplaceAll(job.Name, " ", "_") + "." + format
	}
	if format == config.FormatSTL && cfg.Workers == 1 {
		return streamSTL(cmd, job, cfg.Canonicalize, path)
	}

	m, stats, err := implicit.Polygonize(ctx, job.Expr, job.Domain, job.Resolution, implicit.Config{
		Workers:      cfg.Workers,
		Logger:       logger,
		Canonicalize: cfg.Canonicalize,
	})
	if err != nil {
		return fmt.Errorf("polygonizing %s: %w", job.Name, err)
	}
	if m.IsEmpty() {
		return fmt.Errorf("%s: %w %v", job.Name, errEmptyMesh, job.Domain)
	}

	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	switch format {
	case config.FormatJSON:
		err = writeJSON(fp, m, cfg.WeldTolerance)
	default:
		_, err = render.WriteSTL(fp, m.Triangles())
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err = fp.Close(); err != nil {
		return err
	}
	logger.Debug("mesh written", "path", path, "bounds", m.Bounds(), "visited", stats.Visited, "pruned", stats.Pruned, "skipped", stats.Skipped)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d triangles from %d cells written to %s\n", job.Name, stats.Triangles, stats.Leaves, path)
	return nil
}

// streamSTL renders the job straight into an STL file on the calling
// goroutine without holding the mesh in memory.
func streamSTL(cmd *cobra.Command, job config.Job, canonicalize bool, path string) error {
	logger := getLogger(cmd.Context())
	e := job.Expr
	if canonicalize {
		e = expr.Canonical(e)
	}
	r, err := render.NewOctreeRenderer(e, job.Domain, job.Resolution)
	if err != nil {
		return fmt.Errorf("polygonizing %s: %w", job.Name, err)
	}
	r.SetContext(cmd.Context())
	if err := render.CreateSTL(path, r); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	stats := r.Stats()
	if r.Skipped() > 0 {
		logger.Warn("skipped cells with non-finite samples", "skipped", r.Skipped(), "leaves", stats.Leaves)
	}
	if r.Triangles() == 0 {
		_ = os.Remove(path)
		return fmt.Errorf("%s: %w %v", job.Name, errEmptyMesh, job.Domain)
	}
	logger.Debug("mesh streamed", "path", path, "visited", stats.Visited, "pruned", stats.Pruned, "skipped", r.Skipped())
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d triangles from %d cells written to %s\n", job.Name, r.Triangles(), stats.Leaves, path)
	return nil
}

// indexedMesh is the JSON form of a welded mesh.
type indexedMesh struct {
	Positions []float32 `json:"positions"`
	Normals   []float32 `json:"normals"`
	Indices   []uint32  `json:"indices"`
}

func writeJSON(w io.Writer, m mesh.Mesh, weldTol float64) error {
	enc := json.NewEncoder(w)
	if weldTol <= 0 {
		return enc.Encode(m)
	}
	g, err := mesh.Weld(m, weldTol)
	if err != nil {
		return err
	}
	return enc.Encode(indexedMesh{
		Positions: g.Attributes[mesh.AttrPosition].F32,
		Normals:   g.Attributes[mesh.AttrNormal].F32,
		Indices:   g.Index,
	})
}
