// Package implicit polygonizes implicit surfaces f(x,y,z)=0 into triangle
// meshes. Regions of space that cannot contain the surface are discarded by
// interval arithmetic before any sampling happens, so only the cells the
// surface passes through are triangulated.
//
// The pipeline is: adaptive octree search over the domain, marching cubes on
// every leaf cell, then a merge of the per-worker triangle soups into a single
// [mesh.Mesh].
package implicit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/soypat/implicit/expr"
	"github.com/soypat/implicit/interval"
	"github.com/soypat/implicit/mesh"
	"github.com/soypat/implicit/render"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidDomain is returned for domains that are not finite with
	// lo < hi on every axis.
	ErrInvalidDomain = render.ErrInvalidDomain
	// ErrInvalidResolution is returned for resolutions that are not positive
	// and finite.
	ErrInvalidResolution = render.ErrInvalidResolution
)

// cellsPerChunk is the amount of leaf cells polygonized by a worker at a time.
const cellsPerChunk = 256

// Config controls a Polygonize run. The zero value is ready to use.
type Config struct {
	// Workers is the amount of goroutines polygonizing cells. Values below 1
	// use GOMAXPROCS.
	Workers int
	// Logger is the structured logger (optional, uses discard if nil).
	Logger *slog.Logger
	// Canonicalize merges overlapping interval set members after every
	// expression node during the search.
	Canonicalize bool
}

// Stats summarizes a Polygonize run.
type Stats struct {
	// Visited is the amount of boxes whose enclosure was evaluated.
	Visited int
	// Pruned is the amount of boxes proven not to contain the surface.
	Pruned int
	// Leaves is the amount of cells at resolution that may contain the surface.
	Leaves int
	// Skipped is the amount of leaf cells with non-finite corner samples.
	Skipped int
	// Triangles is the amount of triangles in the resulting mesh.
	Triangles int
}

// Polygonize returns the triangle mesh of the surface e=0 within domain
// using cells with edges no longer than resolution. The result does not
// depend on the amount of workers.
func Polygonize(ctx context.Context, e expr.Expr, domain interval.Box, resolution float64, cfg Config) (mesh.Mesh, Stats, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Canonicalize {
		e = expr.Canonical(e)
	}
	start := time.Now()
	logger.Debug("polygonize", "expr", e, "domain", domain, "resolution", resolution, "workers", workers)

	var cells []interval.Box
	search, err := render.Search(ctx, e, domain, resolution, func(cell interval.Box) error {
		cells = append(cells, cell)
		return nil
	})
	if err != nil {
		return mesh.Mesh{}, Stats{}, fmt.Errorf("searching domain: %w", err)
	}
	stats := Stats{Visited: search.Visited, Pruned: search.Pruned, Leaves: search.Leaves}
	logger.Debug("search done", "visited", stats.Visited, "pruned", stats.Pruned, "leaves", stats.Leaves, "elapsed", time.Since(start))

	nchunks := (len(cells) + cellsPerChunk - 1) / cellsPerChunk
	soups := make([]mesh.Geometry, nchunks)
	var (
		mu      sync.Mutex
		skipped int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range soups {
		chunk := cells[i*cellsPerChunk : min(len(cells), (i+1)*cellsPerChunk)]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tris, nskip := marchCells(e, chunk)
			soups[i] = mesh.FromTriangles(tris).Geometry()
			if nskip > 0 {
				mu.Lock()
				skipped += nskip
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return mesh.Mesh{}, stats, err
	}
	stats.Skipped = skipped
	if skipped > 0 {
		logger.Warn("skipped cells with non-finite samples", "skipped", skipped, "leaves", stats.Leaves)
	}
	if len(soups) == 0 {
		logger.Info("polygonize done", "triangles", 0, "elapsed", time.Since(start))
		return mesh.Mesh{}, stats, nil
	}
	merged, err := mesh.Merge(soups...)
	if err != nil {
		return mesh.Mesh{}, stats, fmt.Errorf("merging triangle soups: %w", err)
	}
	m, err := mesh.FromGeometry(merged)
	if err != nil {
		return mesh.Mesh{}, stats, err
	}
	stats.Triangles = m.TriangleCount()
	logger.Info("polygonize done", "leaves", stats.Leaves, "triangles", stats.Triangles, "elapsed", time.Since(start))
	return m, stats, nil
}

// PolygonizeSurface polygonizes a catalog surface over its own domain and
// resolution.
func PolygonizeSurface(ctx context.Context, s expr.Surface, cfg Config) (mesh.Mesh, Stats, error) {
	return Polygonize(ctx, s.Expr(), s.Domain, s.Resolution, cfg)
}

func marchCells(e expr.Expr, cells []interval.Box) (tris []render.Triangle, skipped int) {
	for _, cell := range cells {
		var err error
		tris, err = render.MarchCell(tris, e, cell)
		if errors.Is(err, render.ErrNonFinite) {
			skipped++
		}
	}
	return tris, skipped
}
