// Package study evaluates parameter sweep grids with bounded parallelism.
package study

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/project-avie/avie/internal/domain"
)

// PointFunc evaluates one grid point. Returning an error is a hard failure
// (bad config, simulation blowup); a point whose checks fail is still a
// successful evaluation and is reported through the StudyPoint status.
type PointFunc func(ctx context.Context, pt domain.GridPoint) (domain.StudyPoint, error)

// Run evaluates every grid point with at most workers in flight. Results
// keep grid order regardless of completion order. The first hard error
// cancels outstanding evaluations; the returned slice still carries every
// point, with never-evaluated ones left at their pre-filled zero status.
func Run(ctx context.Context, grid []domain.GridPoint, workers int, fn PointFunc) ([]domain.StudyPoint, error) {
	if workers < 1 {
		workers = 1
	}

	points := make([]domain.StudyPoint, len(grid))
	for i, pt := range grid {
		points[i] = domain.StudyPoint{Index: pt.Index, Params: pt.Params}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, pt := range grid {
		pt := pt
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res, err := fn(ctx, pt)
			if err != nil {
				points[pt.Index] = domain.StudyPoint{
					Index:  pt.Index,
					Params: pt.Params,
					Status: domain.RunError,
					Error:  err.Error(),
				}
				return err
			}
			points[pt.Index] = res
			return nil
		})
	}

	err := g.Wait()
	return points, err
}

// Completed filters to points that actually ran.
func Completed(points []domain.StudyPoint) []domain.StudyPoint {
	out := make([]domain.StudyPoint, 0, len(points))
	for _, p := range points {
		if p.Status != "" {
			out = append(out, p)
		}
	}
	return out
}
