// Package optim searches configuration parameters for the best metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/matterdrop/internal/config"
	"github.com/san-kum/matterdrop/internal/metrics"
	"github.com/san-kum/matterdrop/internal/page"
	"github.com/san-kum/matterdrop/internal/sim"
)

var ErrNoValidPoint = errors.New("optim: no grid point produced a valid metric")

// Point is one evaluated grid cell.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64

	// Maximize flips the objective.
	Maximize bool
	// Valid filters metric values. The default accepts finite values, and
	// for settle_time only non-negative ones since -1 means never settled.
	Valid func(metric string, v float64) bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

type Result struct {
	Best   map[string]float64
	Value  float64
	Points []Point
}

// Search runs base with every combination of the grid and returns the
// combination with the best value of metricName.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (*Result, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(g.paramNames), len(g.ranges))
	}
	for _, name := range g.paramNames {
		if _, err := base.GetParam(name); err != nil {
			return nil, err
		}
	}
	scene, err := base.ResolveScene()
	if err != nil {
		return nil, err
	}

	res := &Result{Value: math.Inf(1)}
	if g.Maximize {
		res.Value = math.Inf(-1)
	}

	err = g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) error {
		p := Point{Params: params}
		p.Value, p.Err = evaluate(ctx, base, scene, params, metricName)
		res.Points = append(res.Points, p)
		if p.Err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		}
		if !g.valid(metricName, p.Value) {
			return nil
		}
		if (g.Maximize && p.Value > res.Value) || (!g.Maximize && p.Value < res.Value) {
			res.Value = p.Value
			res.Best = params
		}
		return nil
	})
	if err != nil {
		return res, err
	}
	if res.Best == nil {
		return res, ErrNoValidPoint
	}
	return res, nil
}

func (g *GridSearch) valid(metric string, v float64) bool {
	if g.Valid != nil {
		return g.Valid(metric, v)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	return metric != "settle_time" || v >= 0
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return visit(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, visit); err != nil {
			return err
		}
	}
	return nil
}

func evaluate(ctx context.Context, base *config.Config, scene *page.Scene, params map[string]float64, metricName string) (float64, error) {
	cfg := base.Clone()
	if err := cfg.SetParams(params); err != nil {
		return 0, err
	}
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	s := sim.New(scene, cfg.Options)
	for _, m := range metrics.Default() {
		s.AddMetric(m)
	}
	result, err := s.Run(ctx, cfg.Sim())
	if err != nil {
		return 0, err
	}
	v, ok := result.Metrics[metricName]
	if !ok {
		return 0, fmt.Errorf("optim: unknown metric %q", metricName)
	}
	return v, nil
}
