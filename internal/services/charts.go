package services

import (
	"context"

	"caselog/internal/charts"
	"caselog/internal/logger"
	"caselog/internal/models"
	"caselog/internal/store"
)

// ChartService turns filtered record sets into rendered chart images.
type ChartService struct {
	store  *store.Store
	logger logger.Logger
}

// NewChartService creates a new chart service
func NewChartService(st *store.Store, log logger.Logger) *ChartService {
	return &ChartService{
		store:  st,
		logger: log,
	}
}

// RenderChart filters the case log, aggregates it for the requested graph,
// and renders a PNG. Returns charts.ErrNoData when the filters match nothing
// renderable.
func (cs *ChartService) RenderChart(ctx context.Context, filter models.Filter, graphType charts.GraphType, groupBy models.Dimension) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	records, err := cs.store.ListFiltered(ctx, filter)
	if err != nil {
		return nil, err
	}

	agg := charts.Aggregate(records, graphType, groupBy)
	png, err := charts.RenderPNG(agg, charts.DefaultWidth, charts.DefaultHeight)
	if err != nil {
		return nil, err
	}

	cs.logger.Info("chart rendered", map[string]interface{}{
		"graph_type": string(graphType),
		"group_by":   string(groupBy),
		"records":    len(records),
	})
	return png, nil
}
