package charts

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"caselog/internal/models"
)

// GraphType selects the metric and, for the device and time graphs, the
// dimension a chart is built from.
type GraphType string

const (
	GraphCaseCounts     GraphType = "Case Counts"
	GraphTotalVolume    GraphType = "Total Volume (GB)"
	GraphDeviceCounts   GraphType = "Device Counts"
	GraphVolumeByDevice GraphType = "Volume by Device Type"
	GraphCasesOverTime  GraphType = "Cases Over Time"
)

// GraphTypes lists every chart in display order.
func GraphTypes() []GraphType {
	return []GraphType{
		GraphCaseCounts,
		GraphTotalVolume,
		GraphDeviceCounts,
		GraphVolumeByDevice,
		GraphCasesOverTime,
	}
}

// UsesGroupBy reports whether the chart honors the group-by selection. The
// device graphs are pinned to the device type dimension and the time graph
// buckets by month instead.
func (g GraphType) UsesGroupBy() bool {
	return g == GraphCaseCounts || g == GraphTotalVolume
}

// unknownLabel is the bucket for records with no value in the grouping
// dimension. Keeping it visible means bucket totals always account for every
// filtered record.
const unknownLabel = "Unknown"

// Bucket is one bar of a category chart.
type Bucket struct {
	Label string
	Value float64
}

// TimePoint is one month of the cases-over-time chart.
type TimePoint struct {
	Month time.Time
	Count float64
}

// Aggregation is the chart-ready form of a filtered record set. Category
// graphs fill Buckets; the time graph fills Series.
type Aggregation struct {
	Type    GraphType
	Title   string
	YLabel  string
	Buckets []Bucket
	Series  []TimePoint
}

// Aggregate groups the records for the requested graph. Records always land
// in exactly one bucket, so for the count graphs the bucket values sum to
// len(records).
func Aggregate(records []models.CaseRecord, graphType GraphType, groupBy models.Dimension) Aggregation {
	if graphType == GraphCasesOverTime {
		return aggregateOverTime(records)
	}

	dimension := groupBy
	switch graphType {
	case GraphDeviceCounts, GraphVolumeByDevice:
		dimension = models.DimensionDeviceType
	}

	totals := make(map[string]float64)
	for _, rec := range records {
		label := strings.TrimSpace(dimension.Value(rec))
		if label == "" {
			label = unknownLabel
		}
		switch graphType {
		case GraphTotalVolume, GraphVolumeByDevice:
			totals[label] += rec.VolumeSizeGB
		default:
			totals[label]++
		}
	}

	buckets := make([]Bucket, 0, len(totals))
	for label, value := range totals {
		buckets = append(buckets, Bucket{Label: label, Value: value})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Value != buckets[j].Value {
			return buckets[i].Value > buckets[j].Value
		}
		return buckets[i].Label < buckets[j].Label
	})

	agg := Aggregation{
		Type:    graphType,
		Title:   fmt.Sprintf("%s by %s", graphType, dimension),
		YLabel:  yLabel(graphType),
		Buckets: buckets,
	}
	return agg
}

// aggregateOverTime buckets records into calendar months by start date.
// Records without a parsable start date have no place on a time axis and are
// left out.
func aggregateOverTime(records []models.CaseRecord) Aggregation {
	counts := make(map[time.Time]float64)
	for _, rec := range records {
		started, err := time.Parse("2006-01-02", strings.TrimSpace(rec.StartDate))
		if err != nil {
			continue
		}
		month := time.Date(started.Year(), started.Month(), 1, 0, 0, 0, 0, time.UTC)
		counts[month]++
	}

	series := make([]TimePoint, 0, len(counts))
	for month, count := range counts {
		series = append(series, TimePoint{Month: month, Count: count})
	}
	sort.Slice(series, func(i, j int) bool {
		return series[i].Month.Before(series[j].Month)
	})

	return Aggregation{
		Type:   GraphCasesOverTime,
		Title:  string(GraphCasesOverTime),
		YLabel: "New Cases per Month",
		Series: series,
	}
}

func yLabel(graphType GraphType) string {
	switch graphType {
	case GraphTotalVolume, GraphVolumeByDevice:
		return "Volume (GB)"
	default:
		return "Number of Cases"
	}
}
