// Package calendar projects cultivation stage timelines. Both projection
// modes are pure functions of their inputs: template mode renders a Strain's
// per-stage duration estimates forward from a caller-supplied reference time,
// actual mode renders the stage-transition dates actually recorded on a
// Charge or Plant.
package calendar

import (
	"math"
	"time"
)

// StageDuration is one stage of a Strain's growth plan. Days <= 0 means the
// duration is undefined and the stage is omitted from the projection.
type StageDuration struct {
	Label string
	Days  int
}

// StagePoint is one recorded stage-transition date. A nil At means the
// stage has not been reached or was never recorded.
type StagePoint struct {
	Label string
	At    *time.Time
}

// Range is one rendered timeline segment
type Range struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns the span of the range in calendar days. Rounding absorbs the
// hour lost or gained when the range crosses a DST transition.
func (r Range) Days() int {
	return int(math.Round(r.End.Sub(r.Start).Hours() / 24))
}

// Anchor normalizes now to local midnight and advances one day. Template
// projections start "tomorrow" so that a freshly planned charge never
// renders stages in the past.
func Anchor(now time.Time) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return midnight.AddDate(0, 0, 1)
}

// Template renders a projected timeline from per-stage duration estimates.
// Each defined stage occupies [offset, offset+days] and advances the running
// offset; undefined stages contribute nothing. The total span of the result
// equals the sum of all defined durations.
func Template(now time.Time, stages []StageDuration) []Range {
	offset := Anchor(now)
	ranges := make([]Range, 0, len(stages))
	for _, stage := range stages {
		if stage.Days <= 0 {
			continue
		}
		end := offset.AddDate(0, 0, stage.Days)
		ranges = append(ranges, Range{Label: stage.Label, Start: offset, End: end})
		offset = end
	}
	return ranges
}

// TotalDays sums the spans of the rendered ranges
func TotalDays(ranges []Range) int {
	total := 0
	for _, r := range ranges {
		total += r.Days()
	}
	return total
}

// Actual renders the realized timeline from recorded stage-transition dates.
// One range is emitted per consecutive pair of stages that both carry a
// recorded date; a stage without a date produces no range.
func Actual(points []StagePoint) []Range {
	ranges := make([]Range, 0, len(points))
	for i := 0; i+1 < len(points); i++ {
		from, to := points[i], points[i+1]
		if from.At == nil || to.At == nil {
			continue
		}
		ranges = append(ranges, Range{Label: from.Label, Start: *from.At, End: *to.At})
	}
	return ranges
}
