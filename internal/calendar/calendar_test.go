package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.March, 10, 15, 4, 5, 0, time.UTC)

func stages() []StageDuration {
	return []StageDuration{
		{Label: "germination", Days: 7},
		{Label: "cutting", Days: 5},
		{Label: "vegetative", Days: 20},
		{Label: "flowering", Days: 60},
		{Label: "curing", Days: 10},
	}
}

func TestAnchorIsNextLocalMidnight(t *testing.T) {
	anchor := Anchor(now)
	assert.Equal(t, time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC), anchor)

	// A different wall-clock time on the same day anchors identically
	later := time.Date(2026, time.March, 10, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, anchor, Anchor(later))
}

func TestTemplateFullPlan(t *testing.T) {
	ranges := Template(now, stages())

	require.Len(t, ranges, 5)
	assert.Equal(t, 102, TotalDays(ranges))

	// First range starts at the anchor
	assert.Equal(t, Anchor(now), ranges[0].Start)

	// Each range is contiguous with the previous one's end
	for i := 1; i < len(ranges); i++ {
		assert.Equal(t, ranges[i-1].End, ranges[i].Start, "range %d not contiguous", i)
	}

	assert.Equal(t, 7, ranges[0].Days())
	assert.Equal(t, "flowering", ranges[3].Label)
	assert.Equal(t, 60, ranges[3].Days())
}

func TestTemplateOmitsUndefinedStages(t *testing.T) {
	plan := stages()
	plan[1].Days = 0  // cutting undefined
	plan[4].Days = -3 // bad input treated as undefined

	ranges := Template(now, plan)

	require.Len(t, ranges, 3)
	for _, r := range ranges {
		assert.NotEqual(t, "cutting", r.Label)
		assert.NotEqual(t, "curing", r.Label)
	}
	// Total still equals the sum of the defined durations
	assert.Equal(t, 87, TotalDays(ranges))
	// The omitted stage leaves no zero-width gap
	assert.Equal(t, ranges[0].End, ranges[1].Start)
}

func TestTemplateDaysAcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// The first stage spans the March 29 spring-forward, a 23-hour day
	local := time.Date(2026, time.March, 25, 10, 0, 0, 0, loc)
	ranges := Template(local, []StageDuration{
		{Label: "germination", Days: 7},
		{Label: "cutting", Days: 5},
	})

	require.Len(t, ranges, 2)
	assert.Equal(t, 7, ranges[0].Days())
	assert.Equal(t, 5, ranges[1].Days())
	assert.Equal(t, 12, TotalDays(ranges))
}

func TestTemplateIsPure(t *testing.T) {
	first := Template(now, stages())
	second := Template(now, stages())
	assert.Equal(t, first, second)
}

func TestTemplateEmptyPlan(t *testing.T) {
	assert.Empty(t, Template(now, nil))
	assert.Empty(t, Template(now, []StageDuration{{Label: "germination", Days: 0}}))
}

func TestActualPairsRecordedDates(t *testing.T) {
	sowing := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	germination := sowing.AddDate(0, 0, 6)
	growing := germination.AddDate(0, 0, 18)

	points := []StagePoint{
		{Label: "sowing", At: &sowing},
		{Label: "germination", At: &germination},
		{Label: "cutting", At: nil},
		{Label: "growing", At: &growing},
		{Label: "flowering", At: nil},
	}

	ranges := Actual(points)

	// Only the sowing->germination pair has both ends recorded; the gap
	// around the missing cutting date produces nothing.
	require.Len(t, ranges, 1)
	assert.Equal(t, "sowing", ranges[0].Label)
	assert.Equal(t, sowing, ranges[0].Start)
	assert.Equal(t, germination, ranges[0].End)
}

func TestActualNoDates(t *testing.T) {
	points := []StagePoint{
		{Label: "sowing"},
		{Label: "germination"},
	}
	assert.Empty(t, Actual(points))
}

func TestActualAllDates(t *testing.T) {
	base := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	points := make([]StagePoint, 4)
	for i := range points {
		at := base.AddDate(0, 0, i*10)
		points[i] = StagePoint{Label: "stage", At: &at}
	}

	ranges := Actual(points)
	require.Len(t, ranges, 3)
	assert.Equal(t, 30, TotalDays(ranges))
}
