package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatingSummaryAddAndRemove(t *testing.T) {
	var r RatingSummary

	r.Add(5)
	r.Add(5)
	r.Add(3)
	assert.Equal(t, int64(3), r.Count)
	assert.InDelta(t, 13.0/3.0, r.Average, 1e-9)
	assert.Equal(t, int64(2), r.Distribution[4])
	assert.Equal(t, int64(1), r.Distribution[2])

	r.Remove(3)
	assert.Equal(t, int64(2), r.Count)
	assert.InDelta(t, 5.0, r.Average, 1e-9)

	r.Remove(5)
	r.Remove(5)
	assert.Equal(t, int64(0), r.Count)
	assert.Equal(t, 0.0, r.Average)
}

func TestRatingSummaryIgnoresOutOfRange(t *testing.T) {
	var r RatingSummary

	r.Add(0)
	r.Add(6)
	assert.Equal(t, int64(0), r.Count)

	// Removing from an empty bucket must not underflow
	r.Remove(2)
	assert.Equal(t, int64(0), r.Distribution[1])
}

func TestCourseDiscountedPrice(t *testing.T) {
	c := Course{Price: 100, Discount: 25}
	assert.InDelta(t, 75.0, c.DiscountedPrice(), 1e-9)

	c.Discount = 0
	assert.InDelta(t, 100.0, c.DiscountedPrice(), 1e-9)
}

func TestCourseRecalculateTotals(t *testing.T) {
	c := Course{
		Lessons: []Lesson{
			{Duration: 12},
			{Duration: 8},
			{Duration: 30},
		},
	}

	c.RecalculateTotals()
	assert.Equal(t, 3, c.TotalLessons)
	assert.Equal(t, 50, c.TotalDuration)

	c.Lessons = nil
	c.RecalculateTotals()
	assert.Equal(t, 0, c.TotalLessons)
	assert.Equal(t, 0, c.TotalDuration)
}
