package models

import "time"

// Course represents a purchasable learning unit owned by an instructor.
type Course struct {
	ID               int64          `json:"id" db:"id"`
	Title            string         `json:"title" db:"title"`
	Slug             string         `json:"slug" db:"slug"`
	Description      string         `json:"description" db:"description"`
	ShortDescription *string        `json:"shortDescription,omitempty" db:"short_description"`
	InstructorID     int64          `json:"instructorId" db:"instructor_id"`
	Category         CourseCategory `json:"category" db:"category"`
	Level            CourseLevel    `json:"level" db:"level"`
	Price            float64        `json:"price" db:"price"`
	OriginalPrice    *float64       `json:"originalPrice,omitempty" db:"original_price"`
	Discount         float64        `json:"discount" db:"discount"`
	Currency         string         `json:"currency" db:"currency"`
	ThumbnailURL     string         `json:"thumbnailUrl" db:"thumbnail_url"`
	BannerURL        *string        `json:"bannerUrl,omitempty" db:"banner_url"`
	Language         string         `json:"language" db:"language"`
	Requirements     []string       `json:"requirements" db:"requirements"`
	LearningOutcomes []string       `json:"learningOutcomes" db:"learning_outcomes"`
	Tags             []string       `json:"tags" db:"tags"`
	TotalLessons     int            `json:"totalLessons" db:"total_lessons"`
	TotalDuration    int            `json:"totalDuration" db:"total_duration"` // minutes
	Enrollment       EnrollmentStats `json:"enrollment"`
	Ratings          RatingSummary   `json:"ratings"`
	Status           CourseStatus   `json:"status" db:"status"`
	IsFeatured       bool           `json:"isFeatured" db:"is_featured"`
	IsPopular        bool           `json:"isPopular" db:"is_popular"`
	Views            int64          `json:"views" db:"views"`
	CreatedAt        time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time      `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Instructor *User    `json:"instructor,omitempty"`
	Lessons    []Lesson `json:"lessons,omitempty"`
	Reviews    []Review `json:"reviews,omitempty"`
}

// DiscountedPrice applies the percentage discount, when any.
func (c *Course) DiscountedPrice() float64 {
	if c.Discount > 0 {
		return c.Price - (c.Price * c.Discount / 100)
	}
	return c.Price
}

// RecalculateTotals rederives the lesson count and total duration from the
// loaded lesson set. Must be invoked before persisting a lesson mutation.
func (c *Course) RecalculateTotals() {
	c.TotalLessons = len(c.Lessons)
	total := 0
	for _, l := range c.Lessons {
		total += l.Duration
	}
	c.TotalDuration = total
}

// EnrollmentStats are the per-course enrollment counters.
type EnrollmentStats struct {
	Total     int64 `json:"total" db:"enrollment_total"`
	Active    int64 `json:"active" db:"enrollment_active"`
	Completed int64 `json:"completed" db:"enrollment_completed"`
}

// RatingSummary is the five-bucket rating histogram plus the derived
// average and count. The average is always the distribution-weighted mean.
type RatingSummary struct {
	Average      float64  `json:"average" db:"rating_average"`
	Count        int64    `json:"count" db:"rating_count"`
	Distribution [5]int64 `json:"distribution"` // index 0 holds 1-star counts
}

// Add records a rating (1-5) in the distribution and recomputes the average.
// Out-of-range ratings are ignored.
func (r *RatingSummary) Add(rating int) {
	if rating < 1 || rating > 5 {
		return
	}
	r.Distribution[rating-1]++
	r.recompute()
}

// Remove withdraws a previously recorded rating, used when a reviewer
// replaces their review. Empty buckets are left untouched.
func (r *RatingSummary) Remove(rating int) {
	if rating < 1 || rating > 5 || r.Distribution[rating-1] == 0 {
		return
	}
	r.Distribution[rating-1]--
	r.recompute()
}

func (r *RatingSummary) recompute() {
	var count, weighted int64
	for i, n := range r.Distribution {
		count += n
		weighted += int64(i+1) * n
	}
	r.Count = count
	if count == 0 {
		r.Average = 0
		return
	}
	r.Average = float64(weighted) / float64(count)
}
