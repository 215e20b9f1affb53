package repositories

import (
	"context"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okaraca/coursehub/internal/app/models"
	"github.com/okaraca/coursehub/internal/app/models/dto"
)

var testSB = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func TestBuildCourseListQueryDefaults(t *testing.T) {
	countQuery, pageQuery := buildCourseListQuery(dto.CourseFilter{}, testSB)

	countSQL, countArgs, err := countQuery.ToSql()
	require.NoError(t, err)
	assert.Contains(t, countSQL, "COUNT(*)")
	assert.Contains(t, countSQL, "status = $1")
	assert.Equal(t, []interface{}{"published"}, countArgs)

	pageSQL, _, err := pageQuery.ToSql()
	require.NoError(t, err)
	assert.Contains(t, pageSQL, "ORDER BY created_at DESC, id ASC")
	assert.NotContains(t, pageSQL, "search_vector")
}

func TestBuildCourseListQueryFilters(t *testing.T) {
	minPrice := 10.0
	maxPrice := 200.0
	filter := dto.CourseFilter{
		Category: "engineering",
		Level:    "beginner",
		MinPrice: &minPrice,
		MaxPrice: &maxPrice,
	}

	_, pageQuery := buildCourseListQuery(filter, testSB)
	pageSQL, args, err := pageQuery.ToSql()
	require.NoError(t, err)

	assert.Contains(t, pageSQL, "category = ")
	assert.Contains(t, pageSQL, "level = ")
	assert.Contains(t, pageSQL, "price >= ")
	assert.Contains(t, pageSQL, "price <= ")
	assert.Contains(t, args, "engineering")
	assert.Contains(t, args, "beginner")
	assert.Contains(t, args, minPrice)
	assert.Contains(t, args, maxPrice)
}

func TestBuildCourseListQuerySortWhitelist(t *testing.T) {
	_, pageQuery := buildCourseListQuery(dto.CourseFilter{Sort: "-price"}, testSB)
	pageSQL, _, err := pageQuery.ToSql()
	require.NoError(t, err)
	assert.Contains(t, pageSQL, "ORDER BY price DESC, id ASC")

	// Unknown sort keys fall back to the default ordering
	_, pageQuery = buildCourseListQuery(dto.CourseFilter{Sort: "price; DROP TABLE courses"}, testSB)
	pageSQL, _, err = pageQuery.ToSql()
	require.NoError(t, err)
	assert.Contains(t, pageSQL, "ORDER BY created_at DESC, id ASC")
	assert.NotContains(t, pageSQL, "DROP TABLE")
}

func TestBuildCourseListQuerySearchRanking(t *testing.T) {
	_, pageQuery := buildCourseListQuery(dto.CourseFilter{Search: "golang basics"}, testSB)
	pageSQL, args, err := pageQuery.ToSql()
	require.NoError(t, err)

	assert.Contains(t, pageSQL, "search_vector @@ websearch_to_tsquery('english'")
	assert.Contains(t, pageSQL, "ts_rank(search_vector")
	// The query text binds twice: once for matching, once for ranking
	count := 0
	for _, a := range args {
		if a == "golang basics" {
			count++
		}
	}
	assert.Equal(t, 2, count)

	// An explicit sort still wins over relevance ordering
	_, pageQuery = buildCourseListQuery(dto.CourseFilter{Search: "golang", Sort: "-rating"}, testSB)
	pageSQL, _, err = pageQuery.ToSql()
	require.NoError(t, err)
	assert.Contains(t, pageSQL, "ORDER BY rating_average DESC, id ASC")
	assert.NotContains(t, pageSQL, "ts_rank")
}

func TestBuildPopularAndFeaturedQueries(t *testing.T) {
	popularSQL, popularArgs, err := buildPopularCoursesQuery(10, testSB).ToSql()
	require.NoError(t, err)
	assert.Contains(t, popularSQL, "ORDER BY enrollment_total DESC, rating_average DESC, id ASC")
	assert.Contains(t, popularSQL, "LIMIT 10")
	// Every published course ranks by demand; no curation flag applies
	assert.NotContains(t, popularSQL, "is_popular")
	assert.Equal(t, []interface{}{"published"}, popularArgs)

	featuredSQL, featuredArgs, err := buildFeaturedCoursesQuery(5, testSB).ToSql()
	require.NoError(t, err)
	assert.Contains(t, featuredSQL, "ORDER BY created_at DESC, id ASC")
	assert.Contains(t, featuredSQL, "LIMIT 5")
	assert.Contains(t, featuredArgs, true)
}

func TestAdjustEnrollmentCounterIgnoresUnknownKind(t *testing.T) {
	repo := NewCourseRepository(nil)

	// Short-circuits before any statement runs, so no pool is needed
	err := repo.AdjustEnrollmentCounter(context.Background(), 1, models.EnrollmentCounter("bogus"), 1)
	assert.NoError(t, err)
}
