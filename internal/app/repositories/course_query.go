package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/okaraca/coursehub/internal/app/models/dto"
)

// courseColumns is the canonical column list scanned into models.Course.
var courseColumns = []string{
	"id", "title", "slug", "description", "short_description", "instructor_id",
	"category", "level", "price", "original_price", "discount", "currency",
	"thumbnail_url", "banner_url", "language", "requirements", "learning_outcomes", "tags",
	"total_lessons", "total_duration",
	"enrollment_total", "enrollment_active", "enrollment_completed",
	"rating_average", "rating_count",
	"rating_1", "rating_2", "rating_3", "rating_4", "rating_5",
	"status", "is_featured", "is_popular", "views", "created_at", "updated_at",
}

// catalogSortColumns maps API sort keys to ORDER BY expressions. Keys not in
// this map fall back to the default ordering, so user input never reaches the
// SQL text directly.
var catalogSortColumns = map[string]string{
	"price":       "price ASC",
	"-price":      "price DESC",
	"rating":      "rating_average ASC",
	"-rating":     "rating_average DESC",
	"createdAt":   "created_at ASC",
	"-createdAt":  "created_at DESC",
	"enrollment":  "enrollment_total ASC",
	"-enrollment": "enrollment_total DESC",
}

const defaultCatalogOrder = "created_at DESC"

// courseSearchExpr matches courses against a free-text query using the
// precomputed search_vector column.
const courseSearchExpr = "search_vector @@ websearch_to_tsquery('english', ?)"

// buildCourseListQuery assembles the filtered catalog query pair: a count
// query and a page query sharing the same WHERE clause. Only published
// courses are visible in the catalog.
func buildCourseListQuery(filter dto.CourseFilter, sb squirrel.StatementBuilderType) (countQuery, pageQuery squirrel.SelectBuilder) {
	base := sb.Select().From("courses").Where(squirrel.Eq{"status": "published"})

	if filter.Category != "" {
		base = base.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Level != "" {
		base = base.Where(squirrel.Eq{"level": filter.Level})
	}
	if filter.MinPrice != nil {
		base = base.Where(squirrel.GtOrEq{"price": *filter.MinPrice})
	}
	if filter.MaxPrice != nil {
		base = base.Where(squirrel.LtOrEq{"price": *filter.MaxPrice})
	}
	if filter.Search != "" {
		base = base.Where(squirrel.Expr(courseSearchExpr, filter.Search))
	}

	countQuery = base.Columns("COUNT(*)")

	pageQuery = base.Columns(courseColumns...)
	if expr, ok := catalogSortColumns[filter.Sort]; ok {
		pageQuery = pageQuery.OrderBy(expr, "id ASC")
	} else if filter.Search != "" {
		pageQuery = pageQuery.
			OrderByClause("ts_rank(search_vector, websearch_to_tsquery('english', ?)) DESC, id ASC", filter.Search)
	} else {
		pageQuery = pageQuery.OrderBy(defaultCatalogOrder, "id ASC")
	}

	return countQuery, pageQuery
}

// buildPopularCoursesQuery lists published courses busiest first. Ties
// break toward the better rated course.
func buildPopularCoursesQuery(limit uint64, sb squirrel.StatementBuilderType) squirrel.SelectBuilder {
	return sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"status": "published"}).
		OrderBy("enrollment_total DESC", "rating_average DESC", "id ASC").
		Limit(limit)
}

// buildFeaturedCoursesQuery lists flagged featured courses, newest first.
func buildFeaturedCoursesQuery(limit uint64, sb squirrel.StatementBuilderType) squirrel.SelectBuilder {
	return sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"status": "published", "is_featured": true}).
		OrderBy("created_at DESC", "id ASC").
		Limit(limit)
}
