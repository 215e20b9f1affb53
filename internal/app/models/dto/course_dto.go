package dto

// CreateCourseRequest carries a new course draft.
type CreateCourseRequest struct {
	Title            string   `json:"title" binding:"required,min=5,max=100"`
	Description      string   `json:"description" binding:"required,min=20"`
	ShortDescription *string  `json:"shortDescription" binding:"omitempty,max=200"`
	Category         string   `json:"category" binding:"required,oneof=engineering medical management civil-services banking defense other"`
	Level            string   `json:"level" binding:"required,oneof=beginner intermediate advanced"`
	Price            *float64 `json:"price" binding:"required,gte=0"`
	OriginalPrice    *float64 `json:"originalPrice" binding:"omitempty,gte=0"`
	Discount         *float64 `json:"discount" binding:"omitempty,gte=0,lte=100"`
	Currency         string   `json:"currency" binding:"omitempty,len=3"`
	Thumbnail        string   `json:"thumbnail" binding:"required"`
	Banner           *string  `json:"banner"`
	Language         string   `json:"language"`
	Requirements     []string `json:"requirements"`
	LearningOutcomes []string `json:"learningOutcomes"`
	Tags             []string `json:"tags"`
}

// UpdateCourseRequest carries a partial course update; every field optional.
type UpdateCourseRequest struct {
	Title            *string  `json:"title" binding:"omitempty,min=5,max=100"`
	Description      *string  `json:"description" binding:"omitempty,min=20"`
	ShortDescription *string  `json:"shortDescription" binding:"omitempty,max=200"`
	Category         *string  `json:"category" binding:"omitempty,oneof=engineering medical management civil-services banking defense other"`
	Level            *string  `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Price            *float64 `json:"price" binding:"omitempty,gte=0"`
	OriginalPrice    *float64 `json:"originalPrice" binding:"omitempty,gte=0"`
	Discount         *float64 `json:"discount" binding:"omitempty,gte=0,lte=100"`
	Thumbnail        *string  `json:"thumbnail"`
	Banner           *string  `json:"banner"`
	Language         *string  `json:"language"`
	Requirements     []string `json:"requirements"`
	LearningOutcomes []string `json:"learningOutcomes"`
	Tags             []string `json:"tags"`
	Status           *string  `json:"status" binding:"omitempty,oneof=draft published archived"`
	IsFeatured       *bool    `json:"isFeatured"`
	IsPopular        *bool    `json:"isPopular"`
}

// CourseFilter collects the catalog listing query parameters.
type CourseFilter struct {
	Page     int      `form:"page" binding:"omitempty,gte=1"`
	Limit    int      `form:"limit" binding:"omitempty,gte=1,lte=50"`
	Category string   `form:"category" binding:"omitempty,oneof=engineering medical management civil-services banking defense other"`
	Level    string   `form:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Search   string   `form:"search"`
	Sort     string   `form:"sort" binding:"omitempty,oneof=price -price rating -rating createdAt -createdAt enrollment -enrollment"`
	MinPrice *float64 `form:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice *float64 `form:"maxPrice" binding:"omitempty,gte=0"`
}

// SearchCoursesRequest collects the text search parameters.
type SearchCoursesRequest struct {
	Query    string `form:"q" binding:"required"`
	Category string `form:"category" binding:"omitempty,oneof=engineering medical management civil-services banking defense other"`
	Level    string `form:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
}

// AddReviewRequest carries a review submission.
type AddReviewRequest struct {
	Rating  int     `json:"rating" binding:"required,gte=1,lte=5"`
	Comment *string `json:"comment" binding:"omitempty,max=500"`
}

// LessonAttachmentRequest carries one supplementary file reference for a
// lesson, typically the descriptor returned by the upload endpoints.
type LessonAttachmentRequest struct {
	Name     string `json:"name" binding:"required"`
	URL      string `json:"url" binding:"required"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize" binding:"omitempty,gte=0"`
}

// CreateLessonRequest carries a new lesson for a course.
type CreateLessonRequest struct {
	Title       string                    `json:"title" binding:"required"`
	Description *string                   `json:"description"`
	Content     string                    `json:"content" binding:"required"`
	VideoURL    *string                   `json:"videoUrl"`
	Duration    int                       `json:"duration" binding:"omitempty,gte=0"`
	Position    int                       `json:"position" binding:"required"`
	IsFree      bool                      `json:"isFree"`
	Attachments []LessonAttachmentRequest `json:"attachments" binding:"omitempty,dive"`
}

// UpdateLessonRequest carries a partial lesson update.
type UpdateLessonRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	VideoURL    *string `json:"videoUrl"`
	Duration    *int    `json:"duration" binding:"omitempty,gte=0"`
	Position    *int    `json:"position"`
	IsFree      *bool   `json:"isFree"`
}

// CourseListResponse is one page of catalog results.
type CourseListResponse struct {
	Courses    interface{}    `json:"courses"`
	Count      int            `json:"count"`
	Pagination PaginationInfo `json:"pagination"`
}
