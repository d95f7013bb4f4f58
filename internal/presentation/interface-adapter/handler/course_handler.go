package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/coursehub/coursehub-api/internal/catalog"
	appcontext "github.com/coursehub/coursehub-api/internal/common/context"
	"github.com/coursehub/coursehub-api/internal/common/logging"
	"github.com/coursehub/coursehub-api/internal/domain"
	"github.com/coursehub/coursehub-api/internal/presentation/interface-adapter/response"
	"github.com/coursehub/coursehub-api/internal/usecase"
)

// CourseHandler handles catalog, enrollment, review and lesson requests
type CourseHandler struct{}

// NewCourseHandler creates a new CourseHandler
func NewCourseHandler() *CourseHandler {
	return &CourseHandler{}
}

// CreateCourseRequest represents the request body for creating a course
type CreateCourseRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount"`
	Level       string  `json:"level"`
	Language    string  `json:"language"`
	Thumbnail   string  `json:"thumbnail"`
	IsFeatured  bool    `json:"isFeatured"`
	CategoryID  string  `json:"categoryId"`
}

// UpdateCourseRequest represents the request body for editing a course.
// Absent fields keep their current value.
type UpdateCourseRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Discount    *float64 `json:"discount"`
	Level       *string  `json:"level"`
	Thumbnail   *string  `json:"thumbnail"`
	IsPublished *bool    `json:"isPublished"`
	IsFeatured  *bool    `json:"isFeatured"`
}

// CreateReviewRequest represents the request body for creating a review
type CreateReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// CompleteLessonRequest carries how many lessons of the course the user
// has now completed.
type CompleteLessonRequest struct {
	CompletedLessons int `json:"completedLessons"`
}

func (h *CourseHandler) interactor(c echo.Context) (*usecase.CourseUseCase, error) {
	locator := appcontext.GetRepoLocator(c.Request().Context())
	if locator == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "repository locator not configured")
	}
	return &usecase.CourseUseCase{
		Logger:      appcontext.GetLogger(c.Request().Context()),
		RCourse:     locator.CourseRepo,
		REnrollment: locator.EnrollmentRepo,
		RReview:     locator.ReviewRepo,
		RCategory:   locator.CategoryRepo,
		RCache:      locator.Cache,
		Bus:         locator.Bus,
		CacheTTL:    locator.CacheTTL,
	}, nil
}

// ListCourses handles GET /api/courses
func (h *CourseHandler) ListCourses(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.list_courses")
	defer span.Finish()

	logger := appcontext.GetLogger(ctx)

	span.SetTag("http.method", c.Request().Method)
	span.SetTag("http.url", c.Request().URL.Path)
	span.SetTag("http.user_agent", c.Request().UserAgent())

	interactor, err := h.interactor(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	filter := domain.CourseFilter{
		Category: c.QueryParam("category"),
		Level:    c.QueryParam("level"),
		Search:   c.QueryParam("search"),
		Sort:     c.QueryParam("sort"),
		Page:     page,
		Limit:    limit,
	}

	courses, err := interactor.ListCourses(ctx, filter)
	if err != nil {
		logging.LogErrorWithTrace(ctx, logger, "handler", "Failed to list courses", err, nil)
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.FromDomainError(err, c.Request().URL.Path).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}

	span.SetTag("courses.count", len(courses))

	logging.LogWithTrace(ctx, logger, "handler", "Courses retrieved successfully", nil)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    courses,
	})
}

// FeaturedCourses handles GET /api/courses/featured
func (h *CourseHandler) FeaturedCourses(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.featured_courses")
	defer span.Finish()

	logger := appcontext.GetLogger(ctx)

	span.SetTag("http.method", c.Request().Method)
	span.SetTag("http.url", c.Request().URL.Path)

	interactor, err := h.interactor(c)
	if err != nil {
		return err
	}

	views, err := interactor.FeaturedCourses(ctx)
	if err != nil {
		logging.LogErrorWithTrace(ctx, logger, "handler", "Failed to load featured courses", err, nil)
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.FromDomainError(err, c.Request().URL.Path).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}

	span.SetTag("courses.count", len(views))

	logging.LogWithTrace(ctx, logger, "handler", "Featured courses retrieved successfully", nil)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    views,
	})
}

// GetCourse handles GET /api/courses/:slug
func (h *CourseHandler) GetCourse(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.get_course")
	defer span.Finish()

	logger := appcontext.GetLogger(ctx)

	span.SetTag("http.method", c.Request().Method)
	span.SetTag("http.url", c.Request().URL.Path)

	slug := c.Param("slug")
	span.SetTag("course.slug", slug)

	interactor, err := h.interactor(c)
	if err != nil {
		return err
	}

	view, err := interactor.GetCourseBySlug(ctx, slug)
	if err != nil {
		logging.LogErrorWithTrace(ctx, logger, "handler", "Failed to get course", err, nil)
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.FromDomainError(err, c.Request().URL.Path).WithTrace(ctx)
		if problem.Status == http.StatusNotFound {
			problem.Detail = "Course with the specified slug does not exist"
			problem.Extra["course.slug"] = slug
		}
		return c.JSON(problem.Status, problem)
	}

	span.SetTag("course.id", view.ID)

	logging.LogWithTrace(ctx, logger, "handler", "Course retrieved successfully", nil)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    view,
	})
}

// CreateCourse handles POST /api/courses
func (h *CourseHandler) CreateCourse(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.create_course")
	defer span.Finish()

	logger := appcontext.GetLogger(ctx)

	span.SetTag("http.method", c.Request().Method)
	span.SetTag("http.url", c.Request().URL.Path)

	claims := appcontext.GetUserClaims(ctx)
	if claims == nil {
		problem := response.NewUnauthorizedProblem(
			"Authentication required",
			c.Request().URL.Path,
		).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}
	span.SetTag("user.id", claims.ID)

	interactor, err := h.interactor(c)
	if err != nil {
		return err
	}

	var req CreateCourseRequest
	if err := c.Bind(&req); err != nil {
		logging.LogErrorWithTrace(ctx, logger, "handler", "Failed to decode request body", err, nil)
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.NewValidationErrorProblem(
			"Request body is not valid JSON or does not match expected schema",
			c.Request().URL.Path,
		).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}

	course, err := interactor.CreateCourse(ctx, domain.Role(claims.Role), catalog.NewCourseParams{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Discount:     req.Discount,
		Level:        domain.Level(req.Level),
		Language:     req.Language,
		Thumbnail:    req.Thumbnail,
		IsFeatured:   req.IsFeatured,
		InstructorID: claims.ID,
		CategoryID:   req.CategoryID,
	})
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.FromDomainError(err, c.Request().URL.Path).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}

	span.SetTag("course.id", course.ID)

	logging.LogWithTrace(ctx, logger, "handler", "Course created successfully", nil)
	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"data":    course,
		"message": "Course created successfully",
	})
}

// UpdateCourse handles PUT /api/courses/:id
func (h *CourseHandler) UpdateCourse(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.update_course")
	defer span.Finish()

	logger := appcontext.GetLogger(ctx)

	span.SetTag("http.method", c.Request().Method)
	span.SetTag("http.url", c.Request().URL.Path)

	claims := appcontext.GetUserClaims(ctx)
	if claims == nil {
		problem := response.NewUnauthorizedProblem(
			"Authentication required",
			c.Request().URL.Path,
		).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}
	courseID := c.Param("id")
	span.SetTag("user.id", claims.ID)
	span.SetTag("course.id", courseID)

	interactor, err := h.interactor(c)
	if err != nil {
		return err
	}

	var req UpdateCourseRequest
	if err := c.Bind(&req); err != nil {
		logging.LogErrorWithTrace(ctx, logger, "handler", "Failed to decode request body", err, nil)
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.NewValidationErrorProblem(
			"Request body is not valid JSON or does not match expected schema",
			c.Request().URL.Path,
		).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}

	update := catalog.CourseUpdate{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Discount:    req.Discount,
		Thumbnail:   req.Thumbnail,
		IsPublished: req.IsPublished,
		IsFeatured:  req.IsFeatured,
	}
	if req.Level != nil {
		level := domain.Level(*req.Level)
		update.Level = &level
	}

	course, err := interactor.UpdateCourse(ctx, claims.ID, domain.Role(claims.Role), courseID, update)
	if err != nil {
		logging.LogErrorWithTrace(ctx, logger, "handler", "Failed to update course", err, nil)
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.FromDomainError(err, c.Request().URL.Path).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}

	logging.LogWithTrace(ctx, logger, "handler", "Course updated successfully", nil)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    course,
		"message": "Course updated successfully",
	})
}

// Enroll handles POST /api/courses/:id/enroll
func (h *CourseHandler) Enroll(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.enroll")
	defer span.Finish()

	logger := appcontext.GetLogger(ctx)

	span.SetTag("http.method", c.Request().Method)
	span.SetTag("http.url", c.Request().URL.Path)

	claims := appcontext.GetUserClaims(ctx)
	if claims == nil {
		problem := response.NewUnauthorizedProblem(
			"Authentication required",
			c.Request().URL.Path,
		).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}
	courseID := c.Param("id")
	span.SetTag("user.id", claims.ID)
	span.SetTag("course.id", courseID)

	interactor, err := h.interactor(c)
	if err != nil {
		return err
	}

	enrollment, err := interactor.Enroll(ctx, claims.ID, courseID)
	if err != nil {
		logging.LogErrorWithTrace(ctx, logger, "handler", "Failed to enroll", err, nil)
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.FromDomainError(err, c.Request().URL.Path).WithTrace(ctx)
		problem.Extra["course.id"] = courseID
		return c.JSON(problem.Status, problem)
	}

	logging.LogWithTrace(ctx, logger, "handler", "Enrolled successfully", nil)
	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"data":    enrollment,
		"message": "Enrolled successfully",
	})
}

// CreateReview handles POST /api/courses/:id/reviews
func (h *CourseHandler) CreateReview(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.create_review")
	defer span.Finish()

	logger := appcontext.GetLogger(ctx)

	span.SetTag("http.method", c.Request().Method)
	span.SetTag("http.url", c.Request().URL.Path)

	claims := appcontext.GetUserClaims(ctx)
	if claims == nil {
		problem := response.NewUnauthorizedProblem(
			"Authentication required",
			c.Request().URL.Path,
		).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}
	courseID := c.Param("id")
	span.SetTag("user.id", claims.ID)
	span.SetTag("course.id", courseID)

	interactor, err := h.interactor(c)
	if err != nil {
		return err
	}

	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		logging.LogErrorWithTrace(ctx, logger, "handler", "Failed to decode request body", err, nil)
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.NewValidationErrorProblem(
			"Request body is not valid JSON or does not match expected schema",
			c.Request().URL.Path,
		).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}
	span.SetTag("review.rating", req.Rating)

	review, err := interactor.CreateReview(ctx, claims.ID, courseID, req.Rating, req.Comment)
	if err != nil {
		logging.LogErrorWithTrace(ctx, logger, "handler", "Failed to create review", err, nil)
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.FromDomainError(err, c.Request().URL.Path).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}

	logging.LogWithTrace(ctx, logger, "handler", "Review created successfully", nil)
	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"data":    review,
		"message": "Review created successfully",
	})
}

// ListReviews handles GET /api/courses/:id/reviews
func (h *CourseHandler) ListReviews(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.list_reviews")
	defer span.Finish()

	logger := appcontext.GetLogger(ctx)

	span.SetTag("http.method", c.Request().Method)
	span.SetTag("http.url", c.Request().URL.Path)

	courseID := c.Param("id")
	span.SetTag("course.id", courseID)

	interactor, err := h.interactor(c)
	if err != nil {
		return err
	}

	reviews, err := interactor.ListReviews(ctx, courseID)
	if err != nil {
		logging.LogErrorWithTrace(ctx, logger, "handler", "Failed to list reviews", err, nil)
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.FromDomainError(err, c.Request().URL.Path).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}

	span.SetTag("reviews.count", len(reviews))

	logging.LogWithTrace(ctx, logger, "handler", "Reviews retrieved successfully", nil)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    reviews,
	})
}

// CompleteLesson handles POST /api/lessons/:id/complete
func (h *CourseHandler) CompleteLesson(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.complete_lesson")
	defer span.Finish()

	logger := appcontext.GetLogger(ctx)

	span.SetTag("http.method", c.Request().Method)
	span.SetTag("http.url", c.Request().URL.Path)

	claims := appcontext.GetUserClaims(ctx)
	if claims == nil {
		problem := response.NewUnauthorizedProblem(
			"Authentication required",
			c.Request().URL.Path,
		).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}
	lessonID := c.Param("id")
	span.SetTag("user.id", claims.ID)
	span.SetTag("lesson.id", lessonID)

	interactor, err := h.interactor(c)
	if err != nil {
		return err
	}

	var req CompleteLessonRequest
	if err := c.Bind(&req); err != nil {
		logging.LogErrorWithTrace(ctx, logger, "handler", "Failed to decode request body", err, nil)
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.NewValidationErrorProblem(
			"Request body is not valid JSON or does not match expected schema",
			c.Request().URL.Path,
		).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}

	enrollment, err := interactor.CompleteLesson(ctx, claims.ID, lessonID, req.CompletedLessons)
	if err != nil {
		logging.LogErrorWithTrace(ctx, logger, "handler", "Failed to complete lesson", err, nil)
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.FromDomainError(err, c.Request().URL.Path).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}

	span.SetTag("enrollment.progress", enrollment.Progress)

	logging.LogWithTrace(ctx, logger, "handler", "Lesson completed successfully", nil)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    enrollment,
	})
}

// ListCategories handles GET /api/categories
func (h *CourseHandler) ListCategories(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.list_categories")
	defer span.Finish()

	logger := appcontext.GetLogger(ctx)

	span.SetTag("http.method", c.Request().Method)
	span.SetTag("http.url", c.Request().URL.Path)

	interactor, err := h.interactor(c)
	if err != nil {
		return err
	}

	categories, err := interactor.ListCategories(ctx)
	if err != nil {
		logging.LogErrorWithTrace(ctx, logger, "handler", "Failed to list categories", err, nil)
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.FromDomainError(err, c.Request().URL.Path).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}

	span.SetTag("categories.count", len(categories))

	logging.LogWithTrace(ctx, logger, "handler", "Categories retrieved successfully", nil)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    categories,
	})
}
