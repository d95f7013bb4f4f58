package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/coursehub/coursehub-api/internal/account"
	appcontext "github.com/coursehub/coursehub-api/internal/common/context"
	"github.com/coursehub/coursehub-api/internal/common/logging"
	"github.com/coursehub/coursehub-api/internal/domain"
	"github.com/coursehub/coursehub-api/internal/presentation/interface-adapter/response"
	"github.com/coursehub/coursehub-api/internal/usecase"
)

// AuthHandler handles registration, login and profile requests
type AuthHandler struct{}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Bio      string `json:"bio"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) interactor(c echo.Context) (*usecase.AuthUseCase, error) {
	locator := appcontext.GetRepoLocator(c.Request().Context())
	if locator == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "repository locator not configured")
	}
	return &usecase.AuthUseCase{
		Logger:      appcontext.GetLogger(c.Request().Context()),
		RUser:       locator.UserRepo,
		REnrollment: locator.EnrollmentRepo,
		Tokens:      locator.Tokens,
	}, nil
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.register")
	defer span.Finish()

	logger := appcontext.GetLogger(ctx)

	span.SetTag("http.method", c.Request().Method)
	span.SetTag("http.url", c.Request().URL.Path)
	span.SetTag("http.user_agent", c.Request().UserAgent())

	interactor, err := h.interactor(c)
	if err != nil {
		return err
	}

	var req RegisterRequest
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

	result, err := interactor.Register(ctx, account.NewAccountParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     domain.Role(req.Role),
		Bio:      req.Bio,
	})
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.FromDomainError(err, c.Request().URL.Path).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}

	span.SetTag("user.id", result.User.ID)

	logging.LogWithTrace(ctx, logger, "handler", "User registered successfully", nil)
	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"data":    result,
		"message": "Account created successfully",
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.login")
	defer span.Finish()

	logger := appcontext.GetLogger(ctx)

	span.SetTag("http.method", c.Request().Method)
	span.SetTag("http.url", c.Request().URL.Path)
	span.SetTag("http.user_agent", c.Request().UserAgent())

	interactor, err := h.interactor(c)
	if err != nil {
		return err
	}

	var req LoginRequest
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

	result, err := interactor.Login(ctx, req.Email, req.Password)
	if err != nil {
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		// The detail stays generic on purpose: the response must not say
		// whether the email or the password was wrong.
		problem := response.NewUnauthorizedProblem(
			"Invalid email or password",
			c.Request().URL.Path,
		).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}

	span.SetTag("user.id", result.User.ID)

	logging.LogWithTrace(ctx, logger, "handler", "User logged in successfully", nil)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    result,
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	span, ctx := tracer.StartSpanFromContext(c.Request().Context(), "handler.me")
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

	profile, err := interactor.GetProfile(ctx, claims.ID)
	if err != nil {
		logging.LogErrorWithTrace(ctx, logger, "handler", "Failed to load profile", err, nil)
		span.SetTag("error", true)
		span.SetTag("error.msg", err.Error())
		problem := response.FromDomainError(err, c.Request().URL.Path).WithTrace(ctx)
		return c.JSON(problem.Status, problem)
	}

	logging.LogWithTrace(ctx, logger, "handler", "Profile retrieved successfully", nil)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"data":    profile,
	})
}
