package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nilevalley-edu/fileshare-service/internal/services"
	"github.com/nilevalley-edu/fileshare-service/internal/utils"
	"github.com/nilevalley-edu/fileshare-service/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
	validator   *validator.Validator
}

func NewAuthHandler(
	authService services.AuthService,
	validator *validator.Validator,
	logger utils.Logger,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
		validator:   validator,
	}
}

// Login authenticates a user and returns a session token plus the
// dashboard path for the account's role.
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if errs := h.validator.Validate(&req); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: errs,
		})
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout ends the caller's session.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := TokenFromContext(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Not logged in",
		})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "logged out"})
}

// SignupStudent registers a whitelisted student.
func (h *AuthHandler) SignupStudent(c *gin.Context) {
	var req services.StudentSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if errs := h.validator.Validate(&req); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: errs,
		})
		return
	}

	h.LogRequest(c, "student signup attempt", "university_id", req.UniversityID)

	resp, err := h.authService.SignupStudent(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// SignupTeacher registers a whitelisted teacher.
func (h *AuthHandler) SignupTeacher(c *gin.Context) {
	var req services.TeacherSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if errs := h.validator.Validate(&req); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: errs,
		})
		return
	}

	h.LogRequest(c, "teacher signup attempt", "email", req.Email)

	resp, err := h.authService.SignupTeacher(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Me returns the caller's session identity.
func (h *AuthHandler) Me(c *gin.Context) {
	session, ok := SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not logged in"})
		return
	}
	c.JSON(http.StatusOK, session)
}
