package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nilevalley-edu/fileshare-service/internal/services"
	"github.com/nilevalley-edu/fileshare-service/internal/utils"
	"github.com/nilevalley-edu/fileshare-service/internal/validator"
)

type WhitelistHandler struct {
	BaseHandler
	whitelistService services.WhitelistService
	validator        *validator.Validator
}

func NewWhitelistHandler(
	whitelistService services.WhitelistService,
	validator *validator.Validator,
	logger utils.Logger,
) *WhitelistHandler {
	return &WhitelistHandler{
		BaseHandler:      NewBaseHandler(logger),
		whitelistService: whitelistService,
		validator:        validator,
	}
}

// AddStudents adds a comma-separated batch of student numbers to the
// whitelist. Skipped entries come back as warnings, not errors.
func (h *WhitelistHandler) AddStudents(c *gin.Context) {
	session, ok := SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not logged in"})
		return
	}

	var req validator.WhitelistAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.whitelistService.AddStudentNumbers(c.Request.Context(), session, req.Entries)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AddTeachers adds a comma-separated batch of institutional emails to
// the teacher whitelist.
func (h *WhitelistHandler) AddTeachers(c *gin.Context) {
	session, ok := SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not logged in"})
		return
	}

	var req validator.WhitelistAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.whitelistService.AddTeacherEmails(c.Request.Context(), session, req.Entries)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListStudents returns every allowed student number with its
// registration state.
func (h *WhitelistHandler) ListStudents(c *gin.Context) {
	entries, err := h.whitelistService.ListAllowedStudents(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: entries})
}

// ListTeachers returns every allowed teacher email with its
// registration state.
func (h *WhitelistHandler) ListTeachers(c *gin.Context) {
	entries, err := h.whitelistService.ListAllowedTeachers(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: entries})
}
