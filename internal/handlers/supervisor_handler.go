package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nilevalley-edu/fileshare-service/internal/models"
	"github.com/nilevalley-edu/fileshare-service/internal/services"
	"github.com/nilevalley-edu/fileshare-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SupervisorHandler covers user administration and data exports.
type SupervisorHandler struct {
	BaseHandler
	userAdminService services.UserAdminService
	exportService    services.ExportService
}

func NewSupervisorHandler(
	userAdminService services.UserAdminService,
	exportService services.ExportService,
	logger utils.Logger,
) *SupervisorHandler {
	return &SupervisorHandler{
		BaseHandler:      NewBaseHandler(logger),
		userAdminService: userAdminService,
		exportService:    exportService,
	}
}

// ListStudents returns all student accounts.
func (h *SupervisorHandler) ListStudents(c *gin.Context) {
	users, err := h.userAdminService.ListUsersByRole(c.Request.Context(), models.RoleStudent)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: users})
}

// ListTeachers returns all teacher accounts.
func (h *SupervisorHandler) ListTeachers(c *gin.Context) {
	users, err := h.userAdminService.ListUsersByRole(c.Request.Context(), models.RoleTeacher)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: users})
}

// DeleteUser removes an account with its files and whitelist slot.
func (h *SupervisorHandler) DeleteUser(c *gin.Context) {
	session, ok := SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not logged in"})
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "deleting user", "user_id", id)

	if err := h.userAdminService.DeleteUser(c.Request.Context(), session, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "user deleted"})
}

// GetAuditLog returns the most recent audit events, newest first.
func (h *SupervisorHandler) GetAuditLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := h.userAdminService.ListRecentAudit(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: entries})
}

// ExportUsers returns an xlsx workbook of all accounts.
func (h *SupervisorHandler) ExportUsers(c *gin.Context) {
	session, ok := SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not logged in"})
		return
	}

	data, err := h.exportService.ExportUsers(c.Request.Context(), session)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.serveWorkbook(c, "users", data)
}

// ExportWhitelist returns an xlsx workbook of both allow-lists.
func (h *SupervisorHandler) ExportWhitelist(c *gin.Context) {
	session, ok := SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not logged in"})
		return
	}

	data, err := h.exportService.ExportWhitelist(c.Request.Context(), session)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.serveWorkbook(c, "whitelist", data)
}

func (h *SupervisorHandler) serveWorkbook(c *gin.Context, name string, data []byte) {
	filename := fmt.Sprintf("%s_%s.xlsx", name, time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
