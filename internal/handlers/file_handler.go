package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nilevalley-edu/fileshare-service/internal/services"
	"github.com/nilevalley-edu/fileshare-service/internal/utils"
	"github.com/nilevalley-edu/fileshare-service/internal/validator"
)

type FileHandler struct {
	BaseHandler
	fileService services.FileService
	validator   *validator.Validator
}

func NewFileHandler(
	fileService services.FileService,
	validator *validator.Validator,
	logger utils.Logger,
) *FileHandler {
	return &FileHandler{
		BaseHandler: NewBaseHandler(logger),
		fileService: fileService,
		validator:   validator,
	}
}

// Upload accepts a multipart upload from a teacher.
func (h *FileHandler) Upload(c *gin.Context) {
	session, ok := SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not logged in"})
		return
	}

	var meta validator.FileUploadMeta
	if err := c.ShouldBind(&meta); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid form fields",
			Details: err.Error(),
		})
		return
	}
	if errs := h.validator.Validate(&meta); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: errs,
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.handleServiceError(c, services.ErrNoFileProvided)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		h.LogError(c, err, "failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to read upload"})
		return
	}
	defer src.Close()

	info, err := h.fileService.Upload(c.Request.Context(), session, &services.UploadFileInput{
		Filename:    fileHeader.Filename,
		Content:     src,
		Size:        fileHeader.Size,
		Description: meta.Description,
		Semester:    meta.Semester,
		FileType:    meta.FileType,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, info)
}

// List returns file metadata, optionally filtered by semester and type
// via query parameters.
func (h *FileHandler) List(c *gin.Context) {
	files, err := h.fileService.List(c.Request.Context(),
		c.Query("semester"), c.Query("file_type"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: files})
}

// Download streams a file back with its original name.
func (h *FileHandler) Download(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	download, err := h.fileService.ResolveDownload(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.FileAttachment(download.Path, download.Filename)
}

// Delete removes an uploaded file.
func (h *FileHandler) Delete(c *gin.Context) {
	session, ok := SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not logged in"})
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "deleting file", "file_id", id)

	if err := h.fileService.Delete(c.Request.Context(), session, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "file deleted"})
}

// UploadResult accepts a semester results sheet from a supervisor.
func (h *FileHandler) UploadResult(c *gin.Context) {
	session, ok := SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not logged in"})
		return
	}

	var meta validator.ResultUploadMeta
	if err := c.ShouldBind(&meta); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid form fields",
			Details: err.Error(),
		})
		return
	}
	if errs := h.validator.Validate(&meta); errs.HasErrors() {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: errs,
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.handleServiceError(c, services.ErrNoFileProvided)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		h.LogError(c, err, "failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Failed to read upload"})
		return
	}
	defer src.Close()

	info, err := h.fileService.UploadResult(c.Request.Context(), session, &services.UploadResultInput{
		Filename:    fileHeader.Filename,
		Content:     src,
		Size:        fileHeader.Size,
		Description: meta.Description,
		Semester:    meta.Semester,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, info)
}

// ListResults returns published results, optionally filtered by semester.
func (h *FileHandler) ListResults(c *gin.Context) {
	results, err := h.fileService.ListResults(c.Request.Context(), c.Query("semester"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: results})
}

// DownloadResult streams a results sheet back with its original name.
func (h *FileHandler) DownloadResult(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	download, err := h.fileService.ResolveResultDownload(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.FileAttachment(download.Path, download.Filename)
}

// DeleteResult removes a published results sheet.
func (h *FileHandler) DeleteResult(c *gin.Context) {
	session, ok := SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Not logged in"})
		return
	}

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "deleting result", "result_id", id)

	if err := h.fileService.DeleteResult(c.Request.Context(), session, id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "result deleted"})
}
