package handlers

import (
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	"aveta_backend/internal/logger"
	"aveta_backend/internal/services"
	"aveta_backend/internal/validator"
	"aveta_backend/pkg/apperrors"
)

// BaseHandler carries the binding and error plumbing shared by every
// handler. Input validation itself lives in the services; the handlers
// only bind and translate.
type BaseHandler struct{}

func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

func (h *BaseHandler) BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to bind JSON body", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid request body: "+err.Error()))
		return false
	}
	return true
}

func (h *BaseHandler) BindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to bind query params", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid query parameters: "+err.Error()))
		return false
	}
	return true
}

// BindForm binds a multipart form's non-file fields.
func (h *BaseHandler) BindForm(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to bind form", err, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid form data: "+err.Error()))
		return false
	}
	return true
}

// HandleServiceError maps service failures onto the uniform error
// envelope. Validation errors keep their field map.
func (h *BaseHandler) HandleServiceError(c *gin.Context, err error) {
	if vErr, ok := err.(*validator.ValidationError); ok {
		logger.CtxWarn(c.Request.Context(), "Validation failed", "errors", vErr.Errors, "path", c.Request.URL.Path)
		apperrors.HandleError(c, apperrors.ValidationError(vErr.Errors))
		return
	}
	apperrors.HandleError(c, err)
}

// ParseParamUint reads a numeric path parameter. Writes the error
// response itself and returns false on garbage.
func (h *BaseHandler) ParseParamUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Invalid "+name+" parameter"))
		return 0, false
	}
	return uint(id), true
}

// FormUpload converts an optional multipart file into a service Upload.
// Returns (nil, true) when the field is absent.
func (h *BaseHandler) FormUpload(c *gin.Context, field string) (*services.Upload, bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, true
	}
	return h.openUpload(c, fileHeader)
}

func (h *BaseHandler) openUpload(c *gin.Context, fileHeader *multipart.FileHeader) (*services.Upload, bool) {
	file, err := fileHeader.Open()
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Could not read uploaded file"))
		return nil, false
	}
	// gin closes multipart temp files when the request ends.
	return &services.Upload{
		Reader:      file,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
	}, true
}
