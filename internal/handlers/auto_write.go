// internal/handlers/auto_write.go
package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/enescucu1/auto/internal/services"
	"github.com/enescucu1/auto/internal/utils"
)

type AutoWriteHandler struct {
	writer      AutoWriter
	maxFileSize int64
}

func NewAutoWriteHandler(writer AutoWriter, maxFileSize int64) *AutoWriteHandler {
	return &AutoWriteHandler{writer: writer, maxFileSize: maxFileSize}
}

// POST /rest
func (h *AutoWriteHandler) Create(c *gin.Context) {
	var dto AutoCreateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&dto)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	auto, err := dto.toModel()
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	id, err := h.writer.Create(c.Request.Context(), auto)
	if err != nil {
		var exists *services.FahrgestellnummerExistsError
		if errors.As(err, &exists) {
			utils.UnprocessableResponse(c, exists.Error())
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	c.Header("Location", fmt.Sprintf("%s/%d", c.Request.URL.Path, id))
	c.Status(http.StatusCreated)
}

// PUT /rest/:id
func (h *AutoWriteHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	versionToken := c.GetHeader("If-Match")
	if versionToken == "" {
		utils.PreconditionRequiredResponse(c, "If-Match header is required")
		return
	}

	var dto AutoDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&dto)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	auto, err := dto.toModel()
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	newVersion, err := h.writer.Update(c.Request.Context(), id, auto, versionToken)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.NotFoundResponse(c, err.Error())
		case errors.Is(err, services.ErrVersionOutdated), errors.Is(err, services.ErrVersionInvalid):
			utils.PreconditionFailedResponse(c, err.Error())
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	c.Header("ETag", strconv.Quote(strconv.Itoa(newVersion)))
	c.Status(http.StatusNoContent)
}

// DELETE /rest/:id
func (h *AutoWriteHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Delete is idempotent: 204 regardless of prior existence.
	if _, err := h.writer.Delete(c.Request.Context(), id); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	c.Status(http.StatusNoContent)
}

// POST /rest/:id (file upload)
func (h *AutoWriteHandler) UploadFile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "File upload failed", err.Error())
		return
	}

	if header.Size > h.maxFileSize {
		utils.BadRequestResponse(c,
			fmt.Sprintf("file size %d exceeds maximum of %d bytes", header.Size, h.maxFileSize), nil)
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.BadRequestResponse(c, "File upload failed", err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	if _, err := h.writer.AddFile(c.Request.Context(), id, data, header.Filename); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			utils.NotFoundResponse(c, err.Error())
		case errors.Is(err, services.ErrUnsupportedFile):
			utils.BadRequestResponse(c, err.Error(), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	c.Header("Location", fmt.Sprintf("/rest/file/%d", id))
	c.Status(http.StatusNoContent)
}
