// internal/handlers/auto_read.go
package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/enescucu1/auto/internal/services"
	"github.com/enescucu1/auto/internal/utils"
)

// idPattern is the shape of a valid resource id in the URL.
var idPattern = regexp.MustCompile(`^[1-9]\d{0,10}$`)

type AutoReadHandler struct {
	reader AutoReader
}

func NewAutoReadHandler(reader AutoReader) *AutoReadHandler {
	return &AutoReadHandler{reader: reader}
}

// GET /rest/:id
func (h *AutoReadHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	auto, err := h.reader.FindByID(c.Request.Context(), id, true)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.NotFoundResponse(c, err.Error())
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	etag := strconv.Quote(strconv.Itoa(auto.Version))
	if c.GetHeader("If-None-Match") == etag {
		c.Status(http.StatusNotModified)
		return
	}

	c.Header("ETag", etag)
	c.JSON(http.StatusOK, auto)
}

// GET /rest
func (h *AutoReadHandler) Search(c *gin.Context) {
	if c.Query("only") == "count" {
		count, err := h.reader.Count(c.Request.Context())
		if err != nil {
			utils.InternalErrorResponse(c, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
		return
	}

	filter := filterFromQuery(c)
	pageable := utils.GetPageable(c)

	autos, total, err := h.reader.Find(c.Request.Context(), filter, pageable)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.NotFoundResponse(c, err.Error())
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"content":       autos,
		"totalElements": total,
	})
}

// GET /rest/file/:id
func (h *AutoReadHandler) GetFile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	file, found, err := h.reader.FindFileByAutoID(c.Request.Context(), id)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if !found {
		utils.NotFoundResponse(c, "no file for auto "+c.Param("id"))
		return
	}

	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// reservedQueryKeys are transport-level parameters that never belong to
// the search filter. sport and komfort are convenience keys mapped to a
// tag filter below.
var reservedQueryKeys = map[string]bool{
	"page":    true,
	"size":    true,
	"only":    true,
	"sport":   true,
	"komfort": true,
}

// filterFromQuery collects every non-reserved query parameter into the
// filter record. Unknown keys are passed through on purpose: the service
// rejects them against its whitelist.
func filterFromQuery(c *gin.Context) map[string]any {
	filter := map[string]any{}

	for key, values := range c.Request.URL.Query() {
		if reservedQueryKeys[key] {
			continue
		}
		if len(values) > 0 && values[0] != "" {
			filter[key] = values[0]
		}
	}

	if c.Query("sport") == "true" {
		filter[services.FilterSchlagwort] = "sport"
	}
	if c.Query("komfort") == "true" {
		filter[services.FilterSchlagwort] = "komfort"
	}

	return filter
}

func parseID(c *gin.Context) (uint, bool) {
	idStr := c.Param("id")
	if !idPattern.MatchString(idStr) {
		utils.BadRequestResponse(c, "Invalid auto ID", nil)
		return 0, false
	}

	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid auto ID", nil)
		return 0, false
	}
	return uint(id), true
}
