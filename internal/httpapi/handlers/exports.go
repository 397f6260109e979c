package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/suPer8Hu/helpdesk/internal/auth"
	"github.com/suPer8Hu/helpdesk/internal/export"
)

type exportFormat struct {
	contentType string
	extension   string
	render      func([][]string) ([]byte, error)
}

var exportFormats = map[string]exportFormat{
	"excel": {
		contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		extension:   "xlsx",
		render:      export.Excel,
	},
	"csv": {
		contentType: "text/csv",
		extension:   "csv",
		render:      export.CSV,
	},
	"pdf": {
		contentType: "application/pdf",
		extension:   "pdf",
		render:      export.PDF,
	},
}

// Export streams the full complaint dump in the requested format.
// Admin only.
func (h *Handler) Export(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	if !auth.CanExport(actor) {
		jsonError(c, http.StatusForbidden, "Unauthorized")
		return
	}

	format, ok := exportFormats[c.Param("format")]
	if !ok {
		jsonError(c, http.StatusBadRequest, "Unsupported format")
		return
	}

	complaints, err := h.Tickets.ListAll(c.Request.Context())
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "db error")
		return
	}

	data, err := format.render(export.BuildRows(complaints))
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "Failed to generate export")
		return
	}

	filename := "complaints_" + time.Now().Format("20060102_150405") + "." + format.extension
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, format.contentType, data)
}
