package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/studreg-api/pkg/errors"
	"github.com/noah-isme/studreg-api/pkg/export"
	"github.com/noah-isme/studreg-api/pkg/response"
)

// ExportHandler renders the roster as a downloadable table.
type ExportHandler struct {
	students studentService
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
}

// NewExportHandler constructs ExportHandler.
func NewExportHandler(students studentService) *ExportHandler {
	return &ExportHandler{
		students: students,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
	}
}

// Roster godoc
// @Summary Export the student roster
// @Tags Students
// @Param format query string false "csv or pdf" default(csv)
// @Produce text/csv
// @Produce application/pdf
// @Success 200
// @Router /student/export [get]
func (h *ExportHandler) Roster(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "pdf" {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidArgument, "unsupported export format"))
		return
	}

	students, err := h.students.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	data := export.Dataset{
		Headers: []string{"ID", "First Name", "Last Name", "Email", "Course", "Registered"},
		Rows:    make([][]string, 0, len(students)),
	}
	for _, s := range students {
		data.Rows = append(data.Rows, []string{
			strconv.FormatInt(s.ID, 10),
			s.FirstName,
			s.LastName,
			s.Email,
			s.Course,
			s.RegisteredAt.UTC().Format(time.RFC3339),
		})
	}

	filename := fmt.Sprintf("students-%s.%s", time.Now().UTC().Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	switch format {
	case "pdf":
		payload, err := h.pdf.Render(data, "Registered Students")
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster"))
			return
		}
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		payload, err := h.csv.Render(data)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster"))
			return
		}
		c.Data(http.StatusOK, "text/csv", payload)
	}
}
