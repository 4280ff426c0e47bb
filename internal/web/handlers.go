package web

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/blowline/shiftlog/core"
	"github.com/blowline/shiftlog/internal/contract"
	"github.com/blowline/shiftlog/internal/outwriter"
	"github.com/blowline/shiftlog/schema"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleSubmit accepts a record as JSON or as a form post.
func (s *Server) handleSubmit(c *gin.Context) {
	var rec schema.ProductionRecord
	if err := c.ShouldBind(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid production data.", "error": err.Error()})
		return
	}

	saved, err := core.SubmitRecord(c.Request.Context(), s.calc, s.mgr.GetRecordStore(), &rec)
	var verr *contract.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid production data.",
			"error":   verr.Error(),
			"missing": nonNil(verr.Missing),
			"invalid": nonNil(verr.Invalid),
		})
	case err != nil:
		contract.LogWarn("Error saving production data", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to save production data.", "error": err.Error()})
	default:
		c.JSON(http.StatusCreated, gin.H{"message": "Production data saved successfully!", "id": saved.ID})
	}
}

// handleDownloadExcel streams the workbook for all records or a single section.
// The workbook is rendered in memory so a failure can still produce a 500.
func (s *Server) handleDownloadExcel(c *gin.Context) {
	filter := schema.RecordFilter{Section: schema.Section(strings.TrimSpace(c.Query("section")))}
	report, err := core.BuildReport(c.Request.Context(), s.calc, s.mgr.GetRecordStore(), filter)
	if err != nil {
		contract.LogWarn("Error building report", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate report.", "error": err.Error()})
		return
	}

	var buf bytes.Buffer
	if err := outwriter.WriteReportXLSX(&buf, report); err != nil {
		contract.LogWarn("Error writing workbook", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate report.", "error": err.Error()})
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": report.FileName}))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (s *Server) handleCustomers(c *gin.Context) {
	customers, err := core.ListCustomers(c.Request.Context(), s.mgr.GetRecordStore())
	if err != nil {
		contract.LogWarn("Error fetching customers", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch customers.", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, nonNil(customers))
}

// handleLastRecord returns the most recent record with freshly derived values.
func (s *Server) handleLastRecord(c *gin.Context) {
	row, err := core.LatestRecord(c.Request.Context(), s.calc, s.mgr.GetRecordStore())
	if errors.Is(err, contract.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "No production records found."})
		return
	}
	if err != nil {
		contract.LogWarn("Error fetching last record", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch the last record.", "error": err.Error()})
		return
	}

	rec := row.Record
	rec.NetRunningHours = row.NetRunningHours
	rec.TotalDowntimeHours = row.TotalDowntimeHours
	rec.WastagePercentage = row.WastagePercentage
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": s.cfg.Backend})
}

// handleStatic serves the form assets for unmatched GET requests when a static directory is set.
func (s *Server) handleStatic() gin.HandlerFunc {
	var files http.Handler
	if s.cfg.StaticDir != "" {
		files = http.FileServer(http.Dir(s.cfg.StaticDir))
	}
	return func(c *gin.Context) {
		if files == nil || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found."})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
