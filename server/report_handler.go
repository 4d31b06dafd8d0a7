package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/citypulse/errors"
	"github.com/techagentng/citypulse/models"
	"github.com/techagentng/citypulse/server/response"
)

const reportImageField = "image"

func (s *Server) handleSubmitReport() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := getSession(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		var reportRequest models.ReportRequest
		if err := c.ShouldBind(&reportRequest); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.Wrap(errs.ErrBadRequest, err))
			return
		}

		image, err := s.readReportImage(c)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		result, err := s.ReportService.SubmitReport(c.Request.Context(), session, &reportRequest, image)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "report submitted successfully", http.StatusCreated, result, nil)
	}
}

// readReportImage returns the optional attached photo, nil when none was sent.
// At most one byte past the configured limit is read so oversize files are
// still rejected by validation.
func (s *Server) readReportImage(c *gin.Context) (*models.ImageUpload, error) {
	fileHeader, err := c.FormFile(reportImageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, errs.Wrap(errs.ErrBadRequest, err)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, errs.Wrap(errs.ErrBadRequest, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if s.Config.MaxImageBytes > 0 {
		reader = io.LimitReader(file, s.Config.MaxImageBytes+1)
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errs.Wrap(errs.ErrBadRequest, err)
	}

	return &models.ImageUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (s *Server) handleListReports() gin.HandlerFunc {
	return func(c *gin.Context) {
		reports, err := s.ReportService.ListReports(c.Request.Context(), getLang(c))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "retrieved reports", http.StatusOK, reports, nil)
	}
}
