package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/techagentng/citypulse/config"
	"github.com/techagentng/citypulse/db"
	apiError "github.com/techagentng/citypulse/errors"
	"github.com/techagentng/citypulse/models"
)

const reportImageFolder = "reports"

var allowedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// MediaService validates report photos and stores them in the object store
type MediaService interface {
	ValidateImage(upload *models.ImageUpload) error
	UploadReportImage(ctx context.Context, upload *models.ImageUpload) (string, error)
}

type mediaService struct {
	Config    *config.Config
	mediaRepo db.MediaRepository
	now       func() time.Time
}

func NewMediaService(mediaRepo db.MediaRepository, conf *config.Config) MediaService {
	return &mediaService{
		Config:    conf,
		mediaRepo: mediaRepo,
		now:       time.Now,
	}
}

// ValidateImage checks the size and extension limits without touching the bytes
func (m *mediaService) ValidateImage(upload *models.ImageUpload) error {
	if upload == nil {
		return nil
	}
	if len(upload.Data) == 0 {
		return apiError.New("image is empty", http.StatusBadRequest)
	}
	if m.Config.MaxImageBytes > 0 && int64(len(upload.Data)) > m.Config.MaxImageBytes {
		return apiError.New(fmt.Sprintf("image must not exceed %d bytes", m.Config.MaxImageBytes), http.StatusBadRequest)
	}
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !allowedImageExtensions[ext] {
		return apiError.New("image must be a png, jpg, jpeg or gif file", http.StatusBadRequest)
	}
	return m.checkDimensions(upload.Data)
}

// checkDimensions reads only the image header and rejects pictures whose
// pixel count exceeds MaxImagePixels, so they are never decoded in full.
func (m *mediaService) checkDimensions(data []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return apiError.New("image could not be decoded", http.StatusBadRequest)
	}
	limit := int64(m.Config.MaxImagePixels)
	if limit > 0 && int64(cfg.Width)*int64(cfg.Height) > limit {
		return apiError.New(fmt.Sprintf("image must not exceed %d pixels", limit), http.StatusBadRequest)
	}
	return nil
}

// UploadReportImage normalises the photo and uploads it once, returning the
// public URL.
func (m *mediaService) UploadReportImage(ctx context.Context, upload *models.ImageUpload) (string, error) {
	if err := m.checkDimensions(upload.Data); err != nil {
		return "", err
	}
	data, contentType, err := m.normalize(upload)
	if err != nil {
		return "", apiError.New("image could not be decoded", http.StatusBadRequest)
	}

	key := ReportImageKey(upload.Filename, m.now())
	url, err := m.mediaRepo.UploadImage(ctx, key, data, contentType)
	if err != nil {
		log.Printf("report image upload failed: %v", err)
		return "", apiError.Wrap(apiError.ErrUploadFailed, err)
	}
	return url, nil
}

// normalize applies EXIF orientation and shrinks images whose longest edge
// exceeds the configured limit. Images already within bounds are uploaded as
// received with the client's content type; re-encoded ones are labelled with
// the format they were written in.
func (m *mediaService) normalize(upload *models.ImageUpload) ([]byte, string, error) {
	img, err := imaging.Decode(bytes.NewReader(upload.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", err
	}

	edge := m.Config.MaxImageEdge
	bounds := img.Bounds()
	if edge <= 0 || (bounds.Dx() <= edge && bounds.Dy() <= edge) {
		contentType := upload.ContentType
		if contentType == "" {
			contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(upload.Filename)))
		}
		return upload.Data, contentType, nil
	}

	format, err := imaging.FormatFromFilename(upload.Filename)
	if err != nil {
		return nil, "", err
	}
	resized := imaging.Fit(img, edge, edge, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), formatContentType(format), nil
}

func formatContentType(format imaging.Format) string {
	return "image/" + strings.ToLower(format.String())
}

// ReportImageKey builds reports/<unix-millis>_<suffix>.<ext>
func ReportImageKey(filename string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	return fmt.Sprintf("%s/%d_%s%s", reportImageFolder, now.UnixMilli(), suffix, ext)
}
