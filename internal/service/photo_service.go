package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"tiepbuoc/internal/config"
	"tiepbuoc/internal/models"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultUploadDir       = "/tmp/tiepbuoc/uploads"
	DefaultMaxUploadSizeMB = 5
	PhotoMaxSize           = 1440
	WebPQuality            = 75
)

// UploadPhotoInput is the payload for a student photo upload.
type UploadPhotoInput struct {
	Filename    string
	ContentType string
	Content     []byte
}

// UploadedPhoto describes where a stored photo can be fetched.
type UploadedPhoto struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}

// PhotoService stores student photos: uploads are size- and MIME-checked,
// decoded, bounded to PhotoMaxSize and re-encoded as webp under a
// uuid-derived key.
type PhotoService struct {
	uploadDir          string
	publicPath         string
	maxUploadSizeBytes int64
}

// NewPhotoService builds a PhotoService from configuration.
func NewPhotoService(cfg *config.Config) *PhotoService {
	uploadDir := DefaultUploadDir
	publicPath := "/uploads"
	maxUploadSizeMB := DefaultMaxUploadSizeMB

	if cfg != nil {
		if cfg.UploadDir != "" {
			uploadDir = cfg.UploadDir
		}
		if cfg.UploadPublicPath != "" {
			publicPath = cfg.UploadPublicPath
		}
		if cfg.UploadMaxSizeMB > 0 {
			maxUploadSizeMB = cfg.UploadMaxSizeMB
		}
	}

	return &PhotoService{
		uploadDir:          uploadDir,
		publicPath:         publicPath,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// UploadDir exposes the storage root so the server can mount it as static.
func (s *PhotoService) UploadDir() string { return s.uploadDir }

// Upload validates, re-encodes and stores one photo.
func (s *PhotoService) Upload(in UploadPhotoInput) (*UploadedPhoto, error) {
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedPhotoMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}
	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") && !isAllowedPhotoMIME(provided) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	bounded := resizeToFit(decoded, PhotoMaxSize, PhotoMaxSize)
	encoded, err := encodeWebP(bounded, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	key := filepath.ToSlash(filepath.Join("photos", uuid.NewString()+".webp"))
	abs := filepath.Join(s.uploadDir, filepath.FromSlash(key))
	if err := writeBytesToFile(abs, encoded); err != nil {
		return nil, models.NewInternalError(err)
	}

	return &UploadedPhoto{
		Key:  key,
		URL:  strings.TrimRight(s.publicPath, "/") + "/" + key,
		Size: int64(len(encoded)),
	}, nil
}

func isAllowedPhotoMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeBytesToFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
