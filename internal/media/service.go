// AngelaMos | 2026
// service.go

package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gabriel-vasile/mimetype"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/storefront/internal/config"
	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/metrics"
)

const (
	vendorName   = "cloudinary"
	// Upload and Destroy must agree on the resource type.
	resourceImage = "image"
)

// uploaderAPI is the part of the Cloudinary upload client the store uses.
type uploaderAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// Asset is a stored file as seen by the rest of the system.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

type Service struct {
	api          uploaderAPI
	folder       string
	timeout      time.Duration
	maxBytes     int64
	allowedTypes []string
	metrics      metrics.Recorder
	logger       *slog.Logger
}

func NewService(
	cfg config.CloudinaryConfig,
	upload config.UploadConfig,
	rec metrics.Recorder,
	logger *slog.Logger,
) (*Service, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("create cloudinary client: %w", err)
	}

	return newService(&cld.Upload, cfg, upload, rec, logger), nil
}

func newService(
	api uploaderAPI,
	cfg config.CloudinaryConfig,
	upload config.UploadConfig,
	rec metrics.Recorder,
	logger *slog.Logger,
) *Service {
	if rec == nil {
		rec = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Service{
		api:          api,
		folder:       cfg.Folder,
		timeout:      timeout,
		maxBytes:     upload.MaxBytes,
		allowedTypes: upload.AllowedTypes,
		metrics:      rec,
		logger:       logger,
	}
}

// Upload stores the file and returns its public URL and id. Content type is
// sniffed from the bytes; the client-supplied name is only logged.
func (s *Service) Upload(
	ctx context.Context,
	r io.Reader,
	filename string,
) (*Asset, error) {
	ctx, span := core.StartSpan(ctx, "media.Upload", attribute.String("filename", filename))
	defer span.End()

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, core.BadRequestError("file is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return nil, core.BadRequestError(fmt.Sprintf("file exceeds %d bytes", s.maxBytes))
	}

	mtype := mimetype.Detect(data)
	if !s.allowed(mtype) {
		return nil, core.BadRequestError(fmt.Sprintf("file type %s is not allowed", mtype.String()))
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.api.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       s.folder,
		ResourceType: resourceImage,
	})
	if err != nil {
		return nil, s.fail(ctx, "upload", err)
	}
	if res.Error.Message != "" {
		return nil, s.fail(ctx, "upload", errors.New(res.Error.Message))
	}

	s.logger.InfoContext(ctx, "media uploaded",
		"public_id", res.PublicID,
		"content_type", mtype.String(),
		"bytes", len(data),
		"filename", filename,
	)

	return &Asset{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

func (s *Service) Delete(ctx context.Context, publicID string) error {
	ctx, span := core.StartSpan(ctx, "media.Delete", attribute.String("public_id", publicID))
	defer span.End()

	if publicID == "" {
		return core.BadRequestError("public id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.api.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceImage,
	})
	if err != nil {
		return s.fail(ctx, "destroy", err)
	}
	if res.Error.Message != "" {
		return s.fail(ctx, "destroy", errors.New(res.Error.Message))
	}

	switch res.Result {
	case "ok":
		return nil
	case "not found":
		return fmt.Errorf("destroy %s: %w", publicID, core.ErrNotFound)
	default:
		return s.fail(ctx, "destroy", fmt.Errorf("unexpected result %q", res.Result))
	}
}

// Discard removes a product image without failing the caller. The public id
// is derived from the URL when it was not recorded. Failures are logged and
// counted.
func (s *Service) Discard(ctx context.Context, publicID, url string) {
	if publicID == "" {
		var ok bool
		if publicID, ok = PublicIDFromURL(url); !ok {
			if url != "" {
				s.metrics.RecordMediaCleanupFailure("unparseable_url")
				s.logger.WarnContext(ctx, "cannot derive public id from image url", "url", url)
			}
			return
		}
	}

	if err := s.Delete(ctx, publicID); err != nil {
		reason := "vendor_error"
		if errors.Is(err, core.ErrNotFound) {
			reason = "not_found"
		}
		s.metrics.RecordMediaCleanupFailure(reason)
		s.logger.WarnContext(ctx, "best-effort image delete failed",
			"public_id", publicID,
			"error", err,
		)
	}
}

func (s *Service) allowed(mtype *mimetype.MIME) bool {
	if !strings.HasPrefix(mtype.String(), "image/") {
		return false
	}
	if len(s.allowedTypes) == 0 {
		return true
	}
	for _, t := range s.allowedTypes {
		if mtype.Is(t) {
			return true
		}
	}
	return false
}

func (s *Service) fail(ctx context.Context, op string, err error) error {
	s.metrics.RecordVendorFailure(vendorName, op)
	core.SetSpanError(ctx, err)
	s.logger.ErrorContext(ctx, "media store call failed",
		"operation", op,
		"error", err,
	)
	return fmt.Errorf("%s: %w", op, core.ErrUpstream)
}
