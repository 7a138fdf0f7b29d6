package media_storage

import (
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"go.uber.org/zap"

	"github.com/khoahotran/folio/internal/application/service"
	"github.com/khoahotran/folio/internal/config"
	"github.com/khoahotran/folio/pkg/logger"
)

var transformations = map[service.ImageKind]string{
	service.ImageAvatar:  "c_fill,g_auto,w_400,h_400",
	service.ImageBanner:  "c_fill,g_auto,w_1500,h_500",
	service.ImageProject: "c_limit,w_800",
}

type cloudinaryResolver struct {
	cld    *cloudinary.Cloudinary
	logger logger.Logger
}

// NewImageResolver builds delivery URLs through Cloudinary. Without a cloud
// name every reference is returned unchanged.
func NewImageResolver(cfg config.Config, log logger.Logger) (service.ImageResolver, error) {
	if cfg.Cloudinary.CloudName == "" {
		log.Warn("Cloudinary cloud_name not configured, image references pass through")
		return passthroughResolver{}, nil
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true

	log.Info("Cloudinary image resolver ready.", zap.String("cloud_name", cfg.Cloudinary.CloudName))
	return &cloudinaryResolver{cld: cld, logger: log}, nil
}

func (r *cloudinaryResolver) URL(ref string, kind service.ImageKind) string {
	if ref == "" || isAbsoluteURL(ref) {
		return ref
	}

	img, err := r.cld.Image(ref)
	if err != nil {
		r.logger.Warn("Invalid Cloudinary public id", zap.String("ref", ref), zap.Error(err))
		return ""
	}
	img.Transformation = transformations[kind]

	url, err := img.String()
	if err != nil {
		r.logger.Warn("Build Cloudinary URL failed", zap.String("ref", ref), zap.Error(err))
		return ""
	}
	return url
}

type passthroughResolver struct{}

func (passthroughResolver) URL(ref string, _ service.ImageKind) string {
	return ref
}

func isAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "//")
}
