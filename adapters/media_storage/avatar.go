package media_storage

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const (
	gravatarBase    = "https://www.gravatar.com/avatar/"
	avatarTransform = "c_fill,w_200,h_200"
)

// GravatarURL is the size 200, pg rated, mystery-man fallback gravatar for email.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(user.NormalizeEmail(email)))
	q := url.Values{}
	q.Set("s", "200")
	q.Set("r", "pg")
	q.Set("d", "mm")
	return gravatarBase + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}

type gravatarResolver struct{}

func (gravatarResolver) AvatarURL(email string) string { return GravatarURL(email) }

// NewGravatarResolver returns the resolver used when no image CDN is configured.
func NewGravatarResolver() service.AvatarResolver { return gravatarResolver{} }

type cloudinaryAdapter struct {
	cld    *cloudinary.Cloudinary
	logger logger.Logger
}

// NewCloudinaryAdapter proxies gravatar images through Cloudinary fetch delivery.
func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.AvatarResolver, error) {
	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
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

	log.Info("connect Cloudinary successfully.")
	return &cloudinaryAdapter{cld: cld, logger: log}, nil
}

// NewAvatarResolver picks Cloudinary when it is configured and plain gravatar otherwise.
func NewAvatarResolver(cfg config.Config, log logger.Logger) service.AvatarResolver {
	if cfg.Cloudinary.CloudName == "" {
		return NewGravatarResolver()
	}
	r, err := NewCloudinaryAdapter(cfg, log)
	if err != nil {
		log.Warn("Cloudinary unavailable, falling back to gravatar", zap.Error(err))
		return NewGravatarResolver()
	}
	return r
}

func (a *cloudinaryAdapter) AvatarURL(email string) string {
	source := GravatarURL(email)

	img, err := a.cld.Image(source)
	if err != nil {
		a.logger.Warn("Build cloudinary image failed", zap.Error(err))
		return source
	}
	img.DeliveryType = api.Fetch
	img.Transformation = avatarTransform

	delivered, err := img.String()
	if err != nil {
		a.logger.Warn("Build cloudinary fetch url failed", zap.Error(err))
		return source
	}
	return delivered
}
