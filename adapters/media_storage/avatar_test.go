package media_storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
)

func TestGravatarURL(t *testing.T) {
	got := GravatarURL("  Ann@X.com ")
	assert.True(t, strings.HasPrefix(got, gravatarBase))
	assert.Contains(t, got, "s=200")
	assert.Contains(t, got, "r=pg")
	assert.Contains(t, got, "d=mm")
	assert.Equal(t, GravatarURL("ann@x.com"), got)
	assert.NotEqual(t, GravatarURL("bob@x.com"), got)
}

func TestNewAvatarResolver_FallsBackToGravatar(t *testing.T) {
	r := NewAvatarResolver(config.Config{}, logger.NewNop())
	assert.Equal(t, GravatarURL("ann@x.com"), r.AvatarURL("ann@x.com"))
}

func TestCloudinaryAdapter_WrapsGravatarInFetchURL(t *testing.T) {
	var cfg config.Config
	cfg.Cloudinary.CloudName = "demo"
	cfg.Cloudinary.ApiKey = "key"
	cfg.Cloudinary.ApiSecret = "secret"

	r, err := NewCloudinaryAdapter(cfg, logger.NewNop())
	require.NoError(t, err)

	got := r.AvatarURL("ann@x.com")
	assert.Contains(t, got, "res.cloudinary.com/demo/image/fetch/")
	assert.Contains(t, got, avatarTransform)
	assert.Equal(t, got, r.AvatarURL("ANN@x.com"))
}
