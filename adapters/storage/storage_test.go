package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/logger"
)

func TestOpen_Memory(t *testing.T) {
	var cfg config.Config
	cfg.DB.Driver = config.DriverMemory

	repos, err := Open(cfg, logger.NewNop())
	require.NoError(t, err)
	defer repos.Close()

	u := &user.User{ID: uuid.New(), Name: "Ann", Email: "ann@x.com"}
	require.NoError(t, repos.Users.Create(context.Background(), u))
	_, err = repos.Users.FindByID(context.Background(), u.ID)
	assert.NoError(t, err)
}

func TestOpen_UnknownDriver(t *testing.T) {
	var cfg config.Config
	cfg.DB.Driver = "sqlite"

	_, err := Open(cfg, logger.NewNop())
	assert.Error(t, err)
}

func TestClose_ZeroValue(t *testing.T) {
	var r *Repositories
	assert.NotPanics(t, r.Close)
	assert.NotPanics(t, (&Repositories{}).Close)
}
