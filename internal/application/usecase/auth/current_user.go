package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
)

// CurrentUserUseCase loads the authenticated caller. The password hash never leaves the
// domain type's JSON form.
type CurrentUserUseCase struct {
	userRepo user.Repository
}

func NewCurrentUserUseCase(repo user.Repository) *CurrentUserUseCase {
	return &CurrentUserUseCase{userRepo: repo}
}

func (uc *CurrentUserUseCase) Execute(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	ctx, span := tracer.Start(ctx, "CurrentUser")
	defer span.End()

	u, err := uc.userRepo.FindByID(ctx, userID)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, apperror.NewNotFound("User", userID.String())
	}
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to load user", err)
	}
	return u, nil
}
