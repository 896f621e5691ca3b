package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/validation"
)

type LoginUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewLoginUseCase(repo user.Repository, jwtSvc *auth.JWTService, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		userRepo: repo,
		jwtSvc:   jwtSvc,
		logger:   log,
	}
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginOutput struct {
	UserID      uuid.UUID
	AccessToken string
}

var tracer = otel.Tracer("auth_usecase")

// Execute never tells the caller whether the email or the password was wrong. The log does.
func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	input.Email = user.NormalizeEmail(input.Email)
	if err := validation.Check(input); err != nil {
		return nil, err
	}

	u, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if errors.Is(err, user.ErrUserNotFound) {
		uc.logger.Info("Login rejected: unknown email", zap.String("email", input.Email))
		err := apperror.NewUnauthorized("unknown email", nil)
		span.RecordError(err)
		return nil, err
	}
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to look up user by email", err)
	}

	if !auth.CheckPasswordHash(input.Password, u.PasswordHash) {
		uc.logger.Info("Login rejected: incorrect password", zap.String("user_id", u.ID.String()))
		err := apperror.NewUnauthorized("incorrect password", nil)
		span.RecordError(err)
		return nil, err
	}

	token, err := uc.jwtSvc.GenerateToken(u.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", u.ID.String()))
		err = apperror.NewInternal("failed to generate token", err)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("user_id", u.ID.String()))
	return &LoginOutput{UserID: u.ID, AccessToken: token}, nil
}
