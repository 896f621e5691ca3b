package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/validation"
)

type RegisterUseCase struct {
	userRepo  user.Repository
	jwtSvc    *auth.JWTService
	avatars   service.AvatarResolver
	publisher service.EventPublisher
	logger    logger.Logger
}

func NewRegisterUseCase(repo user.Repository, jwtSvc *auth.JWTService, avatars service.AvatarResolver, publisher service.EventPublisher, log logger.Logger) *RegisterUseCase {
	return &RegisterUseCase{
		userRepo:  repo,
		jwtSvc:    jwtSvc,
		avatars:   avatars,
		publisher: publisher,
		logger:    log,
	}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,min=3,max=40"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=7"`
}

type RegisterOutput struct {
	UserID uuid.UUID
	Token  string
}

var msgPasswordTooLong = fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordBytes)

func emailConflict(email string) error {
	return apperror.NewConflict(fmt.Sprintf("User with email %s already exists", email), "duplicate email")
}

func (uc *RegisterUseCase) Execute(ctx context.Context, input RegisterInput) (*RegisterOutput, error) {
	ctx, span := tracer.Start(ctx, "Register")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	input.Email = user.NormalizeEmail(input.Email)
	var extra []string
	if len(input.Password) > auth.MaxPasswordBytes {
		extra = append(extra, msgPasswordTooLong)
	}
	if err := validation.Check(input, extra...); err != nil {
		return nil, err
	}

	existing, err := uc.userRepo.FindByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, emailConflict(input.Email)
	}
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to look up user by email", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperror.NewValidation([]string{msgPasswordTooLong})
	}
	if err != nil {
		return nil, apperror.NewInternal("failed to hash password", err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Avatar:       uc.avatars.AvatarURL(input.Email),
		Date:         time.Now().UTC(),
	}

	if err := uc.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return nil, emailConflict(input.Email)
		}
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to create user", err)
	}

	token, err := uc.jwtSvc.GenerateToken(u.ID)
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.String("user_id", u.ID.String()))
		return nil, apperror.NewInternal("failed to generate token", err)
	}
	span.SetAttributes(attribute.String("user_id", u.ID.String()))

	go func() {
		err := uc.publisher.PublishUserEvent(context.Background(), service.UserEventPayload{
			EventType:  service.UserEventTypeRegistered,
			UserID:     u.ID,
			OccurredAt: u.Date,
		})
		if err != nil {
			uc.logger.Error("Failed to publish Kafka 'registered' event", err, zap.String("user_id", u.ID.String()))
		}
	}()

	return &RegisterOutput{UserID: u.ID, Token: token}, nil
}
