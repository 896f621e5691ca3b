package profile

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/validation"
)

var tracer = otel.Tracer("profile_usecase")

// ProfileView is a profile joined with its owner's public fields.
type ProfileView struct {
	*profile.Profile
	User user.Summary `json:"user"`
}

type ProfileUseCase struct {
	profileRepo profile.Repository
	userRepo    user.Repository
	cache       service.Cache
	publisher   service.EventPublisher
	logger      logger.Logger
}

func NewProfileUseCase(pRepo profile.Repository, uRepo user.Repository, cache service.Cache, publisher service.EventPublisher, log logger.Logger) *ProfileUseCase {
	return &ProfileUseCase{
		profileRepo: pRepo,
		userRepo:    uRepo,
		cache:       cache,
		publisher:   publisher,
		logger:      log,
	}
}

type UpsertProfileInput struct {
	OwnerID        uuid.UUID `json:"-"`
	Handle         string    `json:"handle"`
	Company        string    `json:"company"`
	Website        string    `json:"website" validate:"omitempty,url"`
	Location       string    `json:"location"`
	Bio            string    `json:"bio"`
	Status         string    `json:"status" validate:"required"`
	GithubUsername string    `json:"githubusername"`
	Skills         string    `json:"skills" validate:"required"`
	YouTube        string    `json:"youtube" validate:"omitempty,url"`
	Twitter        string    `json:"twitter" validate:"omitempty,url"`
	Facebook       string    `json:"facebook" validate:"omitempty,url"`
	LinkedIn       string    `json:"linkedin" validate:"omitempty,url"`
	Instagram      string    `json:"instagram" validate:"omitempty,url"`
}

func (in UpsertProfileInput) fields() profile.Fields {
	return profile.Fields{
		Handle:         strings.TrimSpace(in.Handle),
		Company:        strings.TrimSpace(in.Company),
		Website:        strings.TrimSpace(in.Website),
		Location:       strings.TrimSpace(in.Location),
		Bio:            in.Bio,
		Status:         strings.TrimSpace(in.Status),
		GithubUsername: strings.TrimSpace(in.GithubUsername),
		Skills:         profile.ParseSkills(in.Skills),
		Social: profile.Social{
			YouTube:   strings.TrimSpace(in.YouTube),
			Twitter:   strings.TrimSpace(in.Twitter),
			Facebook:  strings.TrimSpace(in.Facebook),
			LinkedIn:  strings.TrimSpace(in.LinkedIn),
			Instagram: strings.TrimSpace(in.Instagram),
		},
	}
}

// UpsertProfile creates the caller's profile or replaces its scalar fields, skills and social
// links. Experience and education survive every upsert.
func (uc *ProfileUseCase) UpsertProfile(ctx context.Context, in UpsertProfileInput) (*ProfileView, error) {
	ctx, span := tracer.Start(ctx, "UpsertProfile")
	defer span.End()
	span.SetAttributes(attribute.String("owner_id", in.OwnerID.String()))

	var extra []string
	if strings.TrimSpace(in.Skills) != "" && len(profile.ParseSkills(in.Skills)) == 0 {
		extra = append(extra, "skills is required")
	}
	if err := validation.Check(in, extra...); err != nil {
		return nil, err
	}
	fields := in.fields()

	p, err := uc.upsert(ctx, in.OwnerID, fields)
	if errors.Is(err, profile.ErrProfileExists) {
		// A concurrent first upsert won; apply ours on top of it.
		p, err = uc.upsert(ctx, in.OwnerID, fields)
	}
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to save profile", err)
	}

	uc.invalidate(ctx)
	return uc.view(ctx, p)
}

func (uc *ProfileUseCase) upsert(ctx context.Context, ownerID uuid.UUID, fields profile.Fields) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByOwner(ctx, ownerID)
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		p = profile.New(ownerID, fields, time.Now().UTC())
	case err != nil:
		return nil, err
	default:
		p.ApplyFields(fields)
	}
	if err := uc.profileRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *ProfileUseCase) GetOwnProfile(ctx context.Context, ownerID uuid.UUID) (*ProfileView, error) {
	ctx, span := tracer.Start(ctx, "GetOwnProfile")
	defer span.End()

	p, err := uc.loadOwn(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return uc.view(ctx, p)
}

// GetProfileByUser is the public lookup by owner id.
func (uc *ProfileUseCase) GetProfileByUser(ctx context.Context, userID uuid.UUID) (*ProfileView, error) {
	ctx, span := tracer.Start(ctx, "GetProfileByUser")
	defer span.End()

	p, err := uc.profileRepo.FindByOwner(ctx, userID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		return nil, apperror.NewNotFound("Profile", userID.String())
	}
	if err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to load profile", err)
	}
	return uc.view(ctx, p)
}

// ListProfiles reads through the listing cache.
func (uc *ProfileUseCase) ListProfiles(ctx context.Context) ([]ProfileView, error) {
	ctx, span := tracer.Start(ctx, "ListProfiles")
	defer span.End()

	if raw, _ := uc.cache.Get(ctx, service.CacheKeyProfiles); raw != nil {
		var cached []ProfileView
		if err := json.Unmarshal(raw, &cached); err == nil {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return cached, nil
		}
		uc.logger.Warn("Dropping undecodable profile listing cache")
	}

	views, err := uc.LoadProfiles(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if raw, err := json.Marshal(views); err == nil {
		_ = uc.cache.Set(ctx, service.CacheKeyProfiles, raw)
	}
	return views, nil
}

// LoadProfiles always reads the store. The cache warmer uses it directly.
func (uc *ProfileUseCase) LoadProfiles(ctx context.Context) ([]ProfileView, error) {
	profiles, err := uc.profileRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternal("failed to list profiles", err)
	}

	ownerIDs := make([]uuid.UUID, len(profiles))
	for i, p := range profiles {
		ownerIDs[i] = p.OwnerID
	}
	owners, err := uc.userRepo.FindByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, apperror.NewInternal("failed to load profile owners", err)
	}

	views := make([]ProfileView, len(profiles))
	for i, p := range profiles {
		views[i] = ProfileView{Profile: p, User: summaryOf(owners[p.OwnerID], p.OwnerID)}
	}
	return views, nil
}

type ExperienceInput struct {
	Title       string `json:"title" validate:"required"`
	Company     string `json:"company" validate:"required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

func (uc *ProfileUseCase) AddExperience(ctx context.Context, ownerID uuid.UUID, in ExperienceInput) (*ProfileView, error) {
	ctx, span := tracer.Start(ctx, "AddExperience")
	defer span.End()

	from, to, dateErrs := parseRange(in.From, in.To, in.Current)
	if err := validation.Check(in, dateErrs...); err != nil {
		return nil, err
	}

	p, err := uc.loadOwn(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	p.AddExperience(profile.Experience{
		Title:       strings.TrimSpace(in.Title),
		Company:     strings.TrimSpace(in.Company),
		Location:    strings.TrimSpace(in.Location),
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	})
	return uc.persist(ctx, p)
}

// RemoveExperience only looks inside the caller's own profile, so entry ids of other users
// are indistinguishable from ids that never existed.
func (uc *ProfileUseCase) RemoveExperience(ctx context.Context, ownerID, entryID uuid.UUID) (*ProfileView, error) {
	ctx, span := tracer.Start(ctx, "RemoveExperience")
	defer span.End()

	p, err := uc.loadOwn(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := p.RemoveExperience(entryID); err != nil {
		return nil, apperror.NewNotFound("Experience", entryID.String())
	}
	return uc.persist(ctx, p)
}

type EducationInput struct {
	School       string `json:"school" validate:"required"`
	Degree       string `json:"degree" validate:"required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required"`
	From         string `json:"from" validate:"required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (uc *ProfileUseCase) AddEducation(ctx context.Context, ownerID uuid.UUID, in EducationInput) (*ProfileView, error) {
	ctx, span := tracer.Start(ctx, "AddEducation")
	defer span.End()

	from, to, dateErrs := parseRange(in.From, in.To, in.Current)
	if err := validation.Check(in, dateErrs...); err != nil {
		return nil, err
	}

	p, err := uc.loadOwn(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	p.AddEducation(profile.Education{
		School:       strings.TrimSpace(in.School),
		Degree:       strings.TrimSpace(in.Degree),
		FieldOfStudy: strings.TrimSpace(in.FieldOfStudy),
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	})
	return uc.persist(ctx, p)
}

func (uc *ProfileUseCase) RemoveEducation(ctx context.Context, ownerID, entryID uuid.UUID) (*ProfileView, error) {
	ctx, span := tracer.Start(ctx, "RemoveEducation")
	defer span.End()

	p, err := uc.loadOwn(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if err := p.RemoveEducation(entryID); err != nil {
		return nil, apperror.NewNotFound("Education", entryID.String())
	}
	return uc.persist(ctx, p)
}

// DeleteOwnProfileAndUser removes the profile, then the user. Posts written by the user are
// kept.
func (uc *ProfileUseCase) DeleteOwnProfileAndUser(ctx context.Context, ownerID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "DeleteOwnProfileAndUser")
	defer span.End()

	if err := uc.profileRepo.DeleteByOwner(ctx, ownerID); err != nil && !errors.Is(err, profile.ErrProfileNotFound) {
		span.RecordError(err)
		return apperror.NewInternal("failed to delete profile", err)
	}
	if err := uc.userRepo.Delete(ctx, ownerID); err != nil && !errors.Is(err, user.ErrUserNotFound) {
		span.RecordError(err)
		return apperror.NewInternal("failed to delete user", err)
	}

	uc.invalidate(ctx)

	go func() {
		err := uc.publisher.PublishUserEvent(context.Background(), service.UserEventPayload{
			EventType:  service.UserEventTypeDeleted,
			UserID:     ownerID,
			OccurredAt: time.Now().UTC(),
		})
		if err != nil {
			uc.logger.Error("Failed to publish Kafka 'deleted' event", err, zap.String("user_id", ownerID.String()))
		}
	}()
	return nil
}

func (uc *ProfileUseCase) loadOwn(ctx context.Context, ownerID uuid.UUID) (*profile.Profile, error) {
	p, err := uc.profileRepo.FindByOwner(ctx, ownerID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		return nil, apperror.NewAppError(apperror.ErrNotFound, "There is no profile for this user", ownerID.String(), nil)
	}
	if err != nil {
		return nil, apperror.NewInternal("failed to load profile", err)
	}
	return p, nil
}

func (uc *ProfileUseCase) persist(ctx context.Context, p *profile.Profile) (*ProfileView, error) {
	if err := uc.profileRepo.Save(ctx, p); err != nil {
		return nil, apperror.NewInternal("failed to save profile", err)
	}
	uc.invalidate(ctx)
	return uc.view(ctx, p)
}

func (uc *ProfileUseCase) invalidate(ctx context.Context) {
	if err := uc.cache.Delete(ctx, service.CacheKeyProfiles); err != nil {
		uc.logger.Warn("Failed to invalidate profile listing", zap.Error(err))
	}
}

func (uc *ProfileUseCase) view(ctx context.Context, p *profile.Profile) (*ProfileView, error) {
	owner, err := uc.userRepo.FindByID(ctx, p.OwnerID)
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, apperror.NewInternal("failed to load profile owner", err)
	}
	return &ProfileView{Profile: p, User: summaryOf(owner, p.OwnerID)}, nil
}

func summaryOf(u *user.User, ownerID uuid.UUID) user.Summary {
	if u == nil {
		return user.Summary{ID: ownerID}
	}
	return u.Summary()
}

func parseRange(fromRaw, toRaw string, current bool) (time.Time, *time.Time, []string) {
	var msgs []string

	from, ok := validation.ParseDate(fromRaw)
	if strings.TrimSpace(fromRaw) != "" && !ok {
		msgs = append(msgs, "from must be a valid date")
	}

	if current || strings.TrimSpace(toRaw) == "" {
		return from, nil, msgs
	}
	to, ok := validation.ParseDate(toRaw)
	if !ok {
		return from, nil, append(msgs, "to must be a valid date")
	}
	if !from.IsZero() && to.Before(from) {
		msgs = append(msgs, "to must not be before from")
	}
	return from, &to, msgs
}
