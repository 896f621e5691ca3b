package profile

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/devconnector/adapters/event"
	"github.com/khoahotran/devconnector/adapters/memory"
	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type ProfileUseCaseTestSuite struct {
	suite.Suite
	ctx      context.Context
	users    *memory.UserRepo
	profiles *memory.ProfileRepo
	cache    *memory.Cache
	uc       *ProfileUseCase
	ann      *user.User
}

func TestProfileUseCaseSuite(t *testing.T) {
	suite.Run(t, new(ProfileUseCaseTestSuite))
}

func (s *ProfileUseCaseTestSuite) SetupTest() {
	log := logger.NewNop()
	s.ctx = context.Background()
	s.users = memory.NewUserRepo()
	s.profiles = memory.NewProfileRepo()
	s.cache = memory.NewCache()
	s.uc = NewProfileUseCase(s.profiles, s.users, s.cache, event.NewNopPublisher(log), log)

	s.ann = &user.User{ID: uuid.New(), Name: "Ann", Email: "ann@x.com", Avatar: "//ann", Date: time.Now()}
	s.Require().NoError(s.users.Create(s.ctx, s.ann))
}

func (s *ProfileUseCaseTestSuite) upsertInput() UpsertProfileInput {
	return UpsertProfileInput{
		OwnerID: s.ann.ID,
		Handle:  "ann",
		Status:  "Developer",
		Skills:  "go, sql ,docker",
		Twitter: "https://twitter.com/ann",
	}
}

func (s *ProfileUseCaseTestSuite) mustUpsert() *ProfileView {
	v, err := s.uc.UpsertProfile(s.ctx, s.upsertInput())
	s.Require().NoError(err)
	return v
}

func (s *ProfileUseCaseTestSuite) TestUpsert_CreatesJoinedProfile() {
	v := s.mustUpsert()

	s.Equal([]string{"go", "sql", "docker"}, v.Skills)
	s.Equal(user.Summary{ID: s.ann.ID, Name: "Ann", Avatar: "//ann"}, v.User)
	s.NotNil(v.Experience)
	s.NotNil(v.Education)
}

func (s *ProfileUseCaseTestSuite) TestUpsert_IsIdempotent() {
	s.mustUpsert()
	first, err := s.profiles.FindByOwner(s.ctx, s.ann.ID)
	s.Require().NoError(err)
	firstJSON, _ := json.Marshal(first)

	s.mustUpsert()
	second, err := s.profiles.FindByOwner(s.ctx, s.ann.ID)
	s.Require().NoError(err)
	secondJSON, _ := json.Marshal(second)

	s.Equal(string(firstJSON), string(secondJSON))
}

func (s *ProfileUseCaseTestSuite) TestUpsert_KeepsSubCollections() {
	s.mustUpsert()
	_, err := s.uc.AddExperience(s.ctx, s.ann.ID, ExperienceInput{Title: "Dev", Company: "Acme", From: "2019-01-01"})
	s.Require().NoError(err)

	in := s.upsertInput()
	in.Status = "Lead"
	v, err := s.uc.UpsertProfile(s.ctx, in)
	s.Require().NoError(err)

	s.Equal("Lead", v.Status)
	s.Len(v.Experience, 1)
}

func (s *ProfileUseCaseTestSuite) TestUpsert_Validation() {
	_, err := s.uc.UpsertProfile(s.ctx, UpsertProfileInput{OwnerID: s.ann.ID, Website: "nope"})

	s.True(errors.Is(err, apperror.ErrInvalidInput))
	s.ElementsMatch([]string{"website must be a valid URL", "status is required", "skills is required"}, apperror.PublicMessages(err))
}

func (s *ProfileUseCaseTestSuite) TestGetOwnProfile_Missing() {
	_, err := s.uc.GetOwnProfile(s.ctx, s.ann.ID)
	s.True(errors.Is(err, apperror.ErrNotFound))
	s.Equal([]string{"There is no profile for this user"}, apperror.PublicMessages(err))
}

func (s *ProfileUseCaseTestSuite) TestGetProfileByUser() {
	s.mustUpsert()

	v, err := s.uc.GetProfileByUser(s.ctx, s.ann.ID)
	s.Require().NoError(err)
	s.Equal("ann", v.Handle)

	_, err = s.uc.GetProfileByUser(s.ctx, uuid.New())
	s.True(errors.Is(err, apperror.ErrNotFound))
}

func (s *ProfileUseCaseTestSuite) TestAddExperience_Prepends() {
	s.mustUpsert()

	_, err := s.uc.AddExperience(s.ctx, s.ann.ID, ExperienceInput{Title: "E1", Company: "A", From: "2018-01-01", To: "2019-01-01"})
	s.Require().NoError(err)
	v, err := s.uc.AddExperience(s.ctx, s.ann.ID, ExperienceInput{Title: "E2", Company: "B", From: "2019-02-01", Current: true})
	s.Require().NoError(err)

	s.Require().Len(v.Experience, 2)
	s.Equal("E2", v.Experience[0].Title)
	s.Nil(v.Experience[0].To)
	s.Equal("E1", v.Experience[1].Title)
	s.NotEqual(v.ID, v.Experience[0].ID)
}

func (s *ProfileUseCaseTestSuite) TestAddExperience_NoProfile() {
	_, err := s.uc.AddExperience(s.ctx, s.ann.ID, ExperienceInput{Title: "E1", Company: "A", From: "2018-01-01"})
	s.True(errors.Is(err, apperror.ErrNotFound))
}

func (s *ProfileUseCaseTestSuite) TestAddExperience_Validation() {
	s.mustUpsert()

	_, err := s.uc.AddExperience(s.ctx, s.ann.ID, ExperienceInput{From: "2020-01-01", To: "2019-01-01"})

	s.True(errors.Is(err, apperror.ErrInvalidInput))
	s.Equal([]string{"title is required", "company is required", "to must not be before from"}, apperror.PublicMessages(err))
}

func (s *ProfileUseCaseTestSuite) TestRemoveExperience_TwiceIsNotFound() {
	s.mustUpsert()
	v, err := s.uc.AddExperience(s.ctx, s.ann.ID, ExperienceInput{Title: "E1", Company: "A", From: "2018-01-01"})
	s.Require().NoError(err)
	id := v.Experience[0].ID

	v, err = s.uc.RemoveExperience(s.ctx, s.ann.ID, id)
	s.Require().NoError(err)
	s.Empty(v.Experience)

	_, err = s.uc.RemoveExperience(s.ctx, s.ann.ID, id)
	s.True(errors.Is(err, apperror.ErrNotFound))
}

func (s *ProfileUseCaseTestSuite) TestRemoveExperience_OtherUsersEntryIsNotFound() {
	s.mustUpsert()
	v, err := s.uc.AddExperience(s.ctx, s.ann.ID, ExperienceInput{Title: "E1", Company: "A", From: "2018-01-01"})
	s.Require().NoError(err)

	bob := &user.User{ID: uuid.New(), Name: "Bob", Email: "bob@x.com"}
	s.Require().NoError(s.users.Create(s.ctx, bob))
	_, err = s.uc.UpsertProfile(s.ctx, UpsertProfileInput{OwnerID: bob.ID, Status: "Dev", Skills: "go"})
	s.Require().NoError(err)

	_, err = s.uc.RemoveExperience(s.ctx, bob.ID, v.Experience[0].ID)
	s.True(errors.Is(err, apperror.ErrNotFound))

	own, err := s.uc.GetOwnProfile(s.ctx, s.ann.ID)
	s.Require().NoError(err)
	s.Len(own.Experience, 1)
}

func (s *ProfileUseCaseTestSuite) TestEducation_AddRemove() {
	s.mustUpsert()

	v, err := s.uc.AddEducation(s.ctx, s.ann.ID, EducationInput{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2010-09-01", To: "2014-06-01"})
	s.Require().NoError(err)
	s.Require().Len(v.Education, 1)

	v, err = s.uc.RemoveEducation(s.ctx, s.ann.ID, v.Education[0].ID)
	s.Require().NoError(err)
	s.Empty(v.Education)

	_, err = s.uc.AddEducation(s.ctx, s.ann.ID, EducationInput{School: "MIT", From: "someday"})
	s.True(errors.Is(err, apperror.ErrInvalidInput))
	s.Equal([]string{"degree is required", "fieldofstudy is required", "from must be a valid date"}, apperror.PublicMessages(err))
}

func (s *ProfileUseCaseTestSuite) TestListProfiles_CachedAndInvalidated() {
	s.mustUpsert()

	list, err := s.uc.ListProfiles(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal("Ann", list[0].User.Name)

	raw, _ := s.cache.Get(s.ctx, service.CacheKeyProfiles)
	s.NotNil(raw)

	_, err = s.uc.AddExperience(s.ctx, s.ann.ID, ExperienceInput{Title: "E1", Company: "A", From: "2018-01-01"})
	s.Require().NoError(err)
	raw, _ = s.cache.Get(s.ctx, service.CacheKeyProfiles)
	s.Nil(raw)

	list, err = s.uc.ListProfiles(s.ctx)
	s.Require().NoError(err)
	s.Len(list[0].Experience, 1)
}

func (s *ProfileUseCaseTestSuite) TestDeleteOwnProfileAndUser() {
	s.mustUpsert()

	s.Require().NoError(s.uc.DeleteOwnProfileAndUser(s.ctx, s.ann.ID))

	_, err := s.profiles.FindByOwner(s.ctx, s.ann.ID)
	s.Error(err)
	_, err = s.users.FindByID(s.ctx, s.ann.ID)
	s.True(errors.Is(err, user.ErrUserNotFound))
}
