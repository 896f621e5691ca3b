package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/devconnector/adapters/media_storage"
	"github.com/khoahotran/devconnector/adapters/memory"
	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type recordingPublisher struct {
	mu         sync.Mutex
	userEvents []service.UserEventPayload
}

func (p *recordingPublisher) PublishPostEvent(context.Context, service.PostEventPayload) error {
	return nil
}

func (p *recordingPublisher) PublishUserEvent(_ context.Context, e service.UserEventPayload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.userEvents = append(p.userEvents, e)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.userEvents)
}

type AuthUseCaseTestSuite struct {
	suite.Suite
	users     *memory.UserRepo
	jwtSvc    *auth.JWTService
	publisher *recordingPublisher
	register  *RegisterUseCase
	login     *LoginUseCase
	current   *CurrentUserUseCase
}

func (s *AuthUseCaseTestSuite) SetupTest() {
	log := logger.NewNop()
	s.users = memory.NewUserRepo()
	s.jwtSvc = auth.NewJWTService("test-secret", time.Hour)
	s.publisher = &recordingPublisher{}
	s.register = NewRegisterUseCase(s.users, s.jwtSvc, media_storage.NewGravatarResolver(), s.publisher, log)
	s.login = NewLoginUseCase(s.users, s.jwtSvc, log)
	s.current = NewCurrentUserUseCase(s.users)
}

func TestAuthUseCaseSuite(t *testing.T) {
	suite.Run(t, new(AuthUseCaseTestSuite))
}

func (s *AuthUseCaseTestSuite) registerAnn() *RegisterOutput {
	out, err := s.register.Execute(context.Background(), RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	s.Require().NoError(err)
	return out
}

func (s *AuthUseCaseTestSuite) TestRegister_TokenResolvesToStoredUser() {
	out := s.registerAnn()

	id, err := s.jwtSvc.ResolveIdentity(out.Token)
	s.Require().NoError(err)
	s.Equal(out.UserID, id)

	u, err := s.current.Execute(context.Background(), id)
	s.Require().NoError(err)
	s.Equal("Ann", u.Name)
	s.Equal("ann@x.com", u.Email)
	s.Equal(media_storage.GravatarURL("ann@x.com"), u.Avatar)
	s.NotEqual("secret1", u.PasswordHash)

	s.Eventually(func() bool { return s.publisher.count() == 1 }, time.Second, 10*time.Millisecond)
}

func (s *AuthUseCaseTestSuite) TestRegister_DuplicateEmailIsConflict() {
	s.registerAnn()

	_, err := s.register.Execute(context.Background(), RegisterInput{Name: "Ann Two", Email: "ANN@x.com", Password: "secret2"})
	s.True(errors.Is(err, apperror.ErrConflict))
	s.Equal([]string{"User with email ann@x.com already exists"}, apperror.PublicMessages(err))
}

func (s *AuthUseCaseTestSuite) TestRegister_ReportsEveryViolation() {
	_, err := s.register.Execute(context.Background(), RegisterInput{Name: "A", Email: "bad", Password: "123"})

	s.True(errors.Is(err, apperror.ErrInvalidInput))
	s.Len(apperror.PublicMessages(err), 3)
}

func (s *AuthUseCaseTestSuite) TestRegister_PasswordOverBcryptLimitIsValidation() {
	_, err := s.register.Execute(context.Background(), RegisterInput{Name: "Ann", Email: "ann@x.com", Password: strings.Repeat("p", 80)})

	s.True(errors.Is(err, apperror.ErrInvalidInput))
	s.Equal([]string{"password must be at most 72 bytes"}, apperror.PublicMessages(err))
	_, lookupErr := s.users.FindByEmail(context.Background(), "ann@x.com")
	s.Error(lookupErr)
}

func (s *AuthUseCaseTestSuite) TestRegister_PasswordAtBcryptLimit() {
	_, err := s.register.Execute(context.Background(), RegisterInput{Name: "Ann", Email: "ann@x.com", Password: strings.Repeat("p", 72)})
	s.Require().NoError(err)

	_, err = s.login.Execute(context.Background(), LoginInput{Email: "ann@x.com", Password: strings.Repeat("p", 72)})
	s.NoError(err)
}

func (s *AuthUseCaseTestSuite) TestRegister_LongPasswordJoinsOtherViolations() {
	_, err := s.register.Execute(context.Background(), RegisterInput{Name: "A", Email: "ann@x.com", Password: strings.Repeat("p", 80)})

	s.True(errors.Is(err, apperror.ErrInvalidInput))
	s.Len(apperror.PublicMessages(err), 2)
	s.Contains(apperror.PublicMessages(err), "password must be at most 72 bytes")
}

func (s *AuthUseCaseTestSuite) TestLogin_IssuesFreshTokenForSameUser() {
	reg := s.registerAnn()

	out, err := s.login.Execute(context.Background(), LoginInput{Email: "ann@x.com", Password: "secret1"})
	s.Require().NoError(err)
	s.NotEqual(reg.Token, out.AccessToken)

	id, err := s.jwtSvc.ResolveIdentity(out.AccessToken)
	s.Require().NoError(err)
	s.Equal(reg.UserID, id)
}

func (s *AuthUseCaseTestSuite) TestLogin_GenericFailure() {
	s.registerAnn()

	_, wrongPass := s.login.Execute(context.Background(), LoginInput{Email: "ann@x.com", Password: "nope"})
	_, unknown := s.login.Execute(context.Background(), LoginInput{Email: "who@x.com", Password: "secret1"})

	for _, err := range []error{wrongPass, unknown} {
		s.True(errors.Is(err, apperror.ErrUnauthorized))
		s.Equal([]string{"Invalid credentials"}, apperror.PublicMessages(err))
	}
}

func (s *AuthUseCaseTestSuite) TestLogin_Validation() {
	_, err := s.login.Execute(context.Background(), LoginInput{Email: "bad"})
	s.True(errors.Is(err, apperror.ErrInvalidInput))
	s.Len(apperror.PublicMessages(err), 2)
}

func (s *AuthUseCaseTestSuite) TestCurrentUser_Missing() {
	_, err := s.current.Execute(context.Background(), uuid.New())
	s.True(errors.Is(err, apperror.ErrNotFound))
}

func TestRegister_ConcurrentDuplicatesYieldOneUser(t *testing.T) {
	users := memory.NewUserRepo()
	uc := NewRegisterUseCase(users, auth.NewJWTService("s", time.Hour), media_storage.NewGravatarResolver(), &recordingPublisher{}, logger.NewNop())

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), RegisterInput{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if errors.Is(err, apperror.ErrConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)

	_, err := users.FindByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
}
