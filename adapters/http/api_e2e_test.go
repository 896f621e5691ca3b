package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/devconnector/adapters/event"
	"github.com/khoahotran/devconnector/adapters/media_storage"
	"github.com/khoahotran/devconnector/adapters/memory"
	authUC "github.com/khoahotran/devconnector/internal/application/usecase/auth"
	postUC "github.com/khoahotran/devconnector/internal/application/usecase/post"
	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const testHeader = "x-auth-token"

type APIE2ETestSuite struct {
	suite.Suite
	Router *gin.Engine
	jwtSvc *auth.JWTService
}

func TestAPIE2E(t *testing.T) {
	suite.Run(t, new(APIE2ETestSuite))
}

func (s *APIE2ETestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()

	users := memory.NewUserRepo()
	profiles := memory.NewProfileRepo()
	posts := memory.NewPostRepo()
	cache := memory.NewCache()
	publisher := event.NewNopPublisher(log)
	s.jwtSvc = auth.NewJWTService("e2e-secret", time.Hour)

	profileUseCase := profileUC.NewProfileUseCase(profiles, users, cache, publisher, log)
	handlers := Handlers{
		Auth: NewAuthHandler(
			authUC.NewRegisterUseCase(users, s.jwtSvc, media_storage.NewGravatarResolver(), publisher, log),
			authUC.NewLoginUseCase(users, s.jwtSvc, log),
			authUC.NewCurrentUserUseCase(users),
		),
		Profile: NewProfileHandler(profileUseCase),
		Post: NewPostHandler(
			postUC.NewCreatePostUseCase(posts, users, cache, publisher, log),
			postUC.NewListPostsUseCase(posts, cache, log),
			postUC.NewGetPostUseCase(posts),
			postUC.NewDeletePostUseCase(posts, cache, publisher, log),
			postUC.NewLikePostUseCase(posts, cache, publisher, log),
			postUC.NewUnlikePostUseCase(posts, cache, publisher, log),
			postUC.NewAddCommentUseCase(posts, users, cache, publisher, log),
			postUC.NewRemoveCommentUseCase(posts, cache, publisher, log),
		),
	}
	s.Router = NewRouter(handlers, s.jwtSvc, RouterConfig{AuthHeader: testHeader}, log)
}

func (s *APIE2ETestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(testHeader, token)
	}
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func (s *APIE2ETestSuite) decode(rr *httptest.ResponseRecorder, dst any) {
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), dst), rr.Body.String())
}

func (s *APIE2ETestSuite) register(name, email, password string) string {
	rr := s.do(http.MethodPost, "/api/users", "", gin.H{"name": name, "email": email, "password": password})
	require.Equal(s.T(), http.StatusOK, rr.Code, rr.Body.String())
	var out map[string]string
	s.decode(rr, &out)
	return out["token"]
}

func (s *APIE2ETestSuite) errorsOf(rr *httptest.ResponseRecorder) []string {
	var out struct {
		Errors []string `json:"errors"`
	}
	s.decode(rr, &out)
	return out.Errors
}

func (s *APIE2ETestSuite) Test_Scenario() {
	tokenA := s.register("Ann", "ann@x.com", "secret1")

	rr := s.do(http.MethodPost, "/api/auth", "", gin.H{"email": "ann@x.com", "password": "secret1"})
	s.Require().Equal(http.StatusOK, rr.Code)
	var login map[string]string
	s.decode(rr, &login)
	tokenB := login["token"]
	s.NotEqual(tokenA, tokenB)

	idA, err := s.jwtSvc.ResolveIdentity(tokenA)
	s.Require().NoError(err)
	idB, err := s.jwtSvc.ResolveIdentity(tokenB)
	s.Require().NoError(err)
	s.Equal(idA, idB)

	rr = s.do(http.MethodPost, "/api/posts", tokenA, gin.H{"text": "hello"})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	var created post.Post
	s.decode(rr, &created)
	s.Equal("hello", created.Text)
	s.Equal("Ann", created.Name)
	s.Empty(created.Likes)
	s.NotNil(created.Likes)
	s.Empty(created.Comments)
	s.Contains(rr.Body.String(), `"likes":[]`)

	likePath := "/api/posts/like/" + created.ID.String()
	rr = s.do(http.MethodPut, likePath, tokenA, nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	var likes []post.Like
	s.decode(rr, &likes)
	s.Equal([]post.Like{{User: idA}}, likes)

	rr = s.do(http.MethodPut, likePath, tokenA, nil)
	s.Equal(http.StatusUnprocessableEntity, rr.Code)
	s.Equal([]string{"Post already liked"}, s.errorsOf(rr))

	rr = s.do(http.MethodGet, "/api/posts/"+created.ID.String(), tokenA, nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	var fetched post.Post
	s.decode(rr, &fetched)
	s.Len(fetched.Likes, 1)

	rr = s.do(http.MethodPut, "/api/posts/comment/"+created.ID.String(), tokenA, gin.H{"text": "nice"})
	s.Require().Equal(http.StatusOK, rr.Code)
	var commented post.Post
	s.decode(rr, &commented)
	s.Equal(created.ID, commented.ID)
	s.Equal([]post.Like{{User: idA}}, commented.Likes)
	comments := commented.Comments
	s.Require().Len(comments, 1)
	s.Equal("nice", comments[0].Text)
	s.Equal(idA, comments[0].User)

	tokenBob := s.register("Bob", "bob@x.com", "secret2")
	rr = s.do(http.MethodDelete, "/api/posts/"+created.ID.String(), tokenBob, nil)
	s.Equal(http.StatusUnauthorized, rr.Code)
	s.Equal([]string{"User not authorized"}, s.errorsOf(rr))

	rr = s.do(http.MethodDelete, "/api/posts/comment/"+created.ID.String()+"/"+comments[0].ID.String(), tokenBob, nil)
	s.Equal(http.StatusUnauthorized, rr.Code)

	rr = s.do(http.MethodPut, "/api/posts/comment/"+created.ID.String(), tokenBob, gin.H{"text": "mine"})
	s.Require().Equal(http.StatusOK, rr.Code)
	var withBob post.Post
	s.decode(rr, &withBob)
	s.Require().Len(withBob.Comments, 2)
	s.Equal("mine", withBob.Comments[0].Text)

	rr = s.do(http.MethodDelete, "/api/posts/comment/"+created.ID.String()+"/"+withBob.Comments[0].ID.String(), tokenBob, nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	var afterRemove post.Post
	s.decode(rr, &afterRemove)
	s.Equal(created.ID, afterRemove.ID)
	s.Equal("hello", afterRemove.Text)
	s.Require().Len(afterRemove.Comments, 1)
	s.Equal(comments[0].ID, afterRemove.Comments[0].ID)

	rr = s.do(http.MethodGet, "/api/posts/"+created.ID.String(), tokenBob, nil)
	s.Require().Equal(http.StatusOK, rr.Code)

	rr = s.do(http.MethodDelete, "/api/posts/"+created.ID.String(), tokenA, nil)
	s.Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"msg":"Post removed"}`, rr.Body.String())

	rr = s.do(http.MethodGet, "/api/posts/"+created.ID.String(), tokenA, nil)
	s.Equal(http.StatusNotFound, rr.Code)
}

func (s *APIE2ETestSuite) Test_Register_Failures() {
	rr := s.do(http.MethodPost, "/api/users", "", gin.H{"name": "A", "email": "nope", "password": "123"})
	s.Equal(http.StatusUnprocessableEntity, rr.Code)
	s.Len(s.errorsOf(rr), 3)

	s.register("Ann", "ann@x.com", "secret1")
	rr = s.do(http.MethodPost, "/api/users", "", gin.H{"name": "Ann", "email": "ann@x.com", "password": "secret1"})
	s.Equal(http.StatusUnprocessableEntity, rr.Code)

	rr = s.do(http.MethodPost, "/api/users", "", gin.H{"name": "Pat", "email": "pat@x.com", "password": strings.Repeat("p", 80)})
	s.Equal(http.StatusUnprocessableEntity, rr.Code)
	s.Equal([]string{"password must be at most 72 bytes"}, s.errorsOf(rr))

	rr = s.do(http.MethodPost, "/api/auth", "", gin.H{"email": "ann@x.com", "password": "wrong-pass"})
	s.Equal(http.StatusUnauthorized, rr.Code)
	s.Equal([]string{"Invalid credentials"}, s.errorsOf(rr))

	rr = s.do(http.MethodPost, "/api/auth", "", gin.H{"email": "ghost@x.com", "password": "wrong-pass"})
	s.Equal(http.StatusUnauthorized, rr.Code)
	s.Equal([]string{"Invalid credentials"}, s.errorsOf(rr))
}

func (s *APIE2ETestSuite) Test_AuthGateway() {
	rr := s.do(http.MethodGet, "/api/auth", "", nil)
	s.Equal(http.StatusUnauthorized, rr.Code)
	s.Equal([]string{msgNoToken}, s.errorsOf(rr))

	rr = s.do(http.MethodGet, "/api/auth", "garbage", nil)
	s.Equal(http.StatusUnauthorized, rr.Code)
	s.Equal([]string{msgInvalidToken}, s.errorsOf(rr))

	rr = s.do(http.MethodPost, "/api/posts", "", gin.H{"text": "hello"})
	s.Equal(http.StatusUnauthorized, rr.Code)

	token := s.register("Ann", "ann@x.com", "secret1")
	rr = s.do(http.MethodGet, "/api/auth", token, nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.NotContains(rr.Body.String(), "password")
	var me map[string]any
	s.decode(rr, &me)
	s.Equal("ann@x.com", me["email"])
	s.NotEmpty(me["avatar"])

	rr = s.do(http.MethodGet, "/api/health", "", nil)
	s.Equal(http.StatusOK, rr.Code)
}

func (s *APIE2ETestSuite) Test_ProfileLifecycle() {
	token := s.register("Ann", "ann@x.com", "secret1")

	rr := s.do(http.MethodGet, "/api/profile/me", token, nil)
	s.Equal(http.StatusNotFound, rr.Code)
	s.Equal([]string{"There is no profile for this user"}, s.errorsOf(rr))

	rr = s.do(http.MethodPost, "/api/profile", token, gin.H{})
	s.Equal(http.StatusUnprocessableEntity, rr.Code)
	s.Len(s.errorsOf(rr), 2)

	rr = s.do(http.MethodPost, "/api/profile", token, gin.H{"status": "Developer", "skills": "go, sql", "twitter": "https://twitter.com/ann"})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	var view map[string]any
	s.decode(rr, &view)
	s.Equal([]any{"go", "sql"}, view["skills"])
	s.Equal("Ann", view["user"].(map[string]any)["name"])

	rr = s.do(http.MethodPut, "/api/profile/experience", token, gin.H{"title": "Dev", "company": "Acme", "from": "2020-01-01", "current": true})
	s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())
	var withExp struct {
		Experience []struct {
			ID uuid.UUID `json:"id"`
		} `json:"experience"`
	}
	s.decode(rr, &withExp)
	s.Require().Len(withExp.Experience, 1)

	rr = s.do(http.MethodPut, "/api/profile/education", token, gin.H{"school": "MIT", "degree": "BSc", "fieldofstudy": "CS", "from": "2016-09-01", "to": "2015-01-01"})
	s.Equal(http.StatusUnprocessableEntity, rr.Code)
	s.Contains(s.errorsOf(rr), "to must not be before from")

	rr = s.do(http.MethodDelete, "/api/profile/experience/"+uuid.NewString(), token, nil)
	s.Equal(http.StatusNotFound, rr.Code)
	rr = s.do(http.MethodDelete, "/api/profile/experience/not-a-uuid", token, nil)
	s.Equal(http.StatusNotFound, rr.Code)
	rr = s.do(http.MethodDelete, "/api/profile/experience/"+withExp.Experience[0].ID.String(), token, nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.Contains(rr.Body.String(), `"experience":[]`)

	rr = s.do(http.MethodGet, "/api/profile", "", nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	var list []map[string]any
	s.decode(rr, &list)
	s.Len(list, 1)

	userID, err := s.jwtSvc.ResolveIdentity(token)
	s.Require().NoError(err)
	rr = s.do(http.MethodGet, "/api/profile/user/"+userID.String(), "", nil)
	s.Equal(http.StatusOK, rr.Code)
	rr = s.do(http.MethodGet, "/api/profile/user/zzz", "", nil)
	s.Equal(http.StatusNotFound, rr.Code)

	rr = s.do(http.MethodDelete, "/api/profile", token, nil)
	s.Require().Equal(http.StatusOK, rr.Code)
	s.JSONEq(`{"msg":"User deleted"}`, rr.Body.String())

	rr = s.do(http.MethodGet, "/api/auth", token, nil)
	assert.Equal(s.T(), http.StatusNotFound, rr.Code)
	rr = s.do(http.MethodPost, "/api/auth", "", gin.H{"email": "ann@x.com", "password": "secret1"})
	assert.Equal(s.T(), http.StatusUnauthorized, rr.Code)
}

func (s *APIE2ETestSuite) Test_MalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/api/users", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	s.Equal(http.StatusUnprocessableEntity, rr.Code)
}
