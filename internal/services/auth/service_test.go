package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/kinetikids/motionhub/internal/dependencies/mocks"
	"github.com/kinetikids/motionhub/internal/dependencies/random"
	"github.com/kinetikids/motionhub/internal/model"
	"github.com/kinetikids/motionhub/internal/services/catalog"
	"github.com/kinetikids/motionhub/internal/services/profile"
	"github.com/kinetikids/motionhub/internal/storage/memory"
	"github.com/kinetikids/motionhub/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	profiles *profile.Store
	clock    *mocks.MockClock
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.profiles = profile.New(s.storage, catalog.New(logger), s.clock, profile.DefaultConfig(), logger)
	s.service = New(s.storage, s.profiles, s.clock, random.New(), DefaultConfig(), logger)
	s.ctx = context.Background()
}

// SignUp tests

func (s *ServiceSuite) TestSignUpSucceeds() {
	session, err := s.service.SignUp(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.NotEmpty(session.UserID)
	s.Equal("alice", session.Username)
	s.Equal(s.clock.Now().Add(24*time.Hour), session.ExpiresAt)
}

func (s *ServiceSuite) TestSignUpBootstrapsProfile() {
	session, err := s.service.SignUp(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	prof, err := s.storage.GetProfile(s.ctx, session.UserID)
	s.Require().NoError(err)
	s.Equal("alice", prof.Username)
	s.Equal(model.RolePlayer, prof.Role)
	s.Equal(1, prof.Level)
}

func (s *ServiceSuite) TestSignUpDuplicateUsernameFails() {
	_, err := s.service.SignUp(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	_, err = s.service.SignUp(s.ctx, "alice", "different")
	s.ErrorIs(err, ErrUsernameExists)
}

func (s *ServiceSuite) TestSignUpDuplicateUsernameIsCaseInsensitive() {
	_, err := s.service.SignUp(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	_, err = s.service.SignUp(s.ctx, "ALICE", "different")
	s.ErrorIs(err, ErrUsernameExists)
}

func (s *ServiceSuite) TestSignUpDoesNotStorePlaintextPassword() {
	_, err := s.service.SignUp(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	creds, err := s.storage.GetCredentialsByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotEqual("password123", creds.PasswordHash)
	s.NotEmpty(creds.PasswordHash)
}

// SignIn tests

func (s *ServiceSuite) TestSignInSucceeds() {
	created, err := s.service.SignUp(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	session, err := s.service.SignIn(s.ctx, "alice", "password123")
	s.Require().NoError(err)
	s.Equal(created.UserID, session.UserID)
	s.NotEqual(created.Token, session.Token)
}

func (s *ServiceSuite) TestSignInWrongPasswordFails() {
	_, err := s.service.SignUp(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	_, err = s.service.SignIn(s.ctx, "alice", "wrong")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestSignInUnknownUsernameFails() {
	_, err := s.service.SignIn(s.ctx, "nonexistent", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// Session tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	session, err := s.service.SignUp(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.UserID, validated.UserID)
}

func (s *ServiceSuite) TestValidateSessionUnknownTokenFails() {
	_, err := s.service.ValidateSession("sess_nonexistent")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionExpires() {
	session, err := s.service.SignUp(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.clock.Advance(25 * time.Hour)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestSignOutInvalidatesSession() {
	session, err := s.service.SignUp(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.service.SignOut(session.Token)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestCleanExpiredSessionsRemovesOnlyExpired() {
	old, err := s.service.SignUp(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.clock.Advance(25 * time.Hour)
	fresh, err := s.service.SignIn(s.ctx, "alice", "password123")
	s.Require().NoError(err)

	s.service.CleanExpiredSessions()

	_, err = s.service.ValidateSession(old.Token)
	s.ErrorIs(err, ErrInvalidSession)
	_, err = s.service.ValidateSession(fresh.Token)
	s.NoError(err)
}
