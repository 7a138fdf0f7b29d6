package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/folio/internal/domain/profile"
	"github.com/khoahotran/folio/pkg/apperror"
	"github.com/khoahotran/folio/pkg/logger"
)

type ProfileUseCaseTestSuite struct {
	suite.Suite
	ctx     context.Context
	repo    *mockProfileRepo
	views   *mockViewRepo
	cache   *mockCache
	uc      *ProfileUseCase
	ownerID uuid.UUID
	now     time.Time
}

func (s *ProfileUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo = new(mockProfileRepo)
	s.views = new(mockViewRepo)
	s.cache = new(mockCache)
	s.ownerID = uuid.New()
	s.now = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.uc = NewProfileUseCase(s.repo, s.views, s.cache, testPolicy, logger.NewNopLogger())
	s.uc.now = func() time.Time { return s.now }
}

func TestProfileUseCase(t *testing.T) {
	suite.Run(t, new(ProfileUseCaseTestSuite))
}

func (s *ProfileUseCaseTestSuite) existing(username string) *profile.Profile {
	p := profile.New(s.ownerID, username, s.now.Add(-time.Hour))
	s.repo.On("GetByUserID", mock.Anything, s.ownerID).Return(p, nil)
	return p
}

func (s *ProfileUseCaseTestSuite) Test_EnsureProfile_Existing() {
	p := s.existing("johndoe")
	s.views.On("Count", mock.Anything, p.ID).Return(int64(7), nil)

	out, err := s.uc.ExecuteEnsureProfile(s.ctx, EnsureProfileInput{UserID: s.ownerID, Email: "john@example.com"})

	s.Require().NoError(err)
	s.False(out.Created)
	s.Equal(int64(7), out.ViewCount)
	s.repo.AssertNotCalled(s.T(), "Create", mock.Anything, mock.Anything)
}

func (s *ProfileUseCaseTestSuite) Test_EnsureProfile_CreatesOnFirstVisit() {
	s.repo.On("GetByUserID", mock.Anything, s.ownerID).Return(nil, apperror.NewNotFound("profile", s.ownerID.String()))
	s.repo.On("IsUsernameAvailable", mock.Anything, "john-doe", s.ownerID).Return(false, nil)
	s.repo.On("IsUsernameAvailable", mock.Anything, "john-doe-2", s.ownerID).Return(true, nil)
	s.repo.On("Create", mock.Anything, mock.MatchedBy(func(p *profile.Profile) bool {
		return p.Username == "john-doe-2" && p.UserID == s.ownerID && p.TemplateID == "classic"
	})).Return(nil)
	s.views.On("Count", mock.Anything, mock.Anything).Return(int64(0), nil)

	out, err := s.uc.ExecuteEnsureProfile(s.ctx, EnsureProfileInput{UserID: s.ownerID, Email: "John.Doe@example.com"})

	s.Require().NoError(err)
	s.True(out.Created)
	s.Equal("john-doe-2", out.Profile.Username)
	s.Equal(s.now, out.Profile.CreatedAt)
	s.repo.AssertExpectations(s.T())
}

func (s *ProfileUseCaseTestSuite) Test_EnsureProfile_ViewCountFailureIsTolerated() {
	p := s.existing("johndoe")
	s.views.On("Count", mock.Anything, p.ID).Return(int64(0), errors.New("mongo down"))

	out, err := s.uc.ExecuteEnsureProfile(s.ctx, EnsureProfileInput{UserID: s.ownerID})

	s.Require().NoError(err)
	s.Equal(int64(0), out.ViewCount)
}

func (s *ProfileUseCaseTestSuite) Test_UpdateSection_ReplacesOnlyThatSection() {
	p := s.existing("johndoe")
	p.Bio = "keep me"
	p.Links = []profile.Link{{Label: "GitHub", URL: "https://github.com/johndoe"}}
	s.repo.On("Update", mock.Anything, p).Return(nil)
	s.cache.On("Invalidate", mock.Anything, []string{"johndoe"}).Return(nil)

	out, err := s.uc.ExecuteUpdateSection(s.ctx, UpdateSectionInput{
		UserID:  s.ownerID,
		Section: profile.SectionSkills,
		Data:    &profile.Profile{Bio: "ignored", Skills: []profile.Skill{{Name: "Go", Proficiency: 5}}},
	})

	s.Require().NoError(err)
	s.Equal("keep me", out.Profile.Bio)
	s.Len(out.Profile.Links, 1)
	s.Equal([]profile.Skill{{Name: "Go", Proficiency: 5}}, out.Profile.Skills)
	s.Equal(s.now, out.Profile.UpdatedAt)
	s.cache.AssertExpectations(s.T())
}

func (s *ProfileUseCaseTestSuite) Test_UpdateSection_InvalidProficiency() {
	s.existing("johndoe")

	_, err := s.uc.ExecuteUpdateSection(s.ctx, UpdateSectionInput{
		UserID:  s.ownerID,
		Section: profile.SectionSkills,
		Data:    &profile.Profile{Skills: []profile.Skill{{Name: "Go", Proficiency: 9}}},
	})

	s.ErrorIs(err, apperror.ErrInvalidInput)
	s.repo.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything)
}

func (s *ProfileUseCaseTestSuite) Test_UpdateSection_UnknownSection() {
	s.existing("johndoe")

	_, err := s.uc.ExecuteUpdateSection(s.ctx, UpdateSectionInput{
		UserID:  s.ownerID,
		Section: profile.Section("hobbies"),
		Data:    &profile.Profile{},
	})
	s.ErrorIs(err, apperror.ErrInvalidInput)
}

func (s *ProfileUseCaseTestSuite) Test_CheckUsername() {
	s.repo.On("IsUsernameAvailable", mock.Anything, "janedoe", s.ownerID).Return(false, nil)
	s.repo.On("IsUsernameAvailable", mock.Anything, "fresh-name", s.ownerID).Return(true, nil)

	cases := []struct {
		in        string
		available bool
		reason    string
	}{
		{"Fresh-Name", true, ""},
		{"janedoe", false, ReasonTaken},
		{"dashboard", false, ReasonReserved},
		{"id", false, ReasonInvalid},
		{"api", false, ReasonReserved},
		{"no spaces", false, ReasonInvalid},
	}
	for _, tc := range cases {
		out, err := s.uc.ExecuteCheckUsername(s.ctx, CheckUsernameInput{UserID: s.ownerID, Username: tc.in})
		s.Require().NoError(err, tc.in)
		s.Equal(tc.available, out.Available, tc.in)
		s.Equal(tc.reason, out.Reason, tc.in)
	}
}

func (s *ProfileUseCaseTestSuite) Test_Rename() {
	p := s.existing("johndoe")
	s.repo.On("IsUsernameAvailable", mock.Anything, "john", s.ownerID).Return(true, nil)
	s.repo.On("Update", mock.Anything, p).Return(nil)
	s.cache.On("Invalidate", mock.Anything, []string{"johndoe", "john"}).Return(nil)

	out, err := s.uc.ExecuteRename(s.ctx, RenameInput{UserID: s.ownerID, Username: "John"})

	s.Require().NoError(err)
	s.Equal("johndoe", out.OldUsername)
	s.Equal("john", out.Profile.Username)
	s.cache.AssertExpectations(s.T())
}

func (s *ProfileUseCaseTestSuite) Test_Rename_Rejected() {
	s.repo.On("IsUsernameAvailable", mock.Anything, "janedoe", s.ownerID).Return(false, nil)

	_, err := s.uc.ExecuteRename(s.ctx, RenameInput{UserID: s.ownerID, Username: "janedoe"})
	s.ErrorIs(err, apperror.ErrConflict)

	_, err = s.uc.ExecuteRename(s.ctx, RenameInput{UserID: s.ownerID, Username: "dashboard"})
	s.ErrorIs(err, apperror.ErrInvalidInput)

	_, err = s.uc.ExecuteRename(s.ctx, RenameInput{UserID: s.ownerID, Username: "x"})
	s.ErrorIs(err, apperror.ErrInvalidInput)

	s.repo.AssertNotCalled(s.T(), "Update", mock.Anything, mock.Anything)
}

func (s *ProfileUseCaseTestSuite) Test_Rename_StoreConflictPropagates() {
	p := s.existing("johndoe")
	s.repo.On("IsUsernameAvailable", mock.Anything, "racer", s.ownerID).Return(true, nil)
	s.repo.On("Update", mock.Anything, p).Return(apperror.NewConflict("profile", "username", "racer"))

	_, err := s.uc.ExecuteRename(s.ctx, RenameInput{UserID: s.ownerID, Username: "racer"})
	s.ErrorIs(err, apperror.ErrConflict)
}

func (s *ProfileUseCaseTestSuite) Test_CountViews() {
	p := s.existing("johndoe")
	s.views.On("Count", mock.Anything, p.ID).Return(int64(42), nil)

	n, err := s.uc.ExecuteCountViews(s.ctx, s.ownerID)
	s.Require().NoError(err)
	s.Equal(int64(42), n)
}

func TestSuggestUsername(t *testing.T) {
	id := uuid.MustParse("0f8fad5b-d9cb-469f-a165-70867728950e")
	assert.Equal(t, "john-doe", suggestUsername("John.Doe@example.com", id))
	assert.Equal(t, "jane_doe-work", suggestUsername("jane_doe+work@example.com", id))
	assert.Equal(t, "user-0f8fad5b", suggestUsername("x@example.com", id))
	assert.Equal(t, "user-0f8fad5b", suggestUsername("", id))
	assert.Equal(t, "abcdefghijklmnopqrst", suggestUsername("abcdefghijklmnopqrstuvwxyz@example.com", id))
}
