package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/hms-api/internal/email"
	"github.com/medicore/hms-api/internal/model"
	"github.com/medicore/hms-api/pkg/auth"
	apperrors "github.com/medicore/hms-api/pkg/errors"
	"github.com/medicore/hms-api/pkg/security"
)

type fakeUserRepo struct {
	byEmail map[string]*model.User
	byID    map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail: make(map[string]*model.User),
		byID:    make(map[uuid.UUID]*model.User),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	user, ok := r.byID[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := r.byEmail[email]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return user, nil
}

func (r *fakeUserRepo) GetByNationalID(_ context.Context, nationalID string) (*model.User, error) {
	for _, user := range r.byID {
		if user.NationalID != nil && *user.NationalID == nationalID {
			return user, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (r *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	r.byEmail[user.Email] = user
	r.byID[user.ID] = user
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
	})
	hasher := security.NewBcryptHasher(4)
	return NewService(repo, jwtSvc, hasher, email.Noop()), repo
}

func seedUser(t *testing.T, svc *Service, role string) *model.User {
	t.Helper()
	user, err := svc.Signup(context.Background(), &model.SignupRequest{
		Email:      role + "@hospital.test",
		Password:   "s3curePass!",
		Name:       "Test " + role,
		Phone:      "9876543210",
		Role:       role,
		HospitalID: uuid.New(),
	})
	require.NoError(t, err)
	return user
}

func TestLoginSuccess(t *testing.T) {
	svc, _ := newTestService(t)
	seedUser(t, svc, model.RoleAdmin)

	tokens, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "admin@hospital.test",
		Password: "s3curePass!",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	claims, err := svc.ValidateToken(context.Background(), tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}

func TestLoginRoleMismatchLooksLikeMissingAccount(t *testing.T) {
	svc, _ := newTestService(t)
	seedUser(t, svc, model.RoleDoctor)

	// Doctor credentials presented on the admin portal must fail the
	// same way as an unknown email, with no session issued.
	tokens, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "doctor@hospital.test",
		Password: "s3curePass!",
		Role:     model.RoleAdmin,
	})
	require.Error(t, err)
	assert.Nil(t, tokens)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	_, unknownErr := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@hospital.test",
		Password: "s3curePass!",
		Role:     model.RoleAdmin,
	})

	// The responses must be indistinguishable
	var mismatch, unknown *apperrors.AppError
	require.ErrorAs(t, err, &mismatch)
	require.ErrorAs(t, unknownErr, &unknown)
	assert.Equal(t, mismatch.Message, unknown.Message)
	assert.Equal(t, mismatch.Code, unknown.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	seedUser(t, svc, model.RoleAdmin)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "admin@hospital.test",
		Password: "wrongPassword",
		Role:     model.RoleAdmin,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	svc, repo := newTestService(t)
	user := seedUser(t, svc, model.RoleAdmin)

	for i := 0; i < maxLoginAttempts; i++ {
		_, err := svc.Login(context.Background(), &model.LoginRequest{
			Email:    "admin@hospital.test",
			Password: "wrongPassword",
			Role:     model.RoleAdmin,
		})
		require.Error(t, err)
	}

	stored := repo.byID[user.ID]
	assert.Equal(t, model.UserStatusLocked, stored.Status)

	// Correct password while locked still fails
	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "admin@hospital.test",
		Password: "s3curePass!",
		Role:     model.RoleAdmin,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")
}

func TestSignupRejectsPatientRole(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Signup(context.Background(), &model.SignupRequest{
		Email:      "patient@hospital.test",
		Password:   "s3curePass!",
		Name:       "Patient",
		Phone:      "9876543210",
		Role:       model.RolePatient,
		HospitalID: uuid.New(),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	seedUser(t, svc, model.RoleAdmin)

	_, err := svc.Signup(context.Background(), &model.SignupRequest{
		Email:      "admin@hospital.test",
		Password:   "anotherPass!",
		Name:       "Second Admin",
		Phone:      "9876543211",
		Role:       model.RoleAdmin,
		HospitalID: uuid.New(),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
}

func TestRefreshToken(t *testing.T) {
	svc, _ := newTestService(t)
	seedUser(t, svc, model.RoleDoctor)

	tokens, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "doctor@hospital.test",
		Password: "s3curePass!",
		Role:     model.RoleDoctor,
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
}
