package auth

import (
	"context"
	"log/slog"
	"streamcatalog/proj/internal/domain/models"
	"streamcatalog/proj/internal/storage/memory"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mailerMock struct {
	mock.Mock
}

func (m *mailerMock) Send(recipient string, tmplName string, tmplData any) error {
	args := m.Called(recipient, tmplName, tmplData)
	return args.Error(0)
}

type syncTasks struct{}

func (syncTasks) Add(task func()) { task() }

const testSecret = "test-secret"

func newTestService(t *testing.T, mailer *mailerMock) *AuthService {
	t.Helper()
	return New(slog.Default(), memory.NewUserRepository(), mailer, syncTasks{}, testSecret, time.Hour, []string{"Admin@Example.com"})
}

func TestSignupAndLogin(t *testing.T) {
	mailer := &mailerMock{}
	mailer.On("Send", "neo@example.com", "user_welcome.tmpl", mock.Anything).Return(nil).Once()
	service := newTestService(t, mailer)
	ctx := context.Background()

	user, err := service.Signup(ctx, " Neo@Example.com ", "neo", "pa55word!")
	require.NoError(t, err)
	assert.Equal(t, "neo@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, []byte("pa55word!"), user.PasswordHash)
	mailer.AssertExpectations(t)

	_, err = service.Signup(ctx, "neo@example.com", "neo2", "pa55word!")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = service.Login(ctx, "neo@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = service.Login(ctx, "nobody@example.com", "pa55word!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	tokens, err := service.Login(ctx, "NEO@example.com", "pa55word!")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tokens.ExpiresAt, time.Minute)

	verified, err := service.VerifyToken(ctx, tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)
}

func TestAdminRole(t *testing.T) {
	mailer := &mailerMock{}
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	service := newTestService(t, mailer)

	user, err := service.Signup(context.Background(), "admin@example.com", "root", "pa55word!")
	require.NoError(t, err)
	assert.True(t, user.IsAdmin())
}

func TestVerifyTokenRejects(t *testing.T) {
	mailer := &mailerMock{}
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	service := newTestService(t, mailer)
	ctx := context.Background()
	user, err := service.Signup(ctx, "trinity@example.com", "trinity", "pa55word!")
	require.NoError(t, err)

	sign := func(secret string, claims jwt.MapClaims) string {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}
	future := time.Now().Add(time.Hour).Unix()
	testCases := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": sign("other", jwt.MapClaims{"uid": user.ID, "exp": future}),
		"expired":      sign(testSecret, jwt.MapClaims{"uid": user.ID, "exp": time.Now().Add(-time.Hour).Unix()}),
		"no expiry":    sign(testSecret, jwt.MapClaims{"uid": user.ID}),
		"no uid":       sign(testSecret, jwt.MapClaims{"exp": future}),
		"unknown user": sign(testSecret, jwt.MapClaims{"uid": 9999, "exp": future}),
	}
	for name, token := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := service.VerifyToken(ctx, token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
