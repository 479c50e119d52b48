package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"streamcatalog/proj/internal/domain/models"
	"streamcatalog/proj/internal/storage"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type UserStorage interface {
	Insert(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type TaskExecutor interface {
	Add(task func())
}

type AuthService struct {
	log          *slog.Logger
	users        UserStorage
	Mailer       MailProvider
	taskExecutor TaskExecutor
	secret       []byte
	tokenTTL     time.Duration
	adminEmails  []string
}

// New builds the auth service. Users signing up with one of adminEmails get the admin role.
func New(
	log *slog.Logger,
	users UserStorage,
	mailer MailProvider,
	taskExecutor TaskExecutor,
	secret string,
	tokenTTL time.Duration,
	adminEmails []string,
) *AuthService {
	normalized := make([]string, 0, len(adminEmails))
	for _, e := range adminEmails {
		normalized = append(normalized, strings.ToLower(strings.TrimSpace(e)))
	}
	return &AuthService{
		log:          log,
		users:        users,
		Mailer:       mailer,
		taskExecutor: taskExecutor,
		secret:       []byte(secret),
		tokenTTL:     tokenTTL,
		adminEmails:  normalized,
	}
}

func (a *AuthService) sendWelcomeEmail(user *models.User) {
	a.log.Info("sending welcome email", "user_id", user.ID)
	err := a.Mailer.Send(user.Email, "user_welcome.tmpl", map[string]any{
		"username": user.Username,
		"userID":   user.ID,
	})
	if err != nil {
		a.log.Error("Error sending welcome email", "errMsg", err.Error())
	}
}

func (a *AuthService) Signup(ctx context.Context, email, username, password string) (*models.User, error) {
	const op = "auth.AuthService.Signup"
	log := a.log.With("op", op, "email", email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Error hashing password", "errMsg", err.Error())
		return nil, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	role := models.RoleUser
	if slices.Contains(a.adminEmails, email) {
		role = models.RoleAdmin
	}
	user := &models.User{
		Username:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Preferences:  models.Preferences{FavoriteGenres: []int{}},
	}
	if err := a.users.Insert(ctx, user); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("user already exists")
			return nil, ErrUserAlreadyExists
		}
		log.Error("Error inserting user", "errMsg", err.Error())
		return nil, err
	}
	a.taskExecutor.Add(func() {
		a.sendWelcomeEmail(user)
	})
	return user, nil
}

func (a *AuthService) Login(ctx context.Context, email, password string) (*models.AuthTokens, error) {
	const op = "auth.AuthService.Login"
	log := a.log.With("op", op, "email", email)
	user, err := a.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Error("Error getting user", "errMsg", err.Error())
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		log.Info("password mismatch")
		return nil, ErrInvalidCredentials
	}
	return a.issueToken(user)
}

func (a *AuthService) issueToken(user *models.User) (*models.AuthTokens, error) {
	now := time.Now()
	expiresAt := now.Add(a.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  user.ID,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &models.AuthTokens{AccessToken: signed, ExpiresAt: expiresAt}, nil
}

// VerifyToken checks the signature and expiry of token and loads its user.
func (a *AuthService) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.AuthService.VerifyToken"
	log := a.log.With("op", op)
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, ok := claims["uid"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}
	user, err := a.GetUser(ctx, int64(userID))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			log.Warn("token for unknown user", "user_id", userID)
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

func (a *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := a.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
