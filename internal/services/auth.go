package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pearlapp/pearl-backend/internal/data/repos"
	"github.com/pearlapp/pearl-backend/internal/domain/user"
	"github.com/pearlapp/pearl-backend/internal/platform/apierr"
	"github.com/pearlapp/pearl-backend/internal/platform/logger"
)

var errInvalidCredentials = apierr.New(401, "invalid_credentials", fmt.Errorf("invalid email or password"))

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
	RegisterUser(ctx context.Context, email, password, fullName string) (*user.User, error)
	LoginUser(ctx context.Context, email, password string) (*TokenPair, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
	// ParseAccessToken validates a JWT and returns the subject user id.
	ParseAccessToken(tokenString string) (uuid.UUID, error)
}

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	avatarService AvatarService
	jwtSecretKey  []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	avatarService AvatarService,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           log.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		avatarService: avatarService,
		jwtSecretKey:  []byte(jwtSecretKey),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, email, password, fullName string) (*user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	fullName = strings.TrimSpace(fullName)
	if email == "" || !strings.Contains(email, "@") {
		return nil, apierr.New(400, "invalid_email", fmt.Errorf("a valid email is required"))
	}
	if len(password) < 8 {
		return nil, apierr.New(400, "weak_password", fmt.Errorf("password must be at least 8 characters"))
	}
	if fullName == "" {
		return nil, apierr.New(400, "missing_name", fmt.Errorf("full name is required"))
	}

	existing, err := as.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return nil, apierr.New(409, "email_taken", fmt.Errorf("email already registered"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &user.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hashed),
		FullName: fullName,
	}
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.userRepo.Create(ctx, tx, u); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		if as.avatarService != nil {
			if err := as.avatarService.CreateUserAvatar(ctx, tx, u); err != nil {
				// A missing avatar should never block signup.
				as.log.Warn("avatar generation failed", "user_id", u.ID, "error", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (*TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := as.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if u == nil {
		return nil, errInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, errInvalidCredentials
	}
	return as.issueTokens(ctx, u.ID)
}

func (as *authService) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	row, err := as.userTokenRepo.GetByHash(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("lookup refresh token: %w", err)
	}
	if row == nil || row.Revoked || time.Now().After(row.ExpiresAt) {
		return nil, apierr.New(401, "invalid_refresh_token", fmt.Errorf("refresh token invalid or expired"))
	}

	var pair *TokenPair
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Rotate: the presented token dies with this exchange.
		if err := as.userTokenRepo.Revoke(ctx, tx, row.ID); err != nil {
			return err
		}
		var issueErr error
		pair, issueErr = as.issueTokensTx(ctx, tx, row.UserID)
		return issueErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (as *authService) Logout(ctx context.Context, refreshToken string) error {
	row, err := as.userTokenRepo.GetByHash(ctx, hashToken(refreshToken))
	if err != nil {
		return fmt.Errorf("lookup refresh token: %w", err)
	}
	if row == nil {
		return nil
	}
	return as.userTokenRepo.RevokeAllForUser(ctx, nil, row.UserID)
}

func (as *authService) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return as.jwtSecretKey, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, apierr.New(401, "invalid_token", fmt.Errorf("invalid access token"))
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, apierr.New(401, "invalid_token", fmt.Errorf("invalid token claims"))
	}
	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, apierr.New(401, "invalid_token", fmt.Errorf("invalid token subject"))
	}
	return id, nil
}

func (as *authService) issueTokens(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	var pair *TokenPair
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var issueErr error
		pair, issueErr = as.issueTokensTx(ctx, tx, userID)
		return issueErr
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (as *authService) issueTokensTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*TokenPair, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iat": now.Unix(),
		"exp": now.Add(as.accessTTL).Unix(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(as.jwtSecretKey)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	row := &user.UserToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: hashToken(refresh),
		ExpiresAt: now.Add(as.refreshTTL),
	}
	if err := as.userTokenRepo.Create(ctx, tx, row); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
