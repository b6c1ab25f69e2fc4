package usecase

import (
	"context"
	"time"

	"ruangchat/internal/domain/entity"
	"ruangchat/internal/domain/repository"
	"ruangchat/pkg/errors"
	"ruangchat/pkg/logger"
)

type AuthUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth FirebaseAuthClient
	presence     *PresenceUseCase
}

func NewAuthUseCase(userRepo repository.UserRepository, firebaseAuth FirebaseAuthClient, presence *PresenceUseCase) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
		presence:     presence,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	PhotoURL    string
}

type AuthResult struct {
	User  *entity.UserProfile
	Token string
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	uid, err := uc.firebaseAuth.CreateUser(ctx, input.Email, input.Password, input.DisplayName)
	if err != nil {
		return nil, errors.Internal("Failed to create user in authentication provider", err)
	}

	profile := &entity.UserProfile{
		ID:          uid,
		Email:       input.Email,
		DisplayName: input.DisplayName,
		PhotoURL:    input.PhotoURL,
		CreatedAt:   time.Now(),
	}

	if err := uc.presence.HandleSignIn(ctx, profile); err != nil {
		return nil, errors.Internal("Failed to create user profile", err)
	}

	token, err := uc.firebaseAuth.SignInWithEmailPassword(input.Email, input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	return &AuthResult{
		User:  profile,
		Token: token,
	}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	token, err := uc.firebaseAuth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, errors.Unauthorized("Invalid credentials", err)
	}

	uid, err := uc.firebaseAuth.VerifyToken(ctx, token)
	if err != nil {
		return nil, errors.Internal("Failed to verify token", err)
	}

	profile, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}

	// The sign-in presence write is best-effort; the profile already exists.
	if err := uc.presence.HandleSignIn(ctx, profile); err != nil {
		logger.Warn("Presence sign-in write failed for user %s: %v", uid, err)
	}

	return &AuthResult{
		User:  profile,
		Token: token,
	}, nil
}

// Logout writes the offline presence state first, then revokes the session.
func (uc *AuthUseCase) Logout(ctx context.Context, uid string) error {
	uc.presence.HandleSignOut(ctx, uid)

	if err := uc.firebaseAuth.RevokeTokens(ctx, uid); err != nil {
		return errors.Internal("Failed to revoke session", err)
	}

	return nil
}

func (uc *AuthUseCase) GetUserByID(ctx context.Context, id string) (*entity.UserProfile, error) {
	profile, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}
	return profile, nil
}
