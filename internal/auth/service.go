package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sebuszqo/FinanceLedger/internal/user"
)

type Service interface {
	Login(ctx context.Context, email, password string) (*user.User, string, error)
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
}

type service struct {
	userService user.Service
	jwtManager  JWTManagerInterface
}

func NewAuthService(userService user.Service, jwtManager JWTManagerInterface) Service {
	return &service{
		userService: userService,
		jwtManager:  jwtManager,
	}
}

// Login authenticates the credentials and issues an access token for the
// user. Authentication failures are returned unchanged.
func (s *service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	existingUser, err := s.userService.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}

	accessToken, err := s.jwtManager.GenerateAccessJWT(existingUser.ID)
	if err != nil {
		slog.ErrorContext(ctx, "Error during JWT generation", "user_id", existingUser.ID, "error", err)
		return nil, "", fmt.Errorf("generate access token: %w", err)
	}
	return existingUser, accessToken, nil
}
