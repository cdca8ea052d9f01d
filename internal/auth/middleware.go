package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zuri-labs/go-wallet-ledger/internal/key"
	"github.com/zuri-labs/go-wallet-ledger/internal/user"
	"github.com/zuri-labs/go-wallet-ledger/pkg/config"
	"github.com/zuri-labs/go-wallet-ledger/pkg/utils"
)

func JWTMiddleware(cfg config.Config, userRepo user.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.BuildErrorResponse(w, http.StatusUnauthorized, "Authorization required", nil)
				return
			}

			usr, ok := authenticateJWT(w, cfg, userRepo, authHeader)
			if !ok {
				return
			}

			ctx := context.WithValue(r.Context(), utils.UserKey, *usr)
			ctx = context.WithValue(ctx, utils.PermissionsKey, []string{"*"})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func APIKeyMiddleware(keyRepo key.Repository, userRepo user.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKeyHeader := r.Header.Get("x-api-key")
			if apiKeyHeader == "" {
				utils.BuildErrorResponse(w, http.StatusUnauthorized, "API Key required", nil)
				return
			}

			usr, perms, ok := authenticateAPIKey(w, keyRepo, userRepo, apiKeyHeader)
			if !ok {
				return
			}

			ctx := context.WithValue(r.Context(), utils.UserKey, *usr)
			ctx = context.WithValue(ctx, utils.PermissionsKey, perms)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UnifiedAuthMiddleware accepts either a Bearer JWT or an x-api-key header.
// JWT callers hold the wildcard permission; key callers carry the key's
// permission set.
func UnifiedAuthMiddleware(cfg config.Config, userRepo user.Repository, keyRepo key.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				usr, ok := authenticateJWT(w, cfg, userRepo, authHeader)
				if !ok {
					return
				}
				ctx := context.WithValue(r.Context(), utils.UserKey, *usr)
				ctx = context.WithValue(ctx, utils.PermissionsKey, []string{"*"})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if apiKeyHeader := r.Header.Get("x-api-key"); apiKeyHeader != "" {
				usr, perms, ok := authenticateAPIKey(w, keyRepo, userRepo, apiKeyHeader)
				if !ok {
					return
				}
				ctx := context.WithValue(r.Context(), utils.UserKey, *usr)
				ctx = context.WithValue(ctx, utils.PermissionsKey, perms)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			utils.BuildErrorResponse(w, http.StatusUnauthorized, "Authorization required", nil)
		})
	}
}

func authenticateJWT(w http.ResponseWriter, cfg config.Config, userRepo user.Repository, authHeader string) (*user.User, bool) {
	tokenString := strings.Replace(authHeader, "Bearer ", "", 1)
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Invalid token", nil)
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Invalid token claims", nil)
		return nil, false
	}

	userIDStr, ok := claims[utils.UserIDKey].(string)
	if !ok {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Invalid user ID in token", nil)
		return nil, false
	}

	usr, err := userRepo.FindByID(userIDStr)
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "User not found", nil)
		return nil, false
	}

	return usr, true
}

func authenticateAPIKey(w http.ResponseWriter, keyRepo key.Repository, userRepo user.Repository, apiKeyHeader string) (*user.User, []string, bool) {
	apiKey, err := keyRepo.FindByKey(apiKeyHeader)
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Invalid API Key", nil)
		return nil, nil, false
	}

	if apiKey.IsRevoked {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "API Key revoked", nil)
		return nil, nil, false
	}

	if time.Now().After(apiKey.ExpiresAt) {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "API key has expired", nil)
		return nil, nil, false
	}

	usr, err := userRepo.FindByID(apiKey.UserID.String())
	if err != nil {
		utils.BuildErrorResponse(w, http.StatusUnauthorized, "Associated user not found", nil)
		return nil, nil, false
	}

	return usr, apiKey.Permissions, true
}

func RequirePermission(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			perms, ok := r.Context().Value(utils.PermissionsKey).([]string)
			if !ok {
				utils.BuildErrorResponse(w, http.StatusForbidden, "Permissions not found", nil)
				return
			}

			hasPerm := false
			for _, p := range perms {
				if p == "*" || p == perm {
					hasPerm = true
					break
				}
			}

			if !hasPerm {
				utils.BuildErrorResponse(w, http.StatusForbidden, "Insufficient permissions", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
