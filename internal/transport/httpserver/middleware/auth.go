package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"finance-app-go/internal/config"
	"finance-app-go/pkg/logger"
)

// SupabaseAuth validates bearer tokens against the Supabase user endpoint
// and injects the resolved user into the request context. With SkipAuth the
// configured mock user is used instead (local runs and tests).
type SupabaseAuth struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	profiles ProfileSaver
	skipAuth bool
	mockUser User
	log      logger.Logger
}

type contextKey int

const userKey contextKey = iota

type User struct {
	ID    string
	Email string
	Name  string
}

type ProfileSaver interface {
	UpsertProfile(ctx context.Context, userID, email, displayName string) error
}

func NewSupabaseAuth(cfg config.AuthConfig, profiles ProfileSaver, log logger.Logger) *SupabaseAuth {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &SupabaseAuth{
		baseURL:  strings.TrimRight(cfg.SupabaseURL, "/"),
		apiKey:   cfg.PublishableKey,
		client:   &http.Client{Timeout: timeout},
		profiles: profiles,
		skipAuth: cfg.SkipAuth,
		mockUser: User{
			ID:    strings.TrimSpace(cfg.MockUserID),
			Email: strings.TrimSpace(cfg.MockUserEmail),
			Name:  strings.TrimSpace(cfg.MockUserName),
		},
		log: log,
	}
}

type supabaseUserResponse struct {
	ID           string                 `json:"id"`
	Sub          string                 `json:"sub"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

func (a *SupabaseAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockUser.ID == "" {
				writeMessage(w, http.StatusInternalServerError, "auth mock user id not configured")
				return
			}
			a.admit(w, r, next, a.mockUser)
			return
		}

		if a.baseURL == "" || a.apiKey == "" {
			writeMessage(w, http.StatusInternalServerError, "auth not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, a.baseURL+"/auth/v1/user", nil)
		if err != nil {
			unauthorized(w)
			return
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("apikey", a.apiKey)

		resp, err := a.client.Do(req)
		if err != nil {
			unauthorized(w)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			unauthorized(w)
			return
		}

		var payload supabaseUserResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			unauthorized(w)
			return
		}

		userID := payload.ID
		if userID == "" {
			userID = payload.Sub
		}
		if userID == "" {
			unauthorized(w)
			return
		}

		a.admit(w, r, next, User{
			ID:    userID,
			Email: payload.Email,
			Name:  metadataString(payload.UserMetadata, "name"),
		})
	})
}

func (a *SupabaseAuth) admit(w http.ResponseWriter, r *http.Request, next http.Handler, user User) {
	if a.profiles != nil {
		if err := a.profiles.UpsertProfile(r.Context(), user.ID, user.Email, user.Name); err != nil {
			a.log.InternalError("auth: upsert profile failed", err, "user_id", user.ID)
		}
	}
	next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeMessage(w, http.StatusUnauthorized, "Não autenticado")
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}

func metadataString(values map[string]interface{}, key string) string {
	if values == nil {
		return ""
	}
	parsed, _ := values[key].(string)
	return parsed
}
