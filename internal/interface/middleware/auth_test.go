package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ajisatria/go-blog-api/internal/application"
	"github.com/ajisatria/go-blog-api/internal/domain/entity"
	"github.com/ajisatria/go-blog-api/internal/domain/repository"
	"github.com/ajisatria/go-blog-api/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// singleUserRepo resolves exactly one known user by id.
type singleUserRepo struct {
	user *entity.User
}

func (r *singleUserRepo) Create(context.Context, *entity.User) error { return nil }

func (r *singleUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if r.user != nil && r.user.ID == id {
		cp := *r.user
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *singleUserRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, repository.ErrNotFound
}

func (r *singleUserRepo) ExistsByEmailOrUsername(context.Context, string, string) (bool, error) {
	return false, nil
}

var _ repository.UserRepository = (*singleUserRepo)(nil)

func serve(engine *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	user := &entity.User{ID: "u1", Username: "alice", Role: entity.RoleUser}
	jwtMgr := helpers.NewJWTManager("middleware-test-secret", time.Hour)
	svc := application.NewAuthService(&singleUserRepo{user: user}, jwtMgr, nil, 4)

	engine := gin.New()
	engine.GET("/protected", Auth(svc), func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "no identity"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": u.ID})
	})

	token, _, err := jwtMgr.Generate(user.ID, user.Role.String())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "no token provided"},
		{"wrong scheme", "Basic abc123", http.StatusUnauthorized, "no token provided"},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized, "unauthorized"},
		{"valid token", "Bearer " + token, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(engine, tt.header)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
			if tt.message == "" {
				return
			}
			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["message"] != tt.message {
				t.Errorf("message = %v, want %q", body["message"], tt.message)
			}
		})
	}
}

func TestAuthRejectsTokenForDeletedUser(t *testing.T) {
	jwtMgr := helpers.NewJWTManager("middleware-test-secret", time.Hour)
	svc := application.NewAuthService(&singleUserRepo{}, jwtMgr, nil, 4)

	engine := gin.New()
	engine.GET("/protected", Auth(svc), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token, _, err := jwtMgr.Generate("gone", entity.RoleUser.String())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if w := serve(engine, "Bearer "+token); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	newEngine := func(u *entity.User) *gin.Engine {
		engine := gin.New()
		engine.GET("/protected", func(c *gin.Context) {
			if u != nil {
				c.Set(CtxUserKey, u)
				c.Set(CtxUserIDKey, u.ID)
			}
		}, RequireRole(entity.RoleAdmin), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return engine
	}

	tests := []struct {
		name   string
		user   *entity.User
		status int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"plain user", &entity.User{ID: "u1", Role: entity.RoleUser}, http.StatusForbidden},
		{"admin", &entity.User{ID: "u2", Role: entity.RoleAdmin}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := serve(newEngine(tt.user), ""); w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}

func TestRateLimitWithoutRedisIsNoop(t *testing.T) {
	engine := gin.New()
	engine.GET("/protected", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	for i := 0; i < 5; i++ {
		if w := serve(engine, ""); w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, w.Code)
		}
	}
}
