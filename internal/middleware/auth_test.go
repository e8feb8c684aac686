package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tazeembhat/PaymentsApp/internal/token"
)

func newGuardedRouter(t *testing.T, tokens *token.Service) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(tokens), func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "no user in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": userID})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	tokens, err := token.NewService("test-secret")
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}
	signed, err := tokens.Issue("usr-0000000001")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	otherTokens, _ := token.NewService("other-secret")
	foreign, _ := otherTokens.Issue("usr-0000000001")

	// Correctly signed, but the subject is not an ID this service mints.
	foreignSubject, err := tokens.Issue("admin")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{name: "valid bearer token", authHeader: "Bearer " + signed, expectedStatus: http.StatusOK},
		{name: "missing header", authHeader: "", expectedStatus: http.StatusUnauthorized},
		{name: "no bearer prefix", authHeader: signed, expectedStatus: http.StatusUnauthorized},
		{name: "wrong scheme", authHeader: "Basic " + signed, expectedStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer not-a-token", expectedStatus: http.StatusUnauthorized},
		{name: "token signed with another secret", authHeader: "Bearer " + foreign, expectedStatus: http.StatusUnauthorized},
		{name: "token subject without user prefix", authHeader: "Bearer " + foreignSubject, expectedStatus: http.StatusUnauthorized},
	}

	router := newGuardedRouter(t, tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected status %d, got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareInjectsUserID(t *testing.T) {
	tokens, _ := token.NewService("test-secret")
	signed, _ := tokens.Issue("usr-0000000001")

	router := newGuardedRouter(t, tokens)
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d; body: %s", w.Code, w.Body.String())
	}
	if body := w.Body.String(); !strings.Contains(body, "usr-0000000001") {
		t.Errorf("expected resolved user id in response, got %s", body)
	}
}
