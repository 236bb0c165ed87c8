//go:build unit

package api_test

import (
	"net/http/httptest"
	"strings"

	"calmtable/internal/domain/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// authAs fakes the authentication middleware, injecting an identity the way
// the real bearer middleware would.
func authAs(userID uuid.UUID, email string, role user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("user_email", email)
		c.Set("user_role", role)
		c.Next()
	}
}
