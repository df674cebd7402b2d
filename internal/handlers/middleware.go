package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID       = "userId"
	bearerScheme    = "Bearer"
	tokenQueryParam = "token"

	errMissingAuthHeader = "missing Authorization header"
	errBadAuthHeader     = "invalid Authorization header format"
	errBadToken          = "invalid or expired token"
)

// userIdMiddleware guards operator endpoints with a bearer JWT.
func (h *Handler) userIdMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errMissingAuthHeader})
		return
	}

	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || scheme != bearerScheme || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errBadAuthHeader})
		return
	}

	h.authenticate(c, token)
}

// streamAuthMiddleware is userIdMiddleware that also takes the JWT from ?token=,
// for websocket clients that cannot set request headers.
func (h *Handler) streamAuthMiddleware(c *gin.Context) {
	if token := strings.TrimSpace(c.Query(tokenQueryParam)); token != "" {
		h.authenticate(c, token)
		return
	}
	h.userIdMiddleware(c)
}

func (h *Handler) authenticate(c *gin.Context, token string) {
	userID, err := h.services.ParseToken(token)
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_token_rejected", "path", c.FullPath(), "err", err)
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errBadToken})
		return
	}

	c.Set(ctxUserID, userID)
	c.Next()
}
