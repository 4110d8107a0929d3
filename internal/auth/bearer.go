package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const bearerPrefix = "bearer "

// ReadToken returns the bearer token from the Authorization header.
func ReadToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}
