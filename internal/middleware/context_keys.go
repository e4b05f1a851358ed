package middleware

import "github.com/gin-gonic/gin"

const (
	userIDKey = contextKey("userID")
	rolesKey  = contextKey("roles")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userIDVal, exists := c.Get(string(userIDKey)); exists {
		userID, ok := userIDVal.(string)
		return userID, ok
	}
	// check in the request context as well
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetRolesFromContext retrieves the roles granted to the authenticated caller.
func GetRolesFromContext(c *gin.Context) []string {
	roles, _ := c.Request.Context().Value(rolesKey).([]string)
	return roles
}
