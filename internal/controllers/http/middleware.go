package http

import (
	"net/http"
	"strconv"

	"storefront/internal/domain"

	"github.com/gin-gonic/gin"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	actorKey = "actor"
)

// Identity reads the caller resolved by the gateway. Missing or malformed
// headers leave the actor anonymous; services decide what that allows.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		var a domain.Actor
		if id, err := strconv.ParseUint(c.GetHeader(HeaderUserID), 10, 64); err == nil {
			a.UserID = id
			a.Role = c.GetHeader(HeaderUserRole)
		}
		c.Set(actorKey, a)
		c.Next()
	}
}

func actorFrom(c *gin.Context) domain.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(domain.Actor); ok {
			return a
		}
	}
	return domain.Actor{}
}

func parseID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}
