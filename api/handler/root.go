package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LivenessMessage is the body of GET /.
const LivenessMessage = "ogcrawl is running"

// Root returns a handler for GET /.
func Root() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, LivenessMessage)
	}
}
