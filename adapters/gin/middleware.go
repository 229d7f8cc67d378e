package gin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beekeeper-studio/vite-plugin/base"
)

// Middleware creates a Gin middleware using the shared plugin logic.
func Middleware(manifestID func() string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == base.InfoPath {
			c.Header("Access-Control-Allow-Origin", "*")
			c.Data(http.StatusOK, base.InfoContentType, base.InfoResponse(manifestID()))
			c.Abort()
			return
		}

		if base.CheckOrigin(c.GetHeader("Origin"), manifestID()) == base.Block {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Next()
	}
}
