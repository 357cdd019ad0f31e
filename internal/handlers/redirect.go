package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/kursgid/kursgid-api/internal/config"
)

// Tracking parameters forwarded to the affiliate network as-is.
var redirectParams = []string{"sub1", "sub2", "sub4", "sub5", "keyword", "position"}

// Redirect forwards the visitor to the affiliate tracking domain, passing the
// destination link as dl plus any tracking parameters present on the request.
func Redirect(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		dl := c.Query("dl")
		if dl == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "dl parameter is required",
				},
			})
			return
		}

		target, err := url.Parse(cfg.RedirectDomain)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Redirect is misconfigured",
				},
			})
			return
		}

		query := target.Query()
		query.Set("dl", dl)
		for _, param := range redirectParams {
			if value := c.Query(param); value != "" {
				query.Set(param, value)
			}
		}
		target.RawQuery = query.Encode()

		c.Redirect(http.StatusFound, target.String())
	}
}
