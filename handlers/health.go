package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"venuebook/utils"
)

func (hb *HandlerBundle) HealthHandler(c *gin.Context) {
	var redis map[string]bool
	if hb.Ping != nil {
		redis = hb.Ping(c.Request.Context())
	}
	status := utils.NewHealthStatus(redis)
	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
