package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"venuebook/middleware"
)

func (hb *HandlerBundle) GetSelectionHandler(c *gin.Context) {
	view, err := hb.Flow.View(c.Request.Context(), middleware.CurrentSession(c).ID)
	if err != nil {
		hb.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, view)
}

type clickInput struct {
	StartTime string `json:"start_time" binding:"required"`
}

func (hb *HandlerBundle) ClickSlotHandler(c *gin.Context) {
	var in clickInput
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidInput(c, err)
		return
	}
	view, err := hb.Flow.Click(c.Request.Context(), middleware.CurrentSession(c).ID, in.StartTime)
	if err != nil {
		hb.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, view)
}

func (hb *HandlerBundle) ClearSelectionHandler(c *gin.Context) {
	if err := hb.Flow.Clear(c.Request.Context(), middleware.CurrentSession(c).ID); err != nil {
		hb.fail(c, err, "")
		return
	}
	c.Status(http.StatusNoContent)
}
