package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	sessionRepo "venuebook/database/repository/session"
	"venuebook/middleware"
	"venuebook/services/api"
	"venuebook/services/booking"
	"venuebook/services/selection"
	"venuebook/services/session"
	"venuebook/utils"
)

// fail maps err onto a browser response. notFound, when set, is where a
// backend 404 sends the browser.
func (hb *HandlerBundle) fail(c *gin.Context, err error, notFound string) {
	logger := getLogger(c)
	lang := langOf(c)
	_ = c.Error(err)

	var apiErr *api.Error
	switch {
	case errors.Is(err, session.ErrSessionExpired):
		utils.Redirect(c, http.StatusUnauthorized, tr(msgSessionExpired, lang), "/login")

	case api.IsUnauthorized(err):
		// The backend still refuses after any refresh attempt; forget the tokens.
		if bs := middleware.CurrentSession(c); bs != nil {
			if cerr := (sessionRepo.TokenBinding{Repo: hb.Sessions, ID: bs.ID}).Clear(c.Request.Context()); cerr != nil {
				logger.Error("failed to clear tokens", zap.Error(cerr))
			}
		}
		utils.Redirect(c, http.StatusUnauthorized, tr(msgSessionExpired, lang), "/login")

	case api.IsNotFound(err) && notFound != "":
		utils.Redirect(c, http.StatusNotFound, tr(msgNotFound, lang), notFound)

	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status >= 500 {
			logger.Warn("backend error", zap.Int("status", status), zap.ByteString("body", apiErr.Body))
			status = http.StatusBadGateway
		}
		c.AbortWithStatusJSON(status, utils.ErrorResponse{Message: apiErr.Message, Fields: apiErr.Fields})

	case api.IsTransport(err):
		logger.Warn("backend unreachable", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusBadGateway, utils.ErrorResponse{Message: api.GenericMessage(lang)})

	case errors.Is(err, booking.ErrNoSelection):
		badRequest(c, tr(msgNoSelection, lang), "")
	case booking.IsDateError(err):
		badRequest(c, tr(msgInvalidDate, lang), err.Error())
	case errors.Is(err, selection.ErrUnknownSlot):
		badRequest(c, tr(msgUnknownSlot, lang), err.Error())
	case errors.Is(err, selection.ErrNotLoaded):
		c.AbortWithStatusJSON(http.StatusConflict, utils.ErrorResponse{Message: tr(msgNotLoaded, lang)})

	default:
		logger.Error("request failed", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, utils.ErrorResponse{Message: api.GenericMessage(lang)})
	}
}

func badRequest(c *gin.Context, message, details string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, utils.ErrorResponse{Message: message, Details: details})
}

func invalidInput(c *gin.Context, err error) {
	badRequest(c, tr(msgInvalidInput, langOf(c)), err.Error())
}

// idParam parses a positive numeric path parameter.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, tr(msgInvalidInput, langOf(c)), "invalid "+name)
		return 0, false
	}
	return id, true
}
