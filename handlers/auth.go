package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"venuebook/models"
	"venuebook/utils"
)

// validPhone normalizes phone in place and answers with a field error shaped
// like the backend's when it is not an Uzbek number.
func validPhone(c *gin.Context, phone *string) bool {
	*phone = utils.NormalizePhone(*phone)
	if utils.ValidPhone(*phone) {
		return true
	}
	msg := tr(msgPhoneFormat, langOf(c))
	c.AbortWithStatusJSON(http.StatusBadRequest, utils.ErrorResponse{
		Message: msg,
		Fields:  map[string][]string{"phone_number": {msg}},
	})
	return false
}

// SendOTPHandler asks the backend to text a one-time code.
func (hb *HandlerBundle) SendOTPHandler(c *gin.Context) {
	var in models.SendOTPRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidInput(c, err)
		return
	}
	if !validPhone(c, &in.PhoneNumber) {
		return
	}

	_, client := hb.backend(c)
	if err := client.SendOTP(c.Request.Context(), in.PhoneNumber); err != nil {
		hb.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": tr(msgOTPSent, langOf(c))})
}

// VerifyOTPHandler exchanges the code for a token pair, stores it in the
// browser session and returns the user.
func (hb *HandlerBundle) VerifyOTPHandler(c *gin.Context) {
	var in models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidInput(c, err)
		return
	}
	if !validPhone(c, &in.PhoneNumber) {
		return
	}

	ctx := c.Request.Context()
	mgr, client := hb.backend(c)
	tokens, err := client.VerifyOTP(ctx, in.PhoneNumber, in.OTP)
	if err != nil {
		hb.fail(c, err, "")
		return
	}
	if err := mgr.Login(ctx, tokens); err != nil {
		hb.fail(c, err, "")
		return
	}

	user, err := client.Me(ctx)
	if err != nil {
		hb.fail(c, err, "")
		return
	}
	getLogger(c).Info("user logged in", zap.Int64("userID", user.ID))
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (hb *HandlerBundle) LogoutHandler(c *gin.Context) {
	mgr, _ := hb.backend(c)
	if err := mgr.Logout(c.Request.Context()); err != nil {
		hb.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": tr(msgLoggedOut, langOf(c))})
}

// MeHandler returns the profile. A backend refusal ends the login.
func (hb *HandlerBundle) MeHandler(c *gin.Context) {
	_, client := hb.backend(c)
	user, err := client.Me(c.Request.Context())
	if err != nil {
		hb.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (hb *HandlerBundle) UpdateMeHandler(c *gin.Context) {
	var in models.UserUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		invalidInput(c, err)
		return
	}
	_, client := hb.backend(c)
	user, err := client.UpdateMe(c.Request.Context(), in)
	if err != nil {
		hb.fail(c, err, "")
		return
	}
	c.JSON(http.StatusOK, user)
}

