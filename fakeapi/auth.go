package fakeapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"venuebook/models"
	"venuebook/utils"
)

const userIDKey = "userID"

// IssueTokens logs phone in directly, creating the user if needed.
func (s *Server) IssueTokens(phone string) (models.TokenPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issue(s.userFor(phone).ID)
}

// ExpireAccessTokens invalidates every access token issued so far; refresh
// tokens stay valid.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.issuedAccess {
		s.revoked[t] = true
	}
	s.issuedAccess = nil
}

// RevokeRefresh invalidates one refresh token.
func (s *Server) RevokeRefresh(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[token] = true
}

func (s *Server) userFor(phone string) *models.User {
	if id, ok := s.usersByPhone[phone]; ok {
		return s.users[id]
	}
	s.nextUserID++
	u := &models.User{ID: s.nextUserID, PhoneNumber: phone, IsActive: true, CreatedAt: s.Now()}
	s.users[u.ID] = u
	s.usersByPhone[phone] = u.ID
	return u
}

func (s *Server) issue(userID int64) (models.TokenPair, error) {
	sub := strconv.FormatInt(userID, 10)
	access, err := utils.GenerateToken(s.secret, sub, utils.AccessToken, s.AccessTTL)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, err := utils.GenerateToken(s.secret, sub, utils.RefreshToken, s.RefreshTTL)
	if err != nil {
		return models.TokenPair{}, err
	}
	s.issuedAccess = append(s.issuedAccess, access)
	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *Server) sendOTP(c *gin.Context) {
	var in models.SendOTPRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		fieldError(c, "phone_number", "This field is required.")
		return
	}
	if !utils.ValidPhone(in.PhoneNumber) {
		fieldError(c, "phone_number", "Phone number must be in the format +998XXXXXXXXX.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "OTP sent successfully."})
}

func (s *Server) verifyOTP(c *gin.Context) {
	var in models.VerifyOTPRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		fieldError(c, "otp", "This field is required.")
		return
	}
	if in.OTP != OTP {
		detail(c, http.StatusBadRequest, "Invalid or expired OTP.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.userFor(in.PhoneNumber)
	u.IsVerified = true
	tokens, err := s.issue(u.ID)
	if err != nil {
		detail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// refresh rotates the pair. The presented refresh token keeps working until
// it expires unless BlacklistAfterRotation is set.
func (s *Server) refresh(c *gin.Context) {
	var in struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fieldError(c, "refresh", "This field is required.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sub, err := utils.ValidateToken(s.secret, in.Refresh, utils.RefreshToken)
	if err != nil || s.revoked[in.Refresh] {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		detail(c, http.StatusUnauthorized, "Token is invalid or expired")
		return
	}
	if s.BlacklistAfterRotation {
		s.revoked[in.Refresh] = true
	}
	tokens, err := s.issue(userID)
	if err != nil {
		detail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		detail(c, http.StatusUnauthorized, "Authentication credentials were not provided.")
		return
	}
	token := strings.TrimPrefix(header, "Bearer ")

	s.mu.Lock()
	revoked := s.revoked[token]
	s.mu.Unlock()

	sub, err := utils.ValidateToken(s.secret, token, utils.AccessToken)
	if err != nil || revoked {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Given token not valid for any token type", "code": "token_not_valid"})
		return
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		detail(c, http.StatusUnauthorized, "Given token not valid for any token type")
		return
	}
	c.Set(userIDKey, id)
	c.Next()
}

func (s *Server) me(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[c.GetInt64(userIDKey)]
	if !ok {
		detail(c, http.StatusUnauthorized, "User not found")
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) updateMe(c *gin.Context) {
	var in models.UserUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		fieldError(c, "name", "Ensure this field has no more than 255 characters.")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[c.GetInt64(userIDKey)]
	if !ok {
		detail(c, http.StatusUnauthorized, "User not found")
		return
	}
	u.Name = in.Name
	c.JSON(http.StatusOK, u)
}
