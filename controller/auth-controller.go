package controller

import (
	"archersedge/service"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	profileService *service.ProfileService
}

func NewAuthController(deps *Dependencies) *AuthController {
	return &AuthController{profileService: service.NewProfileService(deps.DB, deps.Logger)}
}

func setupAuthController(deps *Dependencies) []RouteInfo {
	e := NewAuthController(deps)
	return []RouteInfo{
		{Method: "POST", Path: "/auth/identity", HandlerFunc: e.selectIdentityHandler()},
	}
}

// @id SelectIdentity
// @Description Selects the profile the device acts as and returns an identity token for it
// @Tags auth
// @Accept json
// @Produce json
// @Param body body IdentityRequest true "Profile to act as"
// @Success 200 {object} IdentityResponse
// @Router /auth/identity [post]
func (e *AuthController) selectIdentityHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request IdentityRequest
		if err := c.BindJSON(&request); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		profile, token, err := e.profileService.SelectIdentity(request.ProfileID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, IdentityResponse{Token: token, Profile: toProfileResponse(profile)})
	}
}

type IdentityRequest struct {
	ProfileID int `json:"profile_id" binding:"required"`
}

type IdentityResponse struct {
	Token   string          `json:"token"`
	Profile ProfileResponse `json:"profile"`
}
