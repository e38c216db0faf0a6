package controller

import (
	"time"

	"archersedge/auth"
	"archersedge/repository"
	"archersedge/service"
	"archersedge/utils"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	profileService   *service.ProfileService
	scorecardService *service.ScorecardService
}

func NewProfileController(deps *Dependencies) *ProfileController {
	return &ProfileController{
		profileService:   service.NewProfileService(deps.DB, deps.Logger),
		scorecardService: service.NewScorecardService(deps.DB, deps.Writer, deps.Logger),
	}
}

func setupProfileController(deps *Dependencies) []RouteInfo {
	e := NewProfileController(deps)
	basePath := "/profiles"
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: e.getProfilesHandler()},
		{Method: "POST", Path: "", HandlerFunc: e.saveProfileHandler(), Authenticated: true, RoleRequired: coachRoles},
		{Method: "POST", Path: "/import", HandlerFunc: e.importRosterHandler(), Authenticated: true, RoleRequired: coachRoles},
		{Method: "GET", Path: "/:profile_id", HandlerFunc: e.getProfileHandler()},
		{Method: "PATCH", Path: "/:profile_id/favorite", HandlerFunc: e.setFavoriteHandler(), Authenticated: true},
		{Method: "DELETE", Path: "/:profile_id", HandlerFunc: e.deleteProfileHandler(), Authenticated: true, RoleRequired: adminRoles},
		{Method: "GET", Path: "/:profile_id/history", HandlerFunc: e.getHistoryHandler()},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @id GetProfiles
// @Description Fetches all archer and coach profiles
// @Tags profiles
// @Produce json
// @Success 200 {array} ProfileResponse
// @Router /profiles [get]
func (e *ProfileController) getProfilesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		profiles, err := e.profileService.GetProfiles()
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, utils.Map(profiles, toProfileResponse))
	}
}

// @id SaveProfile
// @Description Creates a profile, or updates it when an id is given
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ProfileCreate true "Profile"
// @Success 201 {object} ProfileResponse
// @Router /profiles [post]
func (e *ProfileController) saveProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var profileCreate ProfileCreate
		if err := c.BindJSON(&profileCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		profile := profileCreate.toModel()
		if profile.Role == repository.RoleAdmin && !getIdentity(c).HasRole(auth.RoleAdmin) {
			c.JSON(403, gin.H{"error": "only admins can grant the admin role"})
			return
		}
		saved, err := e.profileService.SaveProfile(profile)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, toProfileResponse(saved))
	}
}

// @id ImportRoster
// @Description Imports a roster CSV (multipart field "file" or the raw request body). Rows matching an existing name and school update that profile.
// @Tags profiles
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file false "Roster CSV"
// @Success 201 {array} ProfileResponse
// @Router /profiles/import [post]
func (e *ProfileController) importRosterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		body := c.Request.Body
		if file, err := c.FormFile("file"); err == nil {
			opened, err := file.Open()
			if err != nil {
				c.JSON(400, gin.H{"error": err.Error()})
				return
			}
			defer utils.Closer(opened)()
			body = opened
		}
		profiles, err := e.profileService.ImportRoster(body)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, utils.Map(profiles, toProfileResponse))
	}
}

// @id GetProfile
// @Description Fetches a profile
// @Tags profiles
// @Produce json
// @Param profile_id path int true "Profile Id"
// @Success 200 {object} ProfileResponse
// @Router /profiles/{profile_id} [get]
func (e *ProfileController) getProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		profileId, ok := paramId(c, "profile_id")
		if !ok {
			return
		}
		profile, err := e.profileService.GetProfile(profileId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, toProfileResponse(profile))
	}
}

// @id SetFavorite
// @Description Marks or unmarks a profile as favourite
// @Tags profiles
// @Accept json
// @Security BearerAuth
// @Param profile_id path int true "Profile Id"
// @Param body body FavoriteUpdate true "Favourite flag"
// @Success 204
// @Router /profiles/{profile_id}/favorite [patch]
func (e *ProfileController) setFavoriteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		profileId, ok := paramId(c, "profile_id")
		if !ok {
			return
		}
		var update FavoriteUpdate
		if err := c.BindJSON(&update); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		if err := e.profileService.SetFavorite(profileId, update.Favorite); err != nil {
			respondError(c, err)
			return
		}
		c.Status(204)
	}
}

// @id DeleteProfile
// @Description Deletes a profile
// @Tags profiles
// @Security BearerAuth
// @Param profile_id path int true "Profile Id"
// @Success 204
// @Router /profiles/{profile_id} [delete]
func (e *ProfileController) deleteProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		profileId, ok := paramId(c, "profile_id")
		if !ok {
			return
		}
		if err := e.profileService.DeleteProfile(profileId); err != nil {
			respondError(c, err)
			return
		}
		c.Status(204)
	}
}

// @id GetScoreHistory
// @Description Lists the verified scorecards of an archer, newest first
// @Tags profiles
// @Produce json
// @Param profile_id path int true "Profile Id"
// @Success 200 {array} ScorecardResponse
// @Router /profiles/{profile_id}/history [get]
func (e *ProfileController) getHistoryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		profileId, ok := paramId(c, "profile_id")
		if !ok {
			return
		}
		history, err := e.scorecardService.GetHistory(profileId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, utils.Map(history, func(s *repository.Scorecard) ScorecardResponse {
			return toScorecardResponse(service.NewScorecardView(s))
		}))
	}
}

type ProfileCreate struct {
	ID                    int    `json:"id"`
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	Gender                string `json:"gender"`
	School                string `json:"school"`
	DefaultClassification string `json:"default_classification"`
	Role                  string `json:"role"`
	IsFavorite            bool   `json:"is_favorite"`
}

func (p *ProfileCreate) toModel() *repository.Profile {
	return &repository.Profile{
		ID:                    p.ID,
		FirstName:             p.FirstName,
		LastName:              p.LastName,
		Gender:                p.Gender,
		School:                p.School,
		DefaultClassification: p.DefaultClassification,
		Role:                  repository.Role(p.Role),
		IsFavorite:            p.IsFavorite,
	}
}

type FavoriteUpdate struct {
	Favorite bool `json:"favorite"`
}

type ProfileResponse struct {
	ID                    int       `json:"id"`
	FirstName             string    `json:"first_name"`
	LastName              string    `json:"last_name"`
	Gender                string    `json:"gender"`
	School                string    `json:"school"`
	DefaultClassification string    `json:"default_classification"`
	Division              string    `json:"division"`
	Role                  string    `json:"role"`
	IsMe                  bool      `json:"is_me"`
	IsFavorite            bool      `json:"is_favorite"`
	CreatedAt             time.Time `json:"created_at"`
}

func toProfileResponse(profile *repository.Profile) ProfileResponse {
	return ProfileResponse{
		ID:                    profile.ID,
		FirstName:             profile.FirstName,
		LastName:              profile.LastName,
		Gender:                profile.Gender,
		School:                profile.School,
		DefaultClassification: profile.DefaultClassification,
		Division:              profile.Division(),
		Role:                  string(profile.Role),
		IsMe:                  profile.IsMe,
		IsFavorite:            profile.IsFavorite,
		CreatedAt:             profile.CreatedAt,
	}
}
