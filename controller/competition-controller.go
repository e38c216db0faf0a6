package controller

import (
	"time"

	"archersedge/repository"
	"archersedge/service"
	"archersedge/utils"

	"github.com/gin-gonic/gin"
)

type CompetitionController struct {
	competitionService *service.CompetitionService
}

func NewCompetitionController(deps *Dependencies) *CompetitionController {
	return &CompetitionController{
		competitionService: service.NewCompetitionService(deps.DB, deps.Logger),
	}
}

func setupCompetitionController(deps *Dependencies) []RouteInfo {
	e := NewCompetitionController(deps)
	basePath := "/competitions"
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: e.getCompetitionsHandler()},
		{Method: "POST", Path: "", HandlerFunc: e.createCompetitionHandler(), Authenticated: true, RoleRequired: coachRoles},
		{Method: "GET", Path: "/:competition_id", HandlerFunc: e.getCompetitionHandler()},
		{Method: "PATCH", Path: "/:competition_id", HandlerFunc: e.updateCompetitionHandler(), Authenticated: true, RoleRequired: coachRoles},
		{Method: "DELETE", Path: "/:competition_id", HandlerFunc: e.deleteCompetitionHandler(), Authenticated: true, RoleRequired: coachRoles},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @id GetCompetitions
// @Description Fetches all competitions, newest first
// @Tags competitions
// @Produce json
// @Success 200 {array} CompetitionResponse
// @Router /competitions [get]
func (e *CompetitionController) getCompetitionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		competitions, err := e.competitionService.GetCompetitions()
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, utils.Map(competitions, toCompetitionResponse))
	}
}

// @id CreateCompetition
// @Description Creates a competition
// @Tags competitions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CompetitionCreate true "Competition"
// @Success 201 {object} CompetitionResponse
// @Router /competitions [post]
func (e *CompetitionController) createCompetitionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var competitionCreate CompetitionCreate
		if err := c.BindJSON(&competitionCreate); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		competition := competitionCreate.toModel()
		competition.CreatedBy = getIdentity(c).ProfileID
		saved, err := e.competitionService.CreateCompetition(competition)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, toCompetitionResponse(saved))
	}
}

// @id GetCompetition
// @Description Fetches a competition
// @Tags competitions
// @Produce json
// @Param competition_id path int true "Competition Id"
// @Success 200 {object} CompetitionResponse
// @Router /competitions/{competition_id} [get]
func (e *CompetitionController) getCompetitionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		competitionId, ok := paramId(c, "competition_id")
		if !ok {
			return
		}
		competition, err := e.competitionService.GetCompetition(competitionId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, toCompetitionResponse(competition))
	}
}

// @id UpdateCompetition
// @Description Updates the given fields of a competition
// @Tags competitions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param competition_id path int true "Competition Id"
// @Param body body CompetitionUpdate true "Fields to change"
// @Success 200 {object} CompetitionResponse
// @Router /competitions/{competition_id} [patch]
func (e *CompetitionController) updateCompetitionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		competitionId, ok := paramId(c, "competition_id")
		if !ok {
			return
		}
		var update CompetitionUpdate
		if err := c.BindJSON(&update); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		competition, err := e.competitionService.UpdateCompetition(competitionId, update.toModel())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, toCompetitionResponse(competition))
	}
}

// @id DeleteCompetition
// @Description Deletes a competition with its assignment and cached results
// @Tags competitions
// @Security BearerAuth
// @Param competition_id path int true "Competition Id"
// @Success 204
// @Router /competitions/{competition_id} [delete]
func (e *CompetitionController) deleteCompetitionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		competitionId, ok := paramId(c, "competition_id")
		if !ok {
			return
		}
		if err := e.competitionService.DeleteCompetition(competitionId); err != nil {
			respondError(c, err)
			return
		}
		c.Status(204)
	}
}

type CompetitionCreate struct {
	Name      string    `json:"name" binding:"required"`
	Date      time.Time `json:"date" binding:"required"`
	Location  string    `json:"location"`
	Type      string    `json:"type"`
	Divisions []string  `json:"divisions"`
	Status    string    `json:"status"`
}

func (c *CompetitionCreate) toModel() *repository.Competition {
	return &repository.Competition{
		Name:      c.Name,
		Date:      c.Date,
		Location:  c.Location,
		Type:      c.Type,
		Divisions: c.Divisions,
		Status:    repository.CompetitionStatus(c.Status),
	}
}

type CompetitionUpdate struct {
	Name      string     `json:"name"`
	Date      *time.Time `json:"date"`
	Location  string     `json:"location"`
	Type      string     `json:"type"`
	Divisions []string   `json:"divisions"`
	Status    string     `json:"status"`
}

func (u *CompetitionUpdate) toModel() *repository.Competition {
	competition := &repository.Competition{
		Name:      u.Name,
		Location:  u.Location,
		Type:      u.Type,
		Divisions: u.Divisions,
		Status:    repository.CompetitionStatus(u.Status),
	}
	if u.Date != nil {
		competition.Date = *u.Date
	}
	return competition
}

type CompetitionResponse struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	Location  string    `json:"location"`
	Type      string    `json:"type"`
	Divisions []string  `json:"divisions"`
	Status    string    `json:"status"`
}

func toCompetitionResponse(competition *repository.Competition) CompetitionResponse {
	return CompetitionResponse{
		ID:        competition.ID,
		Name:      competition.Name,
		Date:      competition.Date,
		Location:  competition.Location,
		Type:      competition.Type,
		Divisions: competition.Divisions,
		Status:    string(competition.Status),
	}
}
