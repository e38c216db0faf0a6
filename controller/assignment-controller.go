package controller

import (
	"time"

	"archersedge/repository"
	"archersedge/scoring"
	"archersedge/service"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	assignmentService *service.AssignmentService
}

func NewAssignmentController(deps *Dependencies) *AssignmentController {
	return &AssignmentController{
		assignmentService: service.NewAssignmentService(deps.DB, deps.Logger),
	}
}

func setupAssignmentController(deps *Dependencies) []RouteInfo {
	e := NewAssignmentController(deps)
	basePath := "/competitions/:competition_id/assignment"
	routes := []RouteInfo{
		{Method: "GET", Path: "", HandlerFunc: e.getAssignmentHandler()},
		{Method: "PUT", Path: "", HandlerFunc: e.generateAssignmentHandler(), Authenticated: true, RoleRequired: coachRoles},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @id GetAssignment
// @Description Fetches the bale assignment of a competition
// @Tags assignments
// @Produce json
// @Param competition_id path int true "Competition Id"
// @Success 200 {object} AssignmentResponse
// @Router /competitions/{competition_id}/assignment [get]
func (e *AssignmentController) getAssignmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		competitionId, ok := paramId(c, "competition_id")
		if !ok {
			return
		}
		assignment, err := e.assignmentService.GetAssignment(competitionId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, toAssignmentResponse(assignment))
	}
}

// @id GenerateAssignment
// @Description Checks bale capacity, generates bales for the selected archers and replaces the competition's assignment
// @Tags assignments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param competition_id path int true "Competition Id"
// @Param body body service.AssignmentRequest true "Assignment settings"
// @Success 200 {object} AssignmentResponse
// @Router /competitions/{competition_id}/assignment [put]
func (e *AssignmentController) generateAssignmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		competitionId, ok := paramId(c, "competition_id")
		if !ok {
			return
		}
		var request service.AssignmentRequest
		if err := c.BindJSON(&request); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		assignment, err := e.assignmentService.GenerateAssignment(competitionId, request, getIdentity(c).ProfileID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, toAssignmentResponse(assignment))
	}
}

type AssignmentResponse struct {
	CompetitionID     int            `json:"competition_id"`
	AssignmentType    string         `json:"assignment_type"`
	ArcherIDs         []int64        `json:"archer_ids"`
	NumberOfBales     int            `json:"number_of_bales"`
	MaxArchersPerBale int            `json:"max_archers_per_bale"`
	Bales             []scoring.Bale `json:"bales"`
	Status            string         `json:"status"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func toAssignmentResponse(assignment *repository.EventAssignment) AssignmentResponse {
	return AssignmentResponse{
		CompetitionID:     assignment.CompetitionID,
		AssignmentType:    string(assignment.AssignmentType),
		ArcherIDs:         assignment.ArcherIDs,
		NumberOfBales:     assignment.NumberOfBales,
		MaxArchersPerBale: assignment.MaxArchersPerBale,
		Bales:             assignment.Bales,
		Status:            string(assignment.Status),
		UpdatedAt:         assignment.UpdatedAt,
	}
}
