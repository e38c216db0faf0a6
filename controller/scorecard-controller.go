package controller

import (
	"time"

	"archersedge/scoring"
	"archersedge/service"

	"github.com/gin-gonic/gin"
)

type ScorecardController struct {
	scorecardService *service.ScorecardService
}

func NewScorecardController(deps *Dependencies) *ScorecardController {
	return &ScorecardController{
		scorecardService: service.NewScorecardService(deps.DB, deps.Writer, deps.Logger).
			OnScoreChange(broadcastResults(newResultsService(deps), deps.Hub, deps.Logger)),
	}
}

func setupScorecardController(deps *Dependencies) []RouteInfo {
	e := NewScorecardController(deps)
	basePath := "/scorecards"
	routes := []RouteInfo{
		{Method: "POST", Path: "", HandlerFunc: e.startScorecardHandler(), Authenticated: true},
		{Method: "GET", Path: "/:scorecard_id", HandlerFunc: e.getScorecardHandler()},
		{Method: "PUT", Path: "/:scorecard_id/arrows", HandlerFunc: e.setArrowHandler(), Authenticated: true},
		{Method: "POST", Path: "/:scorecard_id/verify", HandlerFunc: e.verifyScorecardHandler(), Authenticated: true},
	}
	for i, route := range routes {
		routes[i].Path = basePath + route.Path
	}
	return routes
}

// @id StartScorecard
// @Description Starts a round for an archer. Without a competition id the round is a practice round. Starting a competition round twice returns the existing card.
// @Tags scorecards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ScorecardCreate true "Round to start"
// @Success 201 {object} ScorecardResponse
// @Router /scorecards [post]
func (e *ScorecardController) startScorecardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var create ScorecardCreate
		if err := c.BindJSON(&create); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		archerId := create.ArcherID
		if archerId == 0 {
			archerId = getIdentity(c).ProfileID
		}
		if archerId == 0 {
			c.JSON(400, gin.H{"error": "archer_id is required"})
			return
		}
		scorecard, err := e.scorecardService.StartScorecard(c.Request.Context(), archerId, create.CompetitionID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(201, toScorecardResponse(service.NewScorecardView(scorecard)))
	}
}

// @id GetScorecard
// @Description Fetches a scorecard with its live end totals, running totals and running average
// @Tags scorecards
// @Produce json
// @Param scorecard_id path int true "Scorecard Id"
// @Success 200 {object} ScorecardResponse
// @Router /scorecards/{scorecard_id} [get]
func (e *ScorecardController) getScorecardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		scorecardId, ok := paramId(c, "scorecard_id")
		if !ok {
			return
		}
		view, err := e.scorecardService.GetScorecard(scorecardId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, toScorecardResponse(view))
	}
}

// @id SetArrow
// @Description Writes one arrow token (X, 10..1, M) into an end and slot. An empty token clears the slot. Verified scorecards reject edits.
// @Tags scorecards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param scorecard_id path int true "Scorecard Id"
// @Param body body ArrowUpdate true "Arrow"
// @Success 200 {object} ScorecardResponse
// @Router /scorecards/{scorecard_id}/arrows [put]
func (e *ScorecardController) setArrowHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		scorecardId, ok := paramId(c, "scorecard_id")
		if !ok {
			return
		}
		var update ArrowUpdate
		if err := c.BindJSON(&update); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}
		view, err := e.scorecardService.SetArrow(c.Request.Context(), scorecardId, update.End, update.Slot, update.Token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, toScorecardResponse(view))
	}
}

// @id VerifyScorecard
// @Description Verifies a complete scorecard and sends it to the results. There is no way back from verified.
// @Tags scorecards
// @Produce json
// @Security BearerAuth
// @Param scorecard_id path int true "Scorecard Id"
// @Success 200 {object} ScorecardResponse
// @Router /scorecards/{scorecard_id}/verify [post]
func (e *ScorecardController) verifyScorecardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		scorecardId, ok := paramId(c, "scorecard_id")
		if !ok {
			return
		}
		view, err := e.scorecardService.VerifyScorecard(c.Request.Context(), scorecardId, getIdentity(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, toScorecardResponse(view))
	}
}

type ScorecardCreate struct {
	ArcherID      int  `json:"archer_id"`
	CompetitionID *int `json:"competition_id"`
}

type ArrowUpdate struct {
	End   int    `json:"end" binding:"required"`
	Slot  int    `json:"slot" binding:"required"`
	Token string `json:"token"`
}

type ScorecardResponse struct {
	ID               int                           `json:"id"`
	ArcherID         int                           `json:"archer_id"`
	ArcherName       string                        `json:"archer_name"`
	Division         string                        `json:"division"`
	School           string                        `json:"school"`
	CompetitionID    *int                          `json:"competition_id"`
	CompetitionName  string                        `json:"competition_name"`
	BaleNumber       int                           `json:"bale_number"`
	TargetAssignment string                        `json:"target_assignment"`
	RoundType        string                        `json:"round_type"`
	Ends             []scoring.End                 `json:"ends"`
	EndSummaries     map[string]scoring.EndSummary `json:"end_summaries"`
	Totals           scoring.Totals                `json:"totals"`
	RunningAverage   string                        `json:"running_average"`
	Complete         bool                          `json:"complete"`
	Status           string                        `json:"status"`
	VerifiedAt       *time.Time                    `json:"verified_at"`
	VerifiedBy       string                        `json:"verified_by"`
}

func toScorecardResponse(view *service.ScorecardView) ScorecardResponse {
	return ScorecardResponse{
		ID:               view.ID,
		ArcherID:         view.ArcherID,
		ArcherName:       view.ArcherName,
		Division:         view.Division,
		School:           view.School,
		CompetitionID:    view.CompetitionID,
		CompetitionName:  view.CompetitionName,
		BaleNumber:       view.BaleNumber,
		TargetAssignment: view.TargetAssignment,
		RoundType:        view.RoundType,
		Ends:             view.Ends,
		EndSummaries:     view.LiveSummaries,
		Totals:           view.LiveTotals,
		RunningAverage:   view.RunningAverage,
		Complete:         view.Complete,
		Status:           string(view.Status),
		VerifiedAt:       view.VerifiedAt,
		VerifiedBy:       view.VerifiedBy,
	}
}
