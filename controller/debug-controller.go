package controller

import (
	"time"

	"archersedge/service"

	"github.com/gin-gonic/gin"
)

type DebugController struct {
	debugService   *service.DebugService
	resultsService *service.ResultsService
}

func NewDebugController(deps *Dependencies) *DebugController {
	return &DebugController{
		debugService: service.NewDebugService(deps.DB, deps.Snapshot),
		resultsService: service.NewResultsService(
			deps.DB,
			service.NewProfileService(deps.DB, deps.Logger),
			deps.Snapshot,
			deps.Logger,
		),
	}
}

func setupDebugController(deps *Dependencies) []RouteInfo {
	e := NewDebugController(deps)
	return []RouteInfo{
		{Method: "GET", Path: "/debug/storage", HandlerFunc: e.storageReportHandler(), Authenticated: true, RoleRequired: adminRoles},
		{Method: "POST", Path: "/debug/profiles/snapshot", HandlerFunc: e.refreshSnapshotHandler(), Authenticated: true, RoleRequired: adminRoles},
	}
}

// @id StorageReport
// @Description Reports row counts and the state of the profile snapshot cache
// @Tags debug
// @Produce json
// @Security BearerAuth
// @Success 200 {object} StorageReportResponse
// @Router /debug/storage [get]
func (e *DebugController) storageReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := e.debugService.StorageReport()
		if err != nil {
			respondError(c, err)
			return
		}
		response := StorageReportResponse{
			Profiles:            report.Profiles,
			Competitions:        report.Competitions,
			Scorecards:          make(map[string]int64, len(report.Scorecards)),
			CachedResults:       report.CachedResults,
			ProfileSnapshotSize: report.ProfileSnapshotSize,
		}
		for status, count := range report.Scorecards {
			response.Scorecards[string(status)] = count
		}
		if !report.ProfileSnapshotTaken.IsZero() {
			response.ProfileSnapshotTaken = &report.ProfileSnapshotTaken
		}
		c.JSON(200, response)
	}
}

// @id RefreshProfileSnapshot
// @Description Copies the current profiles into the snapshot cache used when the profile store is unavailable
// @Tags debug
// @Produce json
// @Security BearerAuth
// @Success 200 {object} SnapshotResponse
// @Router /debug/profiles/snapshot [post]
func (e *DebugController) refreshSnapshotHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := e.resultsService.RefreshProfileSnapshot(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, SnapshotResponse{Profiles: count})
	}
}

type StorageReportResponse struct {
	Profiles             int64            `json:"profiles"`
	Competitions         int64            `json:"competitions"`
	Scorecards           map[string]int64 `json:"scorecards"`
	CachedResults        int64            `json:"cached_results"`
	ProfileSnapshotSize  int              `json:"profile_snapshot_size"`
	ProfileSnapshotTaken *time.Time       `json:"profile_snapshot_taken"`
}

type SnapshotResponse struct {
	Profiles int `json:"profiles"`
}
