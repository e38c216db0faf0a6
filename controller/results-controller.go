package controller

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"archersedge/metrics"
	"archersedge/scoring"
	"archersedge/service"
	"archersedge/utils"

	gincache "github.com/gin-contrib/cache"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// ResultsHub tracks live result subscribers per competition.
type ResultsHub struct {
	mu          sync.Mutex
	connections map[int]map[*websocket.Conn]bool
	logger      *slog.Logger
}

func NewResultsHub(logger *slog.Logger) *ResultsHub {
	return &ResultsHub{
		connections: make(map[int]map[*websocket.Conn]bool),
		logger:      logger,
	}
}

func (h *ResultsHub) add(competitionId int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[competitionId]; !ok {
		h.connections[competitionId] = make(map[*websocket.Conn]bool)
	}
	h.connections[competitionId][conn] = true
	metrics.LiveResultSubscribersGauge.Inc()
}

func (h *ResultsHub) remove(competitionId int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(competitionId, conn)
}

func (h *ResultsHub) removeLocked(competitionId int, conn *websocket.Conn) {
	if !h.connections[competitionId][conn] {
		return
	}
	delete(h.connections[competitionId], conn)
	if len(h.connections[competitionId]) == 0 {
		delete(h.connections, competitionId)
	}
	metrics.LiveResultSubscribersGauge.Dec()
}

func (h *ResultsHub) Subscribers(competitionId int) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.connections[competitionId])
}

// Broadcast sends results to every subscriber of the competition. Subscribers
// that cannot be written to are dropped.
func (h *ResultsHub) Broadcast(competitionId int, results *scoring.CompetitionResults) {
	serialized, err := json.Marshal(toResultsResponse(competitionId, results, time.Now()))
	if err != nil {
		h.logger.Error("could not serialize results", slog.Any("error", err))
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.connections[competitionId] {
		if err := conn.WriteMessage(websocket.TextMessage, serialized); err != nil {
			h.removeLocked(competitionId, conn)
			conn.Close()
		}
	}
}

type ResultsController struct {
	resultsService *service.ResultsService
	hub            *ResultsHub
}

func newResultsService(deps *Dependencies) *service.ResultsService {
	return service.NewResultsService(
		deps.DB,
		service.NewProfileService(deps.DB, deps.Logger),
		deps.Snapshot,
		deps.Logger,
	)
}

func NewResultsController(deps *Dependencies) *ResultsController {
	return &ResultsController{
		resultsService: newResultsService(deps),
		hub:            deps.Hub,
	}
}

// broadcastResults recomputes a competition after a score change and pushes it
// to the live subscribers. Nothing is computed while nobody is listening.
func broadcastResults(results *service.ResultsService, hub *ResultsHub, logger *slog.Logger) service.ScoreChangeListener {
	return func(ctx context.Context, competitionId int) {
		if hub.Subscribers(competitionId) == 0 {
			return
		}
		computed, err := results.RefreshResults(ctx, competitionId)
		if err != nil {
			logger.WarnContext(ctx, "could not push live results",
				slog.Int("competition_id", competitionId),
				slog.Any("error", err),
			)
			return
		}
		hub.Broadcast(competitionId, computed)
	}
}

func setupResultsController(deps *Dependencies) []RouteInfo {
	e := NewResultsController(deps)
	return []RouteInfo{
		{Method: "GET", Path: "/competitions/:competition_id/results", HandlerFunc: gincache.CachePage(deps.CacheStore, 10*time.Second, e.getResultsHandler())},
		{Method: "GET", Path: "/competitions/:competition_id/results/ws", HandlerFunc: e.resultsWebSocketHandler},
		{Method: "GET", Path: "/results/overview", HandlerFunc: gincache.CachePage(deps.CacheStore, 30*time.Second, e.getOverviewHandler())},
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// allow any host origin to connect to the websocket
		return true
	},
}

// @id GetResults
// @Description Fetches the rankings, division tables and stats of a competition
// @Tags results
// @Produce json
// @Param competition_id path int true "Competition Id"
// @Success 200 {object} ResultsResponse
// @Router /competitions/{competition_id}/results [get]
func (e *ResultsController) getResultsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		competitionId, ok := paramId(c, "competition_id")
		if !ok {
			return
		}
		results, updatedAt, err := e.resultsService.GetResults(c.Request.Context(), competitionId)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, toResultsResponse(competitionId, results, updatedAt))
	}
}

// @id ResultsWebSocket
// @Description Websocket for live results. The current results are sent on connect and again whenever a scorecard of the competition is verified.
// @Tags results
// @Param competition_id path int true "Competition Id"
// @Success 200 {object} ResultsResponse
// @Router /competitions/{competition_id}/results/ws [get]
func (e *ResultsController) resultsWebSocketHandler(c *gin.Context) {
	competitionId, ok := paramId(c, "competition_id")
	if !ok {
		return
	}
	results, updatedAt, err := e.resultsService.GetResults(c.Request.Context(), competitionId)
	if err != nil {
		respondError(c, err)
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer utils.Closer(conn)()

	serialized, err := json.Marshal(toResultsResponse(competitionId, results, updatedAt))
	if err != nil {
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, serialized); err != nil {
		return
	}

	e.hub.add(competitionId, conn)
	defer e.hub.remove(competitionId, conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// @id GetResultsOverview
// @Description Fetches score stats for every competition. A competition whose scores cannot be loaded reports zeroed stats.
// @Tags results
// @Produce json
// @Success 200 {array} OverviewResponse
// @Router /results/overview [get]
func (e *ResultsController) getOverviewHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		overview, err := e.resultsService.Overview(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(200, utils.Map(overview, func(o service.CompetitionOverview) OverviewResponse {
			return OverviewResponse{
				Competition: toCompetitionResponse(o.Competition),
				Stats:       o.Stats,
			}
		}))
	}
}

type ResultsResponse struct {
	CompetitionID int       `json:"competition_id"`
	UpdatedAt     time.Time `json:"updated_at"`
	scoring.CompetitionResults
}

func toResultsResponse(competitionId int, results *scoring.CompetitionResults, updatedAt time.Time) ResultsResponse {
	return ResultsResponse{
		CompetitionID:      competitionId,
		UpdatedAt:          updatedAt,
		CompetitionResults: *results,
	}
}

type OverviewResponse struct {
	Competition CompetitionResponse      `json:"competition"`
	Stats       scoring.CompetitionStats `json:"stats"`
}
