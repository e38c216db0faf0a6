package controller

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"archersedge/app_error"
	"archersedge/auth"
	"archersedge/cache"
	"archersedge/service"

	"github.com/gin-contrib/cache/persistence"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RouteInfo struct {
	Method        string
	Path          string
	HandlerFunc   gin.HandlerFunc
	Authenticated bool
	RoleRequired  []auth.Role
}

type Dependencies struct {
	DB         *gorm.DB
	Writer     service.MessageWriter
	Snapshot   *cache.ProfileCache
	Hub        *ResultsHub
	CacheStore persistence.CacheStore
	Logger     *slog.Logger
}

const identityKey = "identity"

func SetRoutes(r *gin.Engine, deps *Dependencies) {
	if deps.Hub == nil {
		deps.Hub = NewResultsHub(deps.Logger)
	}
	if deps.CacheStore == nil {
		deps.CacheStore = persistence.NewInMemoryStore(30 * time.Second)
	}
	routes := make([]RouteInfo, 0)
	routes = append(routes, setupAuthController(deps)...)
	routes = append(routes, setupProfileController(deps)...)
	routes = append(routes, setupCompetitionController(deps)...)
	routes = append(routes, setupAssignmentController(deps)...)
	routes = append(routes, setupScorecardController(deps)...)
	routes = append(routes, setupResultsController(deps)...)
	routes = append(routes, setupDebugController(deps)...)
	group := r.Group("/api")
	for _, route := range routes {
		handlerfuncs := make([]gin.HandlerFunc, 0)
		if route.Authenticated {
			handlerfuncs = append(handlerfuncs, AuthMiddleware(route.RoleRequired))
		}
		handlerfuncs = append(handlerfuncs, route.HandlerFunc)
		group.Handle(route.Method, route.Path, handlerfuncs...)
	}
}

// AuthMiddleware accepts a bearer token in the Authorization header or the
// token query parameter. An empty roles list admits any identity.
func AuthMiddleware(roles []auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(401, gin.H{"error": "Unauthenticated"})
			return
		}
		identity, err := auth.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(401, gin.H{"error": "Unauthenticated"})
			return
		}
		if len(roles) > 0 && !identity.HasRole(roles...) {
			c.AbortWithStatusJSON(403, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(identityKey, *identity)
		c.Next()
	}
}

func getIdentity(c *gin.Context) auth.Identity {
	if value, ok := c.Get(identityKey); ok {
		if identity, ok := value.(auth.Identity); ok {
			return identity
		}
	}
	return auth.Identity{}
}

// paramId reads an integer path parameter and writes a 400 when it is not one.
func paramId(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		c.JSON(400, gin.H{"error": name + " must be an integer"})
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, err error) {
	app_error.Respond(c, err)
}

var coachRoles = []auth.Role{auth.RoleCoach, auth.RoleAdmin}
var adminRoles = []auth.Role{auth.RoleAdmin}
