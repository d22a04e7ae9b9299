package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mossdrift/orgshare-backend/internal/audit"
	auditHttp "github.com/mossdrift/orgshare-backend/internal/audit/http"
	"github.com/mossdrift/orgshare-backend/internal/auth"
	"github.com/mossdrift/orgshare-backend/internal/config"
	"github.com/mossdrift/orgshare-backend/internal/department"
	deptHttp "github.com/mossdrift/orgshare-backend/internal/department/http"
	"github.com/mossdrift/orgshare-backend/internal/evidence"
	evidenceHttp "github.com/mossdrift/orgshare-backend/internal/evidence/http"
	"github.com/mossdrift/orgshare-backend/internal/identity"
	"github.com/mossdrift/orgshare-backend/internal/notification"
	notificationHttp "github.com/mossdrift/orgshare-backend/internal/notification/http"
	"github.com/mossdrift/orgshare-backend/internal/organization"
	orgHttp "github.com/mossdrift/orgshare-backend/internal/organization/http"
	"github.com/mossdrift/orgshare-backend/internal/policy"
	policyHttp "github.com/mossdrift/orgshare-backend/internal/policy/http"
	"github.com/mossdrift/orgshare-backend/internal/reservation"
	reservationHttp "github.com/mossdrift/orgshare-backend/internal/reservation/http"
	"github.com/mossdrift/orgshare-backend/internal/resource"
	resourceHttp "github.com/mossdrift/orgshare-backend/internal/resource/http"
	"github.com/mossdrift/orgshare-backend/internal/transfer"
	transferHttp "github.com/mossdrift/orgshare-backend/internal/transfer/http"
	"github.com/mossdrift/orgshare-backend/internal/user"
)

// RouterDeps bundles the services the router wires into handlers.
type RouterDeps struct {
	Config              *config.Config
	JWTManager          *auth.JWTManager
	UserService         user.Service
	OrganizationService organization.Service
	DepartmentService   department.Service
	ResourceService     resource.Service
	PolicyService       policy.Service
	ReservationService  reservation.Service
	TransferService     transfer.Service
	NotificationService notification.Service
	AuditService        audit.Service
	EvidenceService     evidence.Service
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if deps.Config.IsProduction {
		corsConfig.AllowOrigins = strings.Split(deps.Config.ProdOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(deps.JWTManager)
	// principalMiddleware: Resolves the member's role/department for the workflow guards.
	principalMiddleware := RequirePrincipal(deps.UserService)
	managerMiddleware := RequireRole(identity.RoleManager)
	adminMiddleware := RequireRole(identity.RoleAdmin)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	authHandler := NewAuthHandler(deps.UserService, deps.JWTManager)
	userHandler := NewUserHandler(deps.UserService)
	orgHandler := orgHttp.NewHandler(deps.OrganizationService)
	deptHandler := deptHttp.NewHandler(deps.DepartmentService)
	resourceHandler := resourceHttp.NewHandler(deps.ResourceService)
	policyHandler := policyHttp.NewHandler(deps.PolicyService)
	reservationHandler := reservationHttp.NewHandler(deps.ReservationService)
	transferHandler := transferHttp.NewHandler(deps.TransferService)
	notificationHandler := notificationHttp.NewHandler(deps.NotificationService)
	auditHandler := auditHttp.NewHandler(deps.AuditService)
	evidenceHandler := evidenceHttp.NewHandler(deps.EvidenceService, deps.ReservationService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)
		v1.GET("/me", authMiddleware, authHandler.Me)

		users := v1.Group("/users", authMiddleware, principalMiddleware)
		{
			users.GET("", managerMiddleware, userHandler.List)
			users.GET("/:id", managerMiddleware, userHandler.Get)
			users.PATCH("/:id", adminMiddleware, userHandler.UpdateMember)
		}

		orgHttp.RegisterRoutes(v1, orgHandler, authMiddleware, principalMiddleware, adminMiddleware)
		deptHttp.RegisterRoutes(v1, deptHandler, authMiddleware, principalMiddleware, adminMiddleware)
		resourceHttp.RegisterRoutes(v1, resourceHandler, authMiddleware, principalMiddleware, managerMiddleware)
		policyHttp.RegisterRoutes(v1, policyHandler, authMiddleware, principalMiddleware, adminMiddleware)
		reservationHttp.RegisterRoutes(v1, reservationHandler, authMiddleware, principalMiddleware)
		transferHttp.RegisterRoutes(v1, transferHandler, authMiddleware, principalMiddleware)
		notificationHttp.RegisterRoutes(v1, notificationHandler, authMiddleware)
		auditHttp.RegisterRoutes(v1, auditHandler, authMiddleware, principalMiddleware, managerMiddleware)
		evidenceHttp.RegisterRoutes(v1, evidenceHandler, authMiddleware)
	}

	return r
}
