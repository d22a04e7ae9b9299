package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mossdrift/orgshare-backend/internal/api"
	"github.com/mossdrift/orgshare-backend/internal/audit"
	"github.com/mossdrift/orgshare-backend/internal/auth"
	"github.com/mossdrift/orgshare-backend/internal/config"
	"github.com/mossdrift/orgshare-backend/internal/department"
	"github.com/mossdrift/orgshare-backend/internal/evidence"
	"github.com/mossdrift/orgshare-backend/internal/notification"
	"github.com/mossdrift/orgshare-backend/internal/organization"
	"github.com/mossdrift/orgshare-backend/internal/pkg/storage"
	"github.com/mossdrift/orgshare-backend/internal/policy"
	"github.com/mossdrift/orgshare-backend/internal/reservation"
	"github.com/mossdrift/orgshare-backend/internal/resource"
	"github.com/mossdrift/orgshare-backend/internal/transfer"
	"github.com/mossdrift/orgshare-backend/internal/user"
)

// Container holds the initialized components that are needed externally.
type Container struct {
	Router              *gin.Engine
	JWTManager          *auth.JWTManager
	NotificationService notification.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg *config.Config, pool *pgxpool.Pool) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTokenTTL)

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init storage failed: %w", err)
	}

	// Organization Module
	orgRepo := organization.NewPgxRepository(pool)
	orgService := organization.NewService(orgRepo)

	// Department Module
	deptRepo := department.NewPgxRepository(pool)
	deptService := department.NewService(deptRepo, orgService)

	// User Module
	userRepo := user.NewPgxRepository(pool)
	userService := user.NewService(userRepo, passwordHasher, orgService)

	// Resource Module
	resourceRepo := resource.NewPgxRepository(pool)
	resourceService := resource.NewService(resourceRepo, deptService)

	// Approval Policy Module
	policyRepo := policy.NewPgxRepository(pool)
	policyService := policy.NewService(policyRepo)

	// Audit Module
	auditRepo := audit.NewPgxRepository(pool)
	auditService := audit.NewService(auditRepo)

	// Notification Outbox Module
	notificationRepo := notification.NewPgxRepository(pool)
	notificationService := notification.NewService(notificationRepo, notification.LogSender{})

	// Return Evidence Module
	evidenceRepo := evidence.NewPgxRepository(pool)
	evidenceService := evidence.NewService(evidenceRepo, store)

	// Reservation Workflow Module
	reservationRepo := reservation.NewPgxRepository(pool)
	reservationService := reservation.NewService(
		reservationRepo,
		resourceService,
		policyService,
		orgService,
		evidenceService,
		auditService,
		notificationService,
	)

	// Transfer Workflow Module
	transferRepo := transfer.NewPgxRepository(pool)
	transferService := transfer.NewService(transferRepo, resourceService, auditService, notificationService)

	// Router
	router := api.NewRouter(api.RouterDeps{
		Config:              cfg,
		JWTManager:          jwtManager,
		UserService:         userService,
		OrganizationService: orgService,
		DepartmentService:   deptService,
		ResourceService:     resourceService,
		PolicyService:       policyService,
		ReservationService:  reservationService,
		TransferService:     transferService,
		NotificationService: notificationService,
		AuditService:        auditService,
		EvidenceService:     evidenceService,
	})

	return &Container{
		Router:              router,
		JWTManager:          jwtManager,
		NotificationService: notificationService,
	}, nil
}
