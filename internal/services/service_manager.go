package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/nilevalley-edu/fileshare-service/internal/auth"
	"github.com/nilevalley-edu/fileshare-service/internal/cache"
	"github.com/nilevalley-edu/fileshare-service/internal/config"
	"github.com/nilevalley-edu/fileshare-service/internal/events"
	"github.com/nilevalley-edu/fileshare-service/internal/repositories"
	"github.com/nilevalley-edu/fileshare-service/internal/utils"
)

// serviceManager implements ServiceManager.
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	sessions  auth.SessionStore
	hasher    *auth.PasswordHasher
	publisher events.EventPublisher
	cache     *cache.CacheHelper
	cfg       *config.Config
	logger    utils.Logger

	// Service instances
	authService      AuthService
	whitelistService WhitelistService
	userAdminService UserAdminService
	fileService      FileService
	dashboardService DashboardService
	exportService    ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager wires all services over shared dependencies. Call
// Initialize before handing it to the handlers.
func NewServiceManager(
	repo repositories.Repository,
	sessions auth.SessionStore,
	hasher *auth.PasswordHasher,
	publisher events.EventPublisher,
	cacheHelper *cache.CacheHelper,
	cfg *config.Config,
	logger utils.Logger,
) ServiceManager {
	return &serviceManager{
		repo:      repo,
		sessions:  sessions,
		hasher:    hasher,
		publisher: publisher,
		cache:     cacheHelper,
		cfg:       cfg,
		logger:    logger,
	}
}

// Initialize constructs the services and seeds the default supervisor
// account so the very first deployment has a working login.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("initializing service manager")

	sm.authService = NewAuthService(sm.repo, sm.sessions, sm.hasher, sm.publisher, sm.cfg, sm.logger)
	sm.whitelistService = NewWhitelistService(sm.repo, sm.publisher, sm.cfg, sm.logger)
	sm.userAdminService = NewUserAdminService(sm.repo, sm.publisher, sm.logger)
	sm.fileService = NewFileService(sm.repo, sm.publisher, sm.cfg, sm.logger)
	sm.dashboardService = NewDashboardService(sm.repo, sm.cache, sm.logger)
	sm.exportService = NewExportService(sm.repo, sm.logger)

	if err := sm.authService.EnsureDefaultSupervisor(ctx); err != nil {
		return fmt.Errorf("failed to seed default supervisor: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("service manager initialized")
	return nil
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.shutdown {
		return fmt.Errorf("service manager not ready")
	}
	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	return nil
}

func (sm *serviceManager) Shutdown(_ context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("shutting down service manager")

	if err := sm.publisher.Close(); err != nil {
		sm.logger.Warn("failed to close event publisher", "error", err)
	}

	sm.shutdown = true
	return nil
}

// Service getters

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.authService
}

func (sm *serviceManager) Whitelist() WhitelistService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.whitelistService
}

func (sm *serviceManager) UserAdmin() UserAdminService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.userAdminService
}

func (sm *serviceManager) File() FileService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.fileService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.dashboardService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.exportService
}
