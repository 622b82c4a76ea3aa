package repositories

import "context"

// Repository aggregates all per-entity repository interfaces.
type Repository interface {
	User() UserRepository
	Whitelist() WhitelistRepository
	File() FileRepository
	Result() ResultRepository
	Audit() AuditRepository
	Dashboard() DashboardRepository

	// WithTransaction runs fn against a transaction-scoped Repository;
	// fn returning an error rolls the whole unit of work back.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
