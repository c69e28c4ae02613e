// Package atelier provides the Atelier portfolio and blog API server.

// This package contains the module root. The actual API documentation is
// organized into subpackages:

// - internal/handlers: HTTP request handlers for all API endpoints
// - internal/search: Cross-entity search, ranking and search analytics
// - internal/models: Data models and database schemas
// - internal/auth: Admin authentication (JWT)
// - internal/database: Database connection and migrations
// - internal/cache: Redis response caching
// - internal/middleware: HTTP middleware (request ids, sessions, metrics)
// - internal/metrics: Prometheus metric definitions
// - internal/telemetry: OpenTelemetry tracing setup
// - internal/seed: Development data seeding

// See the individual package documentation for detailed API reference.
package atelier
