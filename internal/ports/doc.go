// Package ports defines the interfaces (ports) that connect the storage core
// to infrastructure adapters.
//
// In Hexagonal Architecture, ports are the boundaries between the application
// core and the outside world. They define what the core needs from external
// systems without specifying how those needs are fulfilled.
//
// # Port Interfaces
//
//   - [DeckStore]: CRUD over one deck backend (local blob or remote API)
//   - [SessionRepository]: Persists the authenticated-session signal
//   - [CardCatalog]: Resolves card reference data
//   - [Logger]: Structured logging abstraction
//   - [HTTPClient]: HTTP request abstraction for dependency injection
//
// The facade (internal/store) and the migration coordinator
// (internal/migrate) depend only on these interfaces; internal/adapters
// provides the concrete file-system and HTTP implementations. This keeps the
// core testable with in-memory fakes and keeps backend choice in one place.
package ports
