// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - VectorStore: Tenant-partitioned chunk + embedding storage and search
//   - EmbeddingService: Generates vector embeddings
//   - TenantStore / ItemLedger / TurnStore: Relational metadata persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Completion provider. Without it, answers and summaries
//     report a structured failure instead of grounded text.
//   - Mailbox: Mail provider. Without it, monitors cannot be started
//     (a scripted mailbox is available for demos and tests).
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
