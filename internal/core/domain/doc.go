// Package domain defines the core business entities for Casefile.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - TenantID: The isolation boundary for all stored data
//   - Chunk: A retrievable span of source text with its embedding
//   - MailMessage: A normalised email fetched from a mailbox
//   - ConversationTurn: One question/answer exchange with sources
//   - MonitorState: Runtime state of a background mailbox poller
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
