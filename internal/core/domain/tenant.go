package domain

import (
	"fmt"
	"time"
)

// TenantID identifies an isolated data owner (a law firm's client).
// Every read, write and delete against the vector store carries a TenantID,
// and the store derives its partition name from it. The type exists so that
// isolation is enforced by the contract rather than by a string convention
// a caller could forget.
type TenantID string

// maxTenantIDLength bounds tenant ids so they stay usable as partition
// (database file) names.
const maxTenantIDLength = 64

// Validate checks that the tenant id is safe to use as a partition key.
// Valid ids are non-empty, at most 64 characters, and contain only
// letters, digits, hyphens and underscores.
func (t TenantID) Validate() error {
	if t == "" {
		return fmt.Errorf("%w: empty tenant id", ErrInvalidTenant)
	}
	if len(t) > maxTenantIDLength {
		return fmt.Errorf("%w: tenant id exceeds %d characters", ErrInvalidTenant, maxTenantIDLength)
	}
	for _, r := range t {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return fmt.Errorf("%w: tenant id contains %q", ErrInvalidTenant, r)
		}
	}
	return nil
}

// String returns the tenant id as a plain string.
func (t TenantID) String() string {
	return string(t)
}

// Tenant is a registered client whose documents and emails are indexed.
type Tenant struct {
	// ID is the tenant identifier used as the partition key.
	ID TenantID

	// Name is the human-readable client name.
	Name string

	// CreatedAt is when the tenant was registered.
	CreatedAt time.Time
}

// TenantStats summarises what a tenant's partition currently holds.
// Used for operational visibility, not correctness.
type TenantStats struct {
	// TotalChunks is the number of chunks in the partition.
	TotalChunks int

	// Documents is the number of distinct document sources.
	Documents int

	// Emails is the number of distinct email sources.
	Emails int

	// DocumentChunks is the number of document-sourced chunks.
	DocumentChunks int

	// EmailChunks is the number of email-sourced chunks.
	EmailChunks int

	// TotalWords is the aggregate word count across chunks.
	TotalWords int

	// TotalChars is the aggregate character count across chunks.
	TotalChars int
}
