package driving

import (
	"context"
	"time"

	"github.com/casefile-labs/casefile/internal/core/domain"
)

// MonitorService controls background mailbox pollers.
type MonitorService interface {
	// Start begins polling a mail source for a tenant. Starting an
	// already-active pair returns a negative ack without spawning a
	// duplicate poller.
	Start(ctx context.Context, source domain.MailSource, tenant domain.TenantID,
		interval time.Duration) (domain.MonitorAck, error)

	// Stop signals the poller for the pair to exit at its next cycle
	// boundary. Stopping an unmonitored pair returns a negative ack.
	Stop(source domain.MailSource, tenant domain.TenantID) domain.MonitorAck

	// Status snapshots all active pollers. Read-only.
	Status() []domain.MonitorState

	// StopAll stops every poller and waits for their loops to exit.
	StopAll()
}
