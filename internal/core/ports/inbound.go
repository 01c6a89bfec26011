package ports

import (
	"context"

	"github.com/leadbeacon/beacon/internal/core/domain"
)

// AuditCreator is the inbound contract for the audit creation pipeline.
type AuditCreator interface {
	Create(ctx context.Context, req domain.AuditRequest) (*domain.AuditDocument, error)
}

// AuditRefresher re-runs the providers still marked pending on a stored
// audit and merges whatever they produce.
type AuditRefresher interface {
	Refresh(ctx context.Context, id string) (*domain.AuditDocument, error)
}

// AuditReader is the inbound read model.
type AuditReader interface {
	GetByID(ctx context.Context, id string) (*domain.AuditDocument, error)
}

// RecapPatcher merges partial recap content into a stored audit, tab by tab.
type RecapPatcher interface {
	Patch(ctx context.Context, id string, patch map[string]domain.RecapPatch) (map[string]domain.RecapEntry, error)
}
