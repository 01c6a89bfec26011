package usecase

import (
	"context"
	"fmt"

	"github.com/leadbeacon/beacon/internal/core/ports"
)

// LogAuditUseCase is the worker-side half of the audit-log side channel:
// resolve the audit id from an event and append one row to the external
// audit log.
type LogAuditUseCase struct {
	store    ports.AuditStore
	appender ports.AuditLogAppender
}

func NewLogAuditUseCase(store ports.AuditStore, appender ports.AuditLogAppender) *LogAuditUseCase {
	return &LogAuditUseCase{store: store, appender: appender}
}

func (uc *LogAuditUseCase) LogByID(ctx context.Context, auditID string) error {
	doc, err := uc.store.Get(ctx, auditID)
	if err != nil {
		return fmt.Errorf("load audit for logging: %w", err)
	}
	if err := uc.appender.Append(ctx, doc); err != nil {
		return fmt.Errorf("append audit log row: %w", err)
	}
	return nil
}
