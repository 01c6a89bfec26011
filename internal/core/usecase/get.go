package usecase

import (
	"context"
	"fmt"

	"github.com/leadbeacon/beacon/internal/core/domain"
	"github.com/leadbeacon/beacon/internal/core/ports"
)

// GetAuditUseCase is the plain read path.
type GetAuditUseCase struct {
	store ports.AuditStore
}

func NewGetAuditUseCase(store ports.AuditStore) *GetAuditUseCase {
	return &GetAuditUseCase{store: store}
}

func (uc *GetAuditUseCase) GetByID(ctx context.Context, id string) (*domain.AuditDocument, error) {
	doc, err := uc.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load audit: %w", err)
	}
	return doc, nil
}
