package services

import (
	"context"
	"fmt"

	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/domain"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driven"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/core/ports/driving"
	"github.com/yidyetebeje/semantic-file-explorer-aastu/internal/logger"
)

// Ensure Maintenance implements the interface.
var _ driving.MaintenanceService = (*Maintenance)(nil)

// Maintenance exposes diagnostics and recovery operations on the
// vector store.
type Maintenance struct {
	store driven.VectorStore
}

// NewMaintenance creates a maintenance service.
func NewMaintenance(store driven.VectorStore) *Maintenance {
	return &Maintenance{store: store}
}

// DBStats reports per-table diagnostics.
func (m *Maintenance) DBStats(ctx context.Context) (domain.DBStats, error) {
	return m.store.Stats(ctx)
}

// ClearIndex removes every row from every table, keeping the schemas.
func (m *Maintenance) ClearIndex(ctx context.Context) error {
	logger.Info("clearing all index tables")
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing index: %w", err)
	}
	return nil
}

// Repair drops every table so it is recreated with the expected schema
// the next time the store opens. All indexed data is lost.
func (m *Maintenance) Repair(ctx context.Context) error {
	for _, table := range []driven.Table{driven.TableDocuments, driven.TableAmharic, driven.TableImages} {
		logger.Info("dropping table %s", table)
		if err := m.store.DropTable(ctx, table); err != nil {
			return fmt.Errorf("dropping %s: %w", table, err)
		}
	}
	return nil
}
