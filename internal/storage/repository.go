// ABOUTME: Storage interfaces for weather history persistence
// ABOUTME: Enables testability and storage backend swapping

package storage

import (
	"github.com/harper/wxhistory/internal/models"
)

// Backend reads and writes raw bytes in named slots. A slot that was never
// written reads as nil data and a nil error.
type Backend interface {
	Read(slot string) ([]byte, error)
	Write(slot string, data []byte) error
	Close() error
}

// Repository defines the record store operations used by the calling layers.
type Repository interface {
	Create(in models.RecordInput) (*models.HistoryRecord, error)
	GetAll(filter *models.Filter) ([]*models.HistoryRecord, error)
	GetByID(id string) (*models.HistoryRecord, error)
	Update(id string, patch models.RecordPatch) (*models.HistoryRecord, error)
	Delete(id string) (bool, error)
	ClearAll() error
	Count() (int, error)
	Import(records []*models.HistoryRecord, replace bool) (int, error)
}

// Compile-time check that Store implements Repository.
var _ Repository = (*Store)(nil)
