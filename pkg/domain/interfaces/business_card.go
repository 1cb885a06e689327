package interfaces

import (
	"context"

	"github.com/selene-notes/selene/pkg/domain/model"
)

// BusinessCardRepository defines the interface for BusinessCard data access
type BusinessCardRepository interface {
	// Create persists a new card, assigning its ID and creation timestamp
	Create(ctx context.Context, card *model.BusinessCard) (*model.BusinessCard, error)

	// List returns cards ordered by creation timestamp descending
	List(ctx context.Context, limit int) ([]*model.BusinessCard, error)
}
