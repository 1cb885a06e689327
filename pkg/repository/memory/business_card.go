package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/selene-notes/selene/pkg/domain/model"
)

type businessCardRepository struct {
	mu    sync.RWMutex
	cards map[model.CardID]*model.BusinessCard
	seqs  map[model.CardID]uint64
	next  uint64
}

func newBusinessCardRepository() *businessCardRepository {
	return &businessCardRepository{
		cards: make(map[model.CardID]*model.BusinessCard),
		seqs:  make(map[model.CardID]uint64),
	}
}

func copyCard(c *model.BusinessCard) *model.BusinessCard {
	copied := *c
	return &copied
}

func (r *businessCardRepository) Create(ctx context.Context, card *model.BusinessCard) (*model.BusinessCard, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyCard(card)
	if created.ID == "" {
		created.ID = model.NewCardID()
	}
	created.CreatedAt = now
	if created.ProcessedAt.IsZero() {
		created.ProcessedAt = now
	}

	r.next++
	r.cards[created.ID] = created
	r.seqs[created.ID] = r.next

	return copyCard(created), nil
}

func (r *businessCardRepository) List(ctx context.Context, limit int) ([]*model.BusinessCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cards := make([]*model.BusinessCard, 0, len(r.cards))
	for _, c := range r.cards {
		cards = append(cards, c)
	}
	sort.Slice(cards, func(i, j int) bool {
		if !cards[i].CreatedAt.Equal(cards[j].CreatedAt) {
			return cards[i].CreatedAt.After(cards[j].CreatedAt)
		}
		return r.seqs[cards[i].ID] > r.seqs[cards[j].ID]
	})

	if limit < len(cards) {
		cards = cards[:limit]
	}

	result := make([]*model.BusinessCard, len(cards))
	for i, c := range cards {
		result[i] = copyCard(c)
	}
	return result, nil
}
