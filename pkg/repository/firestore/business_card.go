package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/selene-notes/selene/pkg/domain/model"
	"google.golang.org/api/iterator"
)

// cardDoc is the Firestore document representation of model.BusinessCard,
// matching the documents written by the original web client.
type cardDoc struct {
	Name        string    `firestore:"name"`
	Email       string    `firestore:"email"`
	Phone       string    `firestore:"phone"`
	Company     string    `firestore:"company"`
	Role        string    `firestore:"role"`
	RawText     string    `firestore:"rawText"`
	ImageData   string    `firestore:"imageData"`
	ProcessedAt time.Time `firestore:"processedAt"`
	CreatedAt   time.Time `firestore:"createdAt"`
}

func toCardDoc(c *model.BusinessCard) *cardDoc {
	return &cardDoc{
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		Company:     c.Company,
		Role:        c.Role,
		RawText:     c.RawText,
		ImageData:   c.ImageData,
		ProcessedAt: c.ProcessedAt,
		CreatedAt:   c.CreatedAt,
	}
}

func docToCard(docSnap *firestore.DocumentSnapshot) (*model.BusinessCard, error) {
	var d cardDoc
	if err := docSnap.DataTo(&d); err != nil {
		return nil, err
	}
	return &model.BusinessCard{
		ID:          model.CardID(docSnap.Ref.ID),
		Name:        d.Name,
		Email:       d.Email,
		Phone:       d.Phone,
		Company:     d.Company,
		Role:        d.Role,
		RawText:     d.RawText,
		ImageData:   d.ImageData,
		ProcessedAt: d.ProcessedAt,
		CreatedAt:   d.CreatedAt,
	}, nil
}

type businessCardRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newBusinessCardRepository(client *firestore.Client) *businessCardRepository {
	return &businessCardRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *businessCardRepository) cardsCollection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_businessCards")
	}
	return r.client.Collection("businessCards")
}

func (r *businessCardRepository) Create(ctx context.Context, card *model.BusinessCard) (*model.BusinessCard, error) {
	now := time.Now().UTC()
	if card.ID == "" {
		card.ID = model.NewCardID()
	}
	card.CreatedAt = now
	if card.ProcessedAt.IsZero() {
		card.ProcessedAt = now
	}

	docRef := r.cardsCollection().Doc(string(card.ID))
	if _, err := docRef.Set(ctx, toCardDoc(card)); err != nil {
		return nil, goerr.Wrap(err, "failed to create business card", goerr.V("id", card.ID))
	}

	return card, nil
}

func (r *businessCardRepository) List(ctx context.Context, limit int) ([]*model.BusinessCard, error) {
	iter := r.cardsCollection().
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var cards []*model.BusinessCard
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate business cards")
		}

		c, err := docToCard(docSnap)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode business card", goerr.V("doc_id", docSnap.Ref.ID))
		}

		cards = append(cards, c)
	}

	return cards, nil
}
