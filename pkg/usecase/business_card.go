package usecase

import (
	"context"
	"encoding/base64"
	"regexp"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/selene-notes/selene/pkg/domain/model"
	"github.com/selene-notes/selene/pkg/service/cardscan"
)

const defaultCardListLimit = 100

var dataURLPattern = regexp.MustCompile(`^data:image/(\w+);base64,`)

// ProcessPhoto runs OCR over a photographed business card and stores the
// extracted contact fields together with the raw text and the image. The
// image arrives as a base64 data URL from the capture UI; a bare base64
// payload is also accepted and normalized to a PNG data URL.
func (uc *UseCases) ProcessPhoto(ctx context.Context, imageData string) (*model.BusinessCard, error) {
	if uc.detector == nil {
		return nil, goerr.Wrap(ErrCardScannerUnavailable, "cannot process photo")
	}
	if imageData == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "image data is empty")
	}

	encoded := imageData
	format := "png"
	if m := dataURLPattern.FindStringSubmatch(imageData); m != nil {
		format = m[1]
		encoded = imageData[len(m[0]):]
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, goerr.Wrap(ErrInvalidInput, "image data is not valid base64")
	}

	text, err := uc.detector.DetectText(ctx, raw)
	if err != nil {
		return nil, goerr.Wrap(err, "text detection failed")
	}
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(ErrNoTextDetected, "business card image yielded no text")
	}

	card := cardscan.Parse(text)
	card.ImageData = "data:image/" + format + ";base64," + encoded
	card.ProcessedAt = time.Now().UTC()

	created, err := uc.repo.BusinessCard().Create(ctx, card)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to store business card")
	}

	return created, nil
}

// ListCards returns the most recently captured business cards, newest first
func (uc *UseCases) ListCards(ctx context.Context, limit int) ([]*model.BusinessCard, error) {
	if limit <= 0 {
		limit = defaultCardListLimit
	}

	cards, err := uc.repo.BusinessCard().List(ctx, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list business cards")
	}

	return cards, nil
}
