// Package cardscan extracts contact fields from photographed business cards:
// OCR via the Cloud Vision API plus line heuristics over the detected text.
package cardscan

import (
	"context"
	"encoding/base64"

	"github.com/m-mizutani/goerr/v2"
	"github.com/selene-notes/selene/pkg/domain/interfaces"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

// Vision implements interfaces.TextDetector using the Cloud Vision API's
// TEXT_DETECTION feature.
type Vision struct {
	svc *vision.Service
}

var _ interfaces.TextDetector = &Vision{}

// NewVision creates a Vision text detector. Credentials are resolved the
// usual Google Cloud way (application default credentials) unless overridden
// via client options.
func NewVision(ctx context.Context, opts ...option.ClientOption) (*Vision, error) {
	svc, err := vision.NewService(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create vision service")
	}
	return &Vision{svc: svc}, nil
}

// DetectText runs full-text detection over the image and returns the
// detected text, or an empty string when the image contains none.
func (v *Vision) DetectText(ctx context.Context, image []byte) (string, error) {
	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{
			{
				Image: &vision.Image{
					Content: base64.StdEncoding.EncodeToString(image),
				},
				Features: []*vision.Feature{
					{Type: "TEXT_DETECTION"},
				},
			},
		},
	}

	resp, err := v.svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return "", goerr.Wrap(err, "text detection request failed")
	}
	if len(resp.Responses) == 0 {
		return "", goerr.New("text detection returned no responses")
	}

	r := resp.Responses[0]
	if r.Error != nil {
		return "", goerr.New("text detection failed",
			goerr.V("code", r.Error.Code),
			goerr.V("message", r.Error.Message),
		)
	}
	if r.FullTextAnnotation == nil {
		return "", nil
	}

	return r.FullTextAnnotation.Text, nil
}
