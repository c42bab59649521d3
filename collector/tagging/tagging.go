package tagging

import (
	"context"

	"github.com/pkg/errors"

	"github.com/zemki/molonews-backend/utils"
)

// CoronaCategory is removed from first-tier classifier output before tags
// reach the store. Standing editorial rule from the pandemic era; kept as a
// named constant so editorial can revisit it.
const CoronaCategory = "Corona"

// Number of categories requested per tier, matching the trained models.
const (
	firstTierCount       = 2
	secondThirdTierCount = 1
)

// Tagger infers topical category names for an article. Returned names are
// matched case-sensitively against Tag.Name downstream; unmatched names are
// dropped without error.
type Tagger interface {
	TagNewsArticle(ctx context.Context, title string, abstract string) ([]string, error)
}

// Classifier is the ML boundary: an opaque model ranking category names for
// a text. Tier separates the first-ressort model from the second/third one.
type Classifier interface {
	PredictFirstTier(ctx context.Context, text string, count int) ([]string, error)
	PredictSecondThirdTier(ctx context.Context, text string, count int) ([]string, error)
}

// Engine wraps the classifier with the input cleanup and editorial rules of
// the tagging pipeline. Construct one per process and inject it; there is no
// package-global model state.
type Engine struct {
	classifier Classifier
}

func NewEngine(classifier Classifier) *Engine {
	return &Engine{classifier: classifier}
}

func (e *Engine) TagNewsArticle(ctx context.Context, title string, abstract string) ([]string, error) {
	text := title + utils.StripHtmlTags(abstract)

	first, err := e.classifier.PredictFirstTier(ctx, text, firstTierCount)
	if err != nil {
		return nil, errors.Wrap(err, "first tier prediction")
	}
	second, err := e.classifier.PredictSecondThirdTier(ctx, text, secondThirdTierCount)
	if err != nil {
		return nil, errors.Wrap(err, "second/third tier prediction")
	}

	return append(removeCategory(first, CoronaCategory), second...), nil
}

func removeCategory(categories []string, name string) []string {
	out := make([]string, 0, len(categories))
	for _, category := range categories {
		if category == name {
			continue
		}
		out = append(out, category)
	}
	return out
}
