package tagging

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeClassifier struct {
	firstTier       []string
	secondThirdTier []string
	firstTierErr    error

	lastText  string
	lastCount int
}

func (f *fakeClassifier) PredictFirstTier(ctx context.Context, text string, count int) ([]string, error) {
	f.lastText = text
	f.lastCount = count
	if f.firstTierErr != nil {
		return nil, f.firstTierErr
	}
	return f.firstTier, nil
}

func (f *fakeClassifier) PredictSecondThirdTier(ctx context.Context, text string, count int) ([]string, error) {
	return f.secondThirdTier, nil
}

func TestTagNewsArticle(t *testing.T) {
	t.Run("combines both tiers", func(t *testing.T) {
		classifier := &fakeClassifier{
			firstTier:       []string{"Politik", "Kultur"},
			secondThirdTier: []string{"Theater"},
		}
		engine := NewEngine(classifier)

		tags, err := engine.TagNewsArticle(context.Background(), "title", "abstract")
		require.NoError(t, err)
		require.Equal(t, []string{"Politik", "Kultur", "Theater"}, tags)
		require.Equal(t, firstTierCount, classifier.lastCount)
	})

	t.Run("removes corona from first tier", func(t *testing.T) {
		classifier := &fakeClassifier{
			firstTier:       []string{CoronaCategory, "Politik"},
			secondThirdTier: []string{"Wahl"},
		}
		engine := NewEngine(classifier)

		tags, err := engine.TagNewsArticle(context.Background(), "title", "abstract")
		require.NoError(t, err)
		require.Equal(t, []string{"Politik", "Wahl"}, tags)
	})

	t.Run("keeps corona in second tier", func(t *testing.T) {
		classifier := &fakeClassifier{
			firstTier:       []string{"Politik", "Kultur"},
			secondThirdTier: []string{CoronaCategory},
		}
		engine := NewEngine(classifier)

		tags, err := engine.TagNewsArticle(context.Background(), "title", "abstract")
		require.NoError(t, err)
		require.Equal(t, []string{"Politik", "Kultur", CoronaCategory}, tags)
	})

	t.Run("strips html from abstract", func(t *testing.T) {
		classifier := &fakeClassifier{}
		engine := NewEngine(classifier)

		_, err := engine.TagNewsArticle(context.Background(), "Unfall auf der B75", "<p>Zwei <b>Verletzte</b></p>")
		require.NoError(t, err)
		require.Equal(t, "Unfall auf der B75Zwei Verletzte", classifier.lastText)
	})

	t.Run("propagates classifier error", func(t *testing.T) {
		classifier := &fakeClassifier{firstTierErr: errors.New("model unavailable")}
		engine := NewEngine(classifier)

		_, err := engine.TagNewsArticle(context.Background(), "title", "abstract")
		require.Error(t, err)
	})
}

func TestHttpClassifier(t *testing.T) {
	t.Run("posts text and decodes categories", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/predict/first_tier", r.URL.Path)
			require.Equal(t, http.MethodPost, r.Method)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"categories":["Politik","Sport"]}`))
		}))
		defer server.Close()

		classifier := NewHttpClassifier(server.URL)
		categories, err := classifier.PredictFirstTier(context.Background(), "some text", 2)
		require.NoError(t, err)
		require.Equal(t, []string{"Politik", "Sport"}, categories)
	})

	t.Run("non 2xx status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model loading", http.StatusServiceUnavailable)
		}))
		defer server.Close()

		classifier := NewHttpClassifier(server.URL)
		_, err := classifier.PredictSecondThirdTier(context.Background(), "some text", 1)
		require.Error(t, err)
	})
}
