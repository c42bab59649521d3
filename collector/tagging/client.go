package tagging

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const classifierRequestTimeout = 10 * time.Second

type predictRequest struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

type predictResponse struct {
	Categories []string `json:"categories"`
}

// HttpClassifier talks to the model serving endpoint. The service exposes one
// route per tier and ranks category names by score, best first.
type HttpClassifier struct {
	client *resty.Client
}

func NewHttpClassifier(baseUrl string) *HttpClassifier {
	return &HttpClassifier{
		client: resty.New().
			SetBaseURL(baseUrl).
			SetTimeout(classifierRequestTimeout),
	}
}

func (c *HttpClassifier) PredictFirstTier(ctx context.Context, text string, count int) ([]string, error) {
	return c.predict(ctx, "/predict/first_tier", text, count)
}

func (c *HttpClassifier) PredictSecondThirdTier(ctx context.Context, text string, count int) ([]string, error) {
	return c.predict(ctx, "/predict/second_third_tier", text, count)
}

func (c *HttpClassifier) predict(ctx context.Context, path string, text string, count int) ([]string, error) {
	res := &predictResponse{}
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&predictRequest{Text: text, Count: count}).
		SetResult(res).
		Post(path)
	if err != nil {
		return nil, errors.Wrap(err, "classifier request")
	}
	if resp.IsError() {
		return nil, errors.Errorf("classifier returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return res.Categories, nil
}
