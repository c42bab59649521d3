package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	Logger "github.com/zemki/molonews-backend/utils/log"
)

// Per-request ceiling so that one hanging feed can never stall a whole
// import run.
const DefaultFetchTimeout = 30 * time.Second

type HttpClient struct {
	header  http.Header
	cookies []*http.Cookie

	client *http.Client
}

func NewDefaultHttpClient() *HttpClient {
	return NewHttpClient(http.Header{}, []*http.Cookie{})
}

func NewHttpClient(header http.Header, cookies []*http.Cookie) *HttpClient {
	return &HttpClient{
		header:  header,
		cookies: cookies,
		client:  &http.Client{Timeout: DefaultFetchTimeout},
	}
}

func (c *HttpClient) Get(ctx context.Context, uri string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET failed %w", err)
	}
	req.Header = c.header
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	if IsNon200HttpResponse(res) {
		MaybeLogNon200HttpError(res)
		res.Body.Close()
		return nil, fmt.Errorf("non 200 response %d from %s", res.StatusCode, uri)
	}

	return res, nil
}

// GetBody fetches a URI and drains the response body.
func (c *HttpClient) GetBody(ctx context.Context, uri string) ([]byte, error) {
	res, err := c.Get(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return io.ReadAll(res.Body)
}

func (c *HttpClient) GetHeader() http.Header {
	return c.header
}

// Log http response if the error code is not 2XX
func MaybeLogNon200HttpError(res *http.Response) {
	if IsNon200HttpResponse(res) {
		Logger.LogV2.Error(fmt.Sprintf("non-200 http code: %d for %s", res.StatusCode, res.Request.URL))
	}
}

func IsNon200HttpResponse(res *http.Response) bool {
	return res.StatusCode >= 300
}
