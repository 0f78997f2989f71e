package docai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/riddaudit/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Client calls the Google Document AI processor REST endpoint to OCR a
// service ticket. It implements domain.TextExtractor.
type Client struct {
	httpClient    *http.Client
	endpoint      string
	processorName string
	accessToken   string
	rateLimiter   *rate.Limiter
	debug         bool
}

// NewClient creates a Document AI client for one processor.
// requestsPerHour throttles calls client-side so a large batch cannot blow
// through the processor quota.
func NewClient(endpoint, projectID, location, processorID, accessToken string, requestsPerHour int) *Client {
	if requestsPerHour <= 0 {
		requestsPerHour = 120
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600.0), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		endpoint:      endpoint,
		processorName: fmt.Sprintf("projects/%s/locations/%s/processors/%s", projectID, location, processorID),
		accessToken:   accessToken,
		rateLimiter:   limiter,
	}
}

// SetDebug enables request/response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

type rawDocument struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType"`
}

type processRequest struct {
	RawDocument rawDocument `json:"rawDocument"`
}

type documentEntity struct {
	Type        string `json:"type"`
	MentionText string `json:"mentionText"`
}

type processedDocument struct {
	Text     string           `json:"text"`
	Entities []documentEntity `json:"entities"`
}

type processResponse struct {
	Document processedDocument `json:"document"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// ExtractText sends the raw PDF bytes through the Document AI processor and
// returns the recognized text plus any extracted entities. Failures come
// back wrapped in domain.ErrExtractionFailed so the caller can skip the
// document and keep the batch going.
func (c *Client) ExtractText(ctx context.Context, raw []byte) (string, map[string]string, error) {
	if len(raw) == 0 {
		return "", nil, fmt.Errorf("%w: empty document", domain.ErrExtractionFailed)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	body, err := json.Marshal(processRequest{
		RawDocument: rawDocument{
			Content:  base64.StdEncoding.EncodeToString(raw),
			MimeType: "application/pdf",
		},
	})
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	reqURL := fmt.Sprintf("%s/v1/%s:process", c.endpoint, c.processorName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	if c.debug {
		log.Printf("[DOCAI] POST %s (%d bytes)", reqURL, len(raw))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("%w: reading response: %v", domain.ErrExtractionFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", nil, fmt.Errorf("%w: %s (%s)", domain.ErrExtractionFailed, apiErr.Error.Message, apiErr.Error.Status)
		}
		return "", nil, fmt.Errorf("%w: unexpected status %d", domain.ErrExtractionFailed, resp.StatusCode)
	}

	var result processResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", nil, fmt.Errorf("%w: decoding response: %v", domain.ErrExtractionFailed, err)
	}

	entities := make(map[string]string)
	for _, entity := range result.Document.Entities {
		entities[entity.Type] = entity.MentionText
	}

	if c.debug {
		log.Printf("[DOCAI] extracted %d chars, %d entities", len(result.Document.Text), len(entities))
	}

	return result.Document.Text, entities, nil
}
