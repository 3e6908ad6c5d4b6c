package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"kopiscan/api/internal/config"
)

// HTTPClassifier talks to the inference service over its one-route HTTP API:
// POST /classify with the image as multipart form data, JSON label back.
type HTTPClassifier struct {
	endpoint string
	client   *http.Client
}

func NewHTTPClassifier(cfg config.InferenceConfig) *HTTPClassifier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClassifier{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

type classifyResponse struct {
	Label string `json:"label"`
	Error string `json:"error"`
}

func (c *HTTPClassifier) Classify(ctx context.Context, image []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "image")
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrInference, err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrInference, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrInference, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/classify", &body)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrInference, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInference, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrInference, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrInference, resp.StatusCode)
	}

	var result classifyResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrInference, err)
	}
	if result.Label == "" {
		return "", fmt.Errorf("%w: empty label (%s)", ErrInference, result.Error)
	}
	return result.Label, nil
}
