package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/buzlove/love-tree-backend/internal/config"
	"github.com/buzlove/love-tree-backend/internal/logger"
	"github.com/go-resty/resty/v2"
)

// allowedSizes is the vendor's enumerated output dimension set. Requests
// outside it fail with an invalid-parameter error naming the size field.
var allowedSizes = []string{"1024*1024", "768*1024", "1024*768", "512*512"}

// ImageGenService turns a prompt into a vendor-hosted (temporary) image URL.
// An unconfigured vendor yields a disabled instance whose Generate returns
// "" without touching the network: generation is optional, transcription is
// not.
type ImageGenService struct {
	client   *resty.Client
	endpoint string
	model    string
	size     string
	enabled  bool
}

// NewImageGenService creates a new image generation client.
// Parameters:
//   - cfg: image vendor configuration; nil or keyless soft-disables.
// Returns:
//   - *ImageGenService: initialized (or disabled) client.
func NewImageGenService(cfg *config.ImageGenConfig) *ImageGenService {
	if cfg == nil || !cfg.Configured() {
		return &ImageGenService{enabled: false}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(timeout)

	size := cfg.Size
	if !isAllowedSize(size) {
		size = allowedSizes[0]
	}

	return &ImageGenService{
		client:   client,
		endpoint: cfg.BaseURL,
		model:    cfg.Model,
		size:     size,
		enabled:  true,
	}
}

// Enabled reports whether the vendor integration is configured.
func (s *ImageGenService) Enabled() bool {
	return s.enabled
}

type imageGenRequest struct {
	Model string `json:"model"`
	Input struct {
		Messages []imageGenMessage `json:"messages"`
	} `json:"input"`
	Parameters imageGenParameters `json:"parameters"`
}

type imageGenMessage struct {
	Role    string            `json:"role"`
	Content []imageGenContent `json:"content"`
}

type imageGenContent struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

type imageGenParameters struct {
	Size         string `json:"size"`
	PromptExtend bool   `json:"prompt_extend"`
	Watermark    bool   `json:"watermark"`
}

type imageGenResponse struct {
	Output struct {
		Choices []struct {
			Message struct {
				Content []imageGenContent `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	} `json:"output"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Generate requests an illustration for the prompt and returns the vendor's
// (typically expiring) image URL. If the first attempt fails specifically
// because the requested size is unsupported, it retries exactly once with a
// known-good size; every other failure propagates immediately.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - prompt: natural-language description of the desired image.
// Returns:
//   - string: temporary image URL, or "" when the vendor is soft-disabled.
//   - error: a PipelineError on vendor failure.
func (s *ImageGenService) Generate(ctx context.Context, prompt string) (string, error) {
	if !s.enabled {
		return "", nil
	}

	url, err := s.attempt(ctx, prompt, s.size)
	if err == nil {
		return url, nil
	}

	if !isSizeMismatch(err) {
		return "", err
	}

	retrySize := fallbackSize(s.size)
	logger.CtxWarn(ctx, "Image size %s rejected, retrying once with %s", s.size, retrySize)
	return s.attempt(ctx, prompt, retrySize)
}

func (s *ImageGenService) attempt(ctx context.Context, prompt, size string) (string, error) {
	req := imageGenRequest{Model: s.model}
	req.Input.Messages = []imageGenMessage{
		{
			Role:    "user",
			Content: []imageGenContent{{Text: prompt}},
		},
	}
	req.Parameters = imageGenParameters{
		Size:         size,
		PromptExtend: true,
		Watermark:    true,
	}

	var resp imageGenResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(s.endpoint)
	if err != nil {
		return "", pipelineErr(StepGenerateImage, KindTransport,
			"image generation request failed", err)
	}

	if httpResp.IsError() || resp.Code != "" {
		kind := classifyImageGenError(httpResp.StatusCode(), resp.Code, resp.Message)
		return "", pipelineErr(StepGenerateImage, kind,
			"image generation failed",
			fmt.Errorf("vendor status %d code %q: %s", httpResp.StatusCode(), resp.Code, resp.Message))
	}

	for _, choice := range resp.Output.Choices {
		for _, content := range choice.Message.Content {
			if content.Image != "" {
				return content.Image, nil
			}
		}
	}
	return "", pipelineErr(StepGenerateImage, KindVendor,
		"image generation failed",
		fmt.Errorf("vendor returned no image (status %d)", httpResp.StatusCode()))
}

// kindSizeMismatch is internal to the retry branch; it is never surfaced
// because the retry either succeeds or fails with the retry's own error.
const kindSizeMismatch ErrorKind = "size_mismatch"

func classifyImageGenError(status int, code, message string) ErrorKind {
	switch status {
	case 401, 403:
		return KindAuth
	case 429:
		return KindQuota
	}

	lowerMsg := strings.ToLower(message)
	switch {
	case code == "InvalidParameter" && strings.Contains(lowerMsg, "size"):
		return kindSizeMismatch
	case code == "InvalidApiKey" || code == "AccessDenied":
		return KindAuth
	case code == "Throttling" || strings.HasPrefix(code, "Throttling.") || code == "Arrearage":
		return KindQuota
	case code == "InvalidParameter" || code == "DataInspectionFailed":
		return KindInvalidInput
	}
	return KindVendor
}

func isSizeMismatch(err error) bool {
	return KindOf(err) == kindSizeMismatch
}

func isAllowedSize(size string) bool {
	for _, s := range allowedSizes {
		if s == size {
			return true
		}
	}
	return false
}

// fallbackSize picks a known-good size different from the rejected one.
func fallbackSize(rejected string) string {
	for _, s := range allowedSizes {
		if s != rejected {
			return s
		}
	}
	return allowedSizes[0]
}
