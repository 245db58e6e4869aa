package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/buzlove/love-tree-backend/internal/config"
	"github.com/go-resty/resty/v2"
)

// ASRService transcribes short-form audio through the speech vendor. Two
// auth flows are supported: a long-lived bearer key, or an app key/secret
// pair exchanged out-of-band for a short-lived access token before each
// transcription (re-exchanged on expiry).
type ASRService struct {
	client     *resty.Client
	endpoint   string
	tokenURL   string
	model      string
	language   string
	sampleRate int

	apiKey    string
	appKey    string
	appSecret string

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

// NewASRService creates a new ASR client.
// Parameters:
//   - cfg: ASR vendor configuration.
// Returns:
//   - *ASRService: initialized client.
//   - error: a config-kind failure when no credential is present. The
//     upload path must not start without one.
func NewASRService(cfg *config.ASRConfig) (*ASRService, error) {
	if !cfg.Configured() {
		return nil, pipelineErr(StepTranscribe, KindConfig,
			"speech recognition credentials are not configured", nil)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(timeout)

	tokenURL := cfg.TokenURL
	if tokenURL == "" && cfg.AppKey != "" {
		tokenURL = strings.TrimSuffix(cfg.BaseURL, "/") + "/token"
	}

	return &ASRService{
		client:     client,
		endpoint:   cfg.BaseURL,
		tokenURL:   tokenURL,
		model:      cfg.Model,
		language:   cfg.Language,
		sampleRate: cfg.SampleRate,
		apiKey:     cfg.APIKey,
		appKey:     cfg.AppKey,
		appSecret:  cfg.AppSecret,
	}, nil
}

type asrRequest struct {
	Model string `json:"model"`
	Input struct {
		Audio string `json:"audio"`
	} `json:"input"`
	Parameters asrParameters `json:"parameters"`
}

type asrParameters struct {
	Format     string `json:"format"`
	SampleRate int    `json:"sample_rate"`
	Language   string `json:"language"`
}

type asrResponse struct {
	Output struct {
		Results []struct {
			Text string `json:"text"`
		} `json:"results"`
	} `json:"output"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type asrTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Code        string `json:"code,omitempty"`
	Message     string `json:"message,omitempty"`
}

// Transcribe sends an in-memory audio buffer to the vendor and returns the
// recognized text, which may legitimately be empty.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - audio: raw audio bytes (WAV expected).
// Returns:
//   - string: transcribed text, possibly "".
//   - error: a PipelineError classified by classifyASRError.
func (s *ASRService) Transcribe(ctx context.Context, audio []byte) (string, error) {
	bearer, err := s.authToken(ctx)
	if err != nil {
		return "", err
	}

	req := asrRequest{Model: s.model}
	req.Input.Audio = base64.StdEncoding.EncodeToString(audio)
	req.Parameters = asrParameters{
		Format:     "wav",
		SampleRate: s.sampleRate,
		Language:   s.language,
	}

	var resp asrResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+bearer).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(s.endpoint)
	if err != nil {
		return "", pipelineErr(StepTranscribe, KindTransport,
			"speech recognition request failed", err)
	}

	if httpResp.IsError() || resp.Code != "" {
		kind := classifyASRError(httpResp.StatusCode(), resp.Code)
		return "", pipelineErr(StepTranscribe, kind,
			asrKindMessage(kind),
			fmt.Errorf("vendor status %d code %q: %s", httpResp.StatusCode(), resp.Code, resp.Message))
	}

	if len(resp.Output.Results) == 0 {
		return "", nil
	}
	return resp.Output.Results[0].Text, nil
}

// authToken returns the bearer value for the next call: the static API key
// when present, otherwise a cached or freshly exchanged access token.
func (s *ASRService) authToken(ctx context.Context) (string, error) {
	if s.apiKey != "" {
		return s.apiKey, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.tokenExp) {
		return s.token, nil
	}

	var resp asrTokenResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"grant_type":    "client_credentials",
			"client_id":     s.appKey,
			"client_secret": s.appSecret,
		}).
		SetResult(&resp).
		SetError(&resp).
		Post(s.tokenURL)
	if err != nil {
		return "", pipelineErr(StepTranscribe, KindTransport,
			"speech recognition token exchange failed", err)
	}
	if httpResp.IsError() || resp.AccessToken == "" {
		return "", pipelineErr(StepTranscribe, KindAuth,
			"speech recognition authentication failed",
			fmt.Errorf("token exchange status %d code %q: %s", httpResp.StatusCode(), resp.Code, resp.Message))
	}

	s.token = resp.AccessToken
	expires := time.Duration(resp.ExpiresIn) * time.Second
	if expires <= 0 {
		expires = 10 * time.Minute
	}
	// Refresh one minute early so an in-flight call never carries a token
	// that expires mid-request.
	s.tokenExp = time.Now().Add(expires - time.Minute)

	return s.token, nil
}

// classifyASRError maps vendor status/code pairs onto the closed ErrorKind
// set. Unknown codes degrade to KindVendor.
func classifyASRError(status int, code string) ErrorKind {
	switch status {
	case 401, 403:
		return KindAuth
	case 429:
		return KindQuota
	}

	switch {
	case code == "InvalidApiKey" || code == "AccessDenied" || code == "InvalidToken":
		return KindAuth
	case code == "Throttling" || strings.HasPrefix(code, "Throttling.") ||
		code == "Arrearage" || code == "QuotaExhausted":
		return KindQuota
	case code == "InvalidFile.Duration" || code == "AudioTooLong":
		return KindAudioTooLong
	case code == "SpeechNotRecognized" || code == "NoValidSpeech":
		return KindUnintelligible
	case strings.HasPrefix(code, "InvalidFile") || code == "UnsupportedFormat" ||
		code == "InvalidParameter":
		return KindInvalidInput
	}
	return KindVendor
}

func asrKindMessage(kind ErrorKind) string {
	switch kind {
	case KindAuth:
		return "speech recognition authentication failed"
	case KindQuota:
		return "speech recognition quota exceeded"
	case KindAudioTooLong:
		return "audio too long"
	case KindUnintelligible:
		return "audio was not intelligible"
	case KindInvalidInput:
		return "audio was rejected by the speech service"
	default:
		return "speech recognition failed"
	}
}
