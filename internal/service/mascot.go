package service

import (
	"context"
	"errors"
	"time"

	"github.com/buzlove/love-tree-backend/internal/domain"
	"github.com/buzlove/love-tree-backend/internal/logger"
	"github.com/buzlove/love-tree-backend/internal/prompts"
	"github.com/buzlove/love-tree-backend/internal/repository"
	"github.com/google/uuid"
)

// Transcriber converts an audio buffer into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// ImageGenerator turns a prompt into a (possibly temporary) image URL.
// A disabled generator returns "" without error.
type ImageGenerator interface {
	Enabled() bool
	Generate(ctx context.Context, prompt string) (string, error)
}

// AssetPersister re-hosts a temporary image URL. It never fails; see
// AssetService.Persist for the degradation ladder.
type AssetPersister interface {
	Persist(ctx context.Context, imageURL string) Asset
}

// MascotStore is the record store the pipeline writes to and the read
// endpoints query.
type MascotStore interface {
	Create(ctx context.Context, mascot *domain.Mascot) error
	LatestByDevice(ctx context.Context, deviceID string) (*domain.Mascot, error)
	ListByPopularity(ctx context.Context) ([]domain.Mascot, error)
	IncrementLikes(ctx context.Context, id string) (int64, error)
}

// MascotConfig holds pipeline tunables.
type MascotConfig struct {
	MaxAudioDuration time.Duration
	SampleRate       int
}

// MascotService orchestrates the audio-to-mascot pipeline and fronts the
// mascot record store. The pipeline is a single linear sequence: validate,
// transcribe, generate, persist, store. The one retry (image size) and the
// one soft-disable (image vendor) live inside the respective clients; every
// other failure propagates to the caller attributed to its step.
type MascotService struct {
	store    MascotStore
	asr      Transcriber
	imagegen ImageGenerator
	assets   AssetPersister
	cfg      MascotConfig
}

// NewMascotService creates the generation orchestrator.
// Parameters:
//   - store: mascot record store.
//   - asr: speech-to-text client (required).
//   - imagegen: image generation client, possibly disabled.
//   - assets: asset persister.
//   - cfg: pipeline tunables; zero values get defaults (60s ceiling).
// Returns:
//   - *MascotService: initialized orchestrator.
func NewMascotService(store MascotStore, asr Transcriber, imagegen ImageGenerator, assets AssetPersister, cfg MascotConfig) *MascotService {
	if cfg.MaxAudioDuration <= 0 {
		cfg.MaxAudioDuration = 60 * time.Second
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	return &MascotService{
		store:    store,
		asr:      asr,
		imagegen: imagegen,
		assets:   assets,
		cfg:      cfg,
	}
}

// GenerateFromAudio runs the full pipeline for one uploaded recording and
// returns the stored record. Exactly one record is written, by the final
// step; any failure before that leaves no partial record behind.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - deviceID: caller's device identifier (required).
//   - audio: uploaded audio bytes (required).
// Returns:
//   - *domain.Mascot: the stored record on success.
//   - error: a PipelineError attributed to the failing step.
func (s *MascotService) GenerateFromAudio(ctx context.Context, deviceID string, audio []byte) (*domain.Mascot, error) {
	if deviceID == "" {
		return nil, pipelineErr(StepReceive, KindInvalidInput, "missing device identifier", nil)
	}
	if len(audio) == 0 {
		return nil, pipelineErr(StepReceive, KindInvalidInput, "no audio supplied", nil)
	}

	// Duration guard runs before any vendor call so over-long uploads cost
	// nothing.
	duration := audioDuration(audio, s.cfg.SampleRate)
	if duration > s.cfg.MaxAudioDuration {
		return nil, pipelineErr(StepReceive, KindAudioTooLong, "audio too long", nil)
	}

	start := time.Now()
	ctx = logger.SetDeviceID(ctx, deviceID)
	logger.With(logger.Fields{logger.FieldSize: len(audio)}).
		Info(ctx, "Generation started, audio ~%.1fs", duration.Seconds())

	transcript, err := s.asr.Transcribe(ctx, audio)
	if err != nil {
		return nil, err
	}
	logger.CtxInfo(ctx, "Transcription done, %d chars", len([]rune(transcript)))

	imageURL := ""
	if s.imagegen.Enabled() {
		imageURL, err = s.imagegen.Generate(ctx, prompts.Mascot(transcript))
		if err != nil {
			return nil, err
		}
	} else {
		logger.CtxDebug(ctx, "Image generation disabled, proceeding without image")
	}

	asset := s.assets.Persist(ctx, imageURL)

	mascot := &domain.Mascot{
		ID:         uuid.New().String(),
		DeviceID:   deviceID,
		Transcript: transcript,
		ImageURL:   asset.URL,
		Width:      asset.Width,
		Height:     asset.Height,
		Format:     asset.Format,
		CreatedAt:  time.Now(),
	}
	if err := s.store.Create(ctx, mascot); err != nil {
		return nil, pipelineErr(StepStore, KindStorage, "unable to save result", err)
	}

	logger.With(logger.Fields{
		logger.FieldMascotID:   mascot.ID,
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Info(ctx, "Generation stored")

	return mascot, nil
}

// Latest returns the device's most recent mascot, or nil when it has none.
// The nil record is a legitimate display state, distinct from a record with
// an empty image.
func (s *MascotService) Latest(ctx context.Context, deviceID string) (*domain.Mascot, error) {
	if deviceID == "" {
		return nil, pipelineErr(StepReceive, KindInvalidInput, "missing device identifier", nil)
	}
	mascot, err := s.store.LatestByDevice(ctx, deviceID)
	if err != nil {
		return nil, pipelineErr(StepStore, KindStorage, "unable to load result", err)
	}
	return mascot, nil
}

// List returns all mascots ordered by like count descending.
func (s *MascotService) List(ctx context.Context) ([]domain.Mascot, error) {
	mascots, err := s.store.ListByPopularity(ctx)
	if err != nil {
		return nil, pipelineErr(StepStore, KindStorage, "unable to load results", err)
	}
	return mascots, nil
}

// Like adds one like to a mascot and returns the new count.
func (s *MascotService) Like(ctx context.Context, id string) (int64, error) {
	likes, err := s.store.IncrementLikes(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, pipelineErr(StepStore, KindNotFound, "not found", err)
	}
	if err != nil {
		return 0, pipelineErr(StepStore, KindStorage, "unable to save like", err)
	}
	return likes, nil
}
