package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/buzlove/love-tree-backend/internal/domain"
	"github.com/buzlove/love-tree-backend/internal/repository"
)

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeGenerator struct {
	enabled bool
	url     string
	err     error
	calls   int
}

func (f *fakeGenerator) Enabled() bool { return f.enabled }

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.url, f.err
}

type fakePersister struct {
	calls int
}

func (f *fakePersister) Persist(ctx context.Context, imageURL string) Asset {
	f.calls++
	if imageURL == "" {
		return Asset{}
	}
	return Asset{URL: imageURL, Width: 1024, Height: 1024, Format: "png"}
}

type fakeMascotStore struct {
	created   []*domain.Mascot
	createErr error
	latest    *domain.Mascot
	listed    []domain.Mascot
	likes     int64
	likeErr   error
}

func (f *fakeMascotStore) Create(ctx context.Context, m *domain.Mascot) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, m)
	return nil
}

func (f *fakeMascotStore) LatestByDevice(ctx context.Context, deviceID string) (*domain.Mascot, error) {
	return f.latest, nil
}

func (f *fakeMascotStore) ListByPopularity(ctx context.Context) ([]domain.Mascot, error) {
	return f.listed, nil
}

func (f *fakeMascotStore) IncrementLikes(ctx context.Context, id string) (int64, error) {
	if f.likeErr != nil {
		return 0, f.likeErr
	}
	f.likes++
	return f.likes, nil
}

func newTestMascotService(store *fakeMascotStore, asr *fakeTranscriber, gen *fakeGenerator) (*MascotService, *fakePersister) {
	assets := &fakePersister{}
	svc := NewMascotService(store, asr, gen, assets, MascotConfig{
		MaxAudioDuration: 60 * time.Second,
		SampleRate:       16000,
	})
	return svc, assets
}

func TestGenerateFromAudio(t *testing.T) {
	store := &fakeMascotStore{}
	asr := &fakeTranscriber{text: "我想要一棵会发光的树"}
	gen := &fakeGenerator{enabled: true, url: "https://vendor.example/tmp/a.png"}
	svc, assets := newTestMascotService(store, asr, gen)

	audio := buildWAV(16000, 1, 16, 3*time.Second)
	mascot, err := svc.GenerateFromAudio(context.Background(), "device-1", audio)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mascot.ID == "" {
		t.Error("expected a generated id")
	}
	if mascot.DeviceID != "device-1" {
		t.Errorf("device id: got %q", mascot.DeviceID)
	}
	if mascot.Transcript != "我想要一棵会发光的树" {
		t.Errorf("transcript: got %q", mascot.Transcript)
	}
	if mascot.ImageURL != "https://vendor.example/tmp/a.png" {
		t.Errorf("image url: got %q", mascot.ImageURL)
	}
	if mascot.Width != 1024 || mascot.Format != "png" {
		t.Errorf("metadata: got %dx%d %q", mascot.Width, mascot.Height, mascot.Format)
	}
	if len(store.created) != 1 {
		t.Fatalf("records created: got %d, want 1", len(store.created))
	}
	if asr.calls != 1 || gen.calls != 1 || assets.calls != 1 {
		t.Errorf("calls: asr=%d gen=%d assets=%d, want 1 each", asr.calls, gen.calls, assets.calls)
	}
}

func TestGenerateFromAudioMissingDevice(t *testing.T) {
	store := &fakeMascotStore{}
	asr := &fakeTranscriber{}
	svc, _ := newTestMascotService(store, asr, &fakeGenerator{})

	_, err := svc.GenerateFromAudio(context.Background(), "", []byte("audio"))
	if KindOf(err) != KindInvalidInput {
		t.Errorf("kind: got %q, want %q", KindOf(err), KindInvalidInput)
	}
	if asr.calls != 0 {
		t.Errorf("asr calls: got %d, want 0", asr.calls)
	}
}

func TestGenerateFromAudioEmptyAudio(t *testing.T) {
	svc, _ := newTestMascotService(&fakeMascotStore{}, &fakeTranscriber{}, &fakeGenerator{})

	_, err := svc.GenerateFromAudio(context.Background(), "device-1", nil)
	if KindOf(err) != KindInvalidInput {
		t.Errorf("kind: got %q, want %q", KindOf(err), KindInvalidInput)
	}
}

func TestGenerateFromAudioDurationGuardSkipsVendors(t *testing.T) {
	store := &fakeMascotStore{}
	asr := &fakeTranscriber{text: "ignored"}
	gen := &fakeGenerator{enabled: true}
	svc, assets := newTestMascotService(store, asr, gen)

	audio := buildWAV(16000, 1, 16, 75*time.Second)
	_, err := svc.GenerateFromAudio(context.Background(), "device-1", audio)
	if KindOf(err) != KindAudioTooLong {
		t.Fatalf("kind: got %q, want %q", KindOf(err), KindAudioTooLong)
	}

	if asr.calls != 0 {
		t.Errorf("asr calls: got %d, want 0", asr.calls)
	}
	if gen.calls != 0 {
		t.Errorf("imagegen calls: got %d, want 0", gen.calls)
	}
	if assets.calls != 0 {
		t.Errorf("persist calls: got %d, want 0", assets.calls)
	}
	if len(store.created) != 0 {
		t.Errorf("records created: got %d, want 0", len(store.created))
	}
}

func TestGenerateFromAudioTranscribeErrorLeavesNoRecord(t *testing.T) {
	store := &fakeMascotStore{}
	asr := &fakeTranscriber{err: pipelineErr(StepTranscribe, KindUnintelligible, "could not understand the audio", nil)}
	gen := &fakeGenerator{enabled: true}
	svc, _ := newTestMascotService(store, asr, gen)

	_, err := svc.GenerateFromAudio(context.Background(), "device-1", buildWAV(16000, 1, 16, time.Second))
	if KindOf(err) != KindUnintelligible {
		t.Errorf("kind: got %q, want %q", KindOf(err), KindUnintelligible)
	}
	if gen.calls != 0 {
		t.Errorf("imagegen calls: got %d, want 0", gen.calls)
	}
	if len(store.created) != 0 {
		t.Errorf("records created: got %d, want 0", len(store.created))
	}
}

func TestGenerateFromAudioWithDisabledImageGen(t *testing.T) {
	store := &fakeMascotStore{}
	asr := &fakeTranscriber{text: "hello"}
	gen := &fakeGenerator{enabled: false}
	svc, _ := newTestMascotService(store, asr, gen)

	mascot, err := svc.GenerateFromAudio(context.Background(), "device-1", buildWAV(16000, 1, 16, time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("imagegen calls: got %d, want 0", gen.calls)
	}
	if mascot.ImageURL != "" {
		t.Errorf("image url: got %q, want empty", mascot.ImageURL)
	}
	// The record is still written: a transcript without an image is a
	// legitimate outcome.
	if len(store.created) != 1 {
		t.Errorf("records created: got %d, want 1", len(store.created))
	}
}

func TestGenerateFromAudioStoreFailure(t *testing.T) {
	store := &fakeMascotStore{createErr: errors.New("disk full")}
	svc, _ := newTestMascotService(store, &fakeTranscriber{text: "x"}, &fakeGenerator{})

	_, err := svc.GenerateFromAudio(context.Background(), "device-1", buildWAV(16000, 1, 16, time.Second))
	if KindOf(err) != KindStorage {
		t.Errorf("kind: got %q, want %q", KindOf(err), KindStorage)
	}

	var pe *PipelineError
	if !errors.As(err, &pe) {
		t.Fatal("expected a PipelineError")
	}
	if pe.Step != StepStore {
		t.Errorf("step: got %q, want %q", pe.Step, StepStore)
	}
}

func TestLatestRequiresDevice(t *testing.T) {
	svc, _ := newTestMascotService(&fakeMascotStore{}, &fakeTranscriber{}, &fakeGenerator{})

	_, err := svc.Latest(context.Background(), "")
	if KindOf(err) != KindInvalidInput {
		t.Errorf("kind: got %q, want %q", KindOf(err), KindInvalidInput)
	}
}

func TestLatestNoRecordIsNotAnError(t *testing.T) {
	svc, _ := newTestMascotService(&fakeMascotStore{latest: nil}, &fakeTranscriber{}, &fakeGenerator{})

	mascot, err := svc.Latest(context.Background(), "device-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mascot != nil {
		t.Errorf("mascot: got %+v, want nil", mascot)
	}
}

func TestLikeNotFound(t *testing.T) {
	store := &fakeMascotStore{likeErr: repository.ErrNotFound}
	svc, _ := newTestMascotService(store, &fakeTranscriber{}, &fakeGenerator{})

	_, err := svc.Like(context.Background(), "missing-id")
	if KindOf(err) != KindNotFound {
		t.Errorf("kind: got %q, want %q", KindOf(err), KindNotFound)
	}
}

func TestLike(t *testing.T) {
	store := &fakeMascotStore{likes: 4}
	svc, _ := newTestMascotService(store, &fakeTranscriber{}, &fakeGenerator{})

	likes, err := svc.Like(context.Background(), "some-id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if likes != 5 {
		t.Errorf("likes: got %d, want 5", likes)
	}
}
