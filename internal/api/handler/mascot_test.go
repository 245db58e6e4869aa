package handler

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/buzlove/love-tree-backend/internal/domain"
	"github.com/buzlove/love-tree-backend/internal/repository"
	"github.com/buzlove/love-tree-backend/internal/service"
	"github.com/gin-gonic/gin"
)

type stubTranscriber struct {
	text string
	err  error
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return s.text, s.err
}

type stubGenerator struct{ url string }

func (s *stubGenerator) Enabled() bool { return s.url != "" }

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return s.url, nil
}

type stubPersister struct{}

func (stubPersister) Persist(ctx context.Context, imageURL string) service.Asset {
	return service.Asset{URL: imageURL}
}

type stubStore struct {
	created []*domain.Mascot
	latest  *domain.Mascot
	listed  []domain.Mascot
	likes   int64
	likeErr error
}

func (s *stubStore) Create(ctx context.Context, m *domain.Mascot) error {
	s.created = append(s.created, m)
	return nil
}

func (s *stubStore) LatestByDevice(ctx context.Context, deviceID string) (*domain.Mascot, error) {
	return s.latest, nil
}

func (s *stubStore) ListByPopularity(ctx context.Context) ([]domain.Mascot, error) {
	return s.listed, nil
}

func (s *stubStore) IncrementLikes(ctx context.Context, id string) (int64, error) {
	if s.likeErr != nil {
		return 0, s.likeErr
	}
	return s.likes, nil
}

func newTestRouter(store *stubStore, asr *stubTranscriber, gen *stubGenerator) *gin.Engine {
	gin.SetMode(gin.TestMode)

	mascots := service.NewMascotService(store, asr, gen, stubPersister{}, service.MascotConfig{
		MaxAudioDuration: 60 * time.Second,
		SampleRate:       16000,
	})
	h := NewMascotHandler(mascots)

	r := gin.New()
	r.POST("/api/mascot/from-audio", h.FromAudio)
	r.GET("/api/mascot", h.List)
	r.GET("/api/mascot/latest", h.Latest)
	r.PATCH("/api/mascot/:id/like", h.Like)
	return r
}

// wavUpload builds a multipart body with a short valid WAV in field "audio".
func wavUpload(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()

	sampleRate, dataLen := 16000, 32000 // one second, 16-bit mono
	wav := &bytes.Buffer{}
	wav.WriteString("RIFF")
	binary.Write(wav, binary.LittleEndian, uint32(36+dataLen))
	wav.WriteString("WAVEfmt ")
	binary.Write(wav, binary.LittleEndian, uint32(16))
	binary.Write(wav, binary.LittleEndian, uint16(1))
	binary.Write(wav, binary.LittleEndian, uint16(1))
	binary.Write(wav, binary.LittleEndian, uint32(sampleRate))
	binary.Write(wav, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(wav, binary.LittleEndian, uint16(2))
	binary.Write(wav, binary.LittleEndian, uint16(16))
	wav.WriteString("data")
	binary.Write(wav, binary.LittleEndian, uint32(dataLen))
	wav.Write(make([]byte, dataLen))

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("audio", "recording.wav")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	fw.Write(wav.Bytes())
	mw.Close()
	return body, mw.FormDataContentType()
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestFromAudio(t *testing.T) {
	store := &stubStore{}
	r := newTestRouter(store, &stubTranscriber{text: "发光的树"}, &stubGenerator{url: "https://vendor.example/a.png"})

	body, contentType := wavUpload(t)
	req := httptest.NewRequest(http.MethodPost, "/api/mascot/from-audio", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(headerDeviceID, "device-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", w.Code, w.Body.String())
	}

	resp := decodeBody(t, w)
	var mascot domain.Mascot
	if err := json.Unmarshal(resp["mascot"], &mascot); err != nil {
		t.Fatalf("failed to decode mascot: %v", err)
	}
	if mascot.Transcript != "发光的树" {
		t.Errorf("transcript: got %q", mascot.Transcript)
	}
	if mascot.DeviceID != "device-1" {
		t.Errorf("device id: got %q", mascot.DeviceID)
	}
	if len(store.created) != 1 {
		t.Errorf("records created: got %d, want 1", len(store.created))
	}
}

func TestFromAudioMissingDevice(t *testing.T) {
	r := newTestRouter(&stubStore{}, &stubTranscriber{}, &stubGenerator{})

	body, contentType := wavUpload(t)
	req := httptest.NewRequest(http.MethodPost, "/api/mascot/from-audio", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestFromAudioMissingFile(t *testing.T) {
	r := newTestRouter(&stubStore{}, &stubTranscriber{}, &stubGenerator{})

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	mw.WriteField("note", "no audio here")
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/mascot/from-audio", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(headerDeviceID, "device-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestFromAudioUnintelligibleIs422(t *testing.T) {
	asr := &stubTranscriber{err: &service.PipelineError{
		Step:    service.StepTranscribe,
		Kind:    service.KindUnintelligible,
		Message: "could not understand the audio",
	}}
	r := newTestRouter(&stubStore{}, asr, &stubGenerator{})

	body, contentType := wavUpload(t)
	req := httptest.NewRequest(http.MethodPost, "/api/mascot/from-audio", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(headerDeviceID, "device-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want 422", w.Code)
	}
	resp := decodeBody(t, w)
	var msg string
	json.Unmarshal(resp["error"], &msg)
	if msg != "could not understand the audio" {
		t.Errorf("error message: got %q", msg)
	}
}

func TestLatestNoRecordReturnsNull(t *testing.T) {
	r := newTestRouter(&stubStore{latest: nil}, &stubTranscriber{}, &stubGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/api/mascot/latest", nil)
	req.Header.Set(headerDeviceID, "device-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	resp := decodeBody(t, w)
	if string(resp["mascot"]) != "null" {
		t.Errorf("mascot: got %s, want null", resp["mascot"])
	}
	if string(resp["success"]) != "true" {
		t.Errorf("success: got %s, want true", resp["success"])
	}
}

func TestLatestMissingDevice(t *testing.T) {
	r := newTestRouter(&stubStore{}, &stubTranscriber{}, &stubGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/api/mascot/latest", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestList(t *testing.T) {
	store := &stubStore{listed: []domain.Mascot{
		{ID: "a", Likes: 5},
		{ID: "b", Likes: 2},
	}}
	r := newTestRouter(store, &stubTranscriber{}, &stubGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/api/mascot", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	resp := decodeBody(t, w)
	var mascots []domain.Mascot
	if err := json.Unmarshal(resp["mascots"], &mascots); err != nil {
		t.Fatalf("failed to decode mascots: %v", err)
	}
	if len(mascots) != 2 || mascots[0].ID != "a" {
		t.Errorf("mascots: got %+v", mascots)
	}
}

func TestLike(t *testing.T) {
	r := newTestRouter(&stubStore{likes: 6}, &stubTranscriber{}, &stubGenerator{})

	req := httptest.NewRequest(http.MethodPatch, "/api/mascot/some-id/like", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	resp := decodeBody(t, w)
	if string(resp["likes"]) != "6" {
		t.Errorf("likes: got %s, want 6", resp["likes"])
	}
}

func TestLikeNotFound(t *testing.T) {
	r := newTestRouter(&stubStore{likeErr: repository.ErrNotFound}, &stubTranscriber{}, &stubGenerator{})

	req := httptest.NewRequest(http.MethodPatch, "/api/mascot/missing/like", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", w.Code)
	}
}
