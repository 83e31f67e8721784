package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"codeberg.org/telvox/telugutoenglish/internal/engine"
	"codeberg.org/telvox/telugutoenglish/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, eng *testutil.MockEngine, sp *testutil.MockSpeechProvider) *Server {
	t.Helper()
	config := DefaultConfig()
	config.AudioDir = t.TempDir()
	config.RateLimit = 0 // rate limiting has its own tests

	if sp == nil {
		return New(eng, nil, config)
	}
	return New(eng, sp, config)
}

func postJSON(t *testing.T, s *Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, w.Body.String())
	}
	return body
}

func TestHandleTranslate_Success(t *testing.T) {
	eng := &testutil.MockEngine{
		Translations: map[string]string{"నమస్కారం": "hello"},
	}
	s := newTestServer(t, eng, nil)

	w := postJSON(t, s, "/api/translate", TranslateRequest{Text: "నమస్కారం"})

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (body: %s)", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	if body["success"] != true {
		t.Error("Expected success=true")
	}

	data := body["data"].(map[string]any)
	if data["translation"] != "hello" {
		t.Errorf("Expected translation 'hello', got %v", data["translation"])
	}
	if data["sourceLanguage"] != "te" || data["targetLanguage"] != "en" {
		t.Errorf("Unexpected language pair: %v -> %v", data["sourceLanguage"], data["targetLanguage"])
	}
}

func TestHandleTranslate_MissingBody(t *testing.T) {
	s := newTestServer(t, &testutil.MockEngine{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/translate", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}

	body := decodeBody(t, w)
	if body["error"] != "invalid_input" {
		t.Errorf("Expected error 'invalid_input', got %v", body["error"])
	}
}

func TestHandleTranslate_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		engineErr  error
		wantStatus int
		wantError  string
	}{
		{
			name:       "invalid input",
			engineErr:  fmt.Errorf("%w: text must contain Telugu characters", engine.ErrInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid_input",
		},
		{
			name:       "engine unavailable",
			engineErr:  fmt.Errorf("%w: circuit breaker open", engine.ErrEngineUnavailable),
			wantStatus: http.StatusServiceUnavailable,
			wantError:  "engine_unavailable",
		},
		{
			name:       "translation failure",
			engineErr:  &engine.TranslationError{Engine: "openai", Err: fmt.Errorf("upstream 500")},
			wantStatus: http.StatusBadGateway,
			wantError:  "translation_failed",
		},
		{
			name:       "unknown error",
			engineErr:  fmt.Errorf("something odd"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := &testutil.MockEngine{
				Errors: map[string]error{"పరీక్ష": tt.engineErr},
			}
			s := newTestServer(t, eng, nil)

			w := postJSON(t, s, "/api/translate", TranslateRequest{Text: "పరీక్ష"})

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			body := decodeBody(t, w)
			if body["error"] != tt.wantError {
				t.Errorf("Expected error %q, got %v", tt.wantError, body["error"])
			}
		})
	}
}

func TestHandleTranslate_SessionIsolation(t *testing.T) {
	// One failing session must not affect concurrent successful ones
	eng := &testutil.MockEngine{
		Translations: map[string]string{"నమస్కారం": "hello"},
		Errors: map[string]error{
			"చెడు": &engine.TranslationError{Engine: "openai", Err: fmt.Errorf("boom")},
		},
	}
	s := newTestServer(t, eng, nil)

	var wg sync.WaitGroup
	results := make([]int, 20)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			text := "నమస్కారం"
			if n%2 == 1 {
				text = "చెడు"
			}
			w := postJSON(t, s, "/api/translate", TranslateRequest{Text: text})
			results[n] = w.Code
		}(i)
	}
	wg.Wait()

	for i, code := range results {
		if i%2 == 0 && code != http.StatusOK {
			t.Errorf("Session %d expected 200, got %d", i, code)
		}
		if i%2 == 1 && code != http.StatusBadGateway {
			t.Errorf("Session %d expected 502, got %d", i, code)
		}
	}
}

func postAudio(t *testing.T, s *Server, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("audio", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/translate/audio", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHandleTranslateAudio_Success(t *testing.T) {
	eng := &testutil.MockEngine{AudioResult: "how are you"}
	sp := &testutil.MockSpeechProvider{}
	s := newTestServer(t, eng, sp)

	w := postAudio(t, s, "speech.wav", []byte("fake wav data"))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d (body: %s)", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	if data["translation"] != "how are you" {
		t.Errorf("Expected translation 'how are you', got %v", data["translation"])
	}

	audioURL, ok := data["audioUrl"].(string)
	if !ok || !strings.HasPrefix(audioURL, "/audio/translated_audio_") {
		t.Fatalf("Expected synthesized audio URL, got %v", data["audioUrl"])
	}

	// The synthesized file must be servable by the same server
	req := httptest.NewRequest(http.MethodGet, audioURL, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 serving %s, got %d", audioURL, rec.Code)
	}
}

func TestHandleTranslateAudio_NoSpeechProvider(t *testing.T) {
	eng := &testutil.MockEngine{AudioResult: "how are you"}
	s := newTestServer(t, eng, nil)

	w := postAudio(t, s, "speech.mp3", []byte("fake mp3 data"))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	data := decodeBody(t, w)["data"].(map[string]any)
	if _, ok := data["audioUrl"]; ok {
		t.Error("Expected no audioUrl when synthesis is disabled")
	}
}

func TestHandleTranslateAudio_SynthesisFailureKeepsTranslation(t *testing.T) {
	eng := &testutil.MockEngine{AudioResult: "how are you"}
	sp := &testutil.MockSpeechProvider{GenerateErr: fmt.Errorf("tts down")}
	s := newTestServer(t, eng, sp)

	w := postAudio(t, s, "speech.wav", []byte("fake wav data"))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 despite synthesis failure, got %d", w.Code)
	}

	data := decodeBody(t, w)["data"].(map[string]any)
	if data["translation"] != "how are you" {
		t.Errorf("Translation must survive synthesis failure, got %v", data["translation"])
	}
	if data["speechError"] == nil {
		t.Error("Expected speechError to be reported")
	}
}

func TestHandleTranslateAudio_InvalidUpload(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{"unsupported format", "document.txt", []byte("text")},
		{"no extension", "audio", []byte("data")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &testutil.MockEngine{}, nil)
			w := postAudio(t, s, tt.filename, tt.data)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", w.Code)
			}
			body := decodeBody(t, w)
			if body["error"] != "invalid_input" {
				t.Errorf("Expected 'invalid_input', got %v", body["error"])
			}
		})
	}
}

func TestHandleAudioFile_UnsafeNames(t *testing.T) {
	s := newTestServer(t, &testutil.MockEngine{}, nil)

	for _, name := range []string{"..%2Fsecret.mp3", "a%2Fb.mp3", "bad..name.mp3"} {
		req := httptest.NewRequest(http.MethodGet, "/audio/"+name, nil)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest && w.Code != http.StatusNotFound {
			t.Errorf("Expected rejection for %q, got %d", name, w.Code)
		}
	}
}

func TestHandleHealth(t *testing.T) {
	t.Run("available engine", func(t *testing.T) {
		s := newTestServer(t, &testutil.MockEngine{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		data := decodeBody(t, w)["data"].(map[string]any)
		if data["engine"] != "mock" {
			t.Errorf("Expected engine 'mock', got %v", data["engine"])
		}
	})

	t.Run("unavailable engine", func(t *testing.T) {
		eng := &testutil.MockEngine{AvailableErr: fmt.Errorf("no API key")}
		s := newTestServer(t, eng, nil)

		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("Expected 503, got %d", w.Code)
		}
		body := decodeBody(t, w)
		if body["error"] != "engine_unavailable" {
			t.Errorf("Expected 'engine_unavailable', got %v", body["error"])
		}
	})
}

func TestHandleIndex(t *testing.T) {
	s := newTestServer(t, &testutil.MockEngine{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Telugu to English Translation") {
		t.Error("Index page missing title")
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Expected HTML content type, got %s", ct)
	}
}

func TestSafeAudioName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"translated_audio_20250101120000000.mp3", true},
		{"file.wav", true},
		{"", false},
		{"../etc/passwd", false},
		{"a/b.mp3", false},
		{"a\\b.mp3", false},
		{"bad..name.mp3", false},
		{"spaced name.mp3", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := safeAudioName(tt.name); got != tt.want {
				t.Errorf("safeAudioName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
