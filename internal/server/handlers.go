package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"codeberg.org/telvox/telugutoenglish/internal"
	"codeberg.org/telvox/telugutoenglish/internal/engine"
	"codeberg.org/telvox/telugutoenglish/internal/telugu"
)

// TranslateRequest is the JSON body of POST /api/translate
type TranslateRequest struct {
	Text string `json:"text" binding:"required"`
}

// handleTranslate translates Telugu text submitted by one session
func (s *Server) handleTranslate(c *gin.Context) {
	var request TranslateRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid_input",
			"message": "request body must be JSON with a 'text' field",
		})
		return
	}

	translation, err := s.engine.TranslateText(c.Request.Context(), request.Text)
	if err != nil {
		s.renderEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"translation":    translation,
			"sourceLanguage": "te",
			"targetLanguage": "en",
		},
	})
}

// handleTranslateAudio accepts an uploaded Telugu audio file, translates the
// speech to English text and, when synthesis is enabled, returns a URL to
// the spoken English version.
func (s *Server) handleTranslateAudio(c *gin.Context) {
	file, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid_input",
			"message": "multipart field 'audio' is required",
		})
		return
	}

	if err := telugu.ValidateAudioFile(file.Filename, file.Size); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid_input",
			"message": err.Error(),
		})
		return
	}

	// The Whisper client reads from a file path, so stage the upload in a
	// per-request temp directory that is removed when the request ends.
	tmpDir, err := os.MkdirTemp("", "telugutoenglish-upload-")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "internal_error",
			"message": "failed to stage uploaded file",
		})
		return
	}
	defer os.RemoveAll(tmpDir)

	uploadPath := filepath.Join(tmpDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, uploadPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "internal_error",
			"message": "failed to save uploaded file",
		})
		return
	}

	translation, err := s.engine.TranslateAudio(c.Request.Context(), uploadPath)
	if err != nil {
		s.renderEngineError(c, err)
		return
	}

	data := gin.H{
		"translation":    translation,
		"sourceLanguage": "te",
		"targetLanguage": "en",
	}

	if s.speech != nil && translation != "" {
		audioName, err := s.synthesize(c, translation)
		if err != nil {
			// Synthesis failure is reported but does not discard the translation
			fmt.Printf("Warning: speech synthesis failed: %v\n", err)
			data["speechError"] = "speech synthesis unavailable"
		} else {
			data["audioUrl"] = "/audio/" + audioName
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// synthesize writes spoken English for the translation and returns the file name
func (s *Server) synthesize(c *gin.Context, translation string) (string, error) {
	if err := os.MkdirAll(s.config.AudioDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audio directory: %w", err)
	}

	timestamp := time.Now().Format("20060102150405.000")
	name := fmt.Sprintf("translated_audio_%s.%s",
		strings.ReplaceAll(timestamp, ".", ""), s.config.SpeechFormat)
	outputFile := filepath.Join(s.config.AudioDir, name)

	if err := s.speech.GenerateAudio(c.Request.Context(), translation, outputFile); err != nil {
		return "", err
	}
	return name, nil
}

// handleAudioFile serves a synthesized speech file back to the session
func (s *Server) handleAudioFile(c *gin.Context) {
	name := c.Param("name")
	if !safeAudioName(name) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid_input",
			"message": "invalid audio file name",
		})
		return
	}

	path := filepath.Join(s.config.AudioDir, name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "not_found",
			"message": "audio file not found",
		})
		return
	}

	c.File(path)
}

// handleHealth reports engine identity and availability
func (s *Server) handleHealth(c *gin.Context) {
	if s.engine == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "engine_unavailable",
			"message": "translation engine not initialized",
		})
		return
	}

	if err := s.engine.IsAvailable(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "engine_unavailable",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"status":  "ok",
			"engine":  s.engine.Name(),
			"version": internal.Version,
		},
	})
}

// renderEngineError maps the engine error taxonomy onto HTTP responses. A
// failed request only ever affects the submitting session.
func (s *Server) renderEngineError(c *gin.Context, err error) {
	var te *engine.TranslationError

	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "invalid_input",
			"message": err.Error(),
		})
	case errors.Is(err, engine.ErrEngineUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "engine_unavailable",
			"message": err.Error(),
		})
	case errors.As(err, &te):
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error":   "translation_failed",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "internal_error",
			"message": err.Error(),
		})
	}
}

// safeAudioName accepts only the flat file names this server generates
func safeAudioName(name string) bool {
	if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return false
	}
	for _, r := range name {
		alnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !alnum && r != '-' && r != '_' && r != '.' {
			return false
		}
	}
	return true
}
