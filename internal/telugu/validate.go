package telugu

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// audioExtensions lists the upload formats the Whisper endpoint accepts.
var audioExtensions = map[string]bool{
	".flac": true,
	".m4a":  true,
	".mp3":  true,
	".mp4":  true,
	".ogg":  true,
	".wav":  true,
	".webm": true,
}

// MaxAudioBytes caps uploaded audio files (the Whisper API limit is 25 MB).
const MaxAudioBytes = 25 << 20

// ValidateText validates that the input contains Telugu-script text
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	hasTelugu := false
	for _, r := range text {
		if unicode.In(r, unicode.Telugu) {
			hasTelugu = true
			break
		}
	}

	if !hasTelugu {
		return fmt.Errorf("text must contain Telugu characters")
	}

	return nil
}

// ValidateAudioFile checks the file name and size of an uploaded audio file
func ValidateAudioFile(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !audioExtensions[ext] {
		return fmt.Errorf("unsupported audio format %q", ext)
	}
	if size <= 0 {
		return fmt.Errorf("audio file is empty")
	}
	if size > MaxAudioBytes {
		return fmt.Errorf("audio file too large: %d bytes (max %d)", size, MaxAudioBytes)
	}
	return nil
}
