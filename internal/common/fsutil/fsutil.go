package fsutil

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// ReadLocalFile reads a plan image from disk and guesses its media type from
// the extension, falling back to content sniffing.
func ReadLocalFile(path string) (data []byte, mediaType string, err error) {
	p, err := ExpandHome(path)
	if err != nil {
		return nil, "", err
	}
	data, err = os.ReadFile(p)
	if err != nil {
		return nil, "", err
	}
	mediaType = mime.TypeByExtension(strings.ToLower(filepath.Ext(p)))
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	if mediaType == "" && len(data) > 0 {
		mediaType = http.DetectContentType(data)
	}
	return data, mediaType, nil
}
