package core

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ErrPickCancelled is returned by an ImagePicker when the user did not
// select an image.
var ErrPickCancelled = errors.New("no image selected")

// maxAvatarBytes bounds the file read by the file picker.
const maxAvatarBytes = 8 << 20

// ImagePicker obtains an encoded image payload chosen by the user. The
// returned string is opaque to callers.
type ImagePicker interface {
	Pick(ctx context.Context, source string) (string, error)
}

type fileImagePicker struct{}

// NewFileImagePicker returns an ImagePicker that reads the image at the given
// path and returns it as a data URI. An empty path is a cancellation.
func NewFileImagePicker() ImagePicker {
	return fileImagePicker{}
}

// Pick reads source and encodes it as data:<mime>;base64,<payload>.
func (fileImagePicker) Pick(ctx context.Context, source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", ErrPickCancelled
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path, err := expandHome(source)
	if err != nil {
		return "", fmt.Errorf("picking image: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("picking image: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("picking image: %s is a directory", path)
	}
	if info.Size() > maxAvatarBytes {
		return "", fmt.Errorf("picking image: %s is larger than %d bytes", path, maxAvatarBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("picking image: %w", err)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("picking image: %s is not an image (%s)", path, mime)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
