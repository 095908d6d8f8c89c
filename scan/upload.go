package scan

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"verisight/config"
	"verisight/types"

	"github.com/gabriel-vasile/mimetype"
)

// ErrUnsupportedMedia is returned for files that are not images, videos or audio
var ErrUnsupportedMedia = errors.New("unsupported media type")

// Accept lists the MIME families the upload zone takes
var Accept = []string{"image/*", "video/*", "audio/*"}

// Sniff inspects the first bytes of r and returns the upload metadata.
// Only the sniffed prefix is read; the rest of the body is never consumed or kept.
func Sniff(name string, size int64, r io.Reader) (types.Upload, error) {
	buf := make([]byte, config.SniffBytes)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return types.Upload{}, fmt.Errorf("read upload: %w", err)
	}
	if n == 0 {
		return types.Upload{}, fmt.Errorf("%w: empty file", ErrUnsupportedMedia)
	}

	mime, _, _ := strings.Cut(mimetype.Detect(buf[:n]).String(), ";")
	kind, ok := KindOf(mime)
	if !ok {
		return types.Upload{}, fmt.Errorf("%w: %s", ErrUnsupportedMedia, mime)
	}

	return types.Upload{
		Name:     filepath.Base(name),
		Size:     size,
		MIME:     mime,
		Kind:     kind,
		Received: time.Now(),
	}, nil
}

// KindOf maps a MIME type to the media family it belongs to
func KindOf(mime string) (types.MediaType, bool) {
	family, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(mime)), "/")
	kind := types.MediaType(family)
	return kind, kind.Valid()
}
