package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"verisight/config"
	"verisight/scan"
	"verisight/types"

	"github.com/gin-gonic/gin"
)

// ReadMedia streams the multipart "media" field, sniffs its type and
// discards the bytes. Nothing is buffered to memory or disk beyond the sniff prefix.
// maxBytes limits the file itself; the request body gets a fixed allowance on top.
func ReadMedia(c *gin.Context, maxBytes int64) (types.Upload, error) {
	if maxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+config.MultipartOverhead)
	}

	mr, err := c.Request.MultipartReader()
	if err != nil {
		return types.Upload{}, fmt.Errorf("%w: expected multipart form with a %q file", ErrBadRequest, config.UploadField)
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return types.Upload{}, fmt.Errorf("%w: missing %q file", ErrBadRequest, config.UploadField)
		}
		if err != nil {
			return types.Upload{}, uploadError(err)
		}

		if part.FormName() != config.UploadField || part.FileName() == "" {
			if _, err := io.Copy(io.Discard, part); err != nil {
				return types.Upload{}, uploadError(err)
			}
			_ = part.Close()
			continue
		}

		body := &countingReader{r: part}
		upload, err := scan.Sniff(part.FileName(), 0, body)
		if err != nil {
			_ = part.Close()
			if errors.Is(err, scan.ErrUnsupportedMedia) {
				return types.Upload{}, err
			}
			return types.Upload{}, uploadError(err)
		}
		if _, err := io.Copy(io.Discard, body); err != nil {
			return types.Upload{}, uploadError(err)
		}
		_ = part.Close()
		if maxBytes > 0 && body.n > maxBytes {
			return types.Upload{}, tooLarge(maxBytes)
		}

		upload.Size = body.n
		return upload, nil
	}
}

func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return tooLarge(maxErr.Limit - config.MultipartOverhead)
	}
	return fmt.Errorf("%w: %v", ErrBadRequest, err)
}

func tooLarge(limit int64) error {
	if limit >= 1<<20 {
		return fmt.Errorf("%w (limit %d MB)", ErrUploadTooLarge, limit>>20)
	}
	return fmt.Errorf("%w (limit %d bytes)", ErrUploadTooLarge, limit)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
