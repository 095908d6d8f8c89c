package client

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"verisight/config"
	shared "verisight/shared/types"
)

// CreateScan opens a new idle session
func (c *Client) CreateScan(ctx context.Context) (*shared.Snapshot, error) {
	var snap shared.Snapshot
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/scans", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// GetScan fetches the current snapshot of a session
func (c *Client) GetScan(ctx context.Context, id string) (*shared.Snapshot, error) {
	var snap shared.Snapshot
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/scans/"+url.PathEscape(id), nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ResetScan returns a completed session to idle
func (c *Client) ResetScan(ctx context.Context, id string) (*shared.Snapshot, error) {
	var snap shared.Snapshot
	path := "/api/scans/" + url.PathEscape(id) + "/reset"
	if err := c.doJSONRequest(ctx, http.MethodPost, path, nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Recent lists up to limit completed scans, newest first
func (c *Client) Recent(ctx context.Context, limit int) ([]shared.ActivityItem, error) {
	var resp struct {
		Items []shared.ActivityItem `json:"items"`
	}
	path := "/api/scans/recent"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	if err := c.doJSONRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// UploadFile streams the file at path to the session as multipart "media"
func (c *Client) UploadFile(ctx context.Context, id, path string) (*shared.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	return c.Upload(ctx, id, filepath.Base(path), f)
}

// Upload streams body to the session under the given file name
func (c *Client) Upload(ctx context.Context, id, name string, body io.Reader) (*shared.Snapshot, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile(config.UploadField, name)
		if err == nil {
			_, err = io.Copy(part, body)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	path := "/api/scans/" + url.PathEscape(id) + "/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, pr)
	if err != nil {
		_ = pr.CloseWithError(err)
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var snap shared.Snapshot
	err = c.do(req, &snap)
	// unblocks the writer if the server answered before reading the whole body
	_ = pr.CloseWithError(io.ErrClosedPipe)
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
