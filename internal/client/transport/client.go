// Package transport implements the HTTP side of the upload client: multipart
// batch uploads with byte-level progress, listing, deletion and crop
// requests against the server's single endpoint.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/avolkov/filedrop/internal/client/models"
	"github.com/avolkov/filedrop/internal/common"
	"github.com/avolkov/filedrop/internal/logging"
)

type Client struct {
	endpoint string
	hc       *http.Client
	logger   logging.Logger
}

func New(endpoint string, timeout time.Duration, logger logging.Logger) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		hc:       &http.Client{Timeout: timeout},
		logger:   logger.With("module", "transport"),
	}
}

// Send uploads one batch as a multipart request. The body is assembled up
// front so progress can report against a known total.
func (c *Client) Send(ctx context.Context, files []models.PendingFile, progress func(loaded, total int64)) ([]models.UploadResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, f := range files {
		fw, err := mw.CreateFormFile("files[]", f.Name)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		src, err := os.Open(f.Path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Path, err)
		}

		_, err = io.Copy(fw, src)
		src.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Path, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	total := int64(buf.Len())
	body := &progressReader{r: &buf, total: total, fn: progress}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.ContentLength = total

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, decodeError(resp)
	}

	var out []models.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return out, nil
}

// List fetches one listing page. Zero values omit the query parameter and
// leave the server default in charge.
func (c *Client) List(ctx context.Context, limit, offset, sort int) (*models.ListResult, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if sort > 0 {
		q.Set("sort", strconv.Itoa(sort))
	}

	var out models.ListResult
	if err := c.getJSON(ctx, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete asks the server to remove the named files. The result maps each
// filename to whether it was removed.
func (c *Client) Delete(ctx context.Context, names []string) (map[string]bool, error) {
	q := url.Values{}
	for _, n := range names {
		q.Add("files[]", n)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	var out map[string]bool
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CropParams mirror the server's crop parameters; ScaleX/ScaleY of -1
// request a flip.
type CropParams struct {
	X      int
	Y      int
	Width  int
	Height int
	Rotate int
	ScaleX int
	ScaleY int
}

// Crop applies a crop to a stored image and returns its updated metadata.
func (c *Client) Crop(ctx context.Context, name string, p CropParams) (*models.UploadResult, error) {
	q := url.Values{
		"file":   {name},
		"x":      {strconv.Itoa(p.X)},
		"y":      {strconv.Itoa(p.Y)},
		"width":  {strconv.Itoa(p.Width)},
		"height": {strconv.Itoa(p.Height)},
	}
	if p.Rotate != 0 {
		q.Set("rotate", strconv.Itoa(p.Rotate))
	}
	if p.ScaleX == -1 {
		q.Set("scaleX", "-1")
	}
	if p.ScaleY == -1 {
		q.Set("scaleY", "-1")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	var out models.UploadResult
	if err := c.doJSON(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, q url.Values, out any) error {
	u := c.endpoint
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	return c.doJSON(req, out)
}

func (c *Client) doJSON(req *http.Request, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// decodeError maps an error response back onto the shared error taxonomy:
// 400 carries an abort message, 404 is the not-found sentinel, everything
// else surfaces the server message.
func decodeError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return common.Abort(body.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", body.Message, common.ErrorNotFound)
	default:
		if body.Message == "" {
			body.Message = resp.Status
		}
		return fmt.Errorf("server error: %s", body.Message)
	}
}

// progressReader counts request body bytes as the transport consumes them.
type progressReader struct {
	r      io.Reader
	loaded int64
	total  int64
	fn     func(loaded, total int64)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.loaded += int64(n)
		if p.fn != nil {
			p.fn(p.loaded, p.total)
		}
	}
	return n, err
}
