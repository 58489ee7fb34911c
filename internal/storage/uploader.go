package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// MaxUploadBytes bounds task attachments.
const MaxUploadBytes = 10 << 20

var ErrTooLarge = errors.New("attachment exceeds 10 MB")

// BlobUploader forwards files to the external blob service. The service
// answers {"url": "..."} and this process keeps only that URL.
type BlobUploader struct {
	endpoint string
	token    string
	timeout  time.Duration
}

func NewBlobUploader(baseURL, token string) *BlobUploader {
	return &BlobUploader{
		endpoint: strings.TrimRight(baseURL, "/") + "/upload-file",
		token:    token,
		timeout:  30 * time.Second,
	}
}

type uploadResponse struct {
	URL   string `json:"url"`
	Error string `json:"error"`
}

func (u *BlobUploader) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(content, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("read attachment: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return "", ErrTooLarge
	}

	timeout := u.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	agent := fiber.Post(u.endpoint).Timeout(timeout)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return "", fmt.Errorf("upload endpoint: %w", err)
	}
	if u.token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+u.token)
	}
	agent.FileData(&fiber.FormFile{
		Fieldname: "file",
		Name:      ObjectName(filename),
		Content:   data,
	})
	agent.MultipartForm(nil)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return "", fmt.Errorf("upload request: %w", errors.Join(errs...))
	}

	var resp uploadResponse
	if err := sonic.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("upload response (status %d): %w", code, err)
	}
	if code >= fiber.StatusBadRequest || resp.URL == "" {
		if resp.Error == "" {
			resp.Error = "no url returned"
		}
		return "", fmt.Errorf("upload failed (status %d): %s", code, resp.Error)
	}
	return resp.URL, nil
}

// ObjectName prefixes the base name with a random id so uploads never collide.
func ObjectName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "attachment"
	}
	base = strings.ReplaceAll(base, " ", "_")
	return uuid.NewString() + "-" + base
}
