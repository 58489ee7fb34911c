package usecase

import (
	"context"
	"io"
)

// Notifier delivers plain-text messages to staff mailboxes.
type Notifier interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// FileUploader stores a file in external storage and returns its public URL.
type FileUploader interface {
	Upload(ctx context.Context, filename string, content io.Reader) (string, error)
}

// Invalidator drops cached dashboard responses after attendance or report changes.
type Invalidator interface {
	Invalidate()
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate() {}

type nopNotifier struct{}

func (nopNotifier) Send(context.Context, []string, string, string) error { return nil }
