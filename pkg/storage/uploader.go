package storage

import (
	"bufio"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// DefaultMaxSize caps identity photos at 5 MiB.
const DefaultMaxSize = 5 << 20

var defaultImageTypes = []string{"image/jpeg", "image/png"}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// Uploader stores identity-document photos. The content type comes from the
// file's magic bytes, never from the client.
type Uploader struct {
	storage Storage
	maxSize int64
	allowed []string
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader)

// WithMaxSize sets the size limit in bytes.
func WithMaxSize(n int64) UploaderOption {
	return func(u *Uploader) {
		if n > 0 {
			u.maxSize = n
		}
	}
}

// WithAllowedTypes replaces the accepted MIME types (default JPEG and PNG).
func WithAllowedTypes(types ...string) UploaderOption {
	return func(u *Uploader) {
		if len(types) > 0 {
			u.allowed = types
		}
	}
}

func NewUploader(s Storage, opts ...UploaderOption) *Uploader {
	u := &Uploader{storage: s, maxSize: DefaultMaxSize, allowed: defaultImageTypes}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload stores fh under prefix and returns its key, "prefix/<uuid>.jpg".
func (u *Uploader) Upload(ctx context.Context, fh *multipart.FileHeader, prefix string) (string, error) {
	if fh == nil || fh.Size == 0 {
		return "", ErrEmptyFile
	}
	if fh.Size > u.maxSize {
		return "", fmt.Errorf("%w: %d bytes", ErrFileTooLarge, fh.Size)
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("storage: open upload: %w", err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, 512)
	head, _ := br.Peek(512)
	contentType, _, _ := strings.Cut(http.DetectContentType(head), ";")
	if !slices.Contains(u.allowed, contentType) {
		return "", fmt.Errorf("%w: %s", ErrInvalidMIME, contentType)
	}

	ext := extensions[contentType]
	if ext == "" {
		ext = ".bin"
	}
	key := path.Join(sanitizePrefix(prefix), uuid.NewString()+ext)
	if err := u.storage.Put(ctx, key, br, fh.Size, contentType); err != nil {
		return "", err
	}
	return key, nil
}

// Remove deletes a stored document; used to undo uploads of a failed registration.
func (u *Uploader) Remove(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := u.storage.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// URL returns a temporary link to a stored document.
func (u *Uploader) URL(ctx context.Context, key string) (string, error) {
	return u.storage.URL(ctx, key)
}

var unsafeSegment = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)

func sanitizePrefix(prefix string) string {
	parts := strings.Split(strings.Trim(prefix, "/"), "/")
	out := parts[:0]
	for _, p := range parts {
		p = unsafeSegment.ReplaceAllString(strings.ReplaceAll(p, "..", ""), "_")
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return "documents"
	}
	return strings.Join(out, "/")
}
