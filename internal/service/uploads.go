package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"

	"github.com/addisware/procure-api/internal/apperr"
	"github.com/addisware/procure-api/internal/observability"
)

// FileStore abstracts the blob store used for uploaded documents.
type FileStore interface {
	Save(ctx context.Context, purpose, originalName string, reader io.Reader) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// readUpload buffers and validates a multipart upload: presence, size cap,
// and sniffed MIME type against the allow list.
func readUpload(file *multipart.FileHeader, maxBytes int64, allowed []string) ([]byte, error) {
	if file == nil {
		return nil, apperr.ErrFileRequired
	}

	if file.Size > maxBytes {
		observability.UploadsRejected().WithLabelValues("size").Inc()
		return nil, apperr.ErrFileTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, maxBytes+1)); err != nil {
		return nil, err
	}
	if int64(buf.Len()) > maxBytes {
		observability.UploadsRejected().WithLabelValues("size").Inc()
		return nil, apperr.ErrFileTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	for _, candidate := range allowed {
		if mime.Is(candidate) {
			return buf.Bytes(), nil
		}
	}

	observability.UploadsRejected().WithLabelValues("type").Inc()
	return nil, apperr.ErrFileTypeDenied
}

func bytesReader(payload []byte) io.Reader {
	return bytes.NewReader(payload)
}
