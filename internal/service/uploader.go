package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
)

// FileUploader abstracts uploading binary data and returning a URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

var allowedAttachmentTypes = []string{
	"application/pdf",
	"application/zip",
	"application/x-zip-compressed",
	"text/plain",
	"image/png",
	"image/jpeg",
}

// sniffAttachmentType detects the attachment MIME type and rejects anything
// outside the allowed set.
func sniffAttachmentType(file *multipart.FileHeader) (string, error) {
	reader, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer reader.Close()

	mime, err := mimetype.DetectReader(reader)
	if err != nil {
		return "", fmt.Errorf("failed to detect file type: %w", err)
	}

	for _, allowed := range allowedAttachmentTypes {
		if mime.Is(allowed) {
			return mime.String(), nil
		}
	}

	return "", fmt.Errorf("unsupported file type: %s", mime.String())
}

func uploadAttachment(ctx context.Context, uploader FileUploader, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	url, err := uploader.Upload(ctx, file.Filename, src)
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return url, nil
}
