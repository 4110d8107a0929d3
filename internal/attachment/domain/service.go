package domain

import (
	"context"
	"errors"
)

type CreateAttachmentRequest struct {
	JobSheetID string
	FileName   string
	FileURL    string
	FileType   string
}

type Service interface {
	List(ctx context.Context, jobSheetID string) ([]Attachment, error)
	Create(context.Context, CreateAttachmentRequest) (Attachment, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidAccount    = errors.New("invalid_account")
	ErrInvalidID         = errors.New("invalid_id")
	ErrInvalidFileName   = errors.New("invalid_file_name")
	ErrInvalidFileURL    = errors.New("invalid_file_url")
	ErrInvalidFileType   = errors.New("invalid_file_type")
	ErrJobSheetNotFound  = errors.New("job_sheet_not_found")
	ErrJobSheetForbidden = errors.New("job_sheet_forbidden")
	ErrNotFound          = errors.New("not_found")
)
