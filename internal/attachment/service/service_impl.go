package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/garagebook/internal/accountcontext"
	"github.com/smallbiznis/garagebook/internal/attachment/domain"
	"github.com/smallbiznis/garagebook/internal/clock"
	jobsheetdomain "github.com/smallbiznis/garagebook/internal/jobsheet/domain"
	"github.com/smallbiznis/garagebook/internal/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         domain.Repository
	JobSheetRepo jobsheetdomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	jobSheetRepo jobsheetdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("attachment.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		jobSheetRepo: p.JobSheetRepo,
	}
}

func (s *Service) List(ctx context.Context, jobSheetID string) ([]domain.Attachment, error) {
	sheetID, err := s.ownedSheet(ctx, jobSheetID, domain.ErrJobSheetNotFound)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByJobSheet(ctx, s.db, sheetID)
}

func (s *Service) Create(ctx context.Context, req domain.CreateAttachmentRequest) (domain.Attachment, error) {
	sheetID, err := s.ownedSheet(ctx, req.JobSheetID, domain.ErrJobSheetNotFound)
	if err != nil {
		return domain.Attachment{}, err
	}

	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" {
		return domain.Attachment{}, domain.ErrInvalidFileName
	}
	fileURL := strings.TrimSpace(req.FileURL)
	if !validation.URL(fileURL) {
		return domain.Attachment{}, domain.ErrInvalidFileURL
	}
	fileType := strings.TrimSpace(req.FileType)
	if fileType == "" {
		return domain.Attachment{}, domain.ErrInvalidFileType
	}

	attachment := domain.Attachment{
		ID:         s.genID.Generate(),
		JobSheetID: sheetID,
		FileName:   fileName,
		FileURL:    fileURL,
		FileType:   fileType,
		CreatedAt:  s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, &attachment); err != nil {
		return domain.Attachment{}, err
	}
	return attachment, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	attachmentID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || attachmentID <= 0 {
		return domain.ErrInvalidID
	}

	attachment, err := s.repo.FindByID(ctx, s.db, attachmentID)
	if err != nil {
		return err
	}
	if attachment == nil {
		return domain.ErrNotFound
	}

	if _, err := s.ownedSheet(ctx, attachment.JobSheetID.String(), domain.ErrJobSheetForbidden); err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, attachment.ID)
}

// ownedSheet returns missing when the sheet is absent or owned by another
// account.
func (s *Service) ownedSheet(ctx context.Context, rawID string, missing error) (snowflake.ID, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return 0, domain.ErrInvalidAccount
	}

	sheetID, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || sheetID <= 0 {
		return 0, domain.ErrInvalidID
	}

	sheet, err := s.jobSheetRepo.FindByID(ctx, s.db, accountID, sheetID)
	if err != nil {
		return 0, err
	}
	if sheet == nil {
		return 0, missing
	}
	return sheet.ID, nil
}
