package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/garagebook/internal/accountcontext"
	"github.com/smallbiznis/garagebook/internal/clock"
	customerdomain "github.com/smallbiznis/garagebook/internal/customer/domain"
	"github.com/smallbiznis/garagebook/internal/jobsheet/domain"
	vehicledomain "github.com/smallbiznis/garagebook/internal/vehicle/domain"
	"github.com/smallbiznis/garagebook/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         domain.Repository
	CustomerRepo customerdomain.Repository
	VehicleRepo  vehicledomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	customerRepo customerdomain.Repository
	vehicleRepo  vehicledomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("jobsheet.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		vehicleRepo:  p.VehicleRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateJobSheetRequest) (domain.JobSheet, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return domain.JobSheet{}, domain.ErrInvalidAccount
	}

	customerID, err := parseID(req.CustomerID, domain.ErrInvalidCustomer)
	if err != nil {
		return domain.JobSheet{}, err
	}
	vehicleID, err := parseID(req.VehicleID, domain.ErrInvalidVehicle)
	if err != nil {
		return domain.JobSheet{}, err
	}
	if req.DateIn == nil {
		return domain.JobSheet{}, domain.ErrInvalidDateIn
	}
	if req.DateOut != nil && req.DateOut.Before(*req.DateIn) {
		return domain.JobSheet{}, domain.ErrInvalidDateOut
	}

	status := domain.StatusDraft
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status = domain.Status(raw)
		if !status.Valid() {
			return domain.JobSheet{}, domain.ErrInvalidStatus
		}
	}

	if err := s.checkParties(ctx, accountID, customerID, vehicleID); err != nil {
		return domain.JobSheet{}, err
	}

	now := s.clock.Now()
	sheet := domain.JobSheet{
		ID:               s.genID.Generate(),
		AccountID:        accountID,
		CustomerID:       customerID,
		VehicleID:        vehicleID,
		DateIn:           datatypes.Date(*req.DateIn),
		DateOut:          toDate(req.DateOut),
		ReportedProblems: strings.TrimSpace(req.ReportedProblems),
		Diagnosis:        strings.TrimSpace(req.Diagnosis),
		TechnicianName:   strings.TrimSpace(req.TechnicianName),
		Status:           status,
		IsVATExempt:      req.IsVATExempt,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Insert(ctx, s.db, &sheet); err != nil {
		return domain.JobSheet{}, err
	}
	return sheet, nil
}

// checkParties requires the customer and vehicle to be owned by the caller
// and the vehicle to belong to that customer.
func (s *Service) checkParties(ctx context.Context, accountID uuid.UUID, customerID, vehicleID snowflake.ID) error {
	customer, err := s.customerRepo.FindByID(ctx, s.db, accountID, customerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrCustomerForbidden
	}

	vehicle, err := s.vehicleRepo.FindByID(ctx, s.db, accountID, vehicleID)
	if err != nil {
		return err
	}
	if vehicle == nil || vehicle.CustomerID != customer.ID {
		return domain.ErrVehicleForbidden
	}
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListJobSheetRequest) (domain.ListJobSheetResponse, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return domain.ListJobSheetResponse{}, domain.ErrInvalidAccount
	}

	filter := domain.ListJobSheetFilter{}
	if raw := strings.TrimSpace(req.Status); raw != "" {
		filter.Status = domain.Status(raw)
		if !filter.Status.Valid() {
			return domain.ListJobSheetResponse{}, domain.ErrInvalidStatus
		}
	}
	if raw := strings.TrimSpace(req.CustomerID); raw != "" {
		id, err := parseID(raw, domain.ErrInvalidCustomer)
		if err != nil {
			return domain.ListJobSheetResponse{}, err
		}
		v := id.Int64()
		filter.CustomerID = &v
	}
	if raw := strings.TrimSpace(req.VehicleID); raw != "" {
		id, err := parseID(raw, domain.ErrInvalidVehicle)
		if err != nil {
			return domain.ListJobSheetResponse{}, err
		}
		v := id.Int64()
		filter.VehicleID = &v
	}

	page := pagination.Pagination{PageToken: req.PageToken, PageSize: req.PageSize}
	items, err := s.repo.List(ctx, s.db, accountID, filter, page)
	if err != nil {
		return domain.ListJobSheetResponse{}, err
	}

	items, pageInfo := pagination.BuildCursorPageInfo(items, page.Limit(), func(sheet *domain.JobSheet) string {
		return sheet.ID.String()
	})

	sheets := make([]domain.JobSheet, 0, len(items))
	for _, item := range items {
		sheets = append(sheets, *item)
	}
	return domain.ListJobSheetResponse{PageInfo: *pageInfo, JobSheets: sheets}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.JobSheet, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return domain.JobSheet{}, domain.ErrInvalidAccount
	}

	sheetID, err := parseID(id, domain.ErrInvalidID)
	if err != nil {
		return domain.JobSheet{}, err
	}

	sheet, err := s.repo.FindByID(ctx, s.db, accountID, sheetID)
	if err != nil {
		return domain.JobSheet{}, err
	}
	if sheet == nil {
		return domain.JobSheet{}, domain.ErrNotFound
	}
	return *sheet, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateJobSheetRequest) (domain.JobSheet, error) {
	sheet, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.JobSheet{}, err
	}

	if req.DateIn != nil {
		sheet.DateIn = datatypes.Date(*req.DateIn)
	}
	if req.ClearDateOut {
		sheet.DateOut = nil
	} else if req.DateOut != nil {
		sheet.DateOut = toDate(req.DateOut)
	}
	if sheet.DateOut != nil && time.Time(*sheet.DateOut).Before(time.Time(sheet.DateIn)) {
		return domain.JobSheet{}, domain.ErrInvalidDateOut
	}

	if req.ReportedProblems != nil {
		sheet.ReportedProblems = strings.TrimSpace(*req.ReportedProblems)
	}
	if req.Diagnosis != nil {
		sheet.Diagnosis = strings.TrimSpace(*req.Diagnosis)
	}
	if req.TechnicianName != nil {
		sheet.TechnicianName = strings.TrimSpace(*req.TechnicianName)
	}
	if req.Status != nil {
		status := domain.Status(strings.TrimSpace(*req.Status))
		if !status.Valid() {
			return domain.JobSheet{}, domain.ErrInvalidStatus
		}
		sheet.Status = status
	}
	if req.IsVATExempt != nil && *req.IsVATExempt != sheet.IsVATExempt {
		invoiced, err := s.repo.HasInvoice(ctx, s.db, sheet.ID)
		if err != nil {
			return domain.JobSheet{}, err
		}
		if invoiced {
			return domain.JobSheet{}, domain.ErrVATExemptLocked
		}
		sheet.IsVATExempt = *req.IsVATExempt
	}

	sheet.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, &sheet); err != nil {
		return domain.JobSheet{}, err
	}
	return sheet, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	sheet, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, s.db, sheet.AccountID, sheet.ID); err != nil {
		return err
	}

	s.log.Info("job sheet deleted", zap.String("job_sheet_id", sheet.ID.String()))
	return nil
}

func parseID(value string, invalid error) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, invalid
	}
	return id, nil
}

func toDate(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(*t)
	return &d
}
