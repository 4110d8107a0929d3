package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/garagebook/internal/accountcontext"
	"github.com/smallbiznis/garagebook/internal/clock"
	"github.com/smallbiznis/garagebook/internal/config"
	"github.com/smallbiznis/garagebook/internal/invoice/calc"
	"github.com/smallbiznis/garagebook/internal/jobitem/domain"
	jobsheetdomain "github.com/smallbiznis/garagebook/internal/jobsheet/domain"
	"github.com/smallbiznis/garagebook/pkg/money"
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
	Invoicing    *config.InvoicingConfigHolder
	Repo         domain.Repository
	JobSheetRepo jobsheetdomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	invoicing    *config.InvoicingConfigHolder
	repo         domain.Repository
	jobSheetRepo jobsheetdomain.Repository
}

var hundred = decimal.NewFromInt(100)

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("jobitem.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		invoicing:    p.Invoicing,
		repo:         p.Repo,
		jobSheetRepo: p.JobSheetRepo,
	}
}

func (s *Service) List(ctx context.Context, jobSheetID string) ([]domain.ItemView, error) {
	sheet, err := s.ownedSheet(ctx, jobSheetID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByJobSheet(ctx, s.db, sheet.ID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, view(item, sheet.IsVATExempt))
	}
	return views, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateJobItemRequest) (domain.ItemView, error) {
	sheet, err := s.ownedSheet(ctx, req.JobSheetID)
	if err != nil {
		return domain.ItemView{}, err
	}
	now := s.clock.Now()
	item := domain.JobItem{
		ID:         s.genID.Generate(),
		JobSheetID: sheet.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.apply(&item, req.JobItemInput, sheet.IsVATExempt); err != nil {
		return domain.ItemView{}, err
	}

	err = s.whileNotInvoiced(ctx, sheet, func(tx *gorm.DB) error {
		return s.repo.Insert(ctx, tx, &item)
	})
	if err != nil {
		return domain.ItemView{}, err
	}
	return view(item, sheet.IsVATExempt), nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateJobItemRequest) (domain.ItemView, error) {
	item, sheet, err := s.ownedItem(ctx, req.ID)
	if err != nil {
		return domain.ItemView{}, err
	}
	if err := s.apply(item, req.JobItemInput, sheet.IsVATExempt); err != nil {
		return domain.ItemView{}, err
	}
	item.UpdatedAt = s.clock.Now()

	err = s.whileNotInvoiced(ctx, sheet, func(tx *gorm.DB) error {
		return s.repo.Update(ctx, tx, item)
	})
	if err != nil {
		return domain.ItemView{}, err
	}
	return view(*item, sheet.IsVATExempt), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	item, sheet, err := s.ownedItem(ctx, id)
	if err != nil {
		return err
	}
	return s.whileNotInvoiced(ctx, sheet, func(tx *gorm.DB) error {
		return s.repo.Delete(ctx, tx, item.ID)
	})
}

func (s *Service) ownedSheet(ctx context.Context, rawID string) (*jobsheetdomain.JobSheet, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidAccount
	}

	sheetID, err := parseID(rawID, domain.ErrInvalidJobSheet)
	if err != nil {
		return nil, err
	}

	sheet, err := s.jobSheetRepo.FindByID(ctx, s.db, accountID, sheetID)
	if err != nil {
		return nil, err
	}
	if sheet == nil {
		return nil, domain.ErrJobSheetForbidden
	}
	return sheet, nil
}

// ownedItem reports a missing item as not found and an item on someone
// else's sheet as forbidden.
func (s *Service) ownedItem(ctx context.Context, rawID string) (*domain.JobItem, *jobsheetdomain.JobSheet, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return nil, nil, domain.ErrInvalidAccount
	}

	itemID, err := parseID(rawID, domain.ErrInvalidID)
	if err != nil {
		return nil, nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, itemID)
	if err != nil {
		return nil, nil, err
	}
	if item == nil {
		return nil, nil, domain.ErrNotFound
	}

	sheet, err := s.jobSheetRepo.FindByID(ctx, s.db, accountID, item.JobSheetID)
	if err != nil {
		return nil, nil, err
	}
	if sheet == nil {
		return nil, nil, domain.ErrJobSheetForbidden
	}
	return item, sheet, nil
}

// whileNotInvoiced runs write in a transaction that holds the sheet row lock,
// so an invoice cannot be created between the check and the write.
func (s *Service) whileNotInvoiced(ctx context.Context, sheet *jobsheetdomain.JobSheet, write func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.jobSheetRepo.LockByID(ctx, tx, sheet.AccountID, sheet.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrJobSheetForbidden
		}

		invoiced, err := s.jobSheetRepo.HasInvoice(ctx, tx, sheet.ID)
		if err != nil {
			return err
		}
		if invoiced {
			return domain.ErrJobSheetInvoiced
		}
		return write(tx)
	})
}

func (s *Service) apply(item *domain.JobItem, in domain.JobItemInput, exempt bool) error {
	itemType := domain.ItemType(strings.TrimSpace(in.ItemType))
	if !itemType.Valid() {
		return domain.ErrInvalidItemType
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return domain.ErrInvalidDescription
	}

	quantity := money.New(decimal.NewFromInt(1))
	if in.Quantity != nil {
		quantity = money.New(*in.Quantity)
	}
	if !quantity.IsPositive() || !quantity.Fits() {
		return domain.ErrInvalidQuantity
	}

	if in.UnitPrice == nil {
		return domain.ErrInvalidUnitPrice
	}
	unitPrice := money.New(*in.UnitPrice)
	if !unitPrice.IsPositive() || !unitPrice.Fits() {
		return domain.ErrInvalidUnitPrice
	}

	vatRate := money.New(s.invoicing.Get().VATRate())
	if in.VATRate != nil {
		vatRate = money.New(*in.VATRate)
	}
	if vatRate.IsNegative() || vatRate.GreaterThan(hundred) {
		return domain.ErrInvalidVATRate
	}
	if exempt {
		vatRate = money.New(decimal.Zero)
	}

	item.ItemType = itemType
	item.Description = description
	item.Quantity = quantity
	item.UnitPrice = unitPrice
	item.VATRate = vatRate
	return nil
}

func view(item domain.JobItem, exempt bool) domain.ItemView {
	amounts := calc.Amounts(item.Line(), exempt)
	return domain.ItemView{
		JobItem:      item,
		LineSubtotal: amounts.Subtotal.StringFixed(2),
		LineVAT:      amounts.VAT.StringFixed(2),
		LineTotal:    amounts.Total.StringFixed(2),
	}
}

func parseID(value string, invalid error) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, invalid
	}
	return id, nil
}
