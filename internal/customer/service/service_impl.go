package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/garagebook/internal/accountcontext"
	"github.com/smallbiznis/garagebook/internal/clock"
	"github.com/smallbiznis/garagebook/internal/customer/domain"
	"github.com/smallbiznis/garagebook/internal/validation"
	"github.com/smallbiznis/garagebook/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return domain.Customer{}, domain.ErrInvalidAccount
	}

	name, phone, email, err := normalize(req.Name, req.Phone, req.Email)
	if err != nil {
		return domain.Customer{}, err
	}

	now := s.clock.Now()
	customer := domain.Customer{
		ID:        s.genID.Generate(),
		AccountID: accountID,
		Name:      name,
		Phone:     phone,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, err
	}

	return customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return domain.ListCustomerResponse{}, domain.ErrInvalidAccount
	}

	page := pagination.Pagination{PageToken: req.PageToken, PageSize: req.PageSize}
	items, err := s.repo.List(ctx, s.db, accountID, domain.ListCustomerFilter{
		Name: strings.ToLower(strings.TrimSpace(req.Name)),
	}, page)
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	items, pageInfo := pagination.BuildCursorPageInfo(items, page.Limit(), func(customer *domain.Customer) string {
		return customer.ID.String()
	})

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}

	return domain.ListCustomerResponse{PageInfo: *pageInfo, Customers: customers}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	accountID, customerID, err := s.scope(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, accountID, customerID)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	customer, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	name, phone, email, err := normalize(req.Name, req.Phone, req.Email)
	if err != nil {
		return domain.Customer{}, err
	}

	customer.Name = name
	customer.Phone = phone
	customer.Email = email
	customer.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, err
	}

	return customer, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	customer, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, s.db, customer.AccountID, customer.ID); err != nil {
		return err
	}

	s.log.Info("customer deleted", zap.String("customer_id", customer.ID.String()))
	return nil
}

func (s *Service) scope(ctx context.Context, id string) (uuid.UUID, snowflake.ID, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return uuid.Nil, 0, domain.ErrInvalidAccount
	}

	customerID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || customerID <= 0 {
		return uuid.Nil, 0, domain.ErrInvalidID
	}
	return accountID, customerID, nil
}

func normalize(name, phone, email string) (string, string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", "", domain.ErrInvalidName
	}

	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", "", "", domain.ErrInvalidPhone
	}

	email = strings.TrimSpace(email)
	if email != "" {
		if !validation.Email(email) {
			return "", "", "", domain.ErrInvalidEmail
		}
	}

	return name, phone, email, nil
}
