package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/garagebook/internal/accountcontext"
	"github.com/smallbiznis/garagebook/internal/clock"
	customerdomain "github.com/smallbiznis/garagebook/internal/customer/domain"
	"github.com/smallbiznis/garagebook/internal/vehicle/domain"
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
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         domain.Repository
	customerRepo customerdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("vehicle.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.VehicleInput) (domain.Vehicle, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return domain.Vehicle{}, domain.ErrInvalidAccount
	}

	now := s.clock.Now()
	vehicle := domain.Vehicle{
		ID:        s.genID.Generate(),
		AccountID: accountID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.apply(ctx, accountID, &vehicle, req); err != nil {
		return domain.Vehicle{}, err
	}

	if err := s.repo.Insert(ctx, s.db, &vehicle); err != nil {
		return domain.Vehicle{}, err
	}
	return vehicle, nil
}

func (s *Service) List(ctx context.Context, req domain.ListVehicleRequest) (domain.ListVehicleResponse, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return domain.ListVehicleResponse{}, domain.ErrInvalidAccount
	}

	filter := domain.ListVehicleFilter{}
	if raw := strings.TrimSpace(req.CustomerID); raw != "" {
		customerID, err := s.ownedCustomer(ctx, accountID, raw)
		if err != nil {
			return domain.ListVehicleResponse{}, err
		}
		id := customerID.Int64()
		filter.CustomerID = &id
	}

	page := pagination.Pagination{PageToken: req.PageToken, PageSize: req.PageSize}
	items, err := s.repo.List(ctx, s.db, accountID, filter, page)
	if err != nil {
		return domain.ListVehicleResponse{}, err
	}

	items, pageInfo := pagination.BuildCursorPageInfo(items, page.Limit(), func(v *domain.Vehicle) string {
		return v.ID.String()
	})

	vehicles := make([]domain.Vehicle, 0, len(items))
	for _, item := range items {
		vehicles = append(vehicles, *item)
	}
	return domain.ListVehicleResponse{PageInfo: *pageInfo, Vehicles: vehicles}, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Vehicle, error) {
	accountID, ok := accountcontext.AccountIDFromContext(ctx)
	if !ok {
		return domain.Vehicle{}, domain.ErrInvalidAccount
	}

	vehicleID, err := parseID(id, domain.ErrInvalidID)
	if err != nil {
		return domain.Vehicle{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, accountID, vehicleID)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if item == nil {
		return domain.Vehicle{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateVehicleRequest) (domain.Vehicle, error) {
	vehicle, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Vehicle{}, err
	}

	previousCustomer := vehicle.CustomerID
	if err := s.apply(ctx, vehicle.AccountID, &vehicle, req.VehicleInput); err != nil {
		return domain.Vehicle{}, err
	}
	vehicle.UpdatedAt = s.clock.Now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if vehicle.CustomerID != previousCustomer {
			// Job sheets copy the vehicle's customer, so they would be left
			// pointing at the previous owner.
			used, err := s.repo.HasJobSheets(ctx, tx, vehicle.AccountID, vehicle.ID)
			if err != nil {
				return err
			}
			if used {
				return domain.ErrHasJobSheets
			}
		}
		return s.repo.Update(ctx, tx, &vehicle)
	})
	if err != nil {
		return domain.Vehicle{}, err
	}
	return vehicle, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	vehicle, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, vehicle.AccountID, vehicle.ID)
}

func (s *Service) apply(ctx context.Context, accountID uuid.UUID, vehicle *domain.Vehicle, req domain.VehicleInput) error {
	registration := strings.ToUpper(strings.TrimSpace(req.Registration))
	if registration == "" {
		return domain.ErrInvalidRegistration
	}
	vehicleMake := strings.TrimSpace(req.Make)
	if vehicleMake == "" {
		return domain.ErrInvalidMake
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		return domain.ErrInvalidModel
	}
	if req.Mileage == nil || *req.Mileage < 0 || *req.Mileage > domain.MaxMileage {
		return domain.ErrInvalidMileage
	}
	fuelType := strings.TrimSpace(req.FuelType)
	if fuelType == "" {
		return domain.ErrInvalidFuelType
	}

	customerID, err := s.ownedCustomer(ctx, accountID, req.CustomerID)
	if err != nil {
		return err
	}

	vehicle.CustomerID = customerID
	vehicle.Registration = registration
	vehicle.Make = vehicleMake
	vehicle.Model = model
	vehicle.VIN = strings.ToUpper(strings.TrimSpace(req.VIN))
	vehicle.Mileage = *req.Mileage
	vehicle.FuelType = fuelType
	vehicle.MOTDueDate = nil
	if req.MOTDueDate != nil {
		d := datatypes.Date(*req.MOTDueDate)
		vehicle.MOTDueDate = &d
	}
	return nil
}

func (s *Service) ownedCustomer(ctx context.Context, accountID uuid.UUID, raw string) (snowflake.ID, error) {
	customerID, err := parseID(raw, domain.ErrInvalidCustomer)
	if err != nil {
		return 0, err
	}

	customer, err := s.customerRepo.FindByID(ctx, s.db, accountID, customerID)
	if err != nil {
		return 0, err
	}
	if customer == nil {
		return 0, domain.ErrCustomerForbidden
	}
	return customer.ID, nil
}

func parseID(value string, invalid error) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id <= 0 {
		return 0, invalid
	}
	return id, nil
}
