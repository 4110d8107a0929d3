package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/garagebook/internal/account/domain"
	"github.com/smallbiznis/garagebook/internal/accountcontext"
	"github.com/smallbiznis/garagebook/internal/clock"
	"github.com/smallbiznis/garagebook/internal/validation"
	"github.com/smallbiznis/garagebook/pkg/db"
	"github.com/smallbiznis/garagebook/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("account.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Get(ctx context.Context) (domain.Account, error) {
	identity, ok := accountcontext.IdentityFromContext(ctx)
	if !ok {
		return domain.Account{}, domain.ErrInvalidAccount
	}

	account, err := s.repo.FindByID(ctx, s.db, identity.AccountID)
	if err != nil {
		return domain.Account{}, err
	}
	if account != nil {
		return *account, nil
	}

	created := domain.NewAccount(identity.AccountID, identity.Email, s.clock.Now())
	if err := s.repo.Insert(ctx, s.db, &created); err != nil {
		if !db.IsDuplicateKeyErr(err) {
			return domain.Account{}, err
		}
		// A concurrent first request created it.
		account, err = s.repo.FindByID(ctx, s.db, identity.AccountID)
		if err != nil {
			return domain.Account{}, err
		}
		if account == nil {
			return domain.Account{}, domain.ErrNotFound
		}
		return *account, nil
	}

	s.log.Info("account created", zap.String("account_id", created.ID.String()))
	return created, nil
}

func (s *Service) Upsert(ctx context.Context, req domain.UpdateSettingsRequest) (domain.Account, bool, error) {
	identity, ok := accountcontext.IdentityFromContext(ctx)
	if !ok {
		return domain.Account{}, false, domain.ErrInvalidAccount
	}
	if err := validateSettings(req); err != nil {
		return domain.Account{}, false, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, identity.AccountID)
	if err != nil {
		return domain.Account{}, false, err
	}

	now := s.clock.Now()
	if existing == nil {
		account := domain.NewAccount(identity.AccountID, identity.Email, now)
		applySettings(&account, req)
		if err := s.repo.Insert(ctx, s.db, &account); err != nil {
			return domain.Account{}, false, err
		}
		return account, true, nil
	}

	account := *existing
	applySettings(&account, req)
	if identity.Email != "" {
		account.Email = identity.Email
	}
	account.UpdatedAt = now
	if err := s.repo.Update(ctx, s.db, &account); err != nil {
		return domain.Account{}, false, err
	}
	return account, false, nil
}

func validateSettings(req domain.UpdateSettingsRequest) error {
	if req.HourlyRate != nil && (req.HourlyRate.IsNegative() || !money.New(*req.HourlyRate).Fits()) {
		return domain.ErrInvalidHourlyRate
	}
	if req.LogoURL != nil {
		if raw := strings.TrimSpace(*req.LogoURL); raw != "" {
			if !validation.PublicHTTPURL(raw) {
				return domain.ErrInvalidLogoURL
			}
		}
	}
	return nil
}

func applySettings(account *domain.Account, req domain.UpdateSettingsRequest) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&account.GarageName, req.GarageName)
	set(&account.Address, req.Address)
	set(&account.Phone, req.Phone)
	set(&account.VATNumber, req.VATNumber)
	set(&account.PaymentTerms, req.PaymentTerms)
	set(&account.DefaultNotes, req.DefaultNotes)
	set(&account.LogoURL, req.LogoURL)

	if req.InvoicePrefix != nil {
		account.InvoicePrefix = strings.TrimSpace(*req.InvoicePrefix)
		if account.InvoicePrefix == "" {
			account.InvoicePrefix = domain.DefaultInvoicePrefix
		}
	}
	if req.HourlyRate != nil {
		account.HourlyRate = money.New(*req.HourlyRate)
	}
}

