package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	accountdomain "github.com/smallbiznis/garagebook/internal/account/domain"
)

type settingsRequest struct {
	GarageName    *string          `json:"garageName" binding:"omitempty,max=255"`
	Address       *string          `json:"address"`
	Phone         *string          `json:"phone" binding:"omitempty,max=64"`
	VATNumber     *string          `json:"vatNumber" binding:"omitempty,max=64"`
	HourlyRate    *decimal.Decimal `json:"hourlyRate"`
	InvoicePrefix *string          `json:"invoicePrefix" binding:"omitempty,max=32"`
	PaymentTerms  *string          `json:"paymentTerms"`
	DefaultNotes  *string          `json:"defaultNotes"`
	LogoURL       *string          `json:"logoUrl"`
}

func (s *Server) GetSettings(c *gin.Context) {
	resp, err := s.accountSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// SaveSettings answers 201 when the call created the account.
func (s *Server) SaveSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, created, err := s.accountSvc.Upsert(c.Request.Context(), accountdomain.UpdateSettingsRequest{
		GarageName:    req.GarageName,
		Address:       req.Address,
		Phone:         req.Phone,
		VATNumber:     req.VATNumber,
		HourlyRate:    req.HourlyRate,
		InvoicePrefix: req.InvoicePrefix,
		PaymentTerms:  req.PaymentTerms,
		DefaultNotes:  req.DefaultNotes,
		LogoURL:       req.LogoURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"data": resp})
}

func isSettingsValidationError(err error) bool {
	switch err {
	case accountdomain.ErrInvalidHourlyRate,
		accountdomain.ErrInvalidLogoURL:
		return true
	default:
		return false
	}
}
