package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/garagebook/internal/invoice/domain"
	"github.com/smallbiznis/garagebook/pkg/db/pagination"
)

// Totals sent by the client are ignored; the service computes them from the
// job sheet's items.
type createInvoiceRequest struct {
	JobSheetID          idString `json:"jobSheetId" binding:"required"`
	InvoiceNumber       *string  `json:"invoiceNumber" binding:"omitempty,max=64"`
	InvoiceDate         *string  `json:"invoiceDate"`
	DueDate             *string  `json:"dueDate"`
	Status              string   `json:"status"`
	Notes               *string  `json:"notes"`
	PaymentInstructions *string  `json:"paymentInstructions"`
}

type updateInvoiceRequest struct {
	Status              *string `json:"status"`
	Notes               *string `json:"notes"`
	PaymentInstructions *string `json:"paymentInstructions"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	invoiceDate, err := parseDateField(req.InvoiceDate, "invoiceDate")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	dueDate, err := parseDateField(req.DueDate, "dueDate")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		JobSheetID:          req.JobSheetID.String(),
		InvoiceNumber:       req.InvoiceNumber,
		InvoiceDate:         invoiceDate,
		DueDate:             dueDate,
		Status:              strings.TrimSpace(req.Status),
		Notes:               req.Notes,
		PaymentInstructions: req.PaymentInstructions,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		pagination.Pagination
		JobSheetID string `form:"jobSheetId"`
		Status     string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		PageToken:  query.PageToken,
		PageSize:   query.PageSize,
		JobSheetID: strings.TrimSpace(query.JobSheetID),
		Status:     strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateInvoice(c *gin.Context) {
	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.invoiceSvc.Update(c.Request.Context(), invoicedomain.UpdateInvoiceRequest{
		ID:                  strings.TrimSpace(c.Param("id")),
		Status:              req.Status,
		Notes:               req.Notes,
		PaymentInstructions: req.PaymentInstructions,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DownloadInvoicePDF(c *gin.Context) {
	doc, err := s.invoiceSvc.RenderPDF(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writeDocument(c, doc)
}

func (s *Server) ExportInvoices(c *gin.Context) {
	doc, err := s.invoiceSvc.Export(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	writeDocument(c, doc)
}

func writeDocument(c *gin.Context, doc invoicedomain.Document) {
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(doc.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

func isInvoiceValidationError(err error) bool {
	switch err {
	case invoicedomain.ErrInvalidID,
		invoicedomain.ErrInvalidJobSheet,
		invoicedomain.ErrInvalidStatus,
		invoicedomain.ErrInvalidDueDate,
		invoicedomain.ErrInvalidTotal,
		invoicedomain.ErrTotalTooLarge,
		invoicedomain.ErrAlreadyInvoiced:
		return true
	default:
		return false
	}
}
