package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	jobitemdomain "github.com/smallbiznis/garagebook/internal/jobitem/domain"
)

type jobItemRequest struct {
	ItemType    string           `json:"itemType" binding:"required"`
	Description string           `json:"description" binding:"required"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unitPrice" binding:"required"`
	VATRate     *decimal.Decimal `json:"vatRate"`
}

func (r jobItemRequest) input() jobitemdomain.JobItemInput {
	return jobitemdomain.JobItemInput{
		ItemType:    r.ItemType,
		Description: r.Description,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		VATRate:     r.VATRate,
	}
}

type createJobItemRequest struct {
	JobSheetID idString `json:"jobSheetId" binding:"required"`
	jobItemRequest
}

func (s *Server) ListJobItems(c *gin.Context) {
	jobSheetID := strings.TrimSpace(c.Query("jobSheetId"))
	if jobSheetID == "" {
		AbortWithError(c, newValidationError("jobSheetId", "required", "jobSheetId is required"))
		return
	}

	resp, err := s.jobItemSvc.List(c.Request.Context(), jobSheetID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) CreateJobItem(c *gin.Context) {
	var req createJobItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.jobItemSvc.Create(c.Request.Context(), jobitemdomain.CreateJobItemRequest{
		JobSheetID:   req.JobSheetID.String(),
		JobItemInput: req.input(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) UpdateJobItem(c *gin.Context) {
	var req jobItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.jobItemSvc.Update(c.Request.Context(), jobitemdomain.UpdateJobItemRequest{
		ID:           strings.TrimSpace(c.Param("id")),
		JobItemInput: req.input(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteJobItem(c *gin.Context) {
	if err := s.jobItemSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job item deleted"})
}

func isJobItemValidationError(err error) bool {
	switch err {
	case jobitemdomain.ErrInvalidID,
		jobitemdomain.ErrInvalidJobSheet,
		jobitemdomain.ErrInvalidItemType,
		jobitemdomain.ErrInvalidDescription,
		jobitemdomain.ErrInvalidQuantity,
		jobitemdomain.ErrInvalidUnitPrice,
		jobitemdomain.ErrInvalidVATRate,
		jobitemdomain.ErrJobSheetInvoiced:
		return true
	default:
		return false
	}
}
