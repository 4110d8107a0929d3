package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jobsheetdomain "github.com/smallbiznis/garagebook/internal/jobsheet/domain"
	"github.com/smallbiznis/garagebook/pkg/db/pagination"
)

type createJobSheetRequest struct {
	CustomerID       idString `json:"customerId" binding:"required"`
	VehicleID        idString `json:"vehicleId" binding:"required"`
	DateIn           *string  `json:"dateIn"`
	DateOut          *string  `json:"dateOut"`
	ReportedProblems string   `json:"reportedProblems"`
	Diagnosis        string   `json:"diagnosis"`
	TechnicianName   string   `json:"technicianName" binding:"max=255"`
	Status           string   `json:"status"`
	IsVATExempt      bool     `json:"isVatExempt"`
}

type updateJobSheetRequest struct {
	DateIn           *string          `json:"dateIn"`
	DateOut          nullable[string] `json:"dateOut"`
	ReportedProblems *string          `json:"reportedProblems"`
	Diagnosis        *string          `json:"diagnosis"`
	TechnicianName   *string          `json:"technicianName"`
	Status           *string          `json:"status"`
	IsVATExempt      *bool            `json:"isVatExempt"`
}

func (s *Server) CreateJobSheet(c *gin.Context) {
	var req createJobSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	dateIn, err := parseDateField(req.DateIn, "dateIn")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	dateOut, err := parseDateField(req.DateOut, "dateOut")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.jobSheetSvc.Create(c.Request.Context(), jobsheetdomain.CreateJobSheetRequest{
		CustomerID:       req.CustomerID.String(),
		VehicleID:        req.VehicleID.String(),
		DateIn:           dateIn,
		DateOut:          dateOut,
		ReportedProblems: req.ReportedProblems,
		Diagnosis:        req.Diagnosis,
		TechnicianName:   req.TechnicianName,
		Status:           strings.TrimSpace(req.Status),
		IsVATExempt:      req.IsVATExempt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListJobSheets(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status     string `form:"status"`
		CustomerID string `form:"customerId"`
		VehicleID  string `form:"vehicleId"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.jobSheetSvc.List(c.Request.Context(), jobsheetdomain.ListJobSheetRequest{
		PageToken:  query.PageToken,
		PageSize:   query.PageSize,
		Status:     strings.TrimSpace(query.Status),
		CustomerID: strings.TrimSpace(query.CustomerID),
		VehicleID:  strings.TrimSpace(query.VehicleID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetJobSheetByID(c *gin.Context) {
	resp, err := s.jobSheetSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateJobSheet(c *gin.Context) {
	var req updateJobSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	dateIn, err := parseDateField(req.DateIn, "dateIn")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	dateOut, err := parseDateField(req.DateOut.Value, "dateOut")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.jobSheetSvc.Update(c.Request.Context(), jobsheetdomain.UpdateJobSheetRequest{
		ID:               strings.TrimSpace(c.Param("id")),
		DateIn:           dateIn,
		DateOut:          dateOut,
		ClearDateOut:     req.DateOut.Set && dateOut == nil,
		ReportedProblems: req.ReportedProblems,
		Diagnosis:        req.Diagnosis,
		TechnicianName:   req.TechnicianName,
		Status:           req.Status,
		IsVATExempt:      req.IsVATExempt,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteJobSheet(c *gin.Context) {
	if err := s.jobSheetSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job sheet deleted"})
}

func isJobSheetValidationError(err error) bool {
	switch err {
	case jobsheetdomain.ErrInvalidID,
		jobsheetdomain.ErrInvalidCustomer,
		jobsheetdomain.ErrInvalidVehicle,
		jobsheetdomain.ErrInvalidDateIn,
		jobsheetdomain.ErrInvalidDateOut,
		jobsheetdomain.ErrInvalidStatus,
		jobsheetdomain.ErrVATExemptLocked:
		return true
	default:
		return false
	}
}
