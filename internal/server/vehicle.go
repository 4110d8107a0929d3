package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	vehicledomain "github.com/smallbiznis/garagebook/internal/vehicle/domain"
	"github.com/smallbiznis/garagebook/pkg/db/pagination"
)

type vehicleRequest struct {
	CustomerID   idString `json:"customerId" binding:"required"`
	Registration string   `json:"registration" binding:"required,max=32"`
	Make         string   `json:"make" binding:"required,max=100"`
	Model        string   `json:"model" binding:"required,max=100"`
	VIN          string   `json:"vin" binding:"omitempty,max=32"`
	Mileage      *int     `json:"mileage" binding:"required,gte=0,lte=2147483647"`
	FuelType     string   `json:"fuelType" binding:"required,max=32"`
	MOTDueDate   *string  `json:"motDueDate"`
}

func (r vehicleRequest) input() (vehicledomain.VehicleInput, error) {
	motDue, err := parseDateField(r.MOTDueDate, "motDueDate")
	if err != nil {
		return vehicledomain.VehicleInput{}, err
	}
	return vehicledomain.VehicleInput{
		CustomerID:   r.CustomerID.String(),
		Registration: r.Registration,
		Make:         r.Make,
		Model:        r.Model,
		VIN:          r.VIN,
		Mileage:      r.Mileage,
		FuelType:     r.FuelType,
		MOTDueDate:   motDue,
	}, nil
}

func (s *Server) CreateVehicle(c *gin.Context) {
	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	input, err := req.input()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.vehicleSvc.Create(c.Request.Context(), input)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListVehicles(c *gin.Context) {
	var query struct {
		pagination.Pagination
		CustomerID string `form:"customerId"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, bindError(err))
		return
	}

	resp, err := s.vehicleSvc.List(c.Request.Context(), vehicledomain.ListVehicleRequest{
		PageToken:  query.PageToken,
		PageSize:   query.PageSize,
		CustomerID: strings.TrimSpace(query.CustomerID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetVehicleByID(c *gin.Context) {
	resp, err := s.vehicleSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateVehicle(c *gin.Context) {
	var req vehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, bindError(err))
		return
	}
	input, err := req.input()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp, err := s.vehicleSvc.Update(c.Request.Context(), vehicledomain.UpdateVehicleRequest{
		ID:           strings.TrimSpace(c.Param("id")),
		VehicleInput: input,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteVehicle(c *gin.Context) {
	if err := s.vehicleSvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Vehicle deleted"})
}

func isVehicleValidationError(err error) bool {
	switch err {
	case vehicledomain.ErrInvalidID,
		vehicledomain.ErrInvalidCustomer,
		vehicledomain.ErrInvalidRegistration,
		vehicledomain.ErrInvalidMake,
		vehicledomain.ErrInvalidModel,
		vehicledomain.ErrInvalidMileage,
		vehicledomain.ErrInvalidFuelType,
		vehicledomain.ErrHasJobSheets:
		return true
	default:
		return false
	}
}
