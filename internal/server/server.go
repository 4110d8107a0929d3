package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	accountdomain "github.com/smallbiznis/garagebook/internal/account/domain"
	attachmentdomain "github.com/smallbiznis/garagebook/internal/attachment/domain"
	"github.com/smallbiznis/garagebook/internal/auth"
	"github.com/smallbiznis/garagebook/internal/config"
	customerdomain "github.com/smallbiznis/garagebook/internal/customer/domain"
	dashboarddomain "github.com/smallbiznis/garagebook/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/garagebook/internal/invoice/domain"
	jobitemdomain "github.com/smallbiznis/garagebook/internal/jobitem/domain"
	jobsheetdomain "github.com/smallbiznis/garagebook/internal/jobsheet/domain"
	"github.com/smallbiznis/garagebook/internal/observability"
	obsmiddleware "github.com/smallbiznis/garagebook/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/garagebook/internal/observability/metrics"
	obstracing "github.com/smallbiznis/garagebook/internal/observability/tracing"
	"github.com/smallbiznis/garagebook/internal/ratelimit"
	vehicledomain "github.com/smallbiznis/garagebook/internal/vehicle/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonFieldName)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())
	r.NoMethod(methodNotAllowed)
	r.NoRoute(routeNotFound)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine   *gin.Engine
	verifier auth.Verifier
	limiter  accountLimiter

	accountSvc    accountdomain.Service
	customerSvc   customerdomain.Service
	vehicleSvc    vehicledomain.Service
	jobSheetSvc   jobsheetdomain.Service
	jobItemSvc    jobitemdomain.Service
	attachmentSvc attachmentdomain.Service
	invoiceSvc    invoicedomain.Service
	dashboardSvc  dashboarddomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Verifier      auth.Verifier
	Limiter       *ratelimit.AccountLimiter `optional:"true"`
	AccountSvc    accountdomain.Service
	CustomerSvc   customerdomain.Service
	VehicleSvc    vehicledomain.Service
	JobSheetSvc   jobsheetdomain.Service
	JobItemSvc    jobitemdomain.Service
	AttachmentSvc attachmentdomain.Service
	InvoiceSvc    invoicedomain.Service
	DashboardSvc  dashboarddomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		verifier:      p.Verifier,
		accountSvc:    p.AccountSvc,
		customerSvc:   p.CustomerSvc,
		vehicleSvc:    p.VehicleSvc,
		jobSheetSvc:   p.JobSheetSvc,
		jobItemSvc:    p.JobItemSvc,
		attachmentSvc: p.AttachmentSvc,
		invoiceSvc:    p.InvoiceSvc,
		dashboardSvc:  p.DashboardSvc,
	}
	if p.Limiter != nil {
		svc.limiter = p.Limiter
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api", s.AuthRequired(), s.RateLimit())

	// -------- Customers --------
	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.PUT("/customers/:id", s.UpdateCustomer)
	api.DELETE("/customers/:id", s.DeleteCustomer)

	// -------- Vehicles --------
	api.GET("/vehicles", s.ListVehicles)
	api.POST("/vehicles", s.CreateVehicle)
	api.GET("/vehicles/:id", s.GetVehicleByID)
	api.PUT("/vehicles/:id", s.UpdateVehicle)
	api.DELETE("/vehicles/:id", s.DeleteVehicle)

	// -------- Job sheets --------
	api.GET("/job-sheets", s.ListJobSheets)
	api.POST("/job-sheets", s.CreateJobSheet)
	api.GET("/job-sheets/:id", s.GetJobSheetByID)
	api.PUT("/job-sheets/:id", s.UpdateJobSheet)
	api.DELETE("/job-sheets/:id", s.DeleteJobSheet)
	api.GET("/job-sheets/:id/attachments", s.ListAttachments)
	api.POST("/job-sheets/:id/attachments", s.CreateAttachment)
	api.DELETE("/attachments/:id", s.DeleteAttachment)

	// -------- Job items --------
	api.GET("/job-items", s.ListJobItems)
	api.POST("/job-items", s.CreateJobItem)
	api.PUT("/job-items/:id", s.UpdateJobItem)
	api.DELETE("/job-items/:id", s.DeleteJobItem)

	// -------- Invoices --------
	api.GET("/invoices", s.ListInvoices)
	api.POST("/invoices", s.CreateInvoice)
	api.GET("/invoices/export", s.ExportInvoices)
	api.GET("/invoices/:id", s.GetInvoiceByID)
	api.PUT("/invoices/:id", s.UpdateInvoice)
	api.GET("/invoices/:id/pdf", s.DownloadInvoicePDF)

	// -------- Settings --------
	api.GET("/settings", s.GetSettings)
	api.POST("/settings", s.SaveSettings)

	api.GET("/dashboard", s.GetDashboard)
}
