package http

import (
	"context"
	"net/http"
	"strconv"

	"splitship/internal/core/application/usecases/commands"
	"splitship/internal/core/application/usecases/queries"
	"splitship/internal/core/domain/model/kernel"
	"splitship/internal/core/domain/services"
	"splitship/internal/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CommandHandler is a use case without a result.
type CommandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

// Handler is a use case returning a result.
type Handler[C, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// Handlers lists the use cases the server exposes.
type Handlers struct {
	CreateSplitPlan      Handler[commands.CreateSplitPlanCommand, kernel.UUID]
	UpdateSplitPlan      CommandHandler[commands.UpdateSplitPlanCommand]
	DeleteSplitPlan      CommandHandler[commands.DeleteSplitPlanCommand]
	CorrelateOrder       Handler[commands.CorrelateOrderCommand, int]
	GenerateInstructions Handler[commands.GenerateInstructionsCommand, []services.Instruction]
	AdvanceLifecycle     CommandHandler[commands.AdvanceLifecycleCommand]
	DispatchDelivery     Handler[commands.DispatchDeliveryCommand, services.DispatchResult]
	AcknowledgeDelivery  CommandHandler[commands.AcknowledgeDeliveryCommand]
	FailDelivery         CommandHandler[commands.FailDeliveryCommand]
	CreateRecipient      Handler[commands.CreateRecipientCommand, kernel.UUID]
	DeleteRecipient      CommandHandler[commands.DeleteRecipientCommand]

	GetSplitPlan   Handler[queries.GetSplitPlanQuery, queries.SplitPlanResponse]
	ListSplitPlans Handler[queries.ListSplitPlansQuery, []queries.SplitPlanSummary]
	GetAuditTrail  Handler[queries.GetAuditTrailQuery, queries.AuditTrailResponse]
	ListRecipients Handler[queries.ListRecipientsQuery, []queries.RecipientResponse]
}

// Server translates HTTP requests into commands and queries. Every route is
// scoped to the shop in its path.
type Server struct {
	handlers Handlers
	logger   *logger.Logger
}

func NewServer(handlers Handlers, log *logger.Logger) *Server {
	return &Server{
		handlers: handlers,
		logger:   log.WithComponent("http"),
	}
}

// Register mounts the API, its OpenAPI document, the health probe and the
// metrics endpoint.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/openapi.yaml", serveOpenAPIDocument)

	shop := e.Group("/api/v1/shops/:shop")

	shop.POST("/split-plans", s.CreateSplitPlan)
	shop.GET("/split-plans", s.ListSplitPlans)
	shop.GET("/split-plans/:planID", s.GetSplitPlan)
	shop.PUT("/split-plans/:planID", s.UpdateSplitPlan)
	shop.DELETE("/split-plans/:planID", s.DeleteSplitPlan)
	shop.POST("/split-plans/:planID/instructions", s.GenerateInstructions)
	shop.POST("/split-plans/:planID/lifecycle/:operation", s.AdvanceLifecycle)
	shop.POST("/split-plans/:planID/delivery/:operation", s.ApplyDelivery)
	shop.GET("/split-plans/:planID/events", s.GetAuditTrail)

	shop.POST("/order-correlations", s.CorrelateOrder)

	shop.POST("/recipients", s.CreateRecipient)
	shop.GET("/recipients", s.ListRecipients)
	shop.DELETE("/recipients/:recipientID", s.DeleteRecipient)
}

func shopParam(c echo.Context) (kernel.Shop, error) {
	return kernel.NewShop(c.Param("shop"))
}

func idParam(c echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param(name))
	if err != nil {
		return kernel.UUID{}, newBadRequest("invalid "+name, err)
	}
	return id, nil
}

// planParams reads the shop and plan id every plan route carries.
func planParams(c echo.Context) (kernel.Shop, kernel.UUID, error) {
	shop, err := shopParam(c)
	if err != nil {
		return kernel.Shop{}, kernel.UUID{}, err
	}
	planID, err := idParam(c, "planID")
	if err != nil {
		return kernel.Shop{}, kernel.UUID{}, err
	}
	return shop, planID, nil
}

func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return newBadRequest("invalid request body", err)
	}
	return nil
}

func intQueryParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, newBadRequest("invalid "+name, err)
	}
	return v, nil
}

// respondWithPlan re-reads the plan after a committed write.
func (s *Server) respondWithPlan(c echo.Context, status int, shop kernel.Shop, planID kernel.UUID) error {
	plan, err := s.loadPlan(c, shop, planID)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(status, plan)
}

func (s *Server) loadPlan(c echo.Context, shop kernel.Shop, planID kernel.UUID) (SplitPlan, error) {
	query, err := queries.NewGetSplitPlanQuery(shop, planID)
	if err != nil {
		return SplitPlan{}, err
	}
	plan, err := s.handlers.GetSplitPlan.Handle(c.Request().Context(), query)
	if err != nil {
		return SplitPlan{}, err
	}
	return toSplitPlan(plan), nil
}
