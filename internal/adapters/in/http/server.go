package http

import (
	"context"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/settings"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/samber/lo"
)

type OrderCreator interface {
	Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
}

type OrderTransitioner interface {
	Handle(ctx context.Context, cmd commands.TransitionOrderCommand) (*order.Order, error)
}

type OrderCanceller interface {
	Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error)
}

type OrderReader interface {
	Handle(ctx context.Context, query queries.GetOrderQuery) (*queries.GetOrderQueryResponse, error)
}

type OrderLister interface {
	Handle(ctx context.Context, query queries.ListOrdersQuery) ([]queries.ListOrdersQueryResponse, error)
}

type DeliveryPreviewer interface {
	Handle(ctx context.Context, query queries.PreviewDeliveryQuery) (queries.PreviewDeliveryQueryResponse, error)
}

type SettingsReloader interface {
	Reload(ctx context.Context) (settings.Snapshot, error)
}

// EventSource feeds the live order stream.
type EventSource interface {
	Subscribe() (<-chan []byte, func())
}

// Handlers are the use cases served over HTTP.
type Handlers struct {
	CreateOrder     OrderCreator
	TransitionOrder OrderTransitioner
	CancelOrder     OrderCanceller
	GetOrder        OrderReader
	ListOrders      OrderLister
	PreviewDelivery DeliveryPreviewer
	Settings        SettingsReloader
	Events          EventSource
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
}

func NewServer(handlers Handlers) *Server {
	return &Server{handlers: handlers}
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}

// CreateOrder handles POST /api/v1/orders. When card payment initiation fails
// the placed order is still returned, with status 502 and the error attached.
func (s *Server) CreateOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req NewOrderRequest
	if err = c.Bind(&req); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	in, err := req.toInput(actor.ID, c.Request().Header.Get(HeaderIdempotencyKey))
	if err != nil {
		return err
	}
	cmd, err := commands.NewCreateOrderCommand(in)
	if err != nil {
		return err
	}

	placed, err := s.handlers.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		kind := errs.KindOf(err)
		if placed == nil || (kind != errs.KindPaymentProvider && kind != errs.KindPaymentIncomplete) {
			return err
		}
		// the order is committed, so the client gets its id whatever failed
		errResp := newErrorResponse(err)
		resp := newOrderResponse(placed)
		resp.Error = &errResp
		c.Response().Header().Set(echo.HeaderLocation, "/api/v1/orders/"+placed.ID().String())
		return c.JSON(errResp.Code, resp)
	}

	c.Response().Header().Set(echo.HeaderLocation, "/api/v1/orders/"+placed.ID().String())
	return c.JSON(http.StatusCreated, newOrderResponse(placed))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}

	query, err := queries.NewGetOrderQuery(id, actor)
	if err != nil {
		return err
	}
	view, err := s.handlers.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderDetailsResponse(view))
}

// ListOrders handles GET /api/v1/orders?status=&limit=&offset=.
func (s *Server) ListOrders(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var rawStatus *string
	if err = runtime.BindQueryParameter("form", true, false, "status", c.QueryParams(), &rawStatus); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("status", err)
	}
	var limit *int
	if err = runtime.BindQueryParameter("form", true, false, "limit", c.QueryParams(), &limit); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("limit", err)
	}
	var offset *int
	if err = runtime.BindQueryParameter("form", true, false, "offset", c.QueryParams(), &offset); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("offset", err)
	}

	var status *order.Status
	if rawStatus != nil {
		parsed, err := order.ParseStatus(*rawStatus)
		if err != nil {
			return err
		}
		status = &parsed
	}

	query, err := queries.NewListOrdersQuery(status, actor, lo.FromPtr(limit), lo.FromPtr(offset))
	if err != nil {
		return err
	}
	views, err := s.handlers.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lo.Map(views, func(v queries.ListOrdersQueryResponse, _ int) OrderSummaryResponse {
		return newOrderSummaryResponse(v)
	}))
}

// TransitionOrder handles POST /api/v1/orders/{orderId}/transitions.
func (s *Server) TransitionOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}

	var req TransitionRequest
	if err = c.Bind(&req); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewTransitionOrderCommand(id, target, actor, req.toProof())
	if err != nil {
		return err
	}
	updated, err := s.handlers.TransitionOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderResponse(updated))
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := orderIDParam(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCancelOrderCommand(id, actor)
	if err != nil {
		return err
	}
	cancelled, err := s.handlers.CancelOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newOrderResponse(cancelled))
}

// PreviewDelivery handles POST /api/v1/orders/preview.
func (s *Server) PreviewDelivery(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req PreviewRequest
	if err = c.Bind(&req); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	addressID, err := toKernelID(req.AddressID)
	if err != nil {
		return errs.NewValueIsRequiredErrorWithCause("address_id", err)
	}

	query, err := queries.NewPreviewDeliveryQuery(actor.ID, addressID)
	if err != nil {
		return err
	}
	preview, err := s.handlers.PreviewDelivery.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newDeliveryPreviewResponse(preview))
}

// ReloadSettings handles POST /api/v1/settings/reload.
func (s *Server) ReloadSettings(c echo.Context) error {
	snapshot, err := s.handlers.Settings.Reload(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newSettingsSummaryResponse(snapshot))
}

func orderIDParam(c echo.Context) (kernel.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithLocation("simple", false, "orderId", runtime.ParamLocationPath, c.Param("orderId"), &id)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("orderId", err)
	}
	kid, err := toKernelID(id)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("orderId", err)
	}
	return kid, nil
}
