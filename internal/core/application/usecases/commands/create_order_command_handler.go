package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/promo"
	"fulfillment/internal/core/domain/model/restaurant"
	"fulfillment/internal/core/domain/model/settings"
	"fulfillment/internal/core/domain/pricing"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"

	"github.com/samber/lo"
)

// CreateOrderCommandHandler places orders. Routing, pricing, stock deduction,
// bonus debit and persistence run in one unit of work; card payment is
// initiated after it commits.
type CreateOrderCommandHandler struct {
	uowFactory   PlacementUoWFactory
	orderFactory OrderUoWFactory
	router       services.FulfillmentRouter
	settings     SettingsProvider
	gateway      ports.PaymentGateway
	clock        clock.Clock
	logger       *slog.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory PlacementUoWFactory,
	orderFactory OrderUoWFactory,
	router services.FulfillmentRouter,
	cfg SettingsProvider,
	gateway ports.PaymentGateway,
	clk clock.Clock,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:   uowFactory,
		orderFactory: orderFactory,
		router:       router,
		settings:     cfg,
		gateway:      gateway,
		clock:        clk,
		logger:       logger.With("component", "create_order"),
	}
}

// Handle places the order. When card payment initiation fails the committed
// order is returned together with a PaymentProviderError and its payment is
// marked failed. When the initiation outcome cannot be saved the committed
// order comes with a PaymentIncompleteError instead.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	placed, err := h.place(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if !placed.PaymentMethod().RequiresSettlement() {
		return placed, nil
	}
	return h.initiatePayment(ctx, placed)
}

func (h *CreateOrderCommandHandler) place(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	now := h.clock.Now()
	snapshot := h.settings.Snapshot()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	buyer, err := uow.CustomerRepository().Get(ctx, cmd.CustomerID())
	if err != nil {
		return nil, err
	}
	if err = buyer.EnsureCanRedeem(cmd.BonusRedeemed()); err != nil {
		return nil, err
	}

	route, addressID, err := h.route(ctx, uow, buyer, cmd, snapshot.Tariffs, now)
	if err != nil {
		return nil, err
	}

	var code *promo.Code
	if c := cmd.PromoCode(); c != nil {
		if code, err = uow.PromoRepository().GetByCode(ctx, *c); err != nil {
			return nil, err
		}
	}

	items, err := h.buildItems(ctx, uow.CatalogRepository(), cmd.Lines())
	if err != nil {
		return nil, err
	}

	quote, err := pricing.Calculate(pricing.Input{
		Lines:         lo.Map(items, func(i *order.Item, _ int) pricing.Line { return i.Line() }),
		DeliveryFee:   route.Fee,
		Promo:         code,
		BonusRedeemed: cmd.BonusRedeemed(),
		Source:        string(cmd.Source()),
	}, snapshot.Cashback, now)
	if err != nil {
		return nil, err
	}

	delivery, err := order.NewDelivery(kernel.NewUUID(), route.Restaurant.ID(), addressID, route.Fee, route.DistanceKM)
	if err != nil {
		return nil, err
	}

	placed, err := order.NewOrder(order.Draft{
		ID:            cmd.OrderID(),
		CustomerID:    cmd.CustomerID(),
		Delivery:      delivery,
		Items:         items,
		Quote:         quote,
		PromoCode:     cmd.PromoCode(),
		PaymentMethod: cmd.PaymentMethod(),
		Source:        cmd.Source(),
		IsPickup:      cmd.IsPickup(),
		Comment:       cmd.Comment(),
		Change:        cmd.Change(),
		CreatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	if err = applyPlacement(ctx, uow.CatalogRepository(), uow.CustomerRepository(), placed); err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, placed); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order placed",
		"order_id", placed.ID().String(),
		"restaurant_id", placed.RestaurantID().String(),
		"total", placed.TotalAmount().String(),
		"pickup", placed.IsPickup())
	return placed, nil
}

func (h *CreateOrderCommandHandler) route(
	ctx context.Context,
	uow PlacementUoW,
	buyer *customer.Customer,
	cmd CreateOrderCommand,
	tariffs settings.DistanceTariffs,
	now time.Time,
) (services.Route, *kernel.UUID, error) {
	switch f := cmd.Fulfillment().(type) {
	case PickupRequest:
		chosen, err := uow.RestaurantRepository().Get(ctx, f.RestaurantID)
		if err != nil {
			return services.Route{}, nil, err
		}
		route, err := h.router.Select(ctx, []*restaurant.Restaurant{chosen},
			services.RouteRequest{Pickup: true, RestaurantID: &f.RestaurantID}, tariffs, now)
		return route, nil, err

	case DeliveryRequest:
		address, err := uow.AddressDirectory().GetAddress(ctx, f.AddressID)
		if err != nil {
			return services.Route{}, nil, err
		}
		if !address.BelongsTo(buyer.ID()) {
			return services.Route{}, nil, errs.NewObjectNotFoundError("address", f.AddressID.String())
		}
		restaurants, err := uow.RestaurantRepository().List(ctx)
		if err != nil {
			return services.Route{}, nil, err
		}
		route, err := h.router.Select(ctx, restaurants,
			services.RouteRequest{Location: address.Location()}, tariffs, now)
		id := address.ID()
		return route, &id, err
	}

	return services.Route{}, nil, errs.NewValueIsRequiredError("fulfillment")
}

func (h *CreateOrderCommandHandler) buildItems(
	ctx context.Context,
	repo ports.CatalogRepository,
	lines []LineRequest,
) ([]*order.Item, error) {
	sizes, err := repo.GetSizes(ctx, lo.Uniq(lo.Map(lines, func(l LineRequest, _ int) kernel.UUID {
		return l.ProductSizeID
	})))
	if err != nil {
		return nil, err
	}

	toppingIDs := lo.Uniq(lo.FlatMap(lines, func(l LineRequest, _ int) []kernel.UUID { return l.ToppingIDs }))
	toppings := map[kernel.UUID]catalog.Topping{}
	if len(toppingIDs) > 0 {
		if toppings, err = repo.GetToppings(ctx, toppingIDs); err != nil {
			return nil, err
		}
	}

	items := make([]*order.Item, 0, len(lines))
	for _, l := range lines {
		size, ok := sizes[l.ProductSizeID]
		if !ok {
			return nil, errs.NewObjectNotFoundError("product_size", l.ProductSizeID.String())
		}

		attached := make([]catalog.Topping, 0, len(l.ToppingIDs))
		for _, id := range l.ToppingIDs {
			t, found := toppings[id]
			if !found {
				return nil, errs.NewObjectNotFoundError("topping", id.String())
			}
			attached = append(attached, t)
		}

		item, itemErr := order.NewItem(kernel.NewUUID(), size, l.Quantity, attached, l.IsBonus)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return items, nil
}

func (h *CreateOrderCommandHandler) initiatePayment(ctx context.Context, placed *order.Order) (*order.Order, error) {
	cfg := h.settings.Snapshot().Payment

	url, initErr := h.gateway.Initiate(ctx, cfg, ports.PaymentRequest{
		OrderID:     placed.ID(),
		CustomerID:  placed.CustomerID(),
		Amount:      placed.TotalAmount(),
		Description: "Order " + placed.ID().String(),
	})
	if initErr != nil {
		initErr = errs.NewPaymentProviderError("initiate", initErr)
	}

	updated, err := h.recordInitiation(ctx, placed.ID(), url, initErr)
	if err != nil {
		h.logger.ErrorContext(ctx, "payment initiation not recorded", "order_id", placed.ID().String(), "error", err)
		return placed, errs.NewPaymentIncompleteError(placed.ID().String(), errors.Join(initErr, err))
	}
	return updated, initErr
}

func (h *CreateOrderCommandHandler) recordInitiation(
	ctx context.Context,
	id kernel.UUID,
	url string,
	initErr error,
) (*order.Order, error) {
	uow := h.orderFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if initErr != nil {
		o.MarkPaymentFailed()
		h.logger.WarnContext(ctx, "payment initiation failed", "order_id", id.String(), "error", initErr)
	} else {
		o.AttachPaymentURL(url)
	}

	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return o, nil
}
