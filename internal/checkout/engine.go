// Package checkout turns a submitted cart snapshot into a persisted order.
//
// A checkout validates every line against the catalog (concurrently, all or nothing), prices
// the lines from live catalog data, persists the order and then empties the shared cart. The
// whole sequence runs inside the cart manager's exclusive section, so no cart mutation or
// other checkout can interleave with it.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/apperr"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/money"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
)

// ErrCartNotCleared is returned alongside a valid receipt when the order was persisted but
// emptying the cart failed. The order stands.
var ErrCartNotCleared = errors.New("order placed but cart was not cleared")

const defaultConcurrency = 8

// CartLocker is implemented by *cart.Manager.
type CartLocker interface {
	Exclusive(ctx context.Context, fn func(ctx context.Context, clear cart.ClearFunc) error) error
}

// OrderPublisher is implemented by *events.Publisher. PrepareOrderPlaced runs inside the commit
// so event sequence numbers follow order commit order; PublishOrderPlaced runs after the cart
// is released.
type OrderPublisher interface {
	PrepareOrderPlaced(ctx context.Context, o order.Order) (events.OrderPlacedEnvelope, error)
	PublishOrderPlaced(ctx context.Context, env events.OrderPlacedEnvelope) error
}

type Deps struct {
	Catalog catalog.Reader
	Orders  order.Repository
	Cart    CartLocker
	// Publisher is optional; nil disables OrderPlaced events.
	Publisher OrderPublisher
	Logger    *zap.Logger
	// Concurrency bounds parallel product lookups per checkout.
	Concurrency int
	Now         func() time.Time
	// OnTransition, when set, observes every state entered by a checkout.
	OnTransition func(State)
}

type Engine struct {
	catalog      catalog.Reader
	orders       order.Repository
	cart         CartLocker
	publisher    OrderPublisher
	logger       *zap.Logger
	concurrency  int
	now          func() time.Time
	onTransition func(State)
}

func NewEngine(d Deps) *Engine {
	e := &Engine{
		catalog:      d.Catalog,
		orders:       d.Orders,
		cart:         d.Cart,
		publisher:    d.Publisher,
		logger:       d.Logger,
		concurrency:  d.Concurrency,
		now:          d.Now,
		onTransition: d.OnTransition,
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.concurrency <= 0 {
		e.concurrency = defaultConcurrency
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Checkout places an order for req. It is not cancellable: once called it runs to completion
// or failure even if ctx is cancelled.
//
// On success it returns the receipt and a nil error. If the order was persisted but the cart
// could not be cleared it returns the receipt together with an error wrapping
// ErrCartNotCleared. Any other error means nothing was written.
func (e *Engine) Checkout(ctx context.Context, req Request) (Receipt, error) {
	ctx = context.WithoutCancel(ctx)
	e.transition(StateValidating)

	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	if err := validate(req); err != nil {
		return Receipt{}, e.reject(err)
	}

	var (
		receipt  Receipt
		placed   order.Order
		event    *events.OrderPlacedEnvelope
		clearErr error
	)
	err := e.cart.Exclusive(ctx, func(ctx context.Context, clear cart.ClearFunc) error {
		products, err := e.resolve(ctx, req.Lines)
		if err != nil {
			return e.reject(err)
		}

		e.transition(StatePricing)
		o := price(req, products)
		o.CreatedAt = e.now().UTC()

		e.transition(StatePersisting)
		if err := e.orders.Create(ctx, &o); err != nil {
			e.logger.Error("persist order", zap.Error(err))
			return e.reject(apperr.Storage("persist order", err))
		}

		e.transition(StateClearing)
		if _, err := clear(ctx); err != nil {
			e.logger.Error("order persisted but cart clear failed",
				zap.Int64("order_id", o.ID), zap.Error(err))
			clearErr = err
		}

		event = e.prepareEvent(ctx, o)

		e.transition(StateCompleted)
		placed = o
		receipt = Receipt{
			OrderID:       o.ID,
			CustomerName:  o.CustomerName,
			CustomerEmail: o.CustomerEmail,
			Items:         o.Items,
			Total:         o.Total,
			Timestamp:     o.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}

	e.logger.Info("order placed",
		zap.Int64("order_id", placed.ID),
		zap.Int("lines", len(placed.Items)),
		zap.String("total", placed.Total.StringFixed(money.Places)),
	)
	e.publish(ctx, event)

	if clearErr != nil {
		return receipt, fmt.Errorf("%w: %w", ErrCartNotCleared, clearErr)
	}
	return receipt, nil
}

func validate(req Request) error {
	if len(req.Lines) == 0 {
		return apperr.InvalidArgument("at least one line is required")
	}
	if req.CustomerName == "" {
		return apperr.InvalidArgument("customerName is required")
	}
	if req.CustomerEmail == "" {
		return apperr.InvalidArgument("customerEmail is required")
	}
	for i, l := range req.Lines {
		if l.ProductID <= 0 {
			return apperr.InvalidArgument("line %d: productId must be positive", i)
		}
		if l.Quantity < 1 {
			return apperr.InvalidArgument("line %d: quantity must be at least 1, got %d", i, l.Quantity)
		}
		if l.Quantity > cart.MaxQuantity {
			return apperr.InvalidArgument("line %d: quantity must be at most %d, got %d", i, cart.MaxQuantity, l.Quantity)
		}
	}
	return nil
}

// resolve looks up every line's product in parallel. Each lookup writes only its own slot.
// Missing products do not cancel the other lookups, so the reported product is always the
// first missing one in request order; storage failures do.
func (e *Engine) resolve(ctx context.Context, lines []LineRequest) ([]catalog.Product, error) {
	products := make([]catalog.Product, len(lines))
	missing := make([]bool, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, l := range lines {
		i, l := i, l
		g.Go(func() error {
			p, err := e.catalog.Get(gctx, l.ProductID)
			switch {
			case errors.Is(err, catalog.ErrNotFound):
				missing[i] = true
				return nil
			case err != nil:
				return fmt.Errorf("lookup product %d: %w", l.ProductID, err)
			}
			products[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.logger.Error("checkout product lookup", zap.Error(err))
		return nil, apperr.Storage("read products", err)
	}
	for i, m := range missing {
		if m {
			return nil, apperr.NotFound("product %d not found", lines[i].ProductID)
		}
	}
	return products, nil
}

// price builds the order from resolved products. Each subtotal is rounded to cents and the
// total is the sum of the rounded subtotals.
func price(req Request, products []catalog.Product) order.Order {
	o := order.Order{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Items:         make([]order.Line, 0, len(req.Lines)),
	}
	subtotals := make([]decimal.Decimal, 0, len(req.Lines))
	for i, l := range req.Lines {
		p := products[i]
		sub := money.Round(money.Subtotal(p.Price, l.Quantity))
		o.Items = append(o.Items, order.Line{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  l.Quantity,
			Subtotal:  sub,
		})
		subtotals = append(subtotals, sub)
	}
	o.Total = money.Sum(subtotals...)
	return o
}

func (e *Engine) prepareEvent(ctx context.Context, o order.Order) *events.OrderPlacedEnvelope {
	if e.publisher == nil {
		return nil
	}
	env, err := e.publisher.PrepareOrderPlaced(ctx, o)
	if err != nil {
		e.logger.Warn("prepare OrderPlaced failed", zap.Int64("order_id", o.ID), zap.Error(err))
		return nil
	}
	return &env
}

func (e *Engine) publish(ctx context.Context, env *events.OrderPlacedEnvelope) {
	if env == nil {
		return
	}
	if err := e.publisher.PublishOrderPlaced(ctx, *env); err != nil {
		e.logger.Warn("publish OrderPlaced failed", zap.Int64("order_id", env.Payload.OrderID), zap.Error(err))
	}
}

func (e *Engine) reject(err error) error {
	e.transition(StateRejected)
	if k := apperr.KindOf(err); k == apperr.KindInvalidArgument || k == apperr.KindNotFound {
		e.logger.Info("checkout rejected", zap.String("reason", apperr.Message(err)))
	}
	return err
}

func (e *Engine) transition(s State) {
	e.logger.Debug("checkout state", zap.String("state", string(s)))
	if e.onTransition != nil {
		e.onTransition(s)
	}
}
