package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"duka/config"
	"duka/internal/domain"
	"duka/internal/models"
	"duka/pkg/gateway"

	"github.com/google/uuid"
)

type CheckoutItem struct {
	ProductID uint
	Quantity  int
	Size      string
	Color     string
}

type CheckoutInput struct {
	Items           []CheckoutItem
	CustomerEmail   string
	ShippingAddress string
	Metadata        map[string]string
}

type CheckoutResult struct {
	OrderID   string
	SessionID string
	URL       string
}

// CheckoutService validates a cart against the catalog, persists a pending
// order with price snapshots, and opens a hosted session at the gateway.
type CheckoutService struct {
	orders   OrderStore
	products StockLedger
	gw       gateway.Gateway
	cfg      *config.GatewayConfig
}

func NewCheckoutService(orders OrderStore, products StockLedger, gw gateway.Gateway, cfg *config.GatewayConfig) *CheckoutService {
	return &CheckoutService{orders: orders, products: products, gw: gw, cfg: cfg}
}

// Checkout runs the full session build. Validation happens before any
// order is persisted: a bad cart creates nothing. The pending order is
// persisted before the gateway call so a crash mid-checkout still leaves a
// recoverable record. A gateway failure keeps the order pending — it is
// never rolled back.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint, in CheckoutInput) (*CheckoutResult, error) {
	ids := make([]uint, 0, len(in.Items))
	for _, it := range in.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := s.products.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var totalCents int64
	currency := "USD"
	items := make([]models.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, fmt.Errorf("%w: product %d", domain.ErrProductNotFound, it.ProductID)
		}
		if p.Stock < it.Quantity {
			return nil, fmt.Errorf("%w: product %d has %d, want %d", domain.ErrInsufficientStock, p.ID, p.Stock, it.Quantity)
		}
		// price snapshot: later catalog changes never touch this order
		items = append(items, models.OrderItem{
			ProductID:      p.ID,
			Name:           p.Name,
			UnitPriceCents: p.PriceCents,
			Quantity:       it.Quantity,
			Image:          p.Image,
			Size:           it.Size,
			Color:          it.Color,
		})
		totalCents += p.PriceCents * int64(it.Quantity)
		if p.Currency != "" {
			currency = p.Currency
		}
	}

	metadata := ""
	if len(in.Metadata) > 0 {
		if b, err := json.Marshal(in.Metadata); err == nil {
			metadata = string(b)
		}
	}
	order := &models.Order{
		OrderID:         fmt.Sprintf("ord-%s", uuid.New().String()),
		UserID:          userID,
		TotalCents:      totalCents,
		Currency:        currency,
		Status:          domain.OrderPending,
		CustomerEmail:   in.CustomerEmail,
		ShippingAddress: in.ShippingAddress,
		Metadata:        metadata,
		Items:           items,
	}
	if err := s.orders.Create(order); err != nil {
		return nil, err
	}

	lineItems := make([]gateway.SessionLineItem, 0, len(items))
	for _, it := range items {
		lineItems = append(lineItems, gateway.SessionLineItem{
			Name:            it.Name,
			UnitAmountCents: it.UnitPriceCents,
			Quantity:        it.Quantity,
			Currency:        currency,
			Image:           it.Image,
		})
	}
	sess, err := s.gw.CreateSession(ctx, gateway.SessionRequest{
		LineItems:         lineItems,
		SuccessURL:        s.cfg.SuccessURL,
		CancelURL:         s.cfg.CancelURL,
		ClientReferenceID: order.OrderID,
		CustomerEmail:     in.CustomerEmail,
		Metadata:          map[string]string{"order_id": order.OrderID},
	})
	if err != nil {
		log.Printf("[checkout] session create failed order=%s: %v", order.OrderID, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionFailed, err)
	}
	order.GatewaySessionRef = sess.ID
	if err := s.orders.Update(order); err != nil {
		log.Printf("[checkout] session ref persist failed order=%s session=%s: %v", order.OrderID, sess.ID, err)
	}
	log.Printf("[checkout] order=%s total=%d session=%s", order.OrderID, totalCents, sess.ID)
	return &CheckoutResult{OrderID: order.OrderID, SessionID: sess.ID, URL: sess.URL}, nil
}
