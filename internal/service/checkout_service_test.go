package service

import (
	"context"
	"errors"
	"testing"

	"duka/config"
	"duka/internal/domain"
	"duka/internal/models"
)

func testGatewayConfig() *config.GatewayConfig {
	return &config.GatewayConfig{
		SuccessURL: "https://shop.test/success",
		CancelURL:  "https://shop.test/cancel",
	}
}

func testCatalog() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Canvas Tote", PriceCents: 2500, Currency: "USD", Stock: 10},
		{ID: 2, Name: "Enamel Mug", PriceCents: 1800, Currency: "USD", Stock: 3},
	}
}

func TestCheckoutCreatesPendingOrderWithSnapshotTotal(t *testing.T) {
	store := newMemStore(testCatalog()...)
	gw := newFakeGateway()
	svc := NewCheckoutService(store, store, gw, testGatewayConfig())

	res, err := svc.Checkout(context.Background(), 7, CheckoutInput{
		Items:           []CheckoutItem{{ProductID: 1, Quantity: 2}},
		CustomerEmail:   "shopper@example.com",
		ShippingAddress: "1 Main St",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	order, err := store.GetByOrderID(res.OrderID)
	if err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if order.Status != domain.OrderPending {
		t.Errorf("status = %s, want pending", order.Status)
	}
	if order.TotalCents != 5000 {
		t.Errorf("total = %d, want 5000", order.TotalCents)
	}
	if len(order.Items) != 1 || order.Items[0].UnitPriceCents != 2500 {
		t.Errorf("items = %+v, want one snapshot at 2500", order.Items)
	}
	if order.GatewaySessionRef != res.SessionID {
		t.Errorf("session ref = %q, want %q", order.GatewaySessionRef, res.SessionID)
	}
	sess, _ := gw.GetSession(context.Background(), res.SessionID)
	if sess.ClientReferenceID != res.OrderID {
		t.Errorf("client_reference_id = %q, want %q", sess.ClientReferenceID, res.OrderID)
	}
	// checkout validates, it does not mutate stock
	if got := store.stock(1); got != 10 {
		t.Errorf("stock = %d, want 10 (unchanged)", got)
	}
}

func TestCheckoutSnapshotIgnoresLaterPriceChange(t *testing.T) {
	store := newMemStore(testCatalog()...)
	gw := newFakeGateway()
	svc := NewCheckoutService(store, store, gw, testGatewayConfig())

	res, err := svc.Checkout(context.Background(), 7, CheckoutInput{
		Items:           []CheckoutItem{{ProductID: 1, Quantity: 2}},
		CustomerEmail:   "shopper@example.com",
		ShippingAddress: "1 Main St",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	store.setPrice(1, 9900)
	order, _ := store.GetByOrderID(res.OrderID)
	if order.TotalCents != 5000 {
		t.Errorf("total = %d after price change, want 5000", order.TotalCents)
	}
}

func TestCheckoutRejectsUnknownProductBeforePersisting(t *testing.T) {
	store := newMemStore(testCatalog()...)
	gw := newFakeGateway()
	svc := NewCheckoutService(store, store, gw, testGatewayConfig())

	_, err := svc.Checkout(context.Background(), 7, CheckoutInput{
		Items: []CheckoutItem{{ProductID: 1, Quantity: 1}, {ProductID: 99, Quantity: 1}},
	})
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("err = %v, want ErrProductNotFound", err)
	}
	orders, _ := store.ListByUser(7)
	if len(orders) != 0 {
		t.Errorf("orders persisted = %d, want 0 (no partial orders)", len(orders))
	}
}

func TestCheckoutRejectsInsufficientStockBeforePersisting(t *testing.T) {
	store := newMemStore(testCatalog()...)
	gw := newFakeGateway()
	svc := NewCheckoutService(store, store, gw, testGatewayConfig())

	_, err := svc.Checkout(context.Background(), 7, CheckoutInput{
		Items: []CheckoutItem{{ProductID: 2, Quantity: 4}},
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("err = %v, want ErrInsufficientStock", err)
	}
	orders, _ := store.ListByUser(7)
	if len(orders) != 0 {
		t.Errorf("orders persisted = %d, want 0", len(orders))
	}
}

func TestCheckoutGatewayFailureKeepsPendingOrder(t *testing.T) {
	store := newMemStore(testCatalog()...)
	gw := newFakeGateway()
	gw.createErr = errGatewayDown
	svc := NewCheckoutService(store, store, gw, testGatewayConfig())

	_, err := svc.Checkout(context.Background(), 7, CheckoutInput{
		Items: []CheckoutItem{{ProductID: 1, Quantity: 1}},
	})
	if !errors.Is(err, domain.ErrSessionFailed) {
		t.Fatalf("err = %v, want ErrSessionFailed", err)
	}
	orders, _ := store.ListByUser(7)
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1 (pending order is not rolled back)", len(orders))
	}
	if orders[0].Status != domain.OrderPending {
		t.Errorf("status = %s, want pending", orders[0].Status)
	}
}

func TestCheckoutTwiceCreatesTwoDistinctOrders(t *testing.T) {
	store := newMemStore(testCatalog()...)
	gw := newFakeGateway()
	svc := NewCheckoutService(store, store, gw, testGatewayConfig())

	in := CheckoutInput{Items: []CheckoutItem{{ProductID: 1, Quantity: 1}}}
	a, err := svc.Checkout(context.Background(), 7, in)
	if err != nil {
		t.Fatalf("first checkout: %v", err)
	}
	b, err := svc.Checkout(context.Background(), 7, in)
	if err != nil {
		t.Fatalf("second checkout: %v", err)
	}
	if a.OrderID == b.OrderID {
		t.Errorf("same order id %q for two checkouts", a.OrderID)
	}
	if a.SessionID == b.SessionID {
		t.Errorf("same session %q for two checkouts", a.SessionID)
	}
}
