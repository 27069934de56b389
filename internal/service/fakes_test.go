package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"duka/internal/domain"
	"duka/internal/models"
	"duka/pkg/gateway"
)

// memStore backs OrderStore, PaymentStore and StockLedger with one mutex so
// concurrent settlement tests see the same serialization a database gives.
type memStore struct {
	mu       sync.Mutex
	nextID   uint
	products map[uint]*models.Product
	orders   map[string]*models.Order  // by order_id
	payments map[string]*models.Payment // by gateway ref
	refunds  map[string]bool           // by gateway refund id
}

func newMemStore(products ...models.Product) *memStore {
	s := &memStore{
		products: make(map[uint]*models.Product),
		orders:   make(map[string]*models.Order),
		payments: make(map[string]*models.Payment),
		refunds:  make(map[string]bool),
	}
	for i := range products {
		p := products[i]
		s.products[p.ID] = &p
	}
	return s
}

func (s *memStore) GetByIDs(ids []uint) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Product
	for _, id := range ids {
		if p, ok := s.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *memStore) stock(id uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].Stock
}

func (s *memStore) setPrice(id uint, cents int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[id].PriceCents = cents
}

func (s *memStore) Create(o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	o.ID = s.nextID
	cp := *o
	s.orders[o.OrderID] = &cp
	return nil
}

func (s *memStore) GetByOrderID(orderID string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *memStore) Update(o *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.orders[o.OrderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	cp := *o
	cp.StockDecremented = stored.StockDecremented // flag owned by Settle
	cp.Refunds = stored.Refunds                   // rows owned by AppendRefund
	s.orders[o.OrderID] = &cp
	return nil
}

func (s *memStore) ListByUser(userID uint) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (s *memStore) CreateIfAbsent(p *models.Payment) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createIfAbsentLocked(p), nil
}

func (s *memStore) createIfAbsentLocked(p *models.Payment) bool {
	if _, ok := s.payments[p.GatewayPaymentRef]; ok {
		return false
	}
	s.nextID++
	p.ID = s.nextID
	cp := *p
	s.payments[p.GatewayPaymentRef] = &cp
	return true
}

func (s *memStore) Settle(o *models.Order, p *models.Payment) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := s.createIfAbsentLocked(p)
	stored, ok := s.orders[o.OrderID]
	if !ok {
		return created, domain.ErrOrderNotFound
	}
	if stored.StockDecremented {
		return created, nil
	}
	for _, it := range o.Items {
		prod, ok := s.products[it.ProductID]
		if !ok || prod.Stock < it.Quantity {
			return created, fmt.Errorf("decrement stock: product %d", it.ProductID)
		}
		prod.Stock -= it.Quantity
	}
	stored.StockDecremented = true
	o.StockDecremented = true
	return created, nil
}

func (s *memStore) GetByPaymentID(paymentID string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.PaymentID == paymentID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (s *memStore) GetByGatewayRef(ref string) (*models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[ref]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	cp := *p
	cp.Refunds = append([]models.Refund(nil), p.Refunds...)
	return &cp, nil
}

func (s *memStore) UpdatePayment(p *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.payments[p.GatewayPaymentRef]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	cp := *p
	cp.Refunds = stored.Refunds
	s.payments[p.GatewayPaymentRef] = &cp
	return nil
}

func (s *memStore) AppendRefund(p *models.Payment, o *models.Order, ref *models.Refund) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refunds[ref.GatewayRefundID] {
		return false, nil
	}
	s.refunds[ref.GatewayRefundID] = true
	if stored, ok := s.payments[p.GatewayPaymentRef]; ok {
		stored.Refunds = append(stored.Refunds, *ref)
	}
	if stored, ok := s.orders[o.OrderID]; ok {
		stored.Refunds = append(stored.Refunds, *ref)
	}
	return true, nil
}

func (s *memStore) ListByUserPayments(userID uint) ([]models.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Payment
	for _, p := range s.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// paymentStore adapts memStore to the PaymentStore interface (Update and
// ListByUser collide with the order-side method names).
type paymentStore struct{ *memStore }

func (s paymentStore) Update(p *models.Payment) error { return s.UpdatePayment(p) }
func (s paymentStore) ListByUser(userID uint) ([]models.Payment, error) {
	return s.ListByUserPayments(userID)
}

// fakeGateway scripts the processor side.
type fakeGateway struct {
	mu        sync.Mutex
	sessions  map[string]*gateway.Session
	createErr error
	refunds   []gateway.RefundRequest
	refundErr error
	nextRef   int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: make(map[string]*gateway.Session)}
}

func (g *fakeGateway) CreateSession(_ context.Context, req gateway.SessionRequest) (*gateway.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.nextRef++
	sess := &gateway.Session{
		ID:                fmt.Sprintf("cs_%d", g.nextRef),
		URL:               fmt.Sprintf("https://pay.test/s/%d", g.nextRef),
		ClientReferenceID: req.ClientReferenceID,
		PaymentStatus:     gateway.SessionUnpaid,
	}
	g.sessions[sess.ID] = sess
	return sess, nil
}

func (g *fakeGateway) GetSession(_ context.Context, id string) (*gateway.Session, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	sess, ok := g.sessions[id]
	if !ok {
		return nil, gateway.ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (g *fakeGateway) CreateRefund(_ context.Context, req gateway.RefundRequest) (*gateway.Refund, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refundErr != nil {
		return nil, g.refundErr
	}
	g.refunds = append(g.refunds, req)
	return &gateway.Refund{
		ID:          fmt.Sprintf("re_%d", len(g.refunds)),
		PaymentRef:  req.PaymentRef,
		AmountCents: req.AmountCents,
		Reason:      req.Reason,
		Status:      "succeeded",
	}, nil
}

func (g *fakeGateway) VerifyEvent(body []byte, signature string) (*gateway.Event, error) {
	return gateway.VerifyEvent("test-secret", body, signature)
}

func (g *fakeGateway) markPaid(sessionID, paymentRef, customerRef string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	sess := g.sessions[sessionID]
	sess.PaymentStatus = gateway.SessionPaid
	sess.PaymentIntentRef = paymentRef
	sess.CustomerRef = customerRef
}

var errGatewayDown = errors.New("gateway unavailable")
