package checkout

import (
	"context"
	"sync"

	"mystore-be/internal/cart"
	"mystore-be/internal/gateway"
	"mystore-be/internal/logger"
	"mystore-be/internal/order"
	"mystore-be/internal/payment"

	"go.uber.org/zap"
)

// PaymentAssertion is the completion handoff the gateway's client-side
// flow produces; it is consumed at most once per checkout.
type PaymentAssertion struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// Checkout is one attempt. The cart snapshot taken when the gateway order
// is created is what gets committed; mutations of the live cart while the
// gateway collects payment cannot change the recorded items or total.
type Checkout struct {
	state    State
	snapshot []cart.LineItem
	total    int64
	order    *gateway.Order
	consumed bool
}

// State returns the attempt's current phase.
func (c *Checkout) State() State { return c.state }

// Order returns the gateway order handle for this attempt.
func (c *Checkout) Order() *gateway.Order { return c.order }

// Total returns the amount snapshot the gateway order was opened with.
func (c *Checkout) Total() int64 { return c.total }

// Orchestrator drives checkouts end to end: snapshot cart, open the
// gateway order, wait for the external collection step, verify the
// completion assertion, commit to the ledger, clear the cart.
type Orchestrator struct {
	gateway  gateway.Gateway
	verifier payment.Verifier
	ledger   order.Repository
	carts    *cart.Store

	mu     sync.Mutex
	active map[string]*Checkout // at most one in-flight attempt per identity
}

func NewOrchestrator(gw gateway.Gateway, v payment.Verifier, ledger order.Repository, carts *cart.Store) *Orchestrator {
	return &Orchestrator{
		gateway:  gw,
		verifier: v,
		ledger:   ledger,
		carts:    carts,
		active:   make(map[string]*Checkout),
	}
}

// Begin starts a fresh attempt for the identity: snapshots the cart,
// opens a gateway order for exactly the snapshot total, and suspends in
// AwaitingGatewayCompletion while the external collection UI runs. Any
// earlier non-terminal attempt for the same identity is superseded, which
// is how an abandoned gateway flow gets retried.
func (o *Orchestrator) Begin(ctx context.Context, identityKey string) (*Checkout, error) {
	c := o.carts.Get(identityKey)
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	// The snapshot and its total are captured together; this is the
	// amount the gateway order is opened with, regardless of any cart
	// mutation that happens afterwards.
	snapshot := c.Snapshot()
	var total int64
	for _, li := range snapshot {
		total += li.Subtotal()
	}

	attempt := &Checkout{state: StateIdle, snapshot: snapshot, total: total}

	gwOrder, err := o.gateway.CreateOrder(ctx, total)
	if err != nil {
		return nil, err
	}
	attempt.order = gwOrder

	// OrderCreated is passed through instantly: the gateway's collection
	// UI takes over the moment the handle is returned. Its duration is
	// outside our control; never leaving the awaiting state (user
	// abandons) is a safe outcome, not an error.
	attempt.state = StateAwaitingGatewayCompletion

	o.mu.Lock()
	o.active[identityKey] = attempt
	o.mu.Unlock()

	logger.FromCtx(ctx).Info("Checkout started",
		zap.String("gateway_order_id", gwOrder.ID),
		zap.Int64("total", total),
	)
	return attempt, nil
}

// Complete consumes the gateway's completion assertion for the identity's
// in-flight attempt. Accepted verification appends the snapshot to the
// ledger and only then clears the cart; every failure path leaves the
// cart untouched so the user can retry.
func (o *Orchestrator) Complete(ctx context.Context, identityKey string, assertion PaymentAssertion) (*order.OrderRecord, error) {
	o.mu.Lock()
	attempt, ok := o.active[identityKey]
	if !ok {
		o.mu.Unlock()
		return nil, ErrNoActiveCheckout
	}
	if attempt.consumed {
		o.mu.Unlock()
		return nil, ErrAssertionConsumed
	}
	attempt.consumed = true
	attempt.state = StateVerifying
	o.mu.Unlock()

	log := logger.FromCtx(ctx).With(
		zap.String("gateway_order_id", assertion.OrderID),
		zap.String("payment_id", assertion.PaymentID),
	)

	result, err := o.verifier.Verify(assertion.OrderID, assertion.PaymentID, assertion.Signature)
	if err != nil {
		// Configuration failure, not a payment failure.
		o.fail(identityKey, attempt)
		log.Error("Verifier unavailable", zap.Error(err))
		return nil, err
	}
	if result != payment.Accepted {
		o.fail(identityKey, attempt)
		log.Warn("Payment signature rejected")
		return nil, ErrVerificationFailed
	}

	rec, err := o.ledger.Append(ctx, identityKey, order.NewOrderParams{
		GatewayOrderID: assertion.OrderID,
		PaymentID:      assertion.PaymentID,
		Total:          attempt.total,
		Items:          attempt.snapshot,
	})
	if err != nil {
		// The ledger write failed; the cart must survive so the purchase
		// intent is not lost.
		o.fail(identityKey, attempt)
		log.Error("Ledger append failed", zap.Error(err))
		return nil, err
	}

	o.carts.Get(identityKey).Clear()

	o.mu.Lock()
	attempt.state = StateCommitted
	delete(o.active, identityKey)
	o.mu.Unlock()

	log.Info("Checkout committed", zap.Int64("order_id", rec.ID))
	return rec, nil
}

// Abandon drops the identity's in-flight attempt, if any. The cart is
// preserved and no ledger entry exists; this is the explicit form of the
// user walking away from the gateway UI.
func (o *Orchestrator) Abandon(identityKey string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.active, identityKey)
}

// StateFor returns the state of the identity's in-flight attempt.
func (o *Orchestrator) StateFor(identityKey string) (State, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	attempt, ok := o.active[identityKey]
	if !ok {
		return StateIdle, false
	}
	return attempt.state, true
}

func (o *Orchestrator) fail(identityKey string, attempt *Checkout) {
	o.mu.Lock()
	attempt.state = StateFailed
	delete(o.active, identityKey)
	o.mu.Unlock()
}
