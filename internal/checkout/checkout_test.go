package checkout

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"

	"mystore-be/internal/cart"
	"mystore-be/internal/gateway"
	"mystore-be/internal/order"
	"mystore-be/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "secret"

// MockGateway is a mock implementation of the gateway.Gateway interface
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, amount int64) (*gateway.Order, error) {
	args := m.Called(ctx, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.Order), args.Error(1)
}

func (m *MockGateway) KeyID() string {
	args := m.Called()
	return args.String(0)
}

// MockLedger is a mock implementation of the order.Repository interface
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Append(ctx context.Context, identityKey string, params order.NewOrderParams) (*order.OrderRecord, error) {
	args := m.Called(ctx, identityKey, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.OrderRecord), args.Error(1)
}

func (m *MockLedger) ListFor(ctx context.Context, identityKey string) ([]*order.OrderRecord, error) {
	args := m.Called(ctx, identityKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.OrderRecord), args.Error(1)
}

func sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func assertion(orderID, paymentID string) PaymentAssertion {
	return PaymentAssertion{
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: sign(orderID, paymentID),
	}
}

func newTestOrchestrator(gw *MockGateway, ledger *MockLedger) (*Orchestrator, *cart.Store) {
	carts := cart.NewStore()
	o := NewOrchestrator(gw, payment.NewVerifier(testSecret), ledger, carts)
	return o, carts
}

var headphones = cart.Product{ID: 1, Name: "Wireless Headphones", Price: 2999}

func TestOrchestrator_Begin(t *testing.T) {
	t.Run("EmptyCart", func(t *testing.T) {
		o, _ := newTestOrchestrator(new(MockGateway), new(MockLedger))
		_, err := o.Begin(context.Background(), "uid-1")
		assert.ErrorIs(t, err, ErrEmptyCart)
	})

	t.Run("SnapshotTotalPassedToGateway", func(t *testing.T) {
		gw := new(MockGateway)
		o, carts := newTestOrchestrator(gw, new(MockLedger))
		carts.Get("uid-1").AddItem(headphones)

		gw.On("CreateOrder", mock.Anything, int64(2999)).
			Return(&gateway.Order{ID: "order_1", Amount: 299900, Currency: "INR"}, nil)

		attempt, err := o.Begin(context.Background(), "uid-1")
		require.NoError(t, err)
		assert.Equal(t, StateAwaitingGatewayCompletion, attempt.State())
		assert.Equal(t, int64(2999), attempt.Total())
		assert.Equal(t, "order_1", attempt.Order().ID)
		gw.AssertExpectations(t)
	})

	t.Run("GatewayFailureLeavesCartIntact", func(t *testing.T) {
		gw := new(MockGateway)
		o, carts := newTestOrchestrator(gw, new(MockLedger))
		carts.Get("uid-1").AddItem(headphones)

		gw.On("CreateOrder", mock.Anything, int64(2999)).
			Return(nil, &gateway.TransportError{Err: errors.New("connection refused")})

		_, err := o.Begin(context.Background(), "uid-1")
		assert.Error(t, err)
		assert.False(t, carts.Get("uid-1").IsEmpty())

		_, inFlight := o.StateFor("uid-1")
		assert.False(t, inFlight)
	})
}

func TestOrchestrator_Complete_Committed(t *testing.T) {
	gw := new(MockGateway)
	ledger := new(MockLedger)
	o, carts := newTestOrchestrator(gw, ledger)
	carts.Get("uid-1").AddItem(headphones)

	gw.On("CreateOrder", mock.Anything, int64(2999)).
		Return(&gateway.Order{ID: "order_1", Amount: 299900, Currency: "INR"}, nil)
	ledger.On("Append", mock.Anything, "uid-1", mock.MatchedBy(func(p order.NewOrderParams) bool {
		return p.GatewayOrderID == "order_1" && p.PaymentID == "pay_1" &&
			p.Total == 2999 && len(p.Items) == 1
	})).Return(&order.OrderRecord{ID: 1, Status: order.StatusConfirmed}, nil)

	_, err := o.Begin(context.Background(), "uid-1")
	require.NoError(t, err)

	rec, err := o.Complete(context.Background(), "uid-1", assertion("order_1", "pay_1"))
	require.NoError(t, err)
	assert.Equal(t, order.StatusConfirmed, rec.Status)

	// Ledger written, then cart cleared
	assert.True(t, carts.Get("uid-1").IsEmpty())
	ledger.AssertExpectations(t)
}

func TestOrchestrator_Complete_SnapshotWinsOverLiveCart(t *testing.T) {
	gw := new(MockGateway)
	ledger := new(MockLedger)
	o, carts := newTestOrchestrator(gw, ledger)
	carts.Get("uid-1").AddItem(headphones)

	gw.On("CreateOrder", mock.Anything, int64(2999)).
		Return(&gateway.Order{ID: "order_1"}, nil)

	_, err := o.Begin(context.Background(), "uid-1")
	require.NoError(t, err)

	// Mutate the live cart while the gateway collects payment
	carts.Get("uid-1").AddItemQty(cart.Product{ID: 2, Name: "Smart Watch", Price: 4999}, 3)

	ledger.On("Append", mock.Anything, "uid-1", mock.MatchedBy(func(p order.NewOrderParams) bool {
		// The committed record is the snapshot, not the mutated cart
		return p.Total == 2999 && len(p.Items) == 1 && p.Items[0].ProductID == 1
	})).Return(&order.OrderRecord{ID: 1}, nil)

	_, err = o.Complete(context.Background(), "uid-1", assertion("order_1", "pay_1"))
	require.NoError(t, err)
	ledger.AssertExpectations(t)
}

func TestOrchestrator_Complete_RejectedSignature(t *testing.T) {
	gw := new(MockGateway)
	ledger := new(MockLedger)
	o, carts := newTestOrchestrator(gw, ledger)
	carts.Get("uid-1").AddItem(headphones)

	gw.On("CreateOrder", mock.Anything, mock.Anything).
		Return(&gateway.Order{ID: "order_1"}, nil)

	_, err := o.Begin(context.Background(), "uid-1")
	require.NoError(t, err)

	bad := assertion("order_1", "pay_1")
	bad.Signature = bad.Signature[:len(bad.Signature)-1] + "x"

	_, err = o.Complete(context.Background(), "uid-1", bad)
	assert.ErrorIs(t, err, ErrVerificationFailed)

	// No ledger write, cart preserved for retry
	ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything)
	assert.False(t, carts.Get("uid-1").IsEmpty())
	assert.Equal(t, 1, carts.Get("uid-1").Count())
}

func TestOrchestrator_Complete_LedgerFailurePreservesCart(t *testing.T) {
	gw := new(MockGateway)
	ledger := new(MockLedger)
	o, carts := newTestOrchestrator(gw, ledger)
	carts.Get("uid-1").AddItem(headphones)

	gw.On("CreateOrder", mock.Anything, mock.Anything).
		Return(&gateway.Order{ID: "order_1"}, nil)
	ledger.On("Append", mock.Anything, "uid-1", mock.Anything).
		Return(nil, errors.New("db down"))

	_, err := o.Begin(context.Background(), "uid-1")
	require.NoError(t, err)

	_, err = o.Complete(context.Background(), "uid-1", assertion("order_1", "pay_1"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrVerificationFailed)

	// Cart must remain non-empty and unchanged
	assert.Equal(t, 1, carts.Get("uid-1").Count())
	assert.Equal(t, int64(2999), carts.Get("uid-1").Total())
}

func TestOrchestrator_Complete_VerifierMisconfigured(t *testing.T) {
	gw := new(MockGateway)
	ledger := new(MockLedger)
	carts := cart.NewStore()
	o := NewOrchestrator(gw, payment.NewVerifier(""), ledger, carts)
	carts.Get("uid-1").AddItem(headphones)

	gw.On("CreateOrder", mock.Anything, mock.Anything).
		Return(&gateway.Order{ID: "order_1"}, nil)

	_, err := o.Begin(context.Background(), "uid-1")
	require.NoError(t, err)

	_, err = o.Complete(context.Background(), "uid-1", assertion("order_1", "pay_1"))
	assert.ErrorIs(t, err, payment.ErrSecretNotConfigured)
	assert.NotErrorIs(t, err, ErrVerificationFailed)
	assert.False(t, carts.Get("uid-1").IsEmpty())
}

func TestOrchestrator_AbandonedCheckout(t *testing.T) {
	gw := new(MockGateway)
	ledger := new(MockLedger)
	o, carts := newTestOrchestrator(gw, ledger)
	carts.Get("uid-1").AddItem(headphones)

	gw.On("CreateOrder", mock.Anything, mock.Anything).
		Return(&gateway.Order{ID: "order_1"}, nil)

	attempt, err := o.Begin(context.Background(), "uid-1")
	require.NoError(t, err)

	// Gateway never completes: the attempt rests in awaiting state,
	// the cart is unchanged, and no ledger entry exists.
	state, inFlight := o.StateFor("uid-1")
	assert.True(t, inFlight)
	assert.Equal(t, StateAwaitingGatewayCompletion, state)
	assert.Equal(t, StateAwaitingGatewayCompletion, attempt.State())
	assert.Equal(t, 1, carts.Get("uid-1").Count())
	ledger.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything)

	o.Abandon("uid-1")
	_, inFlight = o.StateFor("uid-1")
	assert.False(t, inFlight)
	assert.Equal(t, 1, carts.Get("uid-1").Count())
}

func TestOrchestrator_AssertionConsumedOnce(t *testing.T) {
	gw := new(MockGateway)
	ledger := new(MockLedger)
	o, carts := newTestOrchestrator(gw, ledger)
	carts.Get("uid-1").AddItem(headphones)

	gw.On("CreateOrder", mock.Anything, mock.Anything).
		Return(&gateway.Order{ID: "order_1"}, nil)
	ledger.On("Append", mock.Anything, "uid-1", mock.Anything).
		Return(&order.OrderRecord{ID: 1}, nil)

	_, err := o.Begin(context.Background(), "uid-1")
	require.NoError(t, err)

	a := assertion("order_1", "pay_1")
	_, err = o.Complete(context.Background(), "uid-1", a)
	require.NoError(t, err)

	_, err = o.Complete(context.Background(), "uid-1", a)
	assert.ErrorIs(t, err, ErrNoActiveCheckout)
	ledger.AssertNumberOfCalls(t, "Append", 1)
}

func TestOrchestrator_TwoSequentialCheckouts(t *testing.T) {
	gw := new(MockGateway)
	ledger := new(MockLedger)
	o, carts := newTestOrchestrator(gw, ledger)

	gw.On("CreateOrder", mock.Anything, int64(2999)).
		Return(&gateway.Order{ID: "order_1"}, nil).Once()
	gw.On("CreateOrder", mock.Anything, int64(4999)).
		Return(&gateway.Order{ID: "order_2"}, nil).Once()
	ledger.On("Append", mock.Anything, "uid-1", mock.Anything).
		Return(&order.OrderRecord{ID: 1}, nil).Once()
	ledger.On("Append", mock.Anything, "uid-1", mock.Anything).
		Return(&order.OrderRecord{ID: 2}, nil).Once()

	carts.Get("uid-1").AddItem(headphones)
	_, err := o.Begin(context.Background(), "uid-1")
	require.NoError(t, err)
	rec1, err := o.Complete(context.Background(), "uid-1", assertion("order_1", "pay_1"))
	require.NoError(t, err)

	carts.Get("uid-1").AddItem(cart.Product{ID: 2, Name: "Smart Watch", Price: 4999})
	_, err = o.Begin(context.Background(), "uid-1")
	require.NoError(t, err)
	rec2, err := o.Complete(context.Background(), "uid-1", assertion("order_2", "pay_2"))
	require.NoError(t, err)

	assert.NotEqual(t, rec1.ID, rec2.ID)
	ledger.AssertExpectations(t)
	gw.AssertExpectations(t)
}

func TestOrchestrator_BeginSupersedesAbandonedAttempt(t *testing.T) {
	gw := new(MockGateway)
	ledger := new(MockLedger)
	o, carts := newTestOrchestrator(gw, ledger)
	carts.Get("uid-1").AddItem(headphones)

	gw.On("CreateOrder", mock.Anything, mock.Anything).
		Return(&gateway.Order{ID: "order_1"}, nil).Once()
	gw.On("CreateOrder", mock.Anything, mock.Anything).
		Return(&gateway.Order{ID: "order_2"}, nil).Once()
	ledger.On("Append", mock.Anything, "uid-1", mock.MatchedBy(func(p order.NewOrderParams) bool {
		return p.GatewayOrderID == "order_2"
	})).Return(&order.OrderRecord{ID: 1}, nil)

	_, err := o.Begin(context.Background(), "uid-1")
	require.NoError(t, err)

	// User walked away from the first gateway UI and clicked checkout again
	_, err = o.Begin(context.Background(), "uid-1")
	require.NoError(t, err)

	_, err = o.Complete(context.Background(), "uid-1", assertion("order_2", "pay_2"))
	require.NoError(t, err)
	ledger.AssertExpectations(t)
}
