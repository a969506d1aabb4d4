package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"mystore-be/internal/logger"
	"mystore-be/internal/utils"

	"go.uber.org/zap"
)

const razorpayBaseURL = "https://api.razorpay.com"

type razorpayGateway struct {
	keyID      string
	keySecret  string
	httpClient *http.Client
}

// NewRazorpayGateway builds the Razorpay client. Empty credentials are
// tolerated here; CreateOrder fails closed before any network call.
func NewRazorpayGateway(keyID, keySecret string) Gateway {
	if keyID == "" || keySecret == "" {
		logger.L().Warn("Razorpay credentials are not fully configured")
	}

	return &razorpayGateway{
		keyID:     keyID,
		keySecret: keySecret,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (g *razorpayGateway) KeyID() string {
	return g.keyID
}

func (g *razorpayGateway) CreateOrder(ctx context.Context, amount int64) (*Order, error) {
	if g.keyID == "" || g.keySecret == "" {
		return nil, ErrMissingCredentials
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	receipt := utils.GenerateReceiptID()

	log := logger.FromCtx(ctx).With(
		zap.Int64("amount", amount),
		zap.String("receipt", receipt),
	)

	// Razorpay expects the amount in paise; the conversion is exact
	// integer arithmetic, never floating point.
	body := razorpayOrderRequest{
		Amount:   amount * 100,
		Currency: Currency,
		Receipt:  receipt,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		log.Error("Failed to marshal order request", zap.Error(err))
		return nil, &TransportError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", razorpayBaseURL+"/v1/orders", bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Error("Failed creating request", zap.Error(err))
		return nil, &TransportError{Err: err}
	}

	req.SetBasicAuth(g.keyID, g.keySecret)
	req.Header.Add("Content-Type", "application/json")

	log.Info("Creating Razorpay order")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("Razorpay request failed", zap.Error(err))
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		reason := "failed to create order"
		var errRes razorpayErrorResponse
		if err := json.Unmarshal(bodyBytes, &errRes); err == nil && errRes.Error.Description != "" {
			reason = errRes.Error.Description
		}
		log.Error("Razorpay returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, &RejectedError{Status: resp.StatusCode, Reason: reason}
	}

	var order Order
	if err := json.Unmarshal(bodyBytes, &order); err != nil {
		log.Error("Failed decoding Razorpay response", zap.Error(err))
		return nil, &TransportError{Err: err}
	}

	log.Info("Razorpay order created",
		zap.String("order_id", order.ID),
		zap.Int64("amount_paise", order.Amount),
	)

	return &order, nil
}
