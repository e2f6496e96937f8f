package gateway_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/checkoutkit/pkg/gateway"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *gateway.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := gateway.New(gateway.Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	})
	require.NoError(t, err)
	return client
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := gateway.New(gateway.Config{APIKey: "k"})
	require.ErrorIs(t, err, gateway.ErrMissingBaseURL)

	_, err = gateway.New(gateway.Config{BaseURL: "https://pay.example.com"})
	require.ErrorIs(t, err, gateway.ErrMissingAPIKey)

	_, err = gateway.New(gateway.Config{BaseURL: "ftp://pay.example.com", APIKey: "k"})
	require.Error(t, err)
}

func TestClient_CreateIntent(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/payment-intents", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var req gateway.CreateIntentRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "pro", req.PlanID)
			assert.NotEmpty(t, req.IdempotencyKey)

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(gateway.CreateIntentResponse{
				IntentID:        "pi_123",
				ClientSecret:    "pi_123_secret",
				RequestedAmount: 900,
				FinalAmount:     450,
			})
		})

		resp, err := client.CreateIntent(context.Background(), gateway.CreateIntentRequest{
			PlanID:         "pro",
			BillingCycle:   "monthly",
			PromotionCode:  "HALFOFF",
			IdempotencyKey: "idem-1",
		})
		require.NoError(t, err)
		assert.Equal(t, "pi_123", resp.IntentID)
		assert.Equal(t, int64(450), resp.FinalAmount)
	})

	t.Run("promotion code rejection is validation class", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"kind":    "invalid_promotion_code",
				"message": "code expired",
			})
		})

		_, err := client.CreateIntent(context.Background(), gateway.CreateIntentRequest{PlanID: "pro"})
		require.Error(t, err)
		assert.False(t, gateway.IsRetryable(err))
		assert.True(t, gateway.IsPromotionCodeRejected(err))
		assert.False(t, gateway.IsPlanRejected(err))

		var ge *gateway.Error
		require.ErrorAs(t, err, &ge)
		assert.Equal(t, gateway.ClassValidation, ge.Class)
		assert.Equal(t, "code expired", ge.Message)
	})

	t.Run("rate limit class", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := client.CreateIntent(context.Background(), gateway.CreateIntentRequest{PlanID: "pro"})
		require.Error(t, err)
		assert.True(t, gateway.IsRateLimited(err))
		assert.False(t, gateway.IsRetryable(err))
	})

	t.Run("server errors are not retryable", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.CreateIntent(context.Background(), gateway.CreateIntentRequest{PlanID: "pro"})
		require.Error(t, err)
		assert.False(t, gateway.IsRetryable(err))

		var ge *gateway.Error
		require.ErrorAs(t, err, &ge)
		assert.Equal(t, gateway.ClassServer, ge.Class)
	})

	t.Run("transport failure is network class", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close() // connection refused from here on

		client, err := gateway.New(gateway.Config{BaseURL: srv.URL, APIKey: "k"})
		require.NoError(t, err)

		_, err = client.CreateIntent(context.Background(), gateway.CreateIntentRequest{PlanID: "pro"})
		require.Error(t, err)
		assert.True(t, gateway.IsRetryable(err))
	})

	t.Run("context cancellation is network class", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			// Drain the body so the server notices the client abort.
			_, _ = io.Copy(io.Discard, r.Body)
			<-r.Context().Done()
		})

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		_, err := client.CreateIntent(ctx, gateway.CreateIntentRequest{PlanID: "pro"})
		require.Error(t, err)
		assert.True(t, gateway.IsRetryable(err))
	})
}

func TestClient_ValidateCoupon(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/promotion-codes/validate", r.URL.Path)

		var req gateway.ValidateCouponRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "HALFOFF", req.PromotionCode)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(gateway.ValidateCouponResponse{
			Valid:   true,
			Message: "50% off",
			Promotion: &gateway.Promotion{
				DiscountType:   gateway.DiscountPercentage,
				DiscountAmount: 50,
			},
		})
	})

	resp, err := client.ValidateCoupon(context.Background(), gateway.ValidateCouponRequest{PromotionCode: "HALFOFF"})
	require.NoError(t, err)
	assert.True(t, resp.Valid)
	require.NotNil(t, resp.Promotion)
	assert.Equal(t, gateway.DiscountPercentage, resp.Promotion.DiscountType)
	assert.Equal(t, int64(50), resp.Promotion.DiscountAmount)
}

func TestClient_GetIntentStatus(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/v1/payment-intents/pi_123", r.URL.Path)

			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(gateway.IntentStatusResponse{
				Status:         gateway.IntentStatusSucceeded,
				AmountCaptured: 450,
				PaymentMethod:  "visa **** 4242",
				Metadata:       map[string]string{"promotion_code": "HALFOFF"},
			})
		})

		resp, err := client.GetIntentStatus(context.Background(), "pi_123")
		require.NoError(t, err)
		assert.Equal(t, gateway.IntentStatusSucceeded, resp.Status)
		assert.Equal(t, int64(450), resp.AmountCaptured)
		assert.Equal(t, "HALFOFF", resp.Metadata["promotion_code"])
	})

	t.Run("empty intent id", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		_, err := client.GetIntentStatus(context.Background(), "")
		require.ErrorIs(t, err, gateway.ErrIntentNotFound)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		})

		_, err := client.GetIntentStatus(context.Background(), "pi_123")
		require.ErrorIs(t, err, gateway.ErrMalformedReply)
	})
}
