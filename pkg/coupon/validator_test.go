package coupon_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/checkoutkit/pkg/catalog"
	"github.com/dmitrymomot/checkoutkit/pkg/coupon"
	"github.com/dmitrymomot/checkoutkit/pkg/gateway"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) ValidateCoupon(ctx context.Context, req gateway.ValidateCouponRequest) (*gateway.ValidateCouponResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.ValidateCouponResponse), args.Error(1)
}

func paidPlan() catalog.Plan {
	return catalog.Plan{
		ID:           "pro",
		Name:         "Pro",
		PriceMonthly: catalog.Money{Amount: 900, Currency: "USD"},
		PriceYearly:  catalog.Money{Amount: 9000, Currency: "USD"},
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "HALFOFF", coupon.Normalize("  halfoff "))
	assert.Equal(t, "FREEYEAR", coupon.Normalize("FreeYear"))
	assert.Equal(t, "", coupon.Normalize("   "))
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	t.Run("empty code", func(t *testing.T) {
		t.Parallel()

		gw := new(mockGateway)
		v := coupon.NewValidator(gw, nil)

		_, err := v.Validate(context.Background(), "   ", paidPlan(), catalog.CycleMonthly)
		require.ErrorIs(t, err, coupon.ErrEmptyCode)
		gw.AssertNotCalled(t, "ValidateCoupon")
	})

	t.Run("free plan rejected", func(t *testing.T) {
		t.Parallel()

		gw := new(mockGateway)
		v := coupon.NewValidator(gw, nil)

		_, err := v.Validate(context.Background(), "HALFOFF", catalog.Plan{ID: "free"}, catalog.CycleMonthly)
		require.ErrorIs(t, err, coupon.ErrNoPlanSelected)
		gw.AssertNotCalled(t, "ValidateCoupon")
	})

	t.Run("normalizes before sending", func(t *testing.T) {
		t.Parallel()

		gw := new(mockGateway)
		gw.On("ValidateCoupon", mock.Anything, gateway.ValidateCouponRequest{PromotionCode: "HALFOFF"}).
			Return(&gateway.ValidateCouponResponse{
				Valid:     true,
				Message:   "50% off",
				Promotion: &gateway.Promotion{DiscountType: gateway.DiscountPercentage, DiscountAmount: 50},
			}, nil)

		v := coupon.NewValidator(gw, nil)
		attempt, err := v.Validate(context.Background(), "  halfoff ", paidPlan(), catalog.CycleMonthly)
		require.NoError(t, err)

		assert.Equal(t, coupon.StatusValid, attempt.Status)
		assert.Equal(t, "HALFOFF", attempt.Code)
		assert.Equal(t, gateway.DiscountPercentage, attempt.DiscountType)
		assert.Equal(t, int64(50), attempt.DiscountValue)
		assert.False(t, attempt.IsFullDiscount())
		gw.AssertExpectations(t)
	})

	t.Run("full discount gets distinguished message", func(t *testing.T) {
		t.Parallel()

		gw := new(mockGateway)
		gw.On("ValidateCoupon", mock.Anything, mock.Anything).
			Return(&gateway.ValidateCouponResponse{
				Valid:     true,
				Promotion: &gateway.Promotion{DiscountType: gateway.DiscountPercentage, DiscountAmount: 100},
			}, nil)

		v := coupon.NewValidator(gw, nil)
		attempt, err := v.Validate(context.Background(), "FREEYEAR", paidPlan(), catalog.CycleYearly)
		require.NoError(t, err)

		assert.True(t, attempt.IsFullDiscount())
		assert.Equal(t, coupon.FullDiscountMessage, attempt.Message)
	})

	t.Run("gateway-reported invalid code is terminal, not an error", func(t *testing.T) {
		t.Parallel()

		gw := new(mockGateway)
		gw.On("ValidateCoupon", mock.Anything, mock.Anything).
			Return(&gateway.ValidateCouponResponse{Valid: false, Message: "code expired"}, nil)

		v := coupon.NewValidator(gw, nil)
		attempt, err := v.Validate(context.Background(), "OLDCODE", paidPlan(), catalog.CycleMonthly)
		require.NoError(t, err)

		assert.Equal(t, coupon.StatusInvalid, attempt.Status)
		assert.Equal(t, "code expired", attempt.Message)
	})

	t.Run("validation-class gateway error is terminal", func(t *testing.T) {
		t.Parallel()

		gw := new(mockGateway)
		gw.On("ValidateCoupon", mock.Anything, mock.Anything).
			Return(nil, &gateway.Error{
				Class:   gateway.ClassValidation,
				Kind:    gateway.KindInvalidPromotionCode,
				Message: "unknown code",
			})

		v := coupon.NewValidator(gw, nil)
		attempt, err := v.Validate(context.Background(), "NOPE", paidPlan(), catalog.CycleMonthly)
		require.NoError(t, err)

		assert.Equal(t, coupon.StatusInvalid, attempt.Status)
		assert.Equal(t, "unknown code", attempt.Message)
	})

	t.Run("network failure surfaces retryable error", func(t *testing.T) {
		t.Parallel()

		gw := new(mockGateway)
		gw.On("ValidateCoupon", mock.Anything, mock.Anything).
			Return(nil, &gateway.Error{Class: gateway.ClassNetwork, Message: "request failed"})

		v := coupon.NewValidator(gw, nil)
		attempt, err := v.Validate(context.Background(), "HALFOFF", paidPlan(), catalog.CycleMonthly)
		require.ErrorIs(t, err, coupon.ErrValidationUnavailable)

		// The attempt is left in-flight, not invalid: the user may try again.
		assert.Equal(t, coupon.StatusValidating, attempt.Status)
		gw.AssertNumberOfCalls(t, "ValidateCoupon", 1)
	})

	t.Run("valid response without promotion payload is invalid", func(t *testing.T) {
		t.Parallel()

		gw := new(mockGateway)
		gw.On("ValidateCoupon", mock.Anything, mock.Anything).
			Return(&gateway.ValidateCouponResponse{Valid: true}, nil)

		v := coupon.NewValidator(gw, nil)
		attempt, err := v.Validate(context.Background(), "WEIRD", paidPlan(), catalog.CycleMonthly)
		require.NoError(t, err)
		assert.Equal(t, coupon.StatusInvalid, attempt.Status)
	})
}
