package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"calmtable/internal/pkg/config"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(serverURL string) *StripeGateway {
	g := NewStripeGateway(config.StripeConfig{SecretKey: "sk_test_key", Currency: "usd"})
	g.endpoint = serverURL
	g.client = &http.Client{Timeout: time.Second}
	return g
}

func TestStripeGateway_CreateIntent(t *testing.T) {
	t.Run("returns the client secret, not the intent id", func(t *testing.T) {
		var gotForm map[string]string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			gotForm = map[string]string{
				"amount":   r.PostForm.Get("amount"),
				"currency": r.PostForm.Get("currency"),
			}
			w.Write([]byte(`{"id":"pi_123","client_secret":"pi_123_secret_abc"}`))
		}))
		defer srv.Close()

		g := newTestGateway(srv.URL)
		secret, err := g.CreateIntent(context.Background(), decimal.RequireFromString("37.00"), "CT-ABCD1234")
		require.NoError(t, err)

		assert.Equal(t, "pi_123_secret_abc", secret)
		assert.Equal(t, "3700", gotForm["amount"])
		assert.Equal(t, "usd", gotForm["currency"])
	})

	t.Run("non-2xx response is a payment failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
		}))
		defer srv.Close()

		g := newTestGateway(srv.URL)
		_, err := g.CreateIntent(context.Background(), decimal.RequireFromString("5.00"), "CT-ABCD1234")
		assert.ErrorIs(t, err, ErrPaymentFailure)
	})
}

func TestDisabledGateway(t *testing.T) {
	ref, err := DisabledGateway{}.CreateIntent(context.Background(), decimal.RequireFromString("5.00"), "CT-ABCD1234")
	require.NoError(t, err)
	assert.Empty(t, ref)
}
