package freedompay_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"fulfillment/internal/adapters/out/freedompay"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/settings"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "merchant-secret"

// gateway answers with body after checking the request signature.
func gateway(t *testing.T, script string, keys []string, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/"+script, r.URL.Path)
		assert.NoError(t, r.ParseForm())

		params := make([]freedompay.Param, 0, len(keys))
		for _, k := range keys {
			params = append(params, freedompay.Param{Key: k, Value: r.PostForm.Get(k)})
		}
		assert.Equal(t, freedompay.Sign(script, params, secret), r.PostForm.Get("pg_sig"))
		assert.NotEmpty(t, r.PostForm.Get("pg_salt"))

		w.Header().Set("Content-Type", "text/xml")
		_, _ = io.WriteString(w, body)
	}))
}

func config(url string) settings.Payment {
	return settings.Payment{BaseURL: url, MerchantID: "552", Secret: secret, Currency: "KZT"}
}

func newClient() *freedompay.Client {
	return freedompay.NewClient(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var statusKeys = []string{"pg_merchant_id", "pg_order_id", "pg_salt"}

func TestClient_Initiate(t *testing.T) {
	keys := []string{
		"pg_amount", "pg_currency", "pg_description", "pg_merchant_id", "pg_order_id",
		"pg_result_url", "pg_salt", "pg_success_url", "pg_user_id",
	}
	orderID := kernel.NewUUID()

	t.Run("returns the redirect url", func(t *testing.T) {
		server := gateway(t, "init_payment.php", keys, `<?xml version="1.0" encoding="utf-8"?>
<response><pg_status>ok</pg_status><pg_payment_id>4567</pg_payment_id>
<pg_redirect_url>https://pay.example/card?id=4567</pg_redirect_url></response>`)
		defer server.Close()

		url, err := newClient().Initiate(context.Background(), config(server.URL), ports.PaymentRequest{
			OrderID:     orderID,
			CustomerID:  kernel.NewUUID(),
			Amount:      decimal.RequireFromString("193.5"),
			Description: "Order " + orderID.String(),
		})

		require.NoError(t, err)
		assert.Equal(t, "https://pay.example/card?id=4567", url)
	})

	t.Run("gateway error", func(t *testing.T) {
		server := gateway(t, "init_payment.php", keys, `<response><pg_status>error</pg_status>
<pg_error_code>101</pg_error_code><pg_error_description>bad merchant</pg_error_description></response>`)
		defer server.Close()

		_, err := newClient().Initiate(context.Background(), config(server.URL), ports.PaymentRequest{
			OrderID: orderID, CustomerID: kernel.NewUUID(), Amount: decimal.NewFromInt(10),
		})

		require.ErrorIs(t, err, errs.ErrPaymentProvider)
		assert.Contains(t, err.Error(), "bad merchant")
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := newClient().Initiate(context.Background(), settings.Payment{}, ports.PaymentRequest{OrderID: orderID})

		require.ErrorIs(t, err, errs.ErrPaymentProvider)
	})
}

func TestClient_Status(t *testing.T) {
	tests := []struct {
		status string
		want   ports.PaymentState
	}{
		{status: "success", want: ports.PaymentStateSuccess},
		{status: "error", want: ports.PaymentStateError},
		{status: "revoked", want: ports.PaymentStateError},
		{status: "pending", want: ports.PaymentStatePending},
		{status: "process", want: ports.PaymentStatePending},
	}

	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			server := gateway(t, "get_status2.php", statusKeys,
				"<response><pg_status>ok</pg_status><pg_payment_status>"+tc.status+"</pg_payment_status></response>")
			defer server.Close()

			state, err := newClient().Status(context.Background(), config(server.URL), kernel.NewUUID())

			require.NoError(t, err)
			assert.Equal(t, tc.want, state)
		})
	}

	t.Run("http failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		state, err := newClient().Status(context.Background(), config(server.URL), kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrPaymentProvider)
		assert.Equal(t, ports.PaymentStatePending, state)
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "{not xml")
		}))
		defer server.Close()

		_, err := newClient().Status(context.Background(), config(server.URL), kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrPaymentProvider)
	})
}

func TestClient_Cancel(t *testing.T) {
	server := gateway(t, "cancel.php", statusKeys, "<response><pg_status>ok</pg_status></response>")
	defer server.Close()

	require.NoError(t, newClient().Cancel(context.Background(), config(server.URL), kernel.NewUUID()))
}
