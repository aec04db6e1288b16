// Package freedompay is the card payment gateway client. Requests are
// form-encoded POSTs of pg_* parameters signed with the merchant secret;
// responses are XML documents.
package freedompay

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/settings"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	scriptInit   = "init_payment.php"
	scriptStatus = "get_status2.php"
	scriptCancel = "cancel.php"

	statusOK = "ok"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
)

var errNotConfigured = errors.New("payment settings are not configured")

// response carries the fields of every gateway answer this client reads.
type response struct {
	XMLName          xml.Name `xml:"response"`
	Status           string   `xml:"pg_status"`
	PaymentID        string   `xml:"pg_payment_id"`
	RedirectURL      string   `xml:"pg_redirect_url"`
	PaymentStatus    string   `xml:"pg_payment_status"`
	ErrorCode        string   `xml:"pg_error_code"`
	ErrorDescription string   `xml:"pg_error_description"`
}

// Client implements ports.PaymentGateway. Merchant credentials come with every
// call, so a settings reload applies to the next request.
type Client struct {
	http   *http.Client
	salt   func() string
	logger *slog.Logger
}

// NewClient uses a client with a 10 second timeout when httpClient is nil.
func NewClient(httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		http:   httpClient,
		salt:   uuid.NewString,
		logger: logger.With("component", "freedompay"),
	}
}

func (c *Client) Initiate(ctx context.Context, cfg settings.Payment, req ports.PaymentRequest) (string, error) {
	params := []Param{
		{Key: "pg_amount", Value: req.Amount.StringFixed(2)},
		{Key: "pg_currency", Value: cfg.Currency},
		{Key: "pg_description", Value: req.Description},
		{Key: "pg_merchant_id", Value: cfg.MerchantID},
		{Key: "pg_order_id", Value: req.OrderID.String()},
		{Key: "pg_result_url", Value: cfg.ResultURL},
		{Key: "pg_salt", Value: c.salt()},
		{Key: "pg_success_url", Value: cfg.SuccessURL},
		{Key: "pg_user_id", Value: req.CustomerID.String()},
	}

	resp, err := c.call(ctx, cfg, scriptInit, params)
	if err != nil {
		return "", errs.NewPaymentProviderError("initiate", err)
	}
	if resp.RedirectURL == "" {
		return "", errs.NewPaymentProviderError("initiate", errors.New("response has no redirect url"))
	}

	c.logger.InfoContext(ctx, "payment initiated",
		"order_id", req.OrderID.String(),
		"payment_id", resp.PaymentID)
	return resp.RedirectURL, nil
}

// Status maps the gateway payment status onto success, error or pending.
// Unrecognised statuses are treated as pending.
func (c *Client) Status(ctx context.Context, cfg settings.Payment, orderID kernel.UUID) (ports.PaymentState, error) {
	params := []Param{
		{Key: "pg_merchant_id", Value: cfg.MerchantID},
		{Key: "pg_order_id", Value: orderID.String()},
		{Key: "pg_salt", Value: c.salt()},
	}

	resp, err := c.call(ctx, cfg, scriptStatus, params)
	if err != nil {
		return ports.PaymentStatePending, errs.NewPaymentProviderError("status", err)
	}

	switch strings.ToLower(resp.PaymentStatus) {
	case "success":
		return ports.PaymentStateSuccess, nil
	case "error", "failed", "revoked", "incomplete":
		return ports.PaymentStateError, nil
	default:
		return ports.PaymentStatePending, nil
	}
}

func (c *Client) Cancel(ctx context.Context, cfg settings.Payment, orderID kernel.UUID) error {
	params := []Param{
		{Key: "pg_merchant_id", Value: cfg.MerchantID},
		{Key: "pg_order_id", Value: orderID.String()},
		{Key: "pg_salt", Value: c.salt()},
	}

	if _, err := c.call(ctx, cfg, scriptCancel, params); err != nil {
		return errs.NewPaymentProviderError("cancel", err)
	}
	return nil
}

func (c *Client) call(ctx context.Context, cfg settings.Payment, script string, params []Param) (*response, error) {
	if !cfg.Configured() {
		return nil, errNotConfigured
	}

	form := url.Values{}
	for _, p := range params {
		form.Set(p.Key, p.Value)
	}
	form.Set("pg_sig", Sign(script, params, cfg.Secret))

	endpoint := strings.TrimRight(cfg.BaseURL, "/") + "/" + script
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected http status %d", script, httpResp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}

	var resp response
	if err = xml.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", script, err)
	}
	if resp.Status != statusOK {
		return nil, fmt.Errorf("%s: %s %s", script, resp.ErrorCode, resp.ErrorDescription)
	}
	return &resp, nil
}
