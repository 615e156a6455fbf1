// Package gateway is the HTTP adapter for the external payment processor.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"drivehub-booking/internal/application"
	"drivehub-booking/internal/config"
)

var _ application.PaymentGateway = (*HTTPGateway)(nil)

type HTTPGateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPGateway(cfg config.GatewayConfig) *HTTPGateway {
	return &HTTPGateway{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.ConnTimeout,
		},
	}
}

type authorizationRequest struct {
	CustomerID  string `json:"customer_id"`
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
}

type authorizationResponse struct {
	AuthorizationID string `json:"authorization_id"`
	CustomerID      string `json:"customer_id"`
	AmountMinor     int64  `json:"amount_minor"`
	Currency        string `json:"currency"`
	Status          string `json:"status"`
}

func (c *HTTPGateway) Authorize(ctx context.Context, req application.AuthorizeRequest) (*application.AuthorizationResult, error) {
	url := fmt.Sprintf("%s/api/v1/authorizations", c.baseURL)
	body := authorizationRequest{
		CustomerID:  req.CustomerRef,
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
	}
	resp, err := sendRequest[authorizationRequest, authorizationResponse](c, ctx, http.MethodPost, url, &body, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	return &application.AuthorizationResult{
		AuthorizationRef: resp.AuthorizationID,
		CustomerRef:      resp.CustomerID,
		AmountMinor:      resp.AmountMinor,
		Currency:         resp.Currency,
	}, nil
}

type captureRequest struct {
	AuthorizationID string `json:"authorization_id"`
	AmountMinor     int64  `json:"amount_minor"`
}

type captureResponse struct {
	CaptureID   string `json:"capture_id"`
	AmountMinor int64  `json:"amount_minor"`
	Status      string `json:"status"`
}

func (c *HTTPGateway) Capture(ctx context.Context, req application.CaptureRequest) (*application.CaptureResult, error) {
	url := fmt.Sprintf("%s/api/v1/captures", c.baseURL)
	body := captureRequest{
		AuthorizationID: req.AuthorizationRef,
		AmountMinor:     req.AmountMinor,
	}
	resp, err := sendRequest[captureRequest, captureResponse](c, ctx, http.MethodPost, url, &body, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	return &application.CaptureResult{
		CaptureRef:  resp.CaptureID,
		AmountMinor: resp.AmountMinor,
	}, nil
}

type voidRequest struct {
	AuthorizationID string `json:"authorization_id"`
	Reason          string `json:"reason,omitempty"`
}

type voidResponse struct {
	VoidID string `json:"void_id"`
	Status string `json:"status"`
}

func (c *HTTPGateway) CancelAuthorization(ctx context.Context, req application.CancelAuthorizationRequest) (*application.ReleaseResult, error) {
	url := fmt.Sprintf("%s/api/v1/voids", c.baseURL)
	body := voidRequest{
		AuthorizationID: req.AuthorizationRef,
		Reason:          req.Reason,
	}
	resp, err := sendRequest[voidRequest, voidResponse](c, ctx, http.MethodPost, url, &body, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	return &application.ReleaseResult{ReleaseRef: resp.VoidID}, nil
}

type refundRequest struct {
	AuthorizationID string `json:"authorization_id"`
	AmountMinor     *int64 `json:"amount_minor,omitempty"`
	Reason          string `json:"reason,omitempty"`
}

type refundResponse struct {
	RefundID    string `json:"refund_id"`
	AmountMinor int64  `json:"amount_minor"`
	Status      string `json:"status"`
}

// Refund issues a full refund when the request amount is zero, else partial.
// A "pending" status in the response is a valid terminal outcome of this
// call; settlement is resolved later by polling GetRefund.
func (c *HTTPGateway) Refund(ctx context.Context, req application.RefundRequest) (*application.RefundResult, error) {
	url := fmt.Sprintf("%s/api/v1/refunds", c.baseURL)
	body := refundRequest{
		AuthorizationID: req.AuthorizationRef,
		Reason:          req.Reason,
	}
	if req.AmountMinor > 0 {
		body.AmountMinor = &req.AmountMinor
	}
	resp, err := sendRequest[refundRequest, refundResponse](c, ctx, http.MethodPost, url, &body, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	return &application.RefundResult{
		RefundRef:   resp.RefundID,
		Status:      refundState(resp.Status),
		AmountMinor: resp.AmountMinor,
	}, nil
}

type paymentMethod struct {
	PaymentMethodID string `json:"payment_method_id"`
}

type paymentMethodList struct {
	Data []paymentMethod `json:"data"`
}

type chargeRequest struct {
	CustomerID      string            `json:"customer_id"`
	PaymentMethodID string            `json:"payment_method_id"`
	AmountMinor     int64             `json:"amount_minor"`
	Currency        string            `json:"currency"`
	OffSession      bool              `json:"off_session"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

type chargeResponse struct {
	ChargeID    string `json:"charge_id"`
	AmountMinor int64  `json:"amount_minor"`
	Status      string `json:"status"`
}

// ChargeOffSession charges a previously saved payment method without the
// customer present. When no payment method is given it resolves the customer
// from the original authorization and takes the first saved method in
// listing order; no saved method is a no_saved_payment_method failure.
func (c *HTTPGateway) ChargeOffSession(ctx context.Context, req application.OffSessionChargeRequest) (*application.ChargeResult, error) {
	auth, err := c.GetAuthorization(ctx, req.AuthorizationRef)
	if err != nil {
		return nil, err
	}

	methodRef := req.PaymentMethodRef
	if methodRef == "" {
		listURL := fmt.Sprintf("%s/api/v1/customers/%s/payment-methods", c.baseURL, auth.CustomerRef)
		methods, err := sendRequest[any, paymentMethodList](c, ctx, http.MethodGet, listURL, nil, "")
		if err != nil {
			return nil, err
		}
		if len(methods.Data) == 0 {
			return nil, &application.GatewayError{
				Code:       "no_saved_payment_method",
				Message:    fmt.Sprintf("customer %s has no saved payment method", auth.CustomerRef),
				StatusCode: http.StatusUnprocessableEntity,
			}
		}
		methodRef = methods.Data[0].PaymentMethodID
	}

	url := fmt.Sprintf("%s/api/v1/charges", c.baseURL)
	body := chargeRequest{
		CustomerID:      auth.CustomerRef,
		PaymentMethodID: methodRef,
		AmountMinor:     req.AmountMinor,
		Currency:        req.Currency,
		OffSession:      true,
		Metadata:        req.Metadata,
	}
	resp, err := sendRequest[chargeRequest, chargeResponse](c, ctx, http.MethodPost, url, &body, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	return &application.ChargeResult{
		ChargeRef:   resp.ChargeID,
		AmountMinor: resp.AmountMinor,
	}, nil
}

func (c *HTTPGateway) GetAuthorization(ctx context.Context, authorizationRef string) (*application.AuthorizationResult, error) {
	url := fmt.Sprintf("%s/api/v1/authorizations/%s", c.baseURL, authorizationRef)
	resp, err := sendRequest[any, authorizationResponse](c, ctx, http.MethodGet, url, nil, "")
	if err != nil {
		return nil, err
	}
	return &application.AuthorizationResult{
		AuthorizationRef: resp.AuthorizationID,
		CustomerRef:      resp.CustomerID,
		AmountMinor:      resp.AmountMinor,
		Currency:         resp.Currency,
	}, nil
}

func (c *HTTPGateway) GetRefund(ctx context.Context, refundRef string) (*application.RefundResult, error) {
	url := fmt.Sprintf("%s/api/v1/refunds/%s", c.baseURL, refundRef)
	resp, err := sendRequest[any, refundResponse](c, ctx, http.MethodGet, url, nil, "")
	if err != nil {
		return nil, err
	}
	return &application.RefundResult{
		RefundRef:   resp.RefundID,
		Status:      refundState(resp.Status),
		AmountMinor: resp.AmountMinor,
	}, nil
}

type operationResponse struct {
	Kind        string `json:"kind"`
	Status      string `json:"status"`
	Reference   string `json:"reference"`
	AmountMinor int64  `json:"amount_minor"`
}

// LookupOperation asks the processor what a prior attempt with this
// idempotency key did. Not-found means the attempt never arrived and a
// retry is safe.
func (c *HTTPGateway) LookupOperation(ctx context.Context, idempotencyKey string) (*application.OperationResult, error) {
	url := fmt.Sprintf("%s/api/v1/operations/%s", c.baseURL, idempotencyKey)
	resp, err := sendRequest[any, operationResponse](c, ctx, http.MethodGet, url, nil, "")
	if err != nil {
		if gwErr, ok := application.IsGatewayError(err); ok && gwErr.StatusCode == http.StatusNotFound {
			return &application.OperationResult{Found: false}, nil
		}
		return nil, err
	}
	return &application.OperationResult{
		Found:       true,
		Kind:        resp.Kind,
		Status:      resp.Status,
		Reference:   resp.Reference,
		AmountMinor: resp.AmountMinor,
	}, nil
}

func refundState(status string) application.RefundState {
	if status == "pending" {
		return application.RefundStatePending
	}
	return application.RefundStateSucceeded
}

type errorResponse struct {
	Err     string `json:"error"`
	Message string `json:"message"`
}

func sendRequest[Req any, Resp any](c *HTTPGateway, ctx context.Context, method, url string, reqBody *Req, idempotencyKey string) (*Resp, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if idempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("processor returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, &application.GatewayError{
			Code:       errResp.Err,
			Message:    errResp.Message,
			StatusCode: resp.StatusCode,
		}
	}

	var decoded Resp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	return &decoded, nil
}
