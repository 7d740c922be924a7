// Copyright (c) 2026 Wander. All rights reserved.
// Author: platform@wander.app

// Package payment talks to the hosted checkout provider.
//
// The provider exposes a form-encoded REST API: we create a checkout session
// server-side and hand its URL back to the client, which redirects the
// customer to the provider's hosted payment page. Card data never touches
// this application.
package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wanderhq/wander/internal/platform/apperr"
)

const (
	// requestTimeout bounds a single round trip to the provider.
	requestTimeout = 10 * time.Second
	// maxResponseBytes caps how much of the provider's response we read.
	maxResponseBytes = 1 << 20
)

// CheckoutSession is the provider-side session handed back to the client.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutParams describes the single-item purchase being checked out.
type CheckoutParams struct {
	// ClientReferenceID carries the tour ID so the success webhook can
	// reconcile the booking.
	ClientReferenceID string
	// CustomerEmail pre-fills the provider's payment page.
	CustomerEmail string
	// SuccessURL and CancelURL are the redirect targets after payment.
	SuccessURL string
	CancelURL  string
	// ProductName and ProductDescription label the line item.
	ProductName        string
	ProductDescription string
	// ImageURL is an absolute URL to the product image, optional.
	ImageURL string
	// AmountCents is the unit price in the smallest currency unit.
	AmountCents int64
	// Currency is a lowercase ISO currency code, e.g. "usd".
	Currency string
}

// Client creates checkout sessions against the provider's API.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient builds a payment client for the given API base URL and secret key.
func NewClient(baseURL string, secretKey string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// CreateCheckoutSession opens a payment session for a single line item.
//
// Provider failures surface as operational gateway errors: the customer can
// retry, and nothing about our own state is corrupted.
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)
	form.Set("customer_email", params.CustomerEmail)
	form.Set("client_reference_id", params.ClientReferenceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.AmountCents, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.ProductName)
	form.Set("line_items[0][price_data][product_data][description]", params.ProductDescription)
	if params.ImageURL != "" {
		form.Set("line_items[0][price_data][product_data][images][0]", params.ImageURL)
	}

	endpoint := c.baseURL + "/checkout/sessions"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperr.PaymentGateway("Could not reach the payment provider", fmt.Errorf("payment: build request: %w", err))
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("Authorization", "Bearer "+c.secretKey)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, apperr.PaymentGateway("Could not reach the payment provider", fmt.Errorf("payment: request failed: %w", err))
	}
	defer func() { _ = response.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
	if err != nil {
		return nil, apperr.PaymentGateway("Could not read the payment provider response", fmt.Errorf("payment: read response: %w", err))
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, apperr.PaymentGateway("The payment provider rejected the checkout request", fmt.Errorf("payment: provider returned %d: %s",
			response.StatusCode, summarizeProviderError(body)))
	}

	var session CheckoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, apperr.PaymentGateway("Could not read the payment provider response", fmt.Errorf("payment: decode response: %w", err))
	}
	if session.ID == "" || session.URL == "" {
		return nil, apperr.PaymentGateway("The payment provider returned an incomplete session", fmt.Errorf("payment: provider response missing session id or url"))
	}

	return &session, nil
}

// summarizeProviderError extracts the provider's error message, falling back
// to a truncated raw body.
func summarizeProviderError(body []byte) string {
	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}

	const maxLen = 200
	text := string(body)
	if len(text) > maxLen {
		text = text[:maxLen]
	}
	return text
}
