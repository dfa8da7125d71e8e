// Package billingprovider is a thin HTTP client for the external
// billing API. It creates and cancels provider-side subscriptions; the
// provider remains the source of truth for status and billing periods,
// which flow back in through webhooks.
package billingprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// Client calls the billing provider's REST API.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// NewClient creates a billing API client.
func NewClient(apiURL, apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	url := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// CreateSubscription starts a provider-side subscription for a customer
// and returns the provider's view of it.
func (c *Client) CreateSubscription(ctx context.Context, reqParams CreateSubscriptionRequest) (*SubscriptionResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/subscriptions", reqParams)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("unexpected status: " + resp.Status)
	}

	var subResp SubscriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&subResp); err != nil {
		return nil, err
	}
	return &subResp, nil
}

// CancelSubscription cancels a provider-side subscription by its id.
func (c *Client) CancelSubscription(ctx context.Context, externalID string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/subscriptions/"+externalID, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return errors.New("unexpected status: " + resp.Status)
	}
	return nil
}
