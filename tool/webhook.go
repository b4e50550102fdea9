package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// WebhookOptions configure the webhook executor.
type WebhookOptions struct {
	// Endpoints maps automation names to webhook URLs.
	Endpoints map[string]string
	// Timeout bounds each outbound request.
	Timeout time.Duration
	// HTTPClient overrides the default client (primarily for tests).
	HTTPClient *http.Client
}

// DemoScheme marks an endpoint as a local simulation. Calls to a demo
// endpoint never leave the process and report a simulated success, so a
// mesh built from the default configuration is operable without any real
// automation platform behind it.
const DemoScheme = "demo://"

// Webhook posts JSON payloads to named automation endpoints. It stands in
// for the workflow-automation integration of the original deployment: the
// dispatcher only sees an opaque result map.
type Webhook struct {
	endpoints map[string]string
	client    *http.Client
}

// NewWebhook constructs the webhook executor.
func NewWebhook(optFns ...func(o *WebhookOptions)) *Webhook {
	opts := WebhookOptions{
		Endpoints: map[string]string{},
		Timeout:   15 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &Webhook{endpoints: opts.Endpoints, client: client}
}

// Name implements Tool.
func (w *Webhook) Name() string { return "webhook" }

// Description implements Tool.
func (w *Webhook) Description() string {
	return "Execute a named automation by posting JSON to its webhook"
}

// Call posts args["data"] to the endpoint registered under args["automation"].
func (w *Webhook) Call(ctx context.Context, args map[string]any) (map[string]any, error) {
	automation, _ := args["automation"].(string)
	url, ok := w.endpoints[automation]
	if !ok || url == "" {
		return nil, NewError(w.Name(), fmt.Sprintf("webhook not configured for automation %q", automation), "NOT_CONFIGURED")
	}

	if strings.HasPrefix(url, DemoScheme) {
		return map[string]any{
			"automation": automation,
			"status":     "simulated",
			"response":   http.StatusOK,
		}, nil
	}

	data, _ := args["data"].(map[string]any)
	body, err := json.Marshal(data)
	if err != nil {
		return nil, NewError(w.Name(), fmt.Sprintf("marshal payload: %v", err), "VALIDATION_ERROR")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, NewError(w.Name(), fmt.Sprintf("build request: %v", err), "EXECUTION_ERROR")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, NewError(w.Name(), fmt.Sprintf("execute webhook: %v", err), "EXECUTION_ERROR")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, NewError(w.Name(), fmt.Sprintf("webhook %s returned status %d", automation, resp.StatusCode), "EXECUTION_ERROR")
	}

	return map[string]any{
		"automation": automation,
		"status":     "executed",
		"response":   resp.StatusCode,
	}, nil
}
