// internal/infrastructure/interpreter/client.go
package interpreter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/inventory-copilot/internal/config"
	"github.com/your-org/inventory-copilot/internal/domain/command"
)

const systemPrompt = `You are an inventory assistant. Convert the user's command into a JSON action.

Respond with ONLY a JSON object, no prose, shaped as:
{"action": "<ACTION>", "params": {...}, "message": "<short reply for the user>"}

Actions and their params:
- VIEW_PRODUCTS, VIEW_WAREHOUSES, VIEW_SUPPLIERS, VIEW_ORDERS, VIEW_TRANSACTIONS: no params
- VIEW_PRODUCTS_IN_WAREHOUSE: {"warehouse"}
- VIEW_STOCK: {"product"?, "warehouse"?}
- TAKE_STOCK, RETURN_STOCK: {"product", "warehouse", "quantity"}
- TRANSFER_STOCK: {"product", "from_warehouse", "to_warehouse", "quantity"}
- MOVE_PRODUCT: {"product", "to_warehouse", "quantity"?, "from_warehouse"?}
- CREATE_ORDER: {"product", "quantity", "warehouse", "supplier"?, "unit_price"?}
- RECEIVE_ORDER: {"order_id"? or "product"?/"warehouse"?/"quantity"?}
- UPDATE_ORDER_STATUS: {"order_id"? or "product"?, "status"}
- ADD_PRODUCT: {"name", "description"?, "unit_price"?, "manufacturer"?}
- ADD_SUPPLIER: {"name", "contact_name"?, "email"?, "phone"?, "address"?}
- ADD_WAREHOUSE: {"name", "address"?}
- UNCLEAR: no params; put your clarification question in "message"

Use the inventory context below to match entity names the user refers to.
If the command does not fit any action, answer with UNCLEAR.`

// chat completion request/response structures
type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *formatSpec   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type formatSpec struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client implements the command.Interpreter boundary against an
// OpenAI-compatible chat completions endpoint. Its output is never trusted:
// anything that does not decode into a proposal degrades to UNCLEAR.
type Client struct {
	cfg    config.InterpreterConfig
	client *http.Client
	logger *logrus.Logger
}

// NewClient creates a new interpreter client
func NewClient(cfg config.InterpreterConfig, logger *logrus.Logger) *Client {
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

// Interpret converts command text into a structured proposal
func (c *Client) Interpret(ctx context.Context, commandText string, snapshot *command.Snapshot) (*command.Proposal, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: no API key configured", command.ErrUnavailable)
	}

	contextJSON, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal context snapshot: %w", err)
	}

	reqData := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt + "\n\nInventory context:\n" + string(contextJSON)},
			{Role: "user", Content: commandText},
		},
		Temperature:    0,
		ResponseFormat: &formatSpec{Type: "json_object"},
	}
	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal interpreter request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", command.ErrUnavailable, ctx.Err())
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		proposal, err := c.call(ctx, jsonData)
		if err == nil {
			return proposal, nil
		}
		lastErr = err

		// Rate limits are surfaced immediately so the caller can back off;
		// only transport-level failures are worth retrying here.
		if !retryable(err) {
			return nil, err
		}
		c.logger.WithError(err).WithField("attempt", attempt+1).Warn("interpreter call failed, retrying")
	}
	return nil, lastErr
}

func (c *Client) call(ctx context.Context, body []byte) (*command.Proposal, error) {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create interpreter request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", command.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, command.ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: interpreter returned status %d", command.ErrUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("interpreter returned status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", command.ErrUnavailable, err)
	}

	var chat chatResponse
	if err := json.Unmarshal(payload, &chat); err != nil || len(chat.Choices) == 0 {
		c.logger.Warn("interpreter response had no usable choices")
		return command.UnclearProposal(""), nil
	}

	return command.ParseProposal(extractJSON(chat.Choices[0].Message.Content)), nil
}

// retryable reports whether a call failure is a transport problem worth one
// more attempt. Rate limits and client errors are not.
func retryable(err error) bool {
	return errors.Is(err, command.ErrUnavailable)
}

// extractJSON pulls the JSON object out of model output that may be wrapped
// in code fences or surrounded by prose
func extractJSON(content string) []byte {
	content = strings.TrimSpace(content)
	if start := strings.Index(content, "{"); start >= 0 {
		if end := strings.LastIndex(content, "}"); end > start {
			return []byte(content[start : end+1])
		}
	}
	return []byte(content)
}
