// internal/infrastructure/interpreter/client_test.go
package interpreter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/inventory-copilot/internal/config"
	"github.com/your-org/inventory-copilot/internal/domain/command"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewClient(config.InterpreterConfig{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		Model:          "test-model",
		RequestTimeout: 5 * time.Second,
		MaxRetries:     1,
	}, logger)
}

func chatReply(content string) string {
	reply := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
	raw, _ := json.Marshal(reply)
	return string(raw)
}

func TestInterpretParsesProposal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		fmt.Fprint(w, chatReply(`{"action": "take_stock", "params": {"product": "Widget", "quantity": 5}}`))
	})

	proposal, err := client.Interpret(context.Background(), "take 5 widgets", &command.Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, string(command.ActionTakeStock), proposal.Action)
	assert.Equal(t, "Widget", proposal.Params.Product)
	assert.Equal(t, 5, proposal.Params.Quantity.Int())
}

func TestInterpretUnwrapsCodeFences(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatReply("```json\n{\"action\": \"VIEW_PRODUCTS\"}\n```"))
	})

	proposal, err := client.Interpret(context.Background(), "list products", &command.Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, string(command.ActionViewProducts), proposal.Action)
}

func TestInterpretGarbageContentDegradesToUnclear(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chatReply("I am sorry, I cannot help with that."))
	})

	proposal, err := client.Interpret(context.Background(), "do something", &command.Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, string(command.ActionUnclear), proposal.Action)
}

func TestInterpretRateLimited(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Interpret(context.Background(), "take 5 widgets", &command.Snapshot{})
	require.ErrorIs(t, err, command.ErrRateLimited)
	assert.Equal(t, 1, calls, "rate limits are not retried")
}

func TestInterpretRetriesServerErrors(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, chatReply(`{"action": "VIEW_PRODUCTS"}`))
	})

	proposal, err := client.Interpret(context.Background(), "list products", &command.Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, string(command.ActionViewProducts), proposal.Action)
	assert.Equal(t, 2, calls)
}

func TestInterpretServerErrorAfterRetriesExhausted(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Interpret(context.Background(), "list products", &command.Snapshot{})
	require.ErrorIs(t, err, command.ErrUnavailable)
}

func TestInterpretRequiresAPIKey(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	client := NewClient(config.InterpreterConfig{BaseURL: "http://localhost:1"}, logger)

	_, err := client.Interpret(context.Background(), "list products", &command.Snapshot{})
	require.ErrorIs(t, err, command.ErrUnavailable)
}
