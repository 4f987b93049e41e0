package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bot12345:token/sendMessage", r.URL.Path)

		var payload sendMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, int64(42), payload.ChatID)
		assert.Equal(t, "What kind of payment is this?", payload.Text)
		require.NotNil(t, payload.ReplyMarkup)
		assert.Equal(t, "income|sess-1", payload.ReplyMarkup.InlineKeyboard[0][0].CallbackData)

		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "12345:token", time.Second)
	keyboard := &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
		{{Text: "INCOME", CallbackData: "income|sess-1"}},
	}}
	err := client.SendMessage(context.Background(), 42, "What kind of payment is this?", keyboard)
	require.NoError(t, err)
}

func TestSendMessageNotOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"ok":false,"description":"Bad Request: chat not found"}`)
	}))
	defer server.Close()

	err := NewClient(server.URL, "12345:token", time.Second).SendMessage(context.Background(), 42, "hi", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestAnswerCallbackQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bot12345:token/answerCallbackQuery", r.URL.Path)
		var payload answerCallbackRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "cb-9", payload.CallbackQueryID)
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer server.Close()

	err := NewClient(server.URL, "12345:token", time.Second).AnswerCallbackQuery(context.Background(), "cb-9", "")
	require.NoError(t, err)
}
