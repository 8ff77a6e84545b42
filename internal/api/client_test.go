package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digiassistant-client-V1.0/internal/model"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(model.User{Email: "a@b.c"})
	}))
	defer server.Close()

	client := NewClient(server.URL, staticToken("tok-123"), time.Second)
	_, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClientEmptyTokenOmitsHeader(t *testing.T) {
	var hasAuth bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		json.NewEncoder(w).Encode(model.User{})
	}))
	defer server.Close()

	client := NewClient(server.URL, staticToken(""), time.Second)
	_, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.False(t, hasAuth)
}

func TestClientUnauthorizedFiresHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, time.Second)
	fired := false
	client.OnUnauthorized(func() { fired = true })

	_, err := client.Chat(context.Background(), model.ChatRequest{ConversationID: "c1"})
	require.Error(t, err)
	assert.True(t, fired)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestActiveConversationNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "No active conversation"})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, time.Second)
	_, err := client.ActiveConversation(context.Background())
	assert.True(t, errors.Is(err, ErrNoActiveConversation))
}

func TestDecodeErrorVariants(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"diagnostic detail", `{"detail":"quota exceeded"}`, "quota exceeded"},
		{"auth error", `{"error":"invalid credentials"}`, "invalid credentials"},
		{"unparseable body", `<html>boom</html>`, "request failed with status 500"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, nil, time.Second)
			_, err := client.StructuredResults(context.Background(), "c1")
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}

func TestResultsPDF(t *testing.T) {
	payload := []byte("%PDF-1.4 report body")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/results/c1/pdf", r.URL.Path)
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(payload)
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, time.Second)
	data, contentType, err := client.ResultsPDF(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "application/pdf", contentType)
}

func TestChatRequestOmitsAnswerOnStart(t *testing.T) {
	var raw map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		json.NewEncoder(w).Encode(model.ChatResponse{ConversationID: "c1"})
	}))
	defer server.Close()

	client := NewClient(server.URL, nil, time.Second)
	_, err := client.Chat(context.Background(), model.ChatRequest{ConversationID: "c1"})
	require.NoError(t, err)

	_, present := raw["user_answer"]
	assert.False(t, present, "start requests must not carry a user_answer field")
}
