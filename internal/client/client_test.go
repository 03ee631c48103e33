package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPostsJSONAndReturnsReply(t *testing.T) {
	var (
		gotMethod, gotPath, gotContentType, gotRequestID string
		gotBody                                          map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-Id")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user_text": "I feel tired", "ai_response": "That sounds hard."}`))
	}))
	defer srv.Close()

	reply, err := New(srv.URL + "/chat").Send(context.Background(), "I feel tired")
	require.NoError(t, err)
	assert.Equal(t, "That sounds hard.", reply)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/chat", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.NotEmpty(t, gotRequestID)
	assert.Equal(t, map[string]any{"text": "I feel tired"}, gotBody)
}

func TestSendFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error": "boom"}`, http.StatusInternalServerError)
		},
		"malformed body": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`<html>not json</html>`))
		},
		"missing ai_response": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"error": "model exploded"}`))
		},
		"non-2xx without body": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotModified)
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()

			_, err := New(srv.URL).Send(context.Background(), "hello")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrChatRequestFailed), "got %v", err)
		})
	}
}

func TestSendNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	_, err := New(endpoint).Send(context.Background(), "hello")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrChatRequestFailed))
}

func TestNewDefaultsEndpoint(t *testing.T) {
	assert.Equal(t, DefaultEndpoint, New("").Endpoint())
}
