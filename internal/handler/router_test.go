package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echomind/echomind/internal/analysis/emotion"
	"github.com/echomind/echomind/internal/client"
	emotionservice "github.com/echomind/echomind/internal/service/emotion"
	"github.com/echomind/echomind/internal/widget"
)

type cannedResponder string

func (c cannedResponder) Respond(context.Context, string, []emotion.Score) (string, error) {
	return string(c), nil
}

func newTestServer(t *testing.T, responder cannedResponder) *httptest.Server {
	t.Helper()
	analyzer, err := emotionservice.NewService(context.Background(), nil, emotionservice.Config{})
	require.NoError(t, err)

	deps := Dependencies{Analyzer: analyzer, AllowedOrigins: []string{"*"}}
	if responder != "" {
		deps.Responder = responder
	}
	srv := httptest.NewServer(NewRouter(deps))
	t.Cleanup(srv.Close)
	return srv
}

func TestRootWelcome(t *testing.T) {
	srv := newTestServer(t, "")

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["message"], "EchoMind")
}

func TestChatRouteWithoutModel(t *testing.T) {
	srv := newTestServer(t, "")

	resp, err := http.Post(srv.URL+"/chat", "application/json", strings.NewReader(`{"text": "hi"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestWidgetRoundTripThroughRouter(t *testing.T) {
	srv := newTestServer(t, "That sounds hard.")

	w := widget.New(client.New(srv.URL + "/chat"))
	w.SetDraft("I feel tired")
	done, ok := w.Submit(context.Background())
	require.True(t, ok)
	<-done

	msgs := w.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "That sounds hard.", msgs[1].Text)
}

func TestWidgetFallsBackWhenModelMissing(t *testing.T) {
	srv := newTestServer(t, "")

	w := widget.New(client.New(srv.URL + "/chat"))
	w.SetDraft("I feel tired")
	done, ok := w.Submit(context.Background())
	require.True(t, ok)
	<-done

	msgs := w.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, widget.FallbackReply, msgs[1].Text)
}
