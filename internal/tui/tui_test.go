package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echomind/echomind/internal/client"
	"github.com/echomind/echomind/internal/model/chat"
	"github.com/echomind/echomind/internal/widget"
)

func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"ai_response": "heard: " + body.Text})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestViewShowsGreetingWhenEmpty(t *testing.T) {
	w := widget.New(client.New(echoServer(t).URL))
	m := New(context.Background(), w)

	view := m.View()
	assert.Equal(t, 1, strings.Count(view, widget.Greeting))
}

func TestTypingUpdatesDraft(t *testing.T) {
	w := widget.New(client.New(echoServer(t).URL))
	m := New(context.Background(), w)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hi")})
	m = updated.(Model)

	assert.Equal(t, "hi", w.Draft())
	assert.Equal(t, "hi", m.input.Value())
}

func TestEnterSubmitsAndRendersReply(t *testing.T) {
	w := widget.New(client.New(echoServer(t).URL))
	var m tea.Model = New(context.Background(), w)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	model := m.(Model)
	model.input.SetValue("I feel tired")
	m, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	assert.Equal(t, chat.UserMessage("I feel tired"), w.Messages()[0])
	assert.Equal(t, "", m.(Model).input.Value())
	assert.Equal(t, "", w.Draft())

	m, _ = m.Update(cmd())
	assert.Contains(t, m.View(), "heard: I feel tired")
	assert.NotContains(t, m.View(), widget.Greeting)
}

func TestEnterOnBlankInputDoesNothing(t *testing.T) {
	w := widget.New(client.New(echoServer(t).URL))
	model := New(context.Background(), w)
	model.input.SetValue("   ")

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, w.Messages())
}

func TestEscClosesWidget(t *testing.T) {
	w := widget.New(client.New(echoServer(t).URL))
	model := New(context.Background(), w)

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	w.SetDraft("after quit")
	_, ok := w.Submit(context.Background())
	assert.False(t, ok)
}

func TestRunPlain(t *testing.T) {
	w := widget.New(client.New(echoServer(t).URL))
	in := strings.NewReader("I feel tired\n   \nfail\n/quit\nnever sent\n")
	var out bytes.Buffer

	require.NoError(t, RunPlain(context.Background(), w, in, &out))

	text := out.String()
	assert.Contains(t, text, "EchoMind: "+widget.Greeting)
	assert.Contains(t, text, "EchoMind: heard: I feel tired")
	assert.Contains(t, text, "EchoMind: "+widget.FallbackReply)
	assert.NotContains(t, text, "never sent")
	assert.Len(t, w.Messages(), 4)
}

func TestRunPlainStopsCleanlyOnCancel(t *testing.T) {
	w := widget.New(client.New(echoServer(t).URL))
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- RunPlain(ctx, w, pr, io.Discard)
	}()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunPlain did not return after cancel")
	}
}

func TestPageKeysScrollTranscript(t *testing.T) {
	w := widget.New(client.New(echoServer(t).URL))
	for i := 0; i < 20; i++ {
		w.SetDraft("entry")
		_, ok := w.Submit(context.Background())
		require.True(t, ok)
	}
	w.Wait()

	var m tea.Model = New(context.Background(), w)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 15})
	require.True(t, m.(Model).viewport.AtBottom())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	assert.False(t, m.(Model).viewport.AtBottom())
	assert.Equal(t, "", w.Draft())

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.True(t, m.(Model).viewport.AtBottom())
}
