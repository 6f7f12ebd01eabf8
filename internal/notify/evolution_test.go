package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvolutionClientSendText(t *testing.T) {
	var (
		gotPath   string
		gotAPIKey string
		gotBody   evolutionSendRequest
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAPIKey = r.Header.Get("apikey")
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"key":{"id":"abc"}}`))
	}))
	defer srv.Close()

	client, err := NewEvolutionClient(srv.URL+"/", "secret", "agenda", time.Second)
	require.NoError(t, err)

	err = client.SendText(context.Background(), "5511999998888", "Olá")
	require.NoError(t, err)

	assert.Equal(t, "/message/sendText/agenda", gotPath)
	assert.Equal(t, "secret", gotAPIKey)
	assert.Equal(t, "5511999998888", gotBody.Number)
	assert.Equal(t, "Olá", gotBody.TextMessage.Text)
}

func TestEvolutionClientNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"number not on whatsapp"}`))
	}))
	defer srv.Close()

	client, err := NewEvolutionClient(srv.URL, "k", "agenda", time.Second)
	require.NoError(t, err)

	err = client.SendText(context.Background(), "5511999998888", "Olá")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=400")
	assert.Contains(t, err.Error(), "number not on whatsapp")
}

func TestEvolutionClientRespectsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client, err := NewEvolutionClient(srv.URL, "k", "agenda", 5*time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = client.SendText(ctx, "5511999998888", "Olá")
	assert.Error(t, err)
}

func TestNewEvolutionClientValidation(t *testing.T) {
	_, err := NewEvolutionClient("", "k", "agenda", time.Second)
	assert.Error(t, err)

	_, err = NewEvolutionClient("http://localhost", "k", " ", time.Second)
	assert.Error(t, err)

	client, err := NewEvolutionClient("http://localhost", "k", "agenda", time.Second)
	require.NoError(t, err)
	assert.Error(t, client.SendText(context.Background(), "", "Olá"))
	assert.Error(t, client.SendText(context.Background(), "5511", ""))
}
