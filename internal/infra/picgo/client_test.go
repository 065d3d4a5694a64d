package picgo

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"picgo-mcp/internal/domain"
)

func TestClient_UploadPostsListBody(t *testing.T) {
	var got map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(raw, &got))
		_, _ = w.Write([]byte(`{"success":true,"result":["https://img/1.png"]}`))
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{UploadURL: srv.URL + "/upload"}, zap.NewNop())
	require.NoError(t, err)

	reply, err := client.Upload(context.Background(), []string{"/tmp/a.png", "/tmp/b.png"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, reply.StatusCode)
	require.JSONEq(t, `{"success":true,"result":["https://img/1.png"]}`, string(reply.Body))
	require.Equal(t, map[string][]string{domain.PicGoListField: {"/tmp/a.png", "/tmp/b.png"}}, got)
}

func TestClient_UploadNon2xxReturnsDownstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{UploadURL: srv.URL}, nil)
	require.NoError(t, err)

	reply, err := client.Upload(context.Background(), []string{"/tmp/a.png"})
	require.Nil(t, reply)

	var downstream *domain.DownstreamError
	require.ErrorAs(t, err, &downstream)
	require.True(t, downstream.HasResponse())
	require.Equal(t, http.StatusInternalServerError, downstream.StatusCode)
	require.Equal(t, `{"success":false}`, string(downstream.Body))
}

func TestClient_UploadConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL + "/upload"
	srv.Close()

	client, err := NewClient(ClientConfig{UploadURL: endpoint}, nil)
	require.NoError(t, err)

	_, err = client.Upload(context.Background(), []string{"/tmp/a.png"})
	var downstream *domain.DownstreamError
	require.ErrorAs(t, err, &downstream)
	require.False(t, downstream.HasResponse())
	require.NotNil(t, downstream.Cause)
}

func TestClient_UploadIgnoresCallerCancellation(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	client, err := NewClient(ClientConfig{UploadURL: srv.URL}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reply, err := client.Upload(ctx, []string{"/tmp/a.png"})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, reply.StatusCode)
	require.Equal(t, int32(1), calls.Load())
}

func TestClient_Heartbeat(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "alive", status: http.StatusOK, body: `{"success":true,"result":"alive"}`},
		{name: "reported failure", status: http.StatusOK, body: `{"success":false}`, wantErr: true},
		{name: "not json", status: http.StatusOK, body: `pong`, wantErr: true},
		{name: "server error", status: http.StatusBadGateway, body: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/heartbeat", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := NewClient(ClientConfig{
				UploadURL:    srv.URL + "/upload",
				HeartbeatURL: srv.URL + "/heartbeat",
			}, nil)
			require.NoError(t, err)

			err = client.Heartbeat(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestNewClient_RejectsInvalidEndpoints(t *testing.T) {
	for _, endpoint := range []string{"", "127.0.0.1:36677/upload", "ftp://127.0.0.1/upload", "http:///upload"} {
		_, err := NewClient(ClientConfig{UploadURL: endpoint}, nil)
		require.Error(t, err, endpoint)
	}

	_, err := NewClient(ClientConfig{UploadURL: domain.DefaultUploadURL, HeartbeatURL: "nope"}, nil)
	require.Error(t, err)
}
