package httpservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blocknames/registrar/internal/core/application"
	"github.com/blocknames/registrar/internal/core/domain"
)

func TestPing(t *testing.T) {
	server := newTestServer(t, &stubAppService{}, func() {})
	defer server.Close()

	resp, err := http.Get(server.URL + "/v1/ping")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(t, "alive", body["status"])
}

func TestKill(t *testing.T) {
	killed := false
	server := newTestServer(t, &stubAppService{}, func() { killed = true })
	defer server.Close()

	resp, err := http.Post(server.URL+"/v1/kill", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, killed)
}

func TestSubmitEndpoints(t *testing.T) {
	t.Run("update_accepted", func(t *testing.T) {
		svc := &stubAppService{result: application.SubmitResult{Accepted: true, TxHash: "deadbeef"}}
		server := newTestServer(t, svc, func() {})
		defer server.Close()

		resp, err := http.Post(
			server.URL+"/v1/update", "application/json",
			strings.NewReader(`{"name":"alice.id","profile":{"name":"alice"}}`),
		)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusAccepted, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Equal(t, "deadbeef", body["tx_hash"])
	})

	t.Run("transfer_rejected", func(t *testing.T) {
		svc := &stubAppService{result: application.SubmitResult{
			Code: application.RejectAlreadyQueued,
		}}
		server := newTestServer(t, svc, func() {})
		defer server.Close()

		resp, err := http.Post(
			server.URL+"/v1/transfer", "application/json",
			strings.NewReader(`{"name":"alice.id","transfer_address":"1Counterparty"}`),
		)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusConflict, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.Equal(t, "already_queued", body["error"])
	})

	t.Run("invalid_body", func(t *testing.T) {
		server := newTestServer(t, &stubAppService{}, func() {})
		defer server.Close()

		resp, err := http.Post(
			server.URL+"/v1/update", "application/json", strings.NewReader("{"),
		)
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestListQueue(t *testing.T) {
	svc := &stubAppService{records: []domain.QueueRecord{{Name: "alice.id", TxHash: "deadbeef"}}}
	server := newTestServer(t, svc, func() {})
	defer server.Close()

	resp, err := http.Get(server.URL + "/v1/queue/update")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Records []domain.QueueRecord `json:"records"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Records, 1)
	require.Equal(t, "alice.id", body.Records[0].Name)
}

func newTestServer(t *testing.T, svc application.Service, kill func()) *httptest.Server {
	t.Helper()
	return httptest.NewServer(newRouter(svc, kill))
}

type stubAppService struct {
	result  application.SubmitResult
	records []domain.QueueRecord
}

func (s *stubAppService) Start() error { return nil }
func (s *stubAppService) Stop()        {}

func (s *stubAppService) SubmitUpdate(
	_ context.Context, _ application.UpdateRequest,
) application.SubmitResult {
	return s.result
}

func (s *stubAppService) SubmitTransfer(
	_ context.Context, _ application.TransferRequest,
) application.SubmitResult {
	return s.result
}

func (s *stubAppService) ListQueue(
	_ context.Context, queue domain.Queue,
) ([]domain.QueueRecord, error) {
	if !queue.IsValid() {
		return nil, domain.ErrRecordExists
	}
	return s.records, nil
}
