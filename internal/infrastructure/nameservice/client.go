package nameservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/blocknames/registrar/internal/core/domain"
	"github.com/blocknames/registrar/internal/core/ports"
)

type service struct {
	baseURL string
	client  *http.Client
}

// NewService returns a NameService talking JSON over HTTP to the remote
// name-system daemon. The client handle is explicit and carries its own
// lifecycle; no global session state.
func NewService(baseURL string, timeout time.Duration) (ports.NameService, error) {
	if _, err := url.Parse(baseURL); err != nil || len(baseURL) <= 0 {
		return nil, fmt.Errorf("invalid name service url")
	}
	return &service{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (s *service) GetNameRecord(
	ctx context.Context, name string,
) (*domain.NameRecord, error) {
	var record domain.NameRecord
	status, err := s.get(ctx, fmt.Sprintf("/v1/names/%s", url.PathEscape(name)), &record)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, ports.ErrNameNotFound
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("name lookup failed with status %d", status)
	}
	if len(record.Address) <= 0 {
		return nil, ports.ErrMalformedResponse
	}
	record.Name = name
	return &record, nil
}

type buildRequest struct {
	ProfileHash     string `json:"profile_hash,omitempty"`
	TransferAddress string `json:"transfer_address,omitempty"`
	KeepData        bool   `json:"keep_data,omitempty"`
	PublicKey       string `json:"public_key"`
	SubsidyKey      string `json:"subsidy_key"`
}

type buildResponse struct {
	SubsidizedTx string `json:"subsidized_tx"`
	Error        string `json:"error"`
}

func (s *service) BuildUpdateTx(
	ctx context.Context, name, profileHash, ownerPubKey, subsidyKey string,
) (string, error) {
	return s.build(ctx,
		fmt.Sprintf("/v1/names/%s/update", url.PathEscape(name)),
		buildRequest{
			ProfileHash: profileHash,
			PublicKey:   ownerPubKey,
			SubsidyKey:  subsidyKey,
		},
	)
}

func (s *service) BuildTransferTx(
	ctx context.Context, name, newOwner string, keepData bool,
	ownerPubKey, subsidyKey string,
) (string, error) {
	return s.build(ctx,
		fmt.Sprintf("/v1/names/%s/transfer", url.PathEscape(name)),
		buildRequest{
			TransferAddress: newOwner,
			KeepData:        keepData,
			PublicKey:       ownerPubKey,
			SubsidyKey:      subsidyKey,
		},
	)
}

func (s *service) NamesOwnedBy(
	ctx context.Context, address string,
) ([]string, error) {
	var body struct {
		Names []string `json:"names"`
	}
	status, err := s.get(
		ctx, fmt.Sprintf("/v1/addresses/%s/names", url.PathEscape(address)), &body,
	)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("owned names lookup failed with status %d", status)
	}
	return body.Names, nil
}

func (s *service) Close() {
	s.client.CloseIdleConnections()
}

// build posts the request and requires the subsidized_tx field in the reply.
// A reply without it is a build failure even when the HTTP exchange itself
// succeeded; the raw reply is logged for diagnosis.
func (s *service) build(ctx context.Context, path string, reqBody buildRequest) (string, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload),
	)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var body buildResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		log.Debugf("unparseable reply from name service: %s", string(raw))
		return "", ports.ErrMalformedResponse
	}
	if len(body.Error) > 0 {
		return "", fmt.Errorf("name service error: %s", body.Error)
	}
	if len(body.SubsidizedTx) <= 0 {
		log.Debugf("reply without subsidized tx from name service: %s", string(raw))
		return "", ports.ErrMalformedResponse
	}
	return body.SubsidizedTx, nil
}

func (s *service) get(ctx context.Context, path string, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return 0, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, ports.ErrMalformedResponse
		}
	}
	return resp.StatusCode, nil
}
