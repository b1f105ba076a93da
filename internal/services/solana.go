package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mr-tron/base58"
)

// ValidateSolanaAddress checks the base58 shape of an address before any
// state changes. It does not prove the account exists on chain.
func ValidateSolanaAddress(address string) error {
	raw, err := base58.Decode(address)
	if err != nil || len(raw) != SOLANA_ADDRESS_LENGTH {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}

	return nil
}

// TreasuryClient talks to the external treasury service that owns the hot
// wallet. Transfers are signed and submitted there; we only hand over the
// recipient and the amount and keep the returned signature as the
// transaction reference.
type TreasuryClient struct {
	*ServiceHTTP
	transferURL string
	rpcURL      string
	apiKey      string
}

func NewTreasuryClient(transferURL, rpcURL, apiKey string) (*TreasuryClient, error) {
	return &TreasuryClient{&ServiceHTTP{}, transferURL, rpcURL, apiKey}, nil
}

type treasuryTransferReq struct {
	Recipient string `json:"recipient"`
	Lamports  int64  `json:"lamports"`
}

type treasuryTransferResp struct {
	Signature string `json:"signature"`
	Error     string `json:"error"`
}

func (client *TreasuryClient) SendTransfer(ctx context.Context, recipient string, amount int64) (string, error) {
	payload, err := json.Marshal(treasuryTransferReq{Recipient: recipient, Lamports: amount})
	if err != nil {
		return "", err
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	if client.apiKey != "" {
		header.Set("X-Api-Key", client.apiKey)
	}

	resp, err := client.httpClient(0).Post(fmt.Sprintf("%s/transfer", client.transferURL), bytes.NewReader(payload), header)
	if err != nil {
		return "", fmt.Errorf("%w: transfer: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	var body treasuryTransferResp
	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return "", fmt.Errorf("%w: decode transfer response: %v", ErrUpstreamUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK || body.Signature == "" {
		return "", fmt.Errorf("transfer rejected (%d): %s", resp.StatusCode, body.Error)
	}

	return body.Signature, nil
}

type rpcBalanceResp struct {
	Result *struct {
		Value int64 `json:"value"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GetBalance reads an account balance in lamports via JSON-RPC.
func (client *TreasuryClient) GetBalance(ctx context.Context, address string) (int64, error) {
	payload, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "getBalance",
		"params":  []any{address},
	})
	if err != nil {
		return 0, err
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")

	resp, err := client.httpClient(0).Post(client.rpcURL, bytes.NewReader(payload), header)
	if err != nil {
		return 0, fmt.Errorf("%w: getBalance: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	var body rpcBalanceResp
	err = json.NewDecoder(resp.Body).Decode(&body)
	if err != nil {
		return 0, fmt.Errorf("%w: decode getBalance: %v", ErrUpstreamUnavailable, err)
	}

	if body.Error != nil {
		return 0, fmt.Errorf("%w: getBalance: %s", ErrUpstreamUnavailable, body.Error.Message)
	}
	if body.Result == nil {
		return 0, fmt.Errorf("%w: getBalance: empty result", ErrUpstreamUnavailable)
	}

	return body.Result.Value, nil
}
