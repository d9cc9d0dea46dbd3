package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SettlementClient talks to the external settlement collaborator that moves
// real USDC. The core only records the resulting transaction reference; any
// failure here surfaces as a CollaboratorError and nothing local changes.
type SettlementClient struct {
	Endpoint string
	APIKey   string
	Client   *http.Client
}

func NewSettlementClient(endpoint, apiKey string) *SettlementClient {
	return &SettlementClient{
		Endpoint: endpoint,
		APIKey:   apiKey,
		Client:   &http.Client{Timeout: 15 * time.Second},
	}
}

type transferRequest struct {
	ToAddress string  `json:"toAddress"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

type transferResponse struct {
	TxHash string `json:"txHash"`
	Status string `json:"status"`
}

// SubmitTransfer asks the collaborator to pay out to the given address and
// returns the transaction hash.
func (c *SettlementClient) SubmitTransfer(ctx context.Context, toAddress string, amount float64) (string, error) {
	payload := transferRequest{
		ToAddress: toAddress,
		Amount:    amount,
		Currency:  "USDC",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to serialize transfer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint+"/transfers", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", NewCollaboratorError("settlement transfer", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewCollaboratorError("settlement response", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", NewCollaboratorError("settlement transfer",
			fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body)))
	}

	var transfer transferResponse
	if err := json.Unmarshal(body, &transfer); err != nil {
		return "", NewCollaboratorError("settlement decode", err)
	}
	if transfer.TxHash == "" {
		return "", NewCollaboratorError("settlement transfer", fmt.Errorf("no transaction hash returned"))
	}
	return transfer.TxHash, nil
}
