package blockchain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SolanaClient queries a Solana JSON-RPC endpoint. Only the read paths the
// metadata service needs are implemented.
type SolanaClient struct {
	rpcURL     string
	httpClient *http.Client
}

// NewSolanaClient creates a new Solana RPC client
func NewSolanaClient(rpcURL string) *SolanaClient {
	return &SolanaClient{
		rpcURL: rpcURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type solanaRPCRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type solanaRPCResponse struct {
	Result struct {
		Value *struct {
			Data struct {
				Parsed struct {
					Info struct {
						MintAuthority string `json:"mintAuthority"`
					} `json:"info"`
				} `json:"parsed"`
			} `json:"data"`
		} `json:"value"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// MintAuthority resolves the mint authority of an SPL token mint, the
// Solana analog of a contract owner.
func (c *SolanaClient) MintAuthority(ctx context.Context, mintAddress string) (string, error) {
	reqBody, err := json.Marshal(solanaRPCRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "getAccountInfo",
		Params: []interface{}{
			mintAddress,
			map[string]string{"encoding": "jsonParsed"},
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("solana rpc call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("solana rpc returned status %d", resp.StatusCode)
	}

	var rpcResp solanaRPCResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return "", fmt.Errorf("solana rpc response decode failed: %w", err)
	}
	if rpcResp.Error != nil {
		return "", fmt.Errorf("solana rpc error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if rpcResp.Result.Value == nil {
		return "", fmt.Errorf("mint account not found: %s", mintAddress)
	}

	authority := rpcResp.Result.Value.Data.Parsed.Info.MintAuthority
	if authority == "" {
		return "", fmt.Errorf("mint %s has no mint authority", mintAddress)
	}
	return strings.ToLower(authority), nil
}
