package blockchain

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ownerSelector is the 4-byte selector of the owner() view exposed by
// Ownable token contracts.
var ownerSelector = common.Hex2Bytes("8da5cb5b")

var dialEVMClient = ethclient.Dial

// EVMClient provides read-only EVM blockchain interaction
type EVMClient struct {
	client *ethclient.Client
	rpcURL string
	// testCallView allows deterministic unit tests without network sockets.
	testCallView func(ctx context.Context, to string, data []byte) ([]byte, error)
}

// NewEVMClient creates a new EVM client
func NewEVMClient(rpcURL string) (*EVMClient, error) {
	client, err := dialEVMClient(rpcURL)
	if err != nil {
		return nil, err
	}
	return &EVMClient{
		client: client,
		rpcURL: rpcURL,
	}, nil
}

// NewEVMClientWithCallView creates an EVM client that uses an injected
// CallView implementation. Intended for unit tests where RPC sockets are
// unavailable.
func NewEVMClientWithCallView(callViewFn func(ctx context.Context, to string, data []byte) ([]byte, error)) *EVMClient {
	return &EVMClient{testCallView: callViewFn}
}

// CallView executes a read-only contract call
func (c *EVMClient) CallView(ctx context.Context, to string, data []byte) ([]byte, error) {
	if c.testCallView != nil {
		return c.testCallView(ctx, to, data)
	}
	addr := common.HexToAddress(to)
	msg := ethereum.CallMsg{
		To:   &addr,
		Data: data,
	}
	return c.client.CallContract(ctx, msg, nil)
}

// Owner resolves the owner() of an Ownable contract, returned as a
// lowercase hex address.
func (c *EVMClient) Owner(ctx context.Context, contractAddress string) (string, error) {
	if !common.IsHexAddress(contractAddress) {
		return "", fmt.Errorf("invalid contract address: %s", contractAddress)
	}

	result, err := c.CallView(ctx, contractAddress, ownerSelector)
	if err != nil {
		return "", fmt.Errorf("owner() call failed: %w", err)
	}
	if len(result) < 32 {
		return "", fmt.Errorf("owner() returned %d bytes, want 32", len(result))
	}

	owner := common.BytesToAddress(result[:32])
	if owner == (common.Address{}) {
		return "", fmt.Errorf("owner() returned zero address")
	}
	return strings.ToLower(owner.Hex()), nil
}

// Close closes the client connection
func (c *EVMClient) Close() {
	if c.client != nil {
		c.client.Close()
	}
}
