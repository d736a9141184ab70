package chain

import (
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"

	"telreport/abi"
	"telreport/config"
	"telreport/logger"
	"telreport/utils"
)

var ChainRpcURL string

func GetChainRpcURL() string {
	if ChainRpcURL != "" {
		return ChainRpcURL
	}

	ChainRpcURL = viper.GetString("chain.rpc-url")
	if ChainRpcURL == "" {
		// AutomaticEnv maps this onto the RPC_URL environment variable
		ChainRpcURL = viper.GetString("rpc_url")
	}
	if ChainRpcURL == "" {
		ChainRpcURL = config.DefaultRpcURL
		logger.ChainLogger.Warn("RPC URL not set in config, using default", "url", ChainRpcURL)
	}

	return ChainRpcURL
}

type RpcRequest struct {
	Jsonrpc string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type RpcResponse struct {
	Jsonrpc string    `json:"jsonrpc"`
	ID      int       `json:"id"`
	Result  string    `json:"result"`
	Error   *RpcError `json:"error,omitempty"`
}

// RpcError is a structured error body returned by the RPC endpoint. It
// is distinct from transport failures so callers of the bulk
// enumerations can surface the endpoint's own message.
type RpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

type callParams struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

// Call performs a read-only eth_call against the latest block and
// returns the raw 0x-prefixed hex result. A single attempt, no retry.
func Call(contract common.Address, data string) (string, error) {
	req := RpcRequest{
		Jsonrpc: "2.0",
		ID:      1,
		Method:  "eth_call",
		Params:  []interface{}{callParams{To: contract.Hex(), Data: data}, "latest"},
	}

	var resp RpcResponse
	if err := utils.PostUrlResponse(GetChainRpcURL(), req, &resp, logger.ChainLogger); err != nil {
		return "", fmt.Errorf("eth_call to %s failed: %w", contract.Hex(), err)
	}

	if resp.Error != nil {
		return "", resp.Error
	}
	if resp.Result == "" {
		return "0x", nil
	}

	return resp.Result, nil
}

// ListActiveValidators fetches the validator set for the current epoch
// from the staking contract. Failure here is fatal to the run.
func ListActiveValidators() ([]common.Address, error) {
	result, err := Call(common.HexToAddress(config.StakingContract), config.GetValidatorsSelector)
	if err != nil {
		return nil, fmt.Errorf("getValidatorsAtCurrentEpoch failed: %w", err)
	}
	addrs, err := abi.DecodeAddressArray(result)
	if err != nil {
		return nil, fmt.Errorf("decoding active validator set: %w", err)
	}
	return addrs, nil
}

// ListBannedValidators fetches all banned validators from the staking
// contract. Failure here is fatal to the run.
func ListBannedValidators() ([]common.Address, error) {
	result, err := Call(common.HexToAddress(config.StakingContract), config.GetBannedSelector)
	if err != nil {
		return nil, fmt.Errorf("getAllBannedValidators failed: %w", err)
	}
	addrs, err := abi.DecodeAddressArray(result)
	if err != nil {
		return nil, fmt.Errorf("decoding banned validator set: %w", err)
	}
	return addrs, nil
}

// ResolveWalletForOperator looks up the validator wallet registered for
// an operator. Every failure degrades to absent: one unresolvable
// wallet must not abort the batch.
func ResolveWalletForOperator(operator common.Address) (common.Address, bool) {
	data := config.GetWalletsForOperatorSelector + hex.EncodeToString(common.LeftPadBytes(operator.Bytes(), 32))

	result, err := Call(common.HexToAddress(config.ValidatorWalletFactory), data)
	if err != nil {
		logger.ChainLogger.Warn("wallet lookup failed", "operator", operator.Hex(), "err", err)
		return common.Address{}, false
	}
	wallets, err := abi.DecodeAddressArray(result)
	if err != nil {
		logger.ChainLogger.Warn("wallet lookup returned undecodable payload", "operator", operator.Hex(), "err", err)
		return common.Address{}, false
	}
	if len(wallets) == 0 {
		return common.Address{}, false
	}

	return wallets[0], true
}

// ResolveMoniker reads the moniker from a validator wallet's identity.
// Every failure degrades to absent.
func ResolveMoniker(wallet common.Address) (string, bool) {
	result, err := Call(wallet, config.GetIdentitySelector)
	if err != nil {
		logger.ChainLogger.Warn("identity lookup failed", "wallet", wallet.Hex(), "err", err)
		return "", false
	}
	return abi.DecodeIdentityMoniker(result)
}
