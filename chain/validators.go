package chain

import (
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"telreport/logger"
	"telreport/types"
)

// lowerHex is the canonical address form used for set membership and
// report output.
func lowerHex(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}

// FetchOnchainValidators builds the full on-chain snapshot: the two
// bulk enumerations (fatal on failure), then the per-validator moniker
// chain (soft, each failure degrades that validator to no moniker).
func FetchOnchainValidators() (*types.OnchainSnapshot, error) {
	logger.ChainLogger.Info("Fetching on-chain validators...")

	active, err := ListActiveValidators()
	if err != nil {
		return nil, err
	}
	logger.ChainLogger.Info("Fetched active validator set", "count", len(active))

	banned, err := ListBannedValidators()
	if err != nil {
		return nil, err
	}
	logger.ChainLogger.Info("Fetched banned validator set", "count", len(banned))

	activeSet := make(map[string]struct{}, len(active))
	for _, a := range active {
		activeSet[lowerHex(a)] = struct{}{}
	}
	bannedSet := make(map[string]struct{}, len(banned))
	for _, a := range banned {
		bannedSet[lowerHex(a)] = struct{}{}
	}

	logger.ChainLogger.Info("Resolving validator monikers...")
	addressToMoniker := make(map[string]string)
	monikerToAddress := make(map[string]string)
	for _, op := range active {
		wallet, ok := ResolveWalletForOperator(op)
		if !ok {
			continue
		}
		moniker, ok := ResolveMoniker(wallet)
		if !ok {
			continue
		}
		addressToMoniker[lowerHex(op)] = moniker
		monikerToAddress[moniker] = lowerHex(op)
	}
	logger.ChainLogger.Info("Resolved validator monikers", "count", len(addressToMoniker))

	all := make([]string, 0, len(activeSet)+len(bannedSet))
	for addr := range activeSet {
		all = append(all, addr)
	}
	for addr := range bannedSet {
		if _, seen := activeSet[addr]; !seen {
			all = append(all, addr)
		}
	}
	sort.Strings(all)

	snapshot := &types.OnchainSnapshot{
		Validators:       make([]*types.ValidatorRecord, 0, len(all)),
		AddressToMoniker: addressToMoniker,
		MonikerToAddress: monikerToAddress,
	}

	for _, addr := range all {
		_, isActive := activeSet[addr]
		_, isBanned := bannedSet[addr]
		status := types.DeriveStatus(isActive, isBanned)

		var moniker *string
		if m, ok := addressToMoniker[addr]; ok {
			moniker = &m
		}

		snapshot.Validators = append(snapshot.Validators, &types.ValidatorRecord{
			Address:  addr,
			Moniker:  moniker,
			Status:   status,
			IsActive: isActive,
			IsBanned: isBanned,
		})

		snapshot.Summary.TotalUnique++
		if isActive {
			snapshot.Summary.ActiveCount++
		}
		if isBanned {
			snapshot.Summary.BannedCount++
		}
		switch status {
		case types.StatusActive:
			snapshot.Summary.ActiveOnly++
		case types.StatusBanned:
			snapshot.Summary.BannedOnly++
		case types.StatusActiveAndBanned:
			snapshot.Summary.ActiveAndBanned++
		}
	}
	snapshot.Summary.WithMoniker = len(addressToMoniker)

	return snapshot, nil
}
