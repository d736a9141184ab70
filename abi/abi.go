// Package abi decodes the two ABI-encoded return shapes this tool ever
// sees: a dynamic address[] and an identity struct whose first field is
// a dynamic string. Only these two shapes are needed, so the decoding
// is done by hand instead of pulling in a generic ABI machinery.
//
// ABI offsets and lengths are byte counts, but decoding operates on the
// hex-character payload, so every byte offset is doubled before it is
// used as an index.
package abi

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common"

	"telreport/config"
)

const wordChars = 64 // one 32-byte word as hex characters

// readWord parses the 32-byte word starting at the given hex-character
// index as an unsigned integer.
func readWord(data string, start int) (uint64, error) {
	if start < 0 || start+wordChars > len(data) {
		return 0, fmt.Errorf("word at char %d out of range (payload has %d chars)", start, len(data))
	}
	v, err := strconv.ParseUint(data[start:start+wordChars], 16, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed word at char %d: %w", start, err)
	}
	return v, nil
}

// DecodeAddressArray decodes an ABI-encoded dynamic address[] from a
// 0x-prefixed hex result. A payload shorter than the offset+length word
// pair is an empty array, not an error. Zero addresses are dropped;
// element order is preserved.
func DecodeAddressArray(hexResult string) ([]common.Address, error) {
	data := strings.TrimPrefix(hexResult, "0x")
	if len(data) < 2*wordChars {
		return nil, nil
	}

	off, err := readWord(data, 0)
	if err != nil {
		return nil, err
	}
	if off > uint64(len(data)) {
		return nil, fmt.Errorf("array offset %d past end of payload", off)
	}
	offset := int(off) * 2

	count, err := readWord(data, offset)
	if err != nil {
		return nil, err
	}
	if count > uint64((len(data)-offset-wordChars)/wordChars) {
		return nil, fmt.Errorf("array length %d exceeds payload", count)
	}

	addrs := make([]common.Address, 0, count)
	for i := 0; i < int(count); i++ {
		start := offset + wordChars + i*wordChars
		raw, err := hex.DecodeString(data[start+24 : start+wordChars])
		if err != nil {
			return nil, fmt.Errorf("malformed address at element %d: %w", i, err)
		}
		addr := common.BytesToAddress(raw)
		if addr == (common.Address{}) {
			// zero address marks an empty contract slot
			continue
		}
		addrs = append(addrs, addr)
	}

	return addrs, nil
}

// DecodeIdentityMoniker decodes the moniker string from an ABI-encoded
// identity struct whose first field is a dynamic string. Any
// malformation (bad offsets, declared length 0 or over the bound,
// truncated data, invalid hex or UTF-8) yields absent rather than an
// error: a validator without a readable identity is missing data, not a
// failure.
func DecodeIdentityMoniker(hexResult string) (string, bool) {
	moniker, err := decodeIdentityMoniker(hexResult)
	if err != nil || moniker == "" {
		return "", false
	}
	return moniker, true
}

func decodeIdentityMoniker(hexResult string) (string, error) {
	data := strings.TrimPrefix(hexResult, "0x")
	if len(data) < 2*wordChars {
		return "", nil
	}

	outer, err := readWord(data, 0)
	if err != nil {
		return "", err
	}
	if outer > uint64(len(data)) {
		return "", fmt.Errorf("struct offset %d past end of payload", outer)
	}
	structStart := int(outer) * 2
	if structStart > len(data) {
		return "", fmt.Errorf("struct offset %d past end of payload", outer)
	}
	structHex := data[structStart:]

	// First field of the struct is the byte offset, relative to the
	// struct start, of the length-prefixed moniker string.
	monikerOff, err := readWord(structHex, 0)
	if err != nil {
		return "", err
	}
	if monikerOff > uint64(len(structHex)) {
		return "", fmt.Errorf("moniker offset %d past end of struct", monikerOff)
	}
	pos := int(monikerOff) * 2

	length, err := readWord(structHex, pos)
	if err != nil {
		return "", err
	}
	if length == 0 || length > config.MaxMonikerLength {
		return "", nil
	}

	end := pos + wordChars + int(length)*2
	if end > len(structHex) {
		return "", fmt.Errorf("moniker data truncated: need %d chars, have %d", end, len(structHex))
	}
	raw, err := hex.DecodeString(structHex[pos+wordChars : end])
	if err != nil {
		return "", fmt.Errorf("malformed moniker hex: %w", err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("moniker is not valid UTF-8")
	}

	return string(raw), nil
}
