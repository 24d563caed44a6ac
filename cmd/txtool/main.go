/*
   Copyright 2021 Erigon contributors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Command txtool decodes, signs, and recovers senders for the five
// Ethereum transaction envelopes from the command line.
package main

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/ethcodec/txcodec/common"
	"github.com/ethcodec/txcodec/common/hexutil"
	"github.com/ethcodec/txcodec/crypto"
	"github.com/ethcodec/txcodec/types"
)

var (
	keyFlag = &cli.StringFlag{
		Name:    "key",
		Usage:   "signing private key, as 64 hex characters (optionally 0x-prefixed)",
		EnvVars: []string{"TXTOOL_KEY"},
	}
	typeFlag = &cli.StringFlag{
		Name:  "type",
		Usage: "envelope type: legacy, access-list, dynamic-fee, blob, set-code",
		Value: "dynamic-fee",
	}
	chainIDFlag    = &cli.StringFlag{Name: "chain-id", Value: "1"}
	nonceFlag      = &cli.Uint64Flag{Name: "nonce"}
	toFlag         = &cli.StringFlag{Name: "to", Usage: "recipient address, omit for contract creation"}
	valueFlag      = &cli.StringFlag{Name: "value", Value: "0"}
	dataFlag       = &cli.StringFlag{Name: "data", Usage: "call data, as hex"}
	gasLimitFlag   = &cli.Uint64Flag{Name: "gas-limit", Value: 21000}
	gasPriceFlag   = &cli.StringFlag{Name: "gas-price", Usage: "legacy/access-list gas price"}
	gasTipFlag     = &cli.StringFlag{Name: "gas-tip", Usage: "max priority fee per gas"}
	gasFeeCapFlag  = &cli.StringFlag{Name: "gas-fee-cap", Usage: "max fee per gas"}
	accessListFlag = &cli.StringFlag{
		Name:  "access-list",
		Usage: "comma-separated addresses to include with empty storage key sets",
	}
	blobHashFlag   = &cli.StringFlag{Name: "blob-hash", Usage: "comma-separated 32-byte versioned hashes, hex"}
	maxBlobFeeFlag = &cli.StringFlag{Name: "max-blob-fee", Value: "0"}
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	app := cli.NewApp()
	app.Name = "txtool"
	app.Usage = "decode, sign, and recover senders for Ethereum transactions"
	app.UsageText = app.Name + " [command] [flags]"

	app.Commands = []*cli.Command{
		decodeCommand,
		signCommand,
		recoverCommand,
		addressCommand,
	}

	logger.Info("starting", zap.String("args", RedactArgs(os.Args)))

	ctx, cancel := RootContext(logger)
	defer cancel()

	if err := app.RunContext(ctx, os.Args); err != nil {
		logger.Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var decodeCommand = &cli.Command{
	Name:      "decode",
	Usage:     "decode a raw transaction and print its fields",
	ArgsUsage: "<raw-tx-hex>",
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("expected exactly one argument: raw-tx-hex", 1)
		}
		raw, err := decodeHex(c.Args().Get(0))
		if err != nil {
			return err
		}
		tx, err := types.DecodeTransaction(raw)
		if err != nil {
			return err
		}
		printTransaction(tx)
		return nil
	},
}

var recoverCommand = &cli.Command{
	Name:      "recover",
	Usage:     "recover the sender address of a signed raw transaction",
	ArgsUsage: "<raw-tx-hex>",
	Flags:     []cli.Flag{chainIDFlag},
	Action: func(c *cli.Context) error {
		if c.NArg() != 1 {
			return cli.Exit("expected exactly one argument: raw-tx-hex", 1)
		}
		raw, err := decodeHex(c.Args().Get(0))
		if err != nil {
			return err
		}
		tx, err := types.DecodeTransaction(raw)
		if err != nil {
			return err
		}
		chainID, err := parseUint256(c.String(chainIDFlag.Name))
		if err != nil {
			return err
		}
		from, err := tx.Sender(types.NewLatestSigner(chainID))
		if err != nil {
			return err
		}
		fmt.Println(from.Hex())
		return nil
	},
}

var addressCommand = &cli.Command{
	Name:  "address",
	Usage: "print the checksummed address for a private key",
	Flags: []cli.Flag{keyFlag},
	Action: func(c *cli.Context) error {
		prv, err := loadKey(c.String(keyFlag.Name))
		if err != nil {
			return err
		}
		addr := crypto.PubkeyToAddress(prv.PublicKey)
		fmt.Println(crypto.ChecksumEncode(addr))
		return nil
	},
}

var signCommand = &cli.Command{
	Name:  "sign",
	Usage: "build and sign a transaction, printing its raw hex encoding",
	Flags: []cli.Flag{
		keyFlag, typeFlag, chainIDFlag, nonceFlag, toFlag, valueFlag, dataFlag,
		gasLimitFlag, gasPriceFlag, gasTipFlag, gasFeeCapFlag, accessListFlag,
		blobHashFlag, maxBlobFeeFlag,
	},
	Action: runSign,
}

func runSign(c *cli.Context) error {
	prv, err := loadKey(c.String(keyFlag.Name))
	if err != nil {
		return err
	}

	chainID, err := parseUint256(c.String(chainIDFlag.Name))
	if err != nil {
		return fmt.Errorf("chain-id: %w", err)
	}
	value, err := parseUint256(c.String(valueFlag.Name))
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}
	data, err := decodeHex(c.String(dataFlag.Name))
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	to, err := parseOptionalAddress(c.String(toFlag.Name))
	if err != nil {
		return fmt.Errorf("to: %w", err)
	}

	fields := types.CommonTx{
		Nonce:    c.Uint64(nonceFlag.Name),
		To:       to,
		Value:    value,
		Data:     data,
		GasLimit: c.Uint64(gasLimitFlag.Name),
	}

	var tx types.Transaction
	var signer types.Signer

	switch c.String(typeFlag.Name) {
	case "legacy":
		gasPrice, err := parseUint256(c.String(gasPriceFlag.Name))
		if err != nil {
			return fmt.Errorf("gas-price: %w", err)
		}
		tx = &types.LegacyTx{CommonTx: fields, GasPrice: gasPrice}
		signer = types.NewEIP155Signer(chainID)

	case "access-list":
		gasPrice, err := parseUint256(c.String(gasPriceFlag.Name))
		if err != nil {
			return fmt.Errorf("gas-price: %w", err)
		}
		al, err := parseAccessList(c.String(accessListFlag.Name))
		if err != nil {
			return fmt.Errorf("access-list: %w", err)
		}
		tx = &types.AccessListTx{
			LegacyTx:   types.LegacyTx{CommonTx: fields, GasPrice: gasPrice},
			ChainID:    chainID,
			AccessList: al,
		}
		signer = types.NewLatestSigner(chainID)

	case "dynamic-fee":
		tip, err := parseUint256(c.String(gasTipFlag.Name))
		if err != nil {
			return fmt.Errorf("gas-tip: %w", err)
		}
		feeCap, err := parseUint256(c.String(gasFeeCapFlag.Name))
		if err != nil {
			return fmt.Errorf("gas-fee-cap: %w", err)
		}
		al, err := parseAccessList(c.String(accessListFlag.Name))
		if err != nil {
			return fmt.Errorf("access-list: %w", err)
		}
		tx = &types.DynamicFeeTx{
			CommonTx:   fields,
			ChainID:    chainID,
			Tip:        tip,
			FeeCap:     feeCap,
			AccessList: al,
		}
		signer = types.NewLatestSigner(chainID)

	case "blob":
		tip, err := parseUint256(c.String(gasTipFlag.Name))
		if err != nil {
			return fmt.Errorf("gas-tip: %w", err)
		}
		feeCap, err := parseUint256(c.String(gasFeeCapFlag.Name))
		if err != nil {
			return fmt.Errorf("gas-fee-cap: %w", err)
		}
		maxBlobFee, err := parseUint256(c.String(maxBlobFeeFlag.Name))
		if err != nil {
			return fmt.Errorf("max-blob-fee: %w", err)
		}
		al, err := parseAccessList(c.String(accessListFlag.Name))
		if err != nil {
			return fmt.Errorf("access-list: %w", err)
		}
		hashes, err := parseBlobHashes(c.String(blobHashFlag.Name))
		if err != nil {
			return fmt.Errorf("blob-hash: %w", err)
		}
		tx = &types.BlobTx{
			DynamicFeeTx: types.DynamicFeeTx{
				CommonTx:   fields,
				ChainID:    chainID,
				Tip:        tip,
				FeeCap:     feeCap,
				AccessList: al,
			},
			MaxFeePerBlobGas:    maxBlobFee,
			BlobVersionedHashes: hashes,
		}
		signer = types.NewLatestSigner(chainID)

	case "set-code":
		tip, err := parseUint256(c.String(gasTipFlag.Name))
		if err != nil {
			return fmt.Errorf("gas-tip: %w", err)
		}
		feeCap, err := parseUint256(c.String(gasFeeCapFlag.Name))
		if err != nil {
			return fmt.Errorf("gas-fee-cap: %w", err)
		}
		al, err := parseAccessList(c.String(accessListFlag.Name))
		if err != nil {
			return fmt.Errorf("access-list: %w", err)
		}
		tx = &types.SetCodeTransaction{
			DynamicFeeTx: types.DynamicFeeTx{
				CommonTx:   fields,
				ChainID:    chainID,
				Tip:        tip,
				FeeCap:     feeCap,
				AccessList: al,
			},
		}
		signer = types.NewLatestSigner(chainID)

	default:
		return fmt.Errorf("unknown type %q", c.String(typeFlag.Name))
	}

	signed, err := types.SignTx(tx, signer, prv)
	if err != nil {
		return err
	}

	raw, err := types.EncodeTransaction(signed)
	if err != nil {
		return err
	}
	fmt.Println("0x" + hex.EncodeToString(raw))
	return nil
}

func printTransaction(tx types.Transaction) {
	fmt.Printf("type:      0x%02x\n", tx.Type())
	fmt.Printf("hash:      %s\n", tx.Hash().Hex())
	fmt.Printf("nonce:     %d\n", tx.GetNonce())
	if to := tx.GetTo(); to != nil {
		fmt.Printf("to:        %s\n", to.Hex())
	} else {
		fmt.Println("to:        <contract creation>")
	}
	fmt.Printf("value:     %s\n", tx.GetValue().String())
	fmt.Printf("gas-limit: %d\n", tx.GetGasLimit())
	fmt.Printf("data:      0x%s\n", hex.EncodeToString(tx.GetData()))
	if chainID := tx.GetChainID(); chainID != nil {
		fmt.Printf("chain-id:  %s\n", chainID.String())
	}
	if al := tx.GetAccessList(); len(al) > 0 {
		fmt.Printf("access-list: %d entries\n", len(al))
	}
	if hashes := tx.GetBlobHashes(); len(hashes) > 0 {
		fmt.Printf("blob-hashes: %d entries\n", len(hashes))
	}
	if auths := tx.GetAuthorizations(); len(auths) > 0 {
		fmt.Printf("authorizations: %d entries\n", len(auths))
	}
}

func loadKey(keyHex string) (*ecdsa.PrivateKey, error) {
	if keyHex == "" {
		return nil, cli.Exit("missing --key", 1)
	}
	return crypto.HexToECDSA(keyHex)
}

func decodeHex(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	b := hexutil.FromHex(s)
	if b == nil && strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X") != "" {
		return nil, fmt.Errorf("malformed hex string %q", s)
	}
	return b, nil
}

// parseUint256 accepts either a decimal or 0x-prefixed hex integer literal.
func parseUint256(s string) (*uint256.Int, error) {
	if s == "" {
		return new(uint256.Int), nil
	}
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	bi, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	v, overflow := uint256.FromBig(bi)
	if overflow {
		return nil, fmt.Errorf("integer %q overflows 256 bits", s)
	}
	return v, nil
}

func parseOptionalAddress(s string) (*common.Address, error) {
	if s == "" {
		return nil, nil
	}
	if !common.IsHexAddress(s) {
		return nil, fmt.Errorf("invalid address %q", s)
	}
	addr := common.HexToAddress(s)
	return &addr, nil
}

func parseAccessList(s string) (types.AccessList, error) {
	if s == "" {
		return nil, nil
	}
	addrs := CliString2Array(s)
	al := make(types.AccessList, 0, len(addrs))
	for _, a := range addrs {
		if !common.IsHexAddress(a) {
			return nil, fmt.Errorf("invalid address %q", a)
		}
		al = append(al, types.AccessTuple{Address: common.HexToAddress(a)})
	}
	return al, nil
}

func parseBlobHashes(s string) ([]common.Hash, error) {
	if s == "" {
		return nil, nil
	}
	parts := CliString2Array(s)
	hashes := make([]common.Hash, 0, len(parts))
	for _, p := range parts {
		b := hexutil.FromHex(p)
		if len(b) != 32 {
			return nil, fmt.Errorf("blob hash %q is not 32 bytes", p)
		}
		hashes = append(hashes, common.BytesToHash(b))
	}
	return hashes, nil
}
