package main

import (
	"context"
	"fmt"
	"math/big"

	"github.com/urfave/cli/v2"

	"github.com/polkabridge/substrate-client/cmd/utils"
	"github.com/polkabridge/substrate-client/common"
	"github.com/polkabridge/substrate-client/common/hexutil"
	"github.com/polkabridge/substrate-client/log"
	"github.com/polkabridge/substrate-client/params"
	"github.com/polkabridge/substrate-client/substrate"
	"github.com/polkabridge/substrate-client/tools/crypto"
	"github.com/polkabridge/substrate-client/types"
)

var transferCommand = &cli.Command{
	Action:    transfer,
	Name:      "transfer",
	Usage:     "sign and submit a balance transfer, then wait for inclusion",
	ArgsUsage: "<ss58Dest> <amount>",
	Flags: []cli.Flag{
		utils.ConfigFileFlag,
		&cli.StringFlag{
			Name:     "seed",
			Usage:    "0x prefixed 32 byte signing seed",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:  "nonce",
			Usage: "account nonce of the signing account",
		},
		&cli.StringFlag{
			Name:  "confirmation",
			Usage: "confirmation level, inblock or finalized (default from config)",
		},
	},
}

func transfer(ctx *cli.Context) error {
	loadConfig(ctx)
	if ctx.NArg() != 2 {
		return fmt.Errorf("miss dest and amount arguments")
	}
	dest, _, err := common.DecodeAddress(ctx.Args().Get(0))
	if err != nil {
		return fmt.Errorf("wrong dest address: %w", err)
	}
	amount, ok := new(big.Int).SetString(ctx.Args().Get(1), 10)
	if !ok {
		return fmt.Errorf("wrong amount %q", ctx.Args().Get(1))
	}
	seed, err := hexutil.Decode(ctx.String("seed"))
	if err != nil {
		return fmt.Errorf("wrong seed: %w", err)
	}
	keypair, err := crypto.NewKeypairFromSeed(seed)
	if err != nil {
		return err
	}

	gateway, err := substrate.NewRPCGateway()
	if err != nil {
		return err
	}
	defer gateway.Close()
	bridge := substrate.NewBridge(gateway)

	call, err := bridge.BuildTransfer(dest, amount)
	if err != nil {
		return err
	}

	chain := params.GetChainConfig()
	genesis := common.HexToHash(chain.GenesisHash)
	state := &types.AccountState{
		Nonce:              ctx.Uint64("nonce"),
		Era:                types.ImmortalEra(),
		GenesisHash:        genesis,
		EraBlockHash:       genesis,
		SpecVersion:        chain.SpecVersion,
		TransactionVersion: chain.TransactionVersion,
	}
	signer := substrate.NewSigner(keypair)
	tx, err := signer.SignExtrinsic(call, state)
	if err != nil {
		return err
	}
	log.Info("signed transfer", "from", signer.Address(), "dest", ctx.Args().Get(0), "amount", amount)

	policy := ctx.String("confirmation")
	if policy == "" {
		policy = params.GetConfirmationPolicy()
	}
	outcome, err := bridge.SubmitAndWatchWithPolicy(context.Background(), tx, policy)
	if err != nil {
		return err
	}

	if failed, found, err := substrate.ExtrinsicFailed(outcome); err != nil {
		return err
	} else if found {
		return fmt.Errorf("transfer dispatch failed, module %v error %v",
			failed.DispatchError.ModuleIndex, failed.DispatchError.ModuleError)
	}
	log.Info("transfer included",
		"block", outcome.BlockHash.String(), "index", outcome.ExtrinsicIndex, "events", len(outcome.Events))
	return nil
}
