package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/polkabridge/substrate-client/cmd/utils"
	"github.com/polkabridge/substrate-client/common"
	"github.com/polkabridge/substrate-client/common/hexutil"
	"github.com/polkabridge/substrate-client/log"
	"github.com/polkabridge/substrate-client/substrate"
)

var (
	storageKeyCommand = &cli.Command{
		Action:    derivestoragekey,
		Name:      "storagekey",
		Usage:     "derive a storage key offline",
		ArgsUsage: "<pallet> <entry> [hexKeyArg ...]",
		Description: `
derive the raw storage key of a pallet storage entry. Map entries take
their encoded key arguments as 0x prefixed hex strings, in order.
`,
	}
	getStorageCommand = &cli.Command{
		Action:    getstorage,
		Name:      "getstorage",
		Usage:     "fetch a raw storage value from the node",
		ArgsUsage: "<pallet> <entry> [hexKeyArg ...]",
		Flags: []cli.Flag{
			utils.ConfigFileFlag,
			utils.BlockHashFlag,
		},
	}
	listStorageKeysCommand = &cli.Command{
		Action:    liststoragekeys,
		Name:      "liststoragekeys",
		Usage:     "enumerate the storage keys under an entry prefix",
		ArgsUsage: "<pallet> <entry>",
		Flags: []cli.Flag{
			utils.ConfigFileFlag,
			utils.BlockHashFlag,
			&cli.UintFlag{
				Name:  "pagesize",
				Usage: "keys per protocol round trip",
				Value: 100,
			},
		},
	}
)

func storageEntryFromArgs(ctx *cli.Context) (substrate.StorageEntry, error) {
	if ctx.NArg() < 2 {
		return substrate.StorageEntry{}, fmt.Errorf("miss pallet and entry name arguments")
	}
	entry := substrate.StorageEntry{
		Pallet: ctx.Args().Get(0),
		Entry:  ctx.Args().Get(1),
	}
	for i := 2; i < ctx.NArg(); i++ {
		arg, err := hexutil.Decode(ctx.Args().Get(i))
		if err != nil {
			return substrate.StorageEntry{}, fmt.Errorf("wrong hex key argument %q: %w", ctx.Args().Get(i), err)
		}
		entry.KeyArgs = append(entry.KeyArgs, arg)
	}
	return entry, nil
}

func atBlockFromArgs(ctx *cli.Context) *common.Hash {
	blockArg := ctx.String(utils.BlockHashFlag.Name)
	if blockArg == "" {
		return nil
	}
	hash := common.HexToHash(blockArg)
	return &hash
}

func derivestoragekey(ctx *cli.Context) error {
	utils.SetLogger(ctx)
	entry, err := storageEntryFromArgs(ctx)
	if err != nil {
		return err
	}
	key, err := substrate.NewBridge(nil).DeriveStorageKey(entry)
	if err != nil {
		return err
	}
	fmt.Println(key.Hex())
	return nil
}

func getstorage(ctx *cli.Context) error {
	loadConfig(ctx)
	entry, err := storageEntryFromArgs(ctx)
	if err != nil {
		return err
	}
	gateway, err := substrate.NewRPCGateway()
	if err != nil {
		return err
	}
	defer gateway.Close()

	value, err := substrate.NewBridge(gateway).FetchStorage(context.Background(), entry, atBlockFromArgs(ctx))
	if err != nil {
		return err
	}
	if value == nil {
		log.Info("storage value absent", "pallet", entry.Pallet, "entry", entry.Entry)
		return nil
	}
	fmt.Println(hexutil.Encode(value))
	return nil
}

func liststoragekeys(ctx *cli.Context) error {
	loadConfig(ctx)
	entry, err := storageEntryFromArgs(ctx)
	if err != nil {
		return err
	}
	gateway, err := substrate.NewRPCGateway()
	if err != nil {
		return err
	}
	defer gateway.Close()

	bridge := substrate.NewBridge(gateway)
	at := atBlockFromArgs(ctx)
	pageSize := uint32(ctx.Uint("pagesize"))

	var startKey substrate.StorageKey
	total := 0
	for {
		page, err := bridge.FetchStorageKeys(context.Background(), entry, pageSize, startKey, at)
		if err != nil {
			return err
		}
		if len(page) == 0 {
			break
		}
		for _, key := range page {
			fmt.Println(key.Hex())
		}
		total += len(page)
		startKey = page[len(page)-1]
	}
	log.Info("list storage keys finished", "pallet", entry.Pallet, "entry", entry.Entry, "count", total)
	return nil
}
