package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/polkabridge/substrate-client/cmd/utils"
	"github.com/polkabridge/substrate-client/common"
	"github.com/polkabridge/substrate-client/common/hexutil"
	"github.com/polkabridge/substrate-client/params"
)

var addressCommand = &cli.Command{
	Action:    address,
	Name:      "address",
	Usage:     "convert between account id and ss58 address",
	ArgsUsage: "<0xAccountID | ss58Address>",
	Flags: []cli.Flag{
		&cli.UintFlag{
			Name:  "prefix",
			Usage: "ss58 network prefix used when encoding",
			Value: uint(42),
		},
	},
}

func address(ctx *cli.Context) error {
	utils.SetLogger(ctx)
	if ctx.NArg() != 1 {
		return fmt.Errorf("miss account argument")
	}
	arg := ctx.Args().Get(0)

	if raw, err := hexutil.Decode(arg); err == nil {
		if len(raw) != common.AddressLength {
			return fmt.Errorf("wrong account id length %v", len(raw))
		}
		prefix := uint8(ctx.Uint("prefix"))
		if !ctx.IsSet("prefix") {
			prefix = params.GetSS58Prefix()
		}
		fmt.Println(common.BytesToAccountID(raw).ToAddress(prefix))
		return nil
	}

	accountID, prefix, err := common.DecodeAddress(arg)
	if err != nil {
		return err
	}
	fmt.Println(hexutil.Encode(accountID.Bytes()))
	fmt.Println("network prefix:", prefix)
	return nil
}
