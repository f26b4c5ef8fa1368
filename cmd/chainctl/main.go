package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/polkabridge/substrate-client/cmd/utils"
	"github.com/polkabridge/substrate-client/log"
	"github.com/polkabridge/substrate-client/params"
)

var (
	clientIdentifier = "chainctl"
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app = utils.NewApp(clientIdentifier, gitCommit, gitDate, "the chainctl command line interface")
)

func init() {
	app.Action = chainctl
	app.HideVersion = true // we have a command to print the version
	app.Commands = []*cli.Command{
		utils.VersionCommand,
		storageKeyCommand,
		getStorageCommand,
		listStorageKeysCommand,
		addressCommand,
		transferCommand,
	}
	app.Flags = []cli.Flag{
		utils.ConfigFileFlag,
		utils.VerbosityFlag,
		utils.JSONFormatFlag,
		utils.ColorFormatFlag,
	}
	sort.Sort(cli.CommandsByName(app.Commands))
}

func main() {
	if err := app.Run(os.Args); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func chainctl(ctx *cli.Context) error {
	if ctx.NArg() > 0 {
		return fmt.Errorf("invalid command: %q", ctx.Args().Get(0))
	}
	_ = cli.ShowAppHelp(ctx)
	return nil
}

func loadConfig(ctx *cli.Context) {
	utils.SetLogger(ctx)
	configFile := utils.GetConfigFilePath(ctx)
	params.LoadConfig(configFile)
	// pick up config edits while a long watch is running
	if _, err := params.WatchConfig(configFile); err != nil {
		log.Warn("watch config file failed", "configFile", configFile, "err", err)
	}
}
