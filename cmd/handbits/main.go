package main

import (
	"github.com/alecthomas/kong"

	"github.com/lox/handbits/internal/config"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Classify ClassifyCmd      `cmd:"" help:"Classify a five card hand"`
	Deal     DealCmd          `cmd:"" help:"Shuffle a deck, deal hands and classify them"`
	Survey   SurveyCmd        `cmd:"" help:"Deal many random hands and tally categories"`
	Bits     BitsCmd          `cmd:"" help:"Print the card bit reference table"`
	Serve    ServeCmd         `cmd:"" help:"Serve the classifier over WebSocket"`
	Play     PlayCmd          `cmd:"" help:"Deal hands interactively in the terminal"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("handbits"),
		kong.Description("Five card poker hand classification with bit arithmetic"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version":     version,
			"config_file": config.DefaultFile,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
