package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lox/kuhnpoker/internal/config"
)

var cli struct {
	Debug    bool   `help:"enable debug logging"`
	JSONLogs bool   `help:"emit structured JSON logs" name:"json-logs"`
	Config   string `help:"HCL configuration file" type:"path" default:"kuhn.hcl"`

	Train TrainCmd `cmd:"" help:"train a Kuhn Poker strategy with CFR and print it"`
	Eval  EvalCmd  `cmd:"" help:"train, then measure the game value exactly and by self-play"`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("kuhn"),
		kong.Description("Kuhn Poker CFR solver"),
		kong.UsageOnError(),
	)

	cfg, err := config.Load(cli.Config)
	if err != nil {
		log.Fatal().Err(err).Str("path", cli.Config).Msg("failed to load config")
	}

	logger := setupLogger(os.Stderr, cfg.Logging.Level, cli.Debug, cli.JSONLogs || cfg.Logging.JSON)
	log.Logger = logger
	zerolog.DefaultContextLogger = &logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch kctx.Command() {
	case "train":
		err = cli.Train.Run(ctx, cfg, logger, os.Stdout)
	case "eval":
		err = cli.Eval.Run(ctx, cfg, logger, os.Stdout)
	default:
		logger.Fatal().Msgf("unknown command: %s", kctx.Command())
	}
	if err != nil {
		stop()
		logger.Fatal().Err(err).Msgf("%s failed", kctx.Command())
	}
}
