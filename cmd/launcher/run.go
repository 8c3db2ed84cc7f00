package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/umbra/akane/pkg/bot"
	"github.com/umbra/akane/pkg/cogs/configcog"
	"github.com/umbra/akane/pkg/cogs/external"
	"github.com/umbra/akane/pkg/cogs/meta"
	"github.com/umbra/akane/pkg/cogs/nihongo"
	"github.com/umbra/akane/pkg/cogs/reactionroles"
	"github.com/umbra/akane/pkg/cogs/reddit"
	"github.com/umbra/akane/pkg/cogs/rng"
	"github.com/umbra/akane/pkg/cogs/timecog"
	"github.com/umbra/akane/pkg/cogs/todo"
	"github.com/umbra/akane/pkg/cogs/twitch"
	"github.com/umbra/akane/pkg/cogs/urban"
	"github.com/umbra/akane/pkg/cogs/welcome"
	"github.com/umbra/akane/pkg/store"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Discord and run the bot",
	RunE:  runBot,
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, "config:", e.Error())
		}
		return fmt.Errorf("configuration is invalid, see `launcher config check`")
	}

	logger := newLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.NewWithConfig(ctx, store.Config{ConnString: cfg.Database.URL})
	if err != nil {
		return err
	}
	defer st.Close()

	b, err := bot.New(cfg, st, logger)
	if err != nil {
		return err
	}

	cogs := []bot.Cog{
		meta.New(),
		configcog.New(st),
		todo.New(st),
		timecog.New(st),
		rng.New(),
		urban.New(),
		reddit.New(),
		twitch.New(st),
		welcome.New(st),
		nihongo.New(),
		external.New(),
		reactionroles.New(st),
	}
	for _, cog := range cogs {
		if err := b.AddCog(cog); err != nil {
			return err
		}
		logger.Debug().Str("cog", cog.Name()).Msg("cog loaded")
	}

	if err := b.Start(ctx); err != nil {
		return err
	}
	logger.Info().Int("cogs", len(cogs)).Msg("bot is running, press ctrl-c to exit")

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	return b.Close()
}
