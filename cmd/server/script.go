package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
	"github.com/KirkDiggler/rpg-gameplay/internal/scripting"
)

var (
	scriptTicks int
	scriptSpawn []string
)

var scriptCmd = &cobra.Command{
	Use:   "script <file.lua>",
	Short: "Run a Lua script against a fresh world and print the resulting state",
	Long: `Run a Lua script against a fresh world store. Commands the script submits
are applied over the given number of ticks, then the state of every entity is
printed as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func init() {
	scriptCmd.Flags().IntVar(&scriptTicks, "ticks", 1, "ticks to run after the script returns")
	scriptCmd.Flags().StringSliceVar(&scriptSpawn, "spawn", []string{"player_1"}, "actor ids to spawn before the script runs")
	scriptCmd.Flags().StringVar(&dialogPath, "dialogue", "", "dialogue content file (overrides GAMEPLAY_DIALOGUE_PATH)")
}

func runScript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogging(cfg.SlogLevel())

	if scriptTicks < 0 {
		return errors.InvalidArgumentf("ticks must not be negative")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, err := newStore(cfg)
	if err != nil {
		return err
	}
	if err := spawnActors(ctx, store, scriptSpawn); err != nil {
		return err
	}

	host, err := scripting.NewHost(&scripting.Config{
		Sink:   store,
		Bridge: cfg.Bridge(),
	})
	if err != nil {
		return err
	}
	defer host.Close()

	if err := host.DoFile(ctx, args[0]); err != nil {
		return err
	}

	dt := float32(cfg.TickPeriod()) / float32(time.Second)
	for i := 0; i < scriptTicks; i++ {
		store.Tick(ctx, dt)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	for _, id := range store.IDs() {
		state, err := store.Lookup(id)
		if err != nil {
			return err
		}
		if err := enc.Encode(state); err != nil {
			return errors.Wrap(err, "failed to write entity state")
		}
	}
	return nil
}
