// Command driftcachedemo is a small example program wiring cache,
// persistence, and serializer together around a toy stock-quote model,
// the same scale of demo as the original's YMCacheMantleExample.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/driftcache/driftcache/cache"
	"github.com/driftcache/driftcache/persistence"
	"github.com/driftcache/driftcache/serializer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// quote is the demo's value type, the Go analogue of the original's
// Mantle-backed Stock model minus the Mantle framework dependency.
type quote struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Last      float64   `json:"last"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var symbols = []struct {
	symbol, name string
}{
	{"YHOO", "Yahoo! Inc."},
	{"AAPL", "Apple Inc."},
	{"GOOG", "Alphabet Inc."},
}

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "driftcachedemo",
	Short: "Demonstrates driftcache wired to a persisted stock-quote cache",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.AddCommand(runCmd, statsCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the demo cache, simulating periodic price updates until interrupted",
	RunE:  runRun,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Load the cache file from disk and print a summary, without running the simulation",
	RunE:  runStats,
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	decider := func(_ string, q quote, _ any) bool {
		return time.Since(q.UpdatedAt) > cfg.StaleAfter
	}

	c := cache.New[string, quote](cfg.CacheName,
		cache.WithLogger[string, quote](logger),
		cache.WithEvictionDecider(cache.EvictionDecider[string, quote](decider)),
		cache.WithEvictionInterval[string, quote](cfg.EvictionInterval),
		cache.WithNotificationInterval[string, quote](cfg.NotificationInterval),
	)
	defer c.Close()

	ctrl := persistence.New(c, serializer.JSON[quote](), cfg.CacheFile,
		persistence.WithControllerLogger[quote](logger),
		persistence.WithSaveInterval[quote](cfg.SaveInterval),
		persistence.WithWillSave(func(*persistence.Controller[quote]) {
			logger.Info("autosaving cache", zap.String("file", cfg.CacheFile))
		}),
		persistence.WithDidFailToSave(func(_ *persistence.Controller[quote], err error) {
			logger.Warn("autosave failed", zap.Error(err))
		}),
	)
	defer ctrl.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	n, err := ctrl.LoadCache(ctx)
	if err != nil {
		logger.Warn("load failed, starting from an empty cache", zap.Error(err))
	} else {
		logger.Info("loaded cache", zap.Int("entries", n))
	}

	events, unsubscribe := c.Subscribe(8)
	defer unsubscribe()
	go logEvents(logger, events)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s := symbols[rand.Intn(len(symbols))]
			c.Put(s.symbol, quote{
				Symbol:    s.symbol,
				Name:      s.name,
				Last:      100 + rand.Float64()*50,
				UpdatedAt: time.Now(),
			})
		case <-ctx.Done():
			logger.Info("shutting down, saving cache", zap.String("file", cfg.CacheFile))
			if err := ctrl.SaveCache(context.Background()); err != nil {
				logger.Error("final save failed", zap.Error(err))
				return err
			}
			return nil
		}
	}
}

func logEvents(logger *zap.Logger, events <-chan cache.ChangeEvent[string, quote]) {
	for ev := range events {
		logger.Info("cache changed",
			zap.String("cache", ev.CacheName),
			zap.Int("updated", len(ev.UpdatedItems)),
			zap.Int("removed", len(ev.RemovedItems)),
		)
	}
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	c := cache.New[string, quote](cfg.CacheName)
	defer c.Close()

	ctrl := persistence.New(c, serializer.JSON[quote](), cfg.CacheFile)
	defer ctrl.Close()

	n, err := ctrl.LoadCache(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d entries loaded from %s\n", cfg.CacheName, n, cfg.CacheFile)
	for key, q := range c.Snapshot() {
		fmt.Printf("  %-6s %-20s %8.2f  (updated %s)\n", key, q.Name, q.Last, q.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}
