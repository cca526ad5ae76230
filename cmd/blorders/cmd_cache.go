package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"blorders/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Export or import the persistent search cache (cache.dir)",
}

var cacheDumpCmd = &cobra.Command{
	Use:   "dump <file.json>",
	Short: "Write the search cache to a JSON snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := persistentCache()
		if err != nil {
			return err
		}
		if err := cache.WriteSnapshot(args[0], st); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Snapshot written to %s\n", args[0])
		return nil
	},
}

var cacheLoadCmd = &cobra.Command{
	Use:   "load <file.json>",
	Short: "Seed the search cache from a JSON snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := persistentCache()
		if err != nil {
			return err
		}
		n, err := cache.LoadSnapshot(args[0], st)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d entries\n", n)
		return nil
	},
}

func persistentCache() (cache.Store, error) {
	if cfg.CacheDir == "" {
		return nil, errors.New("cache.dir is not set")
	}
	return cacheStore()
}

func init() {
	cacheCmd.AddCommand(cacheDumpCmd, cacheLoadCmd)
	rootCmd.AddCommand(cacheCmd)
}
