package main

import (
	"fmt"
	"sort"

	"github.com/LdDl/coin-counter/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := config.NewViper(configPath)
		if err != nil {
			return err
		}
		keys := v.AllKeys()
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %v\n", key, v.Get(key))
		}
		return nil
	},
}
