package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kilativ-dotcom/scl-machine/internal/config"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:   "scl-infer",
	Short: "Run a forward-chaining inference over a JSON-described knowledge base",
}

func init() {
	if err := config.BindFlags(rootCmd.PersistentFlags(), v); err != nil {
		panic(err)
	}
	rootCmd.AddCommand(runCmd)
}
