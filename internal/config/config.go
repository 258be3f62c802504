// Package config loads the inference core's process-level configuration:
// the LRU membership-cache size, the default searcher policy, and the
// FlowConfig defaults applied when a caller doesn't override them. It is
// only touched by cmd/scl-infer; every other package takes its
// configuration through explicit constructor arguments.
//
// Grounded on hashicorp-nomad's layered flag/env/file config pattern
// (command/agent's use of spf13/pflag for flags merged into a config
// struct); we additionally use spf13/viper for the file/env layers.
package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kilativ-dotcom/scl-machine/inference"
)

// SearcherPolicy names one of the three template searcher strategies.
type SearcherPolicy string

const (
	PolicyUnrestricted   SearcherPolicy = "unrestricted"
	PolicyInStructures   SearcherPolicy = "in_structures"
	PolicyAccessEdgeOnly SearcherPolicy = "access_edge_only"
)

// Config is the complete set of process-level knobs.
type Config struct {
	LogLevel       string
	SearcherPolicy SearcherPolicy
	LRUCacheSize   int
	Flow           inference.FlowConfig
}

// Defaults returns the configuration used when no flag, environment
// variable, or config file overrides a field.
func Defaults() Config {
	return Config{
		LogLevel:       "info",
		SearcherPolicy: PolicyUnrestricted,
		LRUCacheSize:   1 << 16,
		Flow: inference.FlowConfig{
			GenerateSolutionTree:     true,
			SearchInKbWhenGenerating: true,
			ReplacementsAll:          false,
		},
	}
}

// BindFlags registers the flags Load reads back out of v, following the
// pflag-into-viper binding idiom: flags take precedence over a config
// file, which takes precedence over these defaults.
func BindFlags(flags *pflag.FlagSet, v *viper.Viper) error {
	d := Defaults()
	flags.String("log-level", d.LogLevel, "log level (trace, debug, info, warn, error)")
	flags.String("searcher-policy", string(d.SearcherPolicy), "template searcher policy (unrestricted, in_structures, access_edge_only)")
	flags.Int("lru-cache-size", d.LRUCacheSize, "membership cache size for the in_structures searcher policy")
	flags.Bool("generate-solution-tree", d.Flow.GenerateSolutionTree, "record a solution tree for each rule application")
	flags.Bool("search-in-kb-when-generating", d.Flow.SearchInKbWhenGenerating, "search for pre-existing instances before generating an atom")
	flags.Bool("replacements-all", d.Flow.ReplacementsAll, "enumerate every template match instead of stopping at the first")

	return v.BindPFlags(flags)
}

// Load reads the bound flags (and any config file / environment variables
// v was set up to read) into a Config.
func Load(v *viper.Viper) (Config, error) {
	cfg := Defaults()
	cfg.LogLevel = v.GetString("log-level")
	cfg.SearcherPolicy = SearcherPolicy(v.GetString("searcher-policy"))
	cfg.LRUCacheSize = v.GetInt("lru-cache-size")
	cfg.Flow.GenerateSolutionTree = v.GetBool("generate-solution-tree")
	cfg.Flow.SearchInKbWhenGenerating = v.GetBool("search-in-kb-when-generating")
	cfg.Flow.ReplacementsAll = v.GetBool("replacements-all")

	switch cfg.SearcherPolicy {
	case PolicyUnrestricted, PolicyInStructures, PolicyAccessEdgeOnly:
	default:
		return Config{}, fmt.Errorf("config: unknown searcher policy %q", cfg.SearcherPolicy)
	}
	if cfg.LRUCacheSize < 1 {
		return Config{}, fmt.Errorf("config: lru-cache-size must be positive, got %d", cfg.LRUCacheSize)
	}
	return cfg, nil
}
