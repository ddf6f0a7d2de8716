package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd is the base command for the resolver CLI.
var rootCmd = &cobra.Command{
	Use:   "resolve",
	Short: "resolve extracts a standardized financial model from an XBRL fact table",
	Long: `resolve reads a flattened XBRL fact table (CSV) for one filing and
resolves a BaseFinancialModel plus the matching industry extension, tracing
every field back to the concept (or derivation) it came from.

Facts are searched by concept regex across a staged resolution pipeline:
a strict pass against the filing's anchor date, a dimensional pass, then a
relaxed pass that drops the statement-type and anchor-date filters. The
total debt figure additionally applies a configurable policy for whether
finance lease liabilities are folded into the headline number.`,
}

// Execute runs the root command; called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.resolve.yaml)")
	rootCmd.PersistentFlags().String("total-debt-policy", "", "include_finance_leases or exclude_finance_leases (default: env FUNDAMENTAL_TOTAL_DEBT_POLICY, else include_finance_leases)")
	rootCmd.PersistentFlags().Bool("verbose", false, "emit debug-level diagnostics")

	if err := viper.BindPFlag("total_debt_policy", rootCmd.PersistentFlags().Lookup("total-debt-policy")); err != nil {
		log.Fatal().Err(err).Msg("BindPFlag for total-debt-policy failed")
	}
	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		log.Fatal().Err(err).Msg("BindPFlag for verbose failed")
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".resolve")
		}
	}

	viper.SetEnvPrefix("FUNDAMENTAL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Debug().Str("file", viper.ConfigFileUsed()).Msg("loaded config file")
	}
}

func main() {
	Execute()
}
