package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	verbose      bool
	quietFlag    bool
	frontendFlag string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "phpreflect",
	Short: "phpreflect - static reflection for PHP sources",
	Long: `phpreflect reads PHP source code without running it and builds a model of
its packages, classes, functions, constants, includes and dependencies.

The model can be printed in PHP Reflection style, turned into a package
dependency graph, exported to SQLite, or kept up to date while files change.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <root>/.phpreflect/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "disable progress bars and warnings")
	rootCmd.PersistentFlags().StringVar(&frontendFlag, "frontend", "", "front end to use: tokens or ast (overrides config)")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("frontend", rootCmd.PersistentFlags().Lookup("frontend"))
}

// initConfig applies the global flags to logging. Project configuration is
// loaded per command, relative to the analyzed root.
func initConfig() {
	if viper.GetBool("quiet") {
		log.SetOutput(io.Discard)
	}
	if viper.GetBool("verbose") && viper.GetString("config") != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.GetString("config"))
	}
}
