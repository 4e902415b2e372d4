// Package cmd holds the yatube command line.
package cmd

import (
	"os"

	"github.com/Shkitskiy94/hw05-final/config"
	"github.com/Shkitskiy94/hw05-final/db"
	"github.com/Shkitskiy94/hw05-final/models"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "yatube",
	Short:         "Yatube, a small blogging site",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(configFile); err != nil {
			return err
		}
		setupLogging()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, toml, json or env)")
	rootCmd.AddCommand(newServeCommand(), newMigrateCommand(), newCreateUserCommand(), newCreateGroupCommand())
}

func setupLogging() {
	log.SetOutput(os.Stdout)
	if config.DEBUG_MODE {
		log.SetLevel(log.DebugLevel)
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		return
	}
	log.SetLevel(log.InfoLevel)
	log.SetFormatter(&log.JSONFormatter{})
}

// openDatabase connects and brings the schema up to date.
func openDatabase() error {
	if err := db.Init(); err != nil {
		return err
	}
	return models.Init()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
