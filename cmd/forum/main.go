package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:          "forum",
		Short:        "Lottery community forum: member API and admin panel",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "",
		"config file (default $CONFIG_PATH, then ./configs/config.local.yaml)")

	root.AddCommand(
		newServeCmd(&cfgPath),
		newMembersCmd(&cfgPath),
		newHashPasscodeCmd(),
	)
	return root
}
