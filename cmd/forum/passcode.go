package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"lottery-forum/pkg/utils"
)

func newHashPasscodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-passcode <passcode>",
		Short: "Print a bcrypt hash for auth.adminPasscodeHash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h := utils.HashPassword(args[0])
			if h == "" {
				return errors.New("hash passcode failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
}
