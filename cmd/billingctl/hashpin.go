package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/restaurant-billing/internal/application/auth"
)

func hashPinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-pin <pin>",
		Short: "Imprime el hash bcrypt de un PIN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPIN(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
