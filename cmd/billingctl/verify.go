package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/restaurant-billing/internal/infrastructure/xmlinvoice"
)

func verifyInvoiceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify-invoice <factura.xml>",
		Short: "Valida el digest (y la firma, si la trae) de una factura XML exportada",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := xmlinvoice.Verify(data); err != nil {
				return err
			}
			if xmlinvoice.Signed(data) {
				fmt.Fprintln(cmd.OutOrStdout(), "OK (firmada)")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "OK")
			}
			return nil
		},
	}
}
