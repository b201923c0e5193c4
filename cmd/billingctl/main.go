// billingctl tareas de administración del facturador:
//
//	billingctl seed-menu [--file menu.yaml]   carga el menú (por defecto el incluido) en STORE_DRIVER
//	billingctl hash-pin <pin>                 hash bcrypt para ADMIN_PIN_HASH / CASHIER_PIN_HASH
//	billingctl verify-invoice <factura.xml>   valida digest y firma de una factura XML
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "billingctl",
		Short:        "Administración del facturador del restaurante",
		SilenceUsage: true,
	}
	cmd.AddCommand(seedMenuCmd(), hashPinCmd(), verifyInvoiceCmd())
	return cmd
}
