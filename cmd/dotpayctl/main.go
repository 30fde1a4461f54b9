// Command dotpayctl is the operator tool for the gateway: it signs payment
// forms and replays confirmations against a running instance.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "dotpayctl",
		Short:         "Operator tooling for the Dotpay gateway",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("pin", os.Getenv("DOTPAY_PIN"), "seller PIN (default $DOTPAY_PIN)")

	rootCmd.AddCommand(chkCmd())
	rootCmd.AddCommand(notifyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func pinFlag(cmd *cobra.Command) (string, error) {
	pin, err := cmd.Flags().GetString("pin")
	if err != nil {
		return "", err
	}
	if pin == "" {
		return "", fmt.Errorf("--pin or DOTPAY_PIN is required")
	}
	return pin, nil
}
