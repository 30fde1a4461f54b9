package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/josh-kwaku/dotpay-gateway/internal/signature"
)

func chkCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "chk key=value...",
		Short:   "Compute the chk checksum of a payment form",
		Example: `  dotpayctl chk --pin secret id=123456 amount=10.00 currency=PLN description="Order 5"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pin, err := pinFlag(cmd)
			if err != nil {
				return err
			}
			fields, err := parseFields(args)
			if err != nil {
				return err
			}
			chk, err := signature.ComputeCHK(pin, fields)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), chk)
			return nil
		},
	}
}

func parseFields(args []string) (map[string]string, error) {
	fields := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid field %q, expected key=value", arg)
		}
		fields[k] = v
	}
	return fields, nil
}
