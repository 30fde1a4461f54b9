package main

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"

	"github.com/josh-kwaku/dotpay-gateway/internal/domain"
	"github.com/josh-kwaku/dotpay-gateway/internal/signature"
)

func notifyCmd() *cobra.Command {
	var (
		target       string
		forwardedFor string
		n            domain.Notification
		status       string
	)

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send a signed confirmation to a gateway",
		Long: `Builds a confirmation the way the processor does, signs it with the
seller PIN and posts it to the gateway's confirmation URL. The gateway's
plain-text answer is printed as-is.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pin, err := pinFlag(cmd)
			if err != nil {
				return err
			}
			n.OperationStatus = domain.OperationStatus(status)
			if n.OperationAmount == "" {
				n.OperationAmount = n.OperationOriginalAmount
			}
			if n.OperationCurrency == "" {
				n.OperationCurrency = n.OperationOriginalCurrency
			}
			if n.OperationDatetime == "" {
				n.OperationDatetime = time.Now().Format("2006-01-02 15:04:05")
			}
			n.Signature = signature.SignConfirmation(pin, n.ID, n)

			req := resty.New().SetTimeout(30 * time.Second).R().
				SetContext(cmd.Context()).
				SetFormDataFromValues(n.Values())
			if forwardedFor != "" {
				req.SetHeader("X-Forwarded-For", forwardedFor)
			}
			resp, err := req.Post(target)
			if err != nil {
				return fmt.Errorf("notify: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", resp.StatusCode(), resp.String())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&target, "url", "http://localhost:8080/dotpay/confirm", "confirmation URL")
	f.StringVar(&forwardedFor, "forwarded-for", "", "X-Forwarded-For header to send")
	f.StringVar(&n.ID, "seller-id", "", "seller id")
	f.StringVar(&n.OperationNumber, "operation-number", "M1000-00001", "transaction number")
	f.StringVar(&n.OperationType, "operation-type", "payment", "operation type")
	f.StringVar(&status, "status", string(domain.OperationStatusCompleted), "operation status (completed, rejected, new, processing)")
	f.StringVar(&n.OperationOriginalAmount, "amount", "", "original amount")
	f.StringVar(&n.OperationOriginalCurrency, "currency", "PLN", "original currency")
	f.StringVar(&n.OperationAmount, "operation-amount", "", "operation amount (default: --amount)")
	f.StringVar(&n.OperationCurrency, "operation-currency", "", "operation currency (default: --currency)")
	f.StringVar(&n.Control, "control", "", "control value from the payment form")
	f.StringVar(&n.Email, "email", "", "payer email")
	f.StringVar(&n.Channel, "channel", "", "payment channel id")
	_ = cmd.MarkFlagRequired("seller-id")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("control")

	return cmd
}
