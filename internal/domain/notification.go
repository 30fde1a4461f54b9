package domain

import "net/url"

type OperationStatus string

const (
	OperationStatusCompleted  OperationStatus = "completed"
	OperationStatusRejected   OperationStatus = "rejected"
	OperationStatusNew        OperationStatus = "new"
	OperationStatusProcessing OperationStatus = "processing"
)

// Notification is a single urlc confirmation posted by Dotpay.
type Notification struct {
	ID                                   string
	OperationNumber                      string
	OperationType                        string
	OperationStatus                      OperationStatus
	OperationAmount                      string
	OperationCurrency                    string
	OperationWithdrawalAmount            string
	OperationCommissionAmount            string
	IsCompleted                          string
	OperationOriginalAmount              string
	OperationOriginalCurrency            string
	OperationDatetime                    string
	OperationRelatedNumber               string
	Control                              string
	Description                          string
	Email                                string
	PInfo                                string
	PEmail                               string
	CreditCardIssuerIdentificationNumber string
	CreditCardMaskedNumber               string
	CreditCardExpirationYear             string
	CreditCardExpirationMonth            string
	CreditCardBrandCodename              string
	CreditCardBrandCode                  string
	CreditCardUniqueIdentifier           string
	CreditCardID                         string
	Channel                              string
	ChannelCountry                       string
	GeoIPCountry                         string
	PayerBankAccountName                 string
	PayerBankAccount                     string
	PayerTransferTitle                   string
	BlikVoucherPin                       string
	BlikVoucherAmount                    string
	BlikVoucherAmountUsed                string
	Signature                            string
}

// SignatureFields returns the notification values in the order the remote
// signer concatenates them. The order is part of the wire contract.
func (n Notification) SignatureFields() []string {
	return []string{
		n.OperationNumber,
		n.OperationType,
		string(n.OperationStatus),
		n.OperationAmount,
		n.OperationCurrency,
		n.OperationWithdrawalAmount,
		n.OperationCommissionAmount,
		n.IsCompleted,
		n.OperationOriginalAmount,
		n.OperationOriginalCurrency,
		n.OperationDatetime,
		n.OperationRelatedNumber,
		n.Control,
		n.Description,
		n.Email,
		n.PInfo,
		n.PEmail,
		n.CreditCardIssuerIdentificationNumber,
		n.CreditCardMaskedNumber,
		n.CreditCardExpirationYear,
		n.CreditCardExpirationMonth,
		n.CreditCardBrandCodename,
		n.CreditCardBrandCode,
		n.CreditCardUniqueIdentifier,
		n.CreditCardID,
		n.Channel,
		n.ChannelCountry,
		n.GeoIPCountry,
		n.PayerBankAccountName,
		n.PayerBankAccount,
		n.PayerTransferTitle,
		n.BlikVoucherPin,
		n.BlikVoucherAmount,
		n.BlikVoucherAmountUsed,
	}
}

func NotificationFromValues(v url.Values) Notification {
	return Notification{
		ID:                                   v.Get("id"),
		OperationNumber:                      v.Get("operation_number"),
		OperationType:                        v.Get("operation_type"),
		OperationStatus:                      OperationStatus(v.Get("operation_status")),
		OperationAmount:                      v.Get("operation_amount"),
		OperationCurrency:                    v.Get("operation_currency"),
		OperationWithdrawalAmount:            v.Get("operation_withdrawal_amount"),
		OperationCommissionAmount:            v.Get("operation_commission_amount"),
		IsCompleted:                          v.Get("is_completed"),
		OperationOriginalAmount:              v.Get("operation_original_amount"),
		OperationOriginalCurrency:            v.Get("operation_original_currency"),
		OperationDatetime:                    v.Get("operation_datetime"),
		OperationRelatedNumber:               v.Get("operation_related_number"),
		Control:                              v.Get("control"),
		Description:                          v.Get("description"),
		Email:                                v.Get("email"),
		PInfo:                                v.Get("p_info"),
		PEmail:                               v.Get("p_email"),
		CreditCardIssuerIdentificationNumber: v.Get("credit_card_issuer_identification_number"),
		CreditCardMaskedNumber:               v.Get("credit_card_masked_number"),
		CreditCardExpirationYear:             v.Get("credit_card_expiration_year"),
		CreditCardExpirationMonth:            v.Get("credit_card_expiration_month"),
		CreditCardBrandCodename:              v.Get("credit_card_brand_codename"),
		CreditCardBrandCode:                  v.Get("credit_card_brand_code"),
		CreditCardUniqueIdentifier:           v.Get("credit_card_unique_identifier"),
		CreditCardID:                         v.Get("credit_card_id"),
		Channel:                              v.Get("channel"),
		ChannelCountry:                       v.Get("channel_country"),
		GeoIPCountry:                         v.Get("geoip_country"),
		PayerBankAccountName:                 v.Get("payer_bank_account_name"),
		PayerBankAccount:                     v.Get("payer_bank_account"),
		PayerTransferTitle:                   v.Get("payer_transfer_title"),
		BlikVoucherPin:                       v.Get("blik_voucher_pin"),
		BlikVoucherAmount:                    v.Get("blik_voucher_amount"),
		BlikVoucherAmountUsed:                v.Get("blik_voucher_amount_used"),
		Signature:                            v.Get("signature"),
	}
}

// Values is the inverse of NotificationFromValues. Empty fields are omitted.
func (n Notification) Values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("id", n.ID)
	set("operation_number", n.OperationNumber)
	set("operation_type", n.OperationType)
	set("operation_status", string(n.OperationStatus))
	set("operation_amount", n.OperationAmount)
	set("operation_currency", n.OperationCurrency)
	set("operation_withdrawal_amount", n.OperationWithdrawalAmount)
	set("operation_commission_amount", n.OperationCommissionAmount)
	set("is_completed", n.IsCompleted)
	set("operation_original_amount", n.OperationOriginalAmount)
	set("operation_original_currency", n.OperationOriginalCurrency)
	set("operation_datetime", n.OperationDatetime)
	set("operation_related_number", n.OperationRelatedNumber)
	set("control", n.Control)
	set("description", n.Description)
	set("email", n.Email)
	set("p_info", n.PInfo)
	set("p_email", n.PEmail)
	set("credit_card_issuer_identification_number", n.CreditCardIssuerIdentificationNumber)
	set("credit_card_masked_number", n.CreditCardMaskedNumber)
	set("credit_card_expiration_year", n.CreditCardExpirationYear)
	set("credit_card_expiration_month", n.CreditCardExpirationMonth)
	set("credit_card_brand_codename", n.CreditCardBrandCodename)
	set("credit_card_brand_code", n.CreditCardBrandCode)
	set("credit_card_unique_identifier", n.CreditCardUniqueIdentifier)
	set("credit_card_id", n.CreditCardID)
	set("channel", n.Channel)
	set("channel_country", n.ChannelCountry)
	set("geoip_country", n.GeoIPCountry)
	set("payer_bank_account_name", n.PayerBankAccountName)
	set("payer_bank_account", n.PayerBankAccount)
	set("payer_transfer_title", n.PayerTransferTitle)
	set("blik_voucher_pin", n.BlikVoucherPin)
	set("blik_voucher_amount", n.BlikVoucherAmount)
	set("blik_voucher_amount_used", n.BlikVoucherAmountUsed)
	set("signature", n.Signature)
	return v
}
