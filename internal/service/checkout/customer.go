package checkout

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strconv"

	"github.com/josh-kwaku/dotpay-gateway/internal/domain"
)

type customerPayer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

type deliveryAddress struct {
	City           string `json:"city"`
	Street         string `json:"street"`
	BuildingNumber string `json:"building_number"`
	Postcode       string `json:"postcode"`
	Country        string `json:"country"`
}

type customerOrder struct {
	DeliveryAddress deliveryAddress `json:"delivery_address"`
	DeliveryType    string          `json:"delivery_type,omitempty"`
}

type customerData struct {
	Payer           customerPayer `json:"payer"`
	Order           customerOrder `json:"order"`
	RegisteredSince string        `json:"registered_since,omitempty"`
	OrderCount      string        `json:"order_count,omitempty"`
}

// customerBase64 encodes the buyer and delivery data for the customer form
// field. It returns "" unless the payer and shipping address are complete.
func customerBase64(c domain.Customer) (string, error) {
	s := c.Shipping
	if c.FirstName == "" || c.LastName == "" || c.Email == "" ||
		s.City == "" || s.Street == "" || s.BuildingNumber == "" || s.Postcode == "" {
		return "", nil
	}

	data := customerData{
		Payer: customerPayer{
			FirstName: c.FirstName,
			LastName:  c.LastName,
			Email:     c.Email,
			Phone:     c.Phone,
		},
		Order: customerOrder{
			DeliveryAddress: deliveryAddress{
				City:           s.City,
				Street:         s.Street,
				BuildingNumber: s.BuildingNumber,
				Postcode:       s.Postcode,
				Country:        s.Country,
			},
			DeliveryType: c.DeliveryType,
		},
	}
	if c.RegisteredSince != nil {
		data.RegisteredSince = c.RegisteredSince.Format("2006-01-02")
		data.OrderCount = strconv.Itoa(c.OrderCount)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
