package signature

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/dotpay-gateway/internal/domain"
)

const (
	testPin      = "pin123"
	testSellerID = "123456"
)

func testNotification() domain.Notification {
	return domain.Notification{
		ID:                        testSellerID,
		OperationNumber:           "M1234-00001",
		OperationType:             "payment",
		OperationStatus:           domain.OperationStatusCompleted,
		OperationAmount:           "10.00",
		OperationCurrency:         "PLN",
		OperationOriginalAmount:   "10.00",
		OperationOriginalCurrency: "PLN",
		Control:                   "#42/id:42|domain:shop.test",
		Channel:                   "73",
		ChannelCountry:            "PL",
	}
}

func TestComputeCHK_KnownDigest(t *testing.T) {
	params := map[string]string{
		"id":          "123456",
		"amount":      "10.00",
		"currency":    "PLN",
		"description": "Zamówienie nr 42",
		"url":         "https://shop.test/dotpay/status",
		"lang":        "pl",
	}

	chk, err := ComputeCHK("secretpin", params)
	require.NoError(t, err)
	assert.Equal(t, "d00f0458d9b2b8487e6f96796b6235d6a1f4cc8cc2833d646bf6b4a4fe8ff3ed", chk)
	assert.NotContains(t, params, ParamsListKey, "input map must not be mutated")
}

func TestComputeCHK_IndependentOfInsertionOrder(t *testing.T) {
	keys := []string{"id", "amount", "currency", "description", "lang", "url", "urlc", "control", "p_info"}

	var first string
	for i := range 10 {
		r := rand.New(rand.NewSource(int64(i)))
		r.Shuffle(len(keys), func(a, b int) { keys[a], keys[b] = keys[b], keys[a] })

		params := make(map[string]string, len(keys))
		for _, k := range keys {
			params[k] = "value-of-" + k
		}

		chk, err := ComputeCHK(testPin, params)
		require.NoError(t, err)
		if i == 0 {
			first = chk
			continue
		}
		assert.Equal(t, first, chk)
	}
}

func TestComputeCHK_IgnoresCallerParamsList(t *testing.T) {
	base := map[string]string{"id": "1", "amount": "2.00"}
	withList := map[string]string{"id": "1", "amount": "2.00", ParamsListKey: "bogus"}

	a, err := ComputeCHK(testPin, base)
	require.NoError(t, err)
	b, err := ComputeCHK(testPin, withList)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestComputeCHK_RejectsInvalidUTF8(t *testing.T) {
	_, err := ComputeCHK(testPin, map[string]string{"description": "\xff\xfe"})
	assert.Error(t, err)
}

func TestEncodePHPJSON(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]string
		want string
	}{
		{
			name: "slashes stay unescaped",
			in:   map[string]string{"url": "https://shop.test/a/b"},
			want: `{"url":"https://shop.test/a/b"}`,
		},
		{
			name: "html characters are not escaped",
			in:   map[string]string{"d": "<a & b>"},
			want: `{"d":"<a & b>"}`,
		},
		{
			name: "non-ascii as lowercase unicode escapes",
			in:   map[string]string{"d": "Łódź"},
			want: `{"d":"\u0141\u00f3d\u017a"}`,
		},
		{
			name: "astral runes as surrogate pairs",
			in:   map[string]string{"d": "😀"},
			want: `{"d":"\ud83d\ude00"}`,
		},
		{
			name: "quotes and control characters",
			in:   map[string]string{"d": "a\"b\\c\nd\x01"},
			want: `{"d":"a\"b\\c\nd\u0001"}`,
		},
		{
			name: "keys sorted",
			in:   map[string]string{"b": "2", "a": "1"},
			want: `{"a":"1","b":"2"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := encodePHPJSON(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))
		})
	}
}

func TestSignConfirmation_KnownDigest(t *testing.T) {
	got := SignConfirmation(testPin, testSellerID, testNotification())
	assert.Equal(t, "5cadae01f8a5a3ca4d764c754a5521750b86980786cc7d598ec6b78f0a93cd02", got)
}

func TestVerifyConfirmation(t *testing.T) {
	signed := testNotification()
	signed.Signature = SignConfirmation(testPin, testSellerID, signed)

	tests := []struct {
		name   string
		mutate func(n *domain.Notification)
		pin    string
		want   bool
	}{
		{name: "valid signature", want: true, pin: testPin},
		{
			name:   "uppercase hex accepted",
			pin:    testPin,
			mutate: func(n *domain.Notification) { n.Signature = upper(n.Signature) },
			want:   true,
		},
		{
			name:   "empty signature",
			pin:    testPin,
			mutate: func(n *domain.Notification) { n.Signature = "" },
		},
		{
			name: "wrong pin",
			pin:  "other-pin",
		},
		{
			name:   "tampered amount",
			pin:    testPin,
			mutate: func(n *domain.Notification) { n.OperationOriginalAmount = "1.00" },
		},
		{
			name:   "tampered opaque field",
			pin:    testPin,
			mutate: func(n *domain.Notification) { n.BlikVoucherPin = "1234" },
		},
		{
			name: "value moved between fields",
			pin:  testPin,
			mutate: func(n *domain.Notification) {
				n.ChannelCountry, n.GeoIPCountry = "", n.ChannelCountry
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := signed
			if tc.mutate != nil {
				tc.mutate(&n)
			}
			assert.Equal(t, tc.want, VerifyConfirmation(tc.pin, testSellerID, n))
		})
	}
}

func TestVerifyConfirmation_IndependentOfFieldAssignmentOrder(t *testing.T) {
	values := map[string]string{
		"id":                          testSellerID,
		"operation_number":            "M1234-00001",
		"operation_type":              "payment",
		"operation_status":            "completed",
		"operation_amount":            "10.00",
		"operation_currency":          "PLN",
		"operation_original_amount":   "10.00",
		"operation_original_currency": "PLN",
		"control":                     "#42/id:42|domain:shop.test",
		"channel":                     "73",
		"channel_country":             "PL",
		"signature":                   "5cadae01f8a5a3ca4d764c754a5521750b86980786cc7d598ec6b78f0a93cd02",
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}

	for i := range 5 {
		r := rand.New(rand.NewSource(int64(i)))
		r.Shuffle(len(keys), func(a, b int) { keys[a], keys[b] = keys[b], keys[a] })

		form := make(map[string][]string)
		for _, k := range keys {
			form[k] = []string{values[k]}
		}
		n := domain.NotificationFromValues(form)
		assert.True(t, VerifyConfirmation(testPin, testSellerID, n))
	}
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'f' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}
