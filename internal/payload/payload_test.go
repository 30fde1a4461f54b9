package payload

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExtractOrderReference_Primary(t *testing.T) {
	tests := []struct {
		name    string
		control string
		want    int64
	}{
		{name: "escaped slash prefix", control: `#482\/id:482|domain:shop.test`, want: 482},
		{name: "generated control", control: BuildControl(7, "shop.test"), want: 7},
		{name: "number before marker differs", control: "#1001/id:55|domain:shop.test|x", want: 55},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractOrderReference(tc.control))
		})
	}
}

func TestExtractOrderReference_Fallback(t *testing.T) {
	tests := []struct {
		name    string
		control string
		want    int64
	}{
		{name: "plain id with extra segment", control: "482|extra", want: 482},
		{name: "hash prefixed", control: "#482|extra", want: 482},
		{name: "id marker without domain", control: "shop/id:91|other", want: 91},
		{name: "bare number", control: "17", want: 17},
		{name: "leading digits only", control: "12abc|x", want: 12},
		{name: "two primary matches use fallback", control: "/id:3|domain:a/id:4|domain:b", want: 3},
		{name: "zero in primary falls back", control: "/id:0|domain:shop", want: 0},
		{name: "empty", control: "", want: 0},
		{name: "garbage", control: "abc|def", want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractOrderReference(tc.control))
		})
	}
}

func TestBuildControl(t *testing.T) {
	assert.Equal(t, "#42/id:42|domain:shop.test|"+ModuleTag, BuildControl(42, "shop.test"))
}

func TestNormalizeAmount_Equivalence(t *testing.T) {
	a := FormatAmount(decimal.NewFromInt(10))
	b := FormatAmount(decimal.NewFromFloat(10.0))
	c := NormalizeAmount("10.00")
	d := NormalizeAmount("10")
	e := NormalizeAmount("10.0")

	assert.Equal(t, "10.00", a)
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
	assert.Equal(t, a, d)
	assert.Equal(t, a, e)
}

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0.1", want: "0.10"},
		{in: " 99.999 ", want: "100.00"},
		{in: "1234.5", want: "1234.50"},
		{in: "12.345", want: "12.35"},
		{in: "", want: ""},
		{in: "ten", want: ""},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeAmount(tc.in))
		})
	}
}
