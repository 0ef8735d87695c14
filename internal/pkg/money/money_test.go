package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"625.00", "625"},
		{"$625.00", "625"},
		{" $1,250.5 ", "1250.5"},
		{"0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse("")
	assert.Error(t, err)

	_, err = Parse("$abc")
	assert.Error(t, err)

	assert.True(t, ParseOrZero("n/a").IsZero())
}

func TestFromAny(t *testing.T) {
	d, err := FromAny(nil)
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = FromAny(12.5)
	require.NoError(t, err)
	assert.Equal(t, "12.50", Format(d))

	d, err = FromAny(json.Number("75"))
	require.NoError(t, err)
	assert.Equal(t, "75.00", Format(d))

	d, err = FromAny("$19.99")
	require.NoError(t, err)
	assert.Equal(t, "19.99", Format(d))

	_, err = FromAny([]int{1})
	assert.Error(t, err)
}

func TestDecimalSumHasNoDrift(t *testing.T) {
	total := decimal.Zero
	for i := 0; i < 1000; i++ {
		total = total.Add(decimal.RequireFromString("0.10"))
	}
	assert.Equal(t, "100.00", Format(total))
}

func TestAmountJSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Total Amount `json:"total"`
	}{Total: MustAmount("825")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total": 825.00}`, string(b))

	var in struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
		C Amount `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 10.5, "b": "$3.25", "c": null}`), &in))
	assert.Equal(t, "10.50", in.A.String())
	assert.Equal(t, "3.25", in.B.String())
	assert.True(t, in.C.IsZero())
}
