package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := map[string]struct {
		in   string
		want int64
	}{
		"comma decimal":               {in: "12,50", want: 1250},
		"dot decimal":                 {in: "12.50", want: 1250},
		"european thousands":          {in: "1.234,56", want: 123456},
		"us thousands":                {in: "1,234.56", want: 123456},
		"integer":                     {in: "45", want: 4500},
		"single fractional digit":     {in: "9,9", want: 990},
		"zero":                        {in: "0", want: 0},
		"rounds sub-cent to nearest":  {in: "0,005", want: 1},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := parsePrice(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePrice_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "-10,00", "12,50,00"} {
		_, err := parsePrice(in)
		assert.Error(t, err, "input %q", in)
	}
}
