package freedompay_test

import (
	"testing"

	"fulfillment/internal/adapters/out/freedompay"

	"github.com/stretchr/testify/assert"
)

func TestSign(t *testing.T) {
	tests := []struct {
		name   string
		script string
		params []freedompay.Param
		want   string
	}{
		{
			name:   "flat parameters",
			script: "get_status2.php",
			params: []freedompay.Param{
				{Key: "pg_merchant_id", Value: "1"},
				{Key: "pg_order_id", Value: "abc"},
				{Key: "pg_salt", Value: "s"},
			},
			want: "b79e2bd26644df26dd1a227642cd0cae",
		},
		{
			name:   "nested group is flattened with position counters",
			script: "script",
			params: []freedompay.Param{
				{Key: "a", Value: "1"},
				{Key: "b", Nested: []freedompay.Param{{Key: "c", Value: "2"}, {Key: "d", Value: "3"}}},
			},
			want: "7f867a89eb37789d0c2486e0342825fe",
		},
		{
			name:   "values are ordered by flattened name",
			script: "script",
			params: []freedompay.Param{{Key: "z", Value: "Z"}, {Key: "a", Value: "A"}},
			want:   "1dd24295a3429b3c1e2b0506f0bb57d4",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, freedompay.Sign(tc.script, tc.params, "secret"))
		})
	}
}
