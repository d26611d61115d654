package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIDList(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []uint64
		wantErr bool
	}{
		{"absent field", "", nil, false},
		{"null", "null", nil, false},
		{"empty array", "[]", []uint64{}, false},
		{"numbers", "[1, 2, 3]", []uint64{1, 2, 3}, false},
		{"numeric strings", `["1", "2"]`, []uint64{1, 2}, false},
		{"mixed elements", `[1, "2"]`, []uint64{1, 2}, false},
		{"encoded string payload", `"[1, 2]"`, []uint64{1, 2}, false},
		{"encoded string with string elements", `"[\"1\", \"2\"]"`, []uint64{1, 2}, false},
		{"empty string", `""`, nil, false},
		{"non-numeric element", `["abc"]`, nil, true},
		{"object element", `[{}]`, nil, true},
		{"not a list", `123`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw json.RawMessage
			if tt.raw != "" {
				raw = json.RawMessage(tt.raw)
			}

			got, err := ParseIDList(raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
