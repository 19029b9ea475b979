package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    PaymentMethod
		wantErr bool
	}{
		{name: "cash", input: "CASH", want: PaymentCash},
		{name: "card", input: "CARD", want: PaymentCard},
		{name: "other", input: "OTHER", want: PaymentOther},
		{name: "lowercase rejected", input: "cash", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
		{name: "unknown rejected", input: "CHEQUE", wantErr: true},
		{name: "legacy spanish label rejected", input: "EFECTIVO", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePaymentMethod(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
