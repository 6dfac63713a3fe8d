package delivery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mystore/storefront/internal/delivery"
)

func TestResolveFee(t *testing.T) {
	tests := []struct {
		name      string
		option    string
		wantFee   int64
		wantErrIs error
	}{
		{name: "island", option: "Island", wantFee: 2000},
		{name: "mainland", option: "Mainland", wantFee: 1500},
		{name: "inter_state_park", option: "Inter-state (park)", wantFee: 3000},
		{name: "inter_state_doorstep", option: "Inter-state (doorstep)", wantFee: 5000},
		{name: "pick_up_is_free", option: "Pick-up", wantFee: 0},
		{name: "unknown_option", option: "Teleport", wantErrIs: delivery.ErrUnknownOption},
		{name: "empty_option", option: "", wantErrIs: delivery.ErrUnknownOption},
		{name: "case_sensitive", option: "island", wantErrIs: delivery.ErrUnknownOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fee, err := delivery.ResolveFee(tt.option)
			if tt.wantErrIs != nil {
				assert.ErrorIs(t, err, tt.wantErrIs)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantFee, fee)
		})
	}
}

func TestOptions(t *testing.T) {
	options := delivery.Options()

	assert.Len(t, options, 5)
	for _, opt := range options {
		_, err := delivery.ResolveFee(opt)
		assert.NoError(t, err, "listed option %q must resolve", opt)
	}
}
