package order_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vasiliy-maslov/northwind-orders/internal/order"
)

func TestNewCustomerCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{name: "valid", code: "VINET"},
		{name: "too_short", code: "VINE", wantErr: true},
		{name: "too_long", code: "VINETT", wantErr: true},
		{name: "empty", code: "", wantErr: true},
		{name: "lowercase", code: "vinet", wantErr: true},
		{name: "mixed_case", code: "ViNET", wantErr: true},
		{name: "digit", code: "VIN3T", wantErr: true},
		{name: "space", code: "VI ET", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, err := order.NewCustomerCode(tt.code)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.code, code.String())
			}
		})
	}
}

func TestNewShippingAddress(t *testing.T) {
	region := "Western Europe"

	tests := []struct {
		name       string
		address    string
		city       string
		region     *string
		postalCode string
		country    string
		wantErr    bool
	}{
		{name: "valid", address: "59 rue de l'Abbaye", city: "Reims", region: nil, postalCode: "51100", country: "France"},
		{name: "valid_with_region", address: "59 rue de l'Abbaye", city: "Reims", region: &region, postalCode: "51100", country: "France"},
		{name: "blank_address", address: "   ", city: "Reims", postalCode: "51100", country: "France", wantErr: true},
		{name: "empty_city", address: "59 rue de l'Abbaye", city: "", postalCode: "51100", country: "France", wantErr: true},
		{name: "blank_postal_code", address: "59 rue de l'Abbaye", city: "Reims", postalCode: "\t", country: "France", wantErr: true},
		{name: "empty_country", address: "59 rue de l'Abbaye", city: "Reims", postalCode: "51100", country: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := order.NewShippingAddress(tt.address, tt.city, tt.region, tt.postalCode, tt.country)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.address, addr.Address)
			assert.Equal(t, tt.city, addr.City)
			assert.Equal(t, tt.region, addr.Region)
			assert.Equal(t, tt.postalCode, addr.PostalCode)
			assert.Equal(t, tt.country, addr.Country)
		})
	}
}
