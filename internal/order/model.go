package order

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CustomerCode is the five-letter uppercase customer identifier used as the
// primary key of the customers table. Construct it with NewCustomerCode so an
// invalid code never enters the aggregate.
type CustomerCode string

func NewCustomerCode(code string) (CustomerCode, error) {
	if len(code) != 5 {
		return "", fmt.Errorf("customer code %q must be exactly 5 characters", code)
	}
	for i, r := range code {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("character %d of customer code %q is not an uppercase letter", i+1, code)
		}
	}
	return CustomerCode(code), nil
}

func (c CustomerCode) String() string {
	return string(c)
}

type Customer struct {
	Code        CustomerCode
	CompanyName string
}

type Employee struct {
	ID        int64
	FirstName string
	LastName  string
	Country   string
}

type Shipper struct {
	ID          int64
	CompanyName string
}

// ShippingAddress holds the ship-to columns of an order row. Region is the
// only optional part; the rest must be non-blank.
type ShippingAddress struct {
	Address    string
	City       string
	Region     *string
	PostalCode string
	Country    string
}

func NewShippingAddress(address, city string, region *string, postalCode, country string) (ShippingAddress, error) {
	for _, field := range []struct {
		name  string
		value string
	}{
		{"address", address},
		{"city", city},
		{"postal code", postalCode},
		{"country", country},
	} {
		if strings.TrimSpace(field.value) == "" {
			return ShippingAddress{}, fmt.Errorf("shipping address %s must not be blank", field.name)
		}
	}

	return ShippingAddress{
		Address:    address,
		City:       city,
		Region:     region,
		PostalCode: postalCode,
		Country:    country,
	}, nil
}

// Product is a read-only denormalized snapshot of a product row together with
// its category and supplier names. The repository never writes products.
type Product struct {
	ID          int64
	ProductName string
	SupplierID  int64
	Supplier    string
	CategoryID  int64
	Category    string
}

// Detail is one line item of an order. Its identity within the order is the
// product id; there is no separate detail id.
type Detail struct {
	OrderID   int64
	Product   Product
	UnitPrice float64
	Quantity  int64
	Discount  float64
}

func (d Detail) validate() error {
	if d.UnitPrice < 0 {
		return fmt.Errorf("product %d: unit price must not be negative: %w", d.Product.ID, ErrInvalidDetail)
	}
	if d.Quantity <= 0 {
		return fmt.Errorf("product %d: quantity must be positive: %w", d.Product.ID, ErrInvalidDetail)
	}
	if d.Discount < 0 || d.Discount > 1 {
		return fmt.Errorf("product %d: discount must be between 0 and 1: %w", d.Product.ID, ErrInvalidDetail)
	}
	return nil
}

// Order is the denormalized aggregate assembled from the orders row and its
// joined customer, employee, shipper and detail rows. ID is assigned by the
// database on insert and ignored on AddOrder input.
type Order struct {
	ID              int64
	Customer        Customer
	Employee        Employee
	Shipper         Shipper
	OrderDate       time.Time
	RequiredDate    time.Time
	ShippedDate     *time.Time
	Freight         float64
	ShipName        string
	ShippingAddress ShippingAddress
	Details         []Detail
}

var (
	// ErrOrderNotFound is returned when the targeted order id has no row.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOutOfRange is returned when pagination arguments violate
	// skip >= 0, count > 0. It is checked before any storage access.
	ErrOutOfRange = errors.New("skip or count is out of range")
	// ErrInvalidArgument is returned for a nil order passed to a write.
	ErrInvalidArgument = errors.New("order is invalid")
	// ErrInvalidDetail is returned when a submitted line item references a
	// missing product or carries an out-of-range price, quantity or discount.
	ErrInvalidDetail = errors.New("order detail is invalid")
)
