package order

import (
	"fmt"
	"time"
)

// orderRow is the scan target for one row of the joined order query: the
// orders columns plus the denormalized customer, employee and shipper names.
type orderRow struct {
	ID                int64
	CustomerID        string
	CustomerCompany   string
	EmployeeID        int64
	EmployeeFirstName string
	EmployeeLastName  string
	EmployeeCountry   string
	ShipperID         int64
	ShipperCompany    string
	OrderDate         time.Time
	RequiredDate      time.Time
	ShippedDate       *time.Time
	Freight           float64
	ShipName          string
	ShipAddress       string
	ShipCity          string
	ShipRegion        *string
	ShipPostalCode    string
	ShipCountry       string
}

// toOrder builds the aggregate from a joined row. The value constructors run
// here too, so a row that violates the code or address invariants surfaces as
// an error instead of leaking a malformed aggregate.
func (r orderRow) toOrder() (Order, error) {
	code, err := NewCustomerCode(r.CustomerID)
	if err != nil {
		return Order{}, fmt.Errorf("order %d: %w", r.ID, err)
	}

	address, err := NewShippingAddress(r.ShipAddress, r.ShipCity, r.ShipRegion, r.ShipPostalCode, r.ShipCountry)
	if err != nil {
		return Order{}, fmt.Errorf("order %d: %w", r.ID, err)
	}

	return Order{
		ID: r.ID,
		Customer: Customer{
			Code:        code,
			CompanyName: r.CustomerCompany,
		},
		Employee: Employee{
			ID:        r.EmployeeID,
			FirstName: r.EmployeeFirstName,
			LastName:  r.EmployeeLastName,
			Country:   r.EmployeeCountry,
		},
		Shipper: Shipper{
			ID:          r.ShipperID,
			CompanyName: r.ShipperCompany,
		},
		OrderDate:       r.OrderDate,
		RequiredDate:    r.RequiredDate,
		ShippedDate:     r.ShippedDate,
		Freight:         r.Freight,
		ShipName:        r.ShipName,
		ShippingAddress: address,
		Details:         make([]Detail, 0),
	}, nil
}

// detailRow is the scan target for one row of the joined detail query: the
// order_details columns plus product, category and supplier names.
type detailRow struct {
	OrderID         int64
	ProductID       int64
	ProductName     string
	SupplierID      int64
	SupplierCompany string
	CategoryID      int64
	CategoryName    string
	UnitPrice       float64
	Quantity        int64
	Discount        float64
}

func (r detailRow) toDetail() Detail {
	return Detail{
		OrderID: r.OrderID,
		Product: Product{
			ID:          r.ProductID,
			ProductName: r.ProductName,
			SupplierID:  r.SupplierID,
			Supplier:    r.SupplierCompany,
			CategoryID:  r.CategoryID,
			Category:    r.CategoryName,
		},
		UnitPrice: r.UnitPrice,
		Quantity:  r.Quantity,
		Discount:  r.Discount,
	}
}
