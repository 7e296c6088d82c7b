package handler

import (
	"fmt"
	"time"

	"github.com/vasiliy-maslov/northwind-orders/internal/order"
)

// briefOrder is the flat wire shape used for list responses and for create
// and update payloads. Only ids are carried for the referenced customer,
// employee and shipper.
type briefOrder struct {
	ID             int64              `json:"id,omitempty"`
	CustomerID     string             `json:"customer_id" validate:"required"`
	EmployeeID     int64              `json:"employee_id" validate:"required"`
	OrderDate      time.Time          `json:"order_date" validate:"required"`
	RequiredDate   time.Time          `json:"required_date" validate:"required"`
	ShippedDate    *time.Time         `json:"shipped_date,omitempty"`
	ShipperID      int64              `json:"shipper_id" validate:"required"`
	Freight        float64            `json:"freight"`
	ShipName       string             `json:"ship_name" validate:"required"`
	ShipAddress    string             `json:"ship_address" validate:"required"`
	ShipCity       string             `json:"ship_city" validate:"required"`
	ShipRegion     *string            `json:"ship_region,omitempty"`
	ShipPostalCode string             `json:"ship_postal_code" validate:"required"`
	ShipCountry    string             `json:"ship_country" validate:"required"`
	OrderDetails   []briefOrderDetail `json:"order_details" validate:"dive"`
}

// Detail value ranges are deliberately not validated here: the repository
// owns those rules and rejects the whole write if any line item is bad.
type briefOrderDetail struct {
	ProductID int64   `json:"product_id" validate:"required"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int64   `json:"quantity"`
	Discount  float64 `json:"discount"`
}

// fullOrder is the denormalized wire shape used for single-order reads.
type fullOrder struct {
	ID              int64               `json:"id"`
	Customer        wireCustomer        `json:"customer"`
	Employee        wireEmployee        `json:"employee"`
	Shipper         wireShipper         `json:"shipper"`
	OrderDate       time.Time           `json:"order_date"`
	RequiredDate    time.Time           `json:"required_date"`
	ShippedDate     *time.Time          `json:"shipped_date,omitempty"`
	Freight         float64             `json:"freight"`
	ShipName        string              `json:"ship_name"`
	ShippingAddress wireShippingAddress `json:"shipping_address"`
	OrderDetails    []fullOrderDetail   `json:"order_details"`
}

type wireCustomer struct {
	Code        string `json:"code"`
	CompanyName string `json:"company_name"`
}

type wireEmployee struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Country   string `json:"country"`
}

type wireShipper struct {
	ID          int64  `json:"id"`
	CompanyName string `json:"company_name"`
}

type wireShippingAddress struct {
	Address    string  `json:"address"`
	City       string  `json:"city"`
	Region     *string `json:"region,omitempty"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
}

type fullOrderDetail struct {
	ProductID           int64   `json:"product_id"`
	ProductName         string  `json:"product_name"`
	CategoryID          int64   `json:"category_id"`
	CategoryName        string  `json:"category_name"`
	SupplierID          int64   `json:"supplier_id"`
	SupplierCompanyName string  `json:"supplier_company_name"`
	UnitPrice           float64 `json:"unit_price"`
	Quantity            int64   `json:"quantity"`
	Discount            float64 `json:"discount"`
}

type addOrderResponse struct {
	OrderID int64 `json:"order_id"`
}

// toDomain builds the aggregate from a brief payload. The value constructors
// reject a malformed customer code or blank address parts, which the caller
// reports as a bad request.
func (b briefOrder) toDomain(orderID int64) (*order.Order, error) {
	code, err := order.NewCustomerCode(b.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("customer_id: %w", err)
	}

	address, err := order.NewShippingAddress(b.ShipAddress, b.ShipCity, b.ShipRegion, b.ShipPostalCode, b.ShipCountry)
	if err != nil {
		return nil, err
	}

	ord := &order.Order{
		ID:              orderID,
		Customer:        order.Customer{Code: code},
		Employee:        order.Employee{ID: b.EmployeeID},
		Shipper:         order.Shipper{ID: b.ShipperID},
		OrderDate:       b.OrderDate,
		RequiredDate:    b.RequiredDate,
		ShippedDate:     b.ShippedDate,
		Freight:         b.Freight,
		ShipName:        b.ShipName,
		ShippingAddress: address,
		Details:         make([]order.Detail, 0, len(b.OrderDetails)),
	}
	for _, d := range b.OrderDetails {
		ord.Details = append(ord.Details, order.Detail{
			OrderID:   orderID,
			Product:   order.Product{ID: d.ProductID},
			UnitPrice: d.UnitPrice,
			Quantity:  d.Quantity,
			Discount:  d.Discount,
		})
	}
	return ord, nil
}

func briefFromDomain(ord order.Order) briefOrder {
	b := briefOrder{
		ID:             ord.ID,
		CustomerID:     ord.Customer.Code.String(),
		EmployeeID:     ord.Employee.ID,
		OrderDate:      ord.OrderDate,
		RequiredDate:   ord.RequiredDate,
		ShippedDate:    ord.ShippedDate,
		ShipperID:      ord.Shipper.ID,
		Freight:        ord.Freight,
		ShipName:       ord.ShipName,
		ShipAddress:    ord.ShippingAddress.Address,
		ShipCity:       ord.ShippingAddress.City,
		ShipRegion:     ord.ShippingAddress.Region,
		ShipPostalCode: ord.ShippingAddress.PostalCode,
		ShipCountry:    ord.ShippingAddress.Country,
		OrderDetails:   make([]briefOrderDetail, 0, len(ord.Details)),
	}
	for _, d := range ord.Details {
		b.OrderDetails = append(b.OrderDetails, briefOrderDetail{
			ProductID: d.Product.ID,
			UnitPrice: d.UnitPrice,
			Quantity:  d.Quantity,
			Discount:  d.Discount,
		})
	}
	return b
}

func fullFromDomain(ord order.Order) fullOrder {
	f := fullOrder{
		ID: ord.ID,
		Customer: wireCustomer{
			Code:        ord.Customer.Code.String(),
			CompanyName: ord.Customer.CompanyName,
		},
		Employee: wireEmployee{
			ID:        ord.Employee.ID,
			FirstName: ord.Employee.FirstName,
			LastName:  ord.Employee.LastName,
			Country:   ord.Employee.Country,
		},
		Shipper: wireShipper{
			ID:          ord.Shipper.ID,
			CompanyName: ord.Shipper.CompanyName,
		},
		OrderDate:    ord.OrderDate,
		RequiredDate: ord.RequiredDate,
		ShippedDate:  ord.ShippedDate,
		Freight:      ord.Freight,
		ShipName:     ord.ShipName,
		ShippingAddress: wireShippingAddress{
			Address:    ord.ShippingAddress.Address,
			City:       ord.ShippingAddress.City,
			Region:     ord.ShippingAddress.Region,
			PostalCode: ord.ShippingAddress.PostalCode,
			Country:    ord.ShippingAddress.Country,
		},
		OrderDetails: make([]fullOrderDetail, 0, len(ord.Details)),
	}
	for _, d := range ord.Details {
		f.OrderDetails = append(f.OrderDetails, fullOrderDetail{
			ProductID:           d.Product.ID,
			ProductName:         d.Product.ProductName,
			CategoryID:          d.Product.CategoryID,
			CategoryName:        d.Product.Category,
			SupplierID:          d.Product.SupplierID,
			SupplierCompanyName: d.Product.Supplier,
			UnitPrice:           d.UnitPrice,
			Quantity:            d.Quantity,
			Discount:            d.Discount,
		})
	}
	return f
}
