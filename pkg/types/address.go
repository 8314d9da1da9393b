package types

import "strings"

// ShippingAddress is copied onto the parent order and onto every seller order
// produced from it.
type ShippingAddress struct {
	FullName string `json:"fullName" gorm:"column:full_name;not null" validate:"required,max=120"`
	Address  string `json:"address" gorm:"column:address;not null" validate:"required,max=255"`
	City     string `json:"city" gorm:"column:city;not null" validate:"required,max=120"`
	ZipCode  string `json:"zipCode" gorm:"column:zip_code;not null" validate:"required,max=20"`
	Phone    string `json:"phone" gorm:"column:phone;not null" validate:"required,max=32"`
}

// Normalize trims surrounding whitespace from every field.
func (a ShippingAddress) Normalize() ShippingAddress {
	return ShippingAddress{
		FullName: strings.TrimSpace(a.FullName),
		Address:  strings.TrimSpace(a.Address),
		City:     strings.TrimSpace(a.City),
		ZipCode:  strings.TrimSpace(a.ZipCode),
		Phone:    strings.TrimSpace(a.Phone),
	}
}

// IsComplete reports whether every field is populated.
func (a ShippingAddress) IsComplete() bool {
	n := a.Normalize()
	return n.FullName != "" && n.Address != "" && n.City != "" && n.ZipCode != "" && n.Phone != ""
}
