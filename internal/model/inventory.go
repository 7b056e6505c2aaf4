package model

import (
	"fmt"
	"time"
)

// InventoryItem status values.
const (
	InventoryNew         = "New"
	InventoryUsed        = "Used"
	InventoryReplaced    = "Replaced"
	InventoryDamaged     = "Damaged"
	InventoryMaintenance = "Under Maintenance"
)

// InventoryItem is a tracked piece of electrical equipment or stock.
//
// Category, Quantity, Supplier and Expiry are later schema extensions;
// they are optional and added in place by the schema manager on upgrade.
type InventoryItem struct {
	ID           int64     `json:"id"`
	OwnerID      int64     `json:"user_id"`
	ProductType  string    `json:"product_type"`
	Status       string    `json:"status"`
	Size         string    `json:"size"`
	SerialNumber string    `json:"serial_number"`
	Date         string    `json:"date"`
	Location     string    `json:"location"`
	IssuedBy     string    `json:"issued_by"`
	Category     string    `json:"category,omitempty"`
	Quantity     int64     `json:"quantity,omitempty"`
	Supplier     string    `json:"supplier,omitempty"`
	Expiry       string    `json:"expiry_date,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ValidInventoryStatus reports whether s is one of the known item states.
func ValidInventoryStatus(s string) bool {
	switch s {
	case InventoryNew, InventoryUsed, InventoryReplaced, InventoryDamaged, InventoryMaintenance:
		return true
	}
	return false
}

// Validate checks the fields required to create an InventoryItem.
func (i *InventoryItem) Validate() error {
	if i.OwnerID == 0 {
		return fmt.Errorf("user_id is required")
	}
	if i.ProductType == "" {
		return fmt.Errorf("product_type is required")
	}
	if i.Status != "" && !ValidInventoryStatus(i.Status) {
		return fmt.Errorf("invalid inventory status %q", i.Status)
	}
	return nil
}
