package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/voltdesk/voltdesk/internal/model"
	"github.com/voltdesk/voltdesk/internal/store"
)

// Inventory is the repository for tracked equipment and stock.
type Inventory struct {
	store *store.Store
}

// NewInventory creates an inventory repository over the given store.
func NewInventory(s *store.Store) *Inventory {
	return &Inventory{store: s}
}

const inventoryColumns = "id, user_id, product_type, status, size, serial_number, date, location, issued_by, category, quantity, supplier, expiry_date, created_at"

// searchColumns are the fields Search matches against, OR-combined.
var searchColumns = []string{"product_type", "status", "size", "serial_number", "location", "issued_by"}

func itemFromRow(r store.Row) *model.InventoryItem {
	if r == nil {
		return nil
	}
	return &model.InventoryItem{
		ID:           r.Int64("id"),
		OwnerID:      r.Int64("user_id"),
		ProductType:  r.String("product_type"),
		Status:       r.String("status"),
		Size:         r.String("size"),
		SerialNumber: r.String("serial_number"),
		Date:         r.String("date"),
		Location:     r.String("location"),
		IssuedBy:     r.String("issued_by"),
		Category:     r.String("category"),
		Quantity:     r.Int64("quantity"),
		Supplier:     r.String("supplier"),
		Expiry:       r.String("expiry_date"),
		CreatedAt:    r.Time("created_at"),
	}
}

// Create inserts a new item and returns its id.
func (r *Inventory) Create(ctx context.Context, it *model.InventoryItem) (int64, error) {
	status := it.Status
	if status == "" {
		status = model.InventoryNew
	}
	quantity := it.Quantity
	if quantity == 0 {
		quantity = 1
	}

	res, err := r.store.Run(ctx,
		`INSERT INTO inventory (user_id, product_type, status, size, serial_number, date, location, issued_by, category, quantity, supplier, expiry_date)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.OwnerID, it.ProductType, status, it.Size, it.SerialNumber, it.Date,
		it.Location, it.IssuedBy, it.Category, quantity, it.Supplier, it.Expiry)
	if err != nil {
		return 0, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return res.LastInsertID, nil
}

// GetByID returns the item, or nil when it does not exist.
func (r *Inventory) GetByID(ctx context.Context, id int64) (*model.InventoryItem, error) {
	row, err := r.store.Get(ctx, "SELECT "+inventoryColumns+" FROM inventory WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item %d: %w", id, err)
	}
	return itemFromRow(row), nil
}

// ListByOwner returns the user's items, newest first.
func (r *Inventory) ListByOwner(ctx context.Context, ownerID int64) ([]*model.InventoryItem, error) {
	rows, err := r.store.All(ctx,
		"SELECT "+inventoryColumns+" FROM inventory WHERE user_id = ? ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory for user %d: %w", ownerID, err)
	}
	items := make([]*model.InventoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, itemFromRow(row))
	}
	return items, nil
}

// Update replaces the full set of mutable columns, owner-conditionally.
// Callers supply a complete item; an omitted field becomes its zero
// value, never a stale one. Returns whether exactly one row changed.
func (r *Inventory) Update(ctx context.Context, id, ownerID int64, it *model.InventoryItem) (bool, error) {
	res, err := r.store.Run(ctx,
		`UPDATE inventory SET product_type = ?, status = ?, size = ?, serial_number = ?,
		 date = ?, location = ?, issued_by = ?, category = ?, quantity = ?, supplier = ?, expiry_date = ?
		 WHERE id = ? AND user_id = ?`,
		it.ProductType, it.Status, it.Size, it.SerialNumber, it.Date,
		it.Location, it.IssuedBy, it.Category, it.Quantity, it.Supplier, it.Expiry,
		id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to update inventory item %d: %w", id, err)
	}
	return res.RowsAffected == 1, nil
}

// Delete hard-deletes the item, owner-conditionally.
func (r *Inventory) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	res, err := r.store.Run(ctx, "DELETE FROM inventory WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete inventory item %d: %w", id, err)
	}
	return res.RowsAffected == 1, nil
}

// Search matches the query case-insensitively as a substring across
// product type, status, size, serial number, location and issuer,
// scoped to the owner. Queries under two characters are rejected with
// ErrQueryTooShort.
func (r *Inventory) Search(ctx context.Context, ownerID int64, query string) ([]*model.InventoryItem, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, ErrQueryTooShort
	}

	pattern := "%" + strings.ToLower(query) + "%"
	conditions := make([]string, len(searchColumns))
	args := make([]any, 0, len(searchColumns)+1)
	args = append(args, ownerID)
	for i, col := range searchColumns {
		conditions[i] = "LOWER(" + col + ") LIKE ?"
		args = append(args, pattern)
	}

	sql := "SELECT " + inventoryColumns + " FROM inventory WHERE user_id = ? AND (" +
		strings.Join(conditions, " OR ") + ") ORDER BY created_at DESC"

	rows, err := r.store.All(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search inventory: %w", err)
	}
	items := make([]*model.InventoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, itemFromRow(row))
	}
	return items, nil
}
