// Package authz holds the single role→permission mapping and the query
// scoping rules. Both the token-issuance path (login response) and the
// route authorization middleware read from here, so the two can never
// drift apart.
package authz

import (
	"invtrack/internal/model"

	"github.com/google/uuid"
)

// Permission names follow the "<verb>:<resource>" convention.
const (
	ReadProducts     = "read:products"
	WriteProducts    = "write:products"
	DeleteProducts   = "delete:products"
	ReadOrders       = "read:orders"
	WriteOrders      = "write:orders"
	DeleteOrders     = "delete:orders"
	ReadUsers        = "read:users"
	WriteUsers       = "write:users"
	DeleteUsers      = "delete:users"
	ReadCategories   = "read:categories"
	WriteCategories  = "write:categories"
	DeleteCategories = "delete:categories"
	ReadSuppliers    = "read:suppliers"
	WriteSuppliers   = "write:suppliers"
	DeleteSuppliers  = "delete:suppliers"
	ReadReports      = "read:reports"
)

var rolePermissions = map[string][]string{
	model.RoleAdmin: {
		ReadProducts, WriteProducts, DeleteProducts,
		ReadOrders, WriteOrders, DeleteOrders,
		ReadUsers, WriteUsers, DeleteUsers,
		ReadCategories, WriteCategories, DeleteCategories,
		ReadSuppliers, WriteSuppliers, DeleteSuppliers,
		ReadReports,
	},
	model.RoleStaff: {
		ReadProducts, WriteProducts,
		ReadOrders, WriteOrders,
		ReadCategories, WriteCategories,
		ReadSuppliers, WriteSuppliers,
		ReadReports,
	},
	model.RoleCustomer: {
		ReadProducts,
		ReadOrders, WriteOrders,
	},
}

// PermissionsFor returns the capability set for a role. Unknown roles get
// nothing.
func PermissionsFor(role string) []string {
	perms := rolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// Allowed reports whether the role carries the permission.
func Allowed(role, permission string) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// OrderScope narrows order queries to what the actor may see.
// A nil-field scope means unrestricted (admin).
type OrderScope struct {
	CustomerID *uuid.UUID // customer: only their own orders
	StaffID    *uuid.UUID // staff: only orders assigned to them
}

// ScopeFor derives the order scope from the actor's role and identity:
// admin sees all, staff sees assigned orders, customers see their own.
func ScopeFor(role string, userID uuid.UUID) OrderScope {
	switch role {
	case model.RoleStaff:
		return OrderScope{StaffID: &userID}
	case model.RoleCustomer:
		return OrderScope{CustomerID: &userID}
	default:
		return OrderScope{}
	}
}

// Covers reports whether an order is visible under the scope.
func (s OrderScope) Covers(o *model.Order) bool {
	if s.CustomerID != nil {
		return o.CustomerID == *s.CustomerID
	}
	if s.StaffID != nil {
		return o.AssignedStaffID != nil && *o.AssignedStaffID == *s.StaffID
	}
	return true
}
