package types

import "strings"

// EmployeeLabel is the node label used for employees.
const EmployeeLabel = "Employee"

// Employee is a merged person node in the reporting graph.
//
// Optional attributes are nil when the store has no value for them.
type Employee struct {
	// NodeID is the store-assigned element id.
	NodeID      string  `json:"id"`
	IdentityKey string  `json:"identity_key"`
	FullName    *string `json:"fullName"`
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
}

// Name returns the full name, or "" for nodes without one.
func (e *Employee) Name() string {
	if e == nil || e.FullName == nil {
		return ""
	}
	return *e.FullName
}

// Identity holds the subject fields resolved from one row.
type Identity struct {
	FirstName string
	LastName  string
	FullName  string
	Email     string
	Phone     string
	Address   string
}

// Key returns the merge key: email when present, otherwise the full name.
func (i Identity) Key() string {
	if email := strings.TrimSpace(i.Email); email != "" {
		return email
	}
	return i.FullName
}

// MatchField names the property a manager reference merges on.
type MatchField string

const (
	// MatchEmail merges the manager on its email identity key.
	MatchEmail MatchField = "email"
	// MatchFullName merges the manager on its full name.
	MatchFullName MatchField = "fullName"
)

// ManagerRef identifies the manager named by a row.
type ManagerRef struct {
	Key     string
	MatchOn MatchField
}

// EmployeeRecord is the write model for one subject upsert, optionally
// with its manager.
type EmployeeRecord struct {
	Identity Identity
	Manager  *ManagerRef
}

// RawRow is one parsed CSV row keyed by header name.
type RawRow map[string]string

// StringPtr returns nil for blank values and a pointer to s otherwise.
func StringPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
