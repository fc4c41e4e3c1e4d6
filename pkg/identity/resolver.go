package identity

import (
	"github.com/soundprediction/orgchart/pkg/types"
)

// Resolver turns raw rows into employee records.
type Resolver struct {
	rules []Rule
}

// NewResolver creates a resolver over rules. A nil table uses DefaultRules.
func NewResolver(rules []Rule) *Resolver {
	if rules == nil {
		rules = DefaultRules
	}
	return &Resolver{rules: rules}
}

// Subject resolves the identity of the employee the row describes.
func (r *Resolver) Subject(row types.RawRow) types.Identity {
	return subject(Map(r.rules, row))
}

// Manager resolves the manager reference of the row, or nil when the row
// names no manager.
func (r *Resolver) Manager(row types.RawRow) *types.ManagerRef {
	return manager(Map(r.rules, row))
}

// Resolve resolves both the subject and the manager of row.
func (r *Resolver) Resolve(row types.RawRow) types.EmployeeRecord {
	f := Map(r.rules, row)
	return types.EmployeeRecord{
		Identity: subject(f),
		Manager:  manager(f),
	}
}

func subject(f Fields) types.Identity {
	first := f[FieldFirstName]
	last := f[FieldLastName]

	full := trim(first + " " + last)
	if full == "" {
		// Used verbatim, surrounding whitespace included.
		full = f[FieldFullName]
	}

	return types.Identity{
		FirstName: first,
		LastName:  last,
		FullName:  full,
		Email:     trim(f[FieldEmail]),
		Phone:     f[FieldPhone],
		Address:   f[FieldAddress],
	}
}

func manager(f Fields) *types.ManagerRef {
	if email := trim(f[FieldManagerEmail]); email != "" {
		return &types.ManagerRef{Key: email, MatchOn: types.MatchEmail}
	}
	if name := trim(f[FieldManagerName]); name != "" {
		return &types.ManagerRef{Key: name, MatchOn: types.MatchFullName}
	}
	return nil
}
