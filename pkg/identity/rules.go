package identity

import (
	"strings"

	"github.com/soundprediction/orgchart/pkg/types"
)

// Field is a logical employee attribute a CSV column can map to.
type Field string

const (
	FieldFirstName    Field = "firstName"
	FieldLastName     Field = "lastName"
	FieldFullName     Field = "fullName"
	FieldEmail        Field = "email"
	FieldPhone        Field = "phone"
	FieldAddress      Field = "address"
	FieldManagerName  Field = "managerName"
	FieldManagerEmail Field = "managerEmail"
)

// Rule lists the header synonyms of one field, in priority order.
type Rule struct {
	Field    Field
	Synonyms []string
}

// DefaultRules is the recognized column table.
var DefaultRules = []Rule{
	{Field: FieldFirstName, Synonyms: []string{"First Name", "first_name"}},
	{Field: FieldLastName, Synonyms: []string{"Last Name", "last_name"}},
	{Field: FieldFullName, Synonyms: []string{"Full Name"}},
	{Field: FieldEmail, Synonyms: []string{"Email", "email"}},
	{Field: FieldPhone, Synonyms: []string{"Phone", "phone"}},
	{Field: FieldAddress, Synonyms: []string{"Address", "address"}},
	{Field: FieldManagerName, Synonyms: []string{"Manager Name", "Manager", "manager_name"}},
	{Field: FieldManagerEmail, Synonyms: []string{"manager_email"}},
}

// Fields is a row projected onto logical fields.
type Fields map[Field]string

// Map evaluates rules against row. Missing fields map to "".
func Map(rules []Rule, row types.RawRow) Fields {
	out := make(Fields, len(rules))
	for _, rule := range rules {
		out[rule.Field] = ""
		for _, header := range rule.Synonyms {
			if v := row[header]; v != "" {
				out[rule.Field] = v
				break
			}
		}
	}
	return out
}

// KnownHeader reports whether header appears in any rule.
func KnownHeader(rules []Rule, header string) bool {
	for _, rule := range rules {
		for _, s := range rule.Synonyms {
			if s == header {
				return true
			}
		}
	}
	return false
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
