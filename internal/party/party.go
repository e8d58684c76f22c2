// Package party holds the party entry form: an organization or an
// individual, and the display name derived from it.
package party

import (
	"fmt"
	"strings"
)

// Type distinguishes organizations from individuals.
type Type string

// Party types.
const (
	Organization Type = "organization"
	Individual   Type = "individual"
)

// ParseType accepts a party type name, case-insensitive.
func ParseType(value string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(value))); t {
	case Organization, Individual:
		return t, nil
	default:
		return "", fmt.Errorf("unknown party type %q", value)
	}
}

// Form is the editable party form.
type Form struct {
	Type             Type   `json:"partyType"`
	OrganizationName string `json:"organizationName"`
	LastName         string `json:"lastName"`
	FirstName        string `json:"firstName"`
	DisplayName      string `json:"displayName"`
}

// Payload is what is sent onward when the form is submitted.
type Payload struct {
	Type Type `json:"partyType"`
}

// NewForm returns a blank organization form.
func NewForm() Form {
	return Form{Type: Organization}
}

// IsIndividual reports whether the form describes a person.
func (f Form) IsIndividual() bool {
	return f.Type == Individual
}

// IsOrganization reports whether the form describes an organization.
func (f Form) IsOrganization() bool {
	return f.Type == Organization
}

// NameChanged recomputes DisplayName after a name field was edited.
// Individuals are shown as "Last, First"; the separator only appears when
// both names are present.
func (f *Form) NameChanged() {
	if f.IsOrganization() {
		f.DisplayName = f.OrganizationName
		return
	}

	separator := ""
	if f.LastName != "" && f.FirstName != "" {
		separator = ", "
	}
	f.DisplayName = f.LastName + separator + f.FirstName
}

// Extract returns the submission payload.
func (f Form) Extract() Payload {
	return Payload{Type: f.Type}
}
