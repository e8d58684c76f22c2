package party

import "testing"

func TestNewForm(t *testing.T) {
	f := NewForm()
	if !f.IsOrganization() || f.IsIndividual() {
		t.Errorf("expected a new form to describe an organization, got %s", f.Type)
	}
	if f.OrganizationName != "" || f.LastName != "" || f.FirstName != "" || f.DisplayName != "" {
		t.Errorf("expected blank names, got %+v", f)
	}
}

func TestNameChanged(t *testing.T) {
	tests := []struct {
		name     string
		form     Form
		expected string
	}{
		{
			name:     "Organization uses its name",
			form:     Form{Type: Organization, OrganizationName: "Accounted4 Inc.", LastName: "Ignored"},
			expected: "Accounted4 Inc.",
		},
		{
			name:     "Individual with both names",
			form:     Form{Type: Individual, LastName: "Heinze", FirstName: "Glenn"},
			expected: "Heinze, Glenn",
		},
		{
			name:     "Individual last name only",
			form:     Form{Type: Individual, LastName: "Heinze"},
			expected: "Heinze",
		},
		{
			name:     "Individual first name only",
			form:     Form{Type: Individual, FirstName: "Glenn"},
			expected: "Glenn",
		},
		{
			name:     "Individual without names",
			form:     Form{Type: Individual, OrganizationName: "Ignored"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.form
			f.NameChanged()
			if f.DisplayName != tt.expected {
				t.Errorf("DisplayName = %q, expected %q", f.DisplayName, tt.expected)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input    string
		expected Type
		wantErr  bool
	}{
		{"organization", Organization, false},
		{"Individual", Individual, false},
		{" INDIVIDUAL ", Individual, false},
		{"trust", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseType(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseType(%q) expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseType(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ParseType(%q) = %s, expected %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExtract(t *testing.T) {
	f := Form{Type: Individual, LastName: "Heinze", FirstName: "Glenn"}
	if p := f.Extract(); p.Type != Individual {
		t.Errorf("Extract() = %+v, expected individual", p)
	}
}
