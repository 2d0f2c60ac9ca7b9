package domain

import "strings"

// Specialization is a medical field from /specializations.
type Specialization struct {
	ID          ID     `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Matches reports whether the specialization matches a free-text search.
func (s Specialization) Matches(query string) bool {
	return Contains(query, s.Name, s.Description)
}

// SpecializationForm is the admin create/edit form.
type SpecializationForm struct {
	Name        string `validate:"required"`
	Description string
}

func (f SpecializationForm) Specialization(id ID) Specialization {
	return Specialization{
		ID:          id,
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
	}
}
