package domain

import "strconv"

// Patient is a patient record from /patients.
type Patient struct {
	ID        ID     `json:"id"`
	Name      string `json:"name,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Username  string `json:"username,omitempty"`
	Age       *int   `json:"age,omitempty"`
	Gender    string `json:"gender,omitempty"`
	Address   string `json:"address,omitempty"`
	Pic       string `json:"pic,omitempty"`
}

// DisplayName resolves name, first and last name, username, then
// "Unknown Patient".
func (p Patient) DisplayName() string {
	return firstNonEmpty(p.Name, fullName(p.FirstName, p.LastName), p.Username, "Unknown Patient")
}

// AgeText renders the age or "N/A".
func (p Patient) AgeText() string {
	if p.Age == nil {
		return "N/A"
	}
	return strconv.Itoa(*p.Age)
}

// Matches reports whether the patient matches a free-text search over name,
// email, phone and username.
func (p Patient) Matches(query string) bool {
	return Contains(query, p.DisplayName(), p.Email, p.Phone, p.Username)
}
