package models

import "time"

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Message string   `json:"message"`
	User    Identity `json:"user"`
	// Token is the signed session token. It is also set as an HttpOnly
	// cookie; API clients use it in the Authorization header.
	Token string `json:"token"`
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	IsAuthenticated bool      `json:"isAuthenticated"`
	User            *Identity `json:"user"`
}

// ChangePasswordRequest is the body of PATCH /api/change-password/{id}.
type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// MessageResponse is the generic {"message": ...} body used for errors
// and acknowledgements.
type MessageResponse struct {
	Message string `json:"message"`
}

// ImportResponse summarizes a successful import.
type ImportResponse struct {
	Message  string `json:"message"`
	Persons  int    `json:"persons"`
	Accounts int    `json:"accounts"`
}

// PersonView is the sanitized representation of a [Person] returned to
// clients. It never carries the password hash; Whatsapp and Username are
// filled in only when the viewer is allowed to see them.
type PersonView struct {
	ID         string  `json:"id"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	Age        *int    `json:"age,omitempty"`
	Residence  *string `json:"residence,omitempty"`
	Occupation *string `json:"occupation,omitempty"`
	Bio        *string `json:"bio,omitempty"`
	Whatsapp   *string `json:"whatsapp,omitempty"`

	FatherID *string `json:"fatherId,omitempty"`
	MotherID *string `json:"motherId,omitempty"`
	SpouseID *string `json:"spouseId,omitempty"`

	Role     Role    `json:"role"`
	Username *string `json:"username,omitempty"`

	SideRelations []SideRelation `json:"sideRelations"`

	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// NewPersonView builds the public view of p. withContact reveals the
// Whatsapp number, withAccount reveals the username.
func NewPersonView(p Person, withContact, withAccount bool) PersonView {
	c := p.Clone()
	v := PersonView{
		ID:            c.ID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		Age:           c.Age,
		Residence:     c.Residence,
		Occupation:    c.Occupation,
		Bio:           c.Bio,
		FatherID:      c.FatherID,
		MotherID:      c.MotherID,
		SpouseID:      c.SpouseID,
		Role:          c.Role,
		SideRelations: c.SideRelations,
		CreatedAt:     c.CreatedAt,
	}
	if withContact {
		v.Whatsapp = c.Whatsapp
	}
	if withAccount {
		v.Username = c.Username
	}
	if v.SideRelations == nil {
		v.SideRelations = []SideRelation{}
	}
	return v
}
