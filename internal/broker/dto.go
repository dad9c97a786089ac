package broker

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Phone    string `json:"phone" validate:"max=20"`
	Password string `json:"password" validate:"omitempty,min=8"`
	IsAdmin  bool   `json:"isAdmin"`
}

// UpdateRequest changes only the fields that are present.
type UpdateRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,max=20"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	IsAdmin  *bool   `json:"isAdmin"`
	Active   *bool   `json:"active"`
}

// CreateResponse carries the generated password once, when none was given.
type CreateResponse struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	IsAdmin           bool   `json:"isAdmin"`
	TemporaryPassword string `json:"temporaryPassword,omitempty"`
}
