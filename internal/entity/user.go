package entity

// User account. The password never comes back from the API.
type User struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	IsAdmin  Flag   `json:"isAdmin"`
}

func (u User) Input() UserInput {
	return UserInput{Username: u.Username, IsAdmin: bool(u.IsAdmin)}
}

// UserInput is the PUT /usuarios/users/:id payload. An empty Password is
// omitted so the server keeps the current one.
type UserInput struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password,omitempty"`
	IsAdmin  bool   `json:"isAdmin"`
}

type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Registration struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
	IsAdmin  bool   `json:"isAdmin"`
}
