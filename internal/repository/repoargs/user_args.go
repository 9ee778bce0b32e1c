package repoargs

type CreateUser struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// UpdateProfile nil поля не изменяются.
type UpdateProfile struct {
	Name   *string
	Phone  *string
	Avatar *string
}
