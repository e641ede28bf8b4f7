package domain

type Role string

const (
	RoleCustomer Role = "customer"
	RoleVet      Role = "vet"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	Role         Role
}
