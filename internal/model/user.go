package model

// Roles understood by the authorization middleware.
const (
    RoleAdmin = "admin"
    RoleUser  = "user"
)

// User represents an application user record as stored in the
// `users` table.  The password hash is only read by the login flow;
// every other component needs nothing more than the ID.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name printed on tickets.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – admin or user.
type User struct {
    ID           uint64 // users.id
    Name         string // users.name
    Email        string // users.email
    PasswordHash string // users.password_hash
    Role         string // users.role
}
