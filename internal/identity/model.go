// Package identity defines the credential-store boundary of the auth core:
// the identity record held for each admin and driver, and the Gateway
// through which the remote document database is reached.
package identity

// Role discriminates the two principal kinds. Admin identities additionally
// act as the elevated principal for password resets.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleDriver Role = "driver"
)

// Collection names the store collection an identity lives in. Lookups are
// polymorphic over the two collections; the matching collection fixes the
// record's Role.
type Collection string

const (
	CollectionAdmins  Collection = "admins"
	CollectionDrivers Collection = "drivers"
)

// Collection returns the store collection that holds identities of this role.
func (r Role) Collection() Collection {
	if r == RoleAdmin {
		return CollectionAdmins
	}
	return CollectionDrivers
}

// Role returns the role implied by membership in this collection.
func (c Collection) Role() Role {
	if c == CollectionAdmins {
		return RoleAdmin
	}
	return RoleDriver
}

// Record is a stored credential entry. Name is held upper-cased; the login
// name is the display name case-normalized for lookup. Salt and PasswordHash
// are lowercase hex and are either both set or both empty; legacy accounts
// have neither and cannot authenticate until an admin resets them.
type Record struct {
	ID           string
	Name         string
	Role         Role
	Salt         string
	PasswordHash string
}

// HasCredentials reports whether the record carries usable salt+hash.
func (r *Record) HasCredentials() bool {
	return r != nil && r.Salt != "" && r.PasswordHash != ""
}
