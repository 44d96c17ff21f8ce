// internal/domain/user.go
package domain

// MaxNameLength is the width of the name column in the users table.
const MaxNameLength = 32

// User represents a user record.
type User struct {
	ID   int64  `db:"id" json:"id"`     // Primary key, assigned by the store
	Name string `db:"name" json:"name"` // VARCHAR(32), never empty
	Age  *int64 `db:"age" json:"age"`   // Nullable
}

// NewUser creates a new User instance that has not been persisted yet.
func NewUser(name string, age *int64) *User {
	return &User{
		Name: name,
		Age:  age,
	}
}

// UserPatch carries the fields of a partial update. A nil field is left untouched.
type UserPatch struct {
	Name *string
	Age  *int64
}

// IsEmpty reports whether the patch would change nothing.
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Age == nil
}

// Apply copies the provided fields onto u.
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Age != nil {
		age := *p.Age
		u.Age = &age
	}
}
