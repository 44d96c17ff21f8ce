// internal/api/types/user.go
package types

import "user-service/internal/domain"

// Field selectors accepted by Project.
const (
	FieldID   = "id"
	FieldName = "name"
)

// UserView is the subset of a user record that may leave the service.
type UserView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Age  *int64 `json:"age"`
}

// NewUserView shapes a stored user for a response.
func NewUserView(u *domain.User) UserView {
	return UserView{ID: u.ID, Name: u.Name, Age: u.Age}
}

// NewUserViews shapes a list of users. The result is never nil so it encodes as [].
func NewUserViews(users []domain.User) []UserView {
	views := make([]UserView, 0, len(users))
	for i := range users {
		views = append(views, NewUserView(&users[i]))
	}
	return views
}

// Project narrows v to the single field named by field when it is "id" or
// "name". Any other selector, including "", returns the full view.
func Project(v UserView, field string) interface{} {
	switch field {
	case FieldID:
		return map[string]int64{FieldID: v.ID}
	case FieldName:
		return map[string]string{FieldName: v.Name}
	default:
		return v
	}
}

// ItemResponse is returned by the item echo endpoint.
type ItemResponse struct {
	ItemName string `json:"item_name"`
}
