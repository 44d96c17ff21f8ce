package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"user-service/internal/domain"
)

func encode(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestProject(t *testing.T) {
	age := int64(30)
	view := NewUserView(&domain.User{ID: 2, Name: "bob", Age: &age})

	tests := []struct {
		field string
		want  string
	}{
		{field: "id", want: `{"id":2}`},
		{field: "name", want: `{"name":"bob"}`},
		{field: "", want: `{"id":2,"name":"bob","age":30}`},
		{field: "age", want: `{"id":2,"name":"bob","age":30}`},
		{field: "ID", want: `{"id":2,"name":"bob","age":30}`},
	}
	for _, tc := range tests {
		t.Run("field="+tc.field, func(t *testing.T) {
			assert.JSONEq(t, tc.want, encode(t, Project(view, tc.field)))
		})
	}
}

func TestNewUserViews(t *testing.T) {
	assert.Equal(t, `[]`, encode(t, NewUserViews(nil)))

	views := NewUserViews([]domain.User{{ID: 1, Name: "alex"}, {ID: 3, Name: "chris"}})
	assert.JSONEq(t, `[{"id":1,"name":"alex","age":null},{"id":3,"name":"chris","age":null}]`, encode(t, views))
}
