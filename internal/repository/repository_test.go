package repository

import (
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicate(t *testing.T) {
	assert.True(t, IsDuplicate(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.True(t, IsDuplicate(fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062})))
	assert.False(t, IsDuplicate(&mysql.MySQLError{Number: 1213, Message: "Deadlock found"}))
	assert.False(t, IsDuplicate(nil))
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain path", "Assets:Cash", "Assets:Cash"},
		{"underscore", "Assets:A_B", `Assets:A\_B`},
		{"percent", "Assets:100% Owned", `Assets:100\% Owned`},
		{"backslash", `Assets:C\D`, `Assets:C\\D`},
		{"all metacharacters", `A_B%C\D`, `A\_B\%C\\D`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLike(tt.in))
		})
	}
}

// A path prefix with an underscore must not produce a pattern that matches a
// sibling subtree: the escaped form of "Assets:A_B" may match only literal
// "Assets:A_B:..." while the raw form would also match "Assets:AXB:...".
func TestEscapeLikeKeepsSiblingSubtreesApart(t *testing.T) {
	escaped := escapeLike("Assets:A_B")
	assert.Equal(t, `Assets:A\_B`, escaped)
	assert.NotContains(t, escaped, "A_B", "the underscore must be escaped in the pattern")
}
