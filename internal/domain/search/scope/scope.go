// Package scope defines which document fields a query is matched against.
package scope

// Scope restricts which fields a query is matched against.
type Scope string

// Supported scopes.
const (
	All     Scope = "all"
	Title   Scope = "title"
	Content Scope = "content"
	Authors Scope = "authors"
	Tags    Scope = "tags"
)

// IsValid reports whether s is a known scope.
func (s Scope) IsValid() bool {
	switch s {
	case All, Title, Content, Authors, Tags:
		return true
	}
	return false
}
