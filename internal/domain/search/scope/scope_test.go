package scope

import "testing"

func TestIsValid(t *testing.T) {
	for _, s := range []Scope{All, Title, Content, Authors, Tags} {
		if !s.IsValid() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []Scope{"", "body", "ALL"} {
		if s.IsValid() {
			t.Errorf("%q should be invalid", s)
		}
	}
}
