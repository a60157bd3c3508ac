package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"exact", "John Smith", "John Smith", true},
		{"case insensitive", "john smith", "John Smith", true},
		{"empty never matches", "", "John Smith", false},
		{"both empty", "", "", false},

		{"reversed comma name", "Kallatti, Manjunath", "Manjunath Kallatti", true},
		{"token subset with middle name", "Manjunath R Kallatti", "Manjunath Kallatti", true},

		{"surname substring", "Daniel Anderson", "Anderson", true},
		{"two letter query rejected", "Daniel Anderson", "an", false},

		{"dotted email to name", "manjunath.kallatti@x.com", "Manjunath Kallatti", true},
		{"reversed name against email", "m.kallatti@x.com", "Kallatti, Manjunath", true},
		{"initial plus surname email", "jsmith@co.com", "John Smith", true},
		{"unrelated email and name", "jsmith@x.com", "Bob Jones", false},
		{"different emails", "jsmith@x.com", "john.smith@x.com", false},
		{"same email", "jsmith@x.com", "jsmith@x.com", true},

		{"normalized slug", "john_smith", "John.Smith", true},
		{"nickname via normalizer", "Daniel", "dan", true},

		{"token fallback surname", "Smith, John (Contractor)", "smith", true},
		{"unrelated names", "Jane Doe", "John Smith", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.a, tt.b), "Match(%q, %q)", tt.a, tt.b)
			assert.Equal(t, tt.want, Match(tt.b, tt.a), "Match(%q, %q)", tt.b, tt.a)
		})
	}
}

// Match must be symmetric for every pair, including pairs that do not
// match at all.
func TestMatchSymmetry(t *testing.T) {
	corpus := []string{
		"John Smith",
		"Smith, John",
		"jsmith@co.com",
		"john.smith@co.com",
		"Manjunath Kallatti",
		"Kallatti, Manjunath",
		"m.kallatti@x.com",
		"Daniel Anderson",
		"an",
		"dan",
		"Bob Jones",
		"",
		"  ",
		"j_s",
	}

	for _, a := range corpus {
		for _, b := range corpus {
			assert.Equal(t, Match(a, b), Match(b, a), "asymmetric for (%q, %q)", a, b)
		}
	}
}
