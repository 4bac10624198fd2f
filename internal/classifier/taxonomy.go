package classifier

import "strings"

// Category is one ordered bucket of tracked keywords, e.g. "Game" or
// "Console".
type Category struct {
	Name     string   `mapstructure:"name"`
	Keywords []string `mapstructure:"keywords"`
}

// Match is a keyword hit and the category it was declared under.
type Match struct {
	Keyword  string
	Category string
}

// Taxonomy is an immutable, ordered keyword taxonomy. Category order
// and keyword order within a category decide tie-breaks: the first
// keyword found in declaration order wins, regardless of where it
// appears in the text.
type Taxonomy struct {
	categories []Category
	lowered    [][]string
}

// NewTaxonomy builds a taxonomy from the given categories. The slices
// are copied so later mutation of the input cannot change matching
// behavior.
func NewTaxonomy(categories []Category) *Taxonomy {
	t := &Taxonomy{
		categories: make([]Category, len(categories)),
		lowered:    make([][]string, len(categories)),
	}
	for i, c := range categories {
		t.categories[i] = Category{
			Name:     c.Name,
			Keywords: append([]string(nil), c.Keywords...),
		}
		t.lowered[i] = make([]string, len(c.Keywords))
		for j, kw := range c.Keywords {
			t.lowered[i][j] = strings.ToLower(kw)
		}
	}
	return t
}

// Categories returns a copy of the declared categories.
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		out[i] = Category{Name: c.Name, Keywords: append([]string(nil), c.Keywords...)}
	}
	return out
}

// Size returns the total number of keywords across all categories.
func (t *Taxonomy) Size() int {
	n := 0
	for _, c := range t.categories {
		n += len(c.Keywords)
	}
	return n
}

// FindEntity scans the text for the first tracked keyword, in
// declaration order, using case-insensitive substring matching.
// It reports false for empty or unmatched text.
func (t *Taxonomy) FindEntity(text string) (Match, bool) {
	if strings.TrimSpace(text) == "" {
		return Match{}, false
	}
	haystack := strings.ToLower(text)
	for i, c := range t.categories {
		for j, kw := range c.Keywords {
			if strings.Contains(haystack, t.lowered[i][j]) {
				return Match{Keyword: kw, Category: c.Name}, true
			}
		}
	}
	return Match{}, false
}
