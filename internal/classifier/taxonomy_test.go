package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCategories() []Category {
	return []Category{
		{Name: "Game", Keywords: []string{"Starfield", "Helldivers 2", "Elden Ring"}},
		{Name: "Console", Keywords: []string{"PS5", "Xbox", "PlayStation 5"}},
		{Name: "Platform", Keywords: []string{"PC", "Steam"}},
		{Name: "Company", Keywords: []string{"Ubisoft", "Nintendo", "Sony"}},
	}
}

func TestTaxonomy_FindEntity(t *testing.T) {
	taxonomy := NewTaxonomy(testCategories())

	tests := []struct {
		name         string
		text         string
		wantKeyword  string
		wantCategory string
		wantMatch    bool
	}{
		{
			name:         "single keyword",
			text:         "Starfield is amazing!",
			wantKeyword:  "Starfield",
			wantCategory: "Game",
			wantMatch:    true,
		},
		{
			name:         "case insensitive",
			text:         "just bought a ps5 yesterday",
			wantKeyword:  "PS5",
			wantCategory: "Console",
			wantMatch:    true,
		},
		{
			name:         "declaration order wins over text position",
			text:         "Sony really nailed it with Elden Ring",
			wantKeyword:  "Elden Ring",
			wantCategory: "Game",
			wantMatch:    true,
		},
		{
			name:         "overlapping keywords resolved positionally",
			text:         "PlayStation 5 is great",
			wantKeyword:  "PlayStation 5",
			wantCategory: "Console",
			wantMatch:    true,
		},
		{
			name:         "abbreviation declared first wins when both appear",
			text:         "my PlayStation 5 (PS5) arrived",
			wantKeyword:  "PS5",
			wantCategory: "Console",
			wantMatch:    true,
		},
		{
			name:      "no keyword",
			text:      "meh, nothing special",
			wantMatch: false,
		},
		{
			name:      "empty text",
			text:      "",
			wantMatch: false,
		},
		{
			name:      "whitespace only",
			text:      "   \n\t  ",
			wantMatch: false,
		},
		{
			name:         "substring match inside a word",
			text:         "the pct numbers look fine",
			wantKeyword:  "PC",
			wantCategory: "Platform",
			wantMatch:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, ok := taxonomy.FindEntity(tt.text)
			assert.Equal(t, tt.wantMatch, ok)
			if tt.wantMatch {
				assert.Equal(t, tt.wantKeyword, match.Keyword)
				assert.Equal(t, tt.wantCategory, match.Category)
			}
		})
	}
}

func TestTaxonomy_FindEntity_MultipleKeywordsDeclarationOrder(t *testing.T) {
	taxonomy := NewTaxonomy(testCategories())

	// "Xbox" appears first in the text, but "Starfield" is declared
	// first in the taxonomy and must win.
	match, ok := taxonomy.FindEntity("Xbox exclusive Starfield reviewed")
	assert.True(t, ok)
	assert.Equal(t, "Starfield", match.Keyword)
	assert.Equal(t, "Game", match.Category)
}

func TestTaxonomy_ImmutableAfterConstruction(t *testing.T) {
	categories := testCategories()
	taxonomy := NewTaxonomy(categories)

	// Mutating the input slice must not change matching.
	categories[0].Keywords[0] = "Something Else"

	match, ok := taxonomy.FindEntity("Starfield again")
	assert.True(t, ok)
	assert.Equal(t, "Starfield", match.Keyword)
}

func TestTaxonomy_Size(t *testing.T) {
	taxonomy := NewTaxonomy(testCategories())
	assert.Equal(t, 11, taxonomy.Size())
}
