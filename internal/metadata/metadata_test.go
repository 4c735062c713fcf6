package metadata

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		field    string
		def      string
		expected string
	}{
		{
			name:     "plain value",
			markdown: "author: Jane Doe\n\n# Title\n",
			field:    FieldAuthor,
			def:      "unknown",
			expected: "Jane Doe",
		},
		{
			name:     "quoted value has quotes stripped",
			markdown: "image: \"https://cdn.example.com/pic.jpg\"\n",
			field:    FieldImage,
			def:      "",
			expected: "https://cdn.example.com/pic.jpg",
		},
		{
			name:     "missing field returns default",
			markdown: "# Just a heading\n\nBody text.\n",
			field:    FieldAuthor,
			def:      "unknown",
			expected: "unknown",
		},
		{
			name:     "first occurrence wins",
			markdown: "date: 2024-01-15\ndate: 2025-12-31\n",
			field:    FieldDate,
			def:      "",
			expected: "2024-01-15",
		},
		{
			name:     "field mid-document",
			markdown: "# Title\n\nsome text\ncategory: 7\nmore text\n",
			field:    FieldCategory,
			def:      "",
			expected: "7",
		},
		{
			name:     "field must start at line beginning",
			markdown: "the author: Jane\n",
			field:    FieldAuthor,
			def:      "unknown",
			expected: "unknown",
		},
		{
			name:     "surrounding whitespace trimmed",
			markdown: "author:   Jane Doe  \n",
			field:    FieldAuthor,
			def:      "unknown",
			expected: "Jane Doe",
		},
		{
			name:     "empty buffer returns default",
			markdown: "",
			field:    FieldDate,
			def:      "2024-01-01",
			expected: "2024-01-01",
		},
		{
			name:     "unknown field name compiles on the fly",
			markdown: "series: go-internals\n",
			field:    "series",
			def:      "",
			expected: "go-internals",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract([]byte(tt.markdown), tt.field, tt.def)
			if got != tt.expected {
				t.Errorf("Extract(%q) = %q, want %q", tt.field, got, tt.expected)
			}
		})
	}
}

func TestExtractIsStateless(t *testing.T) {
	markdown := []byte("author: Jane\ndate: 2024-01-15\n")

	first := Extract(markdown, FieldAuthor, "unknown")
	second := Extract(markdown, FieldAuthor, "unknown")
	if first != second {
		t.Errorf("repeated extraction differs: %q vs %q", first, second)
	}

	// Extracting a different field must not disturb the other one.
	if got := Extract(markdown, FieldDate, ""); got != "2024-01-15" {
		t.Errorf("date extraction = %q, want %q", got, "2024-01-15")
	}
	if got := Extract(markdown, FieldAuthor, "unknown"); got != "Jane" {
		t.Errorf("author extraction after date = %q, want %q", got, "Jane")
	}
}
