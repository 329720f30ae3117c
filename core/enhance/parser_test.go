package enhance

import (
	"strings"
	"testing"
)

func newTestParser() *ResponseParser {
	return NewResponseParser(testAIConfig())
}

func TestParse_DirectJSON(t *testing.T) {
	raw := `{"title":"New Headline Today","description":"A description of sufficient length"}`

	result := newTestParser().Parse(raw)

	if result == nil {
		t.Fatal("Parse returned nil")
	}
	if result.Title != "New Headline Today" {
		t.Errorf("Title = %q", result.Title)
	}
	if result.Description != "A description of sufficient length" {
		t.Errorf("Description = %q", result.Description)
	}
}

func TestParse_CompletionEnvelope(t *testing.T) {
	raw := `{"choices":[{"message":{"content":"Title: Improved Headline\nDescription: Better text over ten chars"}}]}`

	result := newTestParser().Parse(raw)

	if result == nil {
		t.Fatal("Parse returned nil")
	}
	if result.Title != "Improved Headline" {
		t.Errorf("Title = %q", result.Title)
	}
	if result.Description != "Better text over ten chars" {
		t.Errorf("Description = %q", result.Description)
	}
}

func TestParse_LabeledText(t *testing.T) {
	raw := "Title: Hello World\nDescription: This is a test description longer than ten chars"

	result := newTestParser().Parse(raw)

	if result == nil {
		t.Fatal("Parse returned nil")
	}
	if result.Title != "Hello World" {
		t.Errorf("Title = %q, want %q", result.Title, "Hello World")
	}
	if !strings.HasPrefix(result.Description, "This is a test") {
		t.Errorf("Description = %q, want prefix %q", result.Description, "This is a test")
	}
}

func TestParse_LocalizedLabels(t *testing.T) {
	raw := "Заголовок: Свежие новости дня\nОписание: Подробное описание события на сегодня"

	result := newTestParser().Parse(raw)

	if result == nil {
		t.Fatal("Parse returned nil")
	}
	if result.Title != "Свежие новости дня" {
		t.Errorf("Title = %q", result.Title)
	}
	if !strings.HasPrefix(result.Description, "Подробное") {
		t.Errorf("Description = %q", result.Description)
	}
}

func TestParse_InlineJSONFragment(t *testing.T) {
	raw := `Here you go: {"title": "Fresh Headline", "description": "A longer rewritten description"}`

	result := newTestParser().Parse(raw)

	if result == nil {
		t.Fatal("Parse returned nil")
	}
	if result.Title != "Fresh Headline" {
		t.Errorf("Title = %q", result.Title)
	}
	if result.Description != "A longer rewritten description" {
		t.Errorf("Description = %q", result.Description)
	}
}

func TestParse_BlankLineFallback(t *testing.T) {
	raw := "Short headline here\n\nThen a much longer body of text follows."

	result := newTestParser().Parse(raw)

	if result == nil {
		t.Fatal("Parse returned nil")
	}
	if result.Title != "Short headline here" {
		t.Errorf("Title = %q", result.Title)
	}
	if result.Description != "Then a much longer body of text follows." {
		t.Errorf("Description = %q", result.Description)
	}
}

func TestParse_SentenceFallback(t *testing.T) {
	raw := "First sentence here. Second one follows! Third is longer. Fourth ignored."

	result := newTestParser().Parse(raw)

	if result == nil {
		t.Fatal("Parse returned nil")
	}
	if result.Title != "First sentence here" {
		t.Errorf("Title = %q", result.Title)
	}
	if result.Description != "Second one follows Third is longer" {
		t.Errorf("Description = %q", result.Description)
	}
}

func TestParse_OffsetFallback(t *testing.T) {
	raw := strings.Repeat("x", 150)

	result := newTestParser().Parse(raw)

	if result == nil {
		t.Fatal("Parse returned nil")
	}
	if len(result.Title) != 100 {
		t.Errorf("Title length = %d, want 100", len(result.Title))
	}
	if len(result.Description) != 50 {
		t.Errorf("Description length = %d, want 50", len(result.Description))
	}
}

func TestParse_Empty(t *testing.T) {
	if result := newTestParser().Parse("   \n "); result != nil {
		t.Errorf("Parse = %+v, want nil for blank input", result)
	}
}

func TestParse_OutputEscaped(t *testing.T) {
	raw := `{"title":"Quarterly <b>Report</b>","description":"Numbers & analysis for the quarter"}`

	result := newTestParser().Parse(raw)

	if result.Title != "Quarterly &lt;b&gt;Report&lt;/b&gt;" {
		t.Errorf("Title = %q, want escaped markup", result.Title)
	}
	if result.Description != "Numbers &amp; analysis for the quarter" {
		t.Errorf("Description = %q, want escaped ampersand", result.Description)
	}
}

func TestParse_FieldsCapped(t *testing.T) {
	cfg := testAIConfig()
	cfg.MaxTitleLength = 10
	cfg.MaxDescriptionLength = 20
	parser := NewResponseParser(cfg)

	raw := `{"title":"This Title Is Far Too Long","description":"This description also exceeds the configured cap"}`
	result := parser.Parse(raw)

	if got := len([]rune(result.Title)); got != 10 {
		t.Errorf("Title length = %d, want 10", got)
	}
	if got := len([]rune(result.Description)); got != 20 {
		t.Errorf("Description length = %d, want 20", got)
	}
}
