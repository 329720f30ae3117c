package html

import "testing"

func TestStripTags_RemovesTags(t *testing.T) {
	got := StripTags(`<p>Hello <b>world</b></p>`)

	if got != "Hello world" {
		t.Errorf("StripTags returned %q, want %q", got, "Hello world")
	}
}

func TestStripTags_PlainText(t *testing.T) {
	got := StripTags("  plain text  ")

	if got != "plain text" {
		t.Errorf("StripTags returned %q, want %q", got, "plain text")
	}
}

func TestStripTags_Empty(t *testing.T) {
	if got := StripTags(""); got != "" {
		t.Errorf("StripTags(\"\") returned %q, want empty", got)
	}
}

func TestStripTags_SkipsScriptContent(t *testing.T) {
	got := StripTags(`<div>before<script>var x = 1;</script>after</div>`)

	if got != "beforeafter" {
		t.Errorf("StripTags returned %q, want %q", got, "beforeafter")
	}
}

func TestStripTags_PreservesInnerWhitespace(t *testing.T) {
	got := StripTags("<p>line one\nline  two</p>")

	if got != "line one\nline  two" {
		t.Errorf("StripTags collapsed inner whitespace: %q", got)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	got := CollapseWhitespace("  A \t title\n with   gaps ")

	if got != "A title with gaps" {
		t.Errorf("CollapseWhitespace returned %q", got)
	}
}

func TestCollapseWhitespace_Empty(t *testing.T) {
	if got := CollapseWhitespace(""); got != "" {
		t.Errorf("CollapseWhitespace(\"\") returned %q, want empty", got)
	}
}
