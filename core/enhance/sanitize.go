// ABOUTME: Input and output sanitization for the enhancement pipeline
// ABOUTME: Defends the prompt template against injection and the output against markup breakage

package enhance

import (
	"html"
	"regexp"
	"strings"
)

// maxPromptInputLength caps each sanitized field fed into the prompt
const maxPromptInputLength = 5000

// controlChars matches C0/C1 control characters and DEL
var controlChars = regexp.MustCompile(`[\x00-\x1F\x7F-\x9F]`)

// promptReplacer neutralizes characters that could break template
// rendering or smuggle structure into the prompt. Brackets and
// parentheses become visually equivalent full-width forms.
var promptReplacer = strings.NewReplacer(
	"{", "{{",
	"}", "}}",
	"[", "【",
	"]", "】",
	"(", "（",
	")", "）",
	"\n", " ",
	"\r", " ",
	"\t", " ",
)

// SanitizePromptInput prepares untrusted feed text for interpolation
// into the prompt template.
func SanitizePromptInput(text string) string {
	sanitized := html.EscapeString(text)
	sanitized = promptReplacer.Replace(sanitized)
	sanitized = controlChars.ReplaceAllString(sanitized, "")
	return truncate(sanitized, maxPromptInputLength)
}

// outputEscaper escapes markup-significant characters while preserving
// emoji and other Unicode.
var outputEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// sanitizeOutput strips control characters and HTML-escapes provider text
// before it is handed to downstream markup consumers.
func sanitizeOutput(text string) string {
	return outputEscaper.Replace(controlChars.ReplaceAllString(text, ""))
}

// truncate caps s to max runes.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
