// Package wikitext reduces MediaWiki markup to plain text and extracts
// infobox parameters. It is a best-effort reader: malformed markup degrades
// to text and never produces an error.
package wikitext

import (
	"html"
	"regexp"
	"strings"
)

var (
	reComment   = regexp.MustCompile(`(?s)<!--.*?(?:-->|$)`)
	reRefSingle = regexp.MustCompile(`(?is)<(?:ref|references)\b[^>]*/>`)
	reRefBlock  = regexp.MustCompile(`(?is)<(ref|references|gallery|math)\b[^>]*>.*?</(?:ref|references|gallery|math)\s*>`)
	reBreak     = regexp.MustCompile(`(?i)<br\s*/?\s*>`)
	reTag       = regexp.MustCompile(`</?[a-zA-Z][^<>]*>`)
	reExtLink   = regexp.MustCompile(`\[(?:https?:)?//[^\s\]]+(?:\s+([^\]]*))?\]`)
	reQuotes    = regexp.MustCompile(`'{2,}`)
	reHeading   = regexp.MustCompile(`(?m)^=+\s*(.*?)\s*=+[ \t]*$`)
	reBullet    = regexp.MustCompile(`(?m)^[*#:;]+[ \t]*`)
)

// Templates whose positional arguments are all visible text.
var listTemplates = map[string]bool{
	"plainlist":       true,
	"plain list":      true,
	"flatlist":        true,
	"flat list":       true,
	"ubl":             true,
	"ubil":            true,
	"unbulleted list": true,
	"hlist":           true,
	"nowrap":          true,
	"small":           true,
	"nobold":          true,
	"nowrap begin":    true,
}

// Templates where only the last positional argument is visible text; the
// first ones carry language codes.
var lastArgTemplates = map[string]bool{
	"lang":        true,
	"native name": true,
	"transl":      true,
}

// Link namespaces that do not render inline text.
var hiddenNamespaces = []string{"file:", "image:", "category:"}

// StripCode returns the plain text of a wiki markup fragment.
func StripCode(markup string) string {
	s := reComment.ReplaceAllString(markup, "")
	s = reRefSingle.ReplaceAllString(s, "")
	s = reRefBlock.ReplaceAllString(s, "")
	s = plain(s)
	s = html.UnescapeString(s)
	return strings.ReplaceAll(s, "\u00a0", " ")
}

// plain strips templates, links and formatting. It is applied recursively to
// the visible arguments of templates and link labels.
func plain(s string) string {
	s = stripBalanced(s, "{{", "}}", renderTemplate)
	s = stripBalanced(s, "[[", "]]", renderLink)
	s = reBreak.ReplaceAllString(s, "\n")
	s = reTag.ReplaceAllString(s, "")
	s = reExtLink.ReplaceAllString(s, "$1")
	s = reQuotes.ReplaceAllString(s, "")
	s = reHeading.ReplaceAllString(s, "$1")
	s = reBullet.ReplaceAllString(s, "")
	return s
}

// stripBalanced replaces every balanced open...close span with the output
// of render applied to its inner text. Unbalanced openers are dropped and the
// rest of the text is kept.
func stripBalanced(s, open, close string, render func(string) string) string {
	var b strings.Builder
	for {
		i := strings.Index(s, open)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		end := findClose(s, i, open, close)
		if end < 0 {
			s = s[i+len(open):]
			continue
		}
		b.WriteString(render(s[i+len(open) : end-len(close)]))
		s = s[end:]
	}
}

// findClose returns the index just past the close token matching the open
// token at start, or -1.
func findClose(s string, start int, open, close string) int {
	depth := 0
	for i := start; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], open):
			depth++
			i += len(open)
		case strings.HasPrefix(s[i:], close):
			depth--
			i += len(close)
			if depth == 0 {
				return i
			}
		default:
			i++
		}
	}
	return -1
}

// splitArgs splits template or link content on pipes that are not nested in
// another template or link.
func splitArgs(s string) []string {
	var parts []string
	var braces, brackets, last int
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], "{{"):
			braces++
			i++
		case strings.HasPrefix(s[i:], "}}") && braces > 0:
			braces--
			i++
		case strings.HasPrefix(s[i:], "[["):
			brackets++
			i++
		case strings.HasPrefix(s[i:], "]]") && brackets > 0:
			brackets--
			i++
		case s[i] == '|' && braces == 0 && brackets == 0:
			parts = append(parts, s[last:i])
			last = i + 1
		}
	}
	return append(parts, s[last:])
}

// namedArg splits "key = value" when the equals sign is outside any nested
// markup.
func namedArg(arg string) (key, value string, ok bool) {
	eq := strings.IndexByte(arg, '=')
	if eq < 0 {
		return "", "", false
	}
	if nested := strings.IndexAny(arg, "{["); nested >= 0 && nested < eq {
		return "", "", false
	}
	return strings.TrimSpace(arg[:eq]), arg[eq+1:], true
}

func templateName(s string) string {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimPrefix(name, "template:")
	return strings.Join(strings.Fields(strings.ReplaceAll(name, "_", " ")), " ")
}

func renderTemplate(inner string) string {
	args := splitArgs(inner)
	name := templateName(args[0])

	var positional []string
	for _, a := range args[1:] {
		if _, _, named := namedArg(a); !named {
			positional = append(positional, a)
		}
	}
	if len(positional) == 0 {
		return ""
	}

	switch {
	case lastArgTemplates[name]:
		return plain(positional[len(positional)-1])
	case listTemplates[name], strings.HasPrefix(name, "lang-"):
		items := make([]string, 0, len(positional))
		for _, p := range positional {
			if t := strings.TrimSpace(plain(p)); t != "" {
				items = append(items, t)
			}
		}
		return strings.Join(items, "\n")
	}
	return ""
}

func renderLink(inner string) string {
	args := splitArgs(inner)
	target := strings.TrimSpace(args[0])
	lower := strings.ToLower(target)
	for _, ns := range hiddenNamespaces {
		if strings.HasPrefix(lower, ns) {
			return ""
		}
	}
	target = strings.TrimPrefix(target, ":")
	if len(args) > 1 {
		if label := plain(strings.Join(args[1:], "|")); strings.TrimSpace(label) != "" {
			return label
		}
	}
	return target
}
