package wikitext

import "strings"

// InfoboxField returns the raw markup of a parameter of the first infobox
// template in a page's wikitext. The field name is matched
// case-insensitively.
func InfoboxField(wikitext, field string) (string, bool) {
	field = strings.ToLower(strings.TrimSpace(field))
	s := reComment.ReplaceAllString(wikitext, "")

	for offset := 0; ; {
		i := strings.Index(s[offset:], "{{")
		if i < 0 {
			return "", false
		}
		start := offset + i
		end := findClose(s, start, "{{", "}}")
		if end < 0 {
			return "", false
		}

		args := splitArgs(s[start+2 : end-2])
		if !strings.HasPrefix(templateName(args[0]), "infobox") {
			// infoboxes are top-level templates; skip past this one
			offset = end
			continue
		}

		for _, a := range args[1:] {
			key, value, ok := namedArg(a)
			if ok && strings.ToLower(key) == field {
				value = strings.TrimSpace(value)
				return value, value != ""
			}
		}
		return "", false
	}
}
