package retention

// TemplatesToPatterns converts retention match entries into regex patterns
// suitable for config.MatchPatterns. Entries containing "{...}" placeholders
// are artifact name templates; anything else is passed through as a regex.
//
// Placeholders like {branch}, {date}, {version} are replaced with regex
// wildcards (.+) so the pattern matches any resolved value. A template
// matches the artifact name with its sequence suffix and extension.
//
// Examples:
//
//	"Game-{branch}_{date}"   → "^Game-.+_.+_\d+(\..+)?$"
//	"!{prefix}_{date}_debug" → "!^.+_.+_debug_\d+(\..+)?$"
//	"^Game-"                 → "^Game-"
func TemplatesToPatterns(entries []string) []string {
	if len(entries) == 0 {
		return nil
	}

	patterns := make([]string, 0, len(entries))
	for _, e := range entries {
		if hasPlaceholder(e) {
			patterns = append(patterns, TemplateToPattern(e))
		} else {
			patterns = append(patterns, e)
		}
	}
	return patterns
}

// TemplateToPattern converts a single artifact name template to a regex.
func TemplateToPattern(tmpl string) string {
	// Preserve negation prefix
	prefix := ""
	s := tmpl
	if len(s) > 0 && s[0] == '!' {
		prefix = "!"
		s = s[1:]
	}

	result := make([]byte, 0, len(s)*2)
	i := 0
	for i < len(s) {
		if s[i] == '{' {
			j := i + 1
			for j < len(s) && s[j] != '}' {
				j++
			}
			if j < len(s) {
				result = append(result, '.', '+')
				i = j + 1
				continue
			}
		}
		if isRegexMeta(s[i]) {
			result = append(result, '\\')
		}
		result = append(result, s[i])
		i++
	}

	return prefix + "^" + string(result) + `_\d+(\..+)?$`
}

func hasPlaceholder(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '{' {
			continue
		}
		for j := i + 1; j < len(s); j++ {
			if s[j] == '}' {
				return true
			}
		}
	}
	return false
}

func isRegexMeta(c byte) bool {
	switch c {
	case '.', '+', '*', '?', '(', ')', '[', ']', '{', '}', '\\', '^', '$', '|':
		return true
	}
	return false
}
