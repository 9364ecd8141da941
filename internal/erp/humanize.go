package erp

import (
	"regexp"
	"strings"
)

// maxHumanizeDepth bounds recursion into nested exception messages
const maxHumanizeDepth = 5

// maxHumanizedLength caps fallback messages that matched no rule
const maxHumanizedLength = 300

type humanizeRule struct {
	pattern *regexp.Regexp
	// rewrite receives the submatches and a recurse function honoring the
	// remaining depth budget
	rewrite func(m []string, recurse func(string) string) string
}

// Rules are evaluated in order; first match wins. Several ERP error shapes
// nest one human-readable message inside another, so rules may recurse.
var humanizeRules = []humanizeRule{
	{
		pattern: regexp.MustCompile(`(?i)^PX\.[\w.]+Exception:\s*(.+)`),
		rewrite: func(m []string, recurse func(string) string) string {
			return recurse(m[1])
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)Inserting\s+'([^']+)'\s+record\s+raised\s+at\s+least\s+one\s+error[.:]\s*(.*)`),
		rewrite: func(m []string, recurse func(string) string) string {
			inner := strings.TrimSpace(m[2])
			if inner == "" {
				return "Failed to create " + m[1] + " record"
			}
			return "Failed to create " + m[1] + " record: " + recurse(inner)
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)An error occurred during processing[^.]*\.\s*(.*)`),
		rewrite: func(m []string, recurse func(string) string) string {
			inner := strings.TrimSpace(m[1])
			if inner == "" {
				return "An error occurred during processing"
			}
			return recurse(inner)
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)Error:\s*'([^']+)'\s*cannot be found`),
		rewrite: func(m []string, _ func(string) string) string {
			return `Record "` + m[1] + `" was not found in the ERP system`
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)duplicate key|already exists|unique constraint|violates unique`),
		rewrite: func(_ []string, _ func(string) string) string {
			return "A record with this key already exists"
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)(?:required field|cannot be empty|is required)[^'"]*['"]([^'"]+)['"]`),
		rewrite: func(m []string, _ func(string) string) string {
			return `Required field "` + m[1] + `" is missing or empty`
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)^Error\s*#?\d+:\s*(.*)`),
		rewrite: func(m []string, recurse func(string) string) string {
			return recurse(m[1])
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)record has been deleted|another process`),
		rewrite: func(_ []string, _ func(string) string) string {
			return "The record was modified or deleted by another process. Try again."
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)timeout|timed out`),
		rewrite: func(_ []string, _ func(string) string) string {
			return "The request timed out. The ERP server may be busy."
		},
	},
	{
		pattern: regexp.MustCompile(`(?i)unauthorized|authentication failed|login failed`),
		rewrite: func(_ []string, _ func(string) string) string {
			return "Authentication failed. Check your connection credentials."
		},
	},
}

var (
	errorPrefix     = regexp.MustCompile(`(?i)^Error:\s*`)
	exceptionPrefix = regexp.MustCompile(`(?i)^Exception:\s*`)
)

// HumanizeError rewrites a raw backend exception string into a short,
// user-presentable sentence. Unmatched messages are prefix-stripped and
// length-capped rather than passed through raw.
func HumanizeError(raw string) string {
	return humanize(raw, maxHumanizeDepth)
}

func humanize(raw string, depth int) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "Unknown error"
	}

	if depth > 0 {
		recurse := func(inner string) string { return humanize(inner, depth-1) }
		for _, rule := range humanizeRules {
			if m := rule.pattern.FindStringSubmatch(trimmed); m != nil {
				return rule.rewrite(m, recurse)
			}
		}
	}

	cleaned := errorPrefix.ReplaceAllString(trimmed, "")
	cleaned = exceptionPrefix.ReplaceAllString(cleaned, "")
	cleaned = strings.TrimSpace(cleaned)

	if runes := []rune(cleaned); len(runes) > maxHumanizedLength {
		cleaned = string(runes[:maxHumanizedLength-3]) + "..."
	}

	if cleaned == "" {
		return "Unknown error"
	}
	return cleaned
}

// HumanizeGatewayError humanizes a classified gateway error's message, or
// the plain error string for anything else
func HumanizeGatewayError(err error) string {
	if e := AsError(err); e != nil {
		return HumanizeError(e.Message)
	}
	return HumanizeError(err.Error())
}

// apiErrorBody mirrors the ERP's JSON error envelope
type apiErrorBody struct {
	Message          string        `json:"message"`
	ExceptionMessage string        `json:"exceptionMessage"`
	InnerException   *apiErrorBody `json:"innerException"`
}

// ExtractInnerMessage digs to the deepest nested exception message and
// humanizes it
func ExtractInnerMessage(body *apiErrorBody) string {
	deepest := body.ExceptionMessage
	if deepest == "" {
		deepest = body.Message
	}
	for cur := body.InnerException; cur != nil; cur = cur.InnerException {
		if cur.ExceptionMessage != "" {
			deepest = cur.ExceptionMessage
		} else if cur.Message != "" {
			deepest = cur.Message
		}
	}
	return HumanizeError(deepest)
}
