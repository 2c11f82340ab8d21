package fulltext

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/trident/internal/boolquery"
)

// Render translates a compiled boolquery.Query into RediSearch query syntax.
//
//	match          -> (@title:(text) => { $weight: 2.0; } | @content:(text))
//	bool must      -> (a b)
//	bool should    -> (a | b)          minimum-should-match 1 is | semantics
//	bool must_not  -> (* -a)
func Render(q boolquery.Query, topicPath string) string {
	rendered := renderQuery(q)
	if topicPath != "" {
		rendered = fmt.Sprintf("(@topic:{%s} %s)", escapeTag(topicPath), rendered)
	}
	return rendered
}

func renderQuery(q boolquery.Query) string {
	if q.Match != nil {
		return renderMatch(q.Match)
	}
	if q.Bool != nil {
		return renderBool(q.Bool)
	}
	return "*"
}

func renderMatch(m *boolquery.MatchClause) string {
	text := escapeText(m.Text)
	parts := make([]string, 0, len(m.Fields))
	for _, f := range m.Fields {
		name, boost := splitBoost(f)
		clause := fmt.Sprintf("@%s:(%s)", name, text)
		if boost != "" {
			clause = fmt.Sprintf("%s => { $weight: %s; }", clause, boost)
		}
		parts = append(parts, clause)
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

func renderBool(b *boolquery.BoolClause) string {
	switch {
	case len(b.Must) > 0:
		parts := make([]string, 0, len(b.Must))
		for _, sub := range b.Must {
			parts = append(parts, renderQuery(sub))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case len(b.Should) > 0:
		parts := make([]string, 0, len(b.Should))
		for _, sub := range b.Should {
			parts = append(parts, renderQuery(sub))
		}
		return "(" + strings.Join(parts, " | ") + ")"
	case len(b.MustNot) > 0:
		parts := make([]string, 0, len(b.MustNot)+1)
		// RediSearch rejects a purely negative clause; anchor on all documents.
		parts = append(parts, "*")
		for _, sub := range b.MustNot {
			parts = append(parts, "-"+renderQuery(sub))
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return "*"
	}
}

// splitBoost separates a field spec like "title^2" into name and weight.
func splitBoost(field string) (name, boost string) {
	name, boost, found := strings.Cut(field, "^")
	if !found {
		return field, ""
	}
	return name, boost + ".0"
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"/", "\\/",
	" ", "\\ ",
)

func escapeTag(s string) string {
	return tagEscaper.Replace(s)
}
