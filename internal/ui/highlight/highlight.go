// Package highlight renders SQL with terminal colors
package highlight

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// SQL highlights sql for a 256 color terminal using the named chroma style.
// The input is returned unchanged when highlighting fails
func SQL(sql, styleName string) string {
	if sql == "" {
		return ""
	}

	lexer := lexers.Get("postgresql")
	if lexer == nil {
		lexer = lexers.Get("sql")
	}
	if lexer == nil {
		return sql
	}
	// Coalesce runs of tokens to reduce output
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, sql)
	if err != nil {
		return sql
	}

	// Remove trailing newline added by the lexer
	tokens := iterator.Tokens()
	if n := len(tokens); n > 0 && !strings.HasSuffix(sql, "\n") {
		tokens[n-1].Value = strings.TrimSuffix(tokens[n-1].Value, "\n")
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, chroma.Literator(tokens...)); err != nil {
		return sql
	}
	return buf.String()
}
