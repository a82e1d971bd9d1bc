package xylem

import "io"

// EscapeText writes s to out with the markup significant characters
// ('&', '<', '>') replaced by their predefined entities.
func EscapeText(out io.Writer, s string) error {
	last := 0
	for i := 0; i < len(s); i++ {
		var esc string
		switch s[i] {
		case '&':
			esc = "&amp;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		default:
			continue
		}
		if last < i {
			if _, err := io.WriteString(out, s[last:i]); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(out, esc); err != nil {
			return err
		}
		last = i + 1
	}
	if last < len(s) {
		if _, err := io.WriteString(out, s[last:]); err != nil {
			return err
		}
	}
	return nil
}

// EscapeAttribute writes s as the body of an attribute value quoted
// with quote, escaping '&', '<' and the quote character itself.
func EscapeAttribute(out io.Writer, s string, quote byte) error {
	last := 0
	for i := 0; i < len(s); i++ {
		var esc string
		switch c := s[i]; {
		case c == '&':
			esc = "&amp;"
		case c == '<':
			esc = "&lt;"
		case c == quote && quote == '"':
			esc = "&quot;"
		case c == quote && quote == '\'':
			esc = "&apos;"
		default:
			continue
		}
		if last < i {
			if _, err := io.WriteString(out, s[last:i]); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(out, esc); err != nil {
			return err
		}
		last = i + 1
	}
	if last < len(s) {
		if _, err := io.WriteString(out, s[last:]); err != nil {
			return err
		}
	}
	return nil
}
