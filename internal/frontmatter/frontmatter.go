// Package frontmatter detects the leading YAML block of a markdown document.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates YAML frontmatter (`---` delimited) from the markdown body.
//
// If the document does not start with a delimiter line, had is false and body
// is the full input. Both LF and CRLF line endings are recognized.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := newline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter at EOF without a trailing newline.
		tail := []byte(nl + "---")
		if bytes.HasSuffix(content, tail) && len(content)-len(tail) >= start {
			return content[start : len(content)-len(tail)+len(nl)], []byte{}, true, nil
		}
		return nil, content, false, ErrMissingClosingDelimiter
	}

	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closeSeq):], true, nil
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Strip returns the body of content without its frontmatter.
//
// A leading `---` block that is unterminated or not a YAML mapping is ordinary
// markdown (a thematic break or setext heading), so content is returned
// unchanged and ok is false.
func Strip(content []byte) (body []byte, fields map[string]any, ok bool) {
	fm, body, had, err := Split(content)
	if err != nil || !had {
		return content, nil, false
	}
	fields, err = ParseYAML(fm)
	if err != nil {
		return content, nil, false
	}
	return body, fields, true
}

func newline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
