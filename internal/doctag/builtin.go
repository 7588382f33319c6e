package doctag

import (
	"context"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Builtin is the in-process tokenizer for /** ... */ blocks.
//
// Each block yields one Doc. A line starting with @ opens a tag: the word
// after @ is the tag, an optional {type} is dropped, the next word is the
// name and the rest is the description. Lines without @ extend the open tag's
// description, or the block description before the first tag.
type Builtin struct{}

// Tokenize implements Tokenizer.
func (Builtin) Tokenize(ctx context.Context, comment string) ([]Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ParseComment(comment), nil
}

// ParseComment splits text into doc blocks. Text outside /** */ is ignored,
// as are plain /* */ comments and unterminated blocks.
func ParseComment(text string) []Doc {
	var docs []Doc
	rest := text
	for {
		start := strings.Index(rest, "/**")
		if start < 0 {
			break
		}
		body := rest[start+3:]
		if strings.HasPrefix(body, "/") {
			// "/**/" is an empty plain comment
			rest = body[1:]
			continue
		}
		end := strings.Index(body, "*/")
		if end < 0 {
			break
		}
		docs = append(docs, parseBlock(body[:end]))
		rest = body[end+2:]
	}
	return docs
}

func parseBlock(body string) Doc {
	var (
		doc     Doc
		desc    []string
		cur     *Tag
		curDesc []string
	)
	flush := func() {
		if cur == nil {
			return
		}
		if len(curDesc) > 0 {
			cur.Description = clean(strings.Join(append([]string{cur.Description}, curDesc...), " "))
		}
		doc.Tags = append(doc.Tags, *cur)
		cur, curDesc = nil, nil
	}

	for _, line := range strings.Split(body, "\n") {
		line = stripDecoration(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "@") && len(line) > 1 {
			flush()
			t := parseTagLine(line[1:])
			cur = &t
			continue
		}
		if cur != nil {
			curDesc = append(curDesc, line)
		} else {
			desc = append(desc, line)
		}
	}
	flush()
	doc.Description = clean(strings.Join(desc, " "))
	return doc
}

// stripDecoration removes leading blanks and the "*" gutter of a comment line.
func stripDecoration(line string) string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "*")
	return strings.TrimSpace(line)
}

func parseTagLine(s string) Tag {
	tag, rest := splitWord(s)
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, "{") && tag != "{" {
		if closeIdx := strings.Index(rest, "}"); closeIdx >= 0 {
			rest = strings.TrimSpace(rest[closeIdx+1:])
		}
	}
	name, desc := splitWord(rest)
	return Tag{
		Tag:         tag,
		Name:        clean(name),
		Description: clean(desc),
	}
}

func splitWord(s string) (word, rest string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

// clean collapses whitespace runs and normalizes to NFC so that visually
// identical comments compare equal.
func clean(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
