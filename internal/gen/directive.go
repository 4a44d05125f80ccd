package gen

import (
	"fmt"
	"go/scanner"
	"go/token"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// DirectivePrefix starts every annotation directive.
const DirectivePrefix = "//invokable:"

const verbAnnotate = "annotate"

// directive is a parsed `//invokable:<verb> <payload>` comment.
type directive struct {
	Verb    string `parser:"Slashes Prefix @Verb"`
	Payload string `parser:"@Payload?"`
}

var directiveParser = participle.MustBuild[directive](
	participle.Lexer(lexer.MustStateful(lexer.Rules{
		"Root": {
			{Name: "Slashes", Pattern: `//`},
			{Name: "Prefix", Pattern: `invokable:`},
			{Name: "Verb", Pattern: `[a-z]+`, Action: lexer.Push("Expr")},
		},
		"Expr": {
			{Name: "Whitespace", Pattern: `[ \t]+`},
			{Name: "Payload", Pattern: `\S.*`},
		},
	})),
	participle.Elide("Whitespace"),
)

func isDirective(comment string) bool {
	return strings.HasPrefix(comment, DirectivePrefix)
}

func parseDirective(comment string) (*directive, error) {
	d, err := directiveParser.ParseString("", strings.TrimRight(comment, " \t"))
	if err != nil {
		return nil, fmt.Errorf("malformed directive %q: %w", comment, err)
	}

	if d.Verb != verbAnnotate {
		return nil, fmt.Errorf("unknown directive %q, expected %s%s", d.Verb, DirectivePrefix, verbAnnotate)
	}

	d.Payload = stripComment(d.Payload)

	if d.Payload == "" {
		return nil, fmt.Errorf("directive %q has no payload", comment)
	}

	return d, nil
}

// stripComment cuts a trailing comment off the payload. Comment markers inside literals are kept.
func stripComment(payload string) string {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(payload))

	var s scanner.Scanner
	s.Init(file, []byte(payload), nil, scanner.ScanComments)

	for {
		pos, tok, _ := s.Scan()

		switch tok {
		case token.EOF:
			return payload
		case token.COMMENT:
			return strings.TrimSpace(payload[:file.Offset(pos)])
		}
	}
}
