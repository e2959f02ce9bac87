// Completion: 100% - Simplifier, tokenizer and block partitioning complete
package logo

import (
	"strings"
)

const (
	paramSigil    = ":"   // Prefix of a parameter reference
	commentMarker = ";"   // Comment to end of line
	defineKeyword = "to"  // Starts a procedure definition
	endKeyword    = "end" // Terminates a procedure definition
)

// Token is one whitespace-separated word of the simplified program
type Token struct {
	Text string
	Line int // 1-based source line
}

func (t Token) String() string { return t.Text }

// glyphPadding surrounds every glyph that may touch a neighbour with spaces.
// '+' and '-' are left alone so negative literals like -90 survive.
var glyphPadding = strings.NewReplacer(
	"/", " / ",
	"*", " * ",
	"[", " [ ",
	"]", " ] ",
	"\n", " ",
)

// Simplify inserts separators around operator and bracket glyphs and
// collapses newlines. It never fails.
func Simplify(src string) string {
	return glyphPadding.Replace(src)
}

// stripComment drops everything after the comment marker on one line
func stripComment(line string) string {
	if i := strings.Index(line, commentMarker); i >= 0 {
		return line[:i]
	}
	return line
}

// Tokenize simplifies src and splits it on whitespace runs.
// Each token remembers the line it came from.
func Tokenize(src string) []Token {
	var tokens []Token
	for i, line := range strings.Split(src, "\n") {
		for _, word := range strings.Fields(Simplify(stripComment(line))) {
			tokens = append(tokens, Token{Text: word, Line: i + 1})
		}
	}
	return tokens
}

// ChunkKind tells whether a chunk defines a procedure or executes statements
type ChunkKind int

const (
	ExecChunk ChunkKind = iota
	DefinitionChunk
)

func (k ChunkKind) String() string {
	if k == DefinitionChunk {
		return "definition"
	}
	return "exec"
}

// Chunk is a run of tokens between two block terminators
type Chunk struct {
	Kind   ChunkKind
	Tokens []Token
}

// Partition splits the token stream on the block terminator keyword.
// A chunk whose first token is the definition keyword is a procedure
// definition; anything else is executed. Empty chunks are dropped.
func Partition(tokens []Token) []Chunk {
	var chunks []Chunk
	start := 0
	flush := func(end int) {
		if end <= start {
			return
		}
		part := tokens[start:end]
		kind := ExecChunk
		if part[0].Text == defineKeyword {
			kind = DefinitionChunk
		}
		chunks = append(chunks, Chunk{Kind: kind, Tokens: part})
	}
	for i, tok := range tokens {
		if tok.Text == endKeyword {
			flush(i)
			start = i + 1
		}
	}
	flush(len(tokens))
	return chunks
}

// NeedsMore reports whether src looks like the beginning of a longer
// program: an open '[' or a 'to' without its 'end'.
func NeedsMore(src string) bool {
	depth := 0
	open := false
	for _, tok := range Tokenize(src) {
		switch tok.Text {
		case "[":
			depth++
		case "]":
			depth--
		case defineKeyword:
			open = true
		case endKeyword:
			open = false
		}
	}
	return depth > 0 || open
}
