// Package token defines the lexical token kinds produced by the scanner and
// consumed by the parser.
package token

// Kind identifies the lexical class of a Token.
type Kind int8

//nolint:revive
const (
	ILLEGAL Kind = iota
	EOF

	NEWLINE
	INDENT
	DEDENT

	// literals
	IDENTIFIER
	NUMBER
	STRING

	// punctuation
	PLUS
	MINUS
	TIMES
	DIVIDE
	OP_PAR
	CL_PAR
	COLON
	DOT
	COMMA
	QUESTION
	AT

	// relational and assignment
	EQUAL
	UNEQUAL
	GREATER
	GREATER_EQ
	LESS
	LESS_EQ
	ASSIGNMENT // <-

	// keywords
	AND
	OR
	NOT
	IF
	ELSE
	NIL
	TRUE
	FALSE
	DEF
	STATIC
	RETURN
	BREAK
	CONTINUE
	WHILE
	NEWVAR
	CLASS
	EXTENDS
	THIS
	SUPER
	IMPORT

	maxKind
)

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(kindNames) || kindNames[k] == "" {
		return "<invalid token>"
	}
	return kindNames[k]
}

var kindNames = [...]string{
	ILLEGAL:    "illegal token",
	EOF:        "end of file",
	NEWLINE:    "newline",
	INDENT:     "indent",
	DEDENT:     "dedent",
	IDENTIFIER: "identifier",
	NUMBER:     "number",
	STRING:     "string",
	PLUS:       "+",
	MINUS:      "-",
	TIMES:      "*",
	DIVIDE:     "/",
	OP_PAR:     "(",
	CL_PAR:     ")",
	COLON:      ":",
	DOT:        ".",
	COMMA:      ",",
	QUESTION:   "?",
	AT:         "@",
	EQUAL:      "=",
	UNEQUAL:    "!=",
	GREATER:    ">",
	GREATER_EQ: ">=",
	LESS:       "<",
	LESS_EQ:    "<=",
	ASSIGNMENT: "<-",
	AND:        "and",
	OR:         "or",
	NOT:        "not",
	IF:         "nani",
	ELSE:       "daijobu",
	NIL:        "baito",
	TRUE:       "true",
	FALSE:      "false",
	DEF:        "desu",
	STATIC:     "oppai",
	RETURN:     "shinu",
	BREAK:      "yamero",
	CONTINUE:   "kowai",
	WHILE:      "yandere",
	NEWVAR:     "baka",
	CLASS:      "waifu",
	EXTENDS:    "neesan",
	THIS:       "watashi",
	SUPER:      "haha",
	IMPORT:     "import",
}

// Keywords maps the Waifu surface syntax keyword spellings to their token
// Kind. Identifiers that match one of these are lexed as the keyword instead
// of IDENTIFIER.
var Keywords = map[string]Kind{
	"and":     AND,
	"or":      OR,
	"not":     NOT,
	"nani":    IF,
	"daijobu": ELSE,
	"true":    TRUE,
	"false":   FALSE,
	"baito":   NIL,
	"desu":    DEF,
	"oppai":   STATIC,
	"shinu":   RETURN,
	"yamero":  BREAK,
	"kowai":   CONTINUE,
	"yandere": WHILE,
	"baka":    NEWVAR,
	"waifu":   CLASS,
	"neesan":  EXTENDS,
	"watashi": THIS,
	"haha":    SUPER,
	"import":  IMPORT,
}

// Constructor is the method name that, when found in a class's method table
// (walking superclasses depth-first), is invoked automatically on
// instantiation.
const Constructor = "shison"

// Token is a single lexical token: a kind tagged with its source line and,
// for literals, the decoded value.
type Token struct {
	Kind Kind
	Line int

	// Lexeme holds the identifier text (IDENTIFIER) or the unescaped string
	// body (STRING). Empty for every other kind.
	Lexeme string

	// Number holds the decoded value for NUMBER tokens.
	Number float64

	// Indent holds the new indentation column for INDENT tokens; DEDENT
	// tokens leave it zero.
	Indent int
}

func (t Token) String() string {
	switch t.Kind {
	case IDENTIFIER, STRING:
		return t.Kind.String() + " " + t.Lexeme
	case NUMBER:
		return t.Kind.String()
	default:
		return t.Kind.String()
	}
}
