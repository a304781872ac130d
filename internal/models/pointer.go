package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mcncl/blocktree/internal/errors"
)

// Pointer addresses a node inside a document as an RFC 6901 JSON Pointer.
// Each token names an object key or, when the parent is an array, a decimal
// index. The empty pointer is the document root.
type Pointer []string

// Root is the pointer to the whole document.
var Root = Pointer{}

var (
	pointerEscaper   = strings.NewReplacer("~", "~0", "/", "~1")
	pointerUnescaper = strings.NewReplacer("~1", "/", "~0", "~")
)

// ParsePointer parses "/a/0/b". Only "" denotes the root; "/" addresses the
// member whose key is the empty string.
func ParsePointer(s string) (Pointer, error) {
	if s == "" {
		return Pointer{}, nil
	}
	if !strings.HasPrefix(s, "/") {
		return nil, fmt.Errorf("%w: %q must start with '/'", errors.ErrInvalidPointer, s)
	}
	raw := strings.Split(s[1:], "/")
	p := make(Pointer, len(raw))
	for i, tok := range raw {
		p[i] = pointerUnescaper.Replace(tok)
	}
	return p, nil
}

// MustParsePointer is ParsePointer that panics on malformed input.
func MustParsePointer(s string) Pointer {
	p, err := ParsePointer(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String renders the pointer; the root renders as "".
func (p Pointer) String() string {
	var b strings.Builder
	for _, tok := range p {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(tok))
	}
	return b.String()
}

// Key returns a new pointer to the member key below p.
func (p Pointer) Key(key string) Pointer {
	out := make(Pointer, len(p), len(p)+1)
	copy(out, p)
	return append(out, key)
}

// Index returns a new pointer to item i below p.
func (p Pointer) Index(i int) Pointer { return p.Key(strconv.Itoa(i)) }

// IsRoot reports whether p addresses the whole document.
func (p Pointer) IsRoot() bool { return len(p) == 0 }

// Last returns the final token, or "" for the root.
func (p Pointer) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Parent returns p without its final token.
func (p Pointer) Parent() Pointer {
	if len(p) == 0 {
		return p
	}
	out := make(Pointer, len(p)-1)
	copy(out, p[:len(p)-1])
	return out
}
