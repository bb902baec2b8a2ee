package regexpr

import "github.com/dekarrin/lexgen/internal/symbol"

// posixClasses maps the POSIX named character class names (as used inside
// a bracket expression, e.g. "[[:digit:]]") to the byte set they denote.
var posixClasses = map[string]func() symbol.Set{
	"alnum":  func() symbol.Set { return unionRanges('a', 'z', 'A', 'Z', '0', '9') },
	"alpha":  func() symbol.Set { return unionRanges('a', 'z', 'A', 'Z') },
	"blank":  func() symbol.Set { return symbol.New(' ', '\t') },
	"cntrl":  func() symbol.Set { return unionRanges(0x00, 0x1f, 0x7f, 0x7f) },
	"digit":  func() symbol.Set { return symbol.Range('0', '9') },
	"graph":  func() symbol.Set { return symbol.Range(0x21, 0x7e) },
	"lower":  func() symbol.Set { return symbol.Range('a', 'z') },
	"print":  func() symbol.Set { return symbol.Range(0x20, 0x7e) },
	"punct": func() symbol.Set {
		return unionRanges(0x21, 0x2f, 0x3a, 0x40, 0x5b, 0x60, 0x7b, 0x7e)
	},
	"space":  func() symbol.Set { return symbol.New(' ', '\t', '\n', '\r', '\v', '\f') },
	"upper":  func() symbol.Set { return symbol.Range('A', 'Z') },
	"xdigit": func() symbol.Set { return unionRanges('0', '9', 'a', 'f', 'A', 'F') },
}

func unionRanges(pairs ...byte) symbol.Set {
	var s symbol.Set
	for i := 0; i+1 < len(pairs); i += 2 {
		r := symbol.Range(pairs[i], pairs[i+1])
		for _, b := range r.Bytes() {
			s.Insert(b)
		}
	}
	return s
}
