package scanner

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// rsc.io/c2go/cc drops the qualifiers of declaration specifiers and has no
// type for a bare "signed" or "unsigned". The helpers here work on the source
// text to fill those gaps.

// Type specifier words, combined the way cc combines them.
const (
	specChar = 1 << iota
	specShort
	specInt
	specLong
	specLongLong
	specSigned
	specUnsigned
	specFloat
	specDouble
	specVoid
)

const specSized = specChar | specShort | specInt | specLong | specLongLong

var specBits = map[string]int{
	"char":     specChar,
	"short":    specShort,
	"int":      specInt,
	"signed":   specSigned,
	"unsigned": specUnsigned,
	"float":    specFloat,
	"double":   specDouble,
	"void":     specVoid,
}

// Words that may sit between type specifiers without ending them.
var specQualifiers = map[string]bool{
	"const":    true,
	"volatile": true,
	"static":   true,
	"extern":   true,
	"typedef":  true,
	"register": true,
	"inline":   true,
	"auto":     true,
}

// supportedSpecs holds the specifier combinations cc resolves to a type, plus
// a bare sign, which prepareSource spells out.
var supportedSpecs = func() map[int]bool {
	m := map[int]bool{specFloat: true, specDouble: true, specVoid: true}
	for _, sign := range []int{0, specSigned, specUnsigned} {
		if sign != 0 {
			m[sign] = true
		}
		m[specChar|sign] = true
		m[specInt|sign] = true
		for _, size := range []int{specShort, specLong, specLongLong} {
			m[size|sign] = true
			m[size|sign|specInt] = true
		}
	}
	return m
}()

// prepareSource readies a header for cc. A bare "signed" or "unsigned"
// becomes "signed int" or "unsigned int". Line numbers are preserved.
// Headers with #include are rejected because cc splices the included text
// and its positions no longer map onto the header.
func prepareSource(path string, src []byte) ([]byte, error) {
	out := make([]byte, 0, len(src)+16)
	copied := 0

	var (
		mask     int
		words    []string
		signEnd  = -1
		runStart = -1
	)
	endRun := func() error {
		defer func() { mask, words, signEnd, runStart = 0, nil, -1, -1 }()
		if mask == 0 {
			return nil
		}
		if !supportedSpecs[mask] {
			return fmt.Errorf("%s:%d: unsupported type specifiers %q", path, lineOf(src, runStart), strings.Join(words, " "))
		}
		if mask&specSized == 0 && mask&(specSigned|specUnsigned) != 0 {
			out = append(out, src[copied:signEnd]...)
			out = append(out, " int"...)
			copied = signEnd
		}
		return nil
	}

	for i := 0; ; {
		start, end := nextToken(src, i)
		if start == end {
			break
		}
		i = end
		tok := string(src[start:end])

		if tok[0] == '#' {
			if directive(tok) == "include" {
				return nil, fmt.Errorf("%s:%d: #include is not followed; use the clang provider", path, lineOf(src, start))
			}
			if err := endRun(); err != nil {
				return nil, err
			}
			continue
		}

		switch {
		case tok == "long":
			if mask&specLong != 0 {
				mask ^= specLong | specLongLong
			} else {
				mask |= specLong
			}
		case specBits[tok] != 0:
			mask |= specBits[tok]
			if tok == "signed" || tok == "unsigned" {
				signEnd = end
			}
		case specQualifiers[tok]:
			continue
		default:
			if err := endRun(); err != nil {
				return nil, err
			}
			continue
		}
		if runStart < 0 {
			runStart = start
		}
		words = append(words, tok)
	}
	if err := endRun(); err != nil {
		return nil, err
	}
	return append(out, src[copied:]...), nil
}

// declarator punctuation that ends the specifier list of a declaration.
var specEnd = map[string]bool{"*": true, "(": true, ")": true, "[": true, ";": true, ",": true, "=": true, ":": true}

// specConst reports whether the declaration specifiers starting at off carry
// const. Struct and union bodies are stepped over.
func specConst(src []byte, off int) bool {
	depth := 0
	for i := off; ; {
		start, end := nextToken(src, i)
		if start == end {
			return false
		}
		i = end
		switch tok := string(src[start:end]); {
		case tok == "{":
			depth++
		case tok == "}":
			depth--
		case depth > 0:
		case tok == "const":
			return true
		case specEnd[tok]:
			return false
		}
	}
}

// lineStarts lists the byte offset of every line of src.
func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, c := range src {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func lineOf(src []byte, off int) int {
	return sort.SearchInts(lineStarts(src), off+1)
}

// nextToken returns the bounds of the first token at or after i, skipping
// blanks and comments. A preprocessor directive is one token. start == end
// at the end of src.
func nextToken(src []byte, i int) (start, end int) {
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			i++
		case bytes.HasPrefix(src[i:], []byte("//")):
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case bytes.HasPrefix(src[i:], []byte("/*")):
			j := bytes.Index(src[i+2:], []byte("*/"))
			if j < 0 {
				return len(src), len(src)
			}
			i += j + 4
		case c == '#':
			j := i + 1
			for j < len(src) && (src[j] != '\n' || src[j-1] == '\\') {
				j++
			}
			return i, j
		case isWordByte(c):
			j := i + 1
			for j < len(src) && isWordByte(src[j]) {
				j++
			}
			return i, j
		case c == '"' || c == '\'':
			j := i + 1
			for j < len(src) && src[j] != c && src[j] != '\n' {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			return i, min(j+1, len(src))
		default:
			return i, i + 1
		}
	}
	return len(src), len(src)
}

func isWordByte(c byte) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// directive returns the name of a preprocessor directive token, e.g.
// "include" for "#  include <a.h>".
func directive(tok string) string {
	fields := strings.Fields(strings.TrimPrefix(tok, "#"))
	if len(fields) == 0 {
		return ""
	}
	name := fields[0]
	if i := strings.IndexAny(name, "<\""); i >= 0 {
		name = name[:i]
	}
	return name
}
