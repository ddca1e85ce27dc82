package test

import (
	"math/rand"
	"strings"
)

// validTokens is a closed sample of spellings drawn from the zeebasic lexical inventory: keywords, sigiled and
// plain names, literals, operators, and line separators. Adapted from the teacher's benchmark token pool to this
// language's token set.
const validTokens = "PRINT;print;x;y$;z?;w!;n%;count;123;321;3.14;0.5;\"hello\";\"a longer string literal for benchmarking purposes\";\"\";+;-;*;/;\\;MOD;AND;OR;XOR;NOT;=;<>;<;<=;>;>=;(;);,;:;STR$;TRUE;FALSE;\n"

// GetRandomTokens returns size randomly chosen token spellings from validTokens, joined with a single space.
func GetRandomTokens(size int) string {
	return GetRandomTokensWithSep(size, " ")
}

// GetRandomTokensWithSep is GetRandomTokens with a caller-chosen separator between spellings.
func GetRandomTokensWithSep(size int, sep string) string {
	valid := strings.Split(validTokens, ";")

	var toks []string
	for len(toks) < size {
		toks = append(toks, valid[rand.Intn(len(valid))])
	}

	return strings.Join(toks, sep)
}
