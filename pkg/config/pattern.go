package config

import (
	"regexp"

	"linkcheck/pkg/errs"
)

// Pattern is a compiled exclude rule. It keeps the original source text next
// to the compiled regexp: matchers are not comparable and do not reproduce
// their source losslessly, the text does.
type Pattern struct {
	re  *regexp.Regexp
	src string
}

func CompilePattern(src string) (Pattern, error) {
	re, err := regexp.Compile(src)
	if err != nil {
		return Pattern{}, errs.NewInvalidPattern(src, err)
	}
	return Pattern{re: re, src: src}, nil
}

// MustCompilePattern panics on a bad pattern. For tests and hard-coded rules.
func MustCompilePattern(src string) Pattern {
	p, err := CompilePattern(src)
	if err != nil {
		panic(err)
	}
	return p
}

// MatchString reports whether the pattern is found anywhere in s.
func (p Pattern) MatchString(s string) bool {
	return p.re != nil && p.re.MatchString(s)
}

// String returns the exact source text the pattern was compiled from.
func (p Pattern) String() string { return p.src }
