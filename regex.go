package jsonschema

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// defaultBacktrackLimit is the default match budget, in milliseconds, of the
// backtracking pattern engine.
const defaultBacktrackLimit = 250

// compiledPattern abstracts over the two pattern engines. The RE2 engine
// cannot fail at match time; the backtracking engine reports a budget
// overrun as an error.
type compiledPattern interface {
	match(s string) (bool, error)
	source() string
}

// compilePatternExpr translates an ECMA-262 pattern to the configured
// engine. Patterns JSON Schema documents carry follow ECMA semantics; the
// translation to RE2 handles the common notational differences and fails
// compilation for constructs RE2 cannot express (look-around,
// backreferences), which the backtracking engine accepts.
func compilePatternExpr(cc *compileContext, pattern string) (compiledPattern, error) {
	if cc.schema.compiler.patternEngine == PatternEngineBacktracking {
		re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
		if err != nil {
			return nil, fmt.Errorf("%w: %q at %q: %w", ErrRegexCompilation, pattern, cc.location, err)
		}
		limit := cc.schema.compiler.backtrackLimit
		if limit <= 0 {
			limit = defaultBacktrackLimit
		}
		re.MatchTimeout = time.Duration(limit) * time.Millisecond
		return &backtrackPattern{re: re, src: pattern}, nil
	}

	re, err := regexp.Compile(translateECMAPattern(pattern))
	if err != nil {
		return nil, fmt.Errorf("%w: %q at %q: %w", ErrRegexCompilation, pattern, cc.location, err)
	}
	return &re2Pattern{re: re, src: pattern}, nil
}

// translateECMAPattern rewrites ECMA-262 notation RE2 spells differently.
// The character classes \d, \w and \s already agree between the two
// flavors; what needs rewriting is the \cX control-character escape, which
// RE2 rejects. Constructs RE2 cannot express at all (look-around,
// backreferences) are left untouched and fail compilation.
func translateECMAPattern(pattern string) string {
	if !strings.Contains(pattern, `\c`) {
		return pattern
	}
	var sb strings.Builder
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '\\' && i+2 < len(pattern) && pattern[i+1] == 'c' {
			letter := pattern[i+2]
			if letter >= 'A' && letter <= 'Z' {
				fmt.Fprintf(&sb, `\x%02x`, letter-'A'+1)
				i += 2
				continue
			}
			if letter >= 'a' && letter <= 'z' {
				fmt.Fprintf(&sb, `\x%02x`, letter-'a'+1)
				i += 2
				continue
			}
		}
		if c == '\\' && i+1 < len(pattern) {
			sb.WriteByte(c)
			i++
			sb.WriteByte(pattern[i])
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

type re2Pattern struct {
	re  *regexp.Regexp
	src string
}

func (p *re2Pattern) match(s string) (bool, error) {
	return p.re.MatchString(s), nil
}

func (p *re2Pattern) source() string { return p.src }

type backtrackPattern struct {
	re  *regexp2.Regexp
	src string
}

func (p *backtrackPattern) match(s string) (bool, error) {
	ok, err := p.re.MatchString(s)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (p *backtrackPattern) source() string { return p.src }
