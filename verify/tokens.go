package verify

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes
const (
	whitespaceCode = iota
	commandCode
	numberCode
)

// Token definitions
var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	commandToken    = parsly.NewToken(commandCode, "Command", newCommandMatcher())
	numberToken     = parsly.NewToken(numberCode, "Number", newNumberMatcher())
)

// Custom matchers
func newCommandMatcher() parsly.Matcher {
	return &commandMatcher{}
}

func newNumberMatcher() parsly.Matcher {
	return &numberMatcher{}
}

// commandMatcher matches a single letter drawing operator
type commandMatcher struct{}

func (m *commandMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos

	if pos >= cursor.InputSize {
		return 0
	}
	if !isLetter(input[pos]) {
		return 0
	}
	return 1
}

// numberMatcher matches an unsigned decimal integer
type numberMatcher struct{}

func (m *numberMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	if pos >= size {
		return 0
	}

	matched := 0
	for i := pos; i < size; i++ {
		if !isDigit(input[i]) {
			break
		}
		matched++
	}
	return matched
}

// Helper functions
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
