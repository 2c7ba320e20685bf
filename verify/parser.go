package verify

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/glyphmint/glyphmint/model/glyph"
	"github.com/viant/parsly"
)

// ParsePathData parses path data in the form the generator renders, i.e.
// "M 12 388 L 4 99": a single letter operator followed by two unsigned
// integers, repeated.
func ParsePathData(input []byte) ([]glyph.Command, error) {
	input = bytes.TrimSpace(input)
	cursor := parsly.NewCursor("", input, 0)
	var commands []glyph.Command
	for cursor.Pos < cursor.InputSize {
		// Match the operator letter
		matched := cursor.MatchAfterOptional(whitespaceToken, commandToken)
		if matched.Code != commandToken.Code {
			return nil, cursor.NewError(commandToken)
		}
		command := glyph.Command{Op: matched.Text(cursor)}

		// Match the X parameter
		matched = cursor.MatchAfterOptional(whitespaceToken, numberToken)
		if matched.Code != numberToken.Code {
			return nil, cursor.NewError(numberToken)
		}
		x, err := strconv.Atoi(matched.Text(cursor))
		if err != nil {
			return nil, err
		}
		command.X = x

		// Match the Y parameter
		matched = cursor.MatchAfterOptional(whitespaceToken, numberToken)
		if matched.Code != numberToken.Code {
			return nil, cursor.NewError(numberToken)
		}
		y, err := strconv.Atoi(matched.Text(cursor))
		if err != nil {
			return nil, err
		}
		command.Y = y

		commands = append(commands, command)
	}
	if len(commands) == 0 {
		return nil, fmt.Errorf("path data was empty")
	}
	return commands, nil
}
