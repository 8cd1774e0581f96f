package parse

import (
	"regexp"
	"strings"
)

const fenceMarker = "```"

// fencedBlockPattern matches one fenced block: an opening fence, an optional
// language tag, then everything up to the nearest closing fence.
var fencedBlockPattern = regexp.MustCompile("(?s)```(\\w+)?\\s*(.*?)```")

// CodeBlock is one fenced block found in a completion.
type CodeBlock struct {
	Language string // tag on the opening fence, empty when absent
	Body     string // trimmed content between the fences
}

// CodeBlocks returns every complete fenced block in text, in order of
// appearance. Matches never overlap; an unterminated trailing fence is not
// a block.
func CodeBlocks(text string) []CodeBlock {
	matches := fencedBlockPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	blocks := make([]CodeBlock, 0, len(matches))
	for _, match := range matches {
		blocks = append(blocks, CodeBlock{
			Language: match[1],
			Body:     strings.TrimSpace(match[2]),
		})
	}
	return blocks
}

// ExtractCode reduces a completion to a single code string. When text holds
// fenced blocks, their trimmed bodies are joined with a blank line. Otherwise
// the whole text, trimmed, is treated as code; empty input yields "".
func ExtractCode(text string) string {
	blocks := CodeBlocks(text)
	if len(blocks) == 0 {
		return strings.TrimSpace(text)
	}

	bodies := make([]string, len(blocks))
	for i, block := range blocks {
		bodies[i] = block.Body
	}
	return strings.Join(bodies, "\n\n")
}

// HasUnclosedFence reports whether text opens a fence it never closes, which
// is how a completion cut off mid-block looks. Only markers at the start or
// end of a line count, so backticks quoted inside a block are ignored and a
// longer run such as ```` is one marker.
func HasUnclosedFence(text string) bool {
	markers := 0
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, fenceMarker) {
			markers++
			line = strings.TrimLeft(line, "`")
		}
		if strings.HasSuffix(line, fenceMarker) {
			markers++
		}
	}
	return markers%2 == 1
}
