package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

var identifierRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Format writes stages back out as pipeline source text that [Parse] reads
// as the same stages.
//
// Each stage becomes one object literal in a top-level array. Disabled
// stages keep their object but have every line of their body commented out
// with "//". An enabled stage without an operator or source cannot be
// written as a valid object, so it is written commented out as well.
func Format(stages []Stage) string {
	if len(stages) == 0 {
		return "[]"
	}

	var sb strings.Builder

	sb.WriteString("[\n")

	for i, s := range stages {
		sb.WriteString("  {\n")

		prefix := "    "
		if !s.Enabled || s.Operator == "" || s.Source == "" {
			prefix += "// "
		}

		for line := range strings.SplitSeq(stageBody(s), "\n") {
			sb.WriteString(strings.TrimRight(prefix+line, " "))
			sb.WriteByte('\n')
		}

		sb.WriteString("  }")

		if i < len(stages)-1 {
			sb.WriteByte(',')
		}

		sb.WriteByte('\n')
	}

	sb.WriteString("]")

	return sb.String()
}

func stageBody(s Stage) string {
	if s.Operator == "" {
		return s.Source
	}

	key := s.Operator
	if !identifierRegex.MatchString(key) {
		key = strconv.Quote(key)
	}

	return key + ": " + s.Source
}
