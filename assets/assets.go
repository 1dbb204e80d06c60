package assets

import (
	_ "embed"
	"strings"
)

//go:embed system_instruction.txt
var systemInstruction string

//go:embed demo_queries.txt
var demoQueries string

// SystemInstruction is the default instruction sent as the system turn.
var SystemInstruction = strings.TrimSpace(systemInstruction)

// DemoQueries returns the scripted queries replayed by the demo command.
// Together they exercise recall of facts given in earlier turns.
func DemoQueries() []string {
	var queries []string
	for _, line := range strings.Split(demoQueries, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			queries = append(queries, line)
		}
	}
	return queries
}
