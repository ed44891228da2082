package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, SeverityError, Classify("Error: unknown command: foo"))
	assert.Equal(t, SeverityWarn, Classify("Warning: sleep debt exceeds guideline"))
	assert.Equal(t, SeverityAI, Classify("AI: I am logging this interaction."))
	assert.Equal(t, SeverityNormal, Classify("Stardate 846.9"))
	// Prefix must be exact; mid-line markers stay normal.
	assert.Equal(t, SeverityNormal, Classify("An Error: occurred"))
}

func TestLinesOf(t *testing.T) {
	lines := LinesOf([]string{"plain", "Error: bad"})
	assert.Equal(t, Line{Text: "plain", Severity: SeverityNormal}, lines[0])
	assert.Equal(t, Line{Text: "Error: bad", Severity: SeverityError}, lines[1])
}

func TestArgs(t *testing.T) {
	assert.Equal(t, "", Args("whoami"))
	assert.Equal(t, "hello world", Args("echo hello world"))
	assert.Equal(t, "hello", Args("  echo   hello  "))
}
