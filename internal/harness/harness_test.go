package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios runs every scenario under testdata/scenarios and
// requires all of its assertions to pass.
func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no scenarios found")

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Passed, strings.Join(result.Failures, "\n"))
		})
	}
}

// TestGoldenTranscripts pins the terminal transcript of the short
// deterministic scenarios.
func TestGoldenTranscripts(t *testing.T) {
	for _, name := range []string{"intro_skip", "orientation_completion"} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
			require.NoError(t, err)

			result, err := Run(scenario)
			require.NoError(t, err)
			require.True(t, result.Passed, strings.Join(result.Failures, "\n"))

			Golden(t, name, result.Transcript)
		})
	}
}

// TestBuildEventRequiresPayloads verifies the event steps that carry a
// structured payload reject steps missing it.
func TestBuildEventRequiresPayloads(t *testing.T) {
	for _, event := range []string{
		"ADD_MESSAGE", "ADD_LOG", "AI_CHAT_ADD_MESSAGE",
		"ADD_OBJECTIVE", "UPDATE_OBJECTIVE", "COMPLETE_OBJECTIVE",
	} {
		_, err := buildEvent(Step{Event: event})
		assert.Error(t, err, event)
	}

	_, err := buildEvent(Step{Event: "UPDATE_OBJECTIVE", ObjectiveID: "obj-900"})
	assert.Error(t, err, "status is part of the payload")
}

// TestRunsAreIndependent verifies scenario runs never share state: two
// runs of the same scenario produce identical transcripts.
func TestRunsAreIndependent(t *testing.T) {
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", "orientation_completion.yaml"))
	require.NoError(t, err)

	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, string(first.Transcript), string(second.Transcript))
}
