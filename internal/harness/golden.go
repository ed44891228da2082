package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Golden compares a scenario transcript against its golden file under
// testdata/golden/, named after the scenario. Update with -update.
func Golden(t *testing.T, name string, transcript []byte) {
	t.Helper()
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	g.Assert(t, name, transcript)
}
