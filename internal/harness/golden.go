package harness

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/kmorrow/rackscore/internal/cli"
	"github.com/kmorrow/rackscore/internal/game"
)

// RunGolden executes the scenario at path and compares the rendered outcome
// against testdata/golden/<scenario name>.golden. Regenerate goldens with
// `go test ./internal/harness -update`.
func RunGolden(t *testing.T, path string) {
	t.Helper()

	sc, err := LoadScenario(path)
	require.NoError(t, err)

	res, err := Run(t, sc)
	require.NoError(t, err)

	cfg := game.DefaultSettings()
	if sc.Settings != nil {
		cfg = *sc.Settings
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, sc.Name, []byte(Render(res, cfg)))
}

// Render produces the stable textual form of a scenario result: the live
// session with its timeline, then the archive listing.
func Render(res *Result, cfg game.Settings) string {
	var b strings.Builder

	b.WriteString("== live ==\n")
	if res.Live == nil {
		b.WriteString("none\n")
	} else {
		b.WriteString(cli.RenderState(res.Live, cfg))
		b.WriteString("-- timeline --\n")
		b.WriteString(cli.RenderTimeline(res.Live.Events))
	}

	b.WriteString("== history ==\n")
	b.WriteString(cli.RenderHistory(res.History))

	return b.String()
}
