package commands

import (
	"fmt"

	"github.com/venlacy0/venblog/internal/version"
)

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (v *VersionCmd) Run(g *Global, _ *CLI) error {
	_, err := fmt.Fprintf(g.out(), "venblog %s (commit %s, built %s)\n", version.String(), version.GitCommit, version.BuildTime)
	return err
}
