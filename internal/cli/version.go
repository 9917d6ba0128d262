package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCmd creates the version command
func NewVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := app.versionInfo
			fmt.Printf("texbuild version %s\n", info.Version)
			if info.Commit != "" {
				fmt.Printf("  commit: %s\n", info.Commit)
			}
			if info.Date != "" {
				fmt.Printf("  built:  %s\n", info.Date)
			}
		},
	}
}
