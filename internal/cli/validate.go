package cli

import (
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/mindwell/mindgrid/pkg/errors"
	"github.com/mindwell/mindgrid/pkg/mapdoc"
)

// validateCommand creates the validate command for checking map documents.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [map.json]",
		Short: "Check a map document for structural problems",
		Long: `Check a map document for structural problems.

Validation loads the document and verifies the full invariant set: a
single root, consistent parent and child links, no duplicate children,
and no cycles. The exit code is non-zero when the document is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := mapdoc.ReadFile(args[0])
			if err != nil {
				if _, statErr := os.Stat(args[0]); os.IsNotExist(statErr) {
					return apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "map file %s not found", args[0])
				}
				printError("Invalid document")
				printDetail("%v", err)
				return apperrors.Wrap(apperrors.ErrCodeInvalidDocument, err, "document failed validation")
			}

			printSuccess("Document is valid")
			printStats(t.Len(), 0, false)
			return nil
		},
	}
}
