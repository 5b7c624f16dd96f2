package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/purg-com/pleroma-iss/pkg/diff"
)

// checkOutput compares generated output with the file at path. A mismatch
// prints the diff and fails the command.
func checkOutput(cmd *cobra.Command, root *rootOptions, path, actual string) error {
	expected, err := afero.ReadFile(root.fs, path)
	if err != nil {
		return newCommandError("check output", path, err, "Generate the file first, without --check.")
	}

	out := cmd.OutOrStdout()
	patch := diff.Lines(string(expected), actual, path, "generated")
	if patch == "" {
		fmt.Fprintf(out, "%s is up to date\n", path)
		return nil
	}

	fmt.Fprint(out, patch)
	inserted, deleted := diff.Changed(string(expected), actual)
	return newCommandError("check output", path,
		fmt.Errorf("%d lines added, %d lines removed", inserted, deleted),
		"Regenerate the file to accept the changes.")
}
