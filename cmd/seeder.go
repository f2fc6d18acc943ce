package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/org-portal/internal/core/datamodel/document"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the storage with the default document",
	Long: `Write the default document (one verified admin, Engineering and HR) when none is stored.
With --clear the stored document is replaced even when it exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := initializeDependencies()
		if err != nil {
			return err
		}
		defer deps.Close()

		doc := deps.Store.Document()
		if clearData {
			if doc, err = deps.Store.Reset(); err != nil {
				return fmt.Errorf("failed to reset document: %w", err)
			}
			deps.Auth.Logout()
			deps.Logger.Info("document reset to default seed")
		}

		printSummary(cmd, doc)
		return nil
	},
}

func printSummary(cmd *cobra.Command, doc *document.Document) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "document version %d\n", doc.Version)
	fmt.Fprintf(out, "accounts:    %d\n", len(doc.Accounts))
	fmt.Fprintf(out, "departments: %d\n", len(doc.Departments))
	fmt.Fprintf(out, "employees:   %d\n", len(doc.Employees))
	fmt.Fprintf(out, "requests:    %d\n", len(doc.Requests))
}
