package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/routeboard/pkg/errors"
	"github.com/matzehuels/routeboard/pkg/graph"
	"github.com/matzehuels/routeboard/pkg/store"
)

// storeCommand creates the document store command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Save and load boards in the configured store",
		Long: `Move boards between files and the document store named by the [store]
section of the config file (file, memory, redis or mongo).`,
	}

	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeSaveCommand())
	cmd.AddCommand(c.storeLoadCommand())
	cmd.AddCommand(c.storeRemoveCommand())

	return cmd
}

func (c *CLI) storeListCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored boards",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			names, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				if names == nil {
					names = []string{}
				}
				return writeJSON(cmd.OutOrStdout(), names)
			}
			if len(names) == 0 {
				printInfo("No stored boards")
				return nil
			}
			for _, name := range names {
				printDetail("%s", name)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print names as JSON")
	return cmd
}

func (c *CLI) storeSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "save [file] [name]",
		Short:             "Save a board file to the store",
		Long:              `Save a board file to the store. The name defaults to the file's base name.`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeBoardFile,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := graph.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := doc.Validate(); err != nil {
				return err
			}
			name := boardName(args[0])
			if len(args) == 2 {
				name = args[1]
			}

			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if _, err := spin(cmd.Context(), "Saving "+name+"...", func() (struct{}, error) {
				return struct{}{}, s.Put(cmd.Context(), name, doc)
			}); err != nil {
				return err
			}
			printSuccess("Saved %s", name)
			printBoardStats(len(doc.Nodes), len(doc.Edges))
			return nil
		},
	}
}

func (c *CLI) storeLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "load [name] [file]",
		Short:             "Load a stored board into a file",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: c.completeStoredName,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			doc, err := spin(cmd.Context(), "Loading "+args[0]+"...", func() (*graph.Document, error) {
				return s.Get(cmd.Context(), args[0])
			})
			if err != nil {
				return err
			}
			if err := graph.WriteFile(args[1], *doc); err != nil {
				return err
			}
			printSuccess("Loaded %s", args[0])
			printFile(args[1])
			return nil
		},
	}
}

func (c *CLI) storeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "rm [name]",
		Aliases:           []string{"remove"},
		Short:             "Delete a stored board",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeStoredName,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// boardName derives a store name from a file path, falling back to a
// generated name when the base name is not a valid document name.
func boardName(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if apperrors.ValidateDocumentName(name) == nil {
		return name
	}
	return store.NewName()
}
