package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/kanban/internal/model"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title>",
		Short: "Add a card to To-Do",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			s, err := e.loadBoard(cmd.Context())
			if err != nil {
				return err
			}

			card, err := s.AddCard(model.ColumnTodo, strings.Join(args, " "))
			if err != nil {
				return err
			}
			if err := e.gateway.Save(cmd.Context(), s.Snapshot()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %q to %s\n", card.ShortID(), card.Title, model.ColumnTodo.Title())
			return nil
		},
	}
}
