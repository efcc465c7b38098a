package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/kanban/internal/board"
	"github.com/nhle/kanban/internal/model"
)

func newMoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id-or-prefix> <column>",
		Short: "Move a card to another column",
		Long: `Move a card to the head of another column. The card is named by its id
or any unique prefix of it, as printed by "kanban show". Columns are todo,
ongoing and done.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, err := model.ParseColumn(args[1])
			if err != nil {
				return err
			}

			e, err := openEnv(opts)
			if err != nil {
				return err
			}
			defer e.Close()

			s, err := e.loadBoard(cmd.Context())
			if err != nil {
				return err
			}

			card, from, err := s.Snapshot().FindByPrefix(args[0])
			if err != nil {
				return err
			}
			if from == to {
				fmt.Fprintf(cmd.OutOrStdout(), "%q is already in %s\n", card.Title, to.Title())
				return nil
			}

			if !board.NewCoordinator(s).Move(card.ID, to) {
				return fmt.Errorf("moving %s to %s failed", card.ShortID(), to)
			}
			if err := e.gateway.Save(cmd.Context(), s.Snapshot()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Moved %q from %s to %s\n", card.Title, from.Title(), to.Title())
			return nil
		},
	}
}
