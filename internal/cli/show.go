package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/relative"
)

// cardDoc is a card as printed by show.
type cardDoc struct {
	ID     string    `json:"id" yaml:"id"`
	Title  string    `json:"title" yaml:"title"`
	Status time.Time `json:"status" yaml:"status"`
	Age    string    `json:"age" yaml:"age"`
}

// boardDoc is the board as printed by show.
type boardDoc struct {
	Todo    []cardDoc `json:"todo" yaml:"todo"`
	Ongoing []cardDoc `json:"ongoing" yaml:"ongoing"`
	Done    []cardDoc `json:"done" yaml:"done"`
}

func newBoardDoc(state model.BoardState, now time.Time) boardDoc {
	docs := func(cards []model.Card) []cardDoc {
		out := make([]cardDoc, 0, len(cards))
		for _, c := range cards {
			out = append(out, cardDoc{
				ID:     c.ID,
				Title:  c.Title,
				Status: c.Status,
				Age:    relative.Format(c.Status, now),
			})
		}
		return out
	}
	return boardDoc{
		Todo:    docs(state.Todo),
		Ongoing: docs(state.Ongoing),
		Done:    docs(state.Done),
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the board",
		Args:  cobra.NoArgs,
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
			return printBoard(cmd.OutOrStdout(), s.Snapshot(), format, time.Now())
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	return cmd
}

func printBoard(w io.Writer, state model.BoardState, format string, now time.Time) error {
	switch format {
	case "text", "":
		for i, col := range model.Columns {
			if i > 0 {
				fmt.Fprintln(w)
			}
			cards := state.Cards(col)
			fmt.Fprintf(w, "%s (%d)\n", col.Title(), len(cards))
			for _, c := range cards {
				fmt.Fprintf(w, "  %s  %-40s  %s\n", c.ShortID(), c.Title, relative.Format(c.Status, now))
			}
		}
		return nil

	case "json":
		data, err := json.MarshalIndent(newBoardDoc(state, now), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal board: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil

	case "yaml":
		data, err := yaml.Marshal(newBoardDoc(state, now))
		if err != nil {
			return fmt.Errorf("failed to marshal board: %w", err)
		}
		fmt.Fprint(w, string(data))
		return nil

	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}
