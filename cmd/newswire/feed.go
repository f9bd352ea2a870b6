package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"newswire/internal/domain/entity"
	"newswire/internal/usecase/feed"
)

func newFeedCmd(a *app) *cobra.Command {
	var (
		limit  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "feed <provider> <category>",
		Short: "Fetch the entries of one category feed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			p, ok := a.registry.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown provider %q", args[0])
			}
			category, ok := p.Categories().Lookup(args[1])
			if !ok {
				return fmt.Errorf("provider %q has no category %q (available: %v)", args[0], args[1], p.Categories().Names())
			}

			entryLimit := entity.NoLimit()
			if cmd.Flags().Changed("limit") {
				entryLimit = entity.LimitTo(limit)
			}

			svc := feed.NewCategoryService(a.newFeedFetcher(), p, feed.WithLogger(a.logger))
			entries, err := svc.FetchCategory(cmd.Context(), category, entryLimit)
			if err != nil {
				return err
			}
			return writeEntries(a.stdout, output, entries)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of entries (must be greater than 0 when set)")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text or json")
	return cmd
}
