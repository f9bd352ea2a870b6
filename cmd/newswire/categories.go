package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"newswire/internal/usecase/feed"
)

func newCategoriesCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "categories [provider]",
		Short: "List the categories offered by the configured providers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			keys := a.registry.Keys()
			if len(args) == 1 {
				keys = args
			}

			listings := make([]categoryListing, 0, len(keys))
			for _, key := range keys {
				p, ok := a.registry.Get(key)
				if !ok {
					return fmt.Errorf("unknown provider %q", key)
				}
				// Listing categories never fetches, so no fetcher is wired.
				svc := feed.NewCategoryService(nil, p, feed.WithLogger(a.logger))
				listings = append(listings, categoryListing{
					Provider:   key,
					BaseURL:    p.BaseURL(),
					Categories: svc.AvailableCategories(),
				})
			}
			return writeCategories(a.stdout, output, listings)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text or json")
	return cmd
}
