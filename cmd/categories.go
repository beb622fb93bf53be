package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"seasonvar/internal/httputil"
	"seasonvar/internal/media"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Browse the top-level categories",
	Args:  cobra.NoArgs,
	RunE:  categoriesRun,
}

func categoriesRun(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	categories := a.svc.Categories()
	if !interactive() {
		return printJSON(categories)
	}
	return browse(cmd.Context(), a.svc, "Categories", categories)
}

var categoryCmd = &cobra.Command{
	Use:   "category <name|url>",
	Short: "List the items of one category",
	Long: `List the items of a category. The argument is either the name of a top-level
category (New, Popular, Genres) or the URL of any listing page.`,
	Args: cobra.ExactArgs(1),
	RunE: categoryRun,
}

func categoryRun(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	category, err := findCategory(a.svc.Categories(), args[0])
	if err != nil {
		return err
	}
	debugf("category: %s (%s)", category.Name, category.Link)

	results := a.svc.Category(cmd.Context(), category)
	if !interactive() {
		return printJSON(results)
	}
	if len(results) == 0 {
		fmt.Printf("Category %q is empty.\n", category.Name)
		return nil
	}
	return browse(cmd.Context(), a.svc, category.Name, results)
}

// findCategory matches arg against the known category names, falling back
// to treating it as a listing URL named after itself.
func findCategory(known []media.ContentItem, arg string) (media.ContentItem, error) {
	for _, c := range known {
		if strings.EqualFold(c.Name, arg) {
			return c, nil
		}
	}
	if err := httputil.ValidateURL(arg); err != nil {
		names := make([]string, len(known))
		for i, c := range known {
			names[i] = c.Name
		}
		return media.ContentItem{}, fmt.Errorf("unknown category %q (valid: %s, or a listing URL)", arg, strings.Join(names, ", "))
	}
	return media.ContentItem{Name: arg, Link: arg, Kind: media.KindCategory}, nil
}
