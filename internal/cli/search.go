package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/output"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search listings with a natural-language query",
	Long: `Search listings with a free-text query in Vietnamese or English.
The query is parsed into a filter (by the configured LLM providers, falling
back to the local parser), candidates are fetched from the database and
ranked by relevance.

Examples:
  roomfinder search "phòng trọ gần ĐH Bách Khoa dưới 3 triệu"
  roomfinder search "căn hộ quận 7 có máy lạnh, chỗ để xe"
  roomfinder search "room near RMIT under 5 million" -o json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var parseCmd = &cobra.Command{
	Use:   "parse <query>",
	Short: "Show the filter a search query is parsed into",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runParse,
}

var noTranslate bool

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(parseCmd)
	searchCmd.Flags().BoolVar(&noTranslate, "no-translate", false, "Do not translate non-Vietnamese queries")
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	svc := a.searchService(ctx)

	var res *search.Result
	if noTranslate {
		res, err = svc.Search(ctx, query)
	} else {
		res, err = svc.SearchMultiLanguage(ctx, query)
	}
	if err != nil {
		return err
	}
	return output.Output(outputFmt, res)
}

func runParse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	a, err := loadApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	parsed, by := a.searchService(ctx).Parse(ctx, query)
	if outputFmt == "json" {
		return output.JSON(struct {
			Query    string              `json:"query"`
			ParsedBy string              `json:"parsedBy"`
			Parsed   search.ParsedFilter `json:"parsed"`
		}{query, by, parsed})
	}

	fmt.Printf("Parsed by:   %s\n", by)
	return output.Output(outputFmt, parsed)
}
