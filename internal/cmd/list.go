package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thingsboard/tb-cli/internal/api"
)

// pageFlags are the paging flags shared by list commands.
type pageFlags struct {
	size         int
	page         int
	search       string
	sortProperty string
	sortOrder    string
	all          bool
	maxPages     int
}

func addPageFlags(cmd *cobra.Command, p *pageFlags) {
	cmd.Flags().IntVar(&p.size, "page-size", 20, "Items per page")
	cmd.Flags().IntVar(&p.page, "page", 0, "Page number, starting at 0")
	cmd.Flags().StringVar(&p.search, "search", "", "Text search on the entity name")
	cmd.Flags().StringVar(&p.sortProperty, "sort", "", "Sort property (e.g. createdTime, name)")
	cmd.Flags().StringVar(&p.sortOrder, "order", "", "Sort order: asc|desc")
	cmd.Flags().BoolVar(&p.all, "all", false, "Fetch every page")
	cmd.Flags().IntVar(&p.maxPages, "max-pages", 100, "Page limit for --all")
	flagAlias(cmd.Flags(), "page-size", "limit")
	flagAlias(cmd.Flags(), "search", "text-search")
}

func (p pageFlags) params() (api.PageParams, error) {
	if p.size < 1 {
		return api.PageParams{}, fmt.Errorf("--page-size must be >= 1")
	}
	if p.page < 0 {
		return api.PageParams{}, fmt.Errorf("--page must be >= 0")
	}
	if p.all && p.maxPages < 1 {
		return api.PageParams{}, fmt.Errorf("--max-pages must be >= 1")
	}
	params := api.PageParams{
		PageSize:     p.size,
		Page:         p.page,
		TextSearch:   p.search,
		SortProperty: p.sortProperty,
	}
	if p.sortOrder != "" {
		order := strings.ToUpper(strings.TrimSpace(p.sortOrder))
		if order != string(api.SortAsc) && order != string(api.SortDesc) {
			return api.PageParams{}, api.NewValidationError("--order", p.sortOrder, []string{"asc", "desc"})
		}
		params.SortOrder = api.SortOrder(order)
	}
	return params, nil
}

// fetchPages fetches one page, or every page from the start one when
// --all is set. The merged result reports HasNext only when --max-pages
// stopped the walk.
func fetchPages[T any](ctx context.Context, p pageFlags, fetch func(context.Context, api.PageParams) (*api.PageData[T], error)) (*api.PageData[T], error) {
	params, err := p.params()
	if err != nil {
		return nil, err
	}
	if !p.all {
		return fetch(ctx, params)
	}

	merged := &api.PageData[T]{Data: []T{}}
	for i := 0; i < p.maxPages; i++ {
		page, err := fetch(ctx, params)
		if err != nil {
			return nil, err
		}
		merged.Data = append(merged.Data, page.Data...)
		merged.TotalPages = page.TotalPages
		merged.TotalElements = page.TotalElements
		merged.HasNext = page.HasNext
		if !page.HasNext {
			break
		}
		params.Page++
	}
	return merged, nil
}

// table describes the text rendering of a listing.
type table[T any] struct {
	headers []string
	row     func(T) []string
	empty   string
}

// renderPage writes page in the requested format.
func renderPage[T any](cmd *cobra.Command, page *api.PageData[T], t table[T]) error {
	f := newFormatter(cmd)
	if f.Structured() {
		return f.Output(page)
	}
	if len(page.Data) == 0 {
		if t.empty != "" {
			f.Empty(t.empty)
		}
		return nil
	}
	f.StartTable(t.headers...)
	for _, item := range page.Data {
		f.Row(t.row(item)...)
	}
	if err := f.EndTable(); err != nil {
		return err
	}
	if page.HasNext && !flags.Quiet {
		f.Empty(fmt.Sprintf("Showing %d of %d (more pages: use --page or --all)", len(page.Data), page.TotalElements))
	}
	return nil
}

// renderList writes a plain slice, such as an unpaged listing.
func renderList[T any](cmd *cobra.Command, items []T, t table[T]) error {
	if items == nil {
		items = []T{}
	}
	f := newFormatter(cmd)
	if f.Structured() {
		return f.Output(items)
	}
	if len(items) == 0 {
		if t.empty != "" {
			f.Empty(t.empty)
		}
		return nil
	}
	f.StartTable(t.headers...)
	for _, item := range items {
		f.Row(t.row(item)...)
	}
	return f.EndTable()
}

func idOf(id *api.EntityID) string {
	if id == nil {
		return ""
	}
	return id.ID
}

func boolMark(v bool) string {
	if v {
		return "yes"
	}
	return ""
}
