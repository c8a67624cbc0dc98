package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/encoded/core/item"
	"github.com/goto/encoded/core/search"
	"github.com/goto/encoded/core/user"
	"github.com/goto/encoded/core/validator"
	esStore "github.com/goto/encoded/internal/store/elasticsearch"
	"github.com/goto/salt/log"
	"github.com/goto/salt/printer"
	"github.com/goto/salt/term"
	"github.com/spf13/cobra"
)

const (
	routeSearch = "search"
	routeBrowse = "browse"
)

func searchCommand(cfg *Config) *cobra.Command {
	var route, userUUID, groups string
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Run a portal search against the index",
		Long: heredoc.Doc(`
			Run a search the same way the /search/ and /browse/ endpoints do,
			and print the JSON-LD result. The query uses the endpoint's
			query string syntax.
		`),
		Annotations: map[string]string{
			"group": "core",
		},
		Args: cobra.MaximumNArgs(1),
		Example: heredoc.Doc(`
			$ encoded search "type=Biosource&biosource_type=primary+cell"
			$ encoded search "status!=deleted" --route browse
			$ encoded search "type=Item&audit.WARNING.category=No+value" --user 0f6a2f4e-5e3c-4c2b-9f7a-1d1c7e7c1a11 --groups admin
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validator.ValidateOneOf(route, routeSearch, routeBrowse); err != nil {
				return err
			}
			if err := overrideConfigFromFlag(cmd, cfg); err != nil {
				return err
			}

			spinner := printer.Spin("")
			defer spinner.Stop()

			logger := log.NewNoop()
			registry, err := item.LoadRegistry(cfg.Search.TypesFile)
			if err != nil {
				return err
			}
			esClient, err := esStore.NewClient(logger, cfg.Elasticsearch)
			if err != nil {
				return err
			}
			svc := search.NewService(cfg.Search, registry, esStore.NewSearchRepository(esClient, logger))

			usr := user.User{UUID: userUUID, Groups: splitGroups(groups)}
			if userUUID != "" {
				if err := usr.Validate(); err != nil {
					return err
				}
			}
			ctx := user.NewContext(cmd.Context(), usr)

			var rawQuery string
			if len(args) > 0 {
				rawQuery = strings.TrimPrefix(args[0], "?")
			}
			res, err := svc.Search(ctx, searchRoute(route, cfg.Search.BrowseType), rawQuery)
			if err != nil {
				return err
			}

			spinner.Stop()
			fmt.Println(term.Bluef(prettyPrint(res)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&route, "route", "r", routeSearch, "endpoint to emulate, search or browse")
	cmd.Flags().StringVarP(&userUUID, "user", "u", "", "uuid of the user to search as")
	cmd.Flags().StringVarP(&groups, "groups", "g", "", "comma separated groups of the user")
	return cmd
}

func searchRoute(route, browseType string) search.Route {
	if route == routeBrowse {
		return search.BrowseRoute(browseType)
	}
	return search.SearchRoute()
}

func splitGroups(s string) []string {
	var groups []string
	for _, g := range strings.Split(s, ",") {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	return groups
}

func prettyPrint(i interface{}) string {
	s, _ := json.MarshalIndent(i, "", "\t")
	return string(s)
}
