package search

import "github.com/goto/encoded/core/item"

// Route is an endpoint serving search results.
type Route struct {
	// Name is both the @type and the title of the result.
	Name string
	Path string
	// DefaultType is searched when the request names no type.
	DefaultType string
}

// SearchRoute searches every item.
func SearchRoute() Route {
	return Route{Name: "Search", Path: "/search/", DefaultType: item.ItemTypeName}
}

// BrowseRoute is the faceted browse page, defaulting to browseType.
func BrowseRoute(browseType string) Route {
	if browseType == "" {
		browseType = item.ItemTypeName
	}
	return Route{Name: "Browse", Path: "/browse/", DefaultType: browseType}
}
