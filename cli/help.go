package cli

import "github.com/MakeNowJust/heredoc"

var envHelp = map[string]string{
	"short": "List of supported environment variables",
	"long": heredoc.Doc(`
			ENCODED_LOG_LEVEL: log level of the server, one of debug, info, warn, error.

			ENCODED_ELASTICSEARCH_BROKERS: comma separated Elasticsearch addresses.

			ENCODED_ELASTICSEARCH_INDEX: name of the index holding the portal documents.

			ENCODED_SEARCH_TYPES_FILE: path of the YAML file declaring the item types.

			ENCODED_SERVICE_PORT: port the HTTP server listens on.

			NO_COLOR: set to any value to avoid printing ANSI escape sequences for color output.
		`),
}
