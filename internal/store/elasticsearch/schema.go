package elasticsearch

// used as body to create index requests
var indexSettingsTemplate = `{
	"mappings": %s,
	"settings": {
		"index.mapping.ignore_malformed": true,
		"index.mapping.total_fields.limit": 5000,
		"index.max_result_window": 100000,
		"analysis": {
			"normalizer": {
				"lowercase_sort": {
					"type": "custom",
					"filter": ["lowercase"]
				}
			}
		}
	}
}`

// Every leaf under embedded gets two subfields: .raw, an exact
// keyword that filters and terms facets target, and .sort, which
// orders strings case-insensitively and numbers and booleans by value.
// Date detection is off so ISO timestamps stay strings and keep both.
var itemIndexMapping = `{
	"date_detection": false,
	"numeric_detection": false,
	"dynamic_templates": [
		{
			"embedded_strings": {
				"path_match": "embedded.*",
				"match_mapping_type": "string",
				"mapping": {
					"type": "text",
					"fields": {
						"raw": {
							"type": "keyword",
							"ignore_above": 256
						},
						"sort": {
							"type": "keyword",
							"normalizer": "lowercase_sort",
							"ignore_above": 256
						}
					}
				}
			}
		},
		{
			"embedded_integers": {
				"path_match": "embedded.*",
				"match_mapping_type": "long",
				"mapping": {
					"type": "long",
					"fields": {
						"raw": {
							"type": "keyword"
						},
						"sort": {
							"type": "long"
						}
					}
				}
			}
		},
		{
			"embedded_numbers": {
				"path_match": "embedded.*",
				"match_mapping_type": "double",
				"mapping": {
					"type": "double",
					"fields": {
						"raw": {
							"type": "keyword"
						},
						"sort": {
							"type": "double"
						}
					}
				}
			}
		},
		{
			"embedded_booleans": {
				"path_match": "embedded.*",
				"match_mapping_type": "boolean",
				"mapping": {
					"type": "boolean",
					"fields": {
						"raw": {
							"type": "keyword"
						},
						"sort": {
							"type": "boolean"
						}
					}
				}
			}
		},
		{
			"audit_strings": {
				"path_match": "audit.*",
				"match_mapping_type": "string",
				"mapping": {
					"type": "keyword",
					"ignore_above": 256
				}
			}
		}
	],
	"properties": {
		"uuid": {
			"type": "keyword"
		},
		"item_type": {
			"type": "keyword"
		},
		"principals_allowed": {
			"properties": {
				"view": {
					"type": "keyword"
				},
				"edit": {
					"type": "keyword"
				}
			}
		},
		"embedded": {
			"type": "object"
		},
		"object": {
			"type": "object",
			"enabled": false
		},
		"audit": {
			"type": "object"
		}
	}
}`
