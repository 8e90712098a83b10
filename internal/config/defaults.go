package config

const (
	defaultConfigPath    = "~/.config/subberthehut/config.toml"
	defaultEndpoint      = "http://api.opensubtitles.org/xml-rpc"
	defaultUserAgent     = "subberthehut"
	defaultLoginLanguage = "en"
	defaultLanguage      = "eng"
	defaultLimit         = 100
	maxLimit             = 500
	defaultScope         = ScopeBoth
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Search scopes accepted by search.scope.
const (
	ScopeBoth = "both"
	ScopeHash = "hash"
	ScopeName = "name"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Catalog: Catalog{
			Endpoint:      defaultEndpoint,
			UserAgent:     defaultUserAgent,
			LoginLanguage: defaultLoginLanguage,
		},
		Search: Search{
			Languages: []string{defaultLanguage},
			Limit:     defaultLimit,
			Scope:     defaultScope,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
