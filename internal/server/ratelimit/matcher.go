package ratelimit

import (
	"net/http"
	"strings"
)

// unlimitedRoutes are never throttled: liveness probes must not fail under upload load.
var unlimitedRoutes = map[string]string{
	"/health": http.MethodGet,
}

// MatchEndpoint picks the limit that applies to a request. An entry whose path ends
// in "/" covers every file below it ("/download/" covers "/download/CV_FINAL_x.docx");
// the longest such prefix wins over shorter ones, and an exact path wins over any prefix.
// A trailing slash on the request path is ignored, so "/generate/" is throttled as "/generate".
// CORS preflights and unlimitedRoutes get a zero-limit config; nil means the default applies.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if m, ok := unlimitedRoutes[path]; method == http.MethodOptions || (ok && m == method) {
		return &EndpointConfig{Path: path, Method: method}
	}

	trimmed := path
	if len(trimmed) > 1 {
		trimmed = strings.TrimSuffix(trimmed, "/")
	}

	var best *EndpointConfig
	for i := range configs {
		cfg := &configs[i]
		if cfg.Method != method {
			continue
		}
		if cfg.Path == trimmed {
			return cfg
		}
		if strings.HasSuffix(cfg.Path, "/") && strings.HasPrefix(path, cfg.Path) {
			if best == nil || len(cfg.Path) > len(best.Path) {
				best = cfg
			}
		}
	}
	return best
}
