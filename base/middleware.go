// Package base contains the router-agnostic middleware logic shared by all
// adapters: the plugin info endpoint payload and the plugin-origin guard.
package base

import (
	"encoding/json"
	"strings"
)

const (
	// InfoPath is the well-known path the host queries to identify the plugin.
	InfoPath = "/__bks_vite_plugin__info"

	// PluginScheme is the restricted origin scheme used by the host runtime
	// for sandboxed plugin content.
	PluginScheme = "plugin://"

	// InfoContentType is the content type of the info endpoint response.
	InfoContentType = "application/json"
)

// Decision is the outcome of evaluating a request against the origin guard.
type Decision int

const (
	// Allow passes the request through to the next handler unmodified.
	Allow Decision = iota
	// Block terminates the request with 403 and an empty body.
	Block
)

// InfoBody builds the JSON body served at InfoPath.
type InfoBody struct {
	ManifestID string `json:"manifestId"`
}

// InfoResponse renders the info endpoint body for the given manifest identity.
func InfoResponse(manifestID string) []byte {
	body, _ := json.Marshal(InfoBody{ManifestID: manifestID})
	return body
}

// CheckOrigin evaluates the Origin header of a request against the resolved
// manifest identity. Only origins using the restricted plugin:// scheme are
// ever blocked: when the identity is known and the origin names a different
// plugin, the request is rejected. Requests with no Origin header, or with an
// origin on any other scheme, always pass.
func CheckOrigin(origin, manifestID string) Decision {
	if origin == "" || !strings.HasPrefix(origin, PluginScheme) {
		return Allow
	}
	if manifestID == "" {
		return Allow
	}
	if origin != PluginScheme+manifestID {
		return Block
	}
	return Allow
}
