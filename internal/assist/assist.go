// Package assist builds the links to external help: the intranet portal
// and AI assistants pre-filled with the consultation template.
package assist

import (
	"net/url"
	"strings"

	"github.com/aretw0/itnav/internal/config"
)

// Links are the external destinations offered next to the guide.
type Links struct {
	Portal   string `json:"portal"`
	Gemini   string `json:"gemini"`
	ChatGPT  string `json:"chatgpt"`
	Template string `json:"template"`
}

// Build resolves the links from configuration. The ChatGPT link carries
// the template as its encoded query; Gemini takes it from the clipboard.
func Build(cfg config.AssistConf) Links {
	return Links{
		Portal:   cfg.PortalURL,
		Gemini:   cfg.GeminiURL,
		ChatGPT:  cfg.ChatGPTURL + EncodeComponent(cfg.Template),
		Template: cfg.Template,
	}
}

// EncodeComponent escapes s the way browsers encode a URI component:
// spaces become %20 rather than '+'.
func EncodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
