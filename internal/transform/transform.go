// Package transform rewrites static HTML entrypoints for development: it
// injects the Vite client loader with an error fallback and repoints
// root-relative asset URLs at the dev server.
//
// The rewriter is regex based and handles the HTML subset these entrypoints
// actually use: ASCII attribute quoting, a single head tag, and no angle
// brackets inside src/href values. It is not a general HTML parser.
package transform

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/beekeeper-studio/vite-plugin/config"
	"github.com/beekeeper-studio/vite-plugin/internal/devlog"
)

var (
	// The optional attribute group must start with whitespace so <header> and
	// similar tags never match.
	headRe = regexp.MustCompile(`(?i)<head(\s[^>]*)?>`)
	attrRe = regexp.MustCompile(`(?i)(src|href)=(["'])(/[^"']*)(["'])`)
)

// clientScripts renders the fragment injected after the opening head tag: a
// fallback handler that redirects to the bundled error page, and the module
// script that connects the page to the Vite dev server's live-reload channel.
// A loader failure (dev server down) triggers the fallback.
func clientScripts(port int, manifestID string) string {
	var sb strings.Builder

	sb.WriteString("\n    <script>\n")
	sb.WriteString("      function __bksDevFallback() {\n")
	sb.WriteString("        var params = new URLSearchParams();\n")
	sb.WriteString(fmt.Sprintf("        params.set(\"port\", \"%d\");\n", port))
	if manifestID != "" {
		sb.WriteString(fmt.Sprintf("        params.set(\"id\", \"%s\");\n", manifestID))
	}
	sb.WriteString("        params.set(\"url\", encodeURIComponent(window.location.href));\n")
	sb.WriteString("        window.location.replace(\"./error.html?\" + params.toString());\n")
	sb.WriteString("      }\n")
	sb.WriteString("    </script>\n")
	sb.WriteString(fmt.Sprintf("    <script type=\"module\" src=\"http://localhost:%d/@vite/client\" onerror=\"__bksDevFallback()\"></script>", port))

	return sb.String()
}

// Apply transforms source HTML for development serving. The injected scripts
// land immediately after the first opening head tag; every root-relative
// src/href value is rewritten to an absolute URL on the dev server. Applying
// the transform to its own output injects a second script block, which is
// why callers always transform from the pristine source file.
func Apply(html string, port int, manifestID string) string {
	if loc := headRe.FindStringIndex(html); loc != nil {
		html = html[:loc[1]] + clientScripts(port, manifestID) + html[loc[1]:]
	}

	return attrRe.ReplaceAllStringFunc(html, func(match string) string {
		m := attrRe.FindStringSubmatch(match)
		attr, quote, path, endQuote := m[1], m[2], m[3], m[4]

		// Mismatched quoting is not a root-relative reference we understand.
		if quote != endQuote {
			return match
		}
		// Protocol-relative URLs already point at another origin.
		if strings.HasPrefix(path, "//") {
			return match
		}

		return fmt.Sprintf("%s=%shttp://localhost:%d%s%s", attr, quote, port, path, quote)
	})
}

// WriteEntrypoint reads root/entry.Input, transforms it for the given dev
// port, and writes the result to root/entry.Output, creating the destination
// directory as needed. A missing source file is a logged warning and a nil
// return: the entrypoint is simply skipped until it appears.
func WriteEntrypoint(root string, entry config.Entrypoint, port int, manifestID string) error {
	inputPath := filepath.Join(root, entry.Input)
	outputPath := filepath.Join(root, entry.Output)

	data, err := os.ReadFile(inputPath)
	if err != nil {
		if os.IsNotExist(err) {
			devlog.Warnf("Entrypoint %s does not exist, skipping", entry.Input)
			return nil
		}
		return fmt.Errorf("failed to read entrypoint %s: %w", entry.Input, err)
	}

	html := Apply(string(data), port, manifestID)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory for %s: %w", entry.Output, err)
	}
	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		return fmt.Errorf("failed to write entrypoint %s: %w", entry.Output, err)
	}

	devlog.Successf("Wrote dev entrypoint %s -> %s", entry.Input, entry.Output)
	return nil
}
