package main

import (
	"os"
	"regexp"
	"strings"

	"reactor.de/certext/cmd/certext/commands"
	"reactor.de/certext/internal/ui"
)

var version = "dev"

func main() {
	if err := commands.Execute(version); err != nil {
		errorMsg := strings.ToUpper(err.Error()[:1]) + err.Error()[1:]
		errorMsg = strings.ReplaceAll(errorMsg, "\n", "\n  ")

		// Schema references are noise for profile authors
		schemaRefRe := regexp.MustCompile(` with 'schema://\w+#'`)
		errorMsg = schemaRefRe.ReplaceAllString(errorMsg, "")

		ui.Error("%s", errorMsg)
		os.Exit(1)
	}
}
