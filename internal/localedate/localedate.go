// Package localedate formats dates and counts for the user's locale.
package localedate

import (
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// layouts maps a locale to its date-time layout. Month and day names stay
// English since time.Format does not translate them.
var layouts = map[string]string{
	"en-US": "Jan 2, 2006, 3:04 PM MST",
	"en-CA": "2006-01-02, 3:04 PM MST",
	"en-GB": "2 Jan 2006, 15:04 MST",
	"de-DE": "02.01.2006 15:04 MST",
	"fr-FR": "02/01/2006 15:04 MST",
	"nl-NL": "02-01-2006 15:04 MST",
	"sv-SE": "2006-01-02 15:04 MST",
}

const fallbackLocale = "en-GB"

func layoutFor(tag language.Tag) string {
	if l, ok := layouts[tag.String()]; ok {
		return l
	}
	// de-AT uses the de-DE layout, and so on.
	base, _ := tag.Base()
	for key, l := range layouts {
		if strings.HasPrefix(key, base.String()+"-") {
			return l
		}
	}
	return layouts[fallbackLocale]
}

// UserLocale reads the locale from LC_ALL, LC_MESSAGES, LANGUAGE and LANG
// in that order. It returns British English when none parses.
func UserLocale() language.Tag {
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANGUAGE", "LANG"} {
		v := os.Getenv(env)
		if v == "" {
			continue
		}
		v = strings.ReplaceAll(strings.Split(v, ".")[0], "_", "-")
		if tag, err := language.Parse(v); err == nil {
			return tag
		}
	}
	return language.BritishEnglish
}

// FormatDateTime renders t in UTC using the layout of tag.
func FormatDateTime(tag language.Tag, t time.Time) string {
	return t.UTC().Format(layoutFor(tag))
}

// Printer returns a message printer for tag, used for grouped numbers.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}
