package usecase

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/treasurehunter/watcher/internal/domain"
)

var pricePrinter = message.NewPrinter(language.English)

// markdownEscaper escapes the characters Telegram's legacy Markdown treats as entity markers
var markdownEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)

// FormatPrice renders a whole-unit price with the naira sign and thousands separators
func FormatPrice(amount int) string {
	return pricePrinter.Sprintf("₦%d", amount)
}

// FormatCaption builds the Markdown alert text for a matched listing.
// Scraped and configured text is escaped so only the caption's own labels are formatted.
func FormatCaption(target domain.WatchTarget, listing domain.Listing) string {
	link := "N/A"
	if listing.URL != "" {
		link = escapeMarkdown(listing.URL)
	}

	price := "N/A"
	if listing.HasPrice() {
		price = FormatPrice(*listing.Price)
	}

	return fmt.Sprintf(
		"*TREASURE MATCH*\n\n*Target:* %s — %s\n*Found:* %s\n*Price:* %s\n*Link:* %s",
		escapeMarkdown(target.Name), FormatPrice(target.TargetPrice), escapeMarkdown(listing.Title), price, link,
	)
}

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
