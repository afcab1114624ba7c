package catalog

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/treasurehunter/watcher/internal/domain"
)

// Selectors for the catalog's product cards, tried in order
const cardSelector = "article.prd, article.c-prd, .sku"

var (
	titleSelectors = []string{"h3.name", ".name"}
	priceSelectors = []string{".prc", ".price"}
	linkSelectors  = []string{"a.core", "a"}
	imageAttrs     = []string{"data-src", "data-srcset", "src"}
)

// Price patterns: "₦ 4,379" first, then "NGN 4,379"
var (
	nairaPriceRegex = regexp.MustCompile(`₦\s*([\d,]+)`)
	ngnPriceRegex   = regexp.MustCompile(`(?i)NGN\s*([\d,]+)`)
)

// ParseListings extracts listings from a results page.
// Cards without a title, a price element or a link are dropped; a card whose price
// text cannot be read is kept with an absent price. Relative links resolve against base.
func ParseListings(r io.Reader, base *url.URL) ([]domain.Listing, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse results page: %w", err)
	}

	var listings []domain.Listing
	doc.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		listing, err := parseCard(card, base)
		if err != nil {
			return
		}
		listings = append(listings, listing)
	})

	return listings, nil
}

// parseCard maps a single product card to a listing
func parseCard(card *goquery.Selection, base *url.URL) (domain.Listing, error) {
	titleEl := firstMatch(card, titleSelectors)
	priceEl := firstMatch(card, priceSelectors)
	linkEl := firstMatch(card, linkSelectors)
	if titleEl == nil || priceEl == nil || linkEl == nil {
		return domain.Listing{}, domain.ErrUnusableListing
	}

	title := strings.TrimSpace(titleEl.Text())
	href, _ := linkEl.Attr("href")
	href = strings.TrimSpace(href)
	if title == "" || href == "" {
		return domain.Listing{}, domain.ErrUnusableListing
	}

	listing := domain.Listing{
		Title: title,
		Price: ExtractPrice(priceEl.Text()),
		URL:   resolveURL(base, href),
	}

	if img := card.Find("img").First(); img.Length() > 0 {
		for _, attr := range imageAttrs {
			if v, ok := img.Attr(attr); ok && strings.TrimSpace(v) != "" {
				listing.ImageURL = resolveURL(base, strings.TrimSpace(v))
				break
			}
		}
	}

	return listing, nil
}

// ExtractPrice reads a whole-unit naira amount such as "₦ 4,379" or "NGN 4,379".
// Returns nil when the text carries no readable price.
func ExtractPrice(text string) *int {
	if text == "" {
		return nil
	}

	m := nairaPriceRegex.FindStringSubmatch(text)
	if m == nil {
		m = ngnPriceRegex.FindStringSubmatch(text)
	}
	if m == nil {
		return nil
	}

	value, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return nil
	}
	return &value
}

// firstMatch returns the first selector hit inside card, or nil
func firstMatch(card *goquery.Selection, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if found := card.Find(sel).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}

// resolveURL turns a relative href into an absolute URL on the catalog host
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil || base == nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
