package motor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pb33f/wptlog/motor/model"
)

// href values look like "/result/241016_AB_1Z2/"; the id sits between the
// eighth byte and the trailing slash
const (
	hrefIDPrefix = 8
	hrefIDSuffix = 1
)

// ExtractListing turns the test log page into references, keeping only the
// rows of table.history whose zero based index falls inside window.
// Document order is preserved.
func ExtractListing(body string, window Window) ([]model.RunReference, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}

	var refs []model.RunReference
	var rowErr error

	doc.Find("table.history").Find("tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i > window.Last {
			return false
		}
		if !window.Contains(i) {
			return true
		}

		ref, err := referenceFromRow(row)
		if err != nil {
			rowErr = fmt.Errorf("listing row %d: %w", i, err)
			return false
		}
		refs = append(refs, ref)
		return true
	})

	if rowErr != nil {
		return nil, rowErr
	}
	return refs, nil
}

func referenceFromRow(row *goquery.Selection) (model.RunReference, error) {
	location := row.Find(".location")
	urlCell := row.Find(".url")

	href, ok := urlCell.Find("a").Attr("href")
	if !ok {
		return model.RunReference{}, ErrMalformedListing
	}

	return model.RunReference{
		ID:      idFromHref(href),
		Date:    row.Find(".date").Text(),
		Network: location.Find("b").Eq(1).Text(),
		URL:     urlCell.Text(),
	}, nil
}

// idFromHref drops the fixed prefix and the trailing byte. Hrefs too short
// to hold an id yield "".
func idFromHref(href string) string {
	end := len(href) - hrefIDSuffix
	if end <= hrefIDPrefix {
		return ""
	}
	return href[hrefIDPrefix:end]
}
