package discogs

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/brotli"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/wfarner/vinylalert/internal/currency"
	"github.com/wfarner/vinylalert/internal/model"
)

const sellBaseURL = "https://www.discogs.com"

// Scraper extracts marketplace listings from the public sell pages. The
// sell page pre-sorts ascending by raw price; that order is preserved so
// ranking ties can fall back to it.
type Scraper struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	baseURL   string
	log       *zap.SugaredLogger
}

func NewScraper(userAgent string, log *zap.SugaredLogger) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
		userAgent: userAgent,
		baseURL:   sellBaseURL,
		log:       log,
	}
}

// Listings fetches and parses the sell page for a release. Rows that can't
// be parsed are skipped individually; they don't fail the fetch.
func (s *Scraper) Listings(ctx context.Context, releaseID int) ([]model.Listing, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := fmt.Sprintf("%s/sell/release/%d?ev=rb&sort=price%%2Casc", s.baseURL, releaseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	s.setBrowserHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &model.ConnectivityError{Op: "fetch listings", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sell page returned status %d", resp.StatusCode)
	}

	reader, err := s.getReader(resp)
	if err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing sell page: %w", err)
	}

	return s.parseListings(doc), nil
}

func (s *Scraper) setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("Connection", "keep-alive")
}

func (s *Scraper) getReader(resp *http.Response) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}

func (s *Scraper) parseListings(doc *goquery.Document) []model.Listing {
	var listings []model.Listing

	doc.Find("table.mpitems tbody tr").Each(func(i int, row *goquery.Selection) {
		listing, err := parseRow(row)
		if err != nil {
			s.log.Debugw("skipping listing row", "row", i, "error", err)
			return
		}
		listings = append(listings, listing)
	})

	return listings
}

// parseRow extracts one listing from a sell-page table row. The description
// cell holds three paragraphs (title, conditions, seller comment) or four
// when an availability note is prepended.
func parseRow(row *goquery.Selection) (model.Listing, error) {
	cells := row.Find("td")
	if cells.Length() < 5 {
		return model.Listing{}, fmt.Errorf("%w: %d cells in row", model.ErrMalformedListing, cells.Length())
	}

	var listing model.Listing

	href, ok := cells.Eq(0).Find("a[href*='/sell/item/']").First().Attr("href")
	if !ok {
		return model.Listing{}, fmt.Errorf("%w: no listing link", model.ErrMalformedListing)
	}
	listing.ID = listingIDFromHref(href)

	desc := cells.Eq(1)
	paragraphs := desc.Find("p")
	n := paragraphs.Length()
	if n < 3 {
		return model.Listing{}, fmt.Errorf("%w: %d description paragraphs", model.ErrMalformedListing, n)
	}

	conditionIdx, commentIdx := 2, 3
	if n == 3 {
		conditionIdx, commentIdx = 1, 2
	} else {
		listing.Availability = strings.TrimSpace(paragraphs.Eq(0).Text())
	}

	conditions := paragraphs.Eq(conditionIdx)
	listing.MediaCondition, _ = conditions.Find(".media-condition-tooltip").Attr("data-condition")
	if listing.MediaCondition == "" {
		return model.Listing{}, fmt.Errorf("%w: no media condition", model.ErrMalformedListing)
	}
	listing.SleeveCondition = strings.TrimSpace(conditions.Find("span.item_sleeve_condition").Text())
	listing.Comment = strings.TrimSpace(paragraphs.Eq(commentIdx).Text())

	parseSellerCell(cells.Eq(2), &listing)

	price, shipping, err := parsePriceCell(cells.Eq(4))
	if err != nil {
		return model.Listing{}, err
	}
	listing.Price = model.Price{Money: price, Shipping: shipping}

	return listing, nil
}

func listingIDFromHref(href string) string {
	parts := strings.Split(href, "/")
	last := parts[len(parts)-1]
	id, _, _ := strings.Cut(last, "?")
	return id
}

func parseSellerCell(cell *goquery.Selection, listing *model.Listing) {
	// "1,234 ratings" on the seller's feedback link
	ratingsText := cell.Find("a").Eq(1).Text()
	ratingsText = strings.ReplaceAll(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(ratingsText), "ratings")), ",", "")
	if n, err := strconv.Atoi(strings.TrimSpace(ratingsText)); err == nil {
		listing.SellerNumRatings = n
	}

	// The average rating is absent for new sellers.
	avgText := strings.TrimSuffix(strings.TrimSpace(cell.Find("strong").Eq(1).Text()), "%")
	if avg, err := strconv.ParseFloat(avgText, 64); err == nil {
		listing.SellerAvgRating = &avg
	}

	cell.Find("span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		if strings.TrimSpace(span.Text()) != "Ships From:" {
			return true
		}
		parent := span.Parent().Text()
		listing.ShipsFrom = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(parent), "Ships From:"))
		return false
	})
}

func parsePriceCell(cell *goquery.Selection) (model.Money, *model.Money, error) {
	// Prefer the buyer-currency conversion when the page shows one.
	priceSpan := cell.Find("span.converted_price").First()
	if priceSpan.Length() == 0 {
		priceSpan = cell.Find("span.price").First()
	}
	if priceSpan.Length() == 0 {
		return model.Money{}, nil, fmt.Errorf("%w: no price", model.ErrMalformedListing)
	}

	price, err := currency.ParseMoney(strings.ReplaceAll(ownText(priceSpan), "+", ""))
	if err != nil {
		var unknownErr *currency.UnknownCurrencyError
		if errors.As(err, &unknownErr) {
			return model.Money{}, nil, err
		}
		return model.Money{}, nil, fmt.Errorf("%w: %v", model.ErrMalformedListing, err)
	}

	// Shipping is optional; a quote we can't parse means no quote.
	var shipping *model.Money
	shippingText := strings.ReplaceAll(ownText(cell.Find("span.item_shipping").First()), "+", "")
	if m, err := currency.ParseMoney(shippingText); err == nil {
		shipping = &m
	}

	return price, shipping, nil
}

// ownText returns the direct text of a selection, excluding child elements
// such as the hidden "about" qualifier inside converted prices.
func ownText(sel *goquery.Selection) string {
	var parts []string
	sel.Contents().Each(func(_ int, node *goquery.Selection) {
		if goquery.NodeName(node) == "#text" {
			parts = append(parts, node.Text())
		}
	})
	return strings.TrimSpace(strings.Join(parts, " "))
}
