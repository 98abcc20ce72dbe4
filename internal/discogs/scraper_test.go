package discogs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wfarner/vinylalert/internal/model"
)

const sellPageFixture = `<html><body>
<table class="mpitems">
<tbody>
<tr>
  <td class="item_picture"><a href="/sell/item/123456?ev=bp">img</a></td>
  <td class="item_description">
    <p class="item_title"><a href="/release/1">Artist - Record</a></p>
    <p class="item_condition">
      <span class="media-condition-tooltip" data-condition="Very Good Plus (VG+)">VG+</span>
      <span class="item_sleeve_condition">Very Good (VG)</span>
    </p>
    <p class="seller_comment">Plays great, light marks</p>
  </td>
  <td class="seller_info">
    <a href="/seller/vinylman/profile">vinylman</a>
    <a href="/seller/vinylman/feedback">1,234 ratings</a>
    <strong>Rating:</strong> <strong>99.5%</strong>
    <div><span>Ships From:</span>Germany</div>
  </td>
  <td class="item_add">cart</td>
  <td class="item_price">
    <span class="price">&euro;20.00</span>
    <span class="item_shipping">+&euro;5.00</span>
  </td>
</tr>
<tr>
  <td class="item_picture"><a href="/sell/item/789?ev=bp">img</a></td>
  <td class="item_description">
    <p class="item_availability">Unavailable in DE</p>
    <p class="item_title"><a href="/release/1">Artist - Record</a></p>
    <p class="item_condition">
      <span class="media-condition-tooltip" data-condition="Near Mint (NM or M-)">NM</span>
    </p>
    <p class="seller_comment">Still sealed</p>
  </td>
  <td class="seller_info">
    <a href="/seller/newseller/profile">newseller</a>
    <a href="/seller/newseller/feedback">3 ratings</a>
    <div><span>Ships From:</span>United Kingdom</div>
  </td>
  <td class="item_add">cart</td>
  <td class="item_price">
    <span class="price">&pound;30.00</span>
    <span class="converted_price">&euro;34.80 <span class="hide">about</span></span>
    <span class="item_shipping">unknown</span>
  </td>
</tr>
<tr>
  <td class="item_picture"><a href="/release/1">no listing link</a></td>
  <td class="item_description"><p>broken row</p></td>
  <td class="seller_info"></td>
  <td class="item_add"></td>
  <td class="item_price"></td>
</tr>
</tbody>
</table>
</body></html>`

func newTestScraper() *Scraper {
	return NewScraper("vinylalert-test", zap.NewNop().Sugar())
}

func TestParseListings(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(sellPageFixture))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}

	listings := newTestScraper().parseListings(doc)
	if len(listings) != 2 {
		t.Fatalf("parsed %d listings, want 2 (broken row skipped)", len(listings))
	}

	first := listings[0]
	if first.ID != "123456" {
		t.Errorf("ID = %q, want 123456", first.ID)
	}
	if first.Availability != "" {
		t.Errorf("Availability = %q, want empty", first.Availability)
	}
	if first.MediaCondition != "Very Good Plus (VG+)" {
		t.Errorf("MediaCondition = %q", first.MediaCondition)
	}
	if first.SleeveCondition != "Very Good (VG)" {
		t.Errorf("SleeveCondition = %q", first.SleeveCondition)
	}
	if first.Comment != "Plays great, light marks" {
		t.Errorf("Comment = %q", first.Comment)
	}
	if first.SellerNumRatings != 1234 {
		t.Errorf("SellerNumRatings = %d, want 1234", first.SellerNumRatings)
	}
	if first.SellerAvgRating == nil || *first.SellerAvgRating != 99.5 {
		t.Errorf("SellerAvgRating = %v, want 99.5", first.SellerAvgRating)
	}
	if first.ShipsFrom != "Germany" {
		t.Errorf("ShipsFrom = %q, want Germany", first.ShipsFrom)
	}
	if first.Price.Currency != "EUR" || !first.Price.Value.Equal(decimal.NewFromInt(20)) {
		t.Errorf("Price = %s %s, want 20 EUR", first.Price.Value, first.Price.Currency)
	}
	if first.Price.Shipping == nil || !first.Price.Shipping.Value.Equal(decimal.NewFromInt(5)) {
		t.Errorf("Shipping = %v, want 5 EUR", first.Price.Shipping)
	}

	second := listings[1]
	if second.ID != "789" {
		t.Errorf("ID = %q, want 789", second.ID)
	}
	if second.Availability != "Unavailable in DE" {
		t.Errorf("Availability = %q, want Unavailable in DE", second.Availability)
	}
	if second.SleeveCondition != "" {
		t.Errorf("SleeveCondition = %q, want absent", second.SleeveCondition)
	}
	if second.SellerAvgRating != nil {
		t.Errorf("SellerAvgRating = %v, new seller should have none", *second.SellerAvgRating)
	}
	if second.SellerNumRatings != 3 {
		t.Errorf("SellerNumRatings = %d, want 3", second.SellerNumRatings)
	}
	// the buyer-currency conversion wins over the raw price
	if second.Price.Currency != "EUR" || !second.Price.Value.Equal(decimal.NewFromFloat(34.80)) {
		t.Errorf("Price = %s %s, want 34.80 EUR", second.Price.Value, second.Price.Currency)
	}
	// unparseable shipping quote means no shipping component
	if second.Price.Shipping != nil {
		t.Errorf("Shipping = %v, want none", second.Price.Shipping)
	}
}

func TestListings_FetchesAndParses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/sell/release/42") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(sellPageFixture))
	}))
	defer server.Close()

	s := newTestScraper()
	s.baseURL = server.URL

	listings, err := s.Listings(context.Background(), 42)
	if err != nil {
		t.Fatalf("Listings returned error: %v", err)
	}
	if len(listings) != 2 {
		t.Errorf("got %d listings, want 2", len(listings))
	}
}

func TestListings_ConnectivityError(t *testing.T) {
	s := newTestScraper()
	s.baseURL = "http://127.0.0.1:1"

	_, err := s.Listings(context.Background(), 42)
	if err == nil {
		t.Fatal("Listings should fail when the host is unreachable")
	}
	if !model.IsConnectivity(err) {
		t.Errorf("error should be a ConnectivityError, got %v", err)
	}
}

func TestListingIDFromHref(t *testing.T) {
	if got := listingIDFromHref("/sell/item/123456?ev=bp"); got != "123456" {
		t.Errorf("listingIDFromHref = %q, want 123456", got)
	}
	if got := listingIDFromHref("/sell/item/789"); got != "789" {
		t.Errorf("listingIDFromHref = %q, want 789", got)
	}
}
