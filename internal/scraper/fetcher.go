package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobmate/jobcollect/internal/model"
)

const (
	adzunaBaseURL  = "https://api.adzuna.com/v1/api/jobs"
	adzunaPageSize = 50
	httpTimeout    = 15 * time.Second
)

// currencies maps Adzuna country codes to the currency salaries are quoted in.
var currencies = map[string]string{
	"at": "EUR", "au": "AUD", "be": "EUR", "br": "BRL", "ca": "CAD",
	"ch": "CHF", "de": "EUR", "es": "EUR", "fr": "EUR", "gb": "GBP",
	"in": "INR", "it": "EUR", "mx": "MXN", "nl": "EUR", "nz": "NZD",
	"pl": "PLN", "sg": "SGD", "us": "USD", "za": "ZAR",
}

// AdzunaFetcher fetches job offers from the Adzuna public API.
// If AppID or AppKey is empty, Search returns (nil, nil) so the group run
// simply finds nothing for that location.
type AdzunaFetcher struct {
	AppID   string
	AppKey  string
	Country string // "us", "gb", "fr", …
	BaseURL string
	client  *http.Client
}

// NewAdzunaFetcher constructs a fetcher with a shared HTTP client.
func NewAdzunaFetcher(appID, appKey, country string) *AdzunaFetcher {
	return &AdzunaFetcher{
		AppID:   appID,
		AppKey:  appKey,
		Country: country,
		BaseURL: adzunaBaseURL,
		client:  &http.Client{Timeout: httpTimeout},
	}
}

// adzunaResponse mirrors the top-level Adzuna JSON response.
type adzunaResponse struct {
	Results []adzunaResult `json:"results"`
	Count   int            `json:"count"`
}

// adzunaResult mirrors a single Adzuna job listing.
type adzunaResult struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Company      adzunaCompany  `json:"company"`
	Location     adzunaLocation `json:"location"`
	SalaryMin    float64        `json:"salary_min"`
	SalaryMax    float64        `json:"salary_max"`
	RedirectURL  string         `json:"redirect_url"`
	Created      string         `json:"created"`
	ContractTime string         `json:"contract_time"`
}

type adzunaCompany struct {
	DisplayName string `json:"display_name"`
}

type adzunaLocation struct {
	DisplayName string `json:"display_name"`
}

// Search retrieves up to q.ResultsWanted offers, iterating through pages
// until a short page or the cap is reached.
func (f *AdzunaFetcher) Search(ctx context.Context, q Query) (model.JobTable, error) {
	if f.AppID == "" || f.AppKey == "" {
		log.Println("[fetcher] ADZUNA_APP_ID / ADZUNA_APP_KEY not set — skipping search")
		return nil, nil
	}

	client, err := f.clientFor(q.Proxy)
	if err != nil {
		return nil, err
	}

	var results model.JobTable
	for page := 1; len(results) < q.ResultsWanted; page++ {
		batch, err := f.fetchPage(ctx, client, q, page)
		if err != nil {
			return results, fmt.Errorf("page %d: %w", page, err)
		}
		results = append(results, batch...)
		if len(batch) < adzunaPageSize {
			break // Last page
		}
	}

	if len(results) > q.ResultsWanted {
		results = results[:q.ResultsWanted]
	}
	return results, nil
}

// clientFor returns the shared client, or one routed through proxy.
func (f *AdzunaFetcher) clientFor(proxy string) (*http.Client, error) {
	if proxy == "" {
		return f.client, nil
	}
	proxyURL, err := url.Parse(proxy)
	if err != nil {
		return nil, fmt.Errorf("parse proxy %q: %w", proxy, err)
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = http.ProxyURL(proxyURL)
	return &http.Client{Timeout: f.client.Timeout, Transport: transport}, nil
}

func (f *AdzunaFetcher) fetchPage(ctx context.Context, client *http.Client, q Query, page int) (model.JobTable, error) {
	endpoint := fmt.Sprintf("%s/%s/search/%d", f.BaseURL, f.Country, page)

	params := url.Values{}
	params.Set("app_id", f.AppID)
	params.Set("app_key", f.AppKey)
	params.Set("results_per_page", strconv.Itoa(adzunaPageSize))
	setKeywords(params, q)
	params.Set("where", q.Location)
	params.Set("content-type", "application/json")
	params.Set("sort_by", "date")
	if q.JobType == JobTypeFullTime {
		params.Set("full_time", "1")
	}
	if q.HoursOld > 0 {
		params.Set("max_days_old", strconv.Itoa((q.HoursOld+23)/24))
	}

	reqURL := endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("adzuna returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp adzunaResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}

	results := make(model.JobTable, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		results = append(results, f.toRecord(r, q))
	}

	return results, nil
}

// setKeywords maps the query terms onto Adzuna's keyword fields. Adzuna
// cannot OR phrases, so several include terms are sent as their words in
// what_or and the title rules narrow the results afterwards. Only single-word
// exclude terms go to what_exclude; excluding each word of a phrase would
// drop unrelated postings.
func setKeywords(params url.Values, q Query) {
	switch {
	case len(q.Include) == 0:
		params.Set("what", q.SearchTerm)
	case len(q.Include) == 1 && strings.Contains(strings.TrimSpace(q.Include[0]), " "):
		params.Set("what_phrase", strings.TrimSpace(q.Include[0]))
	case len(q.Include) == 1:
		params.Set("what", strings.TrimSpace(q.Include[0]))
	default:
		params.Set("what_or", strings.Join(words(q.Include), " "))
	}

	var exclude []string
	for _, t := range q.Exclude {
		if w := strings.Fields(t); len(w) == 1 {
			exclude = append(exclude, w[0])
		}
	}
	if len(exclude) > 0 {
		params.Set("what_exclude", strings.Join(exclude, " "))
	}
}

// words returns the distinct words of terms in first-seen order.
func words(terms []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range terms {
		for _, w := range strings.Fields(t) {
			k := strings.ToLower(w)
			if !seen[k] {
				seen[k] = true
				out = append(out, w)
			}
		}
	}
	return out
}

func (f *AdzunaFetcher) toRecord(r adzunaResult, q Query) model.JobRecord {
	rec := model.JobRecord{
		Location: r.Location.DisplayName,
		Company:  r.Company.DisplayName,
		JobURL:   r.RedirectURL,
	}
	if t := plainText(r.Title); t != "" {
		rec.Title = model.Text(t)
	}
	if q.FetchDescription {
		if d := plainText(r.Description); d != "" {
			rec.Description = model.Text(d)
		}
	}
	if posted, err := time.Parse(time.RFC3339, r.Created); err == nil {
		rec.DatePosted = posted
	}
	// Adzuna quotes salaries per year.
	if r.SalaryMin > 0 {
		rec.MinAmount = model.Amount(r.SalaryMin)
	}
	if r.SalaryMax > 0 {
		rec.MaxAmount = model.Amount(r.SalaryMax)
	}
	if rec.MinAmount != nil || rec.MaxAmount != nil {
		rec.Currency = currencies[strings.ToLower(f.Country)]
		rec.Interval = "yearly"
	}
	return rec
}

// plainText strips the highlight markup Adzuna embeds in titles and
// snippets and collapses whitespace.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
