package sources

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/jobsense/internal/fetch"
)

// SourceWeWorkRemotely is the registry name of the We Work Remotely adapter.
const SourceWeWorkRemotely = "weworkremotely"

const (
	wwrBaseURL     = "https://weworkremotely.com"
	wwrListingPath = "/remote-jobs/search"
)

// WeWorkRemotelyAdapter scrapes listings from the We Work Remotely search
// page and follows each listing to its detail page for the description.
type WeWorkRemotelyAdapter struct {
	baseURL string
	timeout time.Duration

	// UseBrowser enables a headless browser pass when a detail page comes
	// back as a near-empty script shell. Requires Chrome on the host.
	UseBrowser bool
}

// NewWeWorkRemotelyAdapter builds an adapter for the given site. An empty
// baseURL uses the public We Work Remotely site.
func NewWeWorkRemotelyAdapter(baseURL string) *WeWorkRemotelyAdapter {
	if baseURL == "" {
		baseURL = wwrBaseURL
	}
	return &WeWorkRemotelyAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: 20 * time.Second,
	}
}

// Name returns the source identifier.
func (a *WeWorkRemotelyAdapter) Name() string {
	return SourceWeWorkRemotely
}

// Fetch scrapes the listing page and each job's detail page.
func (a *WeWorkRemotelyAdapter) Fetch(ctx context.Context) ([]RawPosting, error) {
	result, err := fetch.URL(ctx, a.baseURL+wwrListingPath, &fetch.Options{
		Timeout:   a.timeout,
		UserAgent: fetch.DefaultUserAgent,
	})
	if err != nil {
		return nil, &UnavailableError{Source: SourceWeWorkRemotely, Cause: err}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.Body))
	if err != nil {
		return nil, &FormatChangedError{Source: SourceWeWorkRemotely, Reason: "listing page is not parseable HTML"}
	}

	items := doc.Find("section.jobs ul li.new-listing-container")
	if items.Length() == 0 {
		return nil, &FormatChangedError{
			Source: SourceWeWorkRemotely,
			Reason: "no job listings matched the expected selectors; the site structure may have changed",
		}
	}
	log.Printf("[weworkremotely] found %d listings", items.Length())

	var postings []RawPosting
	items.EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if ctx.Err() != nil {
			return false
		}

		link := item.Find(`a[href^="/listings/"], a[href^="/remote-jobs/"]`).First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return true
		}

		title := strings.TrimSpace(item.Find("h4.new-listing__header__title").First().Text())
		company := strings.TrimSpace(item.Find("p.new-listing__company-name").First().Text())
		jobURL := a.absoluteURL(href)

		postings = append(postings, RawPosting{
			Title:          title,
			Company:        company,
			URL:            jobURL,
			RawDescription: a.fetchDescription(ctx, jobURL),
			IsRemote:       true,
		})
		return true
	})

	if ctx.Err() != nil {
		return postings, &UnavailableError{Source: SourceWeWorkRemotely, Cause: ctx.Err()}
	}
	return postings, nil
}

// fetchDescription retrieves a listing's detail page. Failures return an
// empty description rather than failing the whole run.
func (a *WeWorkRemotelyAdapter) fetchDescription(ctx context.Context, jobURL string) string {
	result, err := fetch.URL(ctx, jobURL, &fetch.Options{
		Timeout:   a.timeout,
		UserAgent: fetch.DefaultUserAgent,
	})
	if err != nil {
		log.Printf("[weworkremotely] failed to fetch %s: %v", jobURL, err)
		return ""
	}

	html := a.descriptionHTML(result.Body)
	if a.UseBrowser && fetch.ShouldUseBrowser(html) {
		rendered, err := fetch.WithBrowser(ctx, jobURL, a.timeout)
		if err != nil {
			log.Printf("[weworkremotely] browser fallback failed for %s: %v", jobURL, err)
			return html
		}
		html = a.descriptionHTML(rendered)
	}
	return html
}

func (a *WeWorkRemotelyAdapter) descriptionHTML(page string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return ""
	}

	section := doc.Find("div.lis-container__job__content__description").First()
	if section.Length() == 0 {
		section = doc.Find("section.lis-container__job").First()
	}
	html, err := section.Html()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(html)
}

func (a *WeWorkRemotelyAdapter) absoluteURL(href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	base, err := url.Parse(a.baseURL)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
