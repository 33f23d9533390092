package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wwrListingFixture = `<html><body>
<section class="jobs">
  <ul>
    <li class="new-listing-container">
      <a href="/listings/acme-go-developer">
        <h4 class="new-listing__header__title">Go Developer</h4>
        <p class="new-listing__company-name">Acme</p>
      </a>
    </li>
    <li class="new-listing-container">
      <a href="/remote-jobs/globex-data-engineer">
        <h4 class="new-listing__header__title">Data Engineer</h4>
        <p class="new-listing__company-name">Globex</p>
      </a>
    </li>
    <li class="new-listing-container">
      <div>promo card without a listing link</div>
    </li>
  </ul>
</section>
</body></html>`

const wwrDetailFixture = `<html><body>
<section class="lis-container__job">
  <div class="lis-container__job__content__description">
    <p>Build and run Go services at scale.</p>
  </div>
</section>
</body></html>`

func wwrServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/remote-jobs/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, wwrListingFixture)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, wwrDetailFixture)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestWeWorkRemotely_FetchParsesListings(t *testing.T) {
	srv := wwrServer(t)

	adapter := NewWeWorkRemotelyAdapter(srv.URL)
	assert.Equal(t, SourceWeWorkRemotely, adapter.Name())

	postings, err := adapter.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, postings, 2)

	first := postings[0]
	assert.Equal(t, "Go Developer", first.Title)
	assert.Equal(t, "Acme", first.Company)
	assert.Equal(t, srv.URL+"/listings/acme-go-developer", first.URL)
	assert.True(t, first.IsRemote)
	assert.Contains(t, first.RawDescription, "Go services at scale")

	second := postings[1]
	assert.Equal(t, "Data Engineer", second.Title)
	assert.Equal(t, srv.URL+"/remote-jobs/globex-data-engineer", second.URL)
}

func TestWeWorkRemotely_FormatChanged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><div>redesigned page</div></body></html>`)
	}))
	defer srv.Close()

	adapter := NewWeWorkRemotelyAdapter(srv.URL)

	_, err := adapter.Fetch(context.Background())
	var formatErr *FormatChangedError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, SourceWeWorkRemotely, formatErr.Source)
}

func TestWeWorkRemotely_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	adapter := NewWeWorkRemotelyAdapter(srv.URL)

	_, err := adapter.Fetch(context.Background())
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestWeWorkRemotely_DetailPageFailureYieldsEmptyDescription(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/remote-jobs/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, wwrListingFixture)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	adapter := NewWeWorkRemotelyAdapter(srv.URL)

	postings, err := adapter.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, postings, 2)
	assert.Empty(t, postings[0].RawDescription)
}

func TestWeWorkRemotely_DescriptionFallbackSelector(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/remote-jobs/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, wwrListingFixture)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><section class="lis-container__job"><p>Fallback content</p></section></body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	adapter := NewWeWorkRemotelyAdapter(srv.URL)

	postings, err := adapter.Fetch(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, postings)
	assert.Contains(t, postings[0].RawDescription, "Fallback content")
}

func TestWeWorkRemotely_CanceledContext(t *testing.T) {
	srv := wwrServer(t)

	adapter := NewWeWorkRemotelyAdapter(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := adapter.Fetch(ctx)
	require.Error(t, err)
}
