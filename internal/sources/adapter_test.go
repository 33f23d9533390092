package sources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	name string
}

func (a *stubAdapter) Name() string                                  { return a.name }
func (a *stubAdapter) Fetch(_ context.Context) ([]RawPosting, error) { return nil, nil }

func TestRegistry_GetAndNames(t *testing.T) {
	r := NewRegistry(&stubAdapter{name: "a"}, &stubAdapter{name: "b"})

	adapter, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", adapter.Name())

	_, ok = r.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"a", "b"}, r.Names())
	assert.Len(t, r.All(), 2)
}

func TestRegistry_SkipsDuplicateNames(t *testing.T) {
	first := &stubAdapter{name: "a"}
	second := &stubAdapter{name: "a"}
	r := NewRegistry(first, second)

	assert.Equal(t, []string{"a"}, r.Names())
	adapter, ok := r.Get("a")
	require.True(t, ok)
	assert.Same(t, Adapter(first), adapter)
}

func TestRawPosting_Valid(t *testing.T) {
	p := RawPosting{
		Title:          "Go Developer",
		Company:        "Acme",
		URL:            "https://example.com/1",
		RawDescription: "Build things",
	}
	assert.True(t, p.Valid())
}

func TestRawPosting_InvalidWhenFieldMissing(t *testing.T) {
	base := RawPosting{
		Title:          "Go Developer",
		Company:        "Acme",
		URL:            "https://example.com/1",
		RawDescription: "Build things",
	}

	noTitle := base
	noTitle.Title = "  "
	assert.False(t, noTitle.Valid())

	noCompany := base
	noCompany.Company = ""
	assert.False(t, noCompany.Valid())

	noURL := base
	noURL.URL = ""
	assert.False(t, noURL.Valid())

	noDescription := base
	noDescription.RawDescription = "\n"
	assert.False(t, noDescription.Valid())
}
