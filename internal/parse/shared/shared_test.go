package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-engine/internal/domain"
)

func TestParseTitleAtCompany(t *testing.T) {
	p := Parse(
		"https://jobs.example.com/senior-engineer",
		"Senior Software Engineer at Example Corp",
		"Join our team...",
	)
	require.NotNil(t, p)

	assert.Equal(t, "Senior Software Engineer", p.Title)
	assert.Equal(t, "Example Corp", p.Company)
	assert.Equal(t, "https://jobs.example.com/senior-engineer", p.JobURL)
	// 0.5 base + 0.15 URL host + 0.2 "title at company".
	assert.InDelta(t, 0.85, p.Confidence, 1e-9)
}

func TestParseCompanyFromURLHost(t *testing.T) {
	p := Parse("https://careers.techcorp.com/job/123", "Software Engineer", "")
	require.NotNil(t, p)

	assert.Equal(t, "Software Engineer", p.Title)
	// First hostname label, capitalized. Not the registrable domain.
	assert.Equal(t, "Careers", p.Company)
	assert.InDelta(t, 0.65, p.Confidence, 1e-9)
}

func TestParseStripsWWW(t *testing.T) {
	p := Parse("https://www.acme.com/openings/1", "Platform Engineer", "")
	require.NotNil(t, p)
	assert.Equal(t, "Acme", p.Company)
}

func TestParseTextOverrides(t *testing.T) {
	p := Parse(
		"https://www.acme.com/openings/1",
		"Openings",
		"company: WidgetWorks\nposition: Site Reliability Engineer\n",
	)
	require.NotNil(t, p)

	assert.Equal(t, "Site Reliability Engineer", p.Title)
	assert.Equal(t, "WidgetWorks", p.Company)
	// 0.5 base + 0.15 URL host + 0.1 company line + 0.1 position line.
	assert.InDelta(t, 0.85, p.Confidence, 1e-9)
}

func TestParseNeverNil(t *testing.T) {
	p := Parse("", "Engineering Role", "")
	require.NotNil(t, p)

	assert.Equal(t, "Engineering Role", p.Title)
	assert.Equal(t, domain.UnknownCompany, p.Company)
	assert.Equal(t, domain.VendorUnknown, p.Vendor)
	assert.InDelta(t, 0.5, p.Confidence, 1e-9)
}

func TestParseAllEmpty(t *testing.T) {
	p := Parse("", "", "")
	require.NotNil(t, p)
	assert.Equal(t, domain.UnknownPosition, p.Title)
	assert.Equal(t, domain.UnknownCompany, p.Company)
	assert.True(t, p.NeedsReview())
}

func TestParseConfidenceClampedAtOne(t *testing.T) {
	p := Parse(
		"https://www.acme.com/openings/1",
		"Staff Engineer at Acme",
		"company: Acme\nposition: Staff Engineer\n",
	)
	require.NotNil(t, p)
	// 0.5 + 0.15 + 0.2 + 0.1 + 0.1 = 1.05, clamped.
	assert.InDelta(t, 1.0, p.Confidence, 1e-9)
}

func TestParseTitleTrailingDashTrimmed(t *testing.T) {
	p := Parse("", "Backend Engineer at Acme - Job Board", "")
	require.NotNil(t, p)
	assert.Equal(t, "Backend Engineer", p.Title)
	assert.Equal(t, "Acme", p.Company)
}
