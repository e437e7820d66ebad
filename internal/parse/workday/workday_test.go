package workday

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-engine/internal/domain"
)

const sampleContent = `You have successfully submitted your application.

Job: Full Stack Engineer
Company: BigTech Inc
Location: New York, NY

https://bigtech.workday.com/en-US/careers/job/12345
`

func TestExtract(t *testing.T) {
	p := Extract(sampleContent)
	require.NotNil(t, p)

	assert.Equal(t, "Full Stack Engineer", p.Title)
	assert.Equal(t, "BigTech Inc", p.Company)
	assert.Equal(t, "New York, NY", p.Location)
	assert.Contains(t, p.JobURL, "workday")
	assert.Equal(t, domain.VendorWorkday, p.Vendor)
	assert.GreaterOrEqual(t, p.Confidence, 0.8)
}

func TestExtractCompanyFromSubdomain(t *testing.T) {
	content := "You have successfully submitted your application.\n" +
		"Role: Staff Engineer\n" +
		"Apply status: https://acme-robotics.workday.com/jobs/999\n"

	p := Extract(content)
	require.NotNil(t, p)
	assert.Equal(t, "Staff Engineer", p.Title)
	// Hyphens become spaces; the segment is deliberately not title-cased.
	assert.Equal(t, "acme robotics", p.Company)
}

func TestExtractGateFails(t *testing.T) {
	assert.Nil(t, Extract("Position: Engineer\nCompany: Acme\n"))
}

func TestExtractGatePassedMissingTitleIsNil(t *testing.T) {
	assert.Nil(t, Extract("You have successfully submitted your application. Goodbye.\n"))
}
