package lever

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-engine/internal/domain"
)

const appliedToContent = `Hi there,

You have applied to Frontend Developer at StartupXYZ.

Track your application: https://jobs.lever.co/startupxyz/abc-123
`

const labeledContent = `Thanks for your interest!

Position: Frontend Developer
Company: StartupXYZ

https://jobs.lever.co/startupxyz/abc-123
`

func TestExtractAppliedToTemplate(t *testing.T) {
	p := Extract(appliedToContent, "no-reply@hire.lever.co")
	require.NotNil(t, p)

	assert.Equal(t, "Frontend Developer", p.Title)
	assert.Equal(t, "StartupXYZ", p.Company)
	assert.Contains(t, p.JobURL, "lever.co")
	assert.Equal(t, domain.VendorLever, p.Vendor)
	assert.InDelta(t, 0.9, p.Confidence, 1e-9)
}

func TestExtractLabeledTemplate(t *testing.T) {
	p := Extract(labeledContent, "no-reply@hire.lever.co")
	require.NotNil(t, p)

	assert.Equal(t, "Frontend Developer", p.Title)
	assert.Equal(t, "StartupXYZ", p.Company)
	assert.Equal(t, domain.VendorLever, p.Vendor)
	assert.InDelta(t, 0.85, p.Confidence, 1e-9)
}

func TestExtractGatesOnURLWithoutSender(t *testing.T) {
	// Forwarded receipts lose the lever sender but keep the URL.
	p := Extract(appliedToContent, "me@example.com")
	require.NotNil(t, p)
	assert.Equal(t, "StartupXYZ", p.Company)
}

func TestExtractGateFails(t *testing.T) {
	assert.Nil(t, Extract("You applied to X at Y.", "someone@example.com"))
}

func TestExtractGatePassedMissingFieldsIsNil(t *testing.T) {
	assert.Nil(t, Extract("See https://jobs.lever.co/x/y for details.", "no-reply@hire.lever.co"))
}
