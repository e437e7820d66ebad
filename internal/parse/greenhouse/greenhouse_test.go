package greenhouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtrack-engine/internal/domain"
)

const sampleContent = `Thank you for applying!

Position: Senior Software Engineer
Company: TechCorp Inc
Location: San Francisco, CA

View your application: https://boards.greenhouse.io/techcorp/jobs/123456
`

func TestExtract(t *testing.T) {
	p := Extract(sampleContent, "no-reply@greenhouse.io")
	require.NotNil(t, p)

	assert.Equal(t, "Senior Software Engineer", p.Title)
	assert.Equal(t, "TechCorp Inc", p.Company)
	assert.Equal(t, "San Francisco, CA", p.Location)
	assert.Contains(t, p.JobURL, "greenhouse.io")
	assert.Equal(t, domain.VendorGreenhouse, p.Vendor)
	assert.GreaterOrEqual(t, p.Confidence, 0.8)
}

func TestExtractGateRequiresSenderSuffix(t *testing.T) {
	assert.Nil(t, Extract(sampleContent, "no-reply@example.com"))
	// A suffix buried mid-string is not a match.
	assert.Nil(t, Extract(sampleContent, "no-reply@greenhouse.io.evil.com"))
}

func TestExtractPassedGateMissingFieldsIsNil(t *testing.T) {
	// Gate passes but neither title nor company line exists.
	assert.Nil(t, Extract("We got your note.\n", "no-reply@greenhouse.io"))
}
