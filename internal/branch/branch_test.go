package branch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-blackswan/claudechain/internal/spec"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "claudechain-billing-7",
		Format("claudechain", "billing", spec.IndexIdentity(7)))
	assert.Equal(t, "claudechain-billing-a1b2c3d4",
		Format("claudechain", "billing", spec.HashIdentity("a1b2c3d4")))
}

func TestParse_RoundTrip(t *testing.T) {
	identities := []spec.Identity{
		spec.IndexIdentity(1),
		spec.IndexIdentity(42),
		spec.HashIdentity("deadbeef"),
		spec.HashIdentity(spec.HashDescription("some task")),
	}
	projects := []string{"billing", "api-gateway", "my-multi-part-project"}
	for _, project := range projects {
		for _, id := range identities {
			name := Format("claudechain", project, id)
			gotProject, gotID, ok := Parse("claudechain", name)
			require.True(t, ok, "branch %q", name)
			assert.Equal(t, project, gotProject, "branch %q", name)
			assert.Equal(t, id, gotID, "branch %q", name)
		}
	}
}

func TestParse_Malformed(t *testing.T) {
	cases := []string{
		"",
		"main",
		"feature/login",
		"claudechain",
		"claudechain-",
		"claudechain-billing",        // no identity component
		"claudechain-billing-",       // empty identity
		"claudechain-billing-xyz",    // identity does not parse
		"otherprefix-billing-7",      // wrong prefix
		"claudechain-billing-0",      // indexes are 1-based
	}
	for _, name := range cases {
		_, _, ok := Parse("claudechain", name)
		assert.False(t, ok, "branch %q should not parse", name)
	}
}

func TestParse_HyphenatedProject(t *testing.T) {
	project, id, ok := Parse("step", "step-api-gateway-a1b2c3d4")
	require.True(t, ok)
	assert.Equal(t, "api-gateway", project)
	assert.Equal(t, spec.HashIdentity("a1b2c3d4"), id)
}
