package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const existingDoc = `metadata:
  customer: advworks
  environment: dev
  version: "1.0"
  owner: platform-team
spec:
  compute:
    instance_name: old-name
    instance_type: t4g.nano
  security:
    waf:
      enabled: true
  networking:
    vpc_cidr: 10.0.0.0/16
`

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"valid mapping", existingDoc, ""},
		{"empty", "", "empty document"},
		{"whitespace only", "   \n", "empty document"},
		{"scalar root", "just a string\n", "document root must be a mapping"},
		{"sequence root", "- a\n- b\n", "document root must be a mapping"},
		{"broken yaml", "a: [unclosed\n", "invalid YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.input))
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestMergePreservesUnknownFields(t *testing.T) {
	doc, err := ParseDocument([]byte(existingDoc))
	require.NoError(t, err)

	doc.Merge(DeployRequest{
		Customer:     "advworks",
		Environment:  "dev",
		InstanceName: "web1",
		WAFEnabled:   false,
	})

	out, err := doc.Encode()
	require.NoError(t, err)

	spec := doc.PodSpec(PodIdentity{Customer: "advworks", Environment: "dev"})
	assert.Equal(t, "web1", spec.InstanceName)
	assert.Equal(t, "t4g.nano", spec.InstanceType)
	assert.False(t, spec.WAFEnabled)

	// Fields the service does not own survive verbatim.
	assert.Contains(t, string(out), "owner: platform-team")
	assert.Contains(t, string(out), "vpc_cidr: 10.0.0.0/16")
	assert.Contains(t, string(out), `version: "1.0"`)
}

func TestMergeIsDeterministic(t *testing.T) {
	req := DeployRequest{Customer: "advworks", Environment: "dev", InstanceName: "web1", WAFEnabled: true}

	encode := func() []byte {
		doc, err := ParseDocument([]byte(existingDoc))
		require.NoError(t, err)
		doc.Merge(req)
		out, err := doc.Encode()
		require.NoError(t, err)
		return out
	}

	assert.Equal(t, encode(), encode())
}

func TestMergeIsIdempotent(t *testing.T) {
	req := DeployRequest{Customer: "advworks", Environment: "dev", InstanceName: "web1", WAFEnabled: true}

	doc, err := ParseDocument([]byte(existingDoc))
	require.NoError(t, err)

	doc.Merge(req)
	once, err := doc.Encode()
	require.NoError(t, err)

	doc.Merge(req)
	twice, err := doc.Encode()
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestMergeCreatesMissingSections(t *testing.T) {
	doc, err := ParseDocument([]byte("metadata:\n  customer: advworks\n"))
	require.NoError(t, err)

	doc.Merge(DeployRequest{InstanceName: "web1", WAFEnabled: true})

	spec := doc.PodSpec(PodIdentity{Customer: "advworks", Environment: "dev"})
	assert.Equal(t, "web1", spec.InstanceName)
	assert.True(t, spec.WAFEnabled)
}

func TestNewDocument(t *testing.T) {
	req := DeployRequest{
		Customer:     "advworks",
		Environment:  "stg",
		InstanceName: "web1",
		WAFEnabled:   true,
	}

	doc := NewDocument(req)
	spec := doc.PodSpec(req.Identity())

	assert.Equal(t, "web1", spec.InstanceName)
	assert.Equal(t, DefaultInstanceType, spec.InstanceType)
	assert.True(t, spec.WAFEnabled)

	out, err := doc.Encode()
	require.NoError(t, err)

	// Round-trip: a freshly created document parses back to itself.
	doc2, err := ParseDocument(out)
	require.NoError(t, err)
	out2, err := doc2.Encode()
	require.NoError(t, err)
	assert.Equal(t, out, out2)
}

func TestFullName(t *testing.T) {
	spec := PodSpec{Customer: "advworks", Environment: "dev", InstanceName: "web1"}
	assert.Equal(t, "advworks-dev-web1", spec.FullName())
}
