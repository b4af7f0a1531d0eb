package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifier(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantErr   bool
		traversal bool
	}{
		{"simple", "advworks", false, false},
		{"mixed case", "AdvWorks", false, false},
		{"hyphen and underscore", "adv-works_2", false, false},
		{"single char", "a", false, false},
		{"max length", strings.Repeat("a", 50), false, false},
		{"empty", "", true, false},
		{"too long", strings.Repeat("a", 51), true, false},
		{"space", "adv works", true, false},
		{"dot", "adv.works", true, false},
		{"shell metachar", "adv;works", true, false},
		{"unicode", "двор", true, false},
		{"dotdot", "..", true, true},
		{"relative escape", "../../etc", true, true},
		{"forward slash", "adv/works", true, true},
		{"backslash", `adv\works`, true, true},
		{"nul byte", "adv\x00works", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Identifier(tt.value, "customer")
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Equal(t, tt.traversal, IsTraversal(err))
		})
	}
}

func TestInstanceName(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"simple", "web1", false},
		{"hyphenated", "web-primary-1", false},
		{"max length", strings.Repeat("a", 30), false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 31), true},
		{"leading hyphen", "-web1", true},
		{"trailing hyphen", "web1-", true},
		{"space", "web 1", true},
		{"traversal", "../web1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InstanceName(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestErrorNamesField(t *testing.T) {
	err := Identifier("bad value", "environment")
	assert.ErrorContains(t, err, "environment")
}
