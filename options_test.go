package avaserial

import (
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPathList_UnmarshalYAML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected PathList
		wantErr  bool
	}{
		{
			name:     "single string",
			input:    `only: first`,
			expected: PathList{"first"},
		},
		{
			name:     "sequence",
			input:    "only:\n  - first\n  - address.city",
			expected: PathList{"first", "address.city"},
		},
		{
			name:    "mapping is rejected",
			input:   "only:\n  first: true",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts Options
			err := yaml.Unmarshal([]byte(tt.input), &opts)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, opts.Only)
		})
	}
}

func TestPathList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected PathList
		wantErr  bool
	}{
		{
			name:     "single string",
			input:    `{"except": "age"}`,
			expected: PathList{"age"},
		},
		{
			name:     "array",
			input:    `{"except": ["age", "email"]}`,
			expected: PathList{"age", "email"},
		},
		{
			name:    "number is rejected",
			input:   `{"except": 1}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts Options
			err := json.Unmarshal([]byte(tt.input), &opts)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, opts.Except)
		})
	}
}

func testRequest(query url.Values) *Request {
	if query == nil {
		query = url.Values{}
	}
	return &Request{
		App:   struct{}{},
		Get:   func(string) string { return "" },
		Query: query,
	}
}

func TestMergeCriteria(t *testing.T) {
	tests := []struct {
		name        string
		query       url.Values
		opts        *Options
		wantOnly    []string
		wantEnabled bool
		wantExcept  []string
	}{
		{
			name:        "no criteria",
			opts:        &Options{},
			wantOnly:    nil,
			wantEnabled: false,
			wantExcept:  []string{},
		},
		{
			name:        "nil options",
			opts:        nil,
			wantEnabled: false,
			wantExcept:  []string{},
		},
		{
			name:        "only from options",
			opts:        &Options{Only: PathList{"first", "last"}},
			wantOnly:    []string{"first", "last"},
			wantEnabled: true,
			wantExcept:  []string{},
		},
		{
			name:        "only from query",
			query:       url.Values{"only": {"first"}},
			opts:        &Options{},
			wantOnly:    []string{"first"},
			wantEnabled: true,
			wantExcept:  []string{},
		},
		{
			name:        "only intersection when both present",
			query:       url.Values{"only": {"first"}},
			opts:        &Options{Only: PathList{"first", "last"}},
			wantOnly:    []string{"first"},
			wantEnabled: true,
			wantExcept:  []string{},
		},
		{
			name:        "empty intersection stays enabled",
			query:       url.Values{"only": {"email"}},
			opts:        &Options{Only: PathList{"first", "last"}},
			wantOnly:    []string{},
			wantEnabled: true,
			wantExcept:  []string{},
		},
		{
			name:       "except union deduplicates",
			query:      url.Values{"except": {"age", "email"}},
			opts:       &Options{Except: PathList{"age", "email"}},
			wantExcept: []string{"age", "email"},
		},
		{
			name:       "except from both sources",
			query:      url.Values{"except": {"email"}},
			opts:       &Options{Except: PathList{"age"}},
			wantExcept: []string{"age", "email"},
		},
		{
			name:        "empty entries are compacted",
			query:       url.Values{"only": {"", "first"}, "except": {""}},
			opts:        &Options{Except: PathList{""}},
			wantOnly:    []string{"first"},
			wantEnabled: true,
			wantExcept:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crit := mergeCriteria(testRequest(tt.query), tt.opts)
			assert.Equal(t, tt.wantEnabled, crit.onlyEnabled)
			if tt.wantEnabled {
				assert.Equal(t, tt.wantOnly, crit.only)
			} else {
				assert.Empty(t, crit.only)
			}
			assert.Equal(t, tt.wantExcept, crit.except)
		})
	}
}

func TestUnionAndIntersect(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, union([]string{"a", "b"}, []string{"b", "c"}))
	assert.Equal(t, []string{}, union(nil, nil))
	assert.Equal(t, []string{"b"}, intersect([]string{"a", "b"}, []string{"b", "c"}))
	assert.Equal(t, []string{}, intersect([]string{"a"}, []string{"b"}))
}
