package prompts_test

import (
	"socialfeed/prompts"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbedded(t *testing.T) {
	r, err := prompts.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"math_proofs", "project_planning"}, r.Names())

	p, ok := r.Get("math_proofs")
	require.True(t, ok)
	assert.Equal(t, "Helpful prompt for helping me understand and break down math proofs.", p.Description)
	assert.Contains(t, p.Prompt, "**Start of Proof**")
	assert.Contains(t, p.Prompt, "**[Outline]**")

	_, ok = r.Get("does-not-exist")
	assert.False(t, ok)
}

func TestLoadFS(t *testing.T) {
	tests := []struct {
		name    string
		files   fstest.MapFS
		names   []string
		wantErr bool
	}{
		{
			name:  "empty directory",
			files: fstest.MapFS{},
			names: []string{},
		},
		{
			name: "sorted by name",
			files: fstest.MapFS{
				"t/b.toml": {Data: []byte(`name = "zeta"` + "\n" + `prompt = "z"`)},
				"t/a.toml": {Data: []byte(`name = "alpha"` + "\n" + `prompt = "a"`)},
				"t/c.txt":  {Data: []byte(`ignored`)},
			},
			names: []string{"alpha", "zeta"},
		},
		{
			name: "missing name",
			files: fstest.MapFS{
				"t/a.toml": {Data: []byte(`prompt = "a"`)},
			},
			wantErr: true,
		},
		{
			name: "duplicate name",
			files: fstest.MapFS{
				"t/a.toml": {Data: []byte(`name = "same"`)},
				"t/b.toml": {Data: []byte(`name = "same"`)},
			},
			wantErr: true,
		},
		{
			name: "invalid toml",
			files: fstest.MapFS{
				"t/a.toml": {Data: []byte(`name = `)},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := prompts.LoadFS(tt.files, "t")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.names, r.Names())
		})
	}
}
