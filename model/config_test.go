package model_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frankiem-4/Metron/model"
)

func TestLoadConfig(t *testing.T) {
	data := []byte("search_paths:\n  - /a\n  - /b\nstrict: true\n")
	cfg, err := model.LoadConfig(data)

	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b"}, cfg.SearchPaths)
	assert.True(t, cfg.Strict)
}

func TestLoadConfig_EmptyInputYieldsZeroValue(t *testing.T) {
	cfg, err := model.LoadConfig(nil)

	require.NoError(t, err)
	assert.Empty(t, cfg.SearchPaths)
	assert.False(t, cfg.Strict)
}

func TestNewLibraryFromConfig_AppliesSearchPathsAndStrictMode(t *testing.T) {
	cfg := &model.Config{SearchPaths: []string{"/lib"}, Strict: true}
	lib := model.NewLibraryFromConfig(cfg, &fakeReader{files: map[string][]byte{"x.h": []byte("x")}}, &fakeParser{}, noopDiscoverer{})

	assert.Equal(t, []string{"/lib"}, lib.SearchPaths)
	assert.True(t, lib.Strict)

	bag := lib.Load(context.Background(), nil, "x.h")
	bag.Merge(lib.Load(context.Background(), nil, "x.h"))

	require.True(t, bag.HasErrors())
	var sawFatalDuplicate bool
	for _, d := range bag.All() {
		if d.Code == "E_DUPLICATE_LOAD" {
			sawFatalDuplicate = true
		}
	}
	assert.True(t, sawFatalDuplicate)
}
