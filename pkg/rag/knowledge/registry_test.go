package knowledge

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"veena-assistant-be/internal/pkg/logger"
	"veena-assistant-be/pkg/embedding/local"
	"veena-assistant-be/pkg/rag/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	faqJSON = `[
		{"text": "Premiums can be paid monthly, quarterly or yearly."},
		{"text": "The grace period for premium payment is 30 days."},
		{"text": "You can update your nominee online."}
	]`
	dialogJSON = `[
		{"id": "1.0", "title": "Greeting", "veena_prompt": {"en": "Hello {policy_holder_name}"}, "next": {"yes": "2.0"}},
		{"id": "2.0", "title": "Premium reminder", "prompts": {"en": "Your premium is due."}}
	]`
	rebuttalsJSON = `[
		{"objection": "don't trust", "rebuttal": "We are regulated by IRDAI."},
		{"objection": "no money", "rebuttal": {"en": "We have flexible plans.", "hi": "हमारे पास लचीले प्लान हैं।"}}
	]`
)

func writeData(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
}

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	dir := t.TempDir()
	writeData(t, dir, map[string]string{
		"intent_data.json": faqJSON,
		"dialog_tree.json": dialogJSON,
		"rebuttals.json":   rebuttalsJSON,
	})
	sources := Sources{
		Dir:           dir,
		FaqFile:       "intent_data.json",
		DialogFile:    "dialog_tree.json",
		RebuttalsFile: "rebuttals.json",
		Root:          "1.0",
	}
	newStore := func() search.VectorStore { return search.NewFlatStore() }
	return NewRegistry(sources, local.NewHashingProvider(local.DefaultDimension), newStore, logger.NewNopLogger()), dir
}

func TestCurrentBeforeLoad(t *testing.T) {
	r, _ := newTestRegistry(t)
	_, err := r.Current()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestLoadBuildsSnapshot(t *testing.T) {
	r, _ := newTestRegistry(t)

	k, err := r.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, k.FAQ.Len())
	assert.Equal(t, 2, k.Tree.Len())
	assert.Equal(t, 2, k.Rebuttals.Len())

	hits, err := k.FAQ.Search(context.Background(), "grace period for payment", 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "The grace period for premium payment is 30 days.", hits[0])

	current, err := r.Current()
	require.NoError(t, err)
	assert.Same(t, k, current)
}

func TestFailedReloadKeepsPreviousSnapshot(t *testing.T) {
	r, dir := newTestRegistry(t)
	first, err := r.Load(context.Background())
	require.NoError(t, err)

	writeData(t, dir, map[string]string{"dialog_tree.json": `[{"id": "9.9", "title": "Orphan"}]`})
	_, err = r.Load(context.Background())
	require.Error(t, err)

	current, err := r.Current()
	require.NoError(t, err)
	assert.Same(t, first, current)
}

func TestFirstLoadFailsOnBrokenFile(t *testing.T) {
	r, dir := newTestRegistry(t)
	writeData(t, dir, map[string]string{"rebuttals.json": `{"objection": `})

	_, err := r.Load(context.Background())
	require.Error(t, err)
	_, err = r.Current()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestLoadReadsYAML(t *testing.T) {
	r, dir := newTestRegistry(t)
	writeData(t, dir, map[string]string{"rebuttals.yaml": "- objection: call later\n  rebuttal: Sure.\n"})
	r.sources.RebuttalsFile = "rebuttals.yaml"

	k, err := r.Load(context.Background())
	require.NoError(t, err)
	rule, ok := k.Rebuttals.Match("please call later")
	require.True(t, ok)
	assert.Equal(t, "Sure.", rule.Reply.Resolve("en"))
}

func TestWatcherReloadsOnChange(t *testing.T) {
	r, dir := newTestRegistry(t)
	first, err := r.Load(context.Background())
	require.NoError(t, err)

	w, err := NewWatcher(r, 20*time.Millisecond)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	writeData(t, dir, map[string]string{"intent_data.json": `[{"text": "Only one entry now."}]`})

	assert.Eventually(t, func() bool {
		k, err := r.Current()
		return err == nil && k != first && k.FAQ.Len() == 1
	}, 3*time.Second, 20*time.Millisecond)
}
