package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"veena-assistant-be/internal/pkg/logger"
	"veena-assistant-be/pkg/embedding"
	"veena-assistant-be/pkg/rag/dialog"
	"veena-assistant-be/pkg/rag/rebuttal"
	"veena-assistant-be/pkg/rag/search"

	"gopkg.in/yaml.v3"
)

const moduleName = "KNOWLEDGE"

var ErrNotLoaded = errors.New("knowledge not loaded")

type Sources struct {
	Dir           string
	FaqFile       string
	DialogFile    string
	RebuttalsFile string
	Root          dialog.NodeID
}

func (s Sources) path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Files lists the watched file names.
func (s Sources) Files() []string {
	return []string{s.FaqFile, s.DialogFile, s.RebuttalsFile}
}

// Knowledge is one consistent snapshot of the static data. It is never
// mutated after publication.
type Knowledge struct {
	Tree      *dialog.Tree
	Rebuttals *rebuttal.Matcher
	FAQ       *search.Index
	LoadedAt  time.Time
}

type faqEntry struct {
	Text string `json:"text" yaml:"text"`
}

// Registry owns the live Knowledge and rebuilds it on demand.
type Registry struct {
	sources  Sources
	encoder  embedding.EmbeddingProvider
	newStore func() search.VectorStore
	logger   logger.ILogger

	loadMu  sync.Mutex
	current atomic.Pointer[Knowledge]
}

// NewRegistry needs newStore to hand out the vector store each load writes to.
// Stores that are shared between loads must replace their rows atomically.
func NewRegistry(sources Sources, encoder embedding.EmbeddingProvider, newStore func() search.VectorStore, log logger.ILogger) *Registry {
	return &Registry{
		sources:  sources,
		encoder:  encoder,
		newStore: newStore,
		logger:   log,
	}
}

func (r *Registry) Current() (*Knowledge, error) {
	k := r.current.Load()
	if k == nil {
		return nil, ErrNotLoaded
	}
	return k, nil
}

func (r *Registry) Sources() Sources {
	return r.sources
}

// Load reads all three files, builds a full snapshot and publishes it.
// On any failure the previous snapshot stays live.
func (r *Registry) Load(ctx context.Context) (*Knowledge, error) {
	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	start := time.Now()

	tree, err := r.loadTree()
	if err != nil {
		return nil, r.fail(err)
	}
	rules, err := r.loadRebuttals()
	if err != nil {
		return nil, r.fail(err)
	}
	entries, err := r.loadFAQ()
	if err != nil {
		return nil, r.fail(err)
	}

	// The FAQ goes last: it is the only step that writes to a store.
	index, err := search.Build(ctx, r.encoder, r.newStore(), entries)
	if err != nil {
		return nil, r.fail(fmt.Errorf("build faq index: %w", err))
	}

	k := &Knowledge{
		Tree:      tree,
		Rebuttals: rebuttal.NewMatcher(rules),
		FAQ:       index,
		LoadedAt:  time.Now(),
	}
	r.current.Store(k)

	r.logger.Info(moduleName, "Knowledge loaded", map[string]interface{}{
		"faq_entries":  index.Len(),
		"dialog_nodes": tree.Len(),
		"rebuttals":    k.Rebuttals.Len(),
		"encoder":      index.Model(),
		"duration_ms":  time.Since(start).Milliseconds(),
	})
	return k, nil
}

func (r *Registry) fail(err error) error {
	r.logger.Error(moduleName, "Knowledge load failed", map[string]interface{}{
		"error":     err.Error(),
		"keeps_old": r.current.Load() != nil,
		"data_dir":  r.sources.Dir,
	})
	return err
}

func (r *Registry) loadTree() (*dialog.Tree, error) {
	name := r.sources.path(r.sources.DialogFile)
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read dialog tree: %w", err)
	}
	return dialog.Parse(name, data, r.sources.Root)
}

func (r *Registry) loadRebuttals() ([]rebuttal.Rule, error) {
	var rules []rebuttal.Rule
	if err := decodeFile(r.sources.path(r.sources.RebuttalsFile), &rules); err != nil {
		return nil, fmt.Errorf("read rebuttals: %w", err)
	}
	return rules, nil
}

func (r *Registry) loadFAQ() ([]string, error) {
	var raw []faqEntry
	if err := decodeFile(r.sources.path(r.sources.FaqFile), &raw); err != nil {
		return nil, fmt.Errorf("read faq corpus: %w", err)
	}
	entries := make([]string, 0, len(raw))
	for _, e := range raw {
		entries = append(entries, e.Text)
	}
	return entries, nil
}

func decodeFile(name string, out interface{}) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, out)
	default:
		err = json.Unmarshal(data, out)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}
