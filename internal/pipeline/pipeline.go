// Package pipeline runs one assembly of the Needs, Provisions and Outcomes
// section: classify, synthesize per category in parallel, reconcile shared
// outcomes, render and validate.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/npo/internal/cache"
	"github.com/ppiankov/npo/internal/extract"
	"github.com/ppiankov/npo/internal/linkage"
	"github.com/ppiankov/npo/internal/model"
	"github.com/ppiankov/npo/internal/override"
	"github.com/ppiankov/npo/internal/render"
	"github.com/ppiankov/npo/internal/socialcare"
	"github.com/ppiankov/npo/internal/synth"
	"github.com/ppiankov/npo/internal/taxonomy"
	"github.com/ppiankov/npo/internal/validate"
)

// Pipeline orchestrates the complete assembly process
type Pipeline struct {
	resolver  *taxonomy.Resolver
	curator   *extract.StrengthCurator
	engine    *synth.Engine
	overrides *override.Engine
	splitter  *socialcare.Splitter
	validator *validate.Validator
	renderer  *render.Renderer
	cache     cache.Cache // Optional result cache (nil if disabled)
	config    *model.Config
	logger    *zap.Logger
}

// NewPipeline compiles the rule tables of cfg. A nil logger disables logging.
func NewPipeline(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rules := cfg.Rules

	resolver, err := taxonomy.NewResolver(rules.Taxonomy, rules.Disambiguation)
	if err != nil {
		return nil, fmt.Errorf("taxonomy rules: %w", err)
	}
	curator, err := extract.NewStrengthCurator(rules.Strengths)
	if err != nil {
		return nil, fmt.Errorf("strength rules: %w", err)
	}
	overrides, err := override.NewEngine(rules.Overrides)
	if err != nil {
		return nil, fmt.Errorf("override rules: %w", err)
	}

	var resultCache cache.Cache
	if cfg.Cache.Enabled {
		resultCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}

	engine := synth.NewEngine()
	return &Pipeline{
		resolver:  resolver,
		curator:   curator,
		engine:    engine,
		overrides: overrides,
		splitter:  socialcare.NewSplitter(rules.Statutory, engine),
		validator: validate.NewValidator(rules),
		renderer:  render.NewRenderer(true),
		cache:     resultCache,
		config:    cfg,
		logger:    logger,
	}, nil
}

// Result is the outcome of one run. Failures and findings are separate
// channels: a failure aborted a category, a finding is advisory or gating
// but never stops the artifact from being returned.
type Result struct {
	RunID    string                   `json:"run_id"`
	Artifact *model.SectionArtifact   `json:"artifact"`
	Markdown string                   `json:"markdown"`
	Findings model.Findings           `json:"findings"`
	Failures map[model.Category]error `json:"-"`
	Unrouted []error                  `json:"-"`
	Cached   bool                     `json:"cached"`
}

// Err joins the category failures in category order, or returns nil
func (r *Result) Err() error {
	var errs []error
	for _, c := range model.Categories() {
		if err, ok := r.Failures[c]; ok {
			errs = append(errs, fmt.Errorf("%s: %w", c.Title(), err))
		}
	}
	return errors.Join(errs...)
}

// cluster is one professional observation: the fragments sharing a need key
type cluster struct {
	key       string
	fragments []model.SourceFragment
}

// bucket collects what the resolver routed to one category
type bucket struct {
	clusters  []cluster
	strengths []model.SourceFragment
	errs      []error
}

// Assemble runs the pipeline over a fixed corpus
func (p *Pipeline) Assemble(ctx context.Context, corpus *model.Corpus) (*Result, error) {
	if corpus == nil {
		return nil, errors.New("assemble: corpus is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}
	runID := uuid.NewString()
	log := p.logger.With(zap.String("run_id", runID), zap.String("subject", corpus.Subject.Name))

	key, err := p.cacheKey(corpus)
	if err != nil {
		return nil, err
	}
	if cached, ok := p.lookup(key); ok {
		log.Debug("cache hit", zap.String("key", key))
		cached.RunID = runID
		return cached, nil
	}

	result := &Result{
		RunID:    runID,
		Artifact: model.NewSectionArtifact(corpus.Subject),
		Failures: make(map[model.Category]error),
	}

	// 1. Route every observation and strength to one category
	var buckets [model.CategoryCount]bucket
	for _, cl := range clusterFragments(corpus.Fragments) {
		p.route(&buckets, cl, result)
	}

	// 2. Categories are independent; the group is the barrier before dedup
	var blocks [model.CategoryCount]model.CategoryBlock
	var failures [model.CategoryCount]error
	var g errgroup.Group
	for _, c := range model.Categories() {
		c := c
		g.Go(func() error {
			blocks[c], failures[c] = p.assembleCategory(c, &buckets[c], corpus.Subject)
			return nil
		})
	}
	_ = g.Wait()

	for _, c := range model.Categories() {
		*result.Artifact.Block(c) = blocks[c]
		if failures[c] != nil {
			result.Failures[c] = failures[c]
			log.Warn("category failed", zap.Stringer("category", c), zap.Error(failures[c]))
			continue
		}
		log.Info("category assembled",
			zap.Stringer("category", c),
			zap.Stringer("mode", blocks[c].Mode),
			zap.Int("needs", len(blocks[c].Triples)),
			zap.Int("strengths", len(blocks[c].Strengths.Statements)),
		)
	}

	// 3. Shared outcomes take one wording across categories
	for _, m := range linkage.DedupOutcomes(result.Artifact) {
		log.Debug("outcome reconciled", zap.Stringer("outcome", m.Outcome), zap.Stringer("canonical", m.Canonical))
	}

	// 4. Render and check
	result.Markdown = p.renderer.Markdown(result.Artifact)
	result.Findings = p.validator.Validate(result.Artifact, corpus)
	log.Info("section assembled",
		zap.Int("critical", result.Findings.Count(model.SeverityCritical)),
		zap.Int("standard", result.Findings.Count(model.SeverityStandard)),
		zap.Int("failed_categories", len(result.Failures)),
		zap.Int("unrouted", len(result.Unrouted)),
	)

	p.store(key, result)
	return result, nil
}

// clusterFragments groups fragments by need key in first-appearance order.
// Fragments without a key, and every strength, stand alone.
func clusterFragments(fragments []model.SourceFragment) []cluster {
	var clusters []cluster
	index := make(map[string]int)
	for _, f := range fragments {
		key := strings.TrimSpace(f.Need)
		if f.Kind == model.KindStrength || key == "" {
			clusters = append(clusters, cluster{key: f.ID, fragments: []model.SourceFragment{f}})
			continue
		}
		if i, ok := index[key]; ok {
			clusters[i].fragments = append(clusters[i].fragments, f)
			continue
		}
		index[key] = len(clusters)
		clusters = append(clusters, cluster{key: key, fragments: []model.SourceFragment{f}})
	}
	return clusters
}

// route resolves one cluster. An ambiguous cluster fails every candidate
// category rather than being duplicated into them.
func (p *Pipeline) route(buckets *[model.CategoryCount]bucket, cl cluster, result *Result) {
	category, err := p.resolver.Resolve(cl.key, cl.fragments)

	var ambiguous *model.AmbiguousCategoryError
	switch {
	case errors.As(err, &ambiguous):
		for _, c := range ambiguous.Candidates {
			buckets[c].errs = append(buckets[c].errs, err)
			buckets[c].clusters = append(buckets[c].clusters, cl)
		}
		return
	case err != nil:
		result.Unrouted = append(result.Unrouted, err)
		p.logger.Debug("fragment not routed", zap.String("cluster", cl.key), zap.Error(err))
		return
	}

	b := &buckets[category]
	if len(cl.fragments) == 1 && cl.fragments[0].Kind == model.KindStrength {
		b.strengths = append(b.strengths, cl.fragments[0])
		return
	}
	b.clusters = append(b.clusters, cl)
}

// assembleCategory takes one category through the normal or override path.
// On failure the block keeps only its fragment count and the failure text.
func (p *Pipeline) assembleCategory(c model.Category, b *bucket, subject model.Subject) (model.CategoryBlock, error) {
	var all []model.SourceFragment
	all = append(all, b.strengths...)
	for _, cl := range b.clusters {
		all = append(all, cl.fragments...)
	}
	count := len(all)

	fail := func(err error) (model.CategoryBlock, error) {
		return model.CategoryBlock{Category: c, Fragments: count, Failure: err.Error()}, err
	}
	if len(b.errs) > 0 {
		return fail(errors.Join(b.errs...))
	}

	block := model.CategoryBlock{
		Category:  c,
		Fragments: count,
		Strengths: p.curator.Curate(b.strengths),
	}

	activation, err := p.overrides.Evaluate(c, all, subject)
	if err != nil {
		return fail(err)
	}

	var candidates []model.Triple
	if activation != nil {
		block.Mode = model.ModeOverridden
		block.Directive = activation.Directive
		candidates = []model.Triple{activation.Triple()}
	} else {
		for _, cl := range b.clusters {
			if triple, ok := p.synthesize(c, cl); ok {
				candidates = append(candidates, triple)
			} else {
				p.logger.Warn("observation without a need statement skipped", zap.Stringer("category", c), zap.String("cluster", cl.key))
			}
		}
	}

	if err := linkage.Number(&block, candidates); err != nil {
		return fail(err)
	}
	return block, nil
}

// synthesize builds the candidate triple of one observation
func (p *Pipeline) synthesize(c model.Category, cl cluster) (model.Triple, bool) {
	var needs, provisions, outcomes []model.SourceFragment
	for _, f := range cl.fragments {
		switch f.Kind {
		case model.KindNeed:
			needs = append(needs, f)
		case model.KindProvision:
			provisions = append(provisions, f)
		case model.KindOutcome:
			outcomes = append(outcomes, f)
		}
	}

	description := p.engine.Synthesize(needs)
	if description.IsEmpty() {
		return model.Triple{}, false
	}
	triple := model.Triple{Need: model.NeedEntry{Key: cl.key, Description: description}}

	if c == model.SocialCare {
		triple.Provision = p.splitter.Split(provisions)
	} else if text := p.engine.Synthesize(provisions); !text.IsEmpty() {
		triple.Provision = &model.ProvisionEntry{Text: text}
	}

	if text := p.engine.Synthesize(outcomes); !text.IsEmpty() {
		triple.Outcome = &model.OutcomeEntry{Key: recommendationKey(outcomes), Text: text}
	}
	return triple, true
}

// recommendationKey identifies an outcome across categories by the sorted
// recommendation keys of its fragments
func recommendationKey(fragments []model.SourceFragment) string {
	var keys []string
	seen := make(map[string]bool)
	for _, f := range fragments {
		if k := strings.TrimSpace(f.Recommendation); k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return strings.Join(keys, "|")
}

// cached is the persisted part of a clean result
type cached struct {
	Artifact *model.SectionArtifact `json:"artifact"`
	Markdown string                 `json:"markdown"`
	Findings model.Findings         `json:"findings"`
}

func (p *Pipeline) cacheKey(corpus *model.Corpus) (string, error) {
	if p.cache == nil {
		return "", nil
	}
	input, err := json.Marshal(corpus)
	if err != nil {
		return "", fmt.Errorf("hash corpus: %w", err)
	}
	rules, err := json.Marshal(p.config.Rules)
	if err != nil {
		return "", fmt.Errorf("hash rules: %w", err)
	}
	return cache.CacheKey(input, rules), nil
}

func (p *Pipeline) lookup(key string) (*Result, bool) {
	if p.cache == nil {
		return nil, false
	}
	data, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}
	var entry cached
	if err := json.Unmarshal(data, &entry); err != nil || entry.Artifact == nil {
		return nil, false
	}
	return &Result{
		Artifact: entry.Artifact,
		Markdown: entry.Markdown,
		Findings: entry.Findings,
		Failures: make(map[model.Category]error),
		Cached:   true,
	}, true
}

// store caches results without failures; failures carry typed errors that
// do not survive serialisation
func (p *Pipeline) store(key string, r *Result) {
	if p.cache == nil || len(r.Failures) > 0 || len(r.Unrouted) > 0 {
		return
	}
	data, err := json.Marshal(cached{Artifact: r.Artifact, Markdown: r.Markdown, Findings: r.Findings})
	if err != nil {
		p.logger.Warn("cache encode failed", zap.Error(err))
		return
	}
	if err := p.cache.Set(key, data, 0); err != nil {
		p.logger.Warn("cache write failed", zap.Error(err))
	}
}
