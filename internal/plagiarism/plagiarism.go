package plagiarism

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Comparison is the similarity of one target/reference pair.
type Comparison struct {
	TargetPath    string
	ReferencePath string
	Similarity    float64
}

// FileResult holds the best similarity of one target file against the corpus.
type FileResult struct {
	TargetPath    string
	MaxSimilarity float64
	// BestMatch is the reference that produced MaxSimilarity; empty when every score is 0.
	BestMatch string
}

// RunSummary is the outcome of the scoring phase.
type RunSummary struct {
	AverageSimilarity float64
	TotalFiles        int
	ReferenceFiles    int
	VocabularySize    int
	PairsScored       int
	Elapsed           time.Duration
	Files             []FileResult
}

func (s *RunSummary) ElapsedSeconds() float64 {
	return s.Elapsed.Seconds()
}

// EngineOptions configures an Engine. The callbacks may be invoked from
// several goroutines at once when the engine has a worker pool.
type EngineOptions struct {
	MinTokenLength int
	OnComparison   func(Comparison)
	OnFileResult   func(FileResult)
}

// Engine compares every target file against every reference file.
type Engine struct {
	pool *WorkerPool
	opts EngineOptions
	now  func() time.Time
}

// NewEngine creates an engine. With a nil pool targets are scored sequentially.
func NewEngine(pool *WorkerPool, opts EngineOptions) *Engine {
	return &Engine{
		pool: pool,
		opts: opts,
		now:  time.Now,
	}
}

type vectorized struct {
	path   string
	vector CountVector
}

// Analyze fits the vocabulary on target, vectorizes both sets and returns the
// per-file maxima and their average. When run is not nil it is advanced
// through PhaseFit and PhaseScore.
func (e *Engine) Analyze(ctx context.Context, run *Run, target, reference []Document) (*RunSummary, error) {
	if len(target) == 0 {
		return nil, fmt.Errorf("%w: target set is empty after filtering", ErrNoTargetData)
	}
	if len(reference) == 0 {
		return nil, fmt.Errorf("%w: reference corpus is empty after filtering", ErrNoReferenceData)
	}

	if err := advance(run, PhaseFit); err != nil {
		return nil, err
	}

	vocabulary := NewVocabulary(e.opts.MinTokenLength)
	sequences := make([][]string, len(target))
	for i, doc := range target {
		sequences[i] = doc.Tokens
	}
	if err := vocabulary.Fit(sequences); err != nil {
		return nil, err
	}

	targetVectors, err := vectorize(vocabulary, target)
	if err != nil {
		return nil, err
	}
	referenceVectors, err := vectorize(vocabulary, reference)
	if err != nil {
		return nil, err
	}

	if err := advance(run, PhaseScore); err != nil {
		return nil, err
	}

	start := e.now()
	var results []FileResult
	if e.pool == nil {
		results, err = e.scoreSequentially(ctx, targetVectors, referenceVectors)
	} else {
		results, err = e.scoreConcurrently(ctx, targetVectors, referenceVectors)
	}
	if err != nil {
		return nil, err
	}
	elapsed := e.now().Sub(start)

	sum := 0.0
	for _, result := range results {
		sum += result.MaxSimilarity
	}

	return &RunSummary{
		AverageSimilarity: sum / float64(len(results)),
		TotalFiles:        len(results),
		ReferenceFiles:    len(referenceVectors),
		VocabularySize:    vocabulary.Size(),
		PairsScored:       len(targetVectors) * len(referenceVectors),
		Elapsed:           elapsed,
		Files:             results,
	}, nil
}

func (e *Engine) scoreSequentially(ctx context.Context, targets, references []vectorized) ([]FileResult, error) {
	results := make([]FileResult, len(targets))
	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results[i] = e.scoreTarget(target, references)
	}
	return results, nil
}

// scoreConcurrently submits one job per target file; each job owns one slot
// of the result slice.
func (e *Engine) scoreConcurrently(ctx context.Context, targets, references []vectorized) ([]FileResult, error) {
	results := make([]FileResult, len(targets))

	var wg sync.WaitGroup
	wg.Add(len(targets))
	for i := range targets {
		job := &scoreJob{
			ctx:        ctx,
			engine:     e,
			slot:       i,
			target:     targets[i],
			references: references,
			results:    results,
			wg:         &wg,
		}
		if err := e.pool.Submit(ctx, job); err != nil {
			// release the jobs that were never queued; queued ones see ctx and skip
			for j := i; j < len(targets); j++ {
				wg.Done()
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("failed to submit scoring job: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		// jobs skip their slot once ctx is done
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return results, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-e.pool.Done():
		return nil, fmt.Errorf("worker pool closed while scoring")
	}
}

func (e *Engine) scoreTarget(target vectorized, references []vectorized) FileResult {
	result := FileResult{TargetPath: target.path}
	for _, reference := range references {
		similarity := Score(target.vector, reference.vector)
		if e.opts.OnComparison != nil {
			e.opts.OnComparison(Comparison{
				TargetPath:    target.path,
				ReferencePath: reference.path,
				Similarity:    similarity,
			})
		}
		if similarity > result.MaxSimilarity {
			result.MaxSimilarity = similarity
			result.BestMatch = reference.path
		}
	}
	if e.opts.OnFileResult != nil {
		e.opts.OnFileResult(result)
	}
	return result
}

// scoreJob scores one target file. ctx belongs to the check, not the pool.
type scoreJob struct {
	ctx        context.Context
	engine     *Engine
	slot       int
	target     vectorized
	references []vectorized
	results    []FileResult
	wg         *sync.WaitGroup
}

func (j *scoreJob) Execute(ctx context.Context) error {
	defer j.wg.Done()
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := j.ctx.Err(); err != nil {
		return err
	}
	j.results[j.slot] = j.engine.scoreTarget(j.target, j.references)
	return nil
}

func vectorize(vocabulary *Vocabulary, docs []Document) ([]vectorized, error) {
	out := make([]vectorized, len(docs))
	for i, doc := range docs {
		vector, err := vocabulary.Transform(doc.Tokens)
		if err != nil {
			return nil, err
		}
		out[i] = vectorized{path: doc.Path, vector: vector}
	}
	return out, nil
}

func advance(run *Run, next Phase) error {
	if run == nil {
		return nil
	}
	return run.Advance(next)
}
