// Package orchestrator implements §5's concurrency model literally:
// sharding a compiled span-query tree across segments, running one
// Spans iterator tree per segment on its own goroutine, and merging
// results while respecting context cancellation.
package orchestrator

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"corpussearch/blacklab/internal/spans"
)

// SegmentHit is one match, tagged with the segment it came from so
// results merged across segments stay attributable.
type SegmentHit struct {
	SegmentID string
	Doc       int32
	Start     int
	End       int
}

// Shard pairs one segment with the Segment view a Node needs to build
// its Spans iterator there.
type Shard struct {
	ID  string
	Seg spans.Segment
}

// Run fans query out across shards, one goroutine each, collecting
// every hit from every segment's own iterator tree. The first
// goroutine to fail cancels the group (errgroup.WithContext's standard
// behavior); every other goroutine observes ctx.Done() the next time it
// polls between iterator calls, per §5's "every outer loop polls a
// cancellation token between iterator calls."
func Run(ctx context.Context, query spans.Node, shards []Shard) ([]SegmentHit, error) {
	query, err := query.Rewrite()
	if err != nil {
		return nil, err
	}

	group, ctx := errgroup.WithContext(ctx)
	results := make([][]SegmentHit, len(shards))

	for i, shard := range shards {
		i, shard := i, shard
		group.Go(func() error {
			start := time.Now()
			hits, err := runShard(ctx, query, shard)
			duration := time.Since(start).Seconds()
			if err != nil {
				if err == context.Canceled || err == context.DeadlineExceeded {
					segmentQueryCancelledTotal.Inc()
				}
				return err
			}
			segmentQueryDurationSeconds.Observe(duration)
			results[i] = hits
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	var all []SegmentHit
	for _, hits := range results {
		all = append(all, hits...)
	}
	return all, nil
}

func runShard(ctx context.Context, query spans.Node, shard Shard) ([]SegmentHit, error) {
	sp, err := query.SpansForSegment(shard.Seg)
	if err != nil {
		return nil, err
	}

	var hits []SegmentHit
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := sp.NextDoc()
		if err != nil {
			return nil, err
		}
		if doc == spans.NoMoreDocs {
			return hits, nil
		}
		for {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			start, err := sp.NextStartPosition()
			if err != nil {
				return nil, err
			}
			if start == spans.NoMorePositions {
				break
			}
			hits = append(hits, SegmentHit{SegmentID: shard.ID, Doc: int32(doc), Start: start, End: sp.End()})
		}
	}
}
