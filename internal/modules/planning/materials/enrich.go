package materials

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
)

// TopicFunc picks the search topic for a task.
type TopicFunc func(day *domain.DaySchedule, task *domain.Task) string

// Enrich fills related and review materials on every task of plan. Links
// already on a task survive only if they pass the placeholder filter; an
// empty list afterwards is replaced by resolved materials. Each distinct
// topic is resolved once.
func (r *Resolver) Enrich(ctx context.Context, plan *domain.Plan, topic TopicFunc) {
	if plan == nil {
		return
	}
	topics := map[string]struct{}{}
	plan.ForEachTask(func(day *domain.DaySchedule, task *domain.Task) {
		task.RelatedMaterials = Filter(task.RelatedMaterials)
		task.ReviewMaterials = Filter(task.ReviewMaterials)
		if len(task.RelatedMaterials) == 0 || len(task.ReviewMaterials) == 0 {
			topics[strings.TrimSpace(topic(day, task))] = struct{}{}
		}
	})
	if len(topics) == 0 {
		return
	}

	var mu sync.Mutex
	resolved := make(map[string]Result, len(topics))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for t := range topics {
		g.Go(func() error {
			res := r.Resolve(gctx, t)
			mu.Lock()
			resolved[t] = res
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	plan.ForEachTask(func(day *domain.DaySchedule, task *domain.Task) {
		res, ok := resolved[strings.TrimSpace(topic(day, task))]
		if !ok {
			return
		}
		if len(task.RelatedMaterials) == 0 {
			task.RelatedMaterials = append([]domain.Material(nil), res.Related...)
		}
		if len(task.ReviewMaterials) == 0 {
			task.ReviewMaterials = append([]domain.Material(nil), res.Review...)
		}
	})
}
