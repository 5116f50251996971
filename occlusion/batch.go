package occlusion

import (
	"context"

	"github.com/golang/geo/r3"

	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/bvh"
	"github.com/Caliverx2/Rougelike-LWJGL-Demo-sub000/utils"
)

// Query is one any-hit ray query.
type Query struct {
	Origin  r3.Vector
	Dir     r3.Vector
	MaxDist float64
	Ignore  bvh.Ignore
}

// IntersectBatch runs every query against one snapshot on the shared worker groups and
// blocks until all are done. The context is only consulted before each group starts; once
// started, a query runs to completion.
func (t *Tester) IntersectBatch(ctx context.Context, queries []Query) ([]bool, error) {
	results := make([]bool, len(queries))
	if len(queries) == 0 {
		return results, nil
	}
	snap := t.index.Snapshot()
	err := utils.GroupWorkParallel(ctx, len(queries),
		func(numGroups int) {},
		func(groupNum, groupSize, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
			return func(memberNum, workNum int) {
				q := queries[workNum]
				results[workNum] = snap.Intersect(q.Origin, q.Dir, q.MaxDist, q.Ignore)
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return results, nil
}
