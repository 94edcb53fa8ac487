package scanexec

import (
	"fmt"
	"reflect"

	"github.com/csvquery/memscan/internal/planner"
	"github.com/csvquery/memscan/internal/rle"
)

// ExecuteValidated runs both the planned strategy and the scalar
// baseline over the same input and panics on divergence. It exists
// for debug builds and tests that want to assert a vectorized (or
// vector-shaped) executor never disagrees with the ground truth,
// exactly the invariant the planned strategy's existence promises.
func ExecuteValidated(plan planner.MappedScanParameters, cur, prev []byte, baseAddr uint64) []rle.Filter {
	if plan.Strategy == planner.StrategyBoyerMoore {
		return Execute(plan, cur, prev, baseAddr)
	}
	got := Execute(plan, cur, prev, baseAddr)
	scalarPlan := plan
	scalarPlan.Strategy = planner.StrategyScalar
	want := scanScalar(scalarPlan, cur, prev, baseAddr)
	if !reflect.DeepEqual(got, want) {
		panic(fmt.Sprintf("scanexec: strategy %s diverged from scalar baseline: got %v, want %v", plan.Strategy, got, want))
	}
	return got
}
