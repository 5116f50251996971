package utils

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.viam.com/test"
	gutils "go.viam.com/utils"
)

func TestRunInParallel(t *testing.T) {
	wait100ms := func(ctx context.Context) error {
		gutils.SelectContextOrWait(ctx, 100*time.Millisecond)
		return ctx.Err()
	}

	elapsed, err := RunInParallel(context.Background(), []SimpleFunc{wait100ms, wait100ms})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, elapsed, test.ShouldBeLessThan, 150*time.Millisecond)
	test.That(t, elapsed, test.ShouldBeGreaterThan, 90*time.Millisecond)

	errFunc := func(ctx context.Context) error {
		return errors.New("bad")
	}

	elapsed, err = RunInParallel(context.Background(), []SimpleFunc{wait100ms, wait100ms, errFunc})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, elapsed, test.ShouldBeLessThan, 50*time.Millisecond)

	panicFunc := func(ctx context.Context) error {
		panic(1)
	}

	_, err = RunInParallel(context.Background(), []SimpleFunc{panicFunc})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestGroupWorkParallel(t *testing.T) {
	for _, total := range []int{0, 1, ParallelFactor - 1, ParallelFactor, 3*ParallelFactor + 2, 1000} {
		seen := make([]int32, total)
		var groups int
		err := GroupWorkParallel(context.Background(), total,
			func(numGroups int) { groups = numGroups },
			func(groupNum, groupSize, from, to int) (MemberWorkFunc, GroupWorkDoneFunc) {
				return func(memberNum, workNum int) {
					atomic.AddInt32(&seen[workNum], 1)
				}, nil
			})
		test.That(t, err, test.ShouldBeNil)
		test.That(t, groups, test.ShouldEqual, ParallelFactor)
		for _, count := range seen {
			test.That(t, count, test.ShouldEqual, 1)
		}
	}

	t.Run("cancelled before start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var ran atomic.Int32
		err := GroupWorkParallel(ctx, 10, nil, func(groupNum, groupSize, from, to int) (MemberWorkFunc, GroupWorkDoneFunc) {
			ran.Add(1)
			return nil, nil
		})
		test.That(t, errors.Is(err, context.Canceled), test.ShouldBeTrue)
		test.That(t, ran.Load(), test.ShouldEqual, 0)
	})

	t.Run("panic is an error", func(t *testing.T) {
		err := GroupWorkParallel(context.Background(), 4, nil, func(groupNum, groupSize, from, to int) (MemberWorkFunc, GroupWorkDoneFunc) {
			if groupNum == 0 {
				panic("boom")
			}
			return nil, nil
		})
		test.That(t, err, test.ShouldNotBeNil)
		test.That(t, err.Error(), test.ShouldContainSubstring, "boom")
	})
}

func TestMathHelpers(t *testing.T) {
	test.That(t, DegToRad(180), test.ShouldAlmostEqual, 3.141592653589793)
	test.That(t, RadToDeg(DegToRad(56)), test.ShouldAlmostEqual, 56.)
	test.That(t, Float64AlmostEqual(1, 1+1e-10, Epsilon), test.ShouldBeTrue)
	test.That(t, Clamp(5, 0, 1), test.ShouldEqual, 1.)
	test.That(t, Clamp(-5, 0, 1), test.ShouldEqual, 0.)
	test.That(t, Square(3), test.ShouldEqual, 9.)
	test.That(t, IsFinite(1), test.ShouldBeTrue)
}

func TestConfigValidationErrors(t *testing.T) {
	err := NewConfigValidationFieldRequiredError("player", "leg_height")
	test.That(t, err.Error(), test.ShouldContainSubstring, `"player"`)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"leg_height" is required`)

	err = NewConfigValidationFieldRangeError("world", "cell_size", -1., "positive")
	test.That(t, err.Error(), test.ShouldContainSubstring, "must be positive, got -1")
}
