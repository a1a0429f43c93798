package transform

import (
	"fmt"
	"math"
)

// InfIndex is the sentinel magnitude for unbounded interval endpoints.
// Finite indices lie strictly inside (-InfIndex, InfIndex).
const InfIndex int64 = 1<<62 - 1

// Interval is a half-open integer range [Start, Stop).
// Start == -InfIndex means unbounded below and Stop == InfIndex means
// unbounded above.
type Interval struct {
	Start int64
	Stop  int64
}

// HalfOpen returns [start, stop). A stop below start yields an empty interval.
func HalfOpen(start, stop int64) Interval {
	if stop < start {
		stop = start
	}
	return Interval{Start: start, Stop: stop}
}

// Sized returns [origin, origin+size).
func Sized(origin, size int64) Interval {
	return HalfOpen(origin, AddSaturate(origin, size))
}

// Closed returns the interval containing lo through hi inclusive.
func Closed(lo, hi int64) Interval {
	return HalfOpen(lo, AddSaturate(hi, 1))
}

// Unbounded returns the interval covering every index.
func Unbounded() Interval {
	return Interval{Start: -InfIndex, Stop: InfIndex}
}

// Empty reports whether the interval contains no index.
func (i Interval) Empty() bool { return i.Stop <= i.Start }

// LowerBounded reports whether the interval has a finite start.
func (i Interval) LowerBounded() bool { return i.Start > -InfIndex }

// UpperBounded reports whether the interval has a finite stop.
func (i Interval) UpperBounded() bool { return i.Stop < InfIndex }

// Bounded reports whether both endpoints are finite.
func (i Interval) Bounded() bool { return i.LowerBounded() && i.UpperBounded() }

// Size returns the number of indices in the interval, or InfIndex when the
// interval is unbounded and non-empty.
func (i Interval) Size() int64 {
	if i.Empty() {
		return 0
	}
	if !i.Bounded() {
		return InfIndex
	}
	return i.Stop - i.Start
}

// Last returns the largest index in a non-empty interval.
func (i Interval) Last() int64 { return i.Stop - 1 }

// Contains reports whether v lies in the interval.
func (i Interval) Contains(v int64) bool { return v >= i.Start && v < i.Stop }

// ContainsInterval reports whether o is a subset of i. Empty intervals are
// contained in every interval.
func (i Interval) ContainsInterval(o Interval) bool {
	return o.Empty() || (o.Start >= i.Start && o.Stop <= i.Stop)
}

// Intersect returns the intersection of i and o.
func (i Interval) Intersect(o Interval) Interval {
	return HalfOpen(max(i.Start, o.Start), min(i.Stop, o.Stop))
}

func (i Interval) String() string {
	lo, hi := "-inf", "+inf"
	if i.LowerBounded() {
		lo = fmt.Sprint(i.Start)
	}
	if i.UpperBounded() {
		hi = fmt.Sprint(i.Stop)
	}
	return "[" + lo + ", " + hi + ")"
}

// clamp pins v to the representable index range.
func clamp(v int64) int64 {
	if v > InfIndex {
		return InfIndex
	}
	if v < -InfIndex {
		return -InfIndex
	}
	return v
}

// AddSaturate returns a+b clamped to [-InfIndex, InfIndex].
func AddSaturate(a, b int64) int64 {
	s := a + b
	if (a > 0 && b > 0 && s < 0) || (a > 0 && b > 0 && s > InfIndex) {
		return InfIndex
	}
	if (a < 0 && b < 0 && s >= 0) || (a < 0 && b < 0 && s < -InfIndex) {
		return -InfIndex
	}
	return clamp(s)
}

// SubSaturate returns a-b clamped to [-InfIndex, InfIndex].
func SubSaturate(a, b int64) int64 {
	if b == math.MinInt64 {
		return InfIndex
	}
	return AddSaturate(a, -b)
}

// MulSaturate returns a*b clamped to [-InfIndex, InfIndex].
func MulSaturate(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	p := a * b
	if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		if (a > 0) == (b > 0) {
			return InfIndex
		}
		return -InfIndex
	}
	return clamp(p)
}
