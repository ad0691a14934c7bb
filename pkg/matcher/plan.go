package matcher

import (
	"fmt"

	"github.com/nsfid/nsfid/pkg/types"
)

// segment is a run plus the distance bounds that precede it. Distances
// are measured from the end of the previously accepted run.
type segment struct {
	run     Run
	min     int
	max     int
	bounded bool // false means no upper limit
}

func (s segment) admits(dist int) bool {
	if dist < s.min {
		return false
	}
	return !s.bounded || dist <= s.max
}

// plan is a signature lowered into runs for the engine.
type plan struct {
	segments []segment
}

// lower splits a compiled signature into segments. Consecutive gaps add
// their bounds; AND drops the upper bound for the rest of the group.
func lower(sig types.Signature) (plan, error) {
	var p plan

	var cur segment
	inGap := false

	flush := func() {
		if cur.run.Len() > 0 {
			p.segments = append(p.segments, cur)
		}
	}

	for _, e := range sig.Elements {
		switch e.Kind {
		case types.KindLiteral, types.KindWildcard:
			inGap = false
			cur.run.Bytes = append(cur.run.Bytes, e.Value)
			cur.run.Any = append(cur.run.Any, e.Kind == types.KindWildcard)

		case types.KindRangeGap, types.KindAnd:
			if cur.run.Len() == 0 && !inGap {
				return plan{}, fmt.Errorf("separator %s before any run", e)
			}
			if !inGap {
				flush()
				cur = segment{bounded: true}
				inGap = true
			}
			cur.min += e.Min
			if e.Kind == types.KindAnd {
				cur.bounded = false
			} else if cur.bounded {
				cur.max += e.Max
			}

		case types.KindTerminator:
			if inGap || cur.run.Len() == 0 {
				return plan{}, fmt.Errorf("signature ends without a run")
			}
			flush()
			return p, nil

		default:
			return plan{}, fmt.Errorf("unknown element kind %d", e.Kind)
		}
	}

	return plan{}, fmt.Errorf("signature has no terminator")
}
