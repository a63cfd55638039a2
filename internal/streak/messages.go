package streak

import "hash/fnv"

// encouragements is shown when a streak resets. Losing a streak is the
// moment users quit, so the copy leans forward rather than dwelling on
// the gap.
var encouragements = []string{
	"Every streak starts with day one. Welcome back.",
	"The comeback is always stronger than the setback.",
	"You showed up today. That's what counts.",
	"Streaks end. Habits don't have to.",
	"Day one again, but you've done this before.",
	"Missing a few days doesn't erase the work you put in.",
}

// pickEncouragement selects a message deterministically from the seed so the
// engine stays a pure function of its inputs. The seed is the completion day
// plus the prior streak, which varies the message across resets without
// introducing randomness.
func pickEncouragement(seed string) string {
	h := fnv.New32a()
	h.Write([]byte(seed))
	return encouragements[h.Sum32()%uint32(len(encouragements))]
}
