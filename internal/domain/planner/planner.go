// Package planner turns weekly subject-hour targets and upcoming exam dates
// into a seven-day schedule of study blocks. Everything in this package is
// pure computation: the same inputs always yield the same schedule.
package planner

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/studyloop/studyloop-api/internal/domain"
)

const (
	// examBoostFactor is applied to a subject's weekly hours when one of its
	// exams falls within the boost window.
	examBoostFactor = 1.30

	// examBoostWindowDays bounds the boost window: an exam qualifies when it
	// is strictly in the future and at most this many days away.
	examBoostWindowDays = 7

	// emphasisCandidates caps how many top subjects rotate through the
	// weekly emphasis slot.
	emphasisCandidates = 3
)

// subjectAllocation is a subject together with its boosted hour target and
// the exact minute budget it must receive across the week.
type subjectAllocation struct {
	subject        string
	boostedHours   float64
	minutes        int
	preferredStart string
}

// Generate produces the weekly schedule for the given ISO week.
//
// Subjects with an exam in the next seven days get their hours boosted by 30%
// (once, regardless of how many exams qualify). The emphasis subject rotates
// week over week through the top subjects by boosted hours. Minutes are
// conserved exactly: the sum of all block durations equals the rounded total
// of the boosted weekly hours.
//
// An empty focus list is not an error; it yields a schedule of seven empty
// days. Negative hours or malformed exam dates fail validation.
func Generate(
	focusItems []domain.FocusItem,
	exams []domain.Exam,
	weekNumber int,
	now time.Time,
) (*domain.WeeklySchedule, error) {
	if weekNumber < 1 || weekNumber > 53 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidWeekNumber, weekNumber)
	}

	for i := range focusItems {
		if err := focusItems[i].Validate(); err != nil {
			return nil, fmt.Errorf("focus item %q: %w", focusItems[i].Subject, err)
		}
	}

	for i := range exams {
		if err := exams[i].Validate(); err != nil {
			return nil, fmt.Errorf("exam %q: %w", exams[i].Subject, err)
		}
	}

	// The week index is interpreted against the ISO year, which differs
	// from the calendar year around January 1st.
	isoYear, _ := now.UTC().ISOWeek()
	start, end := weekDateRange(isoYear, weekNumber)

	// Week 53 only exists in long ISO years; in a 52-week year its Monday
	// already belongs to the next year's week 1.
	if _, w := start.ISOWeek(); w != weekNumber {
		return nil, fmt.Errorf("%w: year %d has no week %d", domain.ErrInvalidWeekNumber, isoYear, weekNumber)
	}

	schedule := &domain.WeeklySchedule{
		WeekNumber: weekNumber,
		DateRange:  domain.DateRange{Start: start, End: end},
	}
	for i := range schedule.Days {
		schedule.Days[i] = domain.DailySchedule{Day: domain.DayNames[i], Blocks: []domain.ScheduleBlock{}}
	}

	if len(focusItems) == 0 {
		return schedule, nil
	}

	allocations := buildAllocations(focusItems, exams, now)

	emphasis := selectEmphasis(allocations, weekNumber)
	schedule.EmphasisSubject = emphasis

	totalMinutes := distributeMinutes(allocations, emphasis)
	remainderDay := weekNumber % 7

	for _, alloc := range allocations {
		perDay := alloc.minutes / 7
		remainder := alloc.minutes % 7

		for day := 0; day < 7; day++ {
			duration := perDay
			if day == remainderDay {
				duration += remainder
			}
			if duration <= 0 {
				continue
			}

			schedule.Days[day].Blocks = append(schedule.Days[day].Blocks, domain.ScheduleBlock{
				Subject:         alloc.subject,
				DurationMinutes: duration,
				StartTime:       alloc.preferredStart,
				IsEmphasis:      alloc.subject == emphasis,
			})
		}
	}

	for i := range schedule.Days {
		orderBlocks(schedule.Days[i].Blocks)
		schedule.Days[i].TotalMinutes = sumBlocks(schedule.Days[i].Blocks)
	}

	schedule.TotalHours = float64(totalMinutes) / 60.0

	return schedule, nil
}

// buildAllocations applies the exam boost and computes each subject's rounded
// minute budget, returned sorted by subject name for deterministic iteration.
func buildAllocations(
	focusItems []domain.FocusItem,
	exams []domain.Exam,
	now time.Time,
) []subjectAllocation {
	boosted := make(map[string]bool, len(exams))
	for _, exam := range exams {
		d := daysUntil(now, exam.ExamDate)
		if d > 0 && d <= examBoostWindowDays {
			boosted[exam.Subject] = true
		}
	}

	allocations := make([]subjectAllocation, 0, len(focusItems))
	for _, item := range focusItems {
		hours := item.TargetWeeklyHours
		if boosted[item.Subject] {
			hours *= examBoostFactor
		}

		allocations = append(allocations, subjectAllocation{
			subject:        item.Subject,
			boostedHours:   hours,
			minutes:        int(math.Round(hours * 60)),
			preferredStart: item.PreferredStart,
		})
	}

	sort.Slice(allocations, func(i, j int) bool {
		return allocations[i].subject < allocations[j].subject
	})

	return allocations
}

// selectEmphasis picks the emphasized subject by rotating through the top
// candidates ranked by boosted hours (ties broken by subject name). The
// rotation index is weekNumber mod K, so the emphasis changes predictably
// week over week even when the hour ranking is stable.
func selectEmphasis(allocations []subjectAllocation, weekNumber int) string {
	ranked := make([]subjectAllocation, len(allocations))
	copy(ranked, allocations)

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].boostedHours != ranked[j].boostedHours {
			return ranked[i].boostedHours > ranked[j].boostedHours
		}
		return ranked[i].subject < ranked[j].subject
	})

	k := len(ranked)
	if k > emphasisCandidates {
		k = emphasisCandidates
	}

	return ranked[weekNumber%k].subject
}

// distributeMinutes reconciles per-subject rounding against the weekly total.
// The week's budget is round(sum of boosted hours * 60). A shortfall lands on
// the emphasis subject; an overshoot is drained emphasis-first and spills to
// the remaining subjects in rank order, clamping each at zero. No subject's
// minutes ever go negative, so the budget survives the positivity guard on
// block construction.
func distributeMinutes(allocations []subjectAllocation, emphasis string) int {
	var totalHours float64
	var allocated int
	for _, alloc := range allocations {
		totalHours += alloc.boostedHours
		allocated += alloc.minutes
	}

	totalMinutes := int(math.Round(totalHours * 60))
	residual := totalMinutes - allocated

	switch {
	case residual > 0:
		for i := range allocations {
			if allocations[i].subject == emphasis {
				allocations[i].minutes += residual
				break
			}
		}
	case residual < 0:
		deficit := -residual
		for _, i := range rankOrder(allocations, emphasis) {
			take := allocations[i].minutes
			if take > deficit {
				take = deficit
			}
			allocations[i].minutes -= take
			deficit -= take
			if deficit == 0 {
				break
			}
		}
	}

	return totalMinutes
}

// rankOrder returns allocation indices with the emphasis subject first, then
// the rest by boosted hours descending, ties broken by subject name.
func rankOrder(allocations []subjectAllocation, emphasis string) []int {
	order := make([]int, len(allocations))
	for i := range order {
		order[i] = i
	}

	sort.Slice(order, func(a, b int) bool {
		x, y := allocations[order[a]], allocations[order[b]]
		if (x.subject == emphasis) != (y.subject == emphasis) {
			return x.subject == emphasis
		}
		if x.boostedHours != y.boostedHours {
			return x.boostedHours > y.boostedHours
		}
		return x.subject < y.subject
	})

	return order
}

// orderBlocks sorts a day's blocks for stable output: blocks with a start
// preference come first in clock order, the rest follow by subject name.
func orderBlocks(blocks []domain.ScheduleBlock) {
	sort.Slice(blocks, func(i, j int) bool {
		a, b := blocks[i], blocks[j]
		switch {
		case a.StartTime != "" && b.StartTime != "":
			if a.StartTime != b.StartTime {
				return a.StartTime < b.StartTime
			}
			return a.Subject < b.Subject
		case a.StartTime != "":
			return true
		case b.StartTime != "":
			return false
		default:
			return a.Subject < b.Subject
		}
	})
}

func sumBlocks(blocks []domain.ScheduleBlock) int {
	total := 0
	for _, block := range blocks {
		total += block.DurationMinutes
	}
	return total
}

// CurrentWeekNumber returns the ISO-8601 week index for the given time.
func CurrentWeekNumber(now time.Time) int {
	_, week := now.UTC().ISOWeek()
	return week
}
