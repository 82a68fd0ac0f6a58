package core

import "sort"

type (
	// CategoryTotal is a per-category sum signed by transaction type:
	// income positive, expense negative.
	CategoryTotal struct {
		Category string
		Total    Money
	}

	// TagTotal is the amount spent under one tag within the period.
	TagTotal struct {
		Tag   string
		Spent Money
	}

	// BudgetStatus joins a category's period spending against its budget
	// row. Categories with spending but no budget row appear with
	// Unbudgeted set instead of failing.
	BudgetStatus struct {
		Category   string
		Limit      Money
		Spent      Money
		Remaining  Money
		Unbudgeted bool
		Status     string // Good, Warning, High, Over, No limit
		Color      string
	}

	// GoalProgress is a savings goal's display-ready progress snapshot.
	GoalProgress struct {
		Name     string
		Target   Money
		Current  Money
		Progress float64 // clamped to [0, 1]
		Achieved bool
		Color    string
	}

	// Report is a month-period summary of a single user's activity.
	// Categories and tags with no activity in the period are omitted.
	Report struct {
		Month        Month
		TotalIncome  Money
		TotalExpense Money
		Net          Money
		Categories   []CategoryTotal // first-appearance order
		TopTags      []TagTotal      // spent descending, name ascending on ties
		Budgets      []BudgetStatus
		Goals        []GoalProgress
	}
)

// TopTagsLimit bounds the tag ranking in report highlights.
const TopTagsLimit = 5

// BuildReport aggregates a user's transactions for one month in a single
// pass. The caller supplies transactions already filtered to the period
// (transactions outside it are skipped defensively), the user's budget rows
// for that month, and the user's savings goals. An empty period yields a
// valid empty report.
func BuildReport(month Month, txs []Transaction, budgets []Budget, goals []SavingsGoal) *Report {
	r := &Report{Month: month}

	catIndex := make(map[string]int)
	spentByCategory := make(map[string]int64)
	spentByTag := make(map[string]int64)

	for _, tx := range txs {
		if !month.Contains(tx.Date) {
			continue
		}

		switch tx.Type {
		case Income:
			r.TotalIncome = r.TotalIncome.Add(tx.Amount)
		case Expense:
			r.TotalExpense = r.TotalExpense.Add(tx.Amount)
			spentByCategory[tx.Category] += tx.Amount.Cents
			for _, tag := range tx.Tags {
				spentByTag[tag] += tx.Amount.Cents
			}
		}

		signed := tx.Type.Sign() * tx.Amount.Cents
		if i, ok := catIndex[tx.Category]; ok {
			r.Categories[i].Total.Cents += signed
		} else {
			catIndex[tx.Category] = len(r.Categories)
			r.Categories = append(r.Categories, CategoryTotal{
				Category: tx.Category,
				Total:    Money{Cents: signed},
			})
		}
	}

	r.Net = Money{Cents: r.TotalIncome.Cents - r.TotalExpense.Cents}
	r.TopTags = rankTags(spentByTag, TopTagsLimit)
	r.Budgets = budgetStatuses(budgets, spentByCategory)
	for _, g := range goals {
		r.Goals = append(r.Goals, goalProgress(g))
	}
	return r
}

// rankTags orders tag totals by amount descending, breaking ties by name
// ascending so the ranking never depends on map iteration order.
func rankTags(spent map[string]int64, limit int) []TagTotal {
	tags := make([]TagTotal, 0, len(spent))
	for name, cents := range spent {
		tags = append(tags, TagTotal{Tag: name, Spent: Money{Cents: cents}})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Spent.Cents != tags[j].Spent.Cents {
			return tags[i].Spent.Cents > tags[j].Spent.Cents
		}
		return tags[i].Tag < tags[j].Tag
	})
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}

// budgetStatuses joins period spending against budget rows. Every budget
// row appears even with zero spending; spent categories without a row are
// reported as unbudgeted.
func budgetStatuses(budgets []Budget, spentByCategory map[string]int64) []BudgetStatus {
	var out []BudgetStatus
	budgeted := make(map[string]bool)

	for _, b := range budgets {
		spent := spentByCategory[b.Category]
		status, color := budgetBand(spent, b.Limit.Cents)
		out = append(out, BudgetStatus{
			Category:  b.Category,
			Limit:     b.Limit,
			Spent:     Money{Cents: spent},
			Remaining: Money{Cents: b.Limit.Cents - spent},
			Status:    status,
			Color:     color,
		})
		budgeted[b.Category] = true
	}

	var extra []BudgetStatus
	for category, spent := range spentByCategory {
		if budgeted[category] {
			continue
		}
		extra = append(extra, BudgetStatus{
			Category:   category,
			Spent:      Money{Cents: spent},
			Unbudgeted: true,
			Status:     "No limit",
			Color:      "gray",
		})
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].Category < extra[j].Category })
	return append(out, extra...)
}

func budgetBand(spentCents, limitCents int64) (string, string) {
	if limitCents <= 0 {
		return "No limit", "gray"
	}
	pct := float64(spentCents) / float64(limitCents) * 100
	switch {
	case pct <= 50:
		return "Good", "green"
	case pct <= 75:
		return "Warning", "yellow"
	case pct <= 100:
		return "High", "orange"
	default:
		return "Over", "red"
	}
}

func goalProgress(g SavingsGoal) GoalProgress {
	return GoalProgress{
		Name:     g.Name,
		Target:   g.Target,
		Current:  g.Current,
		Progress: g.Progress(),
		Achieved: g.Achieved,
		Color:    progressColor(g.Progress() * 100),
	}
}

func progressColor(pct float64) string {
	switch {
	case pct >= 100:
		return "green"
	case pct >= 75:
		return "yellow"
	case pct >= 50:
		return "blue"
	default:
		return "red"
	}
}
