package core

import "math"

// CompoundInterest returns the accumulated amount for a principal at an
// annual rate over time in years, compounded n times per year. Non-positive
// principal or negative rate/time yields 0.
func CompoundInterest(principal, rate, years float64, compoundsPerYear int) float64 {
	if principal <= 0 || rate < 0 || years < 0 || compoundsPerYear <= 0 {
		return 0
	}
	n := float64(compoundsPerYear)
	amount := principal * math.Pow(1+rate/n, n*years)
	return math.Round(amount*100) / 100
}

// MonthlyLoanPayment returns the fixed monthly payment for a loan.
func MonthlyLoanPayment(principal, annualRate float64, years int) float64 {
	if principal <= 0 || annualRate < 0 || years <= 0 {
		return 0
	}
	monthlyRate := annualRate / 12
	payments := float64(years * 12)
	if monthlyRate == 0 {
		return math.Round(principal/payments*100) / 100
	}
	factor := math.Pow(1+monthlyRate, payments)
	payment := principal * (monthlyRate * factor) / (factor - 1)
	return math.Round(payment*100) / 100
}

// EmergencyFundTarget is the recommended reserve: months of expenses.
func EmergencyFundTarget(monthlyExpenses Money, months int) Money {
	if monthlyExpenses.Cents <= 0 || months <= 0 {
		return Money{}
	}
	return Money{Cents: monthlyExpenses.Cents * int64(months)}
}

// HealthScore rates a user's finances 0-100 from monthly income, expenses,
// savings and debt, with a coarse label. Zero income scores 0.
func HealthScore(income, expenses, savings, debt Money) (int, string) {
	if income.Cents <= 0 {
		return 0, "No income data"
	}

	expenseRatio := float64(expenses.Cents) / float64(income.Cents) * 100
	savingsRate := float64(savings.Cents) / float64(income.Cents) * 100
	debtRatio := float64(debt.Cents) / float64(income.Cents) * 100

	score := 100
	switch {
	case expenseRatio > 80:
		score -= 30
	case expenseRatio > 60:
		score -= 20
	case expenseRatio > 50:
		score -= 10
	}
	switch {
	case debtRatio > 40:
		score -= 25
	case debtRatio > 20:
		score -= 15
	case debtRatio > 10:
		score -= 5
	}
	switch {
	case savingsRate >= 20:
		score += 10
	case savingsRate >= 10:
		score += 5
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	var label string
	switch {
	case score >= 80:
		label = "Excellent"
	case score >= 60:
		label = "Good"
	case score >= 40:
		label = "Fair"
	case score >= 20:
		label = "Poor"
	default:
		label = "Critical"
	}
	return score, label
}
