package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"fintrack/internal/cli"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/trace"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed)
	headColor = color.New(color.FgCyan, color.Bold)
)

func main() {
	cli.LoadEnvFile()
	cfg := config.Load()
	logger := cli.SetupLogger(cfg)
	cli.ValidateConfig(logger, cfg)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	store := cli.InitStore(logger, cfg.DBPath)
	tracker := services.NewTracker(store, logger)
	reporter := services.NewReporter(store, logger)
	defer tracker.Close()

	ctx := trace.WithOpID(context.Background(), trace.NewOpID())

	var err error
	switch os.Args[1] {
	case "user":
		err = runUser(ctx, tracker, cfg, os.Args[2:])
	case "profile":
		err = runProfile(ctx, tracker, os.Args[2:])
	case "tx":
		err = runTx(ctx, tracker, os.Args[2:])
	case "tag":
		err = runTag(ctx, tracker, os.Args[2:])
	case "budget":
		err = runBudget(ctx, tracker, os.Args[2:])
	case "goal":
		err = runGoal(ctx, tracker, os.Args[2:])
	case "report":
		err = runReport(ctx, tracker, reporter, os.Args[2:])
	case "health":
		err = runHealth(ctx, tracker, reporter, os.Args[2:])
	case "help", "-h", "--help":
		usage()
	default:
		errColor.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println(`fintrack - personal finance tracker

Usage:
  fintrack user add|show|delete ...
  fintrack profile set ...
  fintrack tx add|list|delete ...
  fintrack tag add|list|delete ...
  fintrack budget add ...
  fintrack goal add|contribute|list ...
  fintrack report -user <email> -month <YYYY-MM>
  fintrack health -user <email> -month <YYYY-MM> [-debt <amount>]

Run a subcommand with -h for its flags.`)
}

func printError(err error) {
	var verr *core.ValidationError
	var nferr *core.NotFoundError
	var duperr *core.DuplicateError
	switch {
	case errors.As(err, &verr):
		errColor.Fprintf(os.Stderr, "invalid input: %v\n", err)
	case errors.As(err, &nferr):
		errColor.Fprintf(os.Stderr, "not found: %v\n", err)
	case errors.As(err, &duperr):
		warnColor.Fprintf(os.Stderr, "already exists: %v\n", err)
	default:
		errColor.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

// resolveUser turns the -user email flag into a stored user.
func resolveUser(ctx context.Context, t *services.Tracker, email string) (*core.User, error) {
	if email == "" {
		return nil, &core.ValidationError{Field: "user", Reason: "the -user flag is required"}
	}
	return t.GetUserByEmail(ctx, email)
}

func runUser(ctx context.Context, t *services.Tracker, cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: fintrack user add|show|delete")
	}

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("user add", flag.ExitOnError)
		name := fs.String("name", "", "full name")
		email := fs.String("email", "", "email address")
		currency := fs.String("currency", cfg.DefaultCurrency, "preferred currency")
		income := fs.String("income", "", "monthly income, e.g. 5000 or $5,000.00")
		fs.Parse(args[1:])

		u, err := t.CreateUser(ctx, services.CreateUserParams{
			Name:          *name,
			Email:         *email,
			Currency:      *currency,
			MonthlyIncome: *income,
		})
		if err != nil {
			return err
		}
		okColor.Printf("Registered %s <%s> (id %d)\n", u.Name, u.Email, u.ID)
		return nil

	case "show":
		fs := flag.NewFlagSet("user show", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		fs.Parse(args[1:])

		u, err := t.GetUserByEmail(ctx, *email)
		if err != nil {
			return err
		}
		headColor.Printf("%s <%s>\n", u.Name, u.Email)
		fmt.Printf("  id:              %d\n", u.ID)
		fmt.Printf("  currency:        %s\n", u.DefaultCurrency)
		fmt.Printf("  monthly income:  %s\n", core.FormatCurrency(u.MonthlyIncome, u.DefaultCurrency))
		return nil

	case "delete":
		fs := flag.NewFlagSet("user delete", flag.ExitOnError)
		email := fs.String("email", "", "email address")
		fs.Parse(args[1:])

		u, err := t.GetUserByEmail(ctx, *email)
		if err != nil {
			return err
		}
		if err := t.DeleteUser(ctx, u.ID); err != nil {
			return err
		}
		okColor.Printf("Removed %s and all associated records\n", u.Email)
		return nil

	default:
		return fmt.Errorf("unknown user subcommand %q", args[0])
	}
}

func runProfile(ctx context.Context, t *services.Tracker, args []string) error {
	if len(args) < 1 || args[0] != "set" {
		return fmt.Errorf("usage: fintrack profile set")
	}

	fs := flag.NewFlagSet("profile set", flag.ExitOnError)
	user := fs.String("user", "", "owner email")
	phone := fs.String("phone", "", "phone number")
	occupation := fs.String("occupation", "", "occupation")
	income := fs.String("annual-income", "", "annual income")
	risk := fs.String("risk", "", "risk tolerance: low, medium or high")
	fs.Parse(args[1:])

	u, err := resolveUser(ctx, t, *user)
	if err != nil {
		return err
	}
	p, err := t.UpsertProfile(ctx, u.ID, services.ProfileParams{
		Phone:         *phone,
		Occupation:    *occupation,
		AnnualIncome:  *income,
		RiskTolerance: *risk,
	})
	if err != nil {
		return err
	}
	okColor.Printf("Profile saved for %s (risk: %s)\n", u.Email, p.RiskTolerance)
	return nil
}

func runTx(ctx context.Context, t *services.Tracker, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: fintrack tx add|list|delete")
	}

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("tx add", flag.ExitOnError)
		user := fs.String("user", "", "owner email")
		amount := fs.String("amount", "", "amount, e.g. 15.50 or $15.50")
		category := fs.String("category", "", "category name")
		desc := fs.String("desc", "", "description")
		txType := fs.String("type", "expense", "income or expense")
		date := fs.String("date", "", "date (YYYY-MM-DD), defaults to today")
		tags := fs.String("tags", "", "comma-separated tags")
		fs.Parse(args[1:])

		u, err := resolveUser(ctx, t, *user)
		if err != nil {
			return err
		}
		tx, err := t.AddTransaction(ctx, u.ID, services.AddTransactionParams{
			Amount:      *amount,
			Category:    *category,
			Description: *desc,
			Type:        *txType,
			Date:        *date,
			Tags:        *tags,
		})
		if err != nil {
			return err
		}
		okColor.Printf("Recorded %s %s in %s (id %d)\n",
			tx.Type, core.FormatCurrency(tx.Amount, u.DefaultCurrency), tx.Category, tx.ID)
		return nil

	case "list":
		fs := flag.NewFlagSet("tx list", flag.ExitOnError)
		user := fs.String("user", "", "owner email")
		category := fs.String("category", "", "filter by category")
		tag := fs.String("tag", "", "filter by tag")
		from := fs.String("from", "", "start date (YYYY-MM-DD)")
		to := fs.String("to", "", "end date (YYYY-MM-DD)")
		limit := fs.Int("limit", 0, "maximum rows")
		fs.Parse(args[1:])

		u, err := resolveUser(ctx, t, *user)
		if err != nil {
			return err
		}
		txs, err := t.ListTransactions(ctx, u.ID, services.ListFilter{
			Category: *category,
			Tag:      *tag,
			From:     *from,
			To:       *to,
			Limit:    *limit,
		})
		if err != nil {
			return err
		}
		if len(txs) == 0 {
			fmt.Println("No transactions found")
			return nil
		}
		for _, tx := range txs {
			sign := "-"
			if tx.Type == core.Income {
				sign = "+"
			}
			fmt.Printf("%5d  %s  %s%-12s  %-20s  %s",
				tx.ID, core.FormatDate(tx.Date), sign,
				core.FormatCurrency(tx.Amount, u.DefaultCurrency),
				tx.Category, core.TruncateText(tx.Description, 40))
			if len(tx.Tags) > 0 {
				fmt.Printf("  [%s]", joinTags(tx.Tags))
			}
			fmt.Println()
		}
		return nil

	case "delete":
		fs := flag.NewFlagSet("tx delete", flag.ExitOnError)
		id := fs.Int64("id", 0, "transaction id")
		fs.Parse(args[1:])

		if err := t.DeleteTransaction(ctx, *id); err != nil {
			return err
		}
		okColor.Printf("Deleted transaction %d\n", *id)
		return nil

	default:
		return fmt.Errorf("unknown tx subcommand %q", args[0])
	}
}

func joinTags(tags []string) string {
	out := ""
	for i, tag := range tags {
		if i > 0 {
			out += ", "
		}
		out += tag
	}
	return out
}

func runTag(ctx context.Context, t *services.Tracker, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: fintrack tag add|list|delete")
	}

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("tag add", flag.ExitOnError)
		name := fs.String("name", "", "tag name")
		desc := fs.String("desc", "", "description")
		tagColor := fs.String("color", "", "hex color, defaults to "+core.DefaultTagColor)
		fs.Parse(args[1:])

		tag, err := t.AddTag(ctx, *name, *desc, *tagColor)
		if err != nil {
			return err
		}
		okColor.Printf("Created tag %s (%s)\n", tag.Name, tag.Color)
		return nil

	case "list":
		tags, err := t.ListTags(ctx)
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			fmt.Println("No tags defined")
			return nil
		}
		for _, tag := range tags {
			fmt.Printf("  %-20s %-9s %s\n", tag.Name, tag.Color, tag.Description)
		}
		return nil

	case "delete":
		fs := flag.NewFlagSet("tag delete", flag.ExitOnError)
		name := fs.String("name", "", "tag name")
		fs.Parse(args[1:])

		if err := t.DeleteTag(ctx, *name); err != nil {
			return err
		}
		okColor.Printf("Deleted tag %s\n", *name)
		return nil

	default:
		return fmt.Errorf("unknown tag subcommand %q", args[0])
	}
}

func runBudget(ctx context.Context, t *services.Tracker, args []string) error {
	if len(args) < 1 || args[0] != "add" {
		return fmt.Errorf("usage: fintrack budget add")
	}

	fs := flag.NewFlagSet("budget add", flag.ExitOnError)
	user := fs.String("user", "", "owner email")
	category := fs.String("category", "", "category name")
	limit := fs.String("limit", "", "monthly limit amount")
	month := fs.String("month", "", "period (YYYY-MM)")
	desc := fs.String("desc", "", "description")
	fs.Parse(args[1:])

	u, err := resolveUser(ctx, t, *user)
	if err != nil {
		return err
	}
	b, err := t.AddBudget(ctx, u.ID, *category, *limit, *month, *desc)
	if err != nil {
		return err
	}
	okColor.Printf("Budget set: %s %s for %s\n",
		b.Category, core.FormatCurrency(b.Limit, u.DefaultCurrency), b.Month)
	return nil
}

func runGoal(ctx context.Context, t *services.Tracker, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: fintrack goal add|contribute|list")
	}

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("goal add", flag.ExitOnError)
		user := fs.String("user", "", "owner email")
		name := fs.String("name", "", "goal name")
		target := fs.String("target", "", "target amount")
		desc := fs.String("desc", "", "description")
		fs.Parse(args[1:])

		u, err := resolveUser(ctx, t, *user)
		if err != nil {
			return err
		}
		g, err := t.AddSavingsGoal(ctx, u.ID, *name, *target, *desc)
		if err != nil {
			return err
		}
		okColor.Printf("Goal created: %s targeting %s\n",
			g.Name, core.FormatCurrency(g.Target, u.DefaultCurrency))
		return nil

	case "contribute":
		fs := flag.NewFlagSet("goal contribute", flag.ExitOnError)
		user := fs.String("user", "", "owner email")
		name := fs.String("name", "", "goal name")
		amount := fs.String("amount", "", "contribution amount")
		fs.Parse(args[1:])

		u, err := resolveUser(ctx, t, *user)
		if err != nil {
			return err
		}
		g, err := t.Contribute(ctx, u.ID, *name, *amount)
		if err != nil {
			return err
		}
		if g.Achieved {
			okColor.Printf("Goal %q achieved! %s of %s saved\n", g.Name,
				core.FormatCurrency(g.Current, u.DefaultCurrency),
				core.FormatCurrency(g.Target, u.DefaultCurrency))
		} else {
			fmt.Printf("Contributed. %s of %s saved (%s)\n",
				core.FormatCurrency(g.Current, u.DefaultCurrency),
				core.FormatCurrency(g.Target, u.DefaultCurrency),
				core.FormatPercentage(g.Progress()*100))
		}
		return nil

	case "list":
		fs := flag.NewFlagSet("goal list", flag.ExitOnError)
		user := fs.String("user", "", "owner email")
		fs.Parse(args[1:])

		u, err := resolveUser(ctx, t, *user)
		if err != nil {
			return err
		}
		goals, err := t.ListSavingsGoals(ctx, u.ID)
		if err != nil {
			return err
		}
		if len(goals) == 0 {
			fmt.Println("No savings goals")
			return nil
		}
		for _, g := range goals {
			status := " "
			if g.Achieved {
				status = okColor.Sprint("✓")
			}
			fmt.Printf("  %s %-24s %s / %s (%s)\n", status, g.Name,
				core.FormatCurrency(g.Current, u.DefaultCurrency),
				core.FormatCurrency(g.Target, u.DefaultCurrency),
				core.FormatPercentage(g.Progress()*100))
		}
		return nil

	default:
		return fmt.Errorf("unknown goal subcommand %q", args[0])
	}
}

func runReport(ctx context.Context, t *services.Tracker, r *services.Reporter, args []string) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	user := fs.String("user", "", "owner email")
	month := fs.String("month", "", "period (YYYY-MM)")
	fs.Parse(args)

	u, err := resolveUser(ctx, t, *user)
	if err != nil {
		return err
	}
	rep, err := r.MonthlyReport(ctx, u.ID, *month)
	if err != nil {
		return err
	}

	cur := u.DefaultCurrency
	headColor.Printf("Report for %s, %s\n\n", u.Name, rep.Month)
	fmt.Printf("  Income:   %s\n", core.FormatCurrency(rep.TotalIncome, cur))
	fmt.Printf("  Expenses: %s\n", core.FormatCurrency(rep.TotalExpense, cur))
	if rep.Net.Cents >= 0 {
		okColor.Printf("  Net:      %s\n", core.FormatCurrency(rep.Net, cur))
	} else {
		errColor.Printf("  Net:      %s\n", core.FormatCurrency(rep.Net, cur))
	}

	if len(rep.Categories) > 0 {
		headColor.Println("\nBy category")
		for _, c := range rep.Categories {
			fmt.Printf("  %-20s %s\n", c.Category, core.FormatCurrency(c.Total, cur))
		}
	}

	if len(rep.TopTags) > 0 {
		headColor.Println("\nTop tags")
		for _, tag := range rep.TopTags {
			fmt.Printf("  %-20s %s\n", tag.Tag, core.FormatCurrency(tag.Spent, cur))
		}
	}

	if len(rep.Budgets) > 0 {
		headColor.Println("\nBudgets")
		for _, b := range rep.Budgets {
			if b.Unbudgeted {
				warnColor.Printf("  %-20s spent %s (no budget set)\n",
					b.Category, core.FormatCurrency(b.Spent, cur))
				continue
			}
			fmt.Printf("  %-20s %s of %s  %s\n", b.Category,
				core.FormatCurrency(b.Spent, cur),
				core.FormatCurrency(b.Limit, cur),
				statusColor(b.Color).Sprint(b.Status))
		}
	}

	if len(rep.Goals) > 0 {
		headColor.Println("\nSavings goals")
		for _, g := range rep.Goals {
			fmt.Printf("  %-20s %s of %s  %s\n", g.Name,
				core.FormatCurrency(g.Current, cur),
				core.FormatCurrency(g.Target, cur),
				statusColor(g.Color).Sprint(core.FormatPercentage(g.Progress*100)))
		}
	}

	return nil
}

// runHealth scores one month of activity: income and expenses from the
// report, savings from goal contributions, debt from the optional flag.
func runHealth(ctx context.Context, t *services.Tracker, r *services.Reporter, args []string) error {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	user := fs.String("user", "", "owner email")
	month := fs.String("month", "", "period (YYYY-MM)")
	debtFlag := fs.String("debt", "", "monthly debt payments, e.g. 350.00")
	fs.Parse(args)

	u, err := resolveUser(ctx, t, *user)
	if err != nil {
		return err
	}
	rep, err := r.MonthlyReport(ctx, u.ID, *month)
	if err != nil {
		return err
	}

	debt := core.Money{}
	if *debtFlag != "" {
		if debt, err = core.ParseAmount(*debtFlag); err != nil {
			return err
		}
	}
	savings := core.Money{}
	for _, g := range rep.Goals {
		savings = savings.Add(g.Current)
	}

	score, label := core.HealthScore(rep.TotalIncome, rep.TotalExpense, savings, debt)
	headColor.Printf("Financial health for %s, %s\n\n", u.Name, rep.Month)
	fmt.Printf("  Score: %d/100 (%s)\n", score, label)
	fmt.Printf("  Emergency fund target (6 months): %s\n",
		core.FormatCurrency(core.EmergencyFundTarget(rep.TotalExpense, 6), u.DefaultCurrency))
	return nil
}

// statusColor maps the report's color names onto terminal colors.
func statusColor(name string) *color.Color {
	switch name {
	case "green":
		return okColor
	case "yellow":
		return warnColor
	case "orange", "red":
		return errColor
	case "blue":
		return headColor
	default:
		return color.New(color.Reset)
	}
}
