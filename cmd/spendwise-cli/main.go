// Command spendwise-cli is a terminal client for the tracker API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/dashboard"
	"github.com/dafibh/spendwise/spendwise-backend/internal/domain"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const usage = `usage: spendwise-cli [flags] <command> [args]

commands:
  register NAME EMAIL PASSWORD
  login EMAIL PASSWORD                 prints a session token
  list                                 expenses and budget status of a month
  add DESCRIPTION AMOUNT CATEGORY [YYYY-MM-DD]
  edit ID DESCRIPTION AMOUNT CATEGORY [YYYY-MM-DD]
  delete ID
  budget AMOUNT                        sets the budget of a month
  history [MONTHS]
  export                               prints the month's expenses as CSV

flags:
`

func main() {
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	now := time.Now().UTC()
	apiURL := flag.String("url", envOr("SPENDWISE_URL", "http://localhost:3000"), "API base URL")
	token := flag.String("token", os.Getenv("SPENDWISE_TOKEN"), "session token from login")
	month := flag.Int("month", int(now.Month()), "month (1-12)")
	year := flag.Int("year", now.Year(), "year")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	client, err := dashboard.NewClient(*apiURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid API URL")
	}
	if *token != "" {
		client.SetToken(*token)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	period := domain.Period{Year: *year, Month: *month}
	d := dashboard.New(client, dashboard.NewState(period))

	if err := run(ctx, d, client, flag.Arg(0), flag.Args()[1:]); err != nil {
		var apiErr *dashboard.APIError
		if errors.As(err, &apiErr) {
			log.Error().Int("status", apiErr.Status).Msg(apiErr.Error())
		} else {
			log.Error().Err(err).Msg("Command failed")
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, d *dashboard.Dashboard, client *dashboard.Client, cmd string, args []string) error {
	period := d.State().Period()

	switch cmd {
	case "register":
		if len(args) != 3 {
			return errUsage(cmd)
		}
		user, err := client.Register(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("Registered %s <%s>\n", user.Name, user.Email)

	case "login":
		if len(args) != 2 {
			return errUsage(cmd)
		}
		user, err := client.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Welcome, %s!\n", user.Name)
		fmt.Println(client.Token())

	case "list":
		if err := d.LoadMonth(ctx, period); err != nil {
			return err
		}
		printDashboard(d.State())

	case "add":
		input, err := parseExpenseArgs(args)
		if err != nil {
			return err
		}
		if err := d.LoadMonth(ctx, period); err != nil {
			return err
		}
		if err := d.AddExpense(ctx, input); err != nil {
			return err
		}
		printDashboard(d.State())

	case "edit":
		if len(args) < 1 {
			return errUsage(cmd)
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		input, err := parseExpenseArgs(args[1:])
		if err != nil {
			return err
		}
		expenses, err := client.Expenses(ctx)
		if err != nil {
			return err
		}
		d.State().Load(period, decimal.Zero, expenses)
		if _, err := d.StartEdit(id); err != nil {
			return fmt.Errorf("expense %d: %w", id, err)
		}
		if err := d.CommitEdit(ctx, input); err != nil {
			return err
		}
		fmt.Printf("Updated expense %d\n", id)

	case "delete":
		if len(args) != 1 {
			return errUsage(cmd)
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := d.DeleteExpense(ctx, id); err != nil {
			return err
		}
		fmt.Printf("Deleted expense %d\n", id)

	case "budget":
		if len(args) != 1 {
			return errUsage(cmd)
		}
		amount, err := decimal.NewFromString(args[0])
		if err != nil {
			return fmt.Errorf("invalid amount %q", args[0])
		}
		if err := d.SetBudget(ctx, amount); err != nil {
			return err
		}
		fmt.Printf("Budget for %d-%02d set to %s\n", period.Year, period.Month, amount.StringFixed(2))

	case "history":
		months := domain.DefaultHistoryMonths
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid months %q", args[0])
			}
			months = n
		}
		history, err := client.History(ctx, months)
		if err != nil {
			return err
		}
		fmt.Println(dashboard.RenderHistory(history))

	case "export":
		if err := d.LoadMonth(ctx, period); err != nil {
			return err
		}
		fmt.Println(dashboard.ExportCSV(d.State().Expenses()))

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

func printDashboard(s *dashboard.State) {
	fmt.Println(dashboard.RenderLedger(s))
	fmt.Println()
	fmt.Println(dashboard.RenderStatus(s.Status()))
}

func parseExpenseArgs(args []string) (dashboard.ExpenseInput, error) {
	if len(args) < 3 || len(args) > 4 {
		return dashboard.ExpenseInput{}, errors.New("expected DESCRIPTION AMOUNT CATEGORY [YYYY-MM-DD]")
	}
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return dashboard.ExpenseInput{}, fmt.Errorf("invalid amount %q", args[1])
	}
	input := dashboard.ExpenseInput{Description: args[0], Amount: amount, Type: args[2]}
	if len(args) == 4 {
		input.Date = args[3]
	}
	return input, nil
}

func parseID(s string) (int32, error) {
	id, err := strconv.ParseInt(s, 10, 32)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid expense id %q", s)
	}
	return int32(id), nil
}

func errUsage(cmd string) error {
	return fmt.Errorf("wrong arguments for %s; run with -h for usage", cmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
