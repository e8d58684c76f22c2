package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/gheinze-sandbox/accounted4/internal/config"
	"github.com/gheinze-sandbox/accounted4/internal/loanterm"
	"github.com/gheinze-sandbox/accounted4/internal/logging"
	"github.com/gheinze-sandbox/accounted4/internal/midtier"
	"github.com/gheinze-sandbox/accounted4/pkg/constants"
	"github.com/gheinze-sandbox/accounted4/pkg/datetime"
	"github.com/gheinze-sandbox/accounted4/pkg/output"
	"github.com/gheinze-sandbox/accounted4/pkg/validation"
	"go.uber.org/zap"
)

// Actions understood by -action.
const (
	actionPayment  = "payment"
	actionSchedule = "schedule"
	actionPrepare  = "prepare"
	actionRequest  = "request"
)

// overrides holds the form fields given on the command line. Empty strings
// mean the flag was not supplied.
type overrides struct {
	startDate      string
	amount         string
	rate           string
	regularPayment string
}

// loadConfiguration reads the config file, falling back to defaults when
// the file does not exist.
func loadConfiguration(path string) (*config.Configuration, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return config.DefaultConfiguration()
	}
	return config.LoadConfiguration(path)
}

// buildFormState starts from the configured defaults and applies the
// command-line overrides.
func buildFormState(conf *config.Configuration, o overrides, now time.Time) (loanterm.FormState, error) {
	defaults, err := conf.Form.Defaults()
	if err != nil {
		return loanterm.FormState{}, err
	}
	state := loanterm.NewFormStateWithFixedTime(defaults, now)

	if o.startDate != "" {
		start, err := datetime.ParseDate(o.startDate, now.Location())
		if err != nil {
			return loanterm.FormState{}, fmt.Errorf("-start-date: %w", err)
		}
		state.SetStartDateWithFixedTime(start, now)
	}
	if o.amount != "" {
		state.LoanAmount = loanterm.Amount(o.amount)
	}
	if o.rate != "" {
		rate, err := strconv.ParseFloat(o.rate, 64)
		if err != nil {
			return loanterm.FormState{}, fmt.Errorf("-rate: invalid interest rate %q: %w", o.rate, err)
		}
		state.InterestRate = rate
	}
	if o.regularPayment != "" {
		state.RegularPayment = o.regularPayment
	}
	return state, nil
}

func run(ctx context.Context, logger *zap.Logger, conf *config.Configuration, action, outputFormat string, req loanterm.Request) error {
	if action == actionRequest {
		if outputFormat == constants.OutputFormatCSV {
			return output.CsvRequest(os.Stdout, req)
		}
		output.PrettyRequest(os.Stdout, req)
		return nil
	}

	client, err := midtier.NewClient(logger, conf.Service)
	if err != nil {
		return err
	}

	switch action {
	case actionPayment:
		amount, err := client.MonthlyPayment(ctx, req)
		if err != nil {
			return err
		}
		if outputFormat == constants.OutputFormatCSV {
			return output.CsvPayment(os.Stdout, amount)
		}
		output.PrettyPayment(os.Stdout, req, amount)
	case actionSchedule:
		rows, err := client.Schedule(ctx, req)
		if err != nil {
			return err
		}
		if outputFormat == constants.OutputFormatCSV {
			return output.CsvSchedule(os.Stdout, rows)
		}
		output.PrettySchedule(os.Stdout, rows)
	case actionPrepare:
		id, err := client.PrepareSchedule(ctx, req)
		if err != nil {
			return err
		}
		output.PrettyDocument(os.Stdout, id, client.ScheduleDocumentURL(id))
	default:
		return fmt.Errorf("unknown action %q, expected one of %s, %s, %s, %s",
			action, actionPayment, actionSchedule, actionPrepare, actionRequest)
	}
	return nil
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	action := flag.String("action", actionPayment, "what to do: payment, schedule, prepare, request")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")

	var o overrides
	flag.StringVar(&o.startDate, "start-date", "", "loan start date (YYYY-MM-DD or YYYY-Mon-DD); defaults to today")
	flag.StringVar(&o.amount, "amount", "", "loan amount override")
	flag.StringVar(&o.rate, "rate", "", "annual interest rate override, in percent")
	flag.StringVar(&o.regularPayment, "regular-payment", "", "regular payment override")
	flag.Parse()

	conf, err := loadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	state, err := buildFormState(conf, o, time.Now())
	if err != nil {
		logger.Fatal("failed to build loan-term form",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	req, err := loanterm.ToRequest(state)
	if err != nil {
		logger.Fatal("failed to normalize loan-term form",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	logger.Debug("normalized loan-term request",
		zap.String("op", "main"),
		zap.String("startDate", req.StartDate),
		zap.String("adjustmentDate", req.AdjustmentDate),
		zap.Int("amortizationPeriodMonths", req.AmortizationPeriodMonths),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger, conf, *action, outputFormat, req); err != nil {
		logger.Error("request failed",
			zap.String("op", "main"),
			zap.String("action", *action),
			zap.Error(err),
		)
		fmt.Fprintln(os.Stderr, midtier.UserMessage(err))
		stop()
		_ = logger.Sync()
		os.Exit(1)
	}
}
