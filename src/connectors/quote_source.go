package connectors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"swiftjobs/src/exception"
	"swiftjobs/src/model"
)

// waitDelay bounds how long output pipes are drained after the command is killed.
const waitDelay = 2 * time.Second

// QuoteSource fetches prices from the external quote command.
type QuoteSource interface {
	Current(ctx context.Context, tickers []string) ([]model.Quote, error)
	History(ctx context.Context, ticker string) (*model.QuoteHistory, error)
}

// CommandQuoteSource runs one subprocess per call and parses its standard output.
type CommandQuoteSource struct {
	command     string
	currentArgs []string
	historyArgs []string
	timeout     time.Duration
}

func NewCommandQuoteSource(command string, currentArgs, historyArgs []string, timeout time.Duration) *CommandQuoteSource {
	return &CommandQuoteSource{
		command:     command,
		currentArgs: currentArgs,
		historyArgs: historyArgs,
		timeout:     timeout,
	}
}

// NewQuoteSourceFromConfig splits the configured argument lists on whitespace.
func NewQuoteSourceFromConfig(cfg Config) *CommandQuoteSource {
	return NewCommandQuoteSource(
		cfg.QuoteCommand,
		strings.Fields(cfg.QuoteCurrentArgs),
		strings.Fields(cfg.QuoteHistoryArgs),
		cfg.QuoteTimeout,
	)
}

// Current asks for the snapshot of all tickers in one invocation, passed as a comma separated list.
func (s *CommandQuoteSource) Current(ctx context.Context, tickers []string) ([]model.Quote, error) {
	out, err := s.run(ctx, "current", s.currentArgs, strings.Join(tickers, ","))
	if err != nil {
		return nil, err
	}
	return ParseCurrent(out)
}

// History asks for the minute and day series of a single ticker.
func (s *CommandQuoteSource) History(ctx context.Context, ticker string) (*model.QuoteHistory, error) {
	out, err := s.run(ctx, "history", s.historyArgs, ticker)
	if err != nil {
		return nil, err
	}
	return ParseHistory(out)
}

func (s *CommandQuoteSource) run(ctx context.Context, mode string, args []string, tickerArg string) ([]byte, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	argv := append(append([]string{}, args...), tickerArg)
	cmd := exec.CommandContext(ctx, s.command, argv...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	fields := map[string]interface{}{
		"connector": "QuoteSource",
		"mode":      mode,
		"command":   s.command,
		"tickers":   tickerArg,
	}

	started := time.Now()
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); errors.Is(ctxErr, context.DeadlineExceeded) {
			err = fmt.Errorf("%v: %w", err, ctxErr)
		}
		logger.WithFields(fields).
			WithField("stderr", snippet(stderr.Bytes(), 500)).
			WithError(err).
			Error("Quote command failed")

		return nil, fmt.Errorf("%w: %s quote command: %w", exception.ErrExternalProcess, mode, err)
	}

	if stderr.Len() > 0 {
		logger.WithFields(fields).
			WithField("stderr", snippet(stderr.Bytes(), 500)).
			Warn("Quote command wrote to stderr")
	}

	logger.WithFields(fields).
		WithField("elapsed", time.Since(started).String()).
		Debug("Quote command finished")

	return stdout.Bytes(), nil
}
