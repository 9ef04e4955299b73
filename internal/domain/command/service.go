// internal/domain/command/service.go
package command

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Service is the top-level command engine: it snapshots context, asks the
// interpreter for a structured proposal and dispatches it.
type Service struct {
	interpreter Interpreter
	snapshots   *SnapshotBuilder
	dispatcher  *Dispatcher
	timeout     time.Duration
	logger      *logrus.Logger
}

// NewService creates a new command service. timeout bounds the interpreter
// call, which dominates command latency.
func NewService(interpreter Interpreter, snapshots *SnapshotBuilder, dispatcher *Dispatcher, timeout time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		interpreter: interpreter,
		snapshots:   snapshots,
		dispatcher:  dispatcher,
		timeout:     timeout,
		logger:      logger,
	}
}

// Execute runs one natural-language command end to end. Interpreter and
// store outages come back as *UpstreamError so the transport layer can map
// them to 5xx responses; everything else is a displayable envelope.
func (s *Service) Execute(ctx context.Context, commandText string, actor *Actor) (*Result, error) {
	commandText = strings.TrimSpace(commandText)
	if commandText == "" {
		return failure(ActionUnclear, "Please tell me what you'd like to do."), nil
	}

	snapshot, err := s.snapshots.Build(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to build context snapshot")
		return nil, &UpstreamError{Err: err}
	}

	ictx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	proposal, err := s.interpreter.Interpret(ictx, commandText, snapshot)
	if err != nil {
		s.logger.WithError(err).Error("interpreter call failed")
		return nil, &UpstreamError{RateLimited: errors.Is(err, ErrRateLimited), Err: err}
	}

	s.logger.WithFields(logrus.Fields{
		"action":  proposal.Action,
		"command": commandText,
	}).Info("dispatching command")

	return s.dispatcher.Dispatch(ctx, proposal, actor), nil
}
