package action

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/albatrocity/radio-room-server-sub000/pkg/metrics"
	"github.com/albatrocity/radio-room-server-sub000/pkg/room"
	"github.com/albatrocity/radio-room-server-sub000/pkg/rule"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// Executor executes actions for firing intents.
type Executor struct {
	registry *Registry
}

// NewExecutor creates a new action executor.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{
		registry: registry,
	}
}

// Dispatch runs the action registered for each intent's action type, in
// intent order. A failing intent does not stop the others; every failure is
// reported in its result and joined into the returned error.
func (e *Executor) Dispatch(ctx context.Context, state *room.State, intents []rule.FiringIntent) ([]*ActionResult, error) {
	results := make([]*ActionResult, 0, len(intents))
	var errs []error

	for _, intent := range intents {
		result := e.Execute(ctx, state, intent)
		results = append(results, result)
		if result.Error != nil {
			errs = append(errs, fmt.Errorf("rule %s %s: %w", intent.Rule.ID, intent.Rule.ActionType, result.Error))
		}
	}

	return results, errors.Join(errs...)
}

// Execute runs the action for one intent with its configured retry policy.
func (e *Executor) Execute(ctx context.Context, state *room.State, intent rule.FiringIntent) *ActionResult {
	actionType := intent.Rule.ActionType

	action := e.registry.Get(actionType)
	if action == nil {
		metrics.ActionsTotal.WithLabelValues(string(actionType), "not_found").Inc()
		return NewActionError("", intent, fmt.Errorf("%w: %s", ErrActionNotFound, actionType))
	}
	if !action.Config().Enabled {
		metrics.ActionsTotal.WithLabelValues(string(actionType), "disabled").Inc()
		return NewActionError(action.ID(), intent, fmt.Errorf("%w: %s", ErrActionDisabled, action.ID()))
	}

	logrus.Infof("executing action %s for rule %s in room %s", action.ID(), intent.Rule.ID, roomOf(state, intent))

	start := time.Now()
	attempts, err := e.runWithRetry(ctx, action, state, intent)
	metrics.ActionDuration.WithLabelValues(string(actionType)).Observe(time.Since(start).Seconds())

	if err != nil {
		logrus.Errorf("action %s failed after %d attempt(s): %v", action.ID(), attempts, err)
		metrics.ActionsTotal.WithLabelValues(string(actionType), "failed").Inc()
		result := NewActionError(action.ID(), intent, err)
		result.Attempts = attempts
		return result
	}

	logrus.Infof("action %s completed successfully", action.ID())
	metrics.ActionsTotal.WithLabelValues(string(actionType), "succeeded").Inc()
	result := NewActionResult(action.ID(), intent)
	result.Attempts = attempts
	return result
}

func (e *Executor) runWithRetry(ctx context.Context, action Action, state *room.State, intent rule.FiringIntent) (int, error) {
	retry := action.Config().Retry
	attempts := 0
	permanent := false

	operation := func() error {
		attempts++
		err := action.Execute(ctx, state, intent)
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			permanent = true
		}
		if err != nil && !permanent {
			logrus.Warnf("action %s attempt %d failed: %v", action.ID(), attempts, err)
		}
		return err
	}

	err := backoff.Retry(operation, newBackOff(ctx, retry))
	if err == nil {
		return attempts, nil
	}

	var perm *backoff.PermanentError
	if errors.As(err, &perm) {
		err = perm.Err
	}
	if !permanent && retry != nil && retry.MaxAttempts > 1 && attempts >= retry.MaxAttempts {
		return attempts, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, err)
	}
	return attempts, err
}

// newBackOff builds the retry schedule. No retry config means one attempt.
func newBackOff(ctx context.Context, retry *RetryConfig) backoff.BackOffContext {
	if retry == nil || retry.MaxAttempts <= 1 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}

	var b backoff.BackOff
	switch retry.Backoff {
	case BackoffExponential:
		exp := backoff.NewExponentialBackOff()
		exp.InitialInterval = retry.Delay
		exp.MaxElapsedTime = 0
		b = exp
	default:
		b = backoff.NewConstantBackOff(retry.Delay)
	}

	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retry.MaxAttempts-1)), ctx)
}

func roomOf(state *room.State, intent rule.FiringIntent) string {
	if intent.Event != nil {
		return intent.Event.RoomID()
	}
	if state != nil {
		return state.RoomID
	}
	return ""
}

// GetRegistry returns the action registry used by this executor.
func (e *Executor) GetRegistry() *Registry {
	return e.registry
}
