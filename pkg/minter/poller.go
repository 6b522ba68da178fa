package minter

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lisanmuaddib/mintbot/pkg/wallet"
	"github.com/sirupsen/logrus"
)

// DefaultInterval is the pause between two attempts.
const DefaultInterval = 500 * time.Millisecond

// FeeSource returns the current fee snapshot.
type FeeSource interface {
	FeeSnapshot(ctx context.Context) (*wallet.FeeData, error)
}

// Delayer suspends the loop between attempts.
type Delayer interface {
	Wait(ctx context.Context, d time.Duration) error
}

// TimerDelayer waits on a timer and returns early on cancellation.
type TimerDelayer struct{}

func (TimerDelayer) Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// PollerOptions tunes the loop.
type PollerOptions struct {
	// Interval is the delay after every unsuccessful attempt
	Interval time.Duration

	// CallTimeout bounds one attempt's network calls; zero means no timeout
	CallTimeout time.Duration

	// Delayer defaults to TimerDelayer
	Delayer Delayer
}

// Poller drives fee checks and mint attempts until the first submission.
type Poller struct {
	fees     FeeSource
	policy   Policy
	executor *Executor
	options  PollerOptions
	logger   *logrus.Logger
}

// NewPoller wires the loop.
func NewPoller(fees FeeSource, policy Policy, executor *Executor, logger *logrus.Logger, options PollerOptions) *Poller {
	if options.Interval <= 0 {
		options.Interval = DefaultInterval
	}
	if options.Delayer == nil {
		options.Delayer = TimerDelayer{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Poller{
		fees:     fees,
		policy:   policy,
		executor: executor,
		options:  options,
		logger:   logger,
	}
}

// Run repeats RunOnce with the configured delay in between. It returns the
// first successful result, or the context error once ctx is done.
func (p *Poller) Run(ctx context.Context) (AttemptResult, error) {
	log := p.logger.WithFields(logrus.Fields{
		"policy":   p.policy.Name(),
		"interval": p.options.Interval,
	})
	log.Info("Starting mint polling")

	for {
		if err := ctx.Err(); err != nil {
			return AttemptResult{}, err
		}

		result := p.RunOnce(ctx)
		if result.Succeeded() {
			return result, nil
		}

		if err := p.options.Delayer.Wait(ctx, p.options.Interval); err != nil {
			log.WithError(err).Info("Stopping mint polling")
			return result, err
		}
	}
}

// RunOnce performs a single iteration: snapshot, decide, attempt, report.
func (p *Poller) RunOnce(ctx context.Context) AttemptResult {
	attemptID := uuid.NewString()
	log := p.logger.WithField("attempt_id", attemptID)
	log.Info("---------------------------------------------")

	if p.options.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.options.CallTimeout)
		defer cancel()
	}

	result := p.attempt(ctx, log)
	result.AttemptID = attemptID
	p.report(log, result)
	return result
}

func (p *Poller) attempt(ctx context.Context, log *logrus.Entry) AttemptResult {
	fee, err := p.fees.FeeSnapshot(ctx)
	if err != nil {
		return AttemptResult{Err: Normalize(StageFees, err, nil)}
	}

	decision := p.policy.Decide(fee)
	log.WithField("policy", decision.Policy).Infof("Current Base Fee: %s Gwei", wallet.WeiToGwei(decision.BaseFee))
	log.Infof("Current Priority Fee: %s Gwei", wallet.WeiToGwei(fee.MaxPriorityFeePerGas))
	log.WithField("priority_fee_gwei", wallet.WeiToGwei(decision.PriorityFee)).
		Infof("Trying Total Gas Fee: %s Gwei", wallet.WeiToGwei(decision.TotalFee))

	if decision.Exceeded() {
		return AttemptResult{
			Decision: decision,
			Err: &AttemptError{
				Kind:  KindSkipped,
				Stage: StageFeeCheck,
				Err:   ErrCeilingExceeded,
			},
		}
	}

	return p.executor.Attempt(ctx, log, decision)
}

func (p *Poller) report(log *logrus.Entry, result AttemptResult) {
	if result.Succeeded() {
		log.WithField("tx_hash", result.TxHash.Hex()).Info("Mint submitted")
		return
	}

	attemptErr := result.Err
	switch attemptErr.Kind {
	case KindSkipped:
		log.Infof("Exit. Total Gas %s Gwei > MAX_GAS", wallet.WeiToGwei(result.Decision.TotalFee))
	case KindReverted:
		log.WithFields(logrus.Fields{
			"stage":  attemptErr.Stage,
			"revert": attemptErr.Payload,
		}).Warn("Mint would revert")
	default:
		log.WithFields(logrus.Fields{
			"stage":  attemptErr.Stage,
			"kind":   attemptErr.Kind,
			"detail": attemptErr.Payload,
			"error":  attemptErr.Err,
		}).Warn("Mint attempt failed")
	}
}
