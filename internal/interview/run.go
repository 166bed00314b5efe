package interview

import (
	"context"
	"errors"
	"time"

	"github.com/spigell/interview-coach/internal/candidate"
)

type EventKind int

const (
	EventQuestion EventKind = iota
	EventTick
	EventHint
	EventAnswer
	EventCompleted
)

// Event reports session progress to the front end.
type Event struct {
	Kind      EventKind
	Slot      int
	Question  candidate.Question
	Remaining int
	Answer    candidate.Answer
	Candidate *candidate.Candidate
}

// Run starts the session if needed and drives it until completion. Every
// string received on answers is submitted for the active question; a closed
// channel or a cancelled ctx abandons the session.
//
// The countdown ticker is stopped while the gateway is being called, so a
// slow evaluation never produces a backlog of ticks.
func (o *Orchestrator) Run(ctx context.Context, answers <-chan string, notify func(Event)) error {
	if notify == nil {
		notify = func(Event) {}
	}

	if o.state == AwaitingQuestion && o.slot == 0 {
		if err := o.Start(ctx); err != nil {
			return err
		}
	}
	if err := o.active(); err != nil {
		return err
	}
	notify(o.questionEvent())

	ticker := time.NewTicker(o.tickInterval)
	defer ticker.Stop()

	for {
		before := len(o.candidate.Answers)
		hinted := o.hint
		var err error

		select {
		case <-ctx.Done():
			o.Abandon()
			return ctx.Err()
		case text, ok := <-answers:
			if !ok {
				o.Abandon()
				return ErrAbandoned
			}
			o.SetAnswer(text)
			err = o.paused(ctx, ticker, o.Submit)
		case <-ticker.C:
			err = o.paused(ctx, ticker, o.Tick)
		}

		if len(o.candidate.Answers) > before {
			notify(Event{Kind: EventAnswer, Slot: len(o.candidate.Answers), Answer: o.candidate.Answers[len(o.candidate.Answers)-1]})
		}

		switch o.state {
		case Completed:
			notify(Event{Kind: EventCompleted, Candidate: o.candidate})
			return err
		case Abandoned:
			if err == nil {
				err = ErrAbandoned
			}
			return err
		}
		if err != nil && !errors.Is(err, ErrNotActive) {
			return err
		}

		switch {
		case len(o.candidate.Answers) > before:
			notify(o.questionEvent())
		case o.hint && !hinted:
			notify(Event{Kind: EventHint, Slot: o.slot, Remaining: o.remaining})
		default:
			notify(Event{Kind: EventTick, Slot: o.slot, Remaining: o.remaining})
		}
	}
}

func (o *Orchestrator) paused(ctx context.Context, ticker *time.Ticker, step func(context.Context) error) error {
	ticker.Stop()
	defer ticker.Reset(o.tickInterval)
	return step(ctx)
}

func (o *Orchestrator) questionEvent() Event {
	return Event{Kind: EventQuestion, Slot: o.slot, Question: o.question, Remaining: o.remaining}
}
