package interview

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/spigell/interview-coach/internal/candidate"
)

func TestRunAutoSubmitsOnTimeout(t *testing.T) {
	t.Parallel()

	gw := &stubGateway{timeLimit: 2}
	store := &stubStore{}
	o := newTestOrchestrator(gw, store, fixedRandom(0))
	o.tickInterval = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	counts := map[EventKind]int{}
	err := o.Run(ctx, nil, func(e Event) { counts[e.Kind]++ })
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if counts[EventQuestion] != TotalQuestions || counts[EventAnswer] != TotalQuestions || counts[EventCompleted] != 1 {
		t.Fatalf("unexpected events: %v", counts)
	}
	for _, a := range o.Candidate().Answers {
		if a.Text != candidate.NoAnswer || a.TimeSpent != 2 {
			t.Fatalf("unexpected auto-submitted answer: %+v", a)
		}
	}
	if len(store.saved) != 2 {
		t.Fatalf("expected start and completion saves, got %v", store.saved)
	}
}

func TestRunSubmitsReceivedAnswers(t *testing.T) {
	t.Parallel()

	o := newTestOrchestrator(&stubGateway{}, &stubStore{}, fixedRandom(0))
	o.tickInterval = time.Hour

	answers := make(chan string, TotalQuestions)
	for i := 1; i <= TotalQuestions; i++ {
		answers <- fmt.Sprintf("answer %d", i)
	}

	var completed *candidate.Candidate
	err := o.Run(context.Background(), answers, func(e Event) {
		if e.Kind == EventCompleted {
			completed = e.Candidate
		}
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if completed == nil || len(completed.Answers) != TotalQuestions {
		t.Fatalf("expected completed candidate with %d answers", TotalQuestions)
	}
	if completed.Answers[5].Text != "answer 6" {
		t.Fatalf("unexpected last answer: %+v", completed.Answers[5])
	}
}

func TestRunClosedInputAbandons(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	o := newTestOrchestrator(&stubGateway{}, store, fixedRandom(0))
	o.tickInterval = time.Hour

	answers := make(chan string)
	close(answers)

	if err := o.Run(context.Background(), answers, nil); !errors.Is(err, ErrAbandoned) {
		t.Fatalf("expected ErrAbandoned, got %v", err)
	}
	if o.State() != Abandoned || len(store.saved) != 1 {
		t.Fatalf("expected abandoned session with only the start save, got %s %v", o.State(), store.saved)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	o := newTestOrchestrator(&stubGateway{}, store, fixedRandom(0))
	o.tickInterval = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	err := o.Run(ctx, nil, func(e Event) {
		if e.Kind == EventQuestion {
			cancel()
		}
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(store.saved) != 1 {
		t.Fatalf("no completion may be written, saves %v", store.saved)
	}
}
