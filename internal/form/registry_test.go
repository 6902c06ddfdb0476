package form

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fadilmartias/resume-ai/internal/dto"
	"github.com/stretchr/testify/assert"
)

func TestRegistryMountReplacesView(t *testing.T) {
	r := NewRegistry(&fakeGenerator{}, 0)

	first := r.Mount("visitor")
	assert.Same(t, first, r.Current("visitor"))

	second := r.Mount("visitor")
	assert.NotSame(t, first, second)
	assert.Same(t, second, r.Current("visitor"))

	outcome, _ := first.Submit(context.Background())
	assert.Equal(t, OutcomeClosed, outcome)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryRemountCancelsInFlightRequest(t *testing.T) {
	gen := &fakeGenerator{
		result:  &dto.GenerationResult{RecruiterMessage: "A", CoverLetter: "B"},
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	r := NewRegistry(gen, 0)

	c := r.Current("visitor")
	c.SetResume(resume())
	c.SetJobDescription("Backend engineer")

	done := make(chan Outcome, 1)
	go func() {
		outcome, _ := c.Submit(context.Background())
		done <- outcome
	}()
	<-gen.started

	fresh := r.Mount("visitor")
	assert.Equal(t, OutcomeClosed, <-done)
	assert.Nil(t, fresh.Result())
	assert.Nil(t, fresh.Submission().Resume)
}

func TestRegistryLookupAndUnmount(t *testing.T) {
	r := NewRegistry(&fakeGenerator{}, 0)

	_, ok := r.Lookup("visitor")
	assert.False(t, ok)

	c := r.Current("visitor")
	got, ok := r.Lookup("visitor")
	assert.True(t, ok)
	assert.Same(t, c, got)

	r.Unmount("visitor")
	_, ok = r.Lookup("visitor")
	assert.False(t, ok)
	assert.Zero(t, r.Len())
}

func TestRegistrySweep(t *testing.T) {
	r := NewRegistry(&fakeGenerator{}, 0)
	r.Current("a")
	r.Current("b")

	assert.Zero(t, r.Sweep(time.Hour))
	assert.Equal(t, 2, r.Sweep(-time.Second))
	assert.Zero(t, r.Len())
}

func TestRegistryCurrentMountsOnceUnderConcurrency(t *testing.T) {
	r := NewRegistry(&fakeGenerator{}, 0)

	const n = 32
	got := make([]*Controller, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = r.Current("visitor")
		}(i)
	}
	wg.Wait()

	for _, c := range got {
		assert.Same(t, got[0], c)
	}
	assert.Equal(t, 1, r.Len())

	outcome, _ := got[0].Submit(context.Background())
	assert.Equal(t, OutcomeIncomplete, outcome)
}
