package assets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dispatchUntil calls Dispatch until n completions have run.
func dispatchUntil(t *testing.T, l *Loader, n int) {
	t.Helper()
	ran := 0
	require.Eventually(t, func() bool {
		ran += l.Dispatch()
		return ran >= n
	}, time.Second, time.Millisecond)
}

func TestLoaderDispatchesOnCaller(t *testing.T) {
	l := NewLoader(context.Background(), LoaderOptions{})
	defer l.Close()

	var got Result[int]
	called := false
	f := Go(l, "answer", func(context.Context) (int, error) { return 42, nil }, func(r Result[int]) {
		got = r
		called = true
	})

	res, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, res.Value)
	assert.False(t, called, "callbacks only run inside Dispatch")
	assert.Equal(t, 1, l.Pending())

	dispatchUntil(t, l, 1)
	assert.True(t, called)
	assert.Equal(t, 42, got.Value)
	assert.NoError(t, got.Err)
	assert.Zero(t, l.Pending())
}

func TestLoaderIgnoreFailure(t *testing.T) {
	reported := false
	l := NewLoader(context.Background(), LoaderOptions{
		Policy: IgnoreFailure,
		Report: func(string, error) { reported = true },
	})
	defer l.Close()

	boom := errors.New("boom")
	var got Result[string]
	Go(l, "env", func(context.Context) (string, error) { return "", boom }, func(r Result[string]) { got = r })

	dispatchUntil(t, l, 1)
	assert.ErrorIs(t, got.Err, boom)
	assert.False(t, reported)
}

func TestLoaderReportFailure(t *testing.T) {
	var reportedName string
	var reportedErr error
	l := NewLoader(context.Background(), LoaderOptions{
		Policy: ReportFailure,
		Report: func(name string, err error) { reportedName, reportedErr = name, err },
	})
	defer l.Close()

	boom := errors.New("boom")
	Go(l, "model", func(context.Context) (int, error) { return 0, boom }, nil)

	dispatchUntil(t, l, 1)
	assert.Equal(t, "model", reportedName)
	assert.ErrorIs(t, reportedErr, boom)
}

func TestLoaderRecoversPanickingLoad(t *testing.T) {
	var reported error
	l := NewLoader(context.Background(), LoaderOptions{
		Policy: ReportFailure,
		Report: func(_ string, err error) { reported = err },
	})
	defer l.Close()

	var got Result[int]
	Go(l, "model", func(context.Context) (int, error) {
		var idx []int
		return idx[7], nil
	}, func(r Result[int]) { got = r })

	dispatchUntil(t, l, 1)
	assert.ErrorIs(t, got.Err, ErrLoadPanic)
	assert.ErrorIs(t, reported, ErrLoadPanic)
	assert.Zero(t, got.Value)
}

func TestLoaderChainedLoads(t *testing.T) {
	l := NewLoader(context.Background(), LoaderOptions{})
	defer l.Close()

	var order []string
	Go(l, "env", func(context.Context) (int, error) { return 0, errors.New("missing") }, func(Result[int]) {
		order = append(order, "env")
		Go(l, "model", func(context.Context) (int, error) { return 1, nil }, func(Result[int]) {
			order = append(order, "model")
		})
	})

	dispatchUntil(t, l, 2)
	assert.Equal(t, []string{"env", "model"}, order)
}

func TestFutureResultBeforeSettle(t *testing.T) {
	l := NewLoader(context.Background(), LoaderOptions{})
	release := make(chan struct{})
	f := Go(l, "slow", func(context.Context) (int, error) {
		<-release
		return 1, nil
	}, nil)

	_, ok := f.Result()
	assert.False(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	<-f.Done()
	res, ok := f.Result()
	assert.True(t, ok)
	assert.Equal(t, 1, res.Value)
	l.Close()
}

func TestLoaderCloseAbandonsCompletions(t *testing.T) {
	l := NewLoader(context.Background(), LoaderOptions{})
	for i := 0; i < 32; i++ {
		Go(l, "x", func(ctx context.Context) (int, error) { return i, nil }, nil)
	}
	done := make(chan struct{})
	go func() {
		l.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}
}

func TestParseFailurePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    FailurePolicy
		wantErr bool
	}{
		{"", IgnoreFailure, false},
		{"ignore", IgnoreFailure, false},
		{"report", ReportFailure, false},
		{"retry", IgnoreFailure, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFailurePolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.String(), map[FailurePolicy]string{IgnoreFailure: "ignore", ReportFailure: "report"}[got])
		})
	}
}
