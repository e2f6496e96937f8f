package statemachine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/checkoutkit/pkg/statemachine"
)

const (
	stateDraft     = statemachine.StringState("draft")
	statePending   = statemachine.StringState("pending")
	stateConfirmed = statemachine.StringState("confirmed")

	eventSubmit  = statemachine.StringEvent("submit")
	eventConfirm = statemachine.StringEvent("confirm")
)

func TestMachine_Fire(t *testing.T) {
	t.Parallel()

	t.Run("follows configured transitions", func(t *testing.T) {
		t.Parallel()

		sm := statemachine.MustNew(stateDraft,
			statemachine.WithTransition(stateDraft, statePending, eventSubmit, nil, nil),
			statemachine.WithTransition(statePending, stateConfirmed, eventConfirm, nil, nil),
		)

		require.NoError(t, sm.Fire(context.Background(), eventSubmit, nil))
		assert.Equal(t, statePending, sm.Current())

		require.NoError(t, sm.Fire(context.Background(), eventConfirm, nil))
		assert.Equal(t, stateConfirmed, sm.Current())
	})

	t.Run("rejects events with no transition", func(t *testing.T) {
		t.Parallel()

		sm := statemachine.MustNew(stateDraft,
			statemachine.WithTransition(stateDraft, statePending, eventSubmit, nil, nil),
		)

		err := sm.Fire(context.Background(), eventConfirm, nil)
		require.Error(t, err)
		assert.True(t, statemachine.IsNoTransition(err))
		assert.Equal(t, stateDraft, sm.Current())
	})

	t.Run("guards block transitions", func(t *testing.T) {
		t.Parallel()

		allow := false
		guard := func(ctx context.Context, from statemachine.State, event statemachine.Event, data any) bool {
			return allow
		}

		sm := statemachine.MustNew(stateDraft,
			statemachine.WithTransition(stateDraft, statePending, eventSubmit, []statemachine.Guard{guard}, nil),
		)

		err := sm.Fire(context.Background(), eventSubmit, nil)
		require.Error(t, err)
		assert.True(t, statemachine.IsRejected(err))
		assert.False(t, sm.CanFire(context.Background(), eventSubmit, nil))

		allow = true
		require.NoError(t, sm.Fire(context.Background(), eventSubmit, nil))
		assert.Equal(t, statePending, sm.Current())
	})

	t.Run("failing action aborts transition", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		action := func(ctx context.Context, from, to statemachine.State, event statemachine.Event, data any) error {
			return boom
		}

		sm := statemachine.MustNew(stateDraft,
			statemachine.WithTransition(stateDraft, statePending, eventSubmit, nil, []statemachine.Action{action}),
		)

		err := sm.Fire(context.Background(), eventSubmit, nil)
		require.ErrorIs(t, err, boom)
		assert.Equal(t, stateDraft, sm.Current())
	})

	t.Run("guard branching picks first passing candidate", func(t *testing.T) {
		t.Parallel()

		deny := func(ctx context.Context, from statemachine.State, event statemachine.Event, data any) bool {
			return false
		}

		sm := statemachine.MustNew(stateDraft,
			statemachine.WithTransition(stateDraft, stateConfirmed, eventSubmit, []statemachine.Guard{deny}, nil),
			statemachine.WithTransition(stateDraft, statePending, eventSubmit, nil, nil),
		)

		require.NoError(t, sm.Fire(context.Background(), eventSubmit, nil))
		assert.Equal(t, statePending, sm.Current())
	})
}

func TestMachine_Reset(t *testing.T) {
	t.Parallel()

	sm := statemachine.MustNew(stateDraft,
		statemachine.WithTransition(stateDraft, statePending, eventSubmit, nil, nil),
	)

	require.NoError(t, sm.Fire(context.Background(), eventSubmit, nil))
	require.Equal(t, statePending, sm.Current())

	sm.Reset()
	assert.Equal(t, stateDraft, sm.Current())
}

func TestNew_NilInitialState(t *testing.T) {
	t.Parallel()

	_, err := statemachine.New(nil)
	require.Error(t, err)
}
