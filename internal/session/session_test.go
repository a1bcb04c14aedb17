package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/cplan/internal/advisor"
	"github.com/theirongolddev/cplan/internal/model"
	"github.com/theirongolddev/cplan/internal/pipeline"
)

func testCard() model.CardAccount {
	return model.CardAccount{
		ID:             "card-123",
		Name:           "Student Discover IT",
		CreditLimit:    decimal.NewFromInt(1500),
		CurrentBalance: decimal.NewFromInt(450),
		MinPaymentDue:  decimal.NewFromInt(35),
		PaymentDueDate: time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC),
		SpendingHistory: []model.SpendingEntry{
			{Date: time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromFloat(25.5), Description: "Coffee"},
		},
	}
}

type stubSelector struct {
	has     bool
	hasErr  error
	openErr error
	opened  int
}

func (s *stubSelector) HasSelectedKey(context.Context) (bool, error) { return s.has, s.hasErr }

func (s *stubSelector) OpenSelectKey(context.Context) error {
	s.opened++
	return s.openErr
}

func TestNewClampsScore(t *testing.T) {
	st := New(testCard(), 900)
	assert.Equal(t, model.MaxCreditScore, st.Score)
	assert.False(t, st.CredentialSelected)
	assert.False(t, st.Loading)
}

func TestCheckCredential(t *testing.T) {
	ctx := context.Background()
	st := New(testCard(), 720)

	assert.True(t, CheckCredential(ctx, st, nil).CredentialSelected, "missing selector assumes a key")
	assert.True(t, CheckCredential(ctx, st, &stubSelector{has: true}).CredentialSelected)
	assert.False(t, CheckCredential(ctx, st, &stubSelector{}).CredentialSelected)

	got := CheckCredential(ctx, st, &stubSelector{has: true, hasErr: errors.New("boom")})
	assert.False(t, got.CredentialSelected)
	assert.Equal(t, "boom", got.Error)
}

func TestCheckCredentialClearsStaleKeyErrors(t *testing.T) {
	ctx := context.Background()
	for _, msg := range []string{MsgSelectKeyFirst, MsgSelectorUnavailable, MsgMissingKey, advisor.RemediationMessage} {
		st := New(testCard(), 720)
		st.Error = msg

		assert.Equal(t, msg, CheckCredential(ctx, st, &stubSelector{}).Error, "kept while no key")
		assert.Empty(t, CheckCredential(ctx, st, &stubSelector{has: true}).Error)
	}

	st := New(testCard(), 720)
	st.Error = MsgEmptyResponse
	assert.Equal(t, MsgEmptyResponse, CheckCredential(ctx, st, &stubSelector{has: true}).Error)
}

func TestSelectCredential(t *testing.T) {
	ctx := context.Background()
	st := New(testCard(), 720)

	got := SelectCredential(ctx, st, nil)
	assert.False(t, got.CredentialSelected)
	assert.Equal(t, MsgSelectorUnavailable, got.Error)

	sel := &stubSelector{}
	got = SelectCredential(ctx, got, sel)
	assert.Equal(t, 1, sel.opened)
	assert.True(t, got.CredentialSelected)
	assert.Empty(t, got.Error)

	got = SelectCredential(ctx, st, &stubSelector{openErr: errors.New("cancelled")})
	assert.False(t, got.CredentialSelected)
	assert.Equal(t, "cancelled", got.Error)
}

func TestFinishSelectionCancelledKeepsState(t *testing.T) {
	st := New(testCard(), 720)
	st.Error = advisor.RemediationMessage

	got := FinishSelection(st, ErrSelectionCancelled)
	assert.False(t, got.CredentialSelected)
	assert.Equal(t, advisor.RemediationMessage, got.Error)

	got = FinishSelection(st, nil)
	assert.True(t, got.CredentialSelected)
	assert.Empty(t, got.Error)
}

func TestChosenKeyOutranksFallback(t *testing.T) {
	var nilKey *ChosenKey
	assert.Empty(t, nilKey.Get())
	assert.Equal(t, "env", nilKey.Or(func() string { return "env" })())

	chosen := &ChosenKey{}
	lookup := chosen.Or(func() string { return "env" })
	assert.Equal(t, "env", lookup())

	chosen.Set("  picked  ")
	assert.Equal(t, "picked", lookup())
	assert.Empty(t, (&ChosenKey{}).Or(nil)())
}

func TestEnvSelector(t *testing.T) {
	ctx := context.Background()
	key := ""
	sel := EnvSelector{Lookup: func() string { return key }}

	ok, err := sel.HasSelectedKey(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	key = "abc"
	ok, _ = sel.HasSelectedKey(ctx)
	assert.True(t, ok)

	assert.ErrorIs(t, sel.OpenSelectKey(ctx), ErrSelectorUnavailable)

	prompted := false
	sel.Prompt = func(context.Context) error { prompted = true; return nil }
	require.NoError(t, sel.OpenSelectKey(ctx))
	assert.True(t, prompted)
}

func TestBeginGuidanceRequiresCredential(t *testing.T) {
	st := New(testCard(), 720)
	got, ok := BeginGuidance(st)
	assert.False(t, ok)
	assert.False(t, got.Loading)
	assert.Equal(t, MsgSelectKeyFirst, got.Error)
}

func TestBeginGuidanceRefusesOverlap(t *testing.T) {
	st := New(testCard(), 720)
	st.CredentialSelected = true
	st.Guidance = "old advice"
	st.Error = "old error"

	st, ok := BeginGuidance(st)
	require.True(t, ok)
	assert.True(t, st.Loading)
	assert.Empty(t, st.Guidance)
	assert.Empty(t, st.Error)

	again, ok := BeginGuidance(st)
	assert.False(t, ok)
	assert.Equal(t, st, again)
}

func TestFinishGuidance(t *testing.T) {
	st := New(testCard(), 720)
	st.CredentialSelected = true
	st, _ = BeginGuidance(st)

	done := FinishGuidance(st, "Pay in full.", nil)
	assert.False(t, done.Loading)
	assert.Equal(t, "Pay in full.", done.Guidance)
	assert.True(t, done.CredentialSelected)
}

func TestFinishGuidanceCredentialInvalidResetsSelection(t *testing.T) {
	st := New(testCard(), 720)
	st.CredentialSelected = true
	st, _ = BeginGuidance(st)

	err := &advisor.CredentialInvalidError{Cause: errors.New("Requested entity was not found.")}
	done := FinishGuidance(st, "", err)
	assert.False(t, done.Loading)
	assert.False(t, done.CredentialSelected)
	assert.Equal(t, advisor.RemediationMessage, done.Error)
}

func TestErrorMessage(t *testing.T) {
	assert.Empty(t, ErrorMessage(nil))
	assert.Equal(t, MsgMissingKey, ErrorMessage(&advisor.ConfigurationError{Reason: "x"}))
	assert.Equal(t, MsgEmptyResponse, ErrorMessage(advisor.ErrEmptyResponse))
	assert.Equal(t, MsgUnknownGuidanceError, ErrorMessage(advisor.ErrUnknown))
	assert.Equal(t, "Failed to get guidance: quota exceeded",
		ErrorMessage(&advisor.GuidanceFailure{Cause: errors.New("quota exceeded")}))
	assert.Equal(t, "other", ErrorMessage(errors.New("other")))
}

func TestSimulateLeavesScore(t *testing.T) {
	st := New(testCard(), 840)
	got := Simulate(st, model.ActionPayment, decimal.NewFromInt(1000))

	require.NotNil(t, got.Simulated)
	assert.Equal(t, model.CreditScore(850), *got.Simulated)
	assert.Equal(t, model.CreditScore(840), got.Score)
	assert.Nil(t, st.Simulated)
}

func TestAddSpendingDoesNotAlias(t *testing.T) {
	st := New(testCard(), 720)
	entry := model.SpendingEntry{Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(12)}

	next := AddSpending(st, entry)
	assert.Len(t, next.Card.SpendingHistory, 2)
	assert.Len(t, st.Card.SpendingHistory, 1)
	assert.True(t, next.Card.CurrentBalance.Equal(st.Card.CurrentBalance))
}

func TestSummarize(t *testing.T) {
	sum := Summarize(New(testCard(), 720), pipeline.DefaultThresholds())
	assert.InDelta(t, 0.3, sum.Utilization, 1e-9)
	assert.InDelta(t, 30.0, sum.Percent, 1e-9)
	assert.Equal(t, model.LevelWarning, sum.Level)
	assert.True(t, sum.Available.Equal(decimal.NewFromInt(1050)))
	require.Len(t, sum.Bills, 1)
	assert.Equal(t, "Student Discover IT Minimum Payment", sum.Bills[0].Name)
	assert.True(t, sum.TotalSpend.Equal(decimal.NewFromFloat(25.5)))
}
