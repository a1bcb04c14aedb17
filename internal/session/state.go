// Package session holds the dashboard's UI state and the transitions the
// presentation layers apply to it. Every operation takes a State and returns
// the next one; nothing here is global.
package session

import (
	"context"
	"errors"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cplan/internal/advisor"
	"github.com/theirongolddev/cplan/internal/model"
	"github.com/theirongolddev/cplan/internal/pipeline"
)

// User-facing messages.
const (
	MsgSelectKeyFirst       = "Please select your Gemini API key first to get guidance."
	MsgSelectorUnavailable  = "API key selection not available in this environment."
	MsgMissingKey           = "API key is not defined. Set GEMINI_API_KEY or run `cplan setup`."
	MsgEmptyResponse        = "Gemini API returned an empty response."
	MsgUnknownGuidanceError = "An unknown error occurred while getting guidance."
)

// State is the full dashboard state for one session.
type State struct {
	Card  model.CardAccount
	Score model.CreditScore

	// Simulated is the last simulator result. It never replaces Score.
	Simulated *model.CreditScore

	CredentialSelected bool
	Loading            bool
	Guidance           string
	Error              string
}

// New starts a session for card at the given score.
func New(card model.CardAccount, score model.CreditScore) State {
	return State{
		Card:  card,
		Score: model.ClampScore(score),
	}
}

// CheckCredential asks the selector whether a key is already chosen. When
// one is, a stale credential error is cleared.
func CheckCredential(ctx context.Context, st State, sel KeySelector) State {
	ok, err := Resolve(sel).HasSelectedKey(ctx)
	if err != nil {
		st.CredentialSelected = false
		st.Error = err.Error()
		return st
	}
	st.CredentialSelected = ok
	if ok && isCredentialError(st.Error) {
		st.Error = ""
	}
	return st
}

// isCredentialError reports whether msg is one of the errors that a newly
// available key resolves.
func isCredentialError(msg string) bool {
	switch msg {
	case MsgSelectKeyFirst, MsgSelectorUnavailable, MsgMissingKey, advisor.RemediationMessage:
		return true
	}
	return false
}

// SelectCredential opens the selector. A successful open is taken as a
// selection; the selector does not report which key was chosen.
func SelectCredential(ctx context.Context, st State, sel KeySelector) State {
	return FinishSelection(st, Resolve(sel).OpenSelectKey(ctx))
}

// FinishSelection folds the result of opening a selector into st. Front ends
// that run the picker themselves call it with the picker's error.
func FinishSelection(st State, err error) State {
	switch {
	case errors.Is(err, ErrSelectionCancelled):
	case errors.Is(err, ErrSelectorUnavailable):
		st.Error = MsgSelectorUnavailable
	case err != nil:
		st.Error = err.Error()
	default:
		st.CredentialSelected = true
		st.Error = ""
	}
	return st
}

// BeginGuidance moves st into the loading state. It reports false, leaving
// the request unsent, when one is already in flight or no key is selected.
func BeginGuidance(st State) (State, bool) {
	if st.Loading {
		return st, false
	}
	if !st.CredentialSelected {
		st.Error = MsgSelectKeyFirst
		return st, false
	}
	st.Loading = true
	st.Error = ""
	st.Guidance = ""
	return st, true
}

// FinishGuidance folds a guidance result into st.
func FinishGuidance(st State, text string, err error) State {
	st.Loading = false
	if err != nil {
		st.Guidance = ""
		st.Error = ErrorMessage(err)
		var invalid *advisor.CredentialInvalidError
		if errors.As(err, &invalid) {
			st.CredentialSelected = false
		}
		return st
	}
	st.Guidance = text
	st.Error = ""
	return st
}

// Simulate records what-if score for an action. Score is left alone.
func Simulate(st State, action model.ScoreAction, amount decimal.Decimal) State {
	s := pipeline.SimulateScore(st.Score, action, amount)
	st.Simulated = &s
	return st
}

// AddSpending appends an entry to the card history without touching the
// balance. The previous State's history is not shared with the result.
func AddSpending(st State, e model.SpendingEntry) State {
	st.Card.SpendingHistory = append(slices.Clip(st.Card.SpendingHistory), e)
	return st
}

// GuidanceRequest snapshots st for the advisor.
func GuidanceRequest(st State) model.GuidanceRequest {
	return advisor.BuildRequest(st.Card, st.Score)
}

// ErrorMessage renders a guidance error for display.
func ErrorMessage(err error) string {
	var (
		cfgErr  *advisor.ConfigurationError
		invalid *advisor.CredentialInvalidError
		failure *advisor.GuidanceFailure
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &invalid):
		return advisor.RemediationMessage
	case errors.As(err, &cfgErr):
		return MsgMissingKey
	case errors.Is(err, advisor.ErrEmptyResponse):
		return MsgEmptyResponse
	case errors.Is(err, advisor.ErrUnknown):
		return MsgUnknownGuidanceError
	case errors.As(err, &failure):
		return "Failed to get guidance: " + failure.Cause.Error()
	}
	return err.Error()
}
