package source

import (
	"time"

	"github.com/theirongolddev/cplan/internal/model"
)

// Options selects where a session's card comes from.
type Options struct {
	CardFile    string // TOML card; empty means the sample account
	SpendingCSV string // optional extra history appended to the card
	Now         time.Time
}

// Load builds the card for a session. ParseErrors counts skipped CSV rows.
func Load(opts Options) (card model.CardAccount, parseErrors int, err error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}

	if opts.CardFile != "" {
		card, err = LoadCardFile(opts.CardFile)
		if err != nil {
			return model.CardAccount{}, 0, err
		}
	} else {
		card = SampleCard(opts.Now)
	}

	if opts.SpendingCSV != "" {
		res, err := ReadSpendingFile(opts.SpendingCSV)
		if err != nil {
			return model.CardAccount{}, 0, err
		}
		for _, e := range res.Entries {
			card.AppendSpending(e)
		}
		parseErrors = res.ParseErrors
	}

	return card, parseErrors, nil
}
