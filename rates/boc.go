// Package rates provides USD to CAD exchange rates from the Bank of Canada
// Valet API, with month-level fetching, disk caching, and the fallback
// policy used for tax reporting: when a day has no observation (weekend,
// holiday), the latest observation of the same calendar month applies.
package rates

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"sync"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/equity"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the Bank of Canada Valet API endpoint.
const DefaultBaseURL = "https://www.bankofcanada.ca/valet"

// series is the Valet identifier for the USD to CAD daily noon rate.
const series = "FXUSDCAD"

var (
	// ErrFutureDate reports a lookup for a date later than today.
	ErrFutureDate = errors.New("cannot look up a rate for a future date")

	// ErrNoData reports a month with no observations at or before the
	// requested day.
	ErrNoData = errors.New("no rate observation available")
)

// observation is one published rate for one day.
type observation struct {
	on   equity.Date
	rate decimal.Decimal
}

// BankOfCanada is a RateProvider over the Valet API. One request covers a
// whole calendar month; months are kept in memory for the run and on disk
// across runs. Safe for concurrent use.
type BankOfCanada struct {
	// BaseURL overrides the Valet endpoint, for tests.
	BaseURL string

	client *http.Client

	mu     sync.Mutex
	months map[equity.Date][]observation // keyed by first day of month, sorted by day
}

// NewBankOfCanada creates a provider backed by the disk-caching HTTP client.
func NewBankOfCanada() *BankOfCanada {
	return &BankOfCanada{
		BaseURL: DefaultBaseURL,
		client:  newCachingClient(),
		months:  make(map[equity.Date][]observation),
	}
}

// Rate implements equity.RateProvider. It returns the exact-day observation
// when one exists, otherwise the latest observation of the same calendar
// month. Only a month with no observations at all fails with ErrNoData.
func (b *BankOfCanada) Rate(on equity.Date) (decimal.Decimal, error) {
	if on.After(equity.Today()) {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrFutureDate, on)
	}

	obs, err := b.month(on.StartOfMonth())
	if err != nil {
		return decimal.Decimal{}, err
	}
	if len(obs) == 0 {
		return decimal.Decimal{}, fmt.Errorf("%w: no observation in %s", ErrNoData, on.Format("2006-01"))
	}

	// The observations are sorted, so we can use binary search.
	i, found := slices.BinarySearchFunc(obs, on, func(o observation, day equity.Date) int {
		if o.on.After(day) {
			return 1
		}
		if o.on.Before(day) {
			return -1
		}
		return 0
	})
	if found {
		return obs[i].rate, nil
	}
	// Nothing published for that day (weekend, holiday): the month's latest
	// observation applies.
	return obs[len(obs)-1].rate, nil
}

// Prefetch fetches the months covering all given dates concurrently, before
// the sequential pass begins. Lookups have no side effects, so the pass
// consumes the cached months synchronously.
func (b *BankOfCanada) Prefetch(days []equity.Date) error {
	months := make(map[equity.Date]bool)
	for _, day := range days {
		if !day.After(equity.Today()) {
			months[day.StartOfMonth()] = true
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, 0, len(months))
	var errMu sync.Mutex
	for month := range months {
		wg.Add(1)
		go func(month equity.Date) {
			defer wg.Done()
			if _, err := b.month(month); err != nil {
				errMu.Lock()
				errs = append(errs, err)
				errMu.Unlock()
			}
		}(month)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// month returns the observations for the month starting at the given day,
// fetching them once.
func (b *BankOfCanada) month(start equity.Date) ([]observation, error) {
	b.mu.Lock()
	obs, ok := b.months[start]
	b.mu.Unlock()
	if ok {
		return obs, nil
	}

	obs, err := b.fetch(start)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.months[start] = obs
	b.mu.Unlock()
	return obs, nil
}

/*
	{
	    "observations": [
	        {
	            "d": "2024-01-02",
	            "FXUSDCAD": { "v": "1.3316" }
	        }
	    ]
	}
*/
func (b *BankOfCanada) fetch(start equity.Date) ([]observation, error) {
	end := start.EndOfMonth()
	addr := fmt.Sprintf("%s/observations/%s/json?start_date=%s&end_date=%s",
		b.BaseURL, series, url.QueryEscape(start.String()), url.QueryEscape(end.String()))

	var jobj any
	if err := jwget(b.client, addr, &jobj); err != nil {
		return nil, fmt.Errorf("error retrieving %s for %s: %w", series, start.Format("2006-01"), err)
	}

	path := "$.observations"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s response: %q %w", series, path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing %s response: %q is not a list", series, path)
	}

	obs := make([]observation, 0, len(jlist))
	for _, item := range jlist {
		jmap, ok := item.(map[string]any)
		if !ok {
			continue
		}
		dstr, _ := jmap["d"].(string)
		on, err := equity.ParseDate(dstr)
		if err != nil {
			return nil, fmt.Errorf("invalid observation date %q: %w", dstr, err)
		}
		jrate, ok := jmap[series].(map[string]any)
		if !ok {
			continue
		}
		vstr, _ := jrate["v"].(string)
		rate, err := decimal.NewFromString(vstr)
		if err != nil {
			return nil, fmt.Errorf("invalid observation value %q on %s: %w", vstr, on, err)
		}
		obs = append(obs, observation{on: on, rate: rate})
	}

	// The API returns observations in chronological order; sort anyway so
	// the binary search never depends on it.
	slices.SortFunc(obs, func(a, b observation) int {
		if a.on.Before(b.on) {
			return -1
		}
		if a.on.After(b.on) {
			return 1
		}
		return 0
	})
	return obs, nil
}

var _ equity.RateProvider = (*BankOfCanada)(nil)
