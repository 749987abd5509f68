// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/corepool/api/utils"
	"github.com/vechain/corepool/logdb"
)

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Events {
	return &Events{
		db,
		logsLimit,
	}
}

// Filter query events with option
func (e *Events) filter(ctx context.Context, f *Filter) ([]*FilteredEvent, error) {
	events, err := e.db.FilterEvents(ctx, convertFilter(f))
	if err != nil {
		return nil, err
	}
	fes := make([]*FilteredEvent, len(events))
	for i, ev := range events {
		fes[i] = convertEvent(ev)
	}
	return fes, nil
}

func (e *Events) validate(f *Filter) error {
	if f.Options != nil && f.Options.Limit > e.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	if f.Options != nil && f.Options.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}
	if f.Range != nil {
		if f.Range.Unit != "" && f.Range.Unit != logdb.Block && f.Range.Unit != logdb.Time {
			return utils.BadRequest(fmt.Errorf("range.unit: unknown unit %q", f.Range.Unit))
		}
		if f.Range.From != nil && *f.Range.From > math.MaxInt64 {
			return utils.BadRequest(errors.New("range.from: out of range"))
		}
		if f.Range.To != nil && *f.Range.To > math.MaxInt64 {
			return utils.BadRequest(errors.New("range.to: out of range"))
		}
		if f.Range.From != nil && f.Range.To != nil && *f.Range.From > *f.Range.To {
			return utils.BadRequest(errors.New("range.to must be greater than or equal to range.from"))
		}
	}
	if f.Order != "" && f.Order != logdb.ASC && f.Order != logdb.DESC {
		return utils.BadRequest(fmt.Errorf("order: unknown order %q", f.Order))
	}
	for i, criteria := range f.CriteriaSet {
		if criteria == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
	}
	return nil
}

func (e *Events) query(w http.ResponseWriter, req *http.Request, f *Filter) error {
	if err := e.validate(f); err != nil {
		return err
	}
	if f.Options == nil {
		// one over the limit to detect results exceeding it
		limit := e.limit
		if limit < math.MaxUint64 {
			limit++
		}
		f.Options = &Options{Limit: limit}
	}
	fes, err := e.filter(req.Context(), f)
	if err != nil {
		return err
	}
	if uint64(len(fes)) > e.limit {
		return utils.Forbidden(fmt.Errorf("the number of filtered events exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}
	return utils.WriteJSON(w, fes)
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter Filter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return e.query(w, req, &filter)
}

func (e *Events) handleQuery(w http.ResponseWriter, req *http.Request) error {
	filter, err := parseQuery(req.URL.Query(), e.limit)
	if err != nil {
		return utils.BadRequest(err)
	}
	return e.query(w, req, filter)
}

// parseQuery builds a filter with at most one criteria from query parameters.
// A missing limit defaults to defLimit.
func parseQuery(q url.Values, defLimit uint64) (*Filter, error) {
	var (
		f        Filter
		criteria Criteria
		set      bool
	)
	if s := q.Get("address"); s != "" {
		addr, err := utils.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessage(err, "address")
		}
		criteria.Address, set = &addr, true
	}
	if s := q.Get("name"); s != "" {
		criteria.Name, set = &s, true
	}
	if s := q.Get("subject"); s != "" {
		addr, err := utils.ParseAddress(s)
		if err != nil {
			return nil, errors.WithMessage(err, "subject")
		}
		criteria.Subject, set = &addr, true
	}
	if set {
		f.CriteriaSet = []*Criteria{&criteria}
	}

	from, to := q.Get("from"), q.Get("to")
	if from != "" || to != "" || q.Get("unit") != "" {
		f.Range = &Range{Unit: logdb.RangeType(q.Get("unit"))}
		if from != "" {
			v, err := utils.StringToUint64(from, 0)
			if err != nil {
				return nil, errors.WithMessage(err, "from")
			}
			f.Range.From = &v
		}
		if to != "" {
			v, err := utils.StringToUint64(to, 0)
			if err != nil {
				return nil, errors.WithMessage(err, "to")
			}
			f.Range.To = &v
		}
	}

	if q.Get("offset") != "" || q.Get("limit") != "" {
		offset, err := utils.StringToUint64(q.Get("offset"), 0)
		if err != nil {
			return nil, errors.WithMessage(err, "offset")
		}
		limit, err := utils.StringToUint64(q.Get("limit"), defLimit)
		if err != nil {
			return nil, errors.WithMessage(err, "limit")
		}
		f.Options = &Options{Offset: offset, Limit: limit}
	}
	f.Order = logdb.Order(q.Get("order"))
	return &f, nil
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleQuery))
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
