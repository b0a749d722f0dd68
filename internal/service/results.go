package service

import (
	"github.com/secretmenu/secretmenu-server/internal/domain"
	domainerrors "github.com/secretmenu/secretmenu-server/internal/errors"
)

// ResultKind tells which variant a create result holds.
type ResultKind int

// Result variants. Success carries the entity, AlreadyExists the existing
// one, LimitReached nothing, Error the failure.
const (
	ResultSuccess ResultKind = iota
	ResultAlreadyExists
	ResultLimitReached
	ResultError
)

func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultAlreadyExists:
		return "already_exists"
	case ResultLimitReached:
		return "limit_reached"
	case ResultError:
		return "error"
	default:
		return "unknown"
	}
}

// PlaceResult is the outcome of CreatePlace.
type PlaceResult struct {
	Kind  ResultKind
	Place *domain.Place // set for Success and AlreadyExists
	Err   error         // set for Error
}

// OrderResult is the outcome of CreateOrder.
type OrderResult struct {
	Kind  ResultKind
	Order *domain.Order // set for Success
	Err   error         // set for Error
}

func placeSuccess(p *domain.Place) PlaceResult { return PlaceResult{Kind: ResultSuccess, Place: p} }
func placeAlreadyExists(p *domain.Place) PlaceResult {
	return PlaceResult{Kind: ResultAlreadyExists, Place: p}
}
func placeLimitReached() PlaceResult   { return PlaceResult{Kind: ResultLimitReached} }
func placeError(err error) PlaceResult { return PlaceResult{Kind: ResultError, Err: err} }

func orderSuccess(o *domain.Order) OrderResult { return OrderResult{Kind: ResultSuccess, Order: o} }
func orderLimitReached() OrderResult           { return OrderResult{Kind: ResultLimitReached} }
func orderError(err error) OrderResult         { return OrderResult{Kind: ResultError, Err: err} }

// AsError converts the result into a domain error for transports that only
// speak errors. Success yields nil.
func (r PlaceResult) AsError() error {
	switch r.Kind {
	case ResultSuccess:
		return nil
	case ResultAlreadyExists:
		return domainerrors.AlreadyExistsf("place %q already exists", r.Place.Name).
			WithDetails(map[string]string{"place_id": r.Place.ID})
	case ResultLimitReached:
		return domainerrors.LimitReached("free place limit reached")
	default:
		return r.Err
	}
}

// AsError converts the result into a domain error. Success yields nil.
func (r OrderResult) AsError() error {
	switch r.Kind {
	case ResultSuccess:
		return nil
	case ResultLimitReached:
		return domainerrors.LimitReached("order limit reached")
	default:
		return r.Err
	}
}
