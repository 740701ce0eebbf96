package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/Kerhoff/mizan/internal/repository"
)

// Sentinel errors returned by Service methods. The API maps each onto an
// HTTP status.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("already exists")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// validation collects input problems so they can be reported together
type validation struct {
	errs *multierror.Error
}

func (v *validation) check(ok bool, format string, args ...any) {
	if !ok {
		v.errs = multierror.Append(v.errs, fmt.Errorf(format, args...))
	}
}

// err returns nil when every check passed, otherwise an ErrInvalidInput
// listing all failures.
func (v *validation) err() error {
	if v.errs == nil {
		return nil
	}
	v.errs.ErrorFormat = func(es []error) string {
		msgs := make([]string, len(es))
		for i, e := range es {
			msgs[i] = e.Error()
		}
		return strings.Join(msgs, "; ")
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, v.errs.Error())
}

// fromRepo lifts repository sentinels onto service sentinels
func fromRepo(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}
