// Package service exposes the ledger over Connect RPC. Handlers validate
// the request message, call the ledger and map its errors to Connect codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/financery/internal/ledger"
	"github.com/mmynk/financery/pkg/api"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// date checks the dd.MM.yyyy wire format.
	err := v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := api.ParseDate(fl.Field().String())
		return err == nil
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register date validation: %v", err))
	}
	return v
}

// validateRequest checks the validate tags of msg.
func validateRequest(msg any) error {
	err := validate.Struct(msg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		msgs[i] = fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
	}
	return connect.NewError(connect.CodeInvalidArgument, errors.New(strings.Join(msgs, "; ")))
}

// toConnectError maps ledger errors to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	switch {
	case ledger.IsNotFound(err):
		return connect.NewError(connect.CodeNotFound, err)
	case ledger.IsInvalidInput(err):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case ledger.IsAlreadyExists(err):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case ledger.IsConflict(err):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// unary registers fn for procedure on mux. The request is validated
// before fn runs.
func unary[Req, Res any](mux *http.ServeMux, procedure string, fn func(context.Context, *Req) (*Res, error), opts []connect.HandlerOption) {
	mux.Handle(procedure, connect.NewUnaryHandler(
		procedure,
		func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
			if err := validateRequest(req.Msg); err != nil {
				return nil, err
			}
			res, err := fn(ctx, req.Msg)
			if err != nil {
				return nil, toConnectError(err)
			}
			return connect.NewResponse(res), nil
		},
		opts...,
	))
}

// handlerOptions puts the JSON codec ahead of the caller's options.
func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

// servicePath is the mux pattern that routes every procedure of a service.
func servicePath(name string) string {
	return "/" + name + "/"
}
