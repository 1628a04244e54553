package binder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"reflect"
	"regexp"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/shishobooks/cabinet/pkg/errcodes"
)

// DefaultMaxBodyBytes bounds JSON request bodies. A full search batch is a
// few kilobytes.
const DefaultMaxBodyBytes int64 = 1 << 20

var unknownFieldsRE = regexp.MustCompile(`^json: unknown field "(.*)"$`)

// Binder implements echo.Binder. GET requests bind from the query string and
// everything else from a JSON body. Bound values are cleaned up with mold,
// filled in with struct defaults, then validated.
type Binder struct {
	queryDecoder *schema.Decoder
	conform      *mold.Transformer
	validate     *validator.Validate
	maxBodyBytes int64
}

type Option func(*Binder)

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(b *Binder) {
		b.maxBodyBytes = n
	}
}

func New(opts ...Option) (*Binder, error) {
	queryDecoder := schema.NewDecoder()
	queryDecoder.SetAliasTag("query")

	validate := validator.New()
	// Report fields by the name clients send.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	b := &Binder{
		queryDecoder: queryDecoder,
		conform:      modifiers.New(),
		validate:     validate,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Bind binds, modifies, and validates payloads against the given struct.
func (b *Binder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()

	switch {
	case req.ContentLength != 0 && req.Body != nil && req.Body != http.NoBody:
		if err := b.bindJSON(i, c); err != nil {
			return err
		}
	case req.Method == http.MethodGet || req.Method == http.MethodHead:
		if err := b.bindQuery(i, c.QueryParams()); err != nil {
			return err
		}
	default:
		return errcodes.EmptyRequestBody()
	}

	return b.finish(req.Context(), i)
}

func (b *Binder) bindJSON(i interface{}, c echo.Context) error {
	req := c.Request()

	if !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return errcodes.UnsupportedMediaType()
	}

	body := http.MaxBytesReader(c.Response(), req.Body, b.maxBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	err := dec.Decode(i)
	if err == nil {
		return nil
	}

	if matches := unknownFieldsRE.FindStringSubmatch(err.Error()); len(matches) > 1 {
		return errcodes.UnknownParameter(matches[1])
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return errcodes.ValidationTypeError(strings.Trim(typeErr.Field, "."), formatUnmarshalTypeError(typeErr))
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errcodes.PayloadTooLarge(tooLarge.Limit)
	}

	logger.FromEchoContext(c).Err(err).Warn("unknown json decode error")
	return errcodes.MalformedPayload()
}

func (b *Binder) bindQuery(i interface{}, params url.Values) error {
	err := b.queryDecoder.Decode(i, params)
	if err == nil {
		return nil
	}

	errs, ok := err.(schema.MultiError)
	if !ok {
		return errors.WithStack(err)
	}

	// Report the first problem only; map order is random so pick the
	// alphabetically first key to keep responses stable.
	var first string
	for key := range errs {
		if first == "" || key < first {
			first = key
		}
	}

	switch err := errs[first].(type) {
	case schema.ConversionError:
		return errcodes.ValidationTypeError(err.Key, formatSchemaConversionError(err))
	case schema.UnknownKeyError:
		return errcodes.UnknownParameter(err.Key)
	default:
		return errors.WithStack(err)
	}
}

func (b *Binder) finish(ctx context.Context, i interface{}) error {
	if err := b.conform.Struct(ctx, i); err != nil {
		return errors.WithStack(err)
	}

	if err := defaults.Set(i); err != nil {
		return errors.WithStack(err)
	}

	if err := b.validate.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) || len(errs) == 0 {
			return errors.WithStack(err)
		}
		return errcodes.ValidationError(errs[0].Field(), formatValidationError(errs[0]))
	}
	return nil
}
