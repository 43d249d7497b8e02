// =============================================================================
// Challan Generator - Instrument Validator
// =============================================================================
//
// This module validates the payment instrument details an operator enters
// for one receipt:
//   - Consumer number: exactly 3 digits
//   - Instrument number: exactly 6 digits, kept as a string
//   - Bank name: letters, spaces and periods only
//   - Instrument type: cheque or demand draft
//   - Instrument date: a real calendar date
//
// VALIDATION STRATEGY:
//   Rules are declared as go-playground/validator struct tags. Every field is
//   checked independently and all violations are reported together, so the
//   operator can correct every field in one pass.
//
// ERROR HANDLING:
//   - A failed validation returns a VALIDATION_ERROR AppError
//   - Each violation carries the field, rule, offending value and a message
//   - An Instrument value can only be produced by a successful Validate
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ginjaninja78/challan-generator/internal/apperror"
	"github.com/go-playground/validator/v10"
)

// DateLayout is the rendering of every date on a receipt.
const DateLayout = "02.01.2006"

// =============================================================================
// INSTRUMENT TYPE
// =============================================================================

// InstrumentType is the kind of payment instrument.
type InstrumentType string

const (
	Cheque      InstrumentType = "Cheque"
	DemandDraft InstrumentType = "Demand Draft"
)

// ParseInstrumentType accepts "cheque", "demand draft" and the aliases
// "dd" and "demand_draft", case-insensitively.
func ParseInstrumentType(s string) (InstrumentType, bool) {
	switch strings.ToLower(strings.Join(strings.Fields(s), " ")) {
	case "cheque", "check", "chq":
		return Cheque, true
	case "demand draft", "demand_draft", "demanddraft", "dd":
		return DemandDraft, true
	default:
		return "", false
	}
}

// =============================================================================
// DATES
// =============================================================================

// dateLayouts are the accepted input forms of a date.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02.01.2006",
	"2.1.2006",
	"02-01-2006",
	"2-1-2006",
	"2006-01-02",
}

// ParseDate parses an operator-entered date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse date '%s' (expected dd/mm/yyyy, dd.mm.yyyy, dd-mm-yyyy or yyyy-mm-dd)", s)
}

// FormatDate renders t as dd.mm.yyyy.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// =============================================================================
// INPUT AND RESULT
// =============================================================================

// Input is the raw instrument data of one receipt.
type Input struct {
	ConsumerNumber   string `json:"consumer_number" validate:"required,digits=3"`
	InstrumentType   string `json:"instrument_type" validate:"required,instrument_type"`
	InstrumentNumber string `json:"instrument_number" validate:"required,digits=6"`
	InstrumentDate   string `json:"instrument_date" validate:"required,date"`
	BankName         string `json:"bank_name" validate:"required,bankname"`
}

// Instrument is a validated Input. The zero value is not valid.
type Instrument struct {
	ConsumerNumber string
	Type           InstrumentType
	Number         string
	Date           time.Time
	BankName       string

	valid bool
}

// Valid reports whether the instrument came from a successful Validate.
func (i Instrument) Valid() bool {
	return i.valid
}

// DateText returns the instrument date as dd.mm.yyyy.
func (i Instrument) DateText() string {
	return FormatDate(i.Date)
}

// =============================================================================
// VALIDATOR
// =============================================================================

var bankNamePattern = regexp.MustCompile(`^[A-Za-z. ]+$`)

// Validator wraps a configured go-playground validator.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// The registrations only fail on empty tags or nil funcs.
	_ = v.RegisterValidation("digits", validateDigits)
	_ = v.RegisterValidation("bankname", validateBankName)
	_ = v.RegisterValidation("instrument_type", validateInstrumentType)
	_ = v.RegisterValidation("date", validateDate)

	return &Validator{validate: v}
}

// Validate checks every field of in and returns the validated instrument.
//
// PARAMETERS:
//   - in: raw operator input; surrounding whitespace is ignored
//
// RETURNS:
//   - Instrument: normalized values, Valid() == true
//   - error: VALIDATION_ERROR listing every violation
func (v *Validator) Validate(in Input) (Instrument, error) {
	in = Input{
		ConsumerNumber:   strings.TrimSpace(in.ConsumerNumber),
		InstrumentType:   strings.TrimSpace(in.InstrumentType),
		InstrumentNumber: strings.TrimSpace(in.InstrumentNumber),
		InstrumentDate:   strings.TrimSpace(in.InstrumentDate),
		BankName:         strings.Join(strings.Fields(in.BankName), " "),
	}

	if err := v.validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return Instrument{}, apperror.NewValidation("instrument validation failed").WithCause(err)
		}
		violations := make([]apperror.Violation, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			violations = append(violations, toViolation(fe))
		}
		return Instrument{}, apperror.NewValidation("instrument details are invalid", violations...)
	}

	instrumentType, _ := ParseInstrumentType(in.InstrumentType)
	date, _ := ParseDate(in.InstrumentDate)

	return Instrument{
		ConsumerNumber: in.ConsumerNumber,
		Type:           instrumentType,
		Number:         in.InstrumentNumber,
		Date:           date,
		BankName:       in.BankName,
		valid:          true,
	}, nil
}

// toViolation turns a validator field error into a readable violation.
func toViolation(fe validator.FieldError) apperror.Violation {
	value := fmt.Sprint(fe.Value())

	var message string
	switch fe.Tag() {
	case "required":
		message = fe.Field() + " is required"
	case "digits":
		message = fmt.Sprintf("%s must be exactly %s digits", fe.Field(), fe.Param())
	case "bankname":
		message = fe.Field() + " may contain only letters, spaces and periods"
	case "instrument_type":
		message = fe.Field() + " must be Cheque or Demand Draft"
	case "date":
		message = fe.Field() + " must be a date (dd/mm/yyyy, dd.mm.yyyy, dd-mm-yyyy or yyyy-mm-dd)"
	default:
		message = fe.Field() + " is invalid"
	}

	return apperror.Violation{
		Field:   fe.Field(),
		Rule:    fe.Tag(),
		Value:   value,
		Message: message,
	}
}

// =============================================================================
// CUSTOM RULES
// =============================================================================

// validateDigits implements "digits=N": exactly N ASCII digits.
func validateDigits(fl validator.FieldLevel) bool {
	want, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	s := fl.Field().String()
	if len(s) != want {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func validateBankName(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return bankNamePattern.MatchString(s) && strings.ContainsFunc(s, func(r rune) bool {
		return r != ' ' && r != '.'
	})
}

func validateInstrumentType(fl validator.FieldLevel) bool {
	_, ok := ParseInstrumentType(fl.Field().String())
	return ok
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}
