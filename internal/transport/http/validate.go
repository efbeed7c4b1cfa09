package httptransport

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"flashcard-server-go/internal/platform/errors"
)

// bracketed annotation segments are stripped from constraint messages
// before they reach the wire
var bracketSegment = regexp.MustCompile(`\[(.*?)\]`)

// Validator checks request bodies against their declared constraints and
// translates every violation into one BusinessError. All fields are checked
// in a single pass; nothing short-circuits on the first violation.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	// report fields under their wire names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// uuid4 accepts only canonical version-4 UUIDs
	_ = v.RegisterValidation("uuid4_strict", func(fl validator.FieldLevel) bool {
		value, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		id, err := uuid.Parse(value)
		if err != nil {
			return false
		}
		return id.Version() == 4
	})

	return &Validator{validate: v}
}

// Struct validates s and returns nil or a BusinessError whose field map
// aggregates every violated constraint.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	violations := make([]fieldViolation, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, fieldViolation{
			Field:   fe.Field(),
			Message: constraintMessage(fe),
		})
	}

	messages := aggregateViolations(violations)
	if len(messages) == 0 {
		return nil
	}
	return errors.NewBusiness(messages, 0)
}

type fieldViolation struct {
	Field   string
	Message string
}

// aggregateViolations flattens violations into one message per field.
// Each message loses its first bracketed annotation segment, and multiple
// violations on one field are joined with "|".
func aggregateViolations(violations []fieldViolation) map[string]string {
	messages := make(map[string]string, len(violations))

	for _, violation := range violations {
		cleaned := violation.Message
		// only the first bracketed segment is an annotation; later ones
		// may be part of the message itself
		if loc := bracketSegment.FindStringIndex(cleaned); loc != nil {
			cleaned = strings.TrimSpace(cleaned[:loc[0]] + cleaned[loc[1]:])
		}

		if existing, ok := messages[violation.Field]; ok {
			messages[violation.Field] = existing + "|" + cleaned
		} else {
			messages[violation.Field] = cleaned
		}
	}

	return messages
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " should not be empty"
	case "uuid4_strict":
		return fe.Field() + " must be a valid UUID version 4"
	case "oneof":
		values := strings.ReplaceAll(fe.Param(), " ", ", ")
		return fe.Field() + " must be one of the following values: " + values
	case "max":
		return fmt.Sprintf("%s must be shorter than or equal to %s characters", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}
