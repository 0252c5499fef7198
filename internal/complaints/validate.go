package complaints

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// ValidationError reports every violated field at once, keyed by the JSON
// field name. Validation runs locally before any network call.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

var (
	validate *validator.Validate
	trans    ut.Translator
)

func init() {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ = uni.GetTranslator("en")

	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := entranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		panic(fmt.Sprintf("register validation translations: %v", err))
	}
}

// submission carries the validation rules shared by submit and update.
type submission struct {
	Title       string `json:"title" validate:"required,min=5,max=200"`
	Description string `json:"description" validate:"required,min=20,max=2000"`
	Category    string `json:"category" validate:"required,oneof=Infrastructure Faculty Curriculum Administration Facilities Other"`
}

func (s *submission) normalize() {
	s.Title = strings.TrimSpace(s.Title)
	s.Description = strings.TrimSpace(s.Description)
	s.Category = strings.TrimSpace(s.Category)
}

func (s *submission) validateFields() error {
	s.normalize()

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validate submission: %w", err)
	}

	fields := make(map[string]string, len(errs))
	for _, fieldErr := range errs {
		fields[fieldErr.Field()] = fieldErr.Translate(trans)
	}

	return &ValidationError{Fields: fields}
}

// Validate trims the submitted fields in place and checks them against the
// submission rules, reporting all violations at once.
func (c *SubmitCommand) Validate() error {
	s := submission{Title: c.Title, Description: c.Description, Category: c.Category}
	err := s.validateFields()
	c.Title, c.Description, c.Category = s.Title, s.Description, s.Category
	return err
}

// Validate applies the same rules as submission validation; student
// corrections must satisfy the original bounds.
func (c *UpdateCommand) Validate() error {
	s := submission{Title: c.Title, Description: c.Description, Category: c.Category}
	err := s.validateFields()
	c.Title, c.Description, c.Category = s.Title, s.Description, s.Category
	return err
}
