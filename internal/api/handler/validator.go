package handler

import (
	"errors"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/cse-motors/dealership/internal/core/domain"
)

const (
	firstVehicleYear = 1886

	// bcrypt ignores or rejects anything past 72 bytes.
	maxPasswordBytes = 72
	// inv_price is NUMERIC(12,2).
	maxPrice = 9999999999.99
)

var (
	vehicleNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9\s\-]{1,}$`)
	imagePathPattern   = regexp.MustCompile(`^(/images/vehicles/.+|https?://.+)$`)
	colorPattern       = regexp.MustCompile(`^[A-Za-z]+(?:\s[A-Za-z]+)*$`)
	lettersPattern     = regexp.MustCompile(`^[A-Za-z]+$`)
)

// messages maps "<form field>.<tag>" to the text shown next to the form.
// "<form field>" alone is the fallback for any other tag on that field.
var messages = map[string]string{
	"account_firstname.max":        "First name must be 100 characters or fewer.",
	"account_firstname":            "Please provide a first name.",
	"account_lastname.max":         "Last name must be 100 characters or fewer.",
	"account_lastname":             "Please provide a last name.",
	"account_email.max":            "Email must be 255 characters or fewer.",
	"account_email":                "A valid email is required.",
	"account_password.required":    "Password is required.",
	"account_password.nospaces":    "Password cannot contain spaces.",
	"account_password":             "Password does not meet requirements.",
	"account_id":                   "Invalid account id.",
	"classification_name.required": "Classification name is required.",
	"classification_name.max":      "Classification name must be 64 characters or fewer.",
	"classification_name":          "Only letters allowed, no spaces.",
	"inv_id":                       "Invalid vehicle id.",
	"inv_make.required":            "Make is required.",
	"inv_make.max":                 "Make must be 64 characters or fewer.",
	"inv_make":                     "Invalid make.",
	"inv_model.required":           "Model is required.",
	"inv_model.max":                "Model must be 64 characters or fewer.",
	"inv_model":                    "Invalid model.",
	"classification_id.required":   "Classification is required.",
	"classification_id":            "Invalid classification.",
	"inv_description.required":     "Description is required.",
	"inv_description":              "Description must be at least 10 characters.",
	"inv_image":                    "Provide a valid image path or URL.",
	"inv_thumbnail":                "Provide a valid thumbnail path or URL.",
	"inv_price.required":           "Price is required.",
	"inv_price":                    "Price must be a positive number.",
	"inv_year.required":            "Year is required.",
	"inv_year":                     "Year out of range.",
	"inv_miles.required":           "Miles is required.",
	"inv_miles":                    "Miles must be a non-negative integer.",
	"inv_color.required":           "Color is required.",
	"inv_color.max":                "Color must be 64 characters or fewer.",
	"inv_color":                    "Color must be alphabetic.",
}

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
// Field names come from the `form` tag so errors line up with form inputs.
type echoValidator struct {
	v   *validator.Validate
	now func() time.Time
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	ev := &echoValidator{v: validator.New(validator.WithRequiredStructEnabled()), now: time.Now}

	ev.v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		"nospaces":       noSpaces,
		"strongpassword": strongPassword,
		"letters":        matches(lettersPattern),
		"vehiclename":    matches(vehicleNamePattern),
		"imagepath":      matches(imagePathPattern),
		"color":          matches(colorPattern),
		"positiveid":     positiveID,
		"money":          money,
		"count":          count,
		"vehicleyear":    ev.vehicleYear,
	}
	for tag, fn := range rules {
		if err := ev.v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	return ev
}

// Validate satisfies the echo.Validator interface. Rule failures come back
// as *domain.ValidationError in struct field order.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := &domain.ValidationError{}
	for _, fe := range ve {
		out.Fields = append(out.Fields, domain.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[fe.Field()]; ok {
		return msg
	}
	return fe.Field() + " is invalid."
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func noSpaces(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

// strongPassword requires 12+ characters with at least one upper, lower,
// digit and symbol, and no more than maxPasswordBytes bytes.
func strongPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len([]rune(s)) < 12 || len(s) > maxPasswordBytes {
		return false
	}
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsSpace(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

func positiveID(fl validator.FieldLevel) bool {
	_, ok := parseID(fl.Field().String())
	return ok
}

func money(fl validator.FieldLevel) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(fl.Field().String()), 64)
	return err == nil && !math.IsNaN(f) && f >= 0 && f <= maxPrice
}

// count accepts whole numbers that fit an INTEGER column.
func count(fl validator.FieldLevel) bool {
	n, err := strconv.ParseInt(strings.TrimSpace(fl.Field().String()), 10, 32)
	return err == nil && n >= 0
}

func (ev *echoValidator) vehicleYear(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	return err == nil && n >= firstVehicleYear && n <= ev.now().Year()+1
}
