package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"net/mail"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type QuestionType string

const (
	QuestionShortText QuestionType = "text"
	QuestionLongText  QuestionType = "textarea"
	QuestionSingle    QuestionType = "radio"
	QuestionMulti     QuestionType = "checkbox"
	QuestionDropdown  QuestionType = "select"
	QuestionNumber    QuestionType = "number"
	QuestionEmail     QuestionType = "email"
	QuestionDate      QuestionType = "date"
)

const (
	AnswerDateLayout    = "2006-01-02"
	MultiValueSeparator = ", "
)

// decimalNumber rejects the hex, NaN and Inf forms strconv also accepts.
var decimalNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// RequiresOptions reports whether the type is answered by picking from Options.
func (t QuestionType) RequiresOptions() bool {
	switch t {
	case QuestionSingle, QuestionMulti, QuestionDropdown:
		return true
	}
	return false
}

func (t QuestionType) IsMultiValue() bool {
	return t == QuestionMulti
}

// IsEmpty reports whether v counts as "no answer" for this type.
func (t QuestionType) IsEmpty(v AnswerValue) bool {
	if t.IsMultiValue() || v.IsList() {
		for _, s := range v.Values() {
			if strings.TrimSpace(s) != "" {
				return false
			}
		}
		return true
	}
	return strings.TrimSpace(v.single) == ""
}

// Validate checks a non-empty answer against the type's format rules.
// Emptiness is checked separately so optional questions can be skipped.
func (t QuestionType) Validate(v AnswerValue, options []string) error {
	if t.IsEmpty(v) {
		return nil
	}
	if v.IsList() && !t.IsMultiValue() {
		return NewValidationError("answer", "expects a single value")
	}

	switch t {
	case QuestionNumber:
		if !IsDecimalNumber(v.single) {
			return NewValidationError("answer", "must be a number")
		}
	case QuestionEmail:
		if !IsEmailAddress(v.single) {
			return NewValidationError("answer", "must be a valid email address")
		}
	case QuestionDate:
		if _, err := time.Parse(AnswerDateLayout, strings.TrimSpace(v.single)); err != nil {
			return NewValidationError("answer", "must be a date in YYYY-MM-DD format")
		}
	case QuestionSingle, QuestionDropdown, QuestionMulti:
		if len(options) == 0 {
			return nil
		}
		for _, s := range v.Values() {
			// List entries are trimmed and blanks dropped on storage.
			if v.IsList() {
				if s = strings.TrimSpace(s); s == "" {
					continue
				}
			}
			if !slices.Contains(options, s) {
				return NewValidationError("answer", fmt.Sprintf("%q is not one of the available options", s))
			}
		}
	}
	return nil
}

func IsDecimalNumber(s string) bool {
	s = strings.TrimSpace(s)
	if !decimalNumber.MatchString(s) {
		return false
	}
	f, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// IsEmailAddress accepts a bare address such as "a@b.com".
func IsEmailAddress(s string) bool {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return false
	}
	return addr.Address == s && strings.Contains(s, "@")
}

type Question struct {
	ID         uuid.UUID      `json:"id" db:"id"`
	SurveyID   uuid.UUID      `json:"survey_id" db:"survey_id"`
	Text       string         `json:"question_text" db:"question_text"`
	Type       QuestionType   `json:"question_type" db:"question_type"`
	Options    pq.StringArray `json:"options" db:"options"`
	IsRequired bool           `json:"is_required" db:"is_required"`
	Position   int            `json:"position" db:"position"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// CheckAnswer applies the required rule and the type's format rules.
func (q *Question) CheckAnswer(v AnswerValue) error {
	if q.IsRequired && q.Type.IsEmpty(v) {
		return NewValidationError("answer", "this question requires an answer")
	}
	return q.Type.Validate(v, q.Options)
}

// AnswerValue is a raw submitted answer: either one string or a list of
// strings for multi-select questions.
type AnswerValue struct {
	single string
	list   []string
	isList bool
}

func SingleAnswer(s string) AnswerValue {
	return AnswerValue{single: s}
}

func MultiAnswer(values ...string) AnswerValue {
	return AnswerValue{list: values, isList: true}
}

func (v AnswerValue) IsList() bool {
	return v.isList
}

func (v AnswerValue) Values() []string {
	if v.isList {
		return v.list
	}
	if v.single == "" {
		return nil
	}
	return []string{v.single}
}

// Normalize returns the stored representation. Lists are joined with
// MultiValueSeparator; use ParseMultiValue to split them back.
func (v AnswerValue) Normalize() string {
	if !v.isList {
		return v.single
	}
	values := make([]string, 0, len(v.list))
	for _, s := range v.list {
		if s = strings.TrimSpace(s); s != "" {
			values = append(values, s)
		}
	}
	return strings.Join(values, MultiValueSeparator)
}

// ParseMultiValue splits a stored multi-choice answer back into its values.
// Options may contain the separator themselves, so at each position the
// longest run of pieces that forms a known option wins; pieces matching no
// option are returned as they are.
func ParseMultiValue(stored string, options []string) []string {
	if stored == "" {
		return nil
	}

	pieces := strings.Split(stored, MultiValueSeparator)
	values := make([]string, 0, len(pieces))
	for i := 0; i < len(pieces); {
		next := i + 1
		for j := len(pieces); j > i+1; j-- {
			if slices.Contains(options, strings.Join(pieces[i:j], MultiValueSeparator)) {
				next = j
				break
			}
		}
		values = append(values, strings.Join(pieces[i:next], MultiValueSeparator))
		i = next
	}
	return values
}

func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	*v = AnswerValue{}
	if string(data) == "null" {
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		v.list = list
		v.isList = true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v.single = s
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		v.single = n.String()
		return nil
	}

	return fmt.Errorf("answer must be a string or a list of strings")
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if v.isList {
		return json.Marshal(v.list)
	}
	return json.Marshal(v.single)
}
